// Package auth verifies credentials, issues and parses access tokens, and
// keeps the revocation ledger.
package auth

import (
	"context"
	"fmt"

	"golang.org/x/crypto/bcrypt"

	"portfolio-api/internal/apperr"
	"portfolio-api/internal/domain"
	"portfolio-api/internal/repository"
	"portfolio-api/internal/repository/sqlite"
)

// Service validates login credentials and backs the token-revocation check.
type Service struct {
	users  *sqlite.Store[domain.User]
	tokens *sqlite.Store[domain.InvalidToken]
}

func NewService(users *sqlite.Store[domain.User], tokens *sqlite.Store[domain.InvalidToken]) *Service {
	return &Service{users: users, tokens: tokens}
}

// Authenticate looks the user up by email and verifies the password against
// the stored hash.
func (s *Service) Authenticate(ctx context.Context, email, password string) (*domain.User, error) {
	user, err := s.users.Get(ctx, repository.Fields{"email": email})
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, apperr.BadRequest("email not registered")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return nil, apperr.BadRequest("invalid password")
	}
	return user, nil
}

// Revoke appends the jti to the revocation ledger. Rows are never updated or
// removed afterwards.
func (s *Service) Revoke(ctx context.Context, jti string) error {
	_, err := s.tokens.Create(ctx, repository.Fields{"jti": jti})
	return err
}

// IsRevoked reports whether a ledger row exists for the jti. Consulted on
// every authenticated request.
func (s *Service) IsRevoked(ctx context.Context, jti string) (bool, error) {
	row, err := s.tokens.Get(ctx, repository.Fields{"jti": jti})
	if err != nil {
		return false, err
	}
	return row != nil, nil
}

// HashPassword hashes a plaintext password with bcrypt. Registered as the
// store's write transform for the password column.
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(hash), nil
}
