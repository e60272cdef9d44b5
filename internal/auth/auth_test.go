package auth_test

import (
	"context"
	"errors"
	"net/http"
	"path/filepath"
	"testing"
	"time"

	qt "github.com/frankban/quicktest"
	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"portfolio-api/internal/apperr"
	"portfolio-api/internal/auth"
	"portfolio-api/internal/domain"
	"portfolio-api/internal/repository"
	"portfolio-api/internal/repository/sqlite"
)

func newService(t *testing.T) (*auth.Service, *domain.User) {
	t.Helper()
	c := qt.New(t)

	db, err := sqlite.Open(filepath.Join(t.TempDir(), "auth.db"))
	c.Assert(err, qt.IsNil)
	t.Cleanup(func() { db.Close() })

	users := sqlite.NewStore(db, repository.Users,
		sqlite.WithTransform[domain.User]("password", auth.HashPassword))
	tokens := sqlite.NewStore(db, repository.InvalidTokens)

	ctx := context.Background()
	c.Assert(users.Init(ctx), qt.IsNil)
	c.Assert(tokens.Init(ctx), qt.IsNil)

	user, err := users.Create(ctx, repository.Fields{"email": "a@b.com", "password": "secret"})
	c.Assert(err, qt.IsNil)

	return auth.NewService(users, tokens), user
}

func TestAuthenticate(t *testing.T) {
	tests := []struct {
		name     string
		email    string
		password string
		wantErr  string
	}{
		{
			name:     "valid credentials",
			email:    "a@b.com",
			password: "secret",
		},
		{
			name:     "wrong password",
			email:    "a@b.com",
			password: "nope",
			wantErr:  "invalid password",
		},
		{
			name:     "unknown email",
			email:    "missing@b.com",
			password: "secret",
			wantErr:  "email not registered",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := qt.New(t)
			svc, seeded := newService(t)

			user, err := svc.Authenticate(context.Background(), tt.email, tt.password)
			if tt.wantErr == "" {
				c.Assert(err, qt.IsNil)
				c.Assert(user.ID, qt.Equals, seeded.ID)
				return
			}

			var ae *apperr.Error
			c.Assert(errors.As(err, &ae), qt.IsTrue)
			c.Assert(ae.Code, qt.Equals, http.StatusBadRequest)
			c.Assert(ae.Payload["error"], qt.Equals, tt.wantErr)
		})
	}
}

func TestRevocation(t *testing.T) {
	c := qt.New(t)
	svc, _ := newService(t)
	ctx := context.Background()

	revoked, err := svc.IsRevoked(ctx, "some-jti")
	c.Assert(err, qt.IsNil)
	c.Assert(revoked, qt.IsFalse)

	c.Assert(svc.Revoke(ctx, "some-jti"), qt.IsNil)

	revoked, err = svc.IsRevoked(ctx, "some-jti")
	c.Assert(err, qt.IsNil)
	c.Assert(revoked, qt.IsTrue)
}

func TestTokenRoundTrip(t *testing.T) {
	c := qt.New(t)
	manager := auth.NewTokenManager("test-secret", time.Minute)

	token, err := manager.Issue("user-123")
	c.Assert(err, qt.IsNil)
	c.Assert(token, qt.Not(qt.Equals), "")

	claims, err := manager.Parse(token)
	c.Assert(err, qt.IsNil)
	c.Assert(claims.Subject, qt.Equals, "user-123")
	c.Assert(claims.ID, qt.Not(qt.Equals), "")
}

func TestTokenUniqueJTI(t *testing.T) {
	c := qt.New(t)
	manager := auth.NewTokenManager("test-secret", time.Minute)

	first, err := manager.Issue("user-123")
	c.Assert(err, qt.IsNil)
	second, err := manager.Issue("user-123")
	c.Assert(err, qt.IsNil)

	firstClaims, err := manager.Parse(first)
	c.Assert(err, qt.IsNil)
	secondClaims, err := manager.Parse(second)
	c.Assert(err, qt.IsNil)
	c.Assert(firstClaims.ID, qt.Not(qt.Equals), secondClaims.ID)
}

func TestTokenExpired(t *testing.T) {
	c := qt.New(t)
	manager := auth.NewTokenManager("test-secret", -time.Minute)

	token, err := manager.Issue("user-123")
	c.Assert(err, qt.IsNil)

	_, err = manager.Parse(token)
	c.Assert(errors.Is(err, jwt.ErrTokenExpired), qt.IsTrue)
}

func TestTokenWrongSecret(t *testing.T) {
	c := qt.New(t)

	token, err := auth.NewTokenManager("one-secret", time.Minute).Issue("user-123")
	c.Assert(err, qt.IsNil)

	_, err = auth.NewTokenManager("other-secret", time.Minute).Parse(token)
	c.Assert(err, qt.IsNotNil)
}

func TestHashPassword(t *testing.T) {
	c := qt.New(t)

	hash, err := auth.HashPassword("secret")
	c.Assert(err, qt.IsNil)
	c.Assert(hash, qt.Not(qt.Equals), "secret")
	c.Assert(bcrypt.CompareHashAndPassword([]byte(hash), []byte("secret")), qt.IsNil)
}
