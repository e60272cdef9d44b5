package domain

import "time"

// Meta carries the identity and timestamp fields shared by every entity.
// ID is assigned once at creation and never changes; UpdatedAt is refreshed
// on every mutation and is always >= CreatedAt.
type Meta struct {
	ID        string
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (m Meta) stamp(dst map[string]any) {
	dst["id"] = m.ID
	dst["created_at"] = m.CreatedAt.Format(time.RFC3339Nano)
	dst["updated_at"] = m.UpdatedAt.Format(time.RFC3339Nano)
}

// User is an account that can log in. Password holds the bcrypt hash and is
// never included in an external representation.
type User struct {
	Meta
	Email    string
	Password string
}

func (u User) Response() map[string]any {
	resp := map[string]any{"email": u.Email}
	u.stamp(resp)
	return resp
}

// Project is a portfolio entry. URL and Image are optional; Image holds the
// filename of the uploaded asset.
type Project struct {
	Meta
	Name        string
	Description string
	URL         string
	Image       string
}

func (p Project) Response() map[string]any {
	resp := map[string]any{
		"name":        p.Name,
		"description": p.Description,
		"url":         nullable(p.URL),
		"image":       nullable(p.Image),
	}
	p.stamp(resp)
	return resp
}

type Company struct {
	Meta
	Name        string
	Description string
}

func (c Company) Response() map[string]any {
	resp := map[string]any{
		"name":        c.Name,
		"description": c.Description,
	}
	c.stamp(resp)
	return resp
}

// InvalidToken is one row of the revocation ledger. A row's existence means
// the access token carrying that jti has been revoked.
type InvalidToken struct {
	Meta
	JTI string
}

func nullable(s string) any {
	if s == "" {
		return nil
	}
	return s
}
