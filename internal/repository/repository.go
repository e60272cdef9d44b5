// Package repository describes how entities map onto relational tables. The
// concrete store lives in the sqlite subpackage.
package repository

import (
	"database/sql"

	"portfolio-api/internal/domain"
)

// Fields is a partial field map used both as a filter (Get, GetFiltered) and
// as a patch set (Update, Create). Keys must name columns of the schema.
type Fields map[string]any

// Row is the subset of sql.Row/sql.Rows needed to scan one entity.
type Row interface {
	Scan(dest ...any) error
}

// Schema describes one entity's table: its DDL, the public columns that
// follow the shared id/created_at/updated_at triplet, and how to scan a full
// row back into the entity.
type Schema[T any] struct {
	Table   string
	DDL     []string
	Columns []string
	Scan    func(Row) (*T, error)
}

// HasColumn reports whether name is a patchable/filterable column.
func (s Schema[T]) HasColumn(name string) bool {
	if name == "id" {
		return true
	}
	for _, col := range s.Columns {
		if col == name {
			return true
		}
	}
	return false
}

var Users = Schema[domain.User]{
	Table: "user",
	DDL: []string{`
CREATE TABLE IF NOT EXISTS user (
	id TEXT PRIMARY KEY NOT NULL,
	created_at DATETIME NOT NULL,
	updated_at DATETIME NOT NULL,
	email TEXT NOT NULL,
	password TEXT NOT NULL
);
`},
	Columns: []string{"email", "password"},
	Scan: func(row Row) (*domain.User, error) {
		var u domain.User
		if err := row.Scan(&u.ID, &u.CreatedAt, &u.UpdatedAt, &u.Email, &u.Password); err != nil {
			return nil, err
		}
		return &u, nil
	},
}

var Projects = Schema[domain.Project]{
	Table: "projects",
	DDL: []string{`
CREATE TABLE IF NOT EXISTS projects (
	id TEXT PRIMARY KEY NOT NULL,
	created_at DATETIME NOT NULL,
	updated_at DATETIME NOT NULL,
	name TEXT NOT NULL,
	description TEXT NOT NULL,
	url TEXT,
	image TEXT
);
`},
	Columns: []string{"name", "description", "url", "image"},
	Scan: func(row Row) (*domain.Project, error) {
		var (
			p          domain.Project
			url, image sql.NullString
		)
		if err := row.Scan(&p.ID, &p.CreatedAt, &p.UpdatedAt, &p.Name, &p.Description, &url, &image); err != nil {
			return nil, err
		}
		p.URL = url.String
		p.Image = image.String
		return &p, nil
	},
}

var Companies = Schema[domain.Company]{
	Table: "companies",
	DDL: []string{`
CREATE TABLE IF NOT EXISTS companies (
	id TEXT PRIMARY KEY NOT NULL,
	created_at DATETIME NOT NULL,
	updated_at DATETIME NOT NULL,
	name TEXT NOT NULL,
	description TEXT NOT NULL
);
`},
	Columns: []string{"name", "description"},
	Scan: func(row Row) (*domain.Company, error) {
		var c domain.Company
		if err := row.Scan(&c.ID, &c.CreatedAt, &c.UpdatedAt, &c.Name, &c.Description); err != nil {
			return nil, err
		}
		return &c, nil
	},
}

var InvalidTokens = Schema[domain.InvalidToken]{
	Table: "invalid_tokens",
	DDL: []string{`
CREATE TABLE IF NOT EXISTS invalid_tokens (
	id TEXT PRIMARY KEY NOT NULL,
	created_at DATETIME NOT NULL,
	updated_at DATETIME NOT NULL,
	jti TEXT NOT NULL
);
`, `
CREATE INDEX IF NOT EXISTS idx_invalid_tokens_jti ON invalid_tokens (jti);
`},
	Columns: []string{"jti"},
	Scan: func(row Row) (*domain.InvalidToken, error) {
		var t domain.InvalidToken
		if err := row.Scan(&t.ID, &t.CreatedAt, &t.UpdatedAt, &t.JTI); err != nil {
			return nil, err
		}
		return &t, nil
	},
}
