package config_test

import (
	"testing"

	qt "github.com/frankban/quicktest"

	"portfolio-api/internal/config"
)

func TestLoadDefaults(t *testing.T) {
	c := qt.New(t)

	cfg, err := config.Load()
	c.Assert(err, qt.IsNil)

	c.Assert(cfg.Server.Addr, qt.Equals, "0.0.0.0:8080")
	c.Assert(cfg.Database.Path, qt.Equals, "data/portfolio.db")
	c.Assert(cfg.Upload.Dir, qt.Equals, "data/uploads")
	c.Assert(cfg.Auth.TokenTTLMinutes, qt.Equals, 21600)
	c.Assert(cfg.Storage.Backend, qt.Equals, "local")
	c.Assert(cfg.Storage.Region, qt.Equals, "us-east-1")
	c.Assert(cfg.Log.Level, qt.Equals, "info")
}

func TestLoadFromEnvironment(t *testing.T) {
	c := qt.New(t)

	t.Setenv("PORTFOLIO_SERVER_ADDR", "127.0.0.1:9000")
	t.Setenv("PORTFOLIO_AUTH_JWTSECRET", "sekrit")
	t.Setenv("PORTFOLIO_ADMIN_EMAIL", "admin@example.com")
	t.Setenv("PORTFOLIO_STORAGE_BACKEND", "s3")
	t.Setenv("PORTFOLIO_STORAGE_BUCKET", "images")

	cfg, err := config.Load()
	c.Assert(err, qt.IsNil)

	c.Assert(cfg.Server.Addr, qt.Equals, "127.0.0.1:9000")
	c.Assert(cfg.Auth.JWTSecret, qt.Equals, "sekrit")
	c.Assert(cfg.Admin.Email, qt.Equals, "admin@example.com")
	c.Assert(cfg.Storage.Backend, qt.Equals, "s3")
	c.Assert(cfg.Storage.Bucket, qt.Equals, "images")
}
