package config

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/sethvargo/go-envconfig"
)

func loadFrom(t *testing.T, env map[string]string) (*Config, error) {
	t.Helper()
	return load(context.Background(), envconfig.MapLookuper(env))
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := loadFrom(t, map[string]string{"JWT_SECRET": "s3cret"})
	if err != nil {
		t.Fatalf("load returned error: %v", err)
	}
	if cfg.Port != "8080" || cfg.Env != "development" || cfg.TokenTTL != 24*time.Hour {
		t.Fatalf("unexpected defaults: %+v", cfg)
	}
	if cfg.Mongo.URL != "mongodb://localhost:27017" || cfg.Mongo.Database != "scholarhub" {
		t.Fatalf("unexpected mongo defaults: %+v", cfg.Mongo)
	}
	if cfg.Mongo.ConnectTimeout != 10*time.Second || cfg.Mongo.SocketTimeout != 45*time.Second ||
		cfg.Mongo.MaxPoolSize != 10 || !cfg.Mongo.RetryWrites {
		t.Fatalf("unexpected mongo tuning: %+v", cfg.Mongo)
	}
	if cfg.JWTSecret != "s3cret" {
		t.Fatalf("expected configured secret, got %q", cfg.JWTSecret)
	}
	if len(cfg.CORSOrigins) != 1 || cfg.CORSOrigins[0] != "*" {
		t.Fatalf("unexpected CORS origins: %v", cfg.CORSOrigins)
	}
	if cfg.MaxUploadBytes != 20971520 || cfg.AuditWorkers != 4 {
		t.Fatalf("unexpected limits: %+v", cfg)
	}
}

func TestLoad_LegacyMongoNames(t *testing.T) {
	cfg, err := loadFrom(t, map[string]string{
		"JWT_SECRET": "s3cret",
		"MONGO_URI":  "mongodb://legacy:27017",
		"MONGO_DB":   "legacy_db",
	})
	if err != nil {
		t.Fatalf("load returned error: %v", err)
	}
	if cfg.Mongo.URL != "mongodb://legacy:27017" || cfg.Mongo.Database != "legacy_db" {
		t.Fatalf("expected legacy names to apply, got %+v", cfg.Mongo)
	}

	cfg, err = loadFrom(t, map[string]string{
		"JWT_SECRET": "s3cret",
		"MONGO_URL":  "mongodb://primary:27017",
		"MONGO_URI":  "mongodb://legacy:27017",
		"DB_NAME":    "primary_db",
		"MONGO_DB":   "legacy_db",
	})
	if err != nil {
		t.Fatalf("load returned error: %v", err)
	}
	if cfg.Mongo.URL != "mongodb://primary:27017" || cfg.Mongo.Database != "primary_db" {
		t.Fatalf("expected primary names to win, got %+v", cfg.Mongo)
	}
}

func TestLoad_AdminEmails(t *testing.T) {
	cfg, err := loadFrom(t, map[string]string{"JWT_SECRET": "s3cret", "ADMIN_EMAILS": "a@sxc.edu,b@sxc.edu"})
	if err != nil {
		t.Fatalf("load returned error: %v", err)
	}
	if len(cfg.AdminEmails) != 2 || cfg.AdminEmails[1] != "b@sxc.edu" {
		t.Fatalf("unexpected admin emails: %v", cfg.AdminEmails)
	}
}

func TestLoad_EmptyEnvironmentRequiresSecret(t *testing.T) {
	cfg, err := loadFrom(t, map[string]string{})
	if err == nil {
		t.Fatalf("expected missing JWT_SECRET to fail, got secret %q", cfg.JWTSecret)
	}
	if !strings.Contains(err.Error(), "JWT_SECRET") {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestLoad_ExplicitDevelopmentUsesDevSecret(t *testing.T) {
	cfg, err := loadFrom(t, map[string]string{"ENV": "development"})
	if err != nil {
		t.Fatalf("load returned error: %v", err)
	}
	if !cfg.IsDevelopment() || cfg.JWTSecret != devJWTSecret {
		t.Fatalf("expected development secret, got %+v", cfg)
	}
}

func TestLoad_ProductionRequiresSecret(t *testing.T) {
	if _, err := loadFrom(t, map[string]string{"ENV": "production"}); err == nil {
		t.Fatalf("expected missing JWT_SECRET to fail in production")
	}
	cfg, err := loadFrom(t, map[string]string{"ENV": "production", "JWT_SECRET": "s3cret"})
	if err != nil {
		t.Fatalf("load returned error: %v", err)
	}
	if cfg.IsDevelopment() || cfg.JWTSecret != "s3cret" {
		t.Fatalf("unexpected config: %+v", cfg)
	}
}

func TestLoad_InvalidDuration(t *testing.T) {
	if _, err := loadFrom(t, map[string]string{"JWT_SECRET": "s3cret", "TOKEN_TTL": "soon"}); err == nil {
		t.Fatalf("expected invalid duration to fail")
	}
}
