package config

import (
	"strings"
	"testing"
)

func TestLoadDefaultsAndValidate(t *testing.T) {
	t.Setenv("JWT_SECRET", "s3cret")
	t.Setenv("DB_PASSWORD", "pw")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("validate: %v", err)
	}
	if cfg.HTTPPort != "8080" {
		t.Fatalf("expected default port 8080, got %s", cfg.HTTPPort)
	}
	if cfg.Geelark.BaseURL != "https://openapi.geelark.com" {
		t.Fatalf("unexpected geelark base url %s", cfg.Geelark.BaseURL)
	}
	if cfg.TikTokConfigured() || cfg.GeelarkConfigured() || cfg.S3Configured() {
		t.Fatal("providers must be off without credentials")
	}
	if cfg.StatsCron.Enabled {
		t.Fatal("stats cron must default to disabled")
	}
}

func TestValidateRequiresJWTSecret(t *testing.T) {
	t.Setenv("JWT_SECRET", "")
	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if err := cfg.Validate(); err == nil || !strings.Contains(err.Error(), "JWT_SECRET") {
		t.Fatalf("expected JWT_SECRET error, got %v", err)
	}
}

func TestCapabilityFlags(t *testing.T) {
	t.Setenv("JWT_SECRET", "s")
	t.Setenv("TIKTOK_CLIENT_KEY", "k")
	t.Setenv("TIKTOK_CLIENT_SECRET", "sec")
	t.Setenv("GEELARK_APP_ID", "app")
	t.Setenv("GEELARK_API_KEY", "key")
	t.Setenv("S3_ENDPOINT", "minio:9000")
	t.Setenv("S3_ACCESS_KEY", "ak")
	t.Setenv("S3_SECRET_KEY", "sk")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if !cfg.TikTokConfigured() || !cfg.GeelarkConfigured() || !cfg.S3Configured() {
		t.Fatalf("expected all providers configured: %+v", cfg)
	}
}

func TestDSNAndDatabaseURL(t *testing.T) {
	t.Setenv("DB_HOST", "db.internal")
	t.Setenv("DB_PORT", "5433")
	t.Setenv("DB_USER", "svc")
	t.Setenv("DB_PASSWORD", "p@ss word")
	t.Setenv("DB_DATABASE", "clips")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	dsn := cfg.DSN()
	if !strings.Contains(dsn, "host=db.internal") || !strings.Contains(dsn, "dbname=clips") {
		t.Fatalf("unexpected dsn: %s", dsn)
	}
	u := cfg.DatabaseURL()
	if !strings.HasPrefix(u, "postgres://svc:") || !strings.Contains(u, "@db.internal:5433/clips") {
		t.Fatalf("unexpected url: %s", u)
	}
	if strings.Contains(u, "p@ss word") {
		t.Fatalf("password must be escaped in url: %s", u)
	}
}

func TestCORSOriginsParsing(t *testing.T) {
	t.Setenv("JWT_SECRET", "s")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://app.example.com, https://admin.example.com ,")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(cfg.CORSAllowedOrigins) != 2 {
		t.Fatalf("expected 2 origins, got %v", cfg.CORSAllowedOrigins)
	}
	if cfg.CORSAllowedOrigins[1] != "https://admin.example.com" {
		t.Fatalf("expected trimmed origin, got %q", cfg.CORSAllowedOrigins[1])
	}
}
