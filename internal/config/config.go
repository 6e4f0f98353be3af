package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Config holds clip-service configuration. Provider credentials are explicit
// fields so capability checks are per-instance, not process-wide env lookups.
type Config struct {
	AppEnv   string // APP_ENV
	AppHost  string // APP_HOST
	HTTPPort string // APP_PORT or HTTP_PORT
	LogLevel string // LOG_LEVEL

	// PostgreSQL
	DB struct {
		Host     string
		Port     string
		User     string
		Password string
		Database string
		SSLMode  string
	}

	// Session tokens minted by the external auth service (HS256).
	JWTSecret string

	CORSAllowedOrigins []string

	// TikTok Content API / OAuth
	TikTok struct {
		ClientKey    string
		ClientSecret string
		RedirectURI  string
	}

	// GeeLark cloud-phone automation provider
	Geelark struct {
		BaseURL string
		AppID   string
		APIKey  string
	}

	// S3-compatible object storage for clip uploads
	S3 struct {
		Endpoint      string
		AccessKey     string
		SecretKey     string
		Bucket        string
		Region        string
		UseSSL        bool
		PublicBaseURL string
		UploadTTLSecs int
	}

	// Optional scheduled stats sync; syncs stay admin-triggered when disabled.
	StatsCron struct {
		Enabled  bool
		Schedule string // cron spec, e.g. "0 * * * *"
	}
}

// Load loads config from environment (.env if present).
func Load() (*Config, error) {
	_ = godotenv.Load()

	uploadTTL, _ := strconv.Atoi(getEnv("S3_UPLOAD_TTL_SECONDS", "900"))
	useSSL, _ := strconv.ParseBool(getEnv("S3_USE_SSL", "true"))
	cronEnabled, _ := strconv.ParseBool(getEnv("STATS_CRON_ENABLED", "false"))

	cfg := &Config{
		AppEnv:    getEnv("APP_ENV", "development"),
		AppHost:   getEnv("APP_HOST", "0.0.0.0"),
		HTTPPort:  firstEnv("APP_PORT", "HTTP_PORT", "8080"),
		LogLevel:  getEnv("LOG_LEVEL", "info"),
		JWTSecret: getEnv("JWT_SECRET", ""),
	}
	if origins := getEnv("CORS_ALLOWED_ORIGINS", ""); origins != "" {
		for _, o := range strings.Split(origins, ",") {
			if o = strings.TrimSpace(o); o != "" {
				cfg.CORSAllowedOrigins = append(cfg.CORSAllowedOrigins, o)
			}
		}
	}
	cfg.DB.Host = getEnv("DB_HOST", "localhost")
	cfg.DB.Port = getEnv("DB_PORT", "5432")
	cfg.DB.User = getEnv("DB_USER", "postgres")
	cfg.DB.Password = getEnv("DB_PASSWORD", "postgres")
	cfg.DB.Database = getEnv("DB_DATABASE", "clip_service")
	cfg.DB.SSLMode = getEnv("DB_SSLMODE", "disable")

	cfg.TikTok.ClientKey = getEnv("TIKTOK_CLIENT_KEY", "")
	cfg.TikTok.ClientSecret = getEnv("TIKTOK_CLIENT_SECRET", "")
	cfg.TikTok.RedirectURI = getEnv("TIKTOK_REDIRECT_URI", "")

	cfg.Geelark.BaseURL = getEnv("GEELARK_BASE_URL", "https://openapi.geelark.com")
	cfg.Geelark.AppID = getEnv("GEELARK_APP_ID", "")
	cfg.Geelark.APIKey = getEnv("GEELARK_API_KEY", "")

	cfg.S3.Endpoint = getEnv("S3_ENDPOINT", "")
	cfg.S3.AccessKey = getEnv("S3_ACCESS_KEY", "")
	cfg.S3.SecretKey = getEnv("S3_SECRET_KEY", "")
	cfg.S3.Bucket = getEnv("S3_BUCKET", "clips")
	cfg.S3.Region = getEnv("S3_REGION", "us-east-1")
	cfg.S3.UseSSL = useSSL
	cfg.S3.PublicBaseURL = getEnv("S3_PUBLIC_BASE_URL", "")
	cfg.S3.UploadTTLSecs = uploadTTL

	cfg.StatsCron.Enabled = cronEnabled
	cfg.StatsCron.Schedule = getEnv("STATS_CRON_SCHEDULE", "0 * * * *")

	return cfg, nil
}

// Validate checks required fields and production safety.
func (c *Config) Validate() error {
	if c.DB.Host == "" {
		return errors.New("config: DB_HOST is required")
	}
	if c.DB.User == "" {
		return errors.New("config: DB_USER is required")
	}
	if c.DB.Database == "" {
		return errors.New("config: DB_DATABASE is required")
	}
	if c.JWTSecret == "" {
		return errors.New("config: JWT_SECRET is required")
	}
	if c.AppEnv == "production" && c.DB.Password == "" {
		return errors.New("config: in production DB_PASSWORD is required")
	}
	if c.StatsCron.Enabled && c.StatsCron.Schedule == "" {
		return errors.New("config: STATS_CRON_SCHEDULE is required when cron is enabled")
	}
	return nil
}

// TikTokConfigured reports whether OAuth-based flows can be offered.
// When false the UI falls back to manual account entry.
func (c *Config) TikTokConfigured() bool {
	return c.TikTok.ClientKey != "" && c.TikTok.ClientSecret != ""
}

// GeelarkConfigured reports whether publish tasks and device sync are available.
func (c *Config) GeelarkConfigured() bool {
	return c.Geelark.AppID != "" && c.Geelark.APIKey != ""
}

// S3Configured reports whether presigned uploads are available.
func (c *Config) S3Configured() bool {
	return c.S3.Endpoint != "" && c.S3.AccessKey != "" && c.S3.SecretKey != ""
}

// DSN returns the PostgreSQL connection string for GORM.
func (c *Config) DSN() string {
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.DB.Host, c.DB.Port, c.DB.User, c.DB.Password, c.DB.Database, c.DB.SSLMode)
}

// DatabaseURL returns a postgres URL for golang-migrate.
func (c *Config) DatabaseURL() string {
	pass := url.QueryEscape(c.DB.Password)
	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=%s",
		c.DB.User, pass, c.DB.Host, c.DB.Port, c.DB.Database, c.DB.SSLMode)
}

// Addr returns the listen address for the HTTP server.
func (c *Config) Addr() string {
	return c.AppHost + ":" + c.HTTPPort
}

func firstEnv(keysAndDef ...string) string {
	if len(keysAndDef) == 0 {
		return ""
	}
	def := keysAndDef[len(keysAndDef)-1]
	keys := keysAndDef[:len(keysAndDef)-1]
	for _, k := range keys {
		if v := os.Getenv(k); v != "" {
			return v
		}
	}
	return def
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
