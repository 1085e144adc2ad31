// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package config handles application configuration loading from environment
// variables. It provides a centralized Config struct built once at startup and
// passed by pointer to every component that needs it.
package config

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/sethvargo/go-envconfig"
)

const defaultDBPassword = "changeme"

// Config holds all application configuration values loaded from the environment.
type Config struct {
	// Server settings
	Host      string `env:"APP_HOST, default=0.0.0.0"`
	Port      string `env:"APP_PORT, default=8080"`
	Env       string `env:"APP_ENV, default=development"` // "development", "production", "testing"
	LogLevel  string `env:"LOG_LEVEL, default=info"`
	LogFormat string `env:"LOG_FORMAT"` // "text" or "json"; empty picks by Env

	// PostgreSQL connection
	DBHost     string `env:"POSTGRES_HOST, default=localhost"`
	DBPort     string `env:"POSTGRES_PORT, default=5432"`
	DBUser     string `env:"POSTGRES_USER, default=portfolio"`
	DBPassword string `env:"POSTGRES_PASSWORD, default=changeme"`
	DBName     string `env:"POSTGRES_DB, default=portfolio"`

	// Valkey (Redis-compatible page cache)
	ValkeyHost     string        `env:"VALKEY_HOST, default=localhost"`
	ValkeyPort     string        `env:"VALKEY_PORT, default=6379"`
	ValkeyPassword string        `env:"VALKEY_PASSWORD"`
	PageCacheTTL   time.Duration `env:"PAGE_CACHE_TTL, default=10m"`

	// Admin session signing and lifetime
	SessionSecret string        `env:"SESSION_SECRET"`
	SessionTTL    time.Duration `env:"SESSION_TTL, default=24h"`

	// Fallback admin principal, also the input to `admin provision`.
	AdminUsername string `env:"ADMIN_USERNAME"`
	AdminPassword string `env:"ADMIN_PASSWORD"`

	// Local upload target
	UploadDir       string `env:"UPLOAD_DIR, default=public/uploads"`
	UploadURLPrefix string `env:"UPLOAD_URL_PREFIX, default=/uploads"`
	UploadMaxBytes  int64  `env:"UPLOAD_MAX_BYTES, default=8388608"`

	// Remote blob service (S3-compatible). Enabled when endpoint and keys are set.
	BlobEndpoint  string `env:"BLOB_ENDPOINT"`
	BlobRegion    string `env:"BLOB_REGION, default=auto"`
	BlobAccessKey string `env:"BLOB_ACCESS_KEY"`
	BlobSecretKey string `env:"BLOB_SECRET_KEY"`
	BlobBucket    string `env:"BLOB_BUCKET, default=portfolio-uploads"`
	BlobPublicURL string `env:"BLOB_PUBLIC_URL"`

	// Login attempts allowed per client IP per minute.
	LoginRateLimit int `env:"LOGIN_RATE_LIMIT, default=10"`

	// Public profile shown on the home page.
	Profile Profile
}

// Profile describes the portfolio owner.
type Profile struct {
	Name    string `env:"PROFILE_NAME, default=Portfolio"`
	Title   string `env:"PROFILE_TITLE"`
	Summary string `env:"PROFILE_SUMMARY"`
	Email   string `env:"PROFILE_EMAIL"`
}

// Load reads configuration from the process environment. A .env file in the
// working directory is loaded first when present; variables already set in
// the environment take precedence over it.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}
	return LoadFrom(context.Background(), envconfig.OsLookuper())
}

// LoadFrom decodes configuration from the given lookuper and validates it.
func LoadFrom(ctx context.Context, l envconfig.Lookuper) (*Config, error) {
	var cfg Config
	if err := envconfig.ProcessWith(ctx, &envconfig.Config{
		Target:   &cfg,
		Lookuper: l,
	}); err != nil {
		return nil, fmt.Errorf("process env: %w", err)
	}

	cfg.UploadURLPrefix = "/" + strings.Trim(cfg.UploadURLPrefix, "/")

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	if c.UploadMaxBytes <= 0 {
		return fmt.Errorf("UPLOAD_MAX_BYTES must be positive")
	}
	if c.SessionTTL <= 0 {
		return fmt.Errorf("SESSION_TTL must be positive")
	}
	if c.LoginRateLimit <= 0 {
		return fmt.Errorf("LOGIN_RATE_LIMIT must be positive")
	}

	if c.IsDev() {
		return nil
	}
	if c.SessionSecret == "" {
		return fmt.Errorf("SESSION_SECRET must be set outside development")
	}
	if c.Env == "production" && (c.DBPassword == "" || c.DBPassword == defaultDBPassword) {
		return fmt.Errorf("POSTGRES_PASSWORD must be set in production")
	}
	return nil
}

// DSN returns the PostgreSQL connection string.
func (c *Config) DSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%s/%s?sslmode=disable",
		c.DBUser, c.DBPassword, c.DBHost, c.DBPort, c.DBName,
	)
}

// Addr returns the server listen address (host:port).
func (c *Config) Addr() string {
	return fmt.Sprintf("%s:%s", c.Host, c.Port)
}

// ValkeyAddr returns the Valkey address (host:port).
func (c *Config) ValkeyAddr() string {
	return fmt.Sprintf("%s:%s", c.ValkeyHost, c.ValkeyPort)
}

// IsDev returns true if the application is running in development mode.
func (c *Config) IsDev() bool {
	return c.Env == "development"
}

// BlobEnabled reports whether uploads go to the remote blob service instead
// of the local upload directory.
func (c *Config) BlobEnabled() bool {
	return c.BlobEndpoint != "" && c.BlobAccessKey != "" && c.BlobSecretKey != ""
}

// SessionKey returns the secret used to sign session tokens. Development
// falls back to a fixed key so the app starts without any setup.
func (c *Config) SessionKey() []byte {
	if c.SessionSecret == "" {
		return []byte("portfolio-development-session-key")
	}
	return []byte(c.SessionSecret)
}

// Logger builds the process logger: text output in development, JSON
// otherwise, unless LOG_FORMAT says differently.
func (c *Config) Logger() *slog.Logger {
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.LogLevel)); err != nil {
		level = slog.LevelInfo
	}
	opts := &slog.HandlerOptions{Level: level}

	format := c.LogFormat
	if format == "" {
		format = "json"
		if c.IsDev() {
			format = "text"
		}
	}
	if format == "text" {
		return slog.New(slog.NewTextHandler(os.Stdout, opts))
	}
	return slog.New(slog.NewJSONHandler(os.Stdout, opts))
}
