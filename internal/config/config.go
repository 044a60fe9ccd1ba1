// Package config provides configuration loading from environment variables.
package config

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/sethvargo/go-envconfig"
)

// Static errors for configuration validation.
var (
	// ErrUnknownDatabaseDriver is returned when DATABASE_DRIVER is not memory, sqlite or postgres.
	ErrUnknownDatabaseDriver = errors.New("config: DATABASE_DRIVER must be memory, sqlite or postgres")
	// ErrDatabaseURLRequired is returned when a SQL driver is selected without DATABASE_URL.
	ErrDatabaseURLRequired = errors.New("config: DATABASE_URL is required for sqlite and postgres")
	// ErrMaxUploadInvalid is returned when MAX_UPLOAD_MB is not positive.
	ErrMaxUploadInvalid = errors.New("config: MAX_UPLOAD_MB must be positive")
)

// Config holds all configuration for the application.
type Config struct {
	// Server settings
	Port           int      `env:"PORT, default=8080" json:"port"`
	AllowedOrigins []string `env:"ALLOWED_ORIGINS, default=*" json:"allowed_origins"`
	MaxUploadMB    int64    `env:"MAX_UPLOAD_MB, default=512" json:"max_upload_mb"`

	// Local files
	TempDir        string `env:"TEMP_DIR, default=/tmp/rehab" json:"temp_dir"`
	LocalStoreDir  string `env:"LOCAL_STORE_DIR, default=/tmp/rehab-objects" json:"local_store_dir"`
	// LocalPublicURL is the base of the URLs recorded for local objects.
	// The server serves the local store under /objects.
	LocalPublicURL string `env:"LOCAL_PUBLIC_URL, default=http://localhost:8080/objects" json:"local_public_url"`

	// Database settings
	DatabaseDriver string `env:"DATABASE_DRIVER, default=memory" json:"database_driver"`
	DatabaseURL    string `env:"DATABASE_URL" json:"-"` // Masked in JSON
	SeedMemberIDs  []uint `env:"SEED_MEMBER_IDS" json:"seed_member_ids"`

	// Object storage settings
	S3Bucket           string `env:"S3_BUCKET, default=rehab" json:"s3_bucket"`
	S3Region           string `env:"S3_REGION, default=kr-standard" json:"s3_region"`
	S3Endpoint         string `env:"S3_ENDPOINT, default=https://kr.object.ncloudstorage.com" json:"s3_endpoint"`
	AWSAccessKeyID     string `env:"AWS_ACCESS_KEY_ID" json:"-"`     // Masked in JSON
	AWSSecretAccessKey string `env:"AWS_SECRET_ACCESS_KEY" json:"-"` // Masked in JSON

	// Logging settings
	LogFormat string `env:"LOG_FORMAT, default=text" json:"log_format"` // "json" or "text"
	LogLevel  string `env:"LOG_LEVEL, default=info" json:"log_level"`   // "debug", "info", "warn", "error"
}

// S3Enabled returns true if credentials for the object store are provided.
// Without them uploads go to the local object store.
func (c *Config) S3Enabled() bool {
	return c.AWSAccessKeyID != "" && c.AWSSecretAccessKey != ""
}

// MaxUploadBytes returns the request body limit for uploads.
func (c *Config) MaxUploadBytes() int64 {
	return c.MaxUploadMB << 20
}

// Load reads configuration from environment variables using go-envconfig.
// A .env file in the working directory is loaded first when present;
// variables already set in the environment take precedence.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("config: load .env: %w", err)
	}
	return load(context.Background(), envconfig.OsLookuper())
}

func load(ctx context.Context, lookuper envconfig.Lookuper) (*Config, error) {
	cfg := &Config{}

	if err := envconfig.ProcessWith(ctx, &envconfig.Config{
		Target:   cfg,
		Lookuper: lookuper,
	}); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	cfg.DatabaseDriver = strings.ToLower(cfg.DatabaseDriver)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks that the configuration is consistent.
func (c *Config) Validate() error {
	switch c.DatabaseDriver {
	case "memory":
	case "sqlite", "postgres":
		if c.DatabaseURL == "" {
			return ErrDatabaseURLRequired
		}
	default:
		return ErrUnknownDatabaseDriver
	}
	if c.MaxUploadMB <= 0 {
		return ErrMaxUploadInvalid
	}
	return nil
}

// NewLogger creates a structured logger based on the configuration.
// When LogFormat is "json", it outputs JSON logs suitable for production.
// Otherwise, it outputs human-readable text logs.
func (c *Config) NewLogger() *slog.Logger {
	level := parseLogLevel(c.LogLevel)

	var handler slog.Handler
	if strings.ToLower(c.LogFormat) == "json" {
		handler = slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
			Level: level,
		})
	} else {
		handler = slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
			Level: level,
		})
	}

	return slog.New(handler)
}

// String returns a string representation of the config with sensitive values masked.
func (c *Config) String() string {
	return fmt.Sprintf(
		"Config{Port: %d, TempDir: %s, DatabaseDriver: %s, S3Bucket: %s, S3Region: %s, S3Endpoint: %s, S3Enabled: %t, LogFormat: %s, LogLevel: %s}",
		c.Port,
		c.TempDir,
		c.DatabaseDriver,
		c.S3Bucket,
		c.S3Region,
		c.S3Endpoint,
		c.S3Enabled(),
		c.LogFormat,
		c.LogLevel,
	)
}

// parseLogLevel converts a string log level to slog.Level.
func parseLogLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
