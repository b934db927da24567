// Package config handles configuration for the server component: defaults,
// a JSON or TOML file overlay, environment variables (optionally from .env)
// and command-line flags, applied in that order.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"net"
	"os"
	"strconv"
	"time"

	"github.com/dmitrijs2005/filehost/internal/flagx"
	"github.com/joho/godotenv"
)

// DefaultSecretKey is the development signing secret. The server logs a
// warning at startup while it is in use.
const DefaultSecretKey = "your_super_secret_key_for_jwt_tokens"

// Config holds runtime settings for the filehost server.
//
// Fields:
//   - Host / Port: bind address of the HTTP API.
//   - DatabaseURL: postgres:// URL (pgx) or sqlite:<path> (modernc sqlite).
//   - SecretKey: HMAC secret for signing JWTs (HS256). Do not use the default in prod.
//   - TokenMaxAge: lifetime of issued session tokens.
//   - UploadDir: flat directory holding uploaded file bytes.
//   - LogBackend / LogLevel: logger implementation ("slog", "zerolog" or "nop") and level.
//   - ReconcileInterval: period of the orphan sweep inside serve; 0 disables it.
//   - ReconcileGrace: minimum age of an unreferenced file before the sweep removes it.
type Config struct {
	Host              string
	Port              int
	DatabaseURL       string
	SecretKey         string
	TokenMaxAge       time.Duration
	UploadDir         string
	LogBackend        string
	LogLevel          string
	ReconcileInterval time.Duration
	ReconcileGrace    time.Duration
}

// LoadDefaults populates Config with development defaults.
// NOTE: the signing secret is insecure and must be overridden in production.
func (c *Config) LoadDefaults() {
	c.Host = "127.0.0.1"
	c.Port = 8080
	c.DatabaseURL = "sqlite:filehost.db"
	c.SecretKey = DefaultSecretKey
	c.TokenMaxAge = 60 * time.Minute
	c.UploadDir = "uploads"
	c.LogBackend = "slog"
	c.LogLevel = "info"
	c.ReconcileInterval = 0
	c.ReconcileGrace = time.Hour
}

// Addr is the host:port the HTTP server binds to.
func (c *Config) Addr() string {
	return net.JoinHostPort(c.Host, strconv.Itoa(c.Port))
}

// UsesDefaultSecret reports whether the insecure development secret is active.
func (c *Config) UsesDefaultSecret() bool {
	return c.SecretKey == DefaultSecretKey
}

// LoadConfig builds a Config from defaults, then overlays the config file
// named by -c/-config, the environment (and a .env file in the working
// directory, if present) and finally the command-line flags in args.
func LoadConfig(args []string) (*Config, error) {
	cfg := &Config{}
	cfg.LoadDefaults()

	if path := flagx.ConfigFileFlag(args); path != "" {
		if err := parseFile(cfg, path); err != nil {
			return nil, err
		}
	}

	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}
	if err := parseEnv(cfg, os.LookupEnv); err != nil {
		return nil, err
	}

	if err := parseFlags(cfg, args); err != nil {
		return nil, err
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	switch {
	case c.Port <= 0 || c.Port > 65535:
		return fmt.Errorf("invalid port %d", c.Port)
	case c.SecretKey == "":
		return errors.New("secret key must not be empty")
	case c.TokenMaxAge <= 0:
		return fmt.Errorf("token max age must be positive, got %s", c.TokenMaxAge)
	case c.UploadDir == "":
		return errors.New("upload dir must not be empty")
	case c.ReconcileInterval < 0 || c.ReconcileGrace < 0:
		return errors.New("reconcile durations must not be negative")
	}
	return nil
}
