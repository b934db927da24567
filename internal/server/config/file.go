package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/dmitrijs2005/filehost/internal/timex"
)

// FileConfig is the on-disk shape of the config file. Durations accept
// both "90m" strings and integer nanoseconds (JSON only). Fields left out
// of the file keep their previous values.
//
// Example (TOML):
//
//	host = "0.0.0.0"
//	port = 8080
//	database_url = "postgres://filehost:filehost@db:5432/filehost?sslmode=disable"
//	secret_key = "change-me"
//	token_max_age = "60m"
//	upload_dir = "/var/lib/filehost/uploads"
type FileConfig struct {
	Host              string         `json:"host" toml:"host"`
	Port              int            `json:"port" toml:"port"`
	DatabaseURL       string         `json:"database_url" toml:"database_url"`
	SecretKey         string         `json:"secret_key" toml:"secret_key"`
	TokenMaxAge       timex.Duration `json:"token_max_age" toml:"token_max_age"`
	UploadDir         string         `json:"upload_dir" toml:"upload_dir"`
	LogBackend        string         `json:"log_backend" toml:"log_backend"`
	LogLevel          string         `json:"log_level" toml:"log_level"`
	ReconcileInterval timex.Duration `json:"reconcile_interval" toml:"reconcile_interval"`
	ReconcileGrace    timex.Duration `json:"reconcile_grace" toml:"reconcile_grace"`
}

// parseFile decodes path as TOML when it has a .toml extension and as JSON
// otherwise, and copies the set fields into config.
func parseFile(config *Config, path string) error {
	c := &FileConfig{}

	if strings.EqualFold(filepath.Ext(path), ".toml") {
		if _, err := toml.DecodeFile(path, c); err != nil {
			return fmt.Errorf("config file %s: %w", path, err)
		}
	} else {
		b, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("config file %s: %w", path, err)
		}
		if err := json.Unmarshal(b, c); err != nil {
			return fmt.Errorf("config file %s: %w", path, err)
		}
	}

	setString(&config.Host, c.Host)
	setString(&config.DatabaseURL, c.DatabaseURL)
	setString(&config.SecretKey, c.SecretKey)
	setString(&config.UploadDir, c.UploadDir)
	setString(&config.LogBackend, c.LogBackend)
	setString(&config.LogLevel, c.LogLevel)
	if c.Port != 0 {
		config.Port = c.Port
	}
	if c.TokenMaxAge.Duration != 0 {
		config.TokenMaxAge = c.TokenMaxAge.Duration
	}
	if c.ReconcileInterval.Duration != 0 {
		config.ReconcileInterval = c.ReconcileInterval.Duration
	}
	if c.ReconcileGrace.Duration != 0 {
		config.ReconcileGrace = c.ReconcileGrace.Duration
	}
	return nil
}

func setString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}
