package config

import (
	"fmt"
	"strconv"
	"time"
)

// parseEnv overlays settings from environment variables:
//
//	DATABASE_URL  database URL
//	JWT_SECRET    signing secret
//	JWT_MAX_AGE   token lifetime, minutes
//	HOST, PORT    bind address
//	UPLOAD_DIR    upload directory
//	LOG_BACKEND   slog | zerolog
//	LOG_LEVEL     debug | info | warn | error
//
// lookup is os.LookupEnv in production.
func parseEnv(config *Config, lookup func(string) (string, bool)) error {
	str := func(key string, dst *string) {
		if v, ok := lookup(key); ok && v != "" {
			*dst = v
		}
	}

	str("DATABASE_URL", &config.DatabaseURL)
	str("JWT_SECRET", &config.SecretKey)
	str("HOST", &config.Host)
	str("UPLOAD_DIR", &config.UploadDir)
	str("LOG_BACKEND", &config.LogBackend)
	str("LOG_LEVEL", &config.LogLevel)

	if v, ok := lookup("PORT"); ok && v != "" {
		port, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("PORT: %w", err)
		}
		config.Port = port
	}

	if v, ok := lookup("JWT_MAX_AGE"); ok && v != "" {
		minutes, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("JWT_MAX_AGE: %w", err)
		}
		config.TokenMaxAge = time.Duration(minutes) * time.Minute
	}

	return nil
}
