package config

import (
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseFlags(t *testing.T) {
	tests := []struct {
		expected *Config
		name     string
		args     []string
		wantErr  bool
	}{
		{name: "all flags", args: []string{"serve",
			"-H", "0.0.0.0", "-p", "9090", "-d", "postgres://db", "-s", "secret",
			"-t", "15", "-u", "/data", "-l", "debug", "-b", "zerolog", "-i", "30",
		},
			expected: &Config{
				Host:              "0.0.0.0",
				Port:              9090,
				DatabaseURL:       "postgres://db",
				SecretKey:         "secret",
				TokenMaxAge:       15 * time.Minute,
				UploadDir:         "/data",
				LogLevel:          "debug",
				LogBackend:        "zerolog",
				ReconcileInterval: 30 * time.Minute,
			}},
		{name: "foreign flags are ignored", args: []string{"reconcile", "--dry-run", "-c", "cfg.toml", "-p", "81"},
			expected: &Config{Port: 81}},
		{name: "bad minutes", args: []string{"-t", "ten"}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			config := &Config{}
			err := parseFlags(config, tt.args)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Empty(t, cmp.Diff(tt.expected, config))
		})
	}
}
