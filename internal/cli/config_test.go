package cli

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	bsale "github.com/stockflow/go-bsale"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "bsale.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

// Tests in this file use t.Setenv and cannot run in parallel.

func TestLoadConfigDefaults(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("HOME", t.TempDir())

	cfg, err := LoadConfig("")
	require.NoError(t, err, "a missing config file is not an error")

	assert.Equal(t, bsale.DefaultBaseURL, cfg.BaseURL)
	assert.Equal(t, bsale.DefaultTimeout, cfg.Timeout)
	assert.Equal(t, "warn", cfg.Log.Level)
	assert.Equal(t, "auto", cfg.Log.Format)
	assert.Empty(t, cfg.AccessToken)
	assert.True(t, cfg.Credentials().ExpiresAt.IsZero())
}

func TestLoadConfigFileAndEnv(t *testing.T) {
	path := writeConfig(t, `
access_token: from-file
refresh_token: refresh
expires_at: "2030-01-02T03:04:05Z"
timeout: 5s
rate_limit: 60
log:
  level: debug
  format: json
`)
	t.Setenv("BSALE_ACCESS_TOKEN", "from-env")
	t.Setenv("BSALE_LOG_LEVEL", "info")

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, "from-env", cfg.AccessToken, "environment overrides the file")
	assert.Equal(t, "info", cfg.Log.Level, "nested keys map to underscored variables")
	assert.Equal(t, "json", cfg.Log.Format)
	assert.Equal(t, 5*time.Second, cfg.Timeout)
	assert.Equal(t, 60, cfg.RateLimit)

	creds := cfg.Credentials()
	assert.Equal(t, "from-env", creds.AccessToken)
	assert.Equal(t, "refresh", creds.RefreshToken)
	assert.Equal(t, time.Date(2030, 1, 2, 3, 4, 5, 0, time.UTC), creds.ExpiresAt.UTC())
}

func TestLoadConfigDiscoversWorkingDirectory(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "bsale.yaml"), []byte("base_url: https://sandbox.example/v1\n"), 0o600))
	t.Chdir(dir)

	cfg, err := LoadConfig("")
	require.NoError(t, err)
	assert.Equal(t, "https://sandbox.example/v1", cfg.BaseURL)
}

func TestLoadConfigErrors(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		missing bool
		want    string
	}{
		{name: "explicit file must exist", missing: true, want: "read config"},
		{name: "bad expiry", body: "expires_at: tomorrow\n", want: "RFC 3339"},
		{name: "bad log level", body: "log:\n  level: loud\n", want: "invalid configuration"},
		{name: "negative rate limit", body: "rate_limit: -1\n", want: "invalid configuration"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "absent.yaml")
			if !tt.missing {
				path = writeConfig(t, tt.body)
			}

			_, err := LoadConfig(path)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}
