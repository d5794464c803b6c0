package bsale

import (
	"crypto/tls"
	"net/http"
	"testing"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCredentialsExpired(t *testing.T) {
	t.Parallel()

	creds := Credentials{AccessToken: "t", ExpiresAt: testNow}

	assert.False(t, creds.Expired(testNow.Add(-time.Nanosecond)))
	assert.True(t, creds.Expired(testNow), "a token is expired at its expiry instant")
	assert.True(t, creds.Expired(testNow.Add(time.Second)))
}

func TestClientConfigValidate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		mutate     func(*ClientConfig)
		wantFields []string
	}{
		{name: "defaults are valid", mutate: func(*ClientConfig) {}},
		{
			name:       "missing token",
			mutate:     func(c *ClientConfig) { c.Credentials.AccessToken = "" },
			wantFields: []string{"Credentials"},
		},
		{
			name:       "relative base url",
			mutate:     func(c *ClientConfig) { c.BaseURL = "api.bsale.io/v1" },
			wantFields: []string{"BaseURL"},
		},
		{
			name:       "ftp credential url",
			mutate:     func(c *ClientConfig) { c.CredentialBaseURL = "ftp://credential.bsale.io" },
			wantFields: []string{"CredentialBaseURL"},
		},
		{
			name:       "negative timeout",
			mutate:     func(c *ClientConfig) { c.Timeout = -time.Second },
			wantFields: []string{"Timeout"},
		},
		{
			name:       "negative rate limit",
			mutate:     func(c *ClientConfig) { c.RateLimitPerMinute = -1 },
			wantFields: []string{"RateLimitPerMinute"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			cfg := ClientConfig{Credentials: validCredentials()}
			tt.mutate(&cfg)
			withDefaults := cfg.withDefaults()

			err := withDefaults.Validate()
			if tt.wantFields == nil {
				require.NoError(t, err)
				return
			}

			var verrs validation.Errors
			require.ErrorAs(t, err, &verrs)
			for _, field := range tt.wantFields {
				assert.Contains(t, verrs, field)
			}
			assert.Len(t, verrs, len(tt.wantFields))
		})
	}
}

func TestClientConfigWithDefaults(t *testing.T) {
	t.Parallel()

	cfg := ClientConfig{Credentials: validCredentials()}
	got := cfg.withDefaults()

	assert.Equal(t, DefaultBaseURL, got.BaseURL)
	assert.Equal(t, DefaultCredentialBaseURL, got.CredentialBaseURL)
	assert.Equal(t, DefaultTimeout, got.Timeout)
	assert.NotNil(t, got.Logger)
	assert.NotNil(t, got.Metrics)
	assert.Empty(t, cfg.BaseURL, "the original is left untouched")
}

func TestNewEngineDoesNotMutateHTTPClient(t *testing.T) {
	t.Parallel()

	custom := &http.Client{Timeout: 5 * time.Second}
	_, err := NewEngine(&ClientConfig{
		Credentials:        validCredentials(),
		HTTPClient:         custom,
		RateLimitPerMinute: 600,
		TLSConfig:          &tls.Config{MinVersion: tls.VersionTLS13},
	})
	require.NoError(t, err)

	assert.Nil(t, custom.Transport)
	assert.Equal(t, 5*time.Second, custom.Timeout)
}
