package bsale

import (
	"crypto/tls"
	"net/http"
	"net/url"
	"time"

	"github.com/cockroachdb/errors"
	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/stockflow/go-bsale/observability"
)

const (
	// DefaultBaseURL is the Bsale REST API root.
	DefaultBaseURL = "https://api.bsale.io/v1"
	// DefaultCredentialBaseURL is the root of the instance lookup service
	// used by Webhooks.GetInstance.
	DefaultCredentialBaseURL = "https://credential.bsale.io/v1"
	// DefaultTimeout bounds every request.
	DefaultTimeout = 30 * time.Second
)

// Credentials authenticate requests. Only AccessToken is sent; RefreshToken
// is carried for callers that refresh tokens themselves.
type Credentials struct {
	AccessToken  string
	RefreshToken string
	ExpiresAt    time.Time
}

// Expired reports whether the access token is no longer usable at now.
// A token is expired at its expiry instant.
func (c Credentials) Expired(now time.Time) bool {
	return !now.Before(c.ExpiresAt)
}

// Validate implements validation.Validatable.
func (c Credentials) Validate() error {
	//nolint:wrapcheck // validation.Errors is returned as-is so callers can inspect fields
	return validation.ValidateStruct(&c,
		validation.Field(&c.AccessToken, validation.Required),
		validation.Field(&c.ExpiresAt, validation.Required),
	)
}

// ClientConfig configures an Engine and the Client facade.
type ClientConfig struct {
	// Credentials used for every request (required).
	Credentials Credentials

	// BaseURL is the API root (defaults to https://api.bsale.io/v1).
	BaseURL string

	// CredentialBaseURL is the instance lookup root
	// (defaults to https://credential.bsale.io/v1).
	CredentialBaseURL string

	// Timeout bounds each request (defaults to 30 seconds).
	Timeout time.Duration

	// HTTPClient is the HTTP client to use (optional). It is copied, never mutated.
	HTTPClient *http.Client

	// RateLimitPerMinute paces requests client-side. Zero disables pacing.
	RateLimitPerMinute int

	// TLSConfig overrides the transport's TLS settings (optional).
	TLSConfig *tls.Config

	// Logger for observability (optional, uses noop logger if nil)
	Logger observability.Logger

	// Metrics recorder for observability (optional, uses noop recorder if nil)
	Metrics observability.MetricsRecorder
}

// withDefaults returns a copy of cfg with unset fields filled in.
func (cfg ClientConfig) withDefaults() ClientConfig {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.CredentialBaseURL == "" {
		cfg.CredentialBaseURL = DefaultCredentialBaseURL
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = DefaultTimeout
	}
	if cfg.Logger == nil {
		cfg.Logger = observability.NoopLogger()
	}
	if cfg.Metrics == nil {
		cfg.Metrics = observability.NoopMetricsRecorder()
	}
	return cfg
}

// Validate implements validation.Validatable.
func (cfg *ClientConfig) Validate() error {
	//nolint:wrapcheck // validation.Errors is returned as-is so callers can inspect fields
	return validation.ValidateStruct(cfg,
		validation.Field(&cfg.Credentials),
		validation.Field(&cfg.BaseURL, validation.Required, validation.By(absoluteHTTPURL)),
		validation.Field(&cfg.CredentialBaseURL, validation.By(absoluteHTTPURL)),
		validation.Field(&cfg.Timeout, validation.Min(0)),
		validation.Field(&cfg.RateLimitPerMinute, validation.Min(0)),
	)
}

func absoluteHTTPURL(value any) error {
	s, _ := value.(string)
	if s == "" {
		return nil
	}

	u, err := url.Parse(s)
	if err != nil {
		return errors.New("must be a valid URL")
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return errors.New("must be an absolute http or https URL")
	}

	return nil
}
