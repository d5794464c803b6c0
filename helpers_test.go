package bsale

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/stockflow/go-bsale/internal/testutil"
)

var testNow = time.Date(2026, time.March, 14, 12, 0, 0, 0, time.UTC)

func validCredentials() Credentials {
	return Credentials{
		AccessToken:  testutil.TestToken,
		RefreshToken: "refresh",
		ExpiresAt:    testNow.Add(time.Hour),
	}
}

// newTestEngine returns an Engine pointed at baseURL with a frozen clock.
func newTestEngine(t *testing.T, baseURL string, opts ...func(*ClientConfig)) *Engine {
	t.Helper()

	cfg := &ClientConfig{
		Credentials:       validCredentials(),
		BaseURL:           baseURL,
		CredentialBaseURL: baseURL,
	}
	for _, opt := range opts {
		opt(cfg)
	}

	engine, err := NewEngine(cfg)
	require.NoError(t, err)
	engine.now = func() time.Time { return testNow }

	return engine
}

// newTestClient returns a Client pointed at baseURL with a frozen clock.
func newTestClient(t *testing.T, baseURL string) *Client {
	t.Helper()

	client, err := NewWithConfig(&ClientConfig{
		Credentials:       validCredentials(),
		BaseURL:           baseURL,
		CredentialBaseURL: baseURL,
	})
	require.NoError(t, err)
	client.engine.now = func() time.Time { return testNow }

	return client
}

// requireKind asserts err is an *Error of kind k and returns it.
func requireKind(t *testing.T, err error, k Kind) *Error {
	t.Helper()

	require.Error(t, err)
	var bErr *Error
	require.ErrorAs(t, err, &bErr)
	require.Equal(t, k, bErr.Kind, "kind (message %q)", bErr.Message)

	return bErr
}
