package middleware_test

import (
	"crypto/tls"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stockflow/go-bsale/internal/middleware"
	"github.com/stockflow/go-bsale/observability"
)

type logEntry struct {
	level  string
	msg    string
	fields map[string]any
}

type recordingLogger struct {
	mu      sync.Mutex
	entries []logEntry
}

func (l *recordingLogger) record(level, msg string, fields []observability.Field) {
	l.mu.Lock()
	defer l.mu.Unlock()

	m := make(map[string]any, len(fields))
	for _, f := range fields {
		m[f.Key] = f.Value
	}
	l.entries = append(l.entries, logEntry{level: level, msg: msg, fields: m})
}

func (l *recordingLogger) Debug(msg string, fields ...observability.Field) {
	l.record("debug", msg, fields)
}

func (l *recordingLogger) Info(msg string, fields ...observability.Field) {
	l.record("info", msg, fields)
}

func (l *recordingLogger) Warn(msg string, fields ...observability.Field) {
	l.record("warn", msg, fields)
}

func (l *recordingLogger) Error(msg string, fields ...observability.Field) {
	l.record("error", msg, fields)
}

func (l *recordingLogger) With(...observability.Field) observability.Logger { return l }

type recordingMetrics struct {
	mu       sync.Mutex
	requests []string
	errors   []string
	waits    []time.Duration
}

func (m *recordingMetrics) RecordHTTPRequest(method, path string, _ int, _ time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.requests = append(m.requests, method+" "+path)
}

func (m *recordingMetrics) RecordRateLimit(_ string, wait time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.waits = append(m.waits, wait)
}

func (m *recordingMetrics) RecordError(operation, errorType string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.errors = append(m.errors, operation+":"+errorType)
}

type failingTransport struct{}

func (failingTransport) RoundTrip(*http.Request) (*http.Response, error) {
	return nil, errors.New("connection refused")
}

func TestTLSConfig(t *testing.T) {
	t.Parallel()

	t.Run("keeps explicit min version", func(t *testing.T) {
		t.Parallel()

		config := &tls.Config{MinVersion: tls.VersionTLS13}
		transport := middleware.TLSConfig(config)(http.DefaultTransport)

		httpTransport, ok := transport.(*http.Transport)
		require.True(t, ok)
		require.NotNil(t, httpTransport.TLSClientConfig)
		assert.Equal(t, uint16(tls.VersionTLS13), httpTransport.TLSClientConfig.MinVersion)
	})

	t.Run("defaults min version without mutating caller config", func(t *testing.T) {
		t.Parallel()

		config := &tls.Config{ServerName: "api.bsale.io"}
		transport := middleware.TLSConfig(config)(http.DefaultTransport)

		httpTransport, ok := transport.(*http.Transport)
		require.True(t, ok)
		assert.Equal(t, uint16(tls.VersionTLS12), httpTransport.TLSClientConfig.MinVersion)
		assert.Equal(t, "api.bsale.io", httpTransport.TLSClientConfig.ServerName)
		assert.Zero(t, config.MinVersion)
	})

	t.Run("nil config passes through", func(t *testing.T) {
		t.Parallel()

		next := failingTransport{}
		assert.Equal(t, next, middleware.TLSConfig(nil)(next))
	})
}

func TestObservability(t *testing.T) {
	t.Parallel()

	var gotRequestID string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotRequestID = r.Header.Get(middleware.RequestIDHeader)
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	logger := &recordingLogger{}
	metrics := &recordingMetrics{}

	transport := middleware.Observability(logger, metrics)(http.DefaultTransport)

	req, err := http.NewRequest(http.MethodGet, server.URL+"/v1/products/42.json", http.NoBody)
	require.NoError(t, err)
	req.Header.Set("access_token", "secret-token")

	resp, err := transport.RoundTrip(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.NotEmpty(t, gotRequestID)
	assert.Empty(t, req.Header.Get(middleware.RequestIDHeader), "caller request must not be mutated")
	assert.Equal(t, []string{"GET /v1/products/:id.json"}, metrics.requests)

	require.Len(t, logger.entries, 2)
	for _, entry := range logger.entries {
		assert.Equal(t, gotRequestID, entry.fields["request_id"])
		for _, v := range entry.fields {
			assert.NotEqual(t, "secret-token", v)
		}
	}
}

func TestObservabilityWarnsOnErrorStatus(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	logger := &recordingLogger{}
	transport := middleware.Observability(logger, nil)(http.DefaultTransport)

	req, err := http.NewRequest(http.MethodGet, server.URL+"/v1/clients/7.json", http.NoBody)
	require.NoError(t, err)

	resp, err := transport.RoundTrip(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	require.Len(t, logger.entries, 2)
	assert.Equal(t, "warn", logger.entries[1].level)
	assert.Equal(t, http.StatusNotFound, logger.entries[1].fields["status"])
}

func TestObservabilityTransportError(t *testing.T) {
	t.Parallel()

	logger := &recordingLogger{}
	metrics := &recordingMetrics{}
	transport := middleware.Observability(logger, metrics)(failingTransport{})

	req, err := http.NewRequest(http.MethodPost, "https://api.bsale.io/v1/documents.json", http.NoBody)
	require.NoError(t, err)

	resp, err := transport.RoundTrip(req)
	require.Error(t, err)
	assert.Nil(t, resp)
	assert.Equal(t, "connection refused", err.Error())
	assert.Equal(t, []string{"POST /v1/documents.json:network"}, metrics.errors)
	assert.Equal(t, "error", logger.entries[len(logger.entries)-1].level)
}

func TestObservabilityWithNilParams(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	transport := middleware.Observability(nil, nil)(http.DefaultTransport)

	req, err := http.NewRequest(http.MethodGet, server.URL, http.NoBody)
	require.NoError(t, err)

	resp, err := transport.RoundTrip(req)
	require.NoError(t, err)
	defer resp.Body.Close()
}
