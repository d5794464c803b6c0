package middleware

import (
	"net/http"
	"regexp"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/stockflow/go-bsale/observability"
)

// RequestIDHeader carries the per-request correlation id. Bsale ignores it;
// it exists so log lines from one call can be joined.
const RequestIDHeader = "X-Request-Id"

// Observability returns a middleware that logs and records metrics for HTTP requests.
// The access token never reaches the logger: only method, path, query-less URL
// and status are recorded.
func Observability(logger observability.Logger, metrics observability.MetricsRecorder) func(http.RoundTripper) http.RoundTripper {
	if logger == nil {
		logger = observability.NoopLogger()
	}
	if metrics == nil {
		metrics = observability.NoopMetricsRecorder()
	}

	return func(next http.RoundTripper) http.RoundTripper {
		return &observabilityTransport{
			next:    next,
			logger:  logger,
			metrics: metrics,
		}
	}
}

type observabilityTransport struct {
	next    http.RoundTripper
	logger  observability.Logger
	metrics observability.MetricsRecorder
}

func (t *observabilityTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	start := time.Now()

	requestID := req.Header.Get(RequestIDHeader)
	if requestID == "" {
		requestID = uuid.NewString()
		req = req.Clone(req.Context())
		req.Header.Set(RequestIDHeader, requestID)
	}

	path := normalizePath(req.URL.Path)

	t.logger.Debug("bsale request started",
		observability.F(observability.KeyRequestID, requestID),
		observability.F(observability.KeyMethod, req.Method),
		observability.F(observability.KeyHost, req.URL.Host),
		observability.F(observability.KeyPath, req.URL.Path),
	)

	resp, err := t.next.RoundTrip(req)

	duration := time.Since(start)

	if err != nil {
		t.logger.Error("bsale request failed",
			observability.F(observability.KeyRequestID, requestID),
			observability.F(observability.KeyMethod, req.Method),
			observability.F(observability.KeyPath, path),
			observability.F(observability.KeyDuration, duration),
			observability.F(observability.KeyError, err.Error()),
		)

		t.metrics.RecordError(req.Method+" "+path, "network")

		//nolint:wrapcheck // Observability middleware logs error but passes it through unchanged
		return nil, err
	}

	fields := []observability.Field{
		observability.F(observability.KeyRequestID, requestID),
		observability.F(observability.KeyMethod, req.Method),
		observability.F(observability.KeyPath, path),
		observability.F(observability.KeyStatus, resp.StatusCode),
		observability.F(observability.KeyDuration, duration),
	}

	if resp.StatusCode >= http.StatusBadRequest {
		t.logger.Warn("bsale request completed with error", fields...)
	} else {
		t.logger.Debug("bsale request completed", fields...)
	}

	t.metrics.RecordHTTPRequest(req.Method, path, resp.StatusCode, duration)

	return resp, nil
}

var (
	// numericSegmentPattern matches a numeric path segment followed by
	// ".json", "/" or the end of the path.
	numericSegmentPattern = regexp.MustCompile(`/\d+(\.json|/|$)`)
	// basicTokenPattern matches the instance token of the credential service.
	basicTokenPattern = regexp.MustCompile(`/instances/basic/[^/]+?(\.json)?$`)

	normalizedPathCache sync.Map
)

// normalizePath replaces resource ids and instance tokens with placeholders
// so metrics keep bounded cardinality.
//
//	/v1/products/123.json                          → /v1/products/:id.json
//	/v1/coins/1/exchange_rate/1700000000.json      → /v1/coins/:id/exchange_rate/:id.json
//	/v1/instances/basic/abc123.json                → /v1/instances/basic/:token.json
func normalizePath(path string) string {
	if cached, ok := normalizedPathCache.Load(path); ok {
		//nolint:forcetypeassert // cache only stores strings
		return cached.(string)
	}

	normalized := path
	// Adjacent ids share a slash, so a single pass can miss every other one.
	for {
		next := numericSegmentPattern.ReplaceAllString(normalized, "/:id$1")
		if next == normalized {
			break
		}
		normalized = next
	}

	normalized = basicTokenPattern.ReplaceAllString(normalized, "/instances/basic/:token$1")

	normalizedPathCache.Store(path, normalized)

	return normalized
}
