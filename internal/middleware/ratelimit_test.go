package middleware_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stockflow/go-bsale/internal/middleware"
	"github.com/stockflow/go-bsale/internal/ratelimit"
	"github.com/stockflow/go-bsale/observability"
)

func newOKServer(t *testing.T) *httptest.Server {
	t.Helper()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	t.Cleanup(srv.Close)

	return srv
}

func roundTrip(ctx context.Context, t *testing.T, rt http.RoundTripper, url string) (time.Duration, error) {
	t.Helper()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, http.NoBody)
	require.NoError(t, err)

	start := time.Now()
	resp, err := rt.RoundTrip(req)
	if resp != nil {
		resp.Body.Close()
	}

	return time.Since(start), err
}

func TestRateLimitPacesBeyondBurst(t *testing.T) {
	t.Parallel()

	srv := newOKServer(t)
	metrics := observability.NewMemoryRecorder()

	// 120 per minute: 2 per second with a burst of 2.
	rt := middleware.RateLimit(middleware.RateLimitConfig{
		Limiter: ratelimit.NewRateLimiter(120),
		Metrics: metrics,
	})(http.DefaultTransport)

	for i := range 2 {
		took, err := roundTrip(context.Background(), t, rt, srv.URL+"/v1/stocks.json")
		require.NoError(t, err)
		assert.Less(t, took, 100*time.Millisecond, "request %d is within the burst", i+1)
	}

	took, err := roundTrip(context.Background(), t, rt, srv.URL+"/v1/stocks/12.json")
	require.NoError(t, err)
	assert.GreaterOrEqual(t, took, 300*time.Millisecond, "third request waits for a token")

	assert.Positive(t, metrics.Snapshot().RateLimitWait)
}

func TestRateLimitDisabled(t *testing.T) {
	t.Parallel()

	srv := newOKServer(t)
	rt := middleware.RateLimit(middleware.RateLimitConfig{
		Limiter: ratelimit.NewRateLimiter(0),
	})(http.DefaultTransport)

	assert.Same(t, http.DefaultTransport, rt, "a nil limiter installs nothing")

	for range 5 {
		took, err := roundTrip(context.Background(), t, rt, srv.URL)
		require.NoError(t, err)
		assert.Less(t, took, 100*time.Millisecond)
	}
}

func TestRateLimitHonorsContext(t *testing.T) {
	t.Parallel()

	srv := newOKServer(t)

	// One request per minute, already spent.
	limiter := ratelimit.NewRateLimiter(1)
	require.True(t, limiter.Allow())

	rt := middleware.RateLimit(middleware.RateLimitConfig{Limiter: limiter})(http.DefaultTransport)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	took, err := roundTrip(ctx, t, rt, srv.URL)
	require.Error(t, err)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Less(t, took, time.Second, "the wait is abandoned when the context ends")

	// The reservation was returned, so the limiter is not pushed further out.
	assert.InDelta(t, 0, limiter.Tokens(), 0.1)
}
