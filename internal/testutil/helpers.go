// Package testutil provides fake Bsale servers for tests.
package testutil

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
)

// TestToken is the access token fake servers expect by default.
const TestToken = "test-token"

// Response is one canned reply.
type Response struct {
	Body       string
	StatusCode int
	Header     http.Header
}

// NewMockServer returns a server that checks the request path and, when
// accessToken is not empty, the access_token header, then writes body with
// statusCode.
func NewMockServer(t *testing.T, expectedPath, accessToken, body string, statusCode int) *httptest.Server {
	t.Helper()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, expectedPath, r.URL.Path, "request path")
		if accessToken != "" {
			assert.Equal(t, accessToken, r.Header.Get("access_token"), "access_token header")
		}

		write(t, w, Response{Body: body, StatusCode: statusCode})
	}))
	t.Cleanup(srv.Close)

	return srv
}

// NewMockServerMulti routes by URL path. Unknown paths fail the test and
// get a 404.
func NewMockServerMulti(t *testing.T, handlers map[string]http.HandlerFunc) *httptest.Server {
	t.Helper()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		handler, ok := handlers[r.URL.Path]
		if !ok {
			t.Errorf("unexpected request path: %s", r.URL.Path)
			w.WriteHeader(http.StatusNotFound)
			return
		}
		handler(w, r)
	}))
	t.Cleanup(srv.Close)

	return srv
}

// NewMockServerSequence replies with responses in order, one per request.
// It is safe for concurrent requests.
func NewMockServerSequence(t *testing.T, responses []Response) (*httptest.Server, *atomic.Int32) {
	t.Helper()

	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		n := int(calls.Add(1))
		if n > len(responses) {
			t.Errorf("more requests than configured responses (request %d, have %d)", n, len(responses))
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		write(t, w, responses[n-1])
	}))
	t.Cleanup(srv.Close)

	return srv, &calls
}

// WriteJSON encodes v as the response body.
func WriteJSON(t *testing.T, w http.ResponseWriter, statusCode int, v any) {
	t.Helper()

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	assert.NoError(t, json.NewEncoder(w).Encode(v), "write response body")
}

func write(t *testing.T, w http.ResponseWriter, resp Response) {
	t.Helper()

	for key, values := range resp.Header {
		for _, v := range values {
			w.Header().Add(key, v)
		}
	}
	if w.Header().Get("Content-Type") == "" {
		w.Header().Set("Content-Type", "application/json")
	}

	status := resp.StatusCode
	if status == 0 {
		status = http.StatusOK
	}
	w.WriteHeader(status)

	// net/http refuses bodies on these statuses.
	if resp.Body != "" && status != http.StatusNoContent && status != http.StatusNotModified {
		_, err := w.Write([]byte(resp.Body))
		assert.NoError(t, err, "write response body")
	}
}
