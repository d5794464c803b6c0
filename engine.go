package bsale

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"reflect"
	"strconv"
	"sync"
	"time"

	"github.com/cockroachdb/errors"

	"github.com/stockflow/go-bsale/internal/httpclient"
	"github.com/stockflow/go-bsale/internal/middleware"
	"github.com/stockflow/go-bsale/internal/query"
	"github.com/stockflow/go-bsale/internal/ratelimit"
)

const userAgent = "go-bsale"

// Params are query parameters. Values are encoded as described on
// query.Encode: scalars as text, slices, maps and structs as compact JSON,
// nil values skipped.
type Params map[string]any

// Request describes one API call.
type Request struct {
	Method string // defaults to GET
	Path   string // appended to the base URL, e.g. "/products.json"
	Params Params
	Body   any // JSON-encoded when non-nil
	Header http.Header

	// baseURL replaces the engine base URL when set.
	baseURL string
	// anonymous requests skip the expiry check and carry no access token.
	anonymous bool
}

// Engine executes authenticated requests against the Bsale API. It is safe
// for concurrent use; resource clients share one Engine.
type Engine struct {
	baseURL           string
	credentialBaseURL string
	timeout           time.Duration
	http              *httpclient.Client

	mu          sync.RWMutex
	credentials Credentials

	now func() time.Time
}

// NewEngine builds an Engine from cfg. Unset fields take their defaults; the
// result is validated before use.
//
// Requests flow through: Observability -> RateLimit -> transport.
func NewEngine(cfg *ClientConfig) (*Engine, error) {
	if cfg == nil {
		return nil, errors.New("config is required")
	}

	c := cfg.withDefaults()
	if err := c.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid client config")
	}

	chain := []httpclient.Middleware{
		middleware.Observability(c.Logger, c.Metrics),
		middleware.RateLimit(middleware.RateLimitConfig{
			Limiter: ratelimit.NewRateLimiter(c.RateLimitPerMinute),
			Logger:  c.Logger,
			Metrics: c.Metrics,
		}),
	}
	if c.TLSConfig != nil {
		chain = append(chain, middleware.TLSConfig(c.TLSConfig))
	}

	return &Engine{
		baseURL:           c.BaseURL,
		credentialBaseURL: c.CredentialBaseURL,
		timeout:           c.Timeout,
		http: httpclient.New(
			httpclient.WithHTTPClient(c.HTTPClient),
			httpclient.WithMiddleware(chain...),
			httpclient.WithUserAgent(userAgent),
		),
		credentials: c.Credentials,
		now:         time.Now,
	}, nil
}

// UpdateCredentials replaces the stored credentials. Requests already in
// flight keep the credentials they started with.
func (e *Engine) UpdateCredentials(creds Credentials) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.credentials = creds
}

// Credentials returns a copy of the stored credentials.
func (e *Engine) Credentials() Credentials {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.credentials
}

// Get issues a GET request and decodes the response into out.
func (e *Engine) Get(ctx context.Context, path string, params Params, out any) error {
	return e.Do(ctx, &Request{Method: http.MethodGet, Path: path, Params: params}, out)
}

// Post issues a POST request with body and decodes the response into out.
func (e *Engine) Post(ctx context.Context, path string, body, out any) error {
	return e.Do(ctx, &Request{Method: http.MethodPost, Path: path, Body: body}, out)
}

// Put issues a PUT request with body and decodes the response into out.
func (e *Engine) Put(ctx context.Context, path string, body, out any) error {
	return e.Do(ctx, &Request{Method: http.MethodPut, Path: path, Body: body}, out)
}

// Delete issues a DELETE request and decodes the response into out.
func (e *Engine) Delete(ctx context.Context, path string, out any) error {
	return e.Do(ctx, &Request{Method: http.MethodDelete, Path: path}, out)
}

// Do executes r. A 2xx response body is decoded into out unless out is nil
// or the status is 204. Every failure is an *Error.
func (e *Engine) Do(ctx context.Context, r *Request, out any) error {
	if r == nil {
		return NewError("request is required", nil)
	}

	creds := e.Credentials()
	if !r.anonymous && creds.Expired(e.now()) {
		return NewAuthenticationError("Access token expired. Please refresh.")
	}

	method := r.Method
	if method == "" {
		method = http.MethodGet
	}

	base := e.baseURL
	if r.baseURL != "" {
		base = r.baseURL
	}
	qs, err := query.Encode(r.Params)
	if err != nil {
		return NewError("Failed to encode query parameters", err)
	}
	target := base + r.Path + qs

	payload, err := encodeBody(r.Body)
	if err != nil {
		return NewError("Failed to encode request body", err)
	}

	token := ""
	if !r.anonymous {
		token = creds.AccessToken
	}

	reqCtx, cancel := context.WithTimeout(ctx, e.timeout)
	defer cancel()

	resp, err := e.http.Do(reqCtx, httpclient.Request{
		Method:      method,
		URL:         target,
		Body:        payload,
		AccessToken: token,
		Header:      r.Header,
	})
	if err != nil {
		if errors.Is(err, httpclient.ErrInvalidRequest) {
			return NewError("Failed to build request", err)
		}
		return e.transportError(ctx, reqCtx, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return classifyResponse(resp)
	}

	if resp.StatusCode == http.StatusNoContent {
		return nil
	}

	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		if reqCtx.Err() != nil {
			return e.transportError(ctx, reqCtx, err)
		}
		return NewError("Failed to decode response", err)
	}

	return nil
}

// transportError classifies a failure to complete the exchange. parent is
// the caller's context, reqCtx the one carrying the engine deadline.
func (e *Engine) transportError(parent, reqCtx context.Context, err error) error {
	var classified *Error
	if errors.As(err, &classified) {
		return classified
	}

	switch {
	case parent.Err() != nil:
		return NewNetworkError("Request canceled", err)
	case errors.Is(reqCtx.Err(), context.DeadlineExceeded):
		return NewNetworkError("Request timeout after "+strconv.FormatInt(e.timeout.Milliseconds(), 10)+"ms", err)
	default:
		return NewNetworkError("Network request failed", err)
	}
}

// encodeBody marshals body. Nil and typed nil values mean "no body" and
// yield a nil slice.
func encodeBody(body any) ([]byte, error) {
	if body == nil {
		return nil, nil
	}

	v := reflect.ValueOf(body)
	switch v.Kind() {
	case reflect.Pointer, reflect.Map, reflect.Slice, reflect.Interface:
		if v.IsNil() {
			return nil, nil
		}
	default:
	}

	payload, err := json.Marshal(body)
	if err != nil {
		return nil, errors.Wrap(err, "marshal request body")
	}

	return payload, nil
}

// Get issues a GET request and returns the decoded response.
func Get[T any](ctx context.Context, e *Engine, path string, params Params) (*T, error) {
	return doTyped[T](ctx, e, &Request{Method: http.MethodGet, Path: path, Params: params})
}

// Post issues a POST request and returns the decoded response.
func Post[T any](ctx context.Context, e *Engine, path string, body any) (*T, error) {
	return doTyped[T](ctx, e, &Request{Method: http.MethodPost, Path: path, Body: body})
}

// Put issues a PUT request and returns the decoded response.
func Put[T any](ctx context.Context, e *Engine, path string, body any) (*T, error) {
	return doTyped[T](ctx, e, &Request{Method: http.MethodPut, Path: path, Body: body})
}

// Delete issues a DELETE request and returns the decoded response, which is
// nil when the API answers 204.
func Delete[T any](ctx context.Context, e *Engine, path string) (*T, error) {
	return doTyped[T](ctx, e, &Request{Method: http.MethodDelete, Path: path})
}

// doTyped runs r and returns nil for a 204 or a JSON null body.
func doTyped[T any](ctx context.Context, e *Engine, r *Request) (*T, error) {
	var raw json.RawMessage
	if err := e.Do(ctx, r, &raw); err != nil {
		return nil, err
	}
	if isNullJSON(raw) {
		return nil, nil
	}

	out := new(T)
	if err := json.Unmarshal(raw, out); err != nil {
		return nil, NewError("Failed to decode response", err)
	}

	return out, nil
}

// isNullJSON reports whether raw is empty or the literal null.
func isNullJSON(raw json.RawMessage) bool {
	trimmed := bytes.TrimSpace(raw)
	return len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null"))
}

// Ptr returns a pointer to v. Handy for optional filter fields.
func Ptr[T any](v T) *T {
	return &v
}
