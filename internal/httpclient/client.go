// Package httpclient sends JSON requests to the Bsale API through a chain
// of RoundTripper middleware.
package httpclient

import (
	"bytes"
	"context"
	"io"
	"net/http"

	"github.com/cockroachdb/errors"
)

// Header names used by the API.
const (
	HeaderAccessToken = "access_token"
	HeaderAccept      = "Accept"
	HeaderContentType = "Content-Type"
	HeaderUserAgent   = "User-Agent"

	contentTypeJSON = "application/json"
)

// ErrInvalidRequest marks failures to build a request, as opposed to
// failures to exchange it.
var ErrInvalidRequest = errors.New("invalid request")

// Middleware wraps an http.RoundTripper. The first middleware given to the
// client is the outermost.
type Middleware func(http.RoundTripper) http.RoundTripper

// Client sends Requests. It is safe for concurrent use.
type Client struct {
	base       *http.Client
	middleware []Middleware
	userAgent  string
}

// Request is one JSON exchange.
type Request struct {
	Method string
	URL    string

	// Body is sent as-is; nil means no body.
	Body []byte

	// AccessToken is sent in the access_token header when not empty.
	AccessToken string

	// Header entries replace the defaults key by key.
	Header http.Header
}

// New builds a client. The underlying http.Client has no overall timeout:
// deadlines come from the context passed to Do.
func New(opts ...Option) *Client {
	c := &Client{base: &http.Client{}}

	for _, opt := range opts {
		opt(c)
	}

	if len(c.middleware) > 0 {
		transport := c.base.Transport
		if transport == nil {
			transport = http.DefaultTransport
		}
		for i := len(c.middleware) - 1; i >= 0; i-- {
			transport = c.middleware[i](transport)
		}
		c.base.Transport = transport
	}

	return c
}

// Do sends r. Every request accepts JSON; POST, PUT and any request with a
// body also declare a JSON content type. Build failures are marked with
// ErrInvalidRequest; transport failures are returned unwrapped.
func (c *Client) Do(ctx context.Context, r Request) (*http.Response, error) {
	method := r.Method
	if method == "" {
		method = http.MethodGet
	}

	var body io.Reader = http.NoBody
	if r.Body != nil {
		body = bytes.NewReader(r.Body)
	}

	req, err := http.NewRequestWithContext(ctx, method, r.URL, body)
	if err != nil {
		return nil, errors.Mark(errors.Wrap(err, "build request"), ErrInvalidRequest)
	}

	if r.AccessToken != "" {
		req.Header.Set(HeaderAccessToken, r.AccessToken)
	}
	req.Header.Set(HeaderAccept, contentTypeJSON)
	if r.Body != nil || method == http.MethodPost || method == http.MethodPut {
		req.Header.Set(HeaderContentType, contentTypeJSON)
	}
	if c.userAgent != "" {
		req.Header.Set(HeaderUserAgent, c.userAgent)
	}

	for key, values := range r.Header {
		req.Header.Del(key)
		for _, v := range values {
			req.Header.Add(key, v)
		}
	}

	//nolint:wrapcheck // transport errors are classified by the caller
	return c.base.Do(req)
}

// HTTPClient returns the underlying http.Client with the middleware chain
// installed.
func (c *Client) HTTPClient() *http.Client {
	return c.base
}
