package httpclient

import "net/http"

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient starts from a shallow copy of client, so installing the
// middleware chain never mutates the caller's value.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		if client != nil {
			clone := *client
			c.base = &clone
		}
	}
}

// WithMiddleware appends to the chain.
//
//	WithMiddleware(A, B, C) sends requests through A -> B -> C -> transport
func WithMiddleware(middleware ...Middleware) Option {
	return func(c *Client) {
		c.middleware = append(c.middleware, middleware...)
	}
}

// WithUserAgent sets the User-Agent of every request.
func WithUserAgent(userAgent string) Option {
	return func(c *Client) {
		c.userAgent = userAgent
	}
}
