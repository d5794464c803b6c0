package middleware

import (
	"crypto/tls"
	"net/http"
)

// TLSConfig returns a middleware that installs config on the innermost
// *http.Transport. It must be the last middleware in the chain. When the
// next round tripper is not an *http.Transport a clone of
// http.DefaultTransport is used instead.
//
// A config without MinVersion is upgraded to TLS 1.2, the minimum the Bsale
// API accepts.
func TLSConfig(config *tls.Config) func(http.RoundTripper) http.RoundTripper {
	return func(next http.RoundTripper) http.RoundTripper {
		if config == nil {
			return next
		}

		transport, ok := next.(*http.Transport)
		if !ok {
			defaultTransport, ok := http.DefaultTransport.(*http.Transport)
			if !ok {
				return next
			}
			transport = defaultTransport.Clone()
			transport.ForceAttemptHTTP2 = true
		} else {
			transport = transport.Clone()
		}

		cfg := config.Clone()
		if cfg.MinVersion == 0 {
			cfg.MinVersion = tls.VersionTLS12
		}

		transport.TLSClientConfig = cfg

		return transport
	}
}
