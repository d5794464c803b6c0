// Package observability provides interfaces for logging and metrics collection
// in the go-bsale library.
//
// This package defines standard interfaces that allow users to integrate their
// own logging and metrics implementations with the Bsale API client.
//
// # Logger Interface
//
// The Logger interface supports structured logging with key-value pairs:
//
//	client, err := bsale.NewWithConfig(&bsale.ClientConfig{
//		Credentials: creds,
//		Logger:      observability.NewZerologLogger(zerolog.New(os.Stderr)),
//	})
//
// Adapters are included for zerolog (NewZerologLogger) and hclog
// (NewHCLogger). Any other library can be wired by implementing Logger.
//
// # MetricsRecorder Interface
//
// Tracked metrics include:
//   - HTTP request count, status codes, and duration (paths are normalized,
//     so /products/42.json is recorded as /products/:id.json)
//   - Client-side rate limiting waits
//   - Transport error occurrences
//
// # Default Behavior
//
// If no logger or metrics recorder is provided, the client uses no-op
// implementations that discard all events.
//
// Access tokens are never passed to the logger.
package observability
