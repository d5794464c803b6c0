package observability

import (
	"maps"
	"strconv"
	"sync"
	"time"
)

// MetricsRecorder receives per-request measurements. Paths are normalized
// (/products/42.json is reported as /products/:id.json), so implementations
// can use them as label values.
type MetricsRecorder interface {
	RecordHTTPRequest(method, path string, statusCode int, duration time.Duration)

	// RecordRateLimit reports time spent waiting on the client-side limiter.
	RecordRateLimit(endpoint string, wait time.Duration)

	// RecordError reports a request that got no response at all.
	RecordError(operation, errorType string)
}

type noopMetricsRecorder struct{}

// NoopMetricsRecorder discards every measurement. It is used when no
// recorder is configured.
//
//nolint:ireturn // returns the interface so it can stand in for any MetricsRecorder
func NoopMetricsRecorder() MetricsRecorder {
	return noopMetricsRecorder{}
}

func (noopMetricsRecorder) RecordHTTPRequest(string, string, int, time.Duration) {}
func (noopMetricsRecorder) RecordRateLimit(string, time.Duration)                {}
func (noopMetricsRecorder) RecordError(string, string)                           {}

// MemoryRecorder keeps counters in memory. It is safe for concurrent use.
type MemoryRecorder struct {
	mu       sync.Mutex
	requests map[string]int
	errors   map[string]int
	duration time.Duration
	waited   time.Duration
}

// NewMemoryRecorder returns an empty MemoryRecorder.
func NewMemoryRecorder() *MemoryRecorder {
	return &MemoryRecorder{
		requests: map[string]int{},
		errors:   map[string]int{},
	}
}

// Snapshot is a point-in-time copy of a MemoryRecorder.
type Snapshot struct {
	// Requests counts responses by "METHOD path status".
	Requests map[string]int
	// Errors counts failed exchanges by "operation errorType".
	Errors map[string]int
	// Duration is the total time spent in requests that got a response.
	Duration time.Duration
	// RateLimitWait is the total time spent waiting on the limiter.
	RateLimitWait time.Duration
}

// RecordHTTPRequest implements MetricsRecorder.
func (m *MemoryRecorder) RecordHTTPRequest(method, path string, statusCode int, duration time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.requests[method+" "+path+" "+strconv.Itoa(statusCode)]++
	m.duration += duration
}

// RecordRateLimit implements MetricsRecorder.
func (m *MemoryRecorder) RecordRateLimit(_ string, wait time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.waited += wait
}

// RecordError implements MetricsRecorder.
func (m *MemoryRecorder) RecordError(operation, errorType string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.errors[operation+" "+errorType]++
}

// Snapshot copies the current counters.
func (m *MemoryRecorder) Snapshot() Snapshot {
	m.mu.Lock()
	defer m.mu.Unlock()
	return Snapshot{
		Requests:      maps.Clone(m.requests),
		Errors:        maps.Clone(m.errors),
		Duration:      m.duration,
		RateLimitWait: m.waited,
	}
}
