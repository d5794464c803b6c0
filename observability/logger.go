package observability

// Keys used by the client for structured fields.
const (
	KeyRequestID = "request_id"
	KeyMethod    = "method"
	KeyHost      = "host"
	KeyPath      = "path"
	KeyStatus    = "status"
	KeyDuration  = "duration"
	KeyWait      = "wait"
	KeyError     = "error"
)

// Field is one structured key/value pair.
type Field struct {
	Key   string
	Value any
}

// F builds a Field.
func F(key string, value any) Field {
	return Field{Key: key, Value: value}
}

// Logger receives the client's request events. The access token is never
// passed to it.
type Logger interface {
	Debug(msg string, fields ...Field)
	Info(msg string, fields ...Field)
	Warn(msg string, fields ...Field)
	Error(msg string, fields ...Field)

	// With returns a logger that adds fields to every event.
	With(fields ...Field) Logger
}

type noopLogger struct{}

// NoopLogger discards every event. It is used when no logger is configured.
//
//nolint:ireturn // returns the interface so it can stand in for any Logger
func NoopLogger() Logger {
	return noopLogger{}
}

func (noopLogger) Debug(string, ...Field) {}
func (noopLogger) Info(string, ...Field)  {}
func (noopLogger) Warn(string, ...Field)  {}
func (noopLogger) Error(string, ...Field) {}

//nolint:ireturn // satisfies Logger
func (l noopLogger) With(...Field) Logger { return l }
