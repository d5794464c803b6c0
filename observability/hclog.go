package observability

import "github.com/hashicorp/go-hclog"

type hcLogger struct {
	logger hclog.Logger
}

// NewHCLogger adapts an hclog.Logger to Logger.
//
//nolint:ireturn // Adapter must return interface for dependency injection pattern
func NewHCLogger(logger hclog.Logger) Logger {
	return &hcLogger{logger: logger}
}

func (l *hcLogger) Debug(msg string, fields ...Field) { l.logger.Debug(msg, pairs(fields)...) }
func (l *hcLogger) Info(msg string, fields ...Field)  { l.logger.Info(msg, pairs(fields)...) }
func (l *hcLogger) Warn(msg string, fields ...Field)  { l.logger.Warn(msg, pairs(fields)...) }
func (l *hcLogger) Error(msg string, fields ...Field) { l.logger.Error(msg, pairs(fields)...) }

//nolint:ireturn // Method must return interface to satisfy Logger interface
func (l *hcLogger) With(fields ...Field) Logger {
	return &hcLogger{logger: l.logger.With(pairs(fields)...)}
}

func pairs(fields []Field) []any {
	args := make([]any, 0, len(fields)*2)
	for _, f := range fields {
		args = append(args, f.Key, f.Value)
	}
	return args
}
