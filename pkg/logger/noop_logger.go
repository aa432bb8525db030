package logger

import "context"

// noopLogger discards everything. It keeps test wiring quiet.
type noopLogger struct{}

// NewNoopLogger returns a Logger that drops all entries.
func NewNoopLogger() Logger {
	return noopLogger{}
}

func (noopLogger) Debug(ctx context.Context, msg string, fields ...Fields)            {}
func (noopLogger) Info(ctx context.Context, msg string, fields ...Fields)             {}
func (noopLogger) Warn(ctx context.Context, msg string, fields ...Fields)             {}
func (noopLogger) Error(ctx context.Context, msg string, err error, fields ...Fields) {}
func (n noopLogger) WithFields(fields Fields) Logger                                  { return n }
func (n noopLogger) WithComponent(component string) Logger                            { return n }
