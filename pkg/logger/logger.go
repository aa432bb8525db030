// Package logger defines the structured logging interface used across the
// risk pipeline. The production implementation is zap-backed and lives in
// internal/infrastructure/monitoring.
package logger

import "context"

// Fields is a set of structured key-value pairs attached to a log entry.
type Fields map[string]interface{}

// Logger is the context-aware structured logging interface.
type Logger interface {
	// Debug logs a debug message.
	Debug(ctx context.Context, msg string, fields ...Fields)

	// Info logs an informational message.
	Info(ctx context.Context, msg string, fields ...Fields)

	// Warn logs a warning message.
	Warn(ctx context.Context, msg string, fields ...Fields)

	// Error logs an error message with its cause.
	Error(ctx context.Context, msg string, err error, fields ...Fields)

	// WithFields returns a derived logger carrying additional base fields.
	WithFields(fields Fields) Logger

	// WithComponent returns a derived logger tagged with a component name.
	WithComponent(component string) Logger
}
