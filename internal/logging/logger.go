// Package logging configures the process logger and provides the
// request-scoped Logger used by services and handlers.
package logging

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
)

type requestIDKey struct{}

// Setup installs the default slog logger: JSON in production, text otherwise.
func Setup(level, env string) *slog.Logger {
	l := New(os.Stdout, level, env)
	slog.SetDefault(l)
	return l
}

// New builds a logger writing to w.
func New(w io.Writer, level, env string) *slog.Logger {
	opts := &slog.HandlerOptions{Level: ParseLevel(level)}
	if env == "production" {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}

// ParseLevel maps LOG_LEVEL values to slog levels, defaulting to info.
func ParseLevel(s string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// WithRequestID stores the request id in ctx.
func WithRequestID(ctx context.Context, rid string) context.Context {
	return context.WithValue(ctx, requestIDKey{}, rid)
}

// RequestID extracts the request id from ctx.
func RequestID(ctx context.Context) string {
	if rid, ok := ctx.Value(requestIDKey{}).(string); ok {
		return rid
	}
	return ""
}

// Logger provides structured logging for services
type Logger struct {
	requestID string
	base      *slog.Logger
}

// NewLogger creates a logger with request context
func NewLogger(ctx context.Context) *Logger {
	requestID := RequestID(ctx)
	if requestID == "" {
		requestID = "unknown"
	}
	return &Logger{requestID: requestID, base: slog.Default()}
}

// With returns a logger writing through base instead of the default logger.
func (l *Logger) With(base *slog.Logger) *Logger {
	return &Logger{requestID: l.requestID, base: base}
}

// LogError logs an error with context
func (l *Logger) LogError(operation string, err error) {
	l.base.Error("operation failed", "request_id", l.requestID, "operation", operation, "error", err)
}

// LogErrorf logs a formatted error with context
func (l *Logger) LogErrorf(operation string, format string, args ...any) {
	l.base.Error(fmt.Sprintf(format, args...), "request_id", l.requestID, "operation", operation)
}

// LogInfo logs an info message with context
func (l *Logger) LogInfo(operation string, message string) {
	l.base.Info(message, "request_id", l.requestID, "operation", operation)
}

// LogInfof logs a formatted info message with context
func (l *Logger) LogInfof(operation string, format string, args ...any) {
	l.base.Info(fmt.Sprintf(format, args...), "request_id", l.requestID, "operation", operation)
}

// LogWarn logs a warning with context
func (l *Logger) LogWarn(operation string, message string) {
	l.base.Warn(message, "request_id", l.requestID, "operation", operation)
}

// LogWarnf logs a formatted warning with context
func (l *Logger) LogWarnf(operation string, format string, args ...any) {
	l.base.Warn(fmt.Sprintf(format, args...), "request_id", l.requestID, "operation", operation)
}
