package logging

import (
	"context"
	"log/slog"
	"sync/atomic"
)

type loggerKey struct{}

var fallback atomic.Pointer[slog.Logger]

func init() {
	fallback.Store(slog.Default())
}

// SetDefault installs logger as the process default, both here and in slog.
func SetDefault(logger *slog.Logger) {
	fallback.Store(logger)
	slog.SetDefault(logger)
}

// WithContext returns a copy of ctx carrying logger.
func WithContext(ctx context.Context, logger *slog.Logger) context.Context {
	return context.WithValue(ctx, loggerKey{}, logger)
}

// FromContext returns the logger stored in ctx, or the process default.
func FromContext(ctx context.Context) *slog.Logger {
	return FromContextOr(ctx, nil)
}

// FromContextOr returns the logger stored in ctx. Without one it returns
// or, and the process default when or is nil.
func FromContextOr(ctx context.Context, or *slog.Logger) *slog.Logger {
	if ctx != nil {
		if logger, ok := ctx.Value(loggerKey{}).(*slog.Logger); ok {
			return logger
		}
	}

	if or != nil {
		return or
	}

	return fallback.Load()
}

// WithAttrs enriches the logger in ctx with args, as slog.Logger.With does.
func WithAttrs(ctx context.Context, args ...any) context.Context {
	return WithContext(ctx, FromContext(ctx).With(args...))
}

// WithRequestID tags later log lines with the request ID.
func WithRequestID(ctx context.Context, id string) context.Context {
	return WithAttrs(ctx, slog.String("request_id", id))
}

// WithTraceID tags later log lines with the trace ID.
func WithTraceID(ctx context.Context, id string) context.Context {
	return WithAttrs(ctx, slog.String("trace_id", id))
}

// WithCorrelationID tags later log lines with the caller's correlation ID.
func WithCorrelationID(ctx context.Context, id string) context.Context {
	return WithAttrs(ctx, slog.String("correlation_id", id))
}
