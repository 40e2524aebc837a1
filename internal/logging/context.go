// Aniora - Hybrid Anime Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/aniora

package logging

import (
	"context"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// contextKey is unexported so no other package can collide with these keys.
type contextKey string

const (
	// correlationIDKey groups the log lines of one request.
	correlationIDKey contextKey = "correlation_id"

	// requestIDKey holds the X-Request-ID echoed to the client.
	requestIDKey contextKey = "request_id"

	// loggerKey holds a pre-configured logger instance.
	loggerKey contextKey = "logger"
)

// GenerateCorrelationID creates a new correlation ID.
// It is the first 8 characters of a UUID, short enough to scan in console
// output while still grouping one request's lines.
func GenerateCorrelationID() string {
	return uuid.New().String()[:8]
}

// GenerateRequestID creates a new request ID.
// It is a full UUID because clients may quote it back in bug reports.
func GenerateRequestID() string {
	return uuid.New().String()
}

// ContextWithCorrelationID returns a new context carrying the correlation ID.
//
// Example usage:
//
//	ctx = logging.ContextWithCorrelationID(ctx, logging.GenerateCorrelationID())
func ContextWithCorrelationID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, correlationIDKey, id)
}

// CorrelationIDFromContext retrieves the correlation ID from ctx.
// Returns an empty string if none is stored.
func CorrelationIDFromContext(ctx context.Context) string {
	if id, ok := ctx.Value(correlationIDKey).(string); ok {
		return id
	}
	return ""
}

// ContextWithRequestID returns a new context carrying the request ID.
//
// The RequestID middleware calls this for every API request, so handlers
// and the response envelope see the same id as the X-Request-ID header:
//
//	ctx = logging.ContextWithRequestID(r.Context(), requestID)
//	next.ServeHTTP(w, r.WithContext(ctx))
func ContextWithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDKey, id)
}

// RequestIDFromContext retrieves the request ID from ctx.
// Returns an empty string if none is stored.
func RequestIDFromContext(ctx context.Context) string {
	if id, ok := ctx.Value(requestIDKey).(string); ok {
		return id
	}
	return ""
}

// ContextWithLogger stores a logger in the context.
// Tests use it to capture one request's access log line in a buffer:
//
//	req = req.WithContext(logging.ContextWithLogger(req.Context(), zerolog.New(&buf)))
//
//nolint:gocritic // zerolog.Logger is designed to be passed by value
func ContextWithLogger(ctx context.Context, logger zerolog.Logger) context.Context {
	return context.WithValue(ctx, loggerKey, logger)
}

// LoggerFromContext retrieves the logger stored in ctx.
// Returns the global logger if none is stored.
func LoggerFromContext(ctx context.Context) zerolog.Logger {
	if logger, ok := ctx.Value(loggerKey).(zerolog.Logger); ok {
		return logger
	}
	return Logger()
}

// Ctx returns a logger with the context's request_id and correlation_id
// fields attached. Handlers and middleware log through it so every line of
// one request can be joined on either id.
//
// Example usage:
//
//	logging.Ctx(r.Context()).Debug().Str("title", req.Title).Msg("Recommendation served")
//	// {"level":"debug","request_id":"...","correlation_id":"1a2b3c4d","title":"naruto",...}
func Ctx(ctx context.Context) *zerolog.Logger {
	logCtx := LoggerFromContext(ctx).With()
	if id := RequestIDFromContext(ctx); id != "" {
		logCtx = logCtx.Str("request_id", id)
	}
	if id := CorrelationIDFromContext(ctx); id != "" {
		logCtx = logCtx.Str("correlation_id", id)
	}
	logger := logCtx.Logger()
	return &logger
}
