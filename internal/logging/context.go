// Packetsim - Live DDoS Packet Classification Simulator
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/packetsim

package logging

import (
	"context"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

type ctxKey int

const (
	requestIDKey ctxKey = iota
	runIDKey
	loggerKey
)

// GenerateRequestID returns a random UUID for an HTTP request.
func GenerateRequestID() string {
	return uuid.NewString()
}

func stringValue(ctx context.Context, key ctxKey) string {
	s, _ := ctx.Value(key).(string)
	return s
}

// ContextWithRequestID tags ctx with an HTTP request ID.
func ContextWithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDKey, id)
}

// RequestIDFromContext returns the request ID, or "".
func RequestIDFromContext(ctx context.Context) string { return stringValue(ctx, requestIDKey) }

// ContextWithRunID tags ctx with a simulation run ID; Ctx adds it to every line.
func ContextWithRunID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, runIDKey, id)
}

// RunIDFromContext returns the run ID, or "".
func RunIDFromContext(ctx context.Context) string { return stringValue(ctx, runIDKey) }

// ContextWithLogger stores logger in ctx.
//
//nolint:gocritic // zerolog.Logger is passed by value throughout zerolog
func ContextWithLogger(ctx context.Context, logger zerolog.Logger) context.Context {
	return context.WithValue(ctx, loggerKey, logger)
}

// LoggerFromContext returns the logger stored in ctx or the global one.
func LoggerFromContext(ctx context.Context) zerolog.Logger {
	if l, ok := ctx.Value(loggerKey).(zerolog.Logger); ok {
		return l
	}
	return Logger()
}

// Ctx returns the context logger with request_id and run_id attached when set.
//
//	logging.Ctx(ctx).Warn().Err(err).Msg("Publish failed")
func Ctx(ctx context.Context) *zerolog.Logger {
	lc := LoggerFromContext(ctx).With()
	for _, f := range []struct {
		name  string
		value string
	}{
		{"request_id", RequestIDFromContext(ctx)},
		{"run_id", RunIDFromContext(ctx)},
	} {
		if f.value != "" {
			lc = lc.Str(f.name, f.value)
		}
	}
	l := lc.Logger()
	return &l
}

// WithComponent returns a child of the global logger tagged with component.
func WithComponent(component string) zerolog.Logger {
	return With().Str("component", component).Logger()
}
