// Packetsim - Live DDoS Packet Classification Simulator
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/packetsim

package logging

import (
	"context"

	"github.com/rs/zerolog"
)

// EventLogger provides specialized logging for the simulation event bus
// and its consumers.
type EventLogger struct {
	logger zerolog.Logger
}

// NewEventLogger creates an event logger tagged with component=events.
func NewEventLogger() *EventLogger {
	return &EventLogger{logger: WithComponent("events")}
}

// NewEventLoggerWithLogger creates an EventLogger with a custom logger.
//
//nolint:gocritic // zerolog.Logger is designed to be passed by value
func NewEventLoggerWithLogger(logger zerolog.Logger) *EventLogger {
	return &EventLogger{
		logger: logger.With().Str("component", "events").Logger(),
	}
}

// loggerWithContext adds request_id and run_id from ctx.
func (e *EventLogger) loggerWithContext(ctx context.Context) zerolog.Logger {
	logCtx := e.logger.With()

	if requestID := RequestIDFromContext(ctx); requestID != "" {
		logCtx = logCtx.Str("request_id", requestID)
	}
	if runID := RunIDFromContext(ctx); runID != "" {
		logCtx = logCtx.Str("run_id", runID)
	}

	return logCtx.Logger()
}

// LogEventPublished logs a published event at trace level; packet events
// are too frequent for anything louder.
func (e *EventLogger) LogEventPublished(ctx context.Context, eventID, eventType string) {
	logger := e.loggerWithContext(ctx)
	logger.Trace().
		Str("event_id", eventID).
		Str("event_type", eventType).
		Msg("Event published")
}

// LogPublishFailed logs an event that could not be published.
func (e *EventLogger) LogPublishFailed(ctx context.Context, eventID, eventType string, err error) {
	logger := e.loggerWithContext(ctx)
	logger.Warn().
		Err(err).
		Str("event_id", eventID).
		Str("event_type", eventType).
		Msg("Event publish failed")
}

// LogMalformed logs a message whose payload could not be decoded.
func (e *EventLogger) LogMalformed(messageID string, err error) {
	e.logger.Warn().
		Err(err).
		Str("message_id", messageID).
		Msg("Failed to unmarshal simulation event")
}

// LogSubscriptionStarted logs a consumer subscribing to a topic.
func (e *EventLogger) LogSubscriptionStarted(topic, consumer string) {
	e.logger.Info().
		Str("topic", topic).
		Str("consumer", consumer).
		Msg("Subscription started")
}

// LogSubscriptionStopped logs a consumer leaving a topic.
func (e *EventLogger) LogSubscriptionStopped(topic, consumer, reason string) {
	e.logger.Info().
		Str("topic", topic).
		Str("consumer", consumer).
		Str("reason", reason).
		Msg("Subscription stopped")
}
