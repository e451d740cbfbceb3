// Packetsim - Live DDoS Packet Classification Simulator
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/packetsim

package logging

import (
	"fmt"
	"strings"

	"github.com/rs/zerolog"
)

// Security event names.
const (
	SecurityEventOriginRejected = "websocket_origin_rejected"
	SecurityEventRateLimited    = "rate_limited"
	SecurityEventUploadRejected = "upload_rejected"
)

// maxHeaderValueLen bounds client-supplied values copied into log entries.
const maxHeaderValueLen = 200

// SecurityEvent describes a request the API refused for access-control
// reasons. Client-supplied fields are sanitized before they are logged.
type SecurityEvent struct {
	// Event is one of the SecurityEvent* names.
	Event string
	// IPAddress is the client address as seen by the server.
	IPAddress string
	// Origin is the request Origin header, if relevant.
	Origin string
	// Path is the request path.
	Path string
	// UserAgent is the client's user agent.
	UserAgent string
	// Reason is a short machine-readable rejection reason.
	Reason string
	// Details contains additional fields.
	Details map[string]string
}

// SecurityLogger logs refused requests under component=security.
type SecurityLogger struct {
	logger zerolog.Logger
}

// NewSecurityLogger creates a security logger from the global logger.
// Call it after Init so the configured level and format apply.
func NewSecurityLogger() *SecurityLogger {
	return &SecurityLogger{logger: WithComponent("security")}
}

// NewSecurityLoggerWithLogger creates a security logger with a custom zerolog logger.
//
//nolint:gocritic // zerolog.Logger is designed to be passed by value
func NewSecurityLoggerWithLogger(logger zerolog.Logger) *SecurityLogger {
	return &SecurityLogger{
		logger: logger.With().Str("component", "security").Logger(),
	}
}

// LogEvent logs a security event at warn level.
func (l *SecurityLogger) LogEvent(event *SecurityEvent) {
	e := l.logger.Warn().Str("event", event.Event)

	if event.IPAddress != "" {
		e = e.Str("ip", event.IPAddress)
	}
	if event.Origin != "" {
		e = e.Str("origin", SanitizeHeader(event.Origin))
	}
	if event.Path != "" {
		e = e.Str("path", SanitizeHeader(event.Path))
	}
	if event.UserAgent != "" {
		e = e.Str("user_agent", truncateString(SanitizeHeader(event.UserAgent), 100))
	}
	if event.Reason != "" {
		e = e.Str("reason", event.Reason)
	}
	for k, v := range event.Details {
		e = e.Str(k, SanitizeHeader(v))
	}

	e.Msg("Request rejected")
}

// LogOriginRejected logs a WebSocket upgrade refused by the origin check.
// An empty origin is reported as missing.
func (l *SecurityLogger) LogOriginRejected(ip, origin, userAgent string) {
	reason := "origin_not_allowed"
	if origin == "" {
		reason = "origin_missing"
	}
	l.LogEvent(&SecurityEvent{
		Event:     SecurityEventOriginRejected,
		IPAddress: ip,
		Origin:    origin,
		UserAgent: userAgent,
		Reason:    reason,
	})
}

// LogRateLimited logs a request refused by the rate limiter.
func (l *SecurityLogger) LogRateLimited(ip, method, path string) {
	l.LogEvent(&SecurityEvent{
		Event:     SecurityEventRateLimited,
		IPAddress: ip,
		Path:      path,
		Reason:    "rate_limit_exceeded",
		Details:   map[string]string{"method": method},
	})
}

// LogUploadRejected logs a dataset upload refused for its size.
func (l *SecurityLogger) LogUploadRejected(ip string, limit int64) {
	l.LogEvent(&SecurityEvent{
		Event:     SecurityEventUploadRejected,
		IPAddress: ip,
		Reason:    "too_large",
		Details:   map[string]string{"limit_bytes": fmt.Sprintf("%d", limit)},
	})
}

// SanitizeHeader escapes control characters and truncates long values so a
// client cannot forge or flood log lines.
func SanitizeHeader(value string) string {
	var b strings.Builder
	b.Grow(len(value))
	for _, r := range value {
		if r < 0x20 || r == 0x7F {
			fmt.Fprintf(&b, "\\x%02x", r)
			continue
		}
		b.WriteRune(r)
	}
	return truncateString(b.String(), maxHeaderValueLen)
}

// truncateString truncates a string to a maximum length.
func truncateString(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen] + "..."
}
