// Packetsim - Live DDoS Packet Classification Simulator
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/packetsim

package api

import (
	"net/http"
	"time"

	"github.com/go-chi/cors"
	"github.com/go-chi/httprate"

	"github.com/tomtom215/packetsim/internal/logging"
)

// ChiMiddlewareConfig configures CORS and per-IP rate limiting.
type ChiMiddlewareConfig struct {
	CORSAllowedOrigins   []string // empty rejects every cross-origin request
	CORSAllowedMethods   []string
	CORSAllowedHeaders   []string
	CORSExposedHeaders   []string
	CORSAllowCredentials bool
	CORSMaxAge           int // preflight cache, seconds

	RateLimitRequests int
	RateLimitWindow   time.Duration
	RateLimitDisabled bool
	RateLimitKeyFunc  httprate.KeyFunc // nil keys by client IP
	RateLimitOnLimit  http.HandlerFunc // nil uses httprate's plain-text 429
}

// DefaultChiMiddlewareConfig allows 100 requests per minute per IP and no
// cross-origin callers.
func DefaultChiMiddlewareConfig() *ChiMiddlewareConfig {
	return &ChiMiddlewareConfig{
		CORSAllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodDelete, http.MethodOptions},
		CORSAllowedHeaders: []string{"Content-Type", "X-Request-ID"},
		CORSExposedHeaders: []string{"Content-Disposition", "Location", "X-Request-ID", "X-Run-Status"},
		CORSMaxAge:         86400,
		RateLimitRequests:  100,
		RateLimitWindow:    time.Minute,
		RateLimitOnLimit:   rateLimitExceeded,
	}
}

// ChiMiddleware hands out the configured middleware to the router.
type ChiMiddleware struct {
	config *ChiMiddlewareConfig
	cors   func(http.Handler) http.Handler
}

// NewChiMiddleware builds the middleware set; nil config means defaults.
func NewChiMiddleware(config *ChiMiddlewareConfig) *ChiMiddleware {
	if config == nil {
		config = DefaultChiMiddlewareConfig()
	}
	return &ChiMiddleware{
		config: config,
		cors: cors.Handler(cors.Options{
			AllowedOrigins:   config.CORSAllowedOrigins,
			AllowedMethods:   config.CORSAllowedMethods,
			AllowedHeaders:   config.CORSAllowedHeaders,
			ExposedHeaders:   config.CORSExposedHeaders,
			AllowCredentials: config.CORSAllowCredentials,
			MaxAge:           config.CORSMaxAge,
		}),
	}
}

// NewChiMiddlewareFromServer overrides the origin list and the general
// limit on top of the defaults.
func NewChiMiddlewareFromServer(corsOrigins []string, rateLimitReqs int, rateLimitWindow time.Duration, rateLimitDisabled bool) *ChiMiddleware {
	config := DefaultChiMiddlewareConfig()
	config.CORSAllowedOrigins = corsOrigins
	config.RateLimitRequests = rateLimitReqs
	config.RateLimitWindow = rateLimitWindow
	config.RateLimitDisabled = rateLimitDisabled
	return NewChiMiddleware(config)
}

// CORS must wrap the whole mux so preflight OPTIONS requests are answered
// before routing.
func (m *ChiMiddleware) CORS() func(http.Handler) http.Handler {
	return m.cors
}

// RateLimit is the general limiter for a route group.
func (m *ChiMiddleware) RateLimit() func(http.Handler) http.Handler {
	return m.limiter(RateLimitConfig{Requests: m.config.RateLimitRequests, Window: m.config.RateLimitWindow}, m.config.RateLimitKeyFunc)
}

// RateLimitConfig is a request budget per window.
type RateLimitConfig struct {
	Requests int
	Window   time.Duration
}

// Budgets for route groups that need their own limit.
var (
	RateLimitHealth    = RateLimitConfig{Requests: 1000, Window: time.Minute}
	RateLimitUpload    = RateLimitConfig{Requests: 10, Window: time.Minute}
	RateLimitRuns      = RateLimitConfig{Requests: 30, Window: time.Minute}
	RateLimitWebSocket = RateLimitConfig{Requests: 30, Window: time.Minute}
)

// RateLimitCustom limits per client IP with its own budget.
func (m *ChiMiddleware) RateLimitCustom(budget RateLimitConfig) func(http.Handler) http.Handler {
	return m.limiter(budget, httprate.KeyByIP)
}

func (m *ChiMiddleware) limiter(budget RateLimitConfig, key httprate.KeyFunc) func(http.Handler) http.Handler {
	if m.config.RateLimitDisabled {
		return func(next http.Handler) http.Handler { return next }
	}
	if key == nil {
		key = httprate.KeyByIP
	}
	opts := []httprate.Option{httprate.WithKeyFuncs(key)}
	if m.config.RateLimitOnLimit != nil {
		opts = append(opts, httprate.WithLimitHandler(m.config.RateLimitOnLimit))
	}
	return httprate.Limit(budget.Requests, budget.Window, opts...)
}

// rateLimitExceeded answers limited requests with the JSON error envelope.
func rateLimitExceeded(w http.ResponseWriter, r *http.Request) {
	logging.NewSecurityLogger().LogRateLimited(r.RemoteAddr, r.Method, r.URL.Path)
	respondError(w, http.StatusTooManyRequests, "RATE_LIMIT_EXCEEDED", "Too many requests", nil)
}

var securityHeaders = map[string]string{
	"X-Content-Type-Options": "nosniff",
	"X-Frame-Options":        "DENY",
	"Referrer-Policy":        "strict-origin-when-cross-origin",
}

// APISecurityHeaders sets nosniff, frame denial and referrer policy on every
// response, plus HSTS when the request came in over TLS directly or through
// a proxy that sets X-Forwarded-Proto.
func APISecurityHeaders() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			h := w.Header()
			for k, v := range securityHeaders {
				h.Set(k, v)
			}
			if r.TLS != nil || r.Header.Get("X-Forwarded-Proto") == "https" {
				h.Set("Strict-Transport-Security", "max-age=31536000; includeSubDomains")
			}
			next.ServeHTTP(w, r)
		})
	}
}
