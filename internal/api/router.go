// Packetsim - Live DDoS Packet Classification Simulator
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/packetsim

package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/tomtom215/packetsim/internal/middleware"
)

// Router wires handlers and middleware into a Chi mux.
type Router struct {
	handler       *Handler
	chiMiddleware *ChiMiddleware
}

// NewRouter creates a router. A nil mw uses DefaultChiMiddlewareConfig.
func NewRouter(handler *Handler, mw *ChiMiddleware) *Router {
	if mw == nil {
		mw = NewChiMiddleware(nil)
	}
	return &Router{
		handler:       handler,
		chiMiddleware: mw,
	}
}

// adapt lifts http.HandlerFunc middleware into Chi's form.
func adapt(mw func(http.HandlerFunc) http.HandlerFunc) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return mw(next.ServeHTTP)
	}
}

// apiGroup applies the middleware every REST group shares.
func (router *Router) apiGroup(r chi.Router) {
	r.Use(router.chiMiddleware.RateLimit())
	r.Use(APISecurityHeaders())
	r.Use(adapt(middleware.PrometheusMetrics))
}

// Setup builds the mux:
//
//	/api/v1/health    liveness and readiness
//	/api/v1/datasets  upload, list, inspect, delete
//	/api/v1/runs      start, list, inspect, cancel, export, chart
//	/api/v1/ws        live run stream
//	/metrics          Prometheus
func (router *Router) Setup() http.Handler {
	h, mw := router.handler, router.chiMiddleware
	r := chi.NewRouter()

	r.Use(adapt(middleware.RequestID))
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(mw.CORS())

	r.Route("/api/v1/health", func(r chi.Router) {
		r.Use(mw.RateLimitCustom(RateLimitHealth), APISecurityHeaders())
		r.Get("/", h.Health)
		r.Get("/live", h.HealthLive)
		r.Get("/ready", h.HealthReady)
	})

	r.Route("/api/v1/datasets", func(r chi.Router) {
		router.apiGroup(r)
		r.With(mw.RateLimitCustom(RateLimitUpload)).Post("/", h.UploadDataset)
		r.Get("/", h.ListDatasets)
		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", h.GetDataset)
			r.Delete("/", h.DeleteDataset)
		})
	})

	r.Route("/api/v1/runs", func(r chi.Router) {
		router.apiGroup(r)
		r.With(mw.RateLimitCustom(RateLimitRuns)).Post("/", h.StartRun)
		r.Get("/", h.ListRuns)
		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", h.GetRun)
			r.Delete("/", h.CancelRun)
			r.Get("/export", h.ExportRun)
			r.Get("/chart.png", h.RunChart)
		})
	})

	r.With(mw.RateLimitCustom(RateLimitWebSocket), adapt(middleware.PrometheusMetrics)).
		Get("/api/v1/ws", h.WebSocket)

	r.Handle("/metrics", promhttp.Handler())
	return r
}
