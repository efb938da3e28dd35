// Package handler provides the HTTP API of the people store.
package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"
)

// Router wires the API, health and metrics endpoints.
type Router struct {
	api            *APIHandler
	health         func(ctx context.Context) error
	metricsHandler http.Handler
	metricsPath    string
	logger         zerolog.Logger
}

// RouterConfig contains configuration for the router.
type RouterConfig struct {
	API *APIHandler

	// Health reports database health. Optional.
	Health func(ctx context.Context) error

	// MetricsHandler serves Prometheus metrics at MetricsPath. Optional.
	MetricsHandler http.Handler
	MetricsPath    string

	Logger zerolog.Logger
}

// NewRouter creates a new Router.
func NewRouter(config RouterConfig) *Router {
	path := config.MetricsPath
	if path == "" {
		path = "/metrics"
	}
	return &Router{
		api:            config.API,
		health:         config.Health,
		metricsHandler: config.MetricsHandler,
		metricsPath:    path,
		logger:         config.Logger.With().Str("component", "router").Logger(),
	}
}

// Handler returns the main HTTP handler.
func (rt *Router) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(rt.logRequests)

	// Health check
	r.Get("/health", rt.handleHealth)

	if rt.metricsHandler != nil {
		r.Method(http.MethodGet, rt.metricsPath, rt.metricsHandler)
	}

	r.Route("/api/v1", rt.api.RegisterRoutes)
	return r
}

// handleHealth handles health check requests.
func (rt *Router) handleHealth(w http.ResponseWriter, r *http.Request) {
	if rt.health != nil {
		if err := rt.health(r.Context()); err != nil {
			rt.logger.Warn().Err(err).Msg("health check failed")
			writeJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "unhealthy"})
			return
		}
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "healthy"})
}

func (rt *Router) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		rt.logger.Debug().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", ww.Status()).
			Dur("duration", time.Since(start)).
			Str("request_id", middleware.GetReqID(r.Context())).
			Msg("request handled")
	})
}
