/*
beemap REST API

An ordered key-value service backed by an in-memory beemap.Map.
Reads on the map can reorganize the tree, so every map operation —
reads included — runs under the server's mutex; HTTP supplies the
concurrency, the server supplies the ordering the map requires.
*/
package api

import (
	"fmt"
	"net/http"
	"sync"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/ssargent/beemap/pkg/beemap"
)

// Server owns the map and its lock
type Server struct {
	mu      sync.Mutex
	data    *beemap.Map[string, []byte]
	config  ServerConfig
	metrics *Metrics
}

// NewServer creates a server around a fresh map
func NewServer(config ServerConfig, metrics *Metrics) *Server {
	return &Server{
		data:    beemap.New[string, []byte](),
		config:  config,
		metrics: metrics,
	}
}

// Router builds the chi router with middleware, routes and metrics
func (s *Server) Router() chi.Router {
	r := chi.NewRouter()

	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(requestIDMiddleware)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "OPTIONS"},
		AllowedHeaders:   []string{"*"},
		ExposedHeaders:   []string{"Link", requestIDHeader},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	// Prometheus metrics endpoint (unprotected for scraping)
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(apiKeyMiddleware(s.config.APIKey, s.metrics))

		r.Get("/health", s.metrics.InstrumentHandler("GET", "/api/v1/health", s.handleHealth))

		r.Put("/kv/{key}", s.metrics.InstrumentHandler("PUT", "/api/v1/kv/{key}", s.handlePut))
		r.Get("/kv/{key}", s.metrics.InstrumentHandler("GET", "/api/v1/kv/{key}", s.handleGet))
		r.Get("/kv/{key}/before", s.metrics.InstrumentHandler("GET", "/api/v1/kv/{key}/before", s.handleBefore))
		r.Post("/kv/bulk", s.metrics.InstrumentHandler("POST", "/api/v1/kv/bulk", s.handleBulk))

		r.Get("/stats", s.metrics.InstrumentHandler("GET", "/api/v1/stats", s.handleStats))
	})

	return r
}

// ListenAndServe starts the HTTP server and blocks
func (s *Server) ListenAndServe() error {
	addr := fmt.Sprintf("%s:%d", s.config.Bind, s.config.Port)
	return http.ListenAndServe(addr, s.Router())
}
