// Package api serves read-only HTTP inspection of an open DLIS file: the
// storage label, the record index and parsed object sets. Payload bytes are
// never served; this is a metadata surface for analysis tooling, not a
// download endpoint.
package api

import (
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/jokva/dlisio/pkg/dlis"
)

// Router builds the route table for a server.
func Router(server *Server) chi.Router {
	r := chi.NewRouter()

	r.Use(middleware.Recoverer)
	r.Use(requestIDMiddleware)
	r.Use(logMiddleware(server.log))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "OPTIONS"},
		AllowedHeaders:   []string{"*"},
		ExposedHeaders:   []string{"X-Request-Id"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	// Prometheus metrics endpoint
	r.Handle("/metrics", promhttp.Handler())

	m := server.metrics
	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/label", m.InstrumentHandler("GET", "/api/v1/label", server.handleLabel))
		r.Get("/records", m.InstrumentHandler("GET", "/api/v1/records", server.handleRecords))
		r.Get("/records/{index}", m.InstrumentHandler("GET", "/api/v1/records/{index}", server.handleRecord))
		r.Get("/records/{index}/objects", m.InstrumentHandler("GET", "/api/v1/records/{index}/objects", server.handleRecordObjects))
	})

	return r
}

// StartServer starts the HTTP server over an already-open stream and blocks
// until it exits.
func StartServer(stream *dlis.Stream, path string, config ServerConfig, log *zap.Logger) error {
	server := NewServer(stream, path, log, NewMetrics())

	addr := fmt.Sprintf("%s:%d", config.Bind, config.Port)
	server.log.Infow("serving", "addr", addr, "file", path)
	return http.ListenAndServe(addr, Router(server))
}
