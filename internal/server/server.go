// Package server exposes the decision pipeline over HTTP.
package server

import (
	"context"
	"net/http"

	"github.com/caldermed/priorauth/internal/model"
	"github.com/caldermed/priorauth/internal/pipeline"
	"github.com/caldermed/priorauth/internal/store"
	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"
)

// Server wires the router to the pipeline and the decision store.
type Server struct {
	pipeline *pipeline.Pipeline
	store    store.Store
	log      *logrus.Logger
	http     *http.Server
}

// New creates the HTTP server.
func New(cfg model.ServerConfig, p *pipeline.Pipeline, s store.Store, log *logrus.Logger) *Server {
	if log == nil {
		log = logrus.StandardLogger()
	}

	srv := &Server{
		pipeline: p,
		store:    s,
		log:      log,
	}

	srv.http = &http.Server{
		Addr:         cfg.Addr,
		Handler:      srv.router(),
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}

	return srv
}

// router creates the API router with all endpoints.
func (s *Server) router() http.Handler {
	r := mux.NewRouter()

	r.Use(s.loggingMiddleware)

	r.HandleFunc("/health", s.handleHealth).Methods("GET")

	v1 := r.PathPrefix("/v1").Subrouter()
	v1.HandleFunc("/requests", s.handleSubmit).Methods("POST")
	v1.HandleFunc("/requests/{requestId}", s.handleGet).Methods("GET")

	return r
}

// ListenAndServe blocks serving requests until the listener fails or the
// server is shut down.
func (s *Server) ListenAndServe() error {
	s.log.WithField("addr", s.http.Addr).Info("http server listening")
	return s.http.ListenAndServe()
}

// Shutdown gracefully stops the server.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.http.Shutdown(ctx)
}

// Handler exposes the router for tests.
func (s *Server) Handler() http.Handler {
	return s.http.Handler
}

func (s *Server) loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.log.WithFields(logrus.Fields{
			"method": r.Method,
			"path":   r.URL.Path,
		}).Debug("http request")
		next.ServeHTTP(w, r)
	})
}
