// Package server exposes the tutor over HTTP.
package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/sirupsen/logrus"

	"github.com/abhisek/viva/internal/tutor"
)

// Info describes the running service for /health and /.
type Info struct {
	Name     string
	Version  string
	Provider string
	Model    string
}

// Server holds the HTTP handlers.
type Server struct {
	svc       *tutor.Service
	validator *Validator
	info      Info
	log       logrus.FieldLogger
}

// New creates a Server.
func New(svc *tutor.Service, info Info, log logrus.FieldLogger) *Server {
	if info.Name == "" {
		info.Name = "Viva"
	}
	return &Server{
		svc:       svc,
		validator: NewValidator(),
		info:      info,
		log:       log,
	}
}

// Routes returns the router with all middleware and routes mounted.
func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(requestLogger(s.log))
	r.Use(middleware.Recoverer)
	r.Use(cors([]string{"*"}))

	r.Get("/", s.Root)
	r.Get("/health", s.Health)
	r.Post("/process-text", s.ProcessText)
	r.Get("/session/{sid}", s.GetSession)
	r.Post("/session/reset", s.ResetSession)
	r.Post("/set-language", s.SetLanguage)

	return r
}

// endpoints lists the routes advertised by Root.
var endpoints = []string{
	"/process-text",
	"/session/{sid}",
	"/session/reset",
	"/set-language",
	"/health",
}

// ListenAndServe serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:         addr,
		Handler:      s.Routes(),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 90 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	errc := make(chan error, 1)
	go func() {
		s.log.WithField("addr", addr).Info("server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errc <- err
		}
		close(errc)
	}()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}

	s.log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
