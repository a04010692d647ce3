// Package server exposes interactive treemap sessions over HTTP.
//
// A client creates a session, uploads cloc reports as projects, adjusts the
// filter and options, and fetches renders. Clicks on a render are resolved
// against the hit rectangles of the session's last paint, and the clicked
// directory can be excluded for the next render.
package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/codexray/pkg/pipeline"
	"github.com/matzehuels/codexray/pkg/session"
)

// MaxUploadBytes bounds request bodies; cloc reports of large monorepos run
// to a few megabytes.
const MaxUploadBytes = 64 << 20

// Server serves the session API.
type Server struct {
	runner     *pipeline.Runner
	store      session.Store
	logger     *log.Logger
	ttl        time.Duration
	handler    http.Handler
	httpServer *http.Server
}

// New creates a server. The runner's cache is shared by all sessions; keys
// are scoped per session.
func New(cfg Config, runner *pipeline.Runner, store session.Store, logger *log.Logger) *Server {
	if logger == nil {
		logger = log.Default()
	}
	s := &Server{
		runner: runner,
		store:  store,
		logger: logger,
		ttl:    cfg.SessionTTL,
	}
	s.handler = s.routes()
	s.httpServer = &http.Server{
		Addr:              cfg.Addr,
		Handler:           s.handler,
		ReadHeaderTimeout: 10 * time.Second,
	}
	return s
}

// Handler returns the HTTP handler, for tests and embedding.
func (s *Server) Handler() http.Handler {
	return s.handler
}

// Start serves until Shutdown is called. It sweeps expired sessions in the
// background.
func (s *Server) Start(ctx context.Context) error {
	go s.sweep(ctx)
	s.logger.Info("starting API server", "addr", s.httpServer.Addr)
	if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown stops the server gracefully.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

func (s *Server) sweep(ctx context.Context) {
	ticker := time.NewTicker(time.Minute)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := s.store.Cleanup(ctx); err != nil {
				s.logger.Warn("session cleanup", "error", err)
			}
		}
	}
}
