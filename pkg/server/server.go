// Package server exposes the parse, layout, and export pipeline over HTTP.
//
// The API mirrors a small editor workflow: POST /api/parse turns FPB text
// into a model and diagram and binds them to a session, POST /api/import
// does the same for uploaded files, and POST /api/export/{format} turns a
// session back into a downloadable artifact.
package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"

	"github.com/phindler/fpdviz/pkg/httputil"
	"github.com/phindler/fpdviz/pkg/pipeline"
	"github.com/phindler/fpdviz/pkg/session"
)

// cleanupInterval is how often expired sessions are swept from the store.
const cleanupInterval = 5 * time.Minute

// Server wires the HTTP routes to the pipeline runner and session store.
type Server struct {
	cfg    Config
	runner *pipeline.Runner
	store  session.Store
	logger *log.Logger
}

// New creates a Server. The runner, store, and logger are injected so tests
// can substitute in-memory implementations.
func New(cfg Config, runner *pipeline.Runner, store session.Store, logger *log.Logger) *Server {
	if logger == nil {
		logger = log.Default()
	}
	return &Server{
		cfg:    cfg,
		runner: runner,
		store:  store,
		logger: logger,
	}
}

// Handler builds the HTTP routing tree.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(httputil.RequestLogger(s.logger))
	r.Use(httputil.CORS(s.cfg.Server.CORSOrigins))

	r.Route("/api", func(r chi.Router) {
		r.Get("/health", s.handleHealth)
		r.Post("/parse", s.handleParse)
		r.Post("/import", s.handleImport)
		r.Post("/export/{format}", s.handleExport)
		r.Route("/session/{id}", func(r chi.Router) {
			r.Get("/", s.handleGetSession)
			r.Delete("/", s.handleDeleteSession)
		})
	})

	return r
}

// ListenAndServe runs the server until ctx is cancelled, then shuts down
// gracefully. A background ticker sweeps expired sessions while serving.
func (s *Server) ListenAndServe(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.cfg.Addr(),
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go s.sweepSessions(ctx)

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("listening", "addr", srv.Addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return err
		}
		s.logger.Info("server stopped")
		return nil
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}

func (s *Server) sweepSessions(ctx context.Context) {
	ticker := time.NewTicker(cleanupInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := s.store.Cleanup(ctx); err != nil {
				s.logger.Warn("session cleanup failed", "err", err)
			}
		}
	}
}
