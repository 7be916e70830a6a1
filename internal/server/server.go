package server

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/rpv-lab/embrittlement/internal/api"
	"github.com/rpv-lab/embrittlement/internal/baseline"
	"github.com/rpv-lab/embrittlement/internal/config"
	"github.com/rpv-lab/embrittlement/internal/runs"
)

// Server exposes the baseline report, run history, and on-demand
// prediction over HTTP
type Server struct {
	cfg        config.Config
	httpServer *http.Server
	router     *mux.Router
	store      *runs.Store
}

// New creates a new Server with all components initialized. The report may
// be nil if the startup evaluation failed; the store may be nil if no run
// history database was configured.
func New(cfg config.Config, report *baseline.Report, store *runs.Store) *Server {
	s := &Server{
		cfg:    cfg,
		router: mux.NewRouter(),
		store:  store,
	}

	apiRouter := s.router.PathPrefix("/api").Subrouter()
	api.NewHandler(report, store, cfg).RegisterRoutes(apiRouter)

	return s
}

// Start begins listening for HTTP connections
func (s *Server) Start() error {
	s.httpServer = &http.Server{
		Addr:         fmt.Sprintf(":%d", s.cfg.Port),
		Handler:      s.router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	log.Printf("Server listening on http://localhost:%d", s.cfg.Port)
	return s.httpServer.ListenAndServe()
}

// Stop gracefully shuts down the server
func (s *Server) Stop() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if s.store != nil {
		if err := s.store.Close(); err != nil {
			log.Printf("Error closing run history: %v", err)
		}
	}

	return s.httpServer.Shutdown(ctx)
}

// Router exposes the configured router, mainly for tests.
func (s *Server) Router() http.Handler {
	return s.router
}
