// Package server exposes the lineage store and layout pipeline over a
// JSON REST API.
//
// Routes are mounted under /api:
//
//	GET    /api/chart       run the layout pipeline and return a chart
//	GET    /api/kinship     classify one pair or everyone against a reference
//	GET    /api/integrity   run the full integrity audit
//	GET    /api/people      list people (plus PUT, GET/DELETE by id)
//	GET    /api/houses      list houses (plus PUT, GET/DELETE by id)
//	GET    /api/records     list records (plus PUT, GET/DELETE by id)
//
// Every response is JSON. Errors carry a stable machine-readable code so
// clients can branch without parsing messages.
package server

import (
	"context"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/tysonmwilliams-source/lineageweaver-sub002/pkg/config"
	"github.com/tysonmwilliams-source/lineageweaver-sub002/pkg/pipeline"
	"github.com/tysonmwilliams-source/lineageweaver-sub002/pkg/store"
)

// Server binds the HTTP API to a dataset store.
type Server struct {
	cfg     *config.Config
	store   *store.Store
	runner  *pipeline.Runner
	logger  *log.Logger
	limiter *clientLimiter
}

// New builds a server around an open store. The logger may be nil.
func New(cfg *config.Config, st *store.Store, logger *log.Logger) *Server {
	if logger == nil {
		logger = log.Default()
	}
	return &Server{
		cfg:     cfg,
		store:   st,
		runner:  pipeline.NewRunner(cfg, logger),
		logger:  logger,
		limiter: newClientLimiter(cfg.Server.RateLimit, cfg.Server.RateBurst),
	}
}

// Handler assembles the chi router with all routes and middleware.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(s.requestLog)

	r.Get("/healthz", s.handleHealth)

	r.Route("/api", func(r chi.Router) {
		r.Use(s.rateLimit)

		r.Get("/chart", s.handleChart)
		r.Get("/kinship", s.handleKinship)
		r.Get("/integrity", s.handleIntegrity)

		r.Route("/people", func(r chi.Router) {
			r.Get("/", s.handleListPeople)
			r.Put("/", s.handlePutPerson)
			r.Get("/{id}", s.handleGetPerson)
			r.Delete("/{id}", s.handleDeletePerson)
		})
		r.Route("/houses", func(r chi.Router) {
			r.Get("/", s.handleListHouses)
			r.Put("/", s.handlePutHouse)
			r.Get("/{id}", s.handleGetHouse)
			r.Delete("/{id}", s.handleDeleteHouse)
		})
		r.Route("/records", func(r chi.Router) {
			r.Get("/", s.handleListRecords)
			r.Put("/", s.handlePutRecord)
			r.Get("/{id}", s.handleGetRecord)
			r.Delete("/{id}", s.handleDeleteRecord)
		})
	})

	return r
}

// Run serves until the context is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.cfg.Server.Addr(),
		Handler:           s.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("listening", "addr", srv.Addr, "backend", s.store.Backend())
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		s.logger.Info("shutting down")
		return srv.Shutdown(shutdownCtx)
	case err := <-errCh:
		if err == http.ErrServerClosed {
			return nil
		}
		return err
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status":  "ok",
		"backend": s.store.Backend(),
	})
}
