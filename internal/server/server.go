/*
Copyright (C) 2026 Friends Incode

SPDX-License-Identifier: AGPL-3.0-or-later
*/

// Package server wires the availability engine behind an HTTP listener.
// All floor data is loaded and sanitized once at startup; the serving
// path is read-only.
package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"

	"github.com/friendsincode/maitred/internal/advisor"
	"github.com/friendsincode/maitred/internal/api"
	"github.com/friendsincode/maitred/internal/availability"
	"github.com/friendsincode/maitred/internal/config"
	"github.com/friendsincode/maitred/internal/db"
	"github.com/friendsincode/maitred/internal/floordata"
	"github.com/friendsincode/maitred/internal/occupancy"
	"github.com/friendsincode/maitred/internal/store"
	"github.com/friendsincode/maitred/internal/telemetry"
)

// Server bundles the HTTP listener and the engine built behind it.
type Server struct {
	cfg           *config.Config
	logger        zerolog.Logger
	router        chi.Router
	httpServer    *http.Server
	metricsServer *http.Server
	closers       []func() error

	store    *store.Store
	resolver *availability.Resolver
	api      *api.API
}

// New constructs the server and wires dependencies.
func New(cfg *config.Config, logger zerolog.Logger) (*Server, error) {
	router := chi.NewRouter()
	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(middleware.Logger)
	router.Use(middleware.Recoverer)
	router.Use(telemetry.TracingMiddleware("maitred-api"))
	router.Use(telemetry.MetricsMiddleware)
	router.Use(middleware.Timeout(30 * time.Second))

	srv := &Server{
		cfg:    cfg,
		logger: logger,
		router: router,
	}

	if err := srv.initEngine(); err != nil {
		return nil, err
	}
	srv.configureRoutes()

	srv.httpServer = &http.Server{
		Addr:              fmt.Sprintf("%s:%d", cfg.HTTPBind, cfg.HTTPPort),
		Handler:           srv.router,
		ReadHeaderTimeout: 15 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	return srv, nil
}

// initEngine loads floor data from the configured backend and builds the
// sanitized store plus everything that queries it.
func (s *Server) initEngine() error {
	var (
		fs  *floordata.FloorSet
		err error
	)
	switch s.cfg.FloorBackend {
	case config.FloorYAML:
		fs, err = floordata.LoadYAML(s.cfg.FloorPath, s.logger)
	default:
		gdb, cerr := db.Connect(s.cfg)
		if cerr != nil {
			return cerr
		}
		s.DeferClose(func() error { return db.Close(gdb) })
		if merr := db.Migrate(gdb); merr != nil {
			return merr
		}
		fs, err = floordata.LoadDB(gdb, s.logger)
	}
	if err != nil {
		return fmt.Errorf("load floor data: %w", err)
	}

	s.store = store.Build(fs, s.logger)
	s.resolver = availability.New(s.store)
	s.resolver.StepMinutes = s.cfg.SlotStepMinutes
	s.resolver.GraceMinutes = s.cfg.GraceMinutes

	adv := advisor.New(s.resolver)
	adv.BufferWarnMinutes = s.cfg.BufferWarnMinutes

	s.api = api.New(s.resolver, adv, occupancy.New(s.store), s.logger)

	blocks := 0
	for _, t := range s.store.Tables() {
		blocks += len(s.store.AllBlocks(t.ID))
	}
	telemetry.StoreBlocksLoaded.Set(float64(blocks))

	s.logger.Info().
		Str("venue", fs.Venue).
		Int("tables", len(s.store.Tables())).
		Int("blocks", blocks).
		Int("seats", s.store.TotalSeats()).
		Msg("floor engine ready")
	return nil
}

func (s *Server) configureRoutes() {
	s.router.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})

	// Metrics stay on the main router unless a dedicated bind is set.
	if s.cfg.MetricsBind == "" {
		s.router.Handle("/metrics", telemetry.Handler())
	}

	s.api.Routes(s.router)
}

// Run serves HTTP until the context is cancelled, then shuts down
// gracefully.
func (s *Server) Run(ctx context.Context) error {
	if s.cfg.MetricsBind != "" {
		mux := http.NewServeMux()
		mux.Handle("/metrics", telemetry.Handler())
		s.metricsServer = &http.Server{
			Addr:              s.cfg.MetricsBind,
			Handler:           mux,
			ReadHeaderTimeout: 15 * time.Second,
		}
		go func() {
			s.logger.Info().Str("addr", s.cfg.MetricsBind).Msg("metrics listener started")
			if err := s.metricsServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				s.logger.Error().Err(err).Msg("metrics listener exited")
			}
		}()
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info().Str("addr", s.httpServer.Addr).Msg("http listener started")
		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
			return
		}
		errCh <- nil
	}()

	select {
	case <-ctx.Done():
	case err := <-errCh:
		return err
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown http server: %w", err)
	}
	if s.metricsServer != nil {
		if err := s.metricsServer.Shutdown(shutdownCtx); err != nil {
			s.logger.Error().Err(err).Msg("metrics listener shutdown error")
		}
	}
	return nil
}

// HTTPServer exposes the underlying net/http server.
func (s *Server) HTTPServer() *http.Server {
	return s.httpServer
}

// Close releases owned resources in reverse order.
func (s *Server) Close() error {
	var firstErr error
	for i := len(s.closers) - 1; i >= 0; i-- {
		if err := s.closers[i](); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

// DeferClose registers a cleanup hook.
func (s *Server) DeferClose(fn func() error) {
	s.closers = append(s.closers, fn)
}
