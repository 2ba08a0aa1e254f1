package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/proposalcraft/proposalcraft-backend/config"
	"github.com/proposalcraft/proposalcraft-backend/internal/api/http/middleware"
	"github.com/proposalcraft/proposalcraft-backend/internal/bootstrap"
	"github.com/proposalcraft/proposalcraft-backend/internal/jobs"
	"github.com/proposalcraft/proposalcraft-backend/internal/logger"
	"github.com/proposalcraft/proposalcraft-backend/internal/metrics"
	proposalshttp "github.com/proposalcraft/proposalcraft-backend/internal/proposals/http"
	"github.com/proposalcraft/proposalcraft-backend/internal/proposals/store"
	"github.com/proposalcraft/proposalcraft-backend/internal/proposals/templates"
)

const serviceName = "proposalcraft-backend"

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	zl, err := logger.New(cfg.App.Environment, cfg.App.LogLevel)
	if err != nil {
		log.Fatalf("logger: %v", err)
	}
	defer func() { _ = zl.Sync() }()

	if err := run(cfg, zl); err != nil {
		zl.Fatal("server stopped", zap.Error(err))
	}
}

func run(cfg *config.Config, zl *zap.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	bootstrap.SetGinMode(cfg.App.Environment)

	storage, err := bootstrap.OpenStorage(ctx, cfg)
	if err != nil {
		return err
	}
	defer storage.Close()

	catalog, err := templates.Load(cfg.Storage.TemplatesFile)
	if err != nil {
		return err
	}

	sessions := store.NewManager(cfg.Session.TTL)

	m := metrics.New(metrics.Config{ServiceName: serviceName, Environment: cfg.App.Environment})
	m.TrackActiveSessions(sessions.Len)

	exportLimiter := middleware.NewRateLimiter(rate.Limit(cfg.Server.ExportRate), cfg.Server.ExportBurst)

	scheduler := jobs.NewScheduler()
	if err := scheduler.AddSweep("sessions", cfg.Session.SweepSchedule, sessions); err != nil {
		return err
	}
	if err := scheduler.AddSweep("export-limiter", cfg.Session.SweepSchedule, exportLimiter); err != nil {
		return err
	}
	scheduler.Start()

	handler := proposalshttp.New(proposalshttp.Deps{
		Sessions:    sessions,
		Repo:        storage.Repo,
		Handoff:     storage.Handoff,
		Templates:   catalog,
		Metrics:     m,
		ExportLimit: exportLimiter.Handler(),
	})

	router := bootstrap.BuildRouter(bootstrap.RouterDeps{
		ServiceName: serviceName,
		Version:     cfg.App.Version,
		CORSOrigins: cfg.Server.CORSOrigins,
		Storage:     storage.Repo,
		Sessions:    sessions.Len,
		Metrics:     m,
		Proposals:   handler,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Server.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		zl.Info("listening",
			zap.String("addr", srv.Addr),
			zap.String("backend", cfg.Storage.Backend),
			zap.Int("templates", len(catalog.List())))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	zl.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := scheduler.Stop(shutdownCtx); err != nil {
		zl.Warn("scheduler stop", zap.Error(err))
	}
	return srv.Shutdown(shutdownCtx)
}
