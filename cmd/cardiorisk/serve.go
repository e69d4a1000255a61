package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/OldStager01/cardio-risk/api"
	"github.com/OldStager01/cardio-risk/internal/analyzer"
	"github.com/OldStager01/cardio-risk/internal/artifacts"
	"github.com/OldStager01/cardio-risk/internal/events"
	"github.com/OldStager01/cardio-risk/internal/logger"
	"github.com/OldStager01/cardio-risk/internal/metrics"
	"github.com/OldStager01/cardio-risk/internal/pipeline"
	"github.com/OldStager01/cardio-risk/internal/report"
)

const defaultShutdownTimeout = 15 * time.Second

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Load the model artifacts and serve predictions",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runServe(cmd)
	},
}

func runServe(cmd *cobra.Command) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	logger.Infof("Starting %s in %s mode", cfg.App.Name, cfg.App.Mode)

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	m := metrics.Get()

	bus := events.NewEventBus(cfg.Events.BufferSize)
	defer bus.Close()
	go m.Observe(bus.SubscribeAll())
	if cfg.Events.LogEvents {
		eventLogger := events.NewEventLogger(bus.SubscribeAll())
		eventLogger.Start()
		defer eventLogger.Stop()
	}

	var conns backends
	defer conns.Close()

	src, err := openSource(ctx, cfg, &conns)
	if err != nil {
		return err
	}

	loadCtx, cancelLoad := context.WithTimeout(ctx, cfg.Artifacts.LoadTimeout)
	bundle, err := artifacts.Load(loadCtx, resilientSource(cfg, src, m))
	cancelLoad()
	if err != nil {
		return fmt.Errorf("failed to load model artifacts: %w", err)
	}

	publisher := events.NewPublisher(bus)
	m.SetModel(bundle.Info())
	publisher.ArtifactsLoaded(bundle.Info())

	p, err := pipeline.New(pipeline.Config{
		Bundle:            bundle,
		Publisher:         publisher,
		Metrics:           m,
		DefaultConfidence: cfg.Inference.DefaultConfidence,
	})
	if err != nil {
		return err
	}

	deps := api.Dependencies{
		Inferer:  p,
		Analyzer: analyzer.New(analyzer.Config{}),
		Reports:  report.NewBuilder(),
		DB:       conns.db,
	}
	if cfg.Metrics.Enabled {
		deps.Metrics = m
	}
	if cfg.WebSocket.Enabled {
		deps.Events = bus.SubscribeAll()
	}
	server := api.NewServer(cfg, deps)

	var metricsServer *http.Server
	if cfg.Metrics.Enabled && cfg.Metrics.Port != 0 {
		metricsServer = metrics.StartServer(cfg.Metrics.Port, m)
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		logger.Infof("API server listening on port %d", cfg.API.Port)
		if err := server.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		logger.Info("Shutting down")

		timeout := cfg.App.ShutdownTimeout
		if timeout <= 0 {
			timeout = defaultShutdownTimeout
		}
		shutdownCtx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()

		var errs []error
		if err := server.Shutdown(shutdownCtx); err != nil {
			errs = append(errs, fmt.Errorf("api shutdown: %w", err))
		}
		if metricsServer != nil {
			if err := metricsServer.Shutdown(shutdownCtx); err != nil {
				errs = append(errs, fmt.Errorf("metrics shutdown: %w", err))
			}
		}
		return errors.Join(errs...)
	})

	if err := g.Wait(); err != nil {
		return err
	}

	logger.Info("Server stopped gracefully")
	return nil
}
