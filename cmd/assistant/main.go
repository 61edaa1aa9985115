package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/uptc-energy/energy-assistant/api"
	"github.com/uptc-energy/energy-assistant/internal/chat"
	"github.com/uptc-energy/energy-assistant/internal/events"
	"github.com/uptc-energy/energy-assistant/internal/features"
	"github.com/uptc-energy/energy-assistant/internal/intent"
	"github.com/uptc-energy/energy-assistant/internal/logger"
	"github.com/uptc-energy/energy-assistant/internal/predictor"
	"github.com/uptc-energy/energy-assistant/internal/reports"
	"github.com/uptc-energy/energy-assistant/internal/session"
	"github.com/uptc-energy/energy-assistant/internal/timeseries"
	"github.com/uptc-energy/energy-assistant/pkg/config"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	configPath := flag.String("config", "", "path to config file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	logger.Setup(cfg.App.LogLevel, cfg.App.Mode)
	logger.Infof("Starting %s in %s mode", cfg.App.Name, cfg.App.Mode)

	dataset, err := timeseries.Load(cfg.Dataset.Path, timeseries.Options{
		Site:            cfg.Dataset.Site,
		SiteColumns:     cfg.Dataset.SiteColumns,
		TargetColumn:    cfg.Dataset.TargetColumn,
		TimestampColumn: cfg.Dataset.TimestampColumn,
	})
	if err != nil {
		return fmt.Errorf("failed to load dataset: %w", err)
	}

	reportStore, err := reports.Load(cfg.Reports.PredictionsPath, cfg.Reports.InefficiencyPath)
	if err != nil {
		return fmt.Errorf("failed to load reports: %w", err)
	}

	bus := events.NewEventBus(cfg.Events.BufferSize)
	defer bus.Close()

	router := intent.NewRouter(intent.Config{
		Endpoint: cfg.LLM.Endpoint,
		Model:    cfg.LLM.Model,
		APIKey:   cfg.LLM.APIKey,
	})

	forecaster := predictor.NewClient(predictor.Config{
		Endpoint: cfg.Predictor.Endpoint,
		Timeout:  cfg.Predictor.Timeout,
	})
	defer forecaster.Close()

	orchestrator := chat.NewOrchestrator(chat.Config{
		Router:    router,
		Builder:   features.NewBuilder(dataset),
		Forecast:  forecaster,
		Sessions:  session.NewMemoryStore(),
		Publisher: events.NewPublisher(bus),
		Location:  dataset.Location(),
	})

	server := api.NewServer(api.Deps{
		Config:       cfg,
		Orchestrator: orchestrator,
		Router:       router,
		Forwarder:    forecaster,
		Dataset:      dataset,
		Reports:      reportStore,
		Bus:          bus,
	})

	shutdownChan := make(chan os.Signal, 1)
	signal.Notify(shutdownChan, os.Interrupt, syscall.SIGTERM)

	errChan := make(chan error, 1)
	go func() {
		logger.Infof("API server listening on port %d", cfg.API.Port)
		if err := server.Start(); err != nil && err != http.ErrServerClosed {
			errChan <- err
		}
	}()

	select {
	case err := <-errChan:
		return fmt.Errorf("server error: %w", err)
	case sig := <-shutdownChan:
		logger.Infof("Received signal %v, shutting down", sig)
	}

	shutdownTimeout := cfg.App.ShutdownTimeout
	if shutdownTimeout == 0 {
		shutdownTimeout = 30 * time.Second
	}
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown error: %w", err)
	}

	logger.Info("Server stopped gracefully")
	return nil
}
