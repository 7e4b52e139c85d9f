package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"crowdwatch-monitor/internal/api"
	"crowdwatch-monitor/internal/config"
	"crowdwatch-monitor/internal/feed"
	"crowdwatch-monitor/internal/logging"
	"crowdwatch-monitor/internal/metrics"
	"crowdwatch-monitor/internal/pipeline"
	"crowdwatch-monitor/internal/services/analysis"
	"crowdwatch-monitor/internal/services/messaging"
	"crowdwatch-monitor/internal/services/notify"
	"crowdwatch-monitor/internal/store/postgres"
)

func main() {
	// Setup structured logging
	zerolog.TimeFieldFormat = time.RFC3339
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	// Load configuration
	cfg := config.Load()

	// Set log level
	level, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil {
		log.Warn().Str("level", cfg.LogLevel).Msg("Invalid log level, using info")
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)

	if cfg.LogdyEnabled {
		if writer, url, err := logging.StartLogdy(cfg); err == nil {
			log.Logger = log.Output(zerolog.MultiLevelWriter(zerolog.ConsoleWriter{Out: os.Stderr}, writer))
			log.Info().Str("url", url).Msg("Log tee to Logdy enabled")
		} else {
			log.Warn().Err(err).Msg("Logdy startup failed, console logging only")
		}
	}

	log.Info().
		Str("monitor_id", cfg.MonitorID).
		Str("version", cfg.Version).
		Str("environment", cfg.Environment).
		Int("port", cfg.Port).
		Dur("refresh_interval", cfg.RefreshInterval).
		Msg("Starting CrowdWatch Monitor")

	defaults, err := config.LoadLocationDefaults(cfg.LocationsFile)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load location defaults")
	}

	connectCtx, cancel := context.WithTimeout(context.Background(), cfg.StoreTimeout)
	pool, err := postgres.Connect(connectCtx, cfg.DatabaseURL)
	cancel()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to reading store")
	}
	defer pool.Close()

	readings := postgres.NewReadingStore(pool)
	settings := postgres.NewSettingsStore(pool)

	// Alert notifications ride the message bus; a dead bus degrades alerting
	// to persistence-only instead of taking the monitor down.
	var notifier pipeline.Notifier
	bus, err := messaging.NewService(cfg)
	if err != nil {
		log.Warn().Err(err).Msg("NATS unavailable, alert notifications disabled")
	} else {
		notifier = notify.NewService(bus, cfg.AlertsSubject, cfg.MonitorID)
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.NatsDrainTimeout)
			defer cancel()
			if err := bus.Shutdown(shutdownCtx); err != nil {
				log.Warn().Err(err).Msg("NATS shutdown failed")
			}
		}()
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector())

	evaluator := pipeline.NewAlertEvaluator(readings, notifier, cfg.AlertsCooldown, logging.NewServiceLogger(cfg, "alerts"))

	scheduler := pipeline.NewScheduler(pipeline.SchedulerOptions{
		Readings:  readings,
		Settings:  settings,
		Source:    feed.NewSource(cfg),
		Evaluator: evaluator,
		Metrics:   metrics.New(registry),
		Logger:    logging.NewServiceLogger(cfg, "scheduler"),
		Interval:  cfg.RefreshInterval,
		ListLimit: cfg.StoreListLimit,
	})
	scheduler.Start()
	defer scheduler.Stop()

	server := api.NewServer(cfg, api.Dependencies{
		Scheduler: scheduler,
		Readings:  readings,
		Settings:  settings,
		Defaults:  defaults,
		Analyzer:  analysis.NewClient(cfg),
		Evaluator: evaluator,
		Registry:  registry,
	})
	if err := server.Setup(); err != nil {
		log.Fatal().Err(err).Msg("Failed to set up server")
	}

	// Start server in goroutine
	go func() {
		if err := server.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("Server failed to start")
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutdown signal received")

	if err := server.Stop(); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
	} else {
		log.Info().Msg("Server shutdown complete")
	}
}
