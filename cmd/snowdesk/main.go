package main

import (
	"context"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/prometheus/client_golang/prometheus"

	httpapi "github.com/i474232898/snowdesk/internal/api/http"
	"github.com/i474232898/snowdesk/internal/config"
	"github.com/i474232898/snowdesk/internal/observability"
	"github.com/i474232898/snowdesk/internal/providers"
	"github.com/i474232898/snowdesk/internal/publish"
	"github.com/i474232898/snowdesk/internal/refresh"
	"github.com/i474232898/snowdesk/internal/resort"
	"github.com/i474232898/snowdesk/internal/scheduler"
	"github.com/i474232898/snowdesk/internal/store"
)

func main() {
	// Load configuration (.env first, then the environment).
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger, err := observability.NewLogger(cfg.LogLevel)
	if err != nil {
		log.Fatalf("failed to build logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	metrics := observability.NewMetrics()

	// Shared HTTP client for outbound calls.
	httpClient := &http.Client{
		Timeout: cfg.HTTPTimeout,
	}

	// One JSON feed per configured resort.
	sources := make([]resort.Source, 0, len(cfg.Feeds))
	for _, f := range cfg.Feeds {
		sources = append(sources, providers.NewFeedSource(f.Name, f.URL, httpClient, logger))
	}

	// Open-Meteo needs coordinates; unknown resorts are geocoded when a key is set.
	var geo providers.Geocoder
	if cfg.GeocoderAPIKey != "" {
		geo = providers.NewGoogleGeocoder(cfg.GeocoderAPIKey)
	}
	catalog := providers.NewCatalog(resort.DefaultCoordinates, geo, logger)
	forecasts := providers.NewOpenMeteoProvider(httpClient, catalog, cfg.OpenMeteoTimezone)

	var publishers []refresh.Publisher
	if cfg.OutputFile != "" {
		publishers = append(publishers, publish.NewFileSink(cfg.OutputFile))
	}
	if len(cfg.KafkaBrokers) > 0 {
		kafkaSink := publish.NewKafkaSink(cfg.KafkaBrokers, cfg.KafkaTopic)
		defer func() {
			if err := kafkaSink.Close(); err != nil {
				logger.Warnw("closing kafka writer", "error", err)
			}
		}()
		publishers = append(publishers, kafkaSink)
	}

	memStore := store.NewMemoryStore()
	service := refresh.NewService(memStore, sources, forecasts, logger, metrics, refresh.Options{
		SourceTimeout:   cfg.SourceTimeout,
		ForecastTimeout: cfg.ForecastTimeout,
		Publishers:      publishers,
	})

	// Populate the cache before the first scheduled tick.
	go func() {
		if _, err := service.Refresh(context.Background()); err != nil {
			logger.Errorw("initial refresh failed", "error", err)
		}
	}()

	sched := scheduler.New(service, cfg.RefreshInterval, cfg.RefreshCron, logger)
	if err := sched.Start(); err != nil {
		logger.Fatalw("failed to start scheduler", "error", err)
	}
	defer sched.Stop()

	app := fiber.New(fiber.Config{
		AppName:               "snowdesk",
		DisableStartupMessage: true,
		ReadTimeout:           10 * time.Second,
		WriteTimeout:          cfg.SourceTimeout + cfg.ForecastTimeout + 10*time.Second,
		ErrorHandler:          httpapi.ErrorHandler,
	})

	app.Use(fiberlogger.New())
	app.Use(recover.New())

	httpapi.RegisterRoutes(app, service)
	httpapi.RegisterMetrics(app, prometheus.DefaultGatherer)

	go func() {
		logger.Infow("http server listening", "port", cfg.Port, "resorts", len(sources))
		if err := app.Listen(":" + cfg.Port); err != nil {
			logger.Errorw("fiber server stopped", "error", err)
		}
	}()

	// Wait for termination signal
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		logger.Errorw("error during shutdown", "error", err)
	}
}
