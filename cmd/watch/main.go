package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/couchcryptid/disaster-watch/internal/adapter/assess"
	"github.com/couchcryptid/disaster-watch/internal/adapter/fema"
	httpadapter "github.com/couchcryptid/disaster-watch/internal/adapter/http"
	kafkaadapter "github.com/couchcryptid/disaster-watch/internal/adapter/kafka"
	"github.com/couchcryptid/disaster-watch/internal/adapter/nws"
	"github.com/couchcryptid/disaster-watch/internal/adapter/openweather"
	"github.com/couchcryptid/disaster-watch/internal/config"
	"github.com/couchcryptid/disaster-watch/internal/observability"
	"github.com/couchcryptid/disaster-watch/internal/pipeline"
)

func main() {
	_ = godotenv.Load() // optional .env overlay for local development

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := observability.NewLogger(cfg)
	metrics := observability.NewMetrics()

	weather := openweather.NewClient(cfg.OpenWeatherAPIKey, cfg.SourceTimeout, cfg.GeocodeCacheSize, metrics, logger)
	federal := fema.NewClient(cfg.SourceTimeout, cfg.DeclarationLimit, logger)
	regional := nws.NewClient(cfg.SourceTimeout, logger)

	// AI assessment is feature-flagged via ASSESS_URL.
	var assessor pipeline.Assessor
	if cfg.AssessURL != "" {
		assessor = assess.NewClient(cfg.AssessURL, cfg.AssessTimeout, logger)
		logger.Info("ai assessment enabled", "url", cfg.AssessURL, "timeout", cfg.AssessTimeout)
	} else {
		logger.Info("ai assessment disabled, using rule ladder only")
	}

	// Notification publication is feature-flagged via NOTIFICATION_TOPIC.
	var sink pipeline.NotificationSink
	var writer *kafkaadapter.Writer
	if cfg.NotificationTopic != "" {
		writer = kafkaadapter.NewWriter(cfg, logger)
		sink = writer
		logger.Info("notification sink enabled", "topic", cfg.NotificationTopic)
	} else {
		logger.Info("notification sink disabled")
	}

	p := pipeline.New(pipeline.Options{
		Weather:       weather,
		Federal:       federal,
		Regional:      regional,
		Assessor:      assessor,
		Sink:          sink,
		Location:      cfg.Watch,
		Thresholds:    cfg.Thresholds(),
		FetchInterval: cfg.FetchInterval,
		SourceDelay:   cfg.SourceDelay,
		Logger:        logger,
		Metrics:       metrics,
	})

	srv := httpadapter.NewServer(cfg.HTTPAddr, p, p, logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Start HTTP server.
	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server error", "error", err)
		}
	}()

	// Start fetch pipeline.
	go func() {
		if err := p.Run(ctx); err != nil {
			logger.Error("pipeline error", "error", err)
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("http server shutdown error", "error", err)
	}
	if writer != nil {
		if err := writer.Close(); err != nil {
			logger.Error("kafka writer close error", "error", err)
		}
	}

	logger.Info("shutdown complete")
}
