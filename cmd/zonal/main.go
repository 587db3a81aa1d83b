package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	exportadapter "github.com/andeanclimate/tmin-zonal/internal/adapter/export"
	httpadapter "github.com/andeanclimate/tmin-zonal/internal/adapter/http"
	kafkaadapter "github.com/andeanclimate/tmin-zonal/internal/adapter/kafka"
	"github.com/andeanclimate/tmin-zonal/internal/adapter/netcdf"
	"github.com/andeanclimate/tmin-zonal/internal/adapter/shapefile"
	"github.com/andeanclimate/tmin-zonal/internal/config"
	"github.com/andeanclimate/tmin-zonal/internal/observability"
	"github.com/andeanclimate/tmin-zonal/internal/pipeline"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := observability.NewLogger(cfg)
	metrics := observability.NewMetrics()

	districts := shapefile.NewLoader(cfg, logger)
	raster := netcdf.NewLoader(cfg, logger)

	var sinks []pipeline.SnapshotSink
	if cfg.ExportDir != "" {
		sinks = append(sinks, exportadapter.NewCSVExporter(cfg.ExportDir, cfg.RankingSize, logger))
		logger.Info("csv export enabled", "dir", cfg.ExportDir)
	}
	// Kafka publishing is feature-flagged via KAFKA_ENABLED.
	var writer *kafkaadapter.Writer
	if cfg.KafkaEnabled {
		writer = kafkaadapter.NewWriter(cfg, logger)
		sinks = append(sinks, writer)
		logger.Info("kafka publishing enabled", "topic", cfg.KafkaTopic, "brokers", cfg.KafkaBrokers)
	} else {
		logger.Info("kafka publishing disabled")
	}

	p := pipeline.New(districts, raster, sinks, cfg.InclusionPolicy, cfg.Thresholds, logger, metrics)

	srv := httpadapter.NewServer(cfg.HTTPAddr, p, cfg.RankingSize, logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Serve health and metrics while the batch runs, then the snapshot API.
	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server error", "error", err)
		}
	}()

	runErr := p.Run(ctx)
	if runErr != nil {
		logger.Error("pipeline error", "error", runErr)
	}

	if runErr == nil {
		<-ctx.Done()
	}
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
	if runErr != nil {
		os.Exit(1)
	}
}
