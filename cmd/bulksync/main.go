// Command bulksync rebuilds the document store from the relational store
// once and exits. The exit code is non-zero when any row failed.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"flightsync-service/internal/domain/entity"
	"flightsync-service/internal/infrastructure/config"
	"flightsync-service/internal/infrastructure/persistence"
	repo "flightsync-service/internal/interface/repository"
	"flightsync-service/internal/usecase"
	"flightsync-service/pkg/logger"
	"flightsync-service/pkg/metrics"

	"github.com/prometheus/client_golang/prometheus"
)

const (
	exitOK = iota
	exitFailed
	exitRowErrors
)

func main() {
	os.Exit(run())
}

// run owns every deferred cleanup so the connections close before exit
func run() int {
	log := logger.NewLogger()
	defer log.Sync()

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Error("Failed to load config", "error", err)
		return exitFailed
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	gormDB, err := persistence.NewPostgresDB(cfg.PostgresDSN, cfg.PostgresMaxOpen, cfg.PostgresMaxIdle)
	if err != nil {
		log.Error("Failed to connect to PostgreSQL", "error", err)
		return exitFailed
	}
	if sqlDB, err := gormDB.DB(); err == nil {
		defer sqlDB.Close()
	}

	mongoClient, err := persistence.NewMongoClient(ctx, cfg.MongoURI, cfg.MongoUser, cfg.MongoPassword)
	if err != nil {
		log.Error("Failed to connect to MongoDB", "error", err)
		return exitFailed
	}
	defer mongoClient.Disconnect(context.Background())
	db := persistence.GetDatabase(mongoClient, cfg.MongoDB)

	reconciler := usecase.NewBulkReconciler(
		repo.NewGormFlightPriceRepository(gormDB),
		repo.NewMongoPriceHistoryRepository(db, log),
		repo.NewMongoReviewDocumentRepository(db),
		cfg.BatchWorkers,
		metrics.NewMetrics(cfg.MetricsNamespace, prometheus.NewRegistry()),
		log,
	)

	report, err := reconciler.SyncAll(ctx)
	if err != nil {
		log.Error("Bulk sync failed", "error", err)
		return exitFailed
	}

	log.Info("Bulk sync finished",
		"runId", report.RunID.String(),
		"pricesSynced", report.PricesSynced,
		"priceErrors", report.PriceErrors,
		"reviewsSynced", report.ReviewsSynced,
		"reviewErrors", report.ReviewErrors,
	)
	return exitCode(report)
}

func exitCode(report *entity.ReconcileReport) int {
	if report.PriceErrors > 0 || report.ReviewErrors > 0 {
		return exitRowErrors
	}
	return exitOK
}
