package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"flightsync-service/internal/domain/repository"
	"flightsync-service/internal/infrastructure/config"
	"flightsync-service/internal/infrastructure/persistence"
	"flightsync-service/internal/infrastructure/router"
	"flightsync-service/internal/interface/httpapi"
	"flightsync-service/internal/interface/pgnotify"
	repo "flightsync-service/internal/interface/repository"
	"flightsync-service/internal/interface/scheduler"
	"flightsync-service/internal/usecase"
	"flightsync-service/pkg/logger"
	"flightsync-service/pkg/metrics"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func main() {
	// Create logger
	log := logger.NewLogger()
	defer log.Sync()

	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatal("Failed to load config", "error", err)
	}
	log.Info("Starting FlightSync Service", "version", cfg.AppVersion)

	// Set up context with cancellation
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	m := metrics.NewMetrics(cfg.MetricsNamespace, prometheus.DefaultRegisterer)

	// Set up PostgreSQL connection
	log.Info("Connecting to PostgreSQL")
	gormDB, err := persistence.NewPostgresDB(cfg.PostgresDSN, cfg.PostgresMaxOpen, cfg.PostgresMaxIdle)
	if err != nil {
		log.Fatal("Failed to connect to PostgreSQL", "error", err)
	}

	// Set up MongoDB connection
	log.Info("Connecting to MongoDB")
	mongoClient, err := persistence.NewMongoClient(ctx, cfg.MongoURI, cfg.MongoUser, cfg.MongoPassword)
	if err != nil {
		log.Fatal("Failed to connect to MongoDB", "error", err)
	}
	db := persistence.GetDatabase(mongoClient, cfg.MongoDB)

	// Set up repositories
	flightRepo := repo.NewGormFlightPriceRepository(gormDB)
	historyRepo := repo.NewMongoPriceHistoryRepository(db, log)
	behaviorRepo := repo.NewMongoCustomerBehaviorRepository(db)
	reviewRepo := repo.NewMongoReviewDocumentRepository(db)
	insightRepo := repo.NewMongoInsightRepository(db)

	var insightCache repository.InsightCache
	if cfg.RedisAddr != "" {
		log.Info("Connecting to Redis", "addr", cfg.RedisAddr)
		rdb, err := persistence.NewRedisClient(ctx, cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
		if err != nil {
			log.Fatal("Failed to connect to Redis", "error", err)
		}
		defer rdb.Close()
		insightCache = repo.NewRedisInsightCache(rdb)
	}

	// Set up engines
	calculator, err := usecase.NewSurgeCalculator(cfg.MinSurgeMultiplier, cfg.MaxSurgeMultiplier)
	if err != nil {
		log.Fatal("Invalid surge bounds", "error", err)
	}

	pricingEngine := usecase.NewPricingEngine(flightRepo, historyRepo, calculator, usecase.PricingEngineConfig{
		DemandLookupTimeout: cfg.DemandLookupTimeout,
		HistoryWindow:       cfg.HistoryWindow(),
		Workers:             cfg.BatchWorkers,
	}, m, log)

	insightEngine := usecase.NewInsightEngine(flightRepo, historyRepo, insightRepo, insightCache, usecase.InsightEngineConfig{
		TTL:           cfg.InsightTTL,
		HistoryWindow: cfg.HistoryWindow(),
	}, m, log)

	reconciler := usecase.NewBulkReconciler(flightRepo, historyRepo, reviewRepo, cfg.BatchWorkers, m, log)

	// Set up change sync
	eventRouter := router.NewEventRouter(log)
	eventRouter.Register(usecase.NewPriceSyncHandler(flightRepo, historyRepo, log))
	eventRouter.Register(usecase.NewBookingSyncHandler(flightRepo, behaviorRepo, log))
	eventRouter.Register(usecase.NewReviewSyncHandler(flightRepo, reviewRepo, log))
	dispatcher := usecase.NewSyncDispatcher(eventRouter, m, log)

	subscriber := pgnotify.NewSubscriber(cfg.PostgresDSN, cfg.NotifyChannel, log)
	listener := pgnotify.NewChangeListener(subscriber, dispatcher, pgnotify.ListenerConfig{
		WaitTimeout:  cfg.ListenTimeout,
		EventTimeout: cfg.EventTimeout,
		RetryDelay:   cfg.ListenRetryDelay,
	}, m, log)

	// Start change listener in a goroutine
	listenerDone := make(chan error, 1)
	go func() {
		listenerDone <- listener.Run(ctx)
	}()

	// Start price refresh scheduler when enabled
	if cfg.PriceRefreshInterval > 0 {
		refreshScheduler := scheduler.NewRefreshScheduler(pricingEngine, cfg.PriceRefreshInterval, log)
		go func() {
			if err := refreshScheduler.Run(ctx); err != nil {
				log.Error("Price refresh scheduler exited", "error", err)
			}
		}()
	}

	// Set up HTTP server for admin API and metrics
	r := mux.NewRouter()
	httpapi.NewAdminHandler(pricingEngine, insightEngine, reconciler, log).Register(r)
	r.Handle("/metrics", promhttp.Handler())
	r.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("Healthy"))
	})

	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}

	// Start HTTP server in a goroutine
	go func() {
		log.Info("Starting HTTP server", "port", cfg.Port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("HTTP server error", "error", err)
		}
	}()

	// Wait for interrupt signal or a dead change listener
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	stopErr := waitForStop(sigChan, listenerDone, log)
	if stopErr != nil {
		log.Error("Shutting down", "error", stopErr)
	}

	// Graceful shutdown
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error("HTTP server shutdown error", "error", err)
	}

	cancel() // Cancel the context to stop all goroutines

	// The listener finishes its current batch before returning
	if stopErr == nil {
		select {
		case <-listenerDone:
		case <-shutdownCtx.Done():
			log.Warn("Change listener did not stop before shutdown deadline")
		}
	}

	// Disconnect from MongoDB
	if err := mongoClient.Disconnect(shutdownCtx); err != nil {
		log.Error("MongoDB disconnect error", "error", err)
	}

	if sqlDB, err := gormDB.DB(); err == nil {
		sqlDB.Close()
	}

	if stopErr != nil {
		log.Sync()
		os.Exit(1)
	}
	log.Info("FlightSync Service stopped")
}
