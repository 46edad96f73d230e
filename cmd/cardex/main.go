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

	"go.uber.org/zap"

	"github.com/kailas-cloud/cardex/internal/config"
	dbRedis "github.com/kailas-cloud/cardex/internal/db/redis"
	"github.com/kailas-cloud/cardex/internal/domain/contact/extract"
	logpkg "github.com/kailas-cloud/cardex/internal/logger"
	"github.com/kailas-cloud/cardex/internal/metrics"
	contactrepo "github.com/kailas-cloud/cardex/internal/repository/contact"
	lockrepo "github.com/kailas-cloud/cardex/internal/repository/lock"
	chiTransport "github.com/kailas-cloud/cardex/internal/transport/chi"
	contactuc "github.com/kailas-cloud/cardex/internal/usecase/contact"
	healthuc "github.com/kailas-cloud/cardex/internal/usecase/health"
	scanuc "github.com/kailas-cloud/cardex/internal/usecase/scan"
	"github.com/kailas-cloud/cardex/internal/version"
)

func main() {
	// Load configuration based on ENV
	env := config.GetEnv()

	cfg, err := config.Load(env)
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	logger, err := logpkg.NewLogger(env, cfg.Logging.Level)
	if err != nil {
		panic("failed to create logger: " + err.Error())
	}
	defer func() { _ = logger.Sync() }()

	logger.Info("Starting cardex API server",
		zap.String("version", version.String()),
		zap.Int("http_port", cfg.HTTP.Port),
		zap.String("db_driver", cfg.Database.Driver),
		zap.Strings("db_addrs", cfg.Database.Addrs),
		zap.String("key_prefix", cfg.Storage.KeyPrefix),
	)

	// Redis and Valkey speak the same protocol for the commands cardex uses.
	store, err := dbRedis.NewStore(dbRedis.Config{
		Addrs:    cfg.Database.Addrs,
		Username: cfg.Database.Username,
		Password: cfg.Database.Password,
		DB:       cfg.Database.DB,
	})
	if err != nil {
		logger.Fatal("Failed to create database store", zap.Error(err))
	}
	defer store.Close()

	ctx := context.Background()
	if err := store.WaitForReady(ctx, time.Duration(cfg.Database.ReadinessTimeout)*time.Second); err != nil {
		logger.Fatal("Database not ready", zap.Error(err))
	}
	logger.Info("Connected to database")

	// Register metrics explicitly (no init())
	metrics.RegisterHTTPMetrics()
	metrics.RegisterScanMetrics()

	vocab, err := config.LoadVocabulary(cfg.Extraction.VocabularyFile)
	if err != nil {
		logger.Fatal("Failed to load vocabulary", zap.Error(err))
	}
	classifier, err := extract.New(vocab)
	if err != nil {
		logger.Fatal("Invalid vocabulary", zap.Error(err))
	}
	classifier = classifier.WithProximityMaxLen(cfg.Extraction.ProximityMaxLen)
	logger.Info("Classifier ready",
		zap.Int("keywords", len(vocab)),
		zap.String("vocabulary_file", cfg.Extraction.VocabularyFile),
	)

	// Repositories
	contactRepo := contactrepo.New(store, cfg.Storage.KeyPrefix)
	locker := lockrepo.New(store, cfg.Storage.KeyPrefix, lockrepo.Config{
		TTL:           cfg.Locking.TTL(),
		WaitTimeout:   cfg.Locking.WaitTimeout(),
		RetryInterval: cfg.Locking.RetryInterval(),
	})

	// Use cases
	contactSvc := contactuc.New(contactRepo, locker)
	scanSvc := scanuc.New(classifier, contactRepo)
	healthSvc := healthuc.New(store).WithComponent(cfg.Database.Driver)

	server := chiTransport.NewServer(contactSvc, scanSvc, healthSvc, logger)
	handler := chiTransport.NewRouter(server, logger)

	addr := fmt.Sprintf(":%d", cfg.HTTP.Port)
	srv := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadTimeout:       time.Duration(cfg.HTTP.ReadTimeoutSec) * time.Second,
		ReadHeaderTimeout: time.Duration(cfg.HTTP.ReadTimeoutSec) * time.Second,
		WriteTimeout:      time.Duration(cfg.HTTP.WriteTimeoutSec) * time.Second,
	}

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)

	go func() {
		logger.Info("Starting HTTP server", zap.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("HTTP server error", zap.Error(err))
		}
	}()

	<-quit
	logger.Info("Received shutdown signal")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.HTTP.ShutdownSec)*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Error during shutdown", zap.Error(err))
	}

	logger.Info("Server stopped gracefully")
}
