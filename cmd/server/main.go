package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog/log"

	httpAdapter "github.com/tripledger/tripledger/internal/adapter/http"
	"github.com/tripledger/tripledger/internal/adapter/http/handler"
	postgresRepo "github.com/tripledger/tripledger/internal/adapter/repository/postgres"
	redisRepo "github.com/tripledger/tripledger/internal/adapter/repository/redis"
	"github.com/tripledger/tripledger/internal/infrastructure/config"
	"github.com/tripledger/tripledger/internal/infrastructure/logger"
	"github.com/tripledger/tripledger/internal/infrastructure/metrics"
	"github.com/tripledger/tripledger/internal/infrastructure/postgres"
	"github.com/tripledger/tripledger/internal/infrastructure/redis"
	"github.com/tripledger/tripledger/internal/usecase"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}

	// Setup logger
	appLogger := logger.New(logger.Config{Level: cfg.LogLevel, Format: cfg.LogFormat, Service: "tripledger"})
	log.Logger = appLogger

	ctx := context.Background()

	// Connect to PostgreSQL
	pool, err := postgres.NewPool(ctx, cfg.DatabaseURL, cfg.DatabaseMaxConns, cfg.DatabaseMinConns)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to postgres")
	}
	defer pool.Close()
	log.Info().Msg("connected to postgres")

	// Run migrations
	if err := postgres.RunMigrations(cfg.DatabaseURL, cfg.MigrationsPath); err != nil {
		log.Fatal().Err(err).Msg("failed to run migrations")
	}

	// Connect to Redis
	redisClient, err := redis.NewClient(ctx, cfg.RedisURL)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to redis")
	}
	defer redisClient.Close()
	log.Info().Msg("connected to redis")

	// Register metrics
	appMetrics := metrics.New()

	// Initialize repositories
	txManager := postgresRepo.NewTxManager(pool)
	tripRepo := postgresRepo.NewTripRepository(pool)
	memberRepo := postgresRepo.NewMemberRepository(pool)
	walletRepo := postgresRepo.NewWalletRepository(pool)
	categoryRepo := postgresRepo.NewCategoryRepository(pool)
	txnRepo := postgresRepo.NewTransactionRepository(pool)
	cache := redisRepo.NewCache(redisClient)
	idempotencyStore := redisRepo.NewIdempotencyStore(redisClient)
	idGen := postgresRepo.NewULIDGenerator()

	// Initialize use cases
	tripUC := usecase.NewTripUseCase(tripRepo, idGen)
	memberUC := usecase.NewMemberUseCase(tripRepo, memberRepo, idGen)
	walletUC := usecase.NewWalletUseCase(tripRepo, memberRepo, walletRepo, idGen)
	categoryUC := usecase.NewCategoryUseCase(categoryRepo, idGen)
	txnUC := usecase.NewTransactionUseCase(txManager, tripRepo, memberRepo, walletRepo, txnRepo, idGen).
		WithRetrier(postgresRepo.NewRetrier()).
		WithMetrics(appMetrics)
	statsUC := usecase.NewStatsUseCase(tripRepo, memberRepo, walletRepo, categoryRepo, txnRepo, cache).
		WithMetrics(appMetrics)

	// Initialize handlers
	tripHandler := handler.NewTripHandler(tripUC)
	memberHandler := handler.NewMemberHandler(memberUC)
	walletHandler := handler.NewWalletHandler(walletUC)
	categoryHandler := handler.NewCategoryHandler(categoryUC)
	txnHandler := handler.NewTransactionHandler(txnUC)
	statsHandler := handler.NewStatsHandler(statsUC)
	healthHandler := handler.NewHealthHandler(pool, redisClient)

	// Create router
	router := httpAdapter.NewRouter(httpAdapter.RouterConfig{
		TripHandler:        tripHandler,
		MemberHandler:      memberHandler,
		WalletHandler:      walletHandler,
		CategoryHandler:    categoryHandler,
		TransactionHandler: txnHandler,
		StatsHandler:       statsHandler,
		HealthHandler:      healthHandler,
		IdempotencyStore:   idempotencyStore,
		IdempotencyTTL:     cfg.IdempotencyTTL,
		Metrics:            appMetrics,
		Logger:             appLogger,
	})

	// Create server
	server := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.HTTPPort),
		Handler:      router,
		ReadTimeout:  cfg.HTTPReadTimeout,
		WriteTimeout: cfg.HTTPWriteTimeout,
		IdleTimeout:  cfg.HTTPIdleTimeout,
	}

	// Start server in goroutine
	go func() {
		log.Info().Str("port", cfg.HTTPPort).Msg("starting server")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server failed")
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down server...")

	// Graceful shutdown
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTPShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Fatal().Err(err).Msg("server forced to shutdown")
	}

	log.Info().Msg("server stopped")
}
