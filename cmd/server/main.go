package main

import (
	"context"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog/log"

	httpAdapter "github.com/sambhav/earnings/internal/adapter/http"
	"github.com/sambhav/earnings/internal/adapter/http/handler"
	"github.com/sambhav/earnings/internal/adapter/http/middleware"
	"github.com/sambhav/earnings/internal/adapter/provider"
	postgresRepo "github.com/sambhav/earnings/internal/adapter/repository/postgres"
	redisRepo "github.com/sambhav/earnings/internal/adapter/repository/redis"
	"github.com/sambhav/earnings/internal/infrastructure/auth"
	"github.com/sambhav/earnings/internal/infrastructure/config"
	"github.com/sambhav/earnings/internal/infrastructure/eventpublisher"
	"github.com/sambhav/earnings/internal/infrastructure/logger"
	"github.com/sambhav/earnings/internal/infrastructure/logging"
	"github.com/sambhav/earnings/internal/infrastructure/metrics"
	"github.com/sambhav/earnings/internal/infrastructure/postgres"
	"github.com/sambhav/earnings/internal/infrastructure/redis"
	"github.com/sambhav/earnings/internal/usecase"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}

	// Setup loggers
	zlog := logger.New(logger.Config{Level: cfg.LogLevel, Format: cfg.LogFormat})
	log.Logger = zlog
	slogger := logging.New(logging.ParseLevel(cfg.LogLevel), cfg.LogFormat)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Connect to PostgreSQL
	pool, err := postgres.NewPool(ctx, cfg.DatabaseURL, cfg.DatabaseMaxConns, cfg.DatabaseMinConns)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to postgres")
	}
	defer pool.Close()
	log.Info().Msg("connected to postgres")

	// Run migrations
	if err := postgres.RunMigrations(cfg.DatabaseURL, "migrations"); err != nil {
		log.Fatal().Err(err).Msg("failed to run migrations")
	}

	// Connect to Redis
	redisClient, err := redis.NewClient(ctx, cfg.RedisURL)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to redis")
	}
	defer redisClient.Close()
	log.Info().Msg("connected to redis")

	// Initialize repositories
	txManager := postgresRepo.NewTxManager(pool)
	accountRepo := postgresRepo.NewAccountRepository(pool)
	entryRepo := postgresRepo.NewEntryRepository(pool)
	leadRepo := postgresRepo.NewLeadRepository(pool)
	withdrawalRepo := postgresRepo.NewWithdrawalRepository(pool)
	applicationRepo := postgresRepo.NewApplicationRepository(pool)
	billpayRepo := postgresRepo.NewBillPaymentRepository(pool)
	productRepo := postgresRepo.NewProductRepository(pool)
	userRepo := postgresRepo.NewUserRepository(pool)
	ledgerRepo := postgresRepo.NewLedgerRepository(pool)
	outboxRepo := postgresRepo.NewOutboxRepository(pool)
	auditRepo := postgresRepo.NewAuditRepository(pool)
	idempotencyStore := redisRepo.NewIdempotencyStore(redisClient)
	cache := redisRepo.NewCache(redisClient)
	idGen := postgresRepo.NewULIDGenerator()
	retrier := postgresRepo.NewRetrier()

	// Metrics
	m := metrics.New()

	// Bill payment provider client
	providerClient := provider.NewClient(provider.Config{
		BaseURL: cfg.ProviderBaseURL,
		APIKey:  cfg.ProviderAPIKey,
		Timeout: cfg.ProviderTimeout,
		Logger:  zlog,
	})

	// Initialize use cases
	recorder := usecase.NewRecorder(accountRepo, entryRepo, idGen)
	userUC := usecase.NewUserUseCase(userRepo, accountRepo, idGen)
	accountUC := usecase.NewAccountUseCase(accountRepo, entryRepo, auditRepo, cache, idGen)
	leadUC := usecase.NewLeadUseCase(txManager, leadRepo, accountRepo, productRepo, recorder, outboxRepo, auditRepo, idGen, m).WithRetrier(retrier)
	withdrawalUC := usecase.NewWithdrawalUseCase(txManager, withdrawalRepo, accountRepo, recorder, outboxRepo, auditRepo, idGen, m).WithRetrier(retrier)
	applicationUC := usecase.NewApplicationUseCase(txManager, applicationRepo, accountRepo, productRepo, recorder, outboxRepo, auditRepo, idGen, m).WithRetrier(retrier)
	billpayUC := usecase.NewBillPayUseCase(billpayRepo, accountRepo, providerClient, outboxRepo, auditRepo, txManager, idGen, m)
	productUC := usecase.NewProductUseCase(productRepo, idGen)
	ledgerUC := usecase.NewLedgerUseCase(txManager, entryRepo, accountRepo, ledgerRepo, recorder, auditRepo, idGen)

	// Auth
	jwtManager := auth.NewJWTManager(cfg.JWTSecret, cfg.JWTExpiration)

	// Outbox publisher
	publisher := eventpublisher.NewEventPublisher(eventpublisher.Config{
		OutboxRepo: outboxRepo,
		Publisher:  eventpublisher.NewLogPublisher(slogger.Logger),
		Logger:     slogger.Logger,
		Metrics:    m,
	})
	go publisher.Start(ctx)

	// Create router
	router := httpAdapter.NewRouter(httpAdapter.RouterConfig{
		AuthHandler:        handler.NewAuthHandler(userUC, jwtManager),
		AccountHandler:     handler.NewAccountHandler(accountUC),
		LeadHandler:        handler.NewLeadHandler(leadUC),
		WithdrawalHandler:  handler.NewWithdrawalHandler(withdrawalUC),
		ApplicationHandler: handler.NewApplicationHandler(applicationUC),
		BillPayHandler:     handler.NewBillPayHandler(billpayUC),
		LedgerHandler:      handler.NewLedgerHandler(ledgerUC),
		ProductHandler:     handler.NewProductHandler(productUC),
		HealthHandler:      handler.NewHealthHandler(pool, redisClient),
		JWTManager:         jwtManager,
		IdempotencyStore:   idempotencyStore,
		RateLimiter:        middleware.NewRateLimiter(cfg.RateLimitPerSecond, cfg.RateLimitBurst),
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
	<-ctx.Done()
	log.Info().Msg("shutting down server...")

	// Graceful shutdown
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTPShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Fatal().Err(err).Msg("server forced to shutdown")
	}

	log.Info().Msg("server stopped")
}
