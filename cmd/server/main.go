package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/Japhetjohn/my-arte-lab.app-sub001/internal/adapter/gateway"
	httpAdapter "github.com/Japhetjohn/my-arte-lab.app-sub001/internal/adapter/http"
	"github.com/Japhetjohn/my-arte-lab.app-sub001/internal/adapter/http/handler"
	postgresRepo "github.com/Japhetjohn/my-arte-lab.app-sub001/internal/adapter/repository/postgres"
	redisRepo "github.com/Japhetjohn/my-arte-lab.app-sub001/internal/adapter/repository/redis"
	"github.com/Japhetjohn/my-arte-lab.app-sub001/internal/infrastructure/auth"
	"github.com/Japhetjohn/my-arte-lab.app-sub001/internal/infrastructure/config"
	"github.com/Japhetjohn/my-arte-lab.app-sub001/internal/infrastructure/eventpublisher"
	"github.com/Japhetjohn/my-arte-lab.app-sub001/internal/infrastructure/logger"
	"github.com/Japhetjohn/my-arte-lab.app-sub001/internal/infrastructure/metrics"
	"github.com/Japhetjohn/my-arte-lab.app-sub001/internal/infrastructure/postgres"
	"github.com/Japhetjohn/my-arte-lab.app-sub001/internal/infrastructure/redis"
	"github.com/Japhetjohn/my-arte-lab.app-sub001/internal/usecase"
)

const expireSweepBatch = 100

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}

	zl := logger.New(logger.Config{Level: cfg.LogLevel, Format: cfg.LogFormat, Service: "artelab"})
	log.Logger = zl

	feeRate, err := cfg.ParsedFeeRate()
	if err != nil {
		log.Fatal().Err(err).Msg("invalid fee rate")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if cfg.MigrateOnStart {
		if err := postgres.RunMigrations(cfg.DatabaseURL, cfg.MigrationsPath); err != nil {
			log.Fatal().Err(err).Msg("failed to run migrations")
		}
	}

	pool, err := postgres.NewPool(ctx, cfg.DatabaseURL, cfg.DatabaseMaxConns, cfg.DatabaseMinConns)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to postgres")
	}
	defer pool.Close()
	log.Info().Msg("connected to postgres")

	redisClient, err := redis.NewClient(ctx, cfg.RedisURL)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to redis")
	}
	defer redisClient.Close()
	log.Info().Msg("connected to redis")

	// Repositories
	txManager := postgresRepo.NewTxManager(pool)
	walletRepo := postgresRepo.NewWalletRepository(pool)
	entryRepo := postgresRepo.NewEntryRepository(pool)
	ledgerRepo := postgresRepo.NewLedgerRepository(pool)
	holdRepo := postgresRepo.NewHoldRepository(pool)
	negotiationRepo := postgresRepo.NewNegotiationRepository(pool)
	outboxRepo := postgresRepo.NewOutboxRepository(pool)
	auditRepo := postgresRepo.NewAuditRepository(pool)
	idGen := postgresRepo.NewULIDGenerator()
	retrier := postgresRepo.NewRetrier()

	cache := redisRepo.NewCache(redisClient)
	idempotencyStore := redisRepo.NewIdempotencyStore(redisClient)

	gatewayClient := gateway.NewPaymentGateway(gateway.Config{
		BaseURL:       cfg.GatewayBaseURL,
		WebhookSecret: cfg.GatewayWebhookSecret,
		Timeout:       cfg.GatewayTimeout,
	})

	appMetrics := metrics.New()

	// Use cases
	walletUC := usecase.NewWalletUseCase(
		txManager, walletRepo, entryRepo, holdRepo, outboxRepo, auditRepo, idGen,
		appMetrics, cfg.Currency, cfg.PlatformOwnerID,
	).WithCache(cache)

	negotiationUC := usecase.NewNegotiationUseCase(
		txManager, negotiationRepo, walletUC, outboxRepo, auditRepo, idGen,
		gatewayClient, appMetrics, feeRate, cfg.Currency, cfg.PaymentConfirmWindow,
	).WithRetrier(retrier)

	ledgerUC := usecase.NewLedgerUseCase(entryRepo, ledgerRepo, holdRepo)
	reconciliationUC := usecase.NewReconciliationUseCase(walletRepo, ledgerUC)

	// The platform fee wallet must exist before the first release settles.
	if _, err := walletUC.EnsurePlatformWallet(ctx); err != nil {
		log.Fatal().Err(err).Msg("failed to ensure platform wallet")
	}

	// Outbox publisher
	publisher := eventpublisher.NewEventPublisher(eventpublisher.Config{
		OutboxRepo: outboxRepo,
		Publisher:  eventpublisher.NewLogPublisher(nil),
		Interval:   cfg.OutboxPublishInterval,
	})
	go func() {
		if err := publisher.Start(ctx); err != nil && ctx.Err() == nil {
			log.Error().Err(err).Msg("event publisher stopped")
		}
	}()

	// Stale in-flight payments fall back to AWAITING_PAYMENT on a timer.
	go runExpirySweep(ctx, negotiationUC, cfg.PaymentExpirySweep)

	routerCfg := httpAdapter.RouterConfig{
		BookingHandler:   handler.NewBookingHandler(negotiationUC),
		WalletHandler:    handler.NewWalletHandler(walletUC),
		LedgerHandler:    handler.NewLedgerHandler(ledgerUC, reconciliationUC),
		WebhookHandler:   handler.NewWebhookHandler(negotiationUC, gatewayClient),
		HealthHandler:    handler.NewHealthHandler(pool, redisClient),
		IdempotencyStore: idempotencyStore,
		Logger:           zl,
		RateLimit:        cfg.RateLimitRPS,
		RateLimitBurst:   cfg.RateLimitBurst,
	}

	if cfg.AuthEnabled && cfg.JWTSecret != "" {
		jwtManager := auth.NewJWTManager(cfg.JWTSecret, cfg.JWTExpiration)
		routerCfg.JWTManager = jwtManager
		routerCfg.AuthHandler = handler.NewAuthHandler(jwtManager)
		log.Info().Msg("authentication enabled")
	}

	router := httpAdapter.NewRouter(routerCfg)

	server := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.HTTPPort),
		Handler:      router,
		ReadTimeout:  cfg.HTTPReadTimeout,
		WriteTimeout: cfg.HTTPWriteTimeout,
		IdleTimeout:  cfg.HTTPIdleTimeout,
	}

	go func() {
		log.Info().Str("port", cfg.HTTPPort).Msg("starting server")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server failed")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTPShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("server forced to shutdown")
		os.Exit(1)
	}

	log.Info().Msg("server stopped")
}

func runExpirySweep(ctx context.Context, negotiationUC *usecase.NegotiationUseCase, interval time.Duration) {
	if interval <= 0 {
		interval = time.Hour
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			swept, err := negotiationUC.ExpireStalePayments(ctx, expireSweepBatch)
			if err != nil {
				log.Error().Err(err).Msg("payment expiry sweep failed")
				continue
			}
			if swept > 0 {
				log.Info().Int("swept", swept).Msg("expired stale in-flight payments")
			}
		}
	}
}
