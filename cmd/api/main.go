package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/nats-io/nats.go"
	"golang.org/x/sync/errgroup"

	coreport "github.com/amirhossein-jamali/referral-ledger/internal/domain/port/core"
	accountUseCase "github.com/amirhossein-jamali/referral-ledger/internal/domain/usecase/account"
	ledgerUseCase "github.com/amirhossein-jamali/referral-ledger/internal/domain/usecase/ledger"
	"github.com/amirhossein-jamali/referral-ledger/internal/infrastructure/adapter/api/handler"
	"github.com/amirhossein-jamali/referral-ledger/internal/infrastructure/adapter/api/middleware"
	"github.com/amirhossein-jamali/referral-ledger/internal/infrastructure/adapter/api/routes"
	"github.com/amirhossein-jamali/referral-ledger/internal/infrastructure/adapter/cache"
	"github.com/amirhossein-jamali/referral-ledger/internal/infrastructure/adapter/database"
	"github.com/amirhossein-jamali/referral-ledger/internal/infrastructure/adapter/logger"
	"github.com/amirhossein-jamali/referral-ledger/internal/infrastructure/adapter/messaging"
	"github.com/amirhossein-jamali/referral-ledger/internal/infrastructure/adapter/metrics"
	timeProvider "github.com/amirhossein-jamali/referral-ledger/internal/infrastructure/adapter/time"
	"github.com/amirhossein-jamali/referral-ledger/internal/infrastructure/config"
)

func main() {
	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	warnings, err := config.Validate(cfg)
	if err != nil {
		log.Fatalf("Configuration validation failed: %v", err)
	}

	if cfg.Environment == config.Production {
		gin.SetMode(gin.ReleaseMode)
	}

	appLogger := logger.NewZapLogger(
		cfg.Environment == config.Production || cfg.Logger.Format == "json",
		coreport.ParseLogLevel(cfg.Logger.Level),
	)
	defer func() { _ = appLogger.Flush() }()

	for _, w := range warnings {
		appLogger.Warn("Configuration warning", map[string]any{"warning": w})
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, appLogger); err != nil {
		appLogger.Error("Service stopped with error", map[string]any{"error": err.Error()})
		_ = appLogger.Flush()
		os.Exit(1)
	}
	appLogger.Info("Server exited gracefully", nil)
}

func run(ctx context.Context, cfg *config.Config, appLogger coreport.Logger) error {
	amounts, err := cfg.Ledger.Amounts()
	if err != nil {
		return err
	}
	seedIDs, err := cfg.Ledger.SeedAccountIDs()
	if err != nil {
		return err
	}

	tp := timeProvider.NewRealTimeProvider()

	// Connect to the database
	dbConfig, err := database.NewConfig(cfg.Database, cfg.Logger.Level)
	if err != nil {
		return err
	}
	dbManager := database.NewManager(dbConfig, appLogger, tp)
	if _, err := dbManager.Connect(ctx); err != nil {
		return fmt.Errorf("connect to database: %w", err)
	}
	defer func() { _ = dbManager.Close() }()

	if err := dbManager.Migrate(ctx); err != nil {
		return fmt.Errorf("run migrations: %w", err)
	}

	uow := dbManager.CreateUnitOfWork()

	opTimeout := coreport.Duration(cfg.Ledger.OperationTimeout)
	var opts []ledgerUseCase.Option

	var recorder *metrics.Recorder
	if cfg.Metrics.Enabled {
		recorder = metrics.NewRecorder()
		if err := recorder.RegisterDBStats(dbManager.SQLDB(), cfg.Database.Database); err != nil {
			return fmt.Errorf("register database metrics: %w", err)
		}
		opts = append(opts, ledgerUseCase.WithMetrics(recorder))
	}

	if cfg.Redis.Addr != "" {
		redisClient, err := cache.Connect(ctx, cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
		if err != nil {
			return fmt.Errorf("connect to redis: %w", err)
		}
		defer func() { _ = redisClient.Close() }()
		opts = append(opts, ledgerUseCase.WithSummaryCache(
			cache.NewRedisSummaryCache(redisClient, cfg.Redis.SummaryTTL, appLogger),
		))
	}

	var natsConn *nats.Conn
	if cfg.NATS.URL != "" {
		natsConn, err = messaging.Connect(cfg.NATS.URL, appLogger)
		if err != nil {
			return fmt.Errorf("connect to nats: %w", err)
		}
		defer natsConn.Close()
		opts = append(opts, ledgerUseCase.WithEventPublisher(
			messaging.NewEventPublisher(natsConn, cfg.NATS.SubjectPrefix, appLogger),
		))
	}

	// Initialize use cases
	ledgerService := ledgerUseCase.NewService(uow, tp, appLogger, ledgerUseCase.Config{
		MinimumPayout:    amounts.MinimumPayout,
		OperationTimeout: opTimeout,
	}, opts...)
	accounts := accountUseCase.NewUseCase(uow, ledgerService, tp, appLogger, accountUseCase.Config{
		SignupBonus:      amounts.SignupBonus,
		ReferralBonus:    amounts.ReferralBonus,
		OperationTimeout: opTimeout,
	})

	if err := accounts.SeedAccounts(ctx, seedIDs); err != nil {
		appLogger.Error("Failed to seed accounts", map[string]any{"error": err.Error()})
	}

	// Initialize Gin router
	router := gin.New()
	handlers := routes.Handlers{
		Account: handler.NewAccountHandler(accounts, appLogger),
		Ledger:  handler.NewLedgerHandler(ledgerService, amounts.ReferralBonus, appLogger),
		Health:  handler.NewHealthHandler(dbManager, appLogger),
	}
	var observer middleware.HTTPObserver
	if recorder != nil {
		observer = recorder
		handlers.Metrics = recorder.Handler()
		handlers.MetricsPath = cfg.Metrics.Path
	}
	routes.SetupMiddlewares(router, appLogger, cfg.Server.AllowedOrigins, observer)
	routes.SetupRoutes(router, handlers, middleware.NewTokenVerifier(cfg.Auth.JWTSecret, cfg.Auth.Issuer), appLogger)

	server := &http.Server{
		Addr:              fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:           router,
		ReadTimeout:       cfg.Server.ReadTimeout,
		WriteTimeout:      cfg.Server.WriteTimeout,
		ReadHeaderTimeout: cfg.Server.ReadHeaderTimeout,
		IdleTimeout:       cfg.Server.IdleTimeout,
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		appLogger.Info("Starting server", map[string]any{
			"addr": server.Addr,
			"env":  cfg.Environment,
		})
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})

	if natsConn != nil {
		subscriber := messaging.NewSettlementSubscriber(natsConn, ledgerService,
			cfg.NATS.SubjectPrefix, cfg.NATS.SettlementQueue, appLogger)
		g.Go(func() error {
			return subscriber.Start(gctx)
		})
	}

	g.Go(func() error {
		<-gctx.Done()
		appLogger.Info("Shutting down server...", nil)

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			appLogger.Error("Server forced to shutdown", map[string]any{"error": err.Error()})
			return err
		}
		return nil
	})

	return g.Wait()
}
