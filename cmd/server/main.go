// Command server runs the stocktrack HTTP API.
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

	"stocktrack/internal/domain/auth"
	"stocktrack/internal/domain/inventory"
	"stocktrack/internal/domain/stats"
	"stocktrack/internal/domain/users"
	v1 "stocktrack/internal/infrastructure/http/v1"
	"stocktrack/internal/infrastructure/storage/postgres"
	"stocktrack/internal/infrastructure/storage/postgres/inventory_repo"
	"stocktrack/internal/infrastructure/storage/postgres/stats_repo"
	"stocktrack/internal/infrastructure/storage/postgres/user_repo"
	"stocktrack/pkg/config"
	"stocktrack/pkg/logger"
)

const shutdownTimeout = 15 * time.Second

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "server: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	log, err := logger.New(logger.Config{
		Level:       cfg.Log.Level,
		Development: cfg.IsDevelopment(),
	})
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer func() { _ = log.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	ctx = logger.WithLogger(ctx, log)

	// Two databases: accounts and stock.
	usersPool, err := postgres.NewPool(ctx, postgres.DefaultPoolConfig(cfg.DB.UsersURL))
	if err != nil {
		return fmt.Errorf("connect users db: %w", err)
	}
	defer usersPool.Close()

	stockPool, err := postgres.NewPool(ctx, postgres.DefaultPoolConfig(cfg.DB.StockURL))
	if err != nil {
		return fmt.Errorf("connect stock db: %w", err)
	}
	defer stockPool.Close()

	usersTxManager := postgres.NewTxManager(usersPool)
	stockTxManager := postgres.NewTxManager(stockPool)

	location, err := time.LoadLocation(cfg.Stock.Timezone)
	if err != nil {
		return fmt.Errorf("load report timezone: %w", err)
	}
	negativePolicy, err := inventory.ParseNegativeStockPolicy(cfg.Stock.NegativePolicy)
	if err != nil {
		return err
	}

	// Repositories
	userRepo := user_repo.NewUserRepo(usersTxManager)
	itemRepo := inventory_repo.NewItemRepo(stockTxManager)
	movementRepo := inventory_repo.NewMovementRepo(stockTxManager)
	reportRepo := stats_repo.NewReportRepo(stockTxManager)

	// Services
	jwtConfig := auth.DefaultJWTConfig(cfg.JWT.Secret)
	jwtConfig.Issuer = cfg.JWT.Issuer
	jwtConfig.AccessTokenTTL = cfg.JWT.AccessTokenTTL
	jwtService := auth.NewJWTService(jwtConfig)

	authService := auth.NewService(userRepo, jwtService)
	userService := users.NewService(userRepo, usersTxManager, users.DefaultServiceConfig())

	inventoryConfig := inventory.DefaultServiceConfig()
	inventoryConfig.NegativeStockPolicy = negativePolicy
	inventoryService := inventory.NewService(itemRepo, movementRepo, stockTxManager, inventoryConfig)

	statsService := stats.NewService(reportRepo, userRepo, location)

	router := v1.NewRouter(v1.RouterConfig{
		Logger:           log,
		JWTValidator:     jwtService,
		AuthService:      authService,
		UserService:      userService,
		InventoryService: inventoryService,
		StatsService:     statsService,
		UserRepo:         userRepo,
		UsersPool:        usersPool.Unwrap(),
		StockPool:        stockPool.Unwrap(),
	})

	server := &http.Server{
		Addr:              cfg.HTTP.Addr(),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info(ctx, "http server starting",
			"addr", server.Addr,
			"env", cfg.App.Env,
			"negative_stock_policy", string(negativePolicy),
		)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("http server: %w", err)
	case <-ctx.Done():
	}

	logger.Info(ctx, "shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}

	logger.Info(ctx, "server stopped")
	return nil
}
