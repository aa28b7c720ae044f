// Command seed creates the database schemas and the bootstrap admin
// account. It is idempotent and safe to run on every deploy.
package main

import (
	"context"
	"fmt"
	"os"

	"stocktrack/internal/domain/users"
	"stocktrack/internal/infrastructure/storage/postgres"
	"stocktrack/internal/infrastructure/storage/postgres/user_repo"
	"stocktrack/pkg/config"
	"stocktrack/pkg/logger"
)

const usersSchema = `
CREATE TABLE IF NOT EXISTS users (
    id            UUID PRIMARY KEY,
    username      TEXT NOT NULL UNIQUE,
    password_hash TEXT NOT NULL,
    role          TEXT NOT NULL CHECK (role IN ('user', 'admin')),
    is_active     BOOLEAN NOT NULL DEFAULT TRUE,
    created_at    TIMESTAMPTZ NOT NULL DEFAULT now(),
    updated_at    TIMESTAMPTZ NOT NULL DEFAULT now()
);
`

const stockSchema = `
CREATE TABLE IF NOT EXISTS items (
    id          UUID PRIMARY KEY,
    short_code  TEXT NOT NULL,
    full_code   TEXT NOT NULL,
    description TEXT NOT NULL,
    quantity    BIGINT NOT NULL DEFAULT 0,
    created_at  TIMESTAMPTZ NOT NULL DEFAULT now(),
    updated_at  TIMESTAMPTZ NOT NULL DEFAULT now(),
    created_by  UUID NOT NULL,
    updated_by  UUID NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_items_short_code ON items (short_code);
CREATE INDEX IF NOT EXISTS idx_items_created_by ON items (created_by);
CREATE INDEX IF NOT EXISTS idx_items_updated_by ON items (updated_by);

CREATE TABLE IF NOT EXISTS movements (
    id          UUID PRIMARY KEY,
    item_id     UUID NOT NULL REFERENCES items (id) ON DELETE CASCADE,
    direction   TEXT NOT NULL CHECK (direction IN ('IN', 'OUT')),
    quantity    BIGINT NOT NULL CHECK (quantity > 0),
    occurred_at TIMESTAMPTZ NOT NULL,
    note        TEXT NOT NULL DEFAULT '',
    recorded_by UUID NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_movements_item ON movements (item_id);
CREATE INDEX IF NOT EXISTS idx_movements_occurred_at ON movements (occurred_at);
CREATE INDEX IF NOT EXISTS idx_movements_recorded_by ON movements (recorded_by);
`

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "seed: %v\n", err)
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

	ctx := logger.WithLogger(context.Background(), log)

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

	if _, err := usersPool.Exec(ctx, usersSchema); err != nil {
		return fmt.Errorf("create users schema: %w", err)
	}
	logger.Info(ctx, "users schema ready")

	if _, err := stockPool.Exec(ctx, stockSchema); err != nil {
		return fmt.Errorf("create stock schema: %w", err)
	}
	logger.Info(ctx, "stock schema ready")

	// Bootstrap admin when the account catalog is empty.
	adminUser := envOr("ADMIN_USER", "admin")
	adminPass := envOr("ADMIN_PASS", "admin")

	usersTxManager := postgres.NewTxManager(usersPool)
	userRepo := user_repo.NewUserRepo(usersTxManager)
	userService := users.NewService(userRepo, usersTxManager, users.DefaultServiceConfig())

	created, err := userService.EnsureDefaultAdmin(ctx, adminUser, adminPass)
	if err != nil {
		return fmt.Errorf("ensure default admin: %w", err)
	}
	if created {
		logger.Info(ctx, "bootstrap admin created", "username", adminUser)
		if adminPass == "admin" {
			logger.Warn(ctx, "bootstrap admin uses the default password, change it immediately")
		}
	} else {
		logger.Info(ctx, "accounts already present, bootstrap admin skipped")
	}

	return nil
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
