package postgres

import (
	"context"
	"fmt"
	"time"

	"insightx/pkg/config"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

func NewPool(ctx context.Context, cfg *config.DatabaseConfig, logger *zap.Logger) (*pgxpool.Pool, error) {
	dsn := fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		cfg.Host, cfg.Port, cfg.User, cfg.Password, cfg.DBName, cfg.SSLMode,
	)

	poolConfig, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to parse database config: %w", err)
	}
	poolConfig.MaxConns = 8
	poolConfig.MaxConnIdleTime = 5 * time.Minute

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create connection pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	logger.Info("Database connection established",
		zap.String("host", cfg.Host),
		zap.String("database", cfg.DBName),
	)

	return pool, nil
}

// schema creates the raw transaction table and the snapshot history.
var schema = []string{
	`CREATE TABLE IF NOT EXISTS transactions (
		id                 TEXT PRIMARY KEY,
		amount             NUMERIC(14, 2) NOT NULL,
		merchant_category  TEXT NOT NULL DEFAULT '',
		sender_state       TEXT NOT NULL DEFAULT '',
		sender_bank        TEXT NOT NULL DEFAULT '',
		device_type        TEXT NOT NULL DEFAULT '',
		network_type       TEXT NOT NULL DEFAULT '',
		transaction_type   TEXT NOT NULL DEFAULT '',
		sender_age_group   TEXT NOT NULL DEFAULT '',
		transaction_status TEXT NOT NULL,
		fraud_flag         BOOLEAN NOT NULL DEFAULT FALSE,
		hour_of_day        SMALLINT NOT NULL DEFAULT 0,
		day_of_week        TEXT NOT NULL DEFAULT '',
		month              TEXT NOT NULL DEFAULT '',
		is_weekend         BOOLEAN NOT NULL DEFAULT FALSE
	)`,
	`CREATE TABLE IF NOT EXISTS kb_snapshots (
		version    UUID PRIMARY KEY,
		source     TEXT NOT NULL,
		rows       INTEGER NOT NULL,
		document   JSONB NOT NULL,
		built_at   TIMESTAMPTZ NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS kb_snapshots_built_at_idx ON kb_snapshots (built_at DESC)`,
}

// Migrate applies the schema; every statement is idempotent.
func Migrate(ctx context.Context, pool *pgxpool.Pool, logger *zap.Logger) error {
	for _, stmt := range schema {
		if _, err := pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("failed to apply schema: %w", err)
		}
	}
	logger.Info("Database schema ready", zap.Int("statements", len(schema)))
	return nil
}
