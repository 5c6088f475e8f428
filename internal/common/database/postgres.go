// internal/common/database/postgres.go
package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"assistant-console/internal/common/config"

	"github.com/lib/pq"
)

// PostgresClient stores visit snapshots as rows of a key/value table.
type PostgresClient struct {
	DB    *sql.DB
	table string
}

// NewPostgres creates a new PostgreSQL client
func NewPostgres(cfg config.PostgresConfig) (*PostgresClient, error) {
	dsn := cfg.GetDSN()

	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open postgres: %w", err)
	}

	db.SetMaxOpenConns(cfg.MaxConnections)
	db.SetMaxIdleConns(cfg.MaxIdle)
	db.SetConnMaxLifetime(5 * time.Minute)
	db.SetConnMaxIdleTime(5 * time.Minute)

	return NewPostgresFromDB(db, cfg.Table), nil
}

// NewPostgresFromDB wraps an open database handle.
func NewPostgresFromDB(db *sql.DB, table string) *PostgresClient {
	if table == "" {
		table = "assistant_kv"
	}
	return &PostgresClient{DB: db, table: pq.QuoteIdentifier(table)}
}

// Ping tests the database connection
func (c *PostgresClient) Ping(ctx context.Context) error {
	return c.DB.PingContext(ctx)
}

// Close closes the database connection
func (c *PostgresClient) Close() error {
	if c.DB != nil {
		return c.DB.Close()
	}
	return nil
}

// EnsureSchema creates the key/value table when it is missing.
func (c *PostgresClient) EnsureSchema(ctx context.Context) error {
	query := `CREATE TABLE IF NOT EXISTS ` + c.table + ` (
		key TEXT PRIMARY KEY,
		value TEXT NOT NULL,
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`
	if _, err := c.DB.ExecContext(ctx, query); err != nil {
		return fmt.Errorf("create table %s: %w", c.table, err)
	}
	return nil
}

// Load returns the value stored under key, or nil when there is no row.
func (c *PostgresClient) Load(ctx context.Context, key string) ([]byte, error) {
	var value string
	err := c.DB.QueryRowContext(ctx, `SELECT value FROM `+c.table+` WHERE key = $1`, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("select %s: %w", key, err)
	}
	return []byte(value), nil
}

// Save upserts the value under key.
func (c *PostgresClient) Save(ctx context.Context, key string, value []byte) error {
	query := `INSERT INTO ` + c.table + ` (key, value, updated_at) VALUES ($1, $2, NOW())
		ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value, updated_at = EXCLUDED.updated_at`
	if _, err := c.DB.ExecContext(ctx, query, key, string(value)); err != nil {
		return fmt.Errorf("upsert %s: %w", key, err)
	}
	return nil
}
