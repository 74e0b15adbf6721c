package marker

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresStore keeps the marker in a single-row table:
//
//	CREATE TABLE IF NOT EXISTS notification_marker (
//	    id          int PRIMARY KEY DEFAULT 1 CHECK (id = 1),
//	    game_id     text NOT NULL,
//	    updated_at  timestamptz NOT NULL DEFAULT NOW()
//	);
type PostgresStore struct {
	pool *pgxpool.Pool
}

// NewPostgresStore creates and validates a connection pool, ensures the
// marker table exists, and registers prepared statements on every new
// connection.
func NewPostgresStore(ctx context.Context, databaseURL string, logger *slog.Logger) (*PostgresStore, error) {
	poolCfg, err := pgxpool.ParseConfig(databaseURL)
	if err != nil {
		return nil, fmt.Errorf("parse database URL: %w", err)
	}

	poolCfg.MinConns = 1
	poolCfg.MaxConns = 2
	poolCfg.MaxConnIdleTime = 5 * time.Minute
	poolCfg.AfterConnect = func(ctx context.Context, conn *pgx.Conn) error {
		return registerPreparedStatements(ctx, conn)
	}

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("create pool: %w", err)
	}

	if _, err := pool.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS notification_marker (
			id         int PRIMARY KEY DEFAULT 1 CHECK (id = 1),
			game_id    text NOT NULL,
			updated_at timestamptz NOT NULL DEFAULT NOW()
		)`); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ensure marker table: %w", err)
	}

	if logger != nil {
		logger.Info("Marker store connected", "backend", "postgres")
	}
	return &PostgresStore{pool: pool}, nil
}

func registerPreparedStatements(ctx context.Context, conn *pgx.Conn) error {
	stmts := map[string]string{
		"marker_read": "SELECT game_id FROM notification_marker WHERE id = 1",
		"marker_write": `
			INSERT INTO notification_marker (id, game_id, updated_at)
			VALUES (1, $1, NOW())
			ON CONFLICT (id) DO UPDATE SET game_id = $1, updated_at = NOW()`,
	}
	for name, sql := range stmts {
		if _, err := conn.Prepare(ctx, name, sql); err != nil {
			return fmt.Errorf("prepare %q: %w", name, err)
		}
	}
	return nil
}

func (s *PostgresStore) Read(ctx context.Context) (string, bool, error) {
	var gameID string
	err := s.pool.QueryRow(ctx, "marker_read").Scan(&gameID)
	if errors.Is(err, pgx.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("read marker row: %w", err)
	}
	return gameID, true, nil
}

func (s *PostgresStore) Write(ctx context.Context, value string) error {
	if _, err := s.pool.Exec(ctx, "marker_write", value); err != nil {
		return fmt.Errorf("write marker row: %w", err)
	}
	return nil
}

func (s *PostgresStore) Close() {
	s.pool.Close()
}
