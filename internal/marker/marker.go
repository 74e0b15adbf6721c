// Package marker persists the last game ID a post-game summary was sent
// for. The marker is the sole idempotency mechanism across restarts: it is
// read once at the start of the post-game flow and overwritten once after a
// summary has been built and a send attempted.
//
// Three backends are available: a plain file (default), a Postgres row, and
// a Redis key. The process is assumed to be the marker's only writer.
package marker

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/aaryanpatel2/nbaliveslack/internal/config"
)

// Store holds one durable "last notified game ID" value.
type Store interface {
	// Read returns the marker value; ok=false when no marker exists yet.
	Read(ctx context.Context) (value string, ok bool, err error)
	// Write overwrites the marker unconditionally.
	Write(ctx context.Context, value string) error
	Close()
}

// ShouldNotify reports whether a summary for gameID is still owed.
func ShouldNotify(gameID, lastNotified string) bool {
	return lastNotified != gameID
}

// New constructs the configured marker backend.
func New(ctx context.Context, cfg *config.Config, logger *slog.Logger) (Store, error) {
	switch cfg.MarkerBackend {
	case config.MarkerPostgres:
		if cfg.DatabaseURL == "" {
			return nil, fmt.Errorf("MARKER_BACKEND=postgres requires DATABASE_URL")
		}
		return NewPostgresStore(ctx, cfg.DatabaseURL, logger)
	case config.MarkerRedis:
		return NewRedisStore(ctx, cfg.RedisAddr, cfg.RedisPassword)
	default:
		return NewFileStore(cfg.MarkerPath), nil
	}
}
