// Package retry provides a small bounded-attempt helper with linearly
// increasing delay. It is used for feed reads in the post-game path only;
// notification delivery is never retried.
package retry

import (
	"context"
	"fmt"
	"log/slog"
	"time"
)

// Do runs op up to attempts times, sleeping baseDelay, 2×baseDelay, ...
// between failures. Returns the last error when all attempts fail, or the
// context error if cancelled while waiting.
func Do(ctx context.Context, attempts int, baseDelay time.Duration, logger *slog.Logger, op func() error) error {
	if attempts < 1 {
		attempts = 1
	}
	if logger == nil {
		logger = slog.Default()
	}

	var err error
	for i := 1; i <= attempts; i++ {
		if err = op(); err == nil {
			return nil
		}
		if i == attempts {
			break
		}

		delay := time.Duration(i) * baseDelay
		logger.Warn("Retrying after failure", "attempt", i, "delay", delay, "error", err)
		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	return fmt.Errorf("after %d attempts: %w", attempts, err)
}
