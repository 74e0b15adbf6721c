package summary

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/aaryanpatel2/nbaliveslack/internal/config"
	"github.com/aaryanpatel2/nbaliveslack/internal/marker"
	"github.com/aaryanpatel2/nbaliveslack/internal/nba"
	"github.com/aaryanpatel2/nbaliveslack/internal/retry"
)

// Feed is the subset of the NBA client the post-game path needs.
type Feed interface {
	FindRecentGame(ctx context.Context, teamCode string, lookbackDays int) (string, error)
	GetBoxScore(ctx context.Context, gameID string) (*nba.BoxScore, error)
}

// Notifier delivers the formatted summary once.
type Notifier interface {
	Send(ctx context.Context, text string) error
}

// Run executes the post-game flow: find the most recent finished game,
// consult the marker guard, build the summary, send it once, and persist
// the marker.
//
// "Nothing to report" outcomes (no recent game, team absent from the
// boxscore, zero attempts) deliver an informational message and return nil.
// A delivery failure is logged but the marker is still written — delivery
// is at-most-once. A marker write failure is returned: losing the marker
// risks duplicate summaries on the next run.
func Run(ctx context.Context, feed Feed, store marker.Store, notifier Notifier, cfg *config.Config, logger *slog.Logger) error {
	if logger == nil {
		logger = slog.Default()
	}
	stat := cfg.Stat()

	gameID, err := feed.FindRecentGame(ctx, cfg.TeamCode, cfg.LookbackDays)
	if errors.Is(err, nba.ErrGameNotFound) {
		msg := fmt.Sprintf("No recent game found for %s in the last %d day(s).",
			cfg.TeamCode, cfg.LookbackDays)
		logger.Info(msg)
		sendInfo(ctx, notifier, msg, logger)
		return nil
	}
	if err != nil {
		return fmt.Errorf("find recent game: %w", err)
	}

	lastNotified, _, err := store.Read(ctx)
	if err != nil {
		return fmt.Errorf("read marker: %w", err)
	}
	if !marker.ShouldNotify(gameID, lastNotified) {
		logger.Info("Already notified for game, skipping", "game_id", gameID)
		return nil
	}

	var box *nba.BoxScore
	err = retry.Do(ctx, cfg.FeedRetryAttempts, cfg.FeedRetryDelay, logger, func() error {
		var ferr error
		box, ferr = feed.GetBoxScore(ctx, gameID)
		return ferr
	})
	if err != nil {
		return fmt.Errorf("fetch boxscore: %w", err)
	}

	s, err := Build(box, cfg.TeamCode, cfg.StatType)
	switch {
	case errors.Is(err, ErrNoAttempts):
		// Marker stays untouched: stats may simply be lagging, and a later
		// run should get another chance at this game.
		msg := fmt.Sprintf("No %s attempted by %s in their recent game.",
			stat.Description, cfg.TeamCode)
		logger.Info(msg, "game_id", gameID)
		sendInfo(ctx, notifier, msg, logger)
		return nil
	case errors.Is(err, ErrTeamNotFound):
		logger.Info("Tracked team not in boxscore, nothing to report",
			"game_id", gameID, "team", cfg.TeamCode, "error", err)
		return nil
	case err != nil:
		return fmt.Errorf("build summary: %w", err)
	}

	if err := notifier.Send(ctx, s.Format(stat)); err != nil {
		logger.Warn("Summary delivery failed, not retrying", "game_id", gameID, "error", err)
	} else {
		logger.Info("Summary sent", "game_id", gameID, "top_shooter", s.Top.Name)
	}

	if err := store.Write(ctx, gameID); err != nil {
		return fmt.Errorf("write marker: %w", err)
	}
	return nil
}

// sendInfo delivers an informational message, ignoring delivery failures.
func sendInfo(ctx context.Context, notifier Notifier, msg string, logger *slog.Logger) {
	if err := notifier.Send(ctx, msg); err != nil {
		logger.Warn("Informational message delivery failed", "error", err)
	}
}
