package monitor

import (
	"context"
	"log/slog"
	"time"
)

const (
	// dayBackoff is how long the scanner waits before rechecking the
	// schedule on a day with no games (or after a day's games finish).
	dayBackoff = 24 * time.Hour

	// scheduleRetryBackoff is the wait after a failed schedule fetch.
	scheduleRetryBackoff = time.Hour
)

// Scanner discovers the day's schedule once per calendar day and hands the
// games to the monitor. It is the live path's outermost loop.
type Scanner struct {
	feed     Feed
	monitor  *Monitor
	logger   *slog.Logger
	testMode bool
}

// NewScanner creates the daily scoreboard scanner. In test mode the scanner
// exits after a single day's cycle instead of sleeping until tomorrow.
func NewScanner(feed Feed, monitor *Monitor, testMode bool, logger *slog.Logger) *Scanner {
	if logger == nil {
		logger = slog.Default()
	}
	return &Scanner{feed: feed, monitor: monitor, logger: logger, testMode: testMode}
}

// Run loops forever: fetch today's games, monitor them to completion, then
// wait for the next day. Returns when ctx is cancelled (or after one cycle
// in test mode).
func (s *Scanner) Run(ctx context.Context) error {
	for {
		s.logger.Info("Checking for today's games", "date", time.Now().Format("2006-01-02"))

		games, err := s.feed.ListTodayGames(ctx)
		switch {
		case err != nil:
			s.logger.Error("Schedule fetch failed", "error", err)
			if err := s.sleep(ctx, scheduleRetryBackoff); err != nil {
				return err
			}
			continue

		case len(games) == 0:
			s.logger.Info("No games scheduled today, waiting until tomorrow")
			if err := s.sleep(ctx, dayBackoff); err != nil {
				return err
			}
			continue
		}

		for _, g := range games {
			s.logger.Info("Game scheduled", "game_id", g.ID, "tipoff_utc", g.StartUTC)
		}

		if err := s.monitor.Run(ctx, games); err != nil {
			return err
		}
		s.logger.Info("Finished monitoring all games for today")

		if s.testMode {
			return nil
		}
		if err := s.sleep(ctx, dayBackoff); err != nil {
			return err
		}
	}
}

func (s *Scanner) sleep(ctx context.Context, d time.Duration) error {
	select {
	case <-time.After(d):
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
