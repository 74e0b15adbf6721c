// Command nbaliveslack watches NBA games for a tracked team and posts Slack
// notifications.
//
// Usage:
//
//	nbaliveslack watch
//	nbaliveslack summary --team "OKC Thunder" --stat 3pt --days-back 1
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/aaryanpatel2/nbaliveslack/internal/api"
	"github.com/aaryanpatel2/nbaliveslack/internal/config"
	"github.com/aaryanpatel2/nbaliveslack/internal/marker"
	"github.com/aaryanpatel2/nbaliveslack/internal/monitor"
	"github.com/aaryanpatel2/nbaliveslack/internal/nba"
	"github.com/aaryanpatel2/nbaliveslack/internal/slack"
	"github.com/aaryanpatel2/nbaliveslack/internal/summary"
)

var logger = slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))

func main() {
	// Load .env if present
	_ = godotenv.Load(".env")

	root := &cobra.Command{
		Use:   "nbaliveslack",
		Short: "NBA live-game Slack notifier",
	}

	root.AddCommand(watchCmd())
	root.AddCommand(summaryCmd())

	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

// --------------------------------------------------------------------------
// watch command — live monitor daemon
// --------------------------------------------------------------------------

func watchCmd() *cobra.Command {
	var testMode bool
	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Monitor today's games and post live trigger notifications",
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(func(ctx context.Context, cfg *config.Config) error {
				if testMode {
					cfg.TestMode = true
				}
				if cfg.TestMode {
					logger.Warn("Running in test mode", "game_id", cfg.TestGameID)
				}

				feed := nba.NewClient(cfg, logger)
				notifier := slack.New(cfg.SlackBotToken, cfg.SlackChannel, logger)
				mon := monitor.New(feed, notifier, cfg.TeamCode, cfg.PollInterval, logger)

				if cfg.StatusAddr != "" {
					go api.Serve(cfg.StatusAddr, mon, logger)
				}

				logger.Info("Monitor started",
					"team", cfg.TeamCode, "poll_interval", cfg.PollInterval)
				scanner := monitor.NewScanner(feed, mon, cfg.TestMode, logger)
				err := scanner.Run(ctx)
				if ctx.Err() != nil {
					logger.Info("Monitor stopped")
					return nil
				}
				return err
			})
		},
	}
	cmd.Flags().BoolVar(&testMode, "test-mode", false, "Replay a fixed past game as if live")
	return cmd
}

// --------------------------------------------------------------------------
// summary command — one-shot post-game summary
// --------------------------------------------------------------------------

func summaryCmd() *cobra.Command {
	var (
		team     string
		statType string
		daysBack int
	)
	cmd := &cobra.Command{
		Use:   "summary",
		Short: "Send the post-game shooting summary for the most recent game",
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(func(ctx context.Context, cfg *config.Config) error {
				if team != "" {
					cfg.TeamCode = config.ResolveTeam(team)
				}
				if statType != "" {
					if _, ok := config.StatRegistry[statType]; !ok {
						return fmt.Errorf("unknown stat type %q (want 3pt, fg, or ft)", statType)
					}
					cfg.StatType = statType
				}
				if daysBack > 0 {
					cfg.LookbackDays = daysBack
				}

				store, err := marker.New(ctx, cfg, logger)
				if err != nil {
					return fmt.Errorf("open marker store: %w", err)
				}
				defer store.Close()

				feed := nba.NewClient(cfg, logger)
				notifier := slack.New(cfg.SlackBotToken, cfg.SlackChannel, logger)

				logger.Info("Looking for recent game",
					"team", cfg.TeamCode, "stat", cfg.StatType, "days_back", cfg.LookbackDays)
				return summary.Run(ctx, feed, store, notifier, cfg, logger)
			})
		},
	}
	cmd.Flags().StringVar(&team, "team", "", "Team name or tricode (default: TRACKED_TEAM env)")
	cmd.Flags().StringVar(&statType, "stat", "", "Stat type: 3pt, fg, or ft (default: STAT_TYPE env)")
	cmd.Flags().IntVar(&daysBack, "days-back", 0, "Days to look back for games (default: LOOKBACK_DAYS env)")
	return cmd
}

// --------------------------------------------------------------------------
// Shared setup
// --------------------------------------------------------------------------

// run handles config loading and context cancellation.
func run(fn func(ctx context.Context, cfg *config.Config) error) error {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	return fn(ctx, cfg)
}
