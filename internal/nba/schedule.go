package nba

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// ErrGameNotFound reports that no finished game for the team exists inside
// the lookback window. It is an expected outcome, not a feed failure.
var ErrGameNotFound = errors.New("no recent game found")

// scheduleResponse mirrors scheduleLeagueV2.json.
type scheduleResponse struct {
	LeagueSchedule struct {
		SeasonYear string `json:"seasonYear"`
		GameDates  []struct {
			GameDate string `json:"gameDate"`
			Games    []struct {
				GameID          string    `json:"gameId"`
				GameStatus      int       `json:"gameStatus"`
				GameDateTimeUTC time.Time `json:"gameDateTimeUTC"`
				HomeTeam        struct {
					TeamTricode string `json:"teamTricode"`
				} `json:"homeTeam"`
				AwayTeam struct {
					TeamTricode string `json:"teamTricode"`
				} `json:"awayTeam"`
			} `json:"games"`
		} `json:"gameDates"`
	} `json:"leagueSchedule"`
}

// FindRecentGame returns the ID of the team's most recent finished game
// within the last lookbackDays days, searching the season schedule feed.
// In test mode the pinned game is returned directly.
func (c *Client) FindRecentGame(ctx context.Context, teamCode string, lookbackDays int) (string, error) {
	if c.testMode {
		return c.testGameID, nil
	}

	var resp scheduleResponse
	if err := c.get(ctx, c.scheduleURL, &resp); err != nil {
		return "", fmt.Errorf("fetch season schedule: %w", err)
	}

	now := time.Now().UTC()
	windowStart := now.AddDate(0, 0, -lookbackDays)

	var bestID string
	var bestTime time.Time
	for _, day := range resp.LeagueSchedule.GameDates {
		for _, g := range day.Games {
			if g.GameStatus != 3 {
				continue
			}
			if g.HomeTeam.TeamTricode != teamCode && g.AwayTeam.TeamTricode != teamCode {
				continue
			}
			if g.GameDateTimeUTC.Before(windowStart) || g.GameDateTimeUTC.After(now) {
				continue
			}
			if g.GameDateTimeUTC.After(bestTime) {
				bestID = g.GameID
				bestTime = g.GameDateTimeUTC
			}
		}
	}

	if bestID == "" {
		return "", ErrGameNotFound
	}
	c.logger.Info("Found recent game", "game_id", bestID, "team", teamCode, "tipoff", bestTime)
	return bestID, nil
}
