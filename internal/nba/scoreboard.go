package nba

import (
	"context"
	"fmt"
	"time"
)

// scoreboardResponse mirrors todaysScoreboard_00.json.
type scoreboardResponse struct {
	Scoreboard struct {
		GameDate string `json:"gameDate"`
		Games    []struct {
			GameID      string    `json:"gameId"`
			GameStatus  int       `json:"gameStatus"`
			GameTimeUTC time.Time `json:"gameTimeUTC"`
			HomeTeam    struct {
				TeamTricode string `json:"teamTricode"`
			} `json:"homeTeam"`
			AwayTeam struct {
				TeamTricode string `json:"teamTricode"`
			} `json:"awayTeam"`
		} `json:"games"`
	} `json:"scoreboard"`
}

// ListTodayGames returns today's schedule from the live scoreboard.
// In test mode it returns the single pinned game.
func (c *Client) ListTodayGames(ctx context.Context) ([]Game, error) {
	if c.testMode {
		c.logger.Info("Test mode: using pinned game", "game_id", c.testGameID)
		return []Game{{ID: c.testGameID, StartUTC: c.testStart}}, nil
	}

	var resp scoreboardResponse
	if err := c.get(ctx, c.baseURL+"/scoreboard/todaysScoreboard_00.json", &resp); err != nil {
		return nil, fmt.Errorf("fetch scoreboard: %w", err)
	}

	games := make([]Game, 0, len(resp.Scoreboard.Games))
	for _, g := range resp.Scoreboard.Games {
		games = append(games, Game{
			ID:       g.GameID,
			StartUTC: g.GameTimeUTC,
			HomeCode: g.HomeTeam.TeamTricode,
			AwayCode: g.AwayTeam.TeamTricode,
		})
	}
	return games, nil
}

// GetStatus derives a game's current status from the scoreboard. A game the
// scoreboard does not list yet reports as scheduled. In test mode the pinned
// game is always live so its full play-by-play replays through the monitor.
func (c *Client) GetStatus(ctx context.Context, gameID string) (GameStatus, error) {
	if c.testMode && gameID == c.testGameID {
		return StatusLive, nil
	}

	var resp scoreboardResponse
	if err := c.get(ctx, c.baseURL+"/scoreboard/todaysScoreboard_00.json", &resp); err != nil {
		return 0, fmt.Errorf("fetch scoreboard: %w", err)
	}

	for _, g := range resp.Scoreboard.Games {
		if g.GameID != gameID {
			continue
		}
		switch g.GameStatus {
		case 2:
			return StatusLive, nil
		case 3:
			return StatusFinished, nil
		default:
			return StatusScheduled, nil
		}
	}
	return StatusScheduled, nil
}
