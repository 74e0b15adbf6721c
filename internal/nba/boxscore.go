package nba

import (
	"context"
	"fmt"
)

// boxStats is the statistics subset we read from boxscore team and player
// objects; the feed carries many more fields.
type boxStats struct {
	ThreePointersMade      int `json:"threePointersMade"`
	ThreePointersAttempted int `json:"threePointersAttempted"`
	FieldGoalsMade         int `json:"fieldGoalsMade"`
	FieldGoalsAttempted    int `json:"fieldGoalsAttempted"`
	FreeThrowsMade         int `json:"freeThrowsMade"`
	FreeThrowsAttempted    int `json:"freeThrowsAttempted"`
}

type boxTeamPayload struct {
	TeamName    string   `json:"teamName"`
	TeamTricode string   `json:"teamTricode"`
	Statistics  boxStats `json:"statistics"`
	Players     []struct {
		Name       string   `json:"name"`
		Statistics boxStats `json:"statistics"`
	} `json:"players"`
}

// boxScoreResponse mirrors boxscore_{gameId}.json.
type boxScoreResponse struct {
	Game struct {
		GameID   string         `json:"gameId"`
		HomeTeam boxTeamPayload `json:"homeTeam"`
		AwayTeam boxTeamPayload `json:"awayTeam"`
	} `json:"game"`
}

// GetBoxScore fetches a game's cumulative boxscore.
func (c *Client) GetBoxScore(ctx context.Context, gameID string) (*BoxScore, error) {
	var resp boxScoreResponse
	url := fmt.Sprintf("%s/boxscore/boxscore_%s.json", c.baseURL, gameID)
	if err := c.get(ctx, url, &resp); err != nil {
		return nil, fmt.Errorf("fetch boxscore for game %s: %w", gameID, err)
	}

	box := &BoxScore{
		GameID:   resp.Game.GameID,
		HomeTeam: convertTeam(resp.Game.HomeTeam),
		AwayTeam: convertTeam(resp.Game.AwayTeam),
	}
	if box.GameID == "" {
		box.GameID = gameID
	}
	return box, nil
}

func convertTeam(t boxTeamPayload) BoxTeam {
	team := BoxTeam{
		Name:       t.TeamName,
		Tricode:    t.TeamTricode,
		Statistics: ShootingStats(t.Statistics),
		Players:    make([]BoxPlayer, 0, len(t.Players)),
	}
	for _, p := range t.Players {
		team.Players = append(team.Players, BoxPlayer{
			Name:       p.Name,
			Statistics: ShootingStats(p.Statistics),
		})
	}
	return team
}
