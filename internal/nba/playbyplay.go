package nba

import (
	"context"
	"fmt"
)

// playByPlayResponse mirrors playbyplay_{gameId}.json.
type playByPlayResponse struct {
	Game struct {
		GameID  string `json:"gameId"`
		Actions []struct {
			ActionNumber int    `json:"actionNumber"`
			ActionType   string `json:"actionType"`
			Period       int    `json:"period"`
			Clock        string `json:"clock"`
			Description  string `json:"description"`
			ShotResult   string `json:"shotResult"`
			IsFieldGoal  int    `json:"isFieldGoal"`
			TeamTricode  string `json:"teamTricode"`
		} `json:"actions"`
	} `json:"game"`
}

// GetEvents fetches the full play-by-play action list for a game. Order is
// whatever the feed returned; callers sort by Sequence before comparing
// against their last-seen position.
func (c *Client) GetEvents(ctx context.Context, gameID string) ([]Event, error) {
	var resp playByPlayResponse
	url := fmt.Sprintf("%s/playbyplay/playbyplay_%s.json", c.baseURL, gameID)
	if err := c.get(ctx, url, &resp); err != nil {
		return nil, fmt.Errorf("fetch play-by-play for game %s: %w", gameID, err)
	}

	events := make([]Event, 0, len(resp.Game.Actions))
	for _, a := range resp.Game.Actions {
		events = append(events, Event{
			Sequence:    a.ActionNumber,
			Type:        a.ActionType,
			Period:      a.Period,
			Clock:       a.Clock,
			Description: a.Description,
			MadeShot:    a.ShotResult == "Made",
			IsFieldGoal: a.IsFieldGoal == 1,
			TeamCode:    a.TeamTricode,
		})
	}
	return events, nil
}
