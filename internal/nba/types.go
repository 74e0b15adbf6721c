package nba

import "time"

// GameStatus is derived from the scoreboard on every poll, never cached.
type GameStatus int

const (
	StatusScheduled GameStatus = iota + 1
	StatusLive
	StatusFinished
)

func (s GameStatus) String() string {
	switch s {
	case StatusScheduled:
		return "scheduled"
	case StatusLive:
		return "live"
	case StatusFinished:
		return "finished"
	default:
		return "unknown"
	}
}

// Game is one entry of the day's schedule. Identity is the game ID.
type Game struct {
	ID       string
	StartUTC time.Time
	HomeCode string
	AwayCode string
}

// Event is one play-by-play action. Sequence numbers are unique and strictly
// increasing within a game, but a fetched batch may arrive out of order.
type Event struct {
	Sequence    int
	Type        string
	Period      int
	Clock       string
	Description string
	MadeShot    bool
	IsFieldGoal bool
	TeamCode    string
}

// ShootingStats holds the cumulative made/attempted counters the summary
// selects from by stat type.
type ShootingStats struct {
	ThreePointersMade      int
	ThreePointersAttempted int
	FieldGoalsMade         int
	FieldGoalsAttempted    int
	FreeThrowsMade         int
	FreeThrowsAttempted    int
}

// Made returns the made count for a stat type key (3pt, fg, ft).
func (s ShootingStats) Made(statType string) int {
	switch statType {
	case "fg":
		return s.FieldGoalsMade
	case "ft":
		return s.FreeThrowsMade
	default:
		return s.ThreePointersMade
	}
}

// Attempted returns the attempt count for a stat type key (3pt, fg, ft).
func (s ShootingStats) Attempted(statType string) int {
	switch statType {
	case "fg":
		return s.FieldGoalsAttempted
	case "ft":
		return s.FreeThrowsAttempted
	default:
		return s.ThreePointersAttempted
	}
}

// BoxTeam is one side of a boxscore.
type BoxTeam struct {
	Name       string
	Tricode    string
	Statistics ShootingStats
	Players    []BoxPlayer
}

// BoxPlayer is one player line in a boxscore.
type BoxPlayer struct {
	Name       string
	Statistics ShootingStats
}

// BoxScore is a game's cumulative boxscore snapshot.
type BoxScore struct {
	GameID   string
	HomeTeam BoxTeam
	AwayTeam BoxTeam
}
