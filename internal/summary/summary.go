// Package summary builds the post-game shooting summary from a completed
// game's cumulative boxscore and drives its at-most-once delivery, guarded
// by the durable marker store.
package summary

import (
	"errors"
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/aaryanpatel2/nbaliveslack/internal/config"
	"github.com/aaryanpatel2/nbaliveslack/internal/nba"
)

// Expected "nothing to report" outcomes; rendered as informational
// messages, never as process failures.
var (
	ErrTeamNotFound = errors.New("tracked team not in boxscore")
	ErrNoAttempts   = errors.New("no attempts recorded for tracked team")
)

// TeamLine is one team's aggregate shooting line. Pct is 0.0 when no shot
// was attempted (defined, not an error).
type TeamLine struct {
	Name      string
	Made      int
	Attempted int
	Pct       float64
}

// Shooter is a player with at least one attempt of the selected stat type.
type Shooter struct {
	Name     string
	Made     int
	Attempts int
	Pct      float64
}

// Summary is the computed post-game report.
type Summary struct {
	GameID   string
	Matchup  string
	Team     TeamLine
	Opponent TeamLine
	// Shooters is the ranked list: players with makes ordered by
	// (pct desc, made desc), then zero-make players by attempts asc.
	Shooters []Shooter
	Top      Shooter
}

// Build computes the summary for the tracked team from a boxscore.
// Returns ErrTeamNotFound when neither side matches the tracked code, and
// ErrNoAttempts when no player attempted a shot of the selected type.
func Build(box *nba.BoxScore, teamCode, statType string) (*Summary, error) {
	var team, opp nba.BoxTeam
	switch teamCode {
	case box.HomeTeam.Tricode:
		team, opp = box.HomeTeam, box.AwayTeam
	case box.AwayTeam.Tricode:
		team, opp = box.AwayTeam, box.HomeTeam
	default:
		return nil, fmt.Errorf("%w: %s not in %s/%s", ErrTeamNotFound,
			teamCode, box.HomeTeam.Tricode, box.AwayTeam.Tricode)
	}

	shooters := make([]Shooter, 0, len(team.Players))
	for _, p := range team.Players {
		made := p.Statistics.Made(statType)
		att := p.Statistics.Attempted(statType)
		if att == 0 {
			continue
		}
		shooters = append(shooters, Shooter{
			Name:     p.Name,
			Made:     made,
			Attempts: att,
			Pct:      roundPct(made, att),
		})
	}
	if len(shooters) == 0 {
		return nil, ErrNoAttempts
	}

	ranked := rank(shooters)
	return &Summary{
		GameID:   box.GameID,
		Matchup:  fmt.Sprintf("%s vs %s", team.Name, opp.Name),
		Team:     teamLine(team, statType),
		Opponent: teamLine(opp, statType),
		Shooters: ranked,
		Top:      ranked[0],
	}, nil
}

// rank orders shooters in two blocks: players with at least one make sorted
// by (pct desc, made desc), followed by zero-make players sorted by
// attempts ascending. Sorting is stable so equal keys keep boxscore order.
func rank(shooters []Shooter) []Shooter {
	var made, zero []Shooter
	for _, s := range shooters {
		if s.Made > 0 {
			made = append(made, s)
		} else {
			zero = append(zero, s)
		}
	}

	sort.SliceStable(made, func(i, j int) bool {
		if made[i].Pct != made[j].Pct {
			return made[i].Pct > made[j].Pct
		}
		return made[i].Made > made[j].Made
	})
	sort.SliceStable(zero, func(i, j int) bool {
		return zero[i].Attempts < zero[j].Attempts
	})

	return append(made, zero...)
}

func teamLine(t nba.BoxTeam, statType string) TeamLine {
	made := t.Statistics.Made(statType)
	att := t.Statistics.Attempted(statType)
	line := TeamLine{Name: t.Name, Made: made, Attempted: att}
	if att > 0 {
		line.Pct = roundPct(made, att)
	}
	return line
}

// roundPct returns 100*made/attempts rounded to one decimal place, halves
// away from zero.
func roundPct(made, attempts int) float64 {
	return math.Round(100*float64(made)/float64(attempts)*10) / 10
}

// Format renders the summary as a Slack message.
func (s *Summary) Format(stat config.StatConfig) string {
	var b strings.Builder

	fmt.Fprintf(&b, "%s *%s* %s\n\n", stat.Emoji, s.Matchup, stat.Emoji)
	fmt.Fprintf(&b, "*Team %s%%:* %.1f%% (%d/%d)\n",
		stat.Name, s.Team.Pct, s.Team.Made, s.Team.Attempted)
	fmt.Fprintf(&b, "*Opponent (%s) %s%%:* %.1f%% (%d/%d)\n\n",
		s.Opponent.Name, stat.Name, s.Opponent.Pct, s.Opponent.Made, s.Opponent.Attempted)
	fmt.Fprintf(&b, "🏆 *Top %s Shooter:* %s — %d/%d (%.1f%%)\n\n",
		stat.Name, s.Top.Name, s.Top.Made, s.Top.Attempts, s.Top.Pct)
	fmt.Fprintf(&b, "📊 *All %s Shooters (ranked):*\n", stat.Name)
	for _, sh := range s.Shooters {
		fmt.Fprintf(&b, "• %s: %d/%d (%.1f%%)\n", sh.Name, sh.Made, sh.Attempts, sh.Pct)
	}

	return b.String()
}
