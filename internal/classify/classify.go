// Package classify decides whether a single play-by-play event warrants a
// Slack notification. Classification is a pure function: same event and
// tracked team always produce the same output.
package classify

import (
	"fmt"
	"regexp"

	"github.com/aaryanpatel2/nbaliveslack/internal/nba"
)

const (
	threeSuffix    = " TREBALL FROM DEEP👌"
	ejectionPrefix = "EJECTION: "
)

// Notification is a formatted message ready for delivery.
type Notification struct {
	Text string
}

// Classify evaluates one event against the trigger rules, first match wins:
//
//  1. Made three-pointer by the tracked team.
//  2. Ejection, regardless of team.
//
// Returns ok=false when the event matches no rule.
func Classify(ev nba.Event, trackedTeam string) (Notification, bool) {
	switch {
	case ev.Type == "3pt" && ev.MadeShot && ev.IsFieldGoal && ev.TeamCode == trackedTeam:
		name, ok := extractName(ev.Description)
		if !ok {
			// Best-effort extraction failed; fall back to the raw description.
			name = ev.Description
		}
		return Notification{Text: name + threeSuffix}, true

	case ev.Type == "ejection":
		return Notification{Text: ejectionPrefix + ev.Description}, true

	default:
		return Notification{}, false
	}
}

// Play-by-play descriptions lead with an abbreviated player name, e.g.
// "S. Gilgeous-Alexander 26' 3PT (12 PTS)". The pattern grabs the initial
// plus the first word of the surname.
var namePattern = regexp.MustCompile(`^\w.\s\w+`)

// extractName pulls the leading player-name token out of a free-text
// description. Returns ok=false when the description does not start with a
// name-shaped token; callers must fall back rather than assume a match.
func extractName(description string) (string, bool) {
	m := namePattern.FindString(description)
	if m == "" {
		return "", false
	}
	return m, true
}

// Describe renders the event's game context for logs.
func Describe(ev nba.Event) string {
	return fmt.Sprintf("%d-%s: %s", ev.Period, ev.Clock, ev.Description)
}
