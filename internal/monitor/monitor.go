// Package monitor drives the live-game notification path. It owns per-game
// tracking state and moves each game through an explicit lifecycle:
//
//	NotMonitored → Tracking → Stopped
//
// A game starts Tracking when the feed first reports it live, and is
// Stopped permanently once the feed reports it finished — flapping back to
// live on the feed never resurrects a stopped game. While Tracking, each
// poll cycle fetches the play-by-play, sorts it by sequence number, and
// runs every not-yet-seen event through the classifier. The last seen
// sequence advances after every processed event, matched or not, so
// re-polling the same feed never re-emits a notification.
package monitor

import (
	"context"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/aaryanpatel2/nbaliveslack/internal/classify"
	"github.com/aaryanpatel2/nbaliveslack/internal/nba"
)

// noEventSeen is the lastSeenSeq sentinel for a freshly admitted game.
const noEventSeen = -1

// Feed supplies point-in-time snapshots of the day's games. Calls may fail
// transiently; the monitor skips the cycle and retries on the next one.
type Feed interface {
	ListTodayGames(ctx context.Context) ([]nba.Game, error)
	GetStatus(ctx context.Context, gameID string) (nba.GameStatus, error)
	GetEvents(ctx context.Context, gameID string) ([]nba.Event, error)
}

// Notifier delivers one formatted message. Delivery failures are logged and
// never retried.
type Notifier interface {
	Send(ctx context.Context, text string) error
}

// Monitor tracks live games for a single team within one process.
type Monitor struct {
	feed     Feed
	notifier Notifier
	team     string
	interval time.Duration
	logger   *slog.Logger

	// mu guards tracked and stopped: the control loop is the only writer,
	// but the status server reads snapshots from its own goroutine.
	mu      sync.RWMutex
	tracked map[string]int      // gameID → last seen event sequence
	stopped map[string]struct{} // terminal set; a stopped game stays stopped
}

// New creates a monitor for the given tracked team.
func New(feed Feed, notifier Notifier, teamCode string, interval time.Duration, logger *slog.Logger) *Monitor {
	if logger == nil {
		logger = slog.Default()
	}
	return &Monitor{
		feed:     feed,
		notifier: notifier,
		team:     teamCode,
		interval: interval,
		logger:   logger,
		tracked:  make(map[string]int),
		stopped:  make(map[string]struct{}),
	}
}

// Run monitors the given day's games until every one of them has been
// tracked to completion (or observed finished without ever going live), or
// the context is cancelled.
func (m *Monitor) Run(ctx context.Context, games []nba.Game) error {
	for {
		m.admit(ctx, games)
		m.pollTracked(ctx)

		if m.done(games) {
			m.logger.Info("All games finished, monitoring complete")
			return nil
		}

		select {
		case <-time.After(m.interval):
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

// admit starts tracking any not-yet-tracked game the feed now reports live.
// A game observed finished before it was ever live goes straight to the
// stopped set so the day's loop can still terminate.
func (m *Monitor) admit(ctx context.Context, games []nba.Game) {
	for _, g := range games {
		if m.known(g.ID) {
			continue
		}

		status, err := m.feed.GetStatus(ctx, g.ID)
		if err != nil {
			m.logger.Warn("Status check failed, will retry next cycle", "game_id", g.ID, "error", err)
			continue
		}

		switch status {
		case nba.StatusLive:
			m.logger.Info("Game is live, starting play-by-play monitoring", "game_id", g.ID)
			m.mu.Lock()
			m.tracked[g.ID] = noEventSeen
			m.mu.Unlock()
		case nba.StatusFinished:
			m.logger.Info("Game finished before monitoring began, skipping", "game_id", g.ID)
			m.mu.Lock()
			m.stopped[g.ID] = struct{}{}
			m.mu.Unlock()
		}
	}
}

// pollTracked advances every tracked game one cycle and evicts games whose
// status came back finished. Failures are scoped to the game that produced
// them; the rest of the cycle proceeds.
func (m *Monitor) pollTracked(ctx context.Context) {
	var finished []string

	for _, gameID := range m.trackedIDs() {
		status, err := m.feed.GetStatus(ctx, gameID)
		if err != nil {
			m.logger.Warn("Status check failed, keeping state", "game_id", gameID, "error", err)
			continue
		}

		switch status {
		case nba.StatusLive:
			m.pollGame(ctx, gameID)
		case nba.StatusFinished:
			finished = append(finished, gameID)
		}
	}

	for _, gameID := range finished {
		m.evict(gameID)
	}
}

// pollGame fetches and processes new play-by-play events for one game.
// On feed failure the cycle is skipped and the last seen sequence is left
// unchanged, so the events are re-evaluated next cycle.
func (m *Monitor) pollGame(ctx context.Context, gameID string) {
	events, err := m.feed.GetEvents(ctx, gameID)
	if err != nil {
		m.logger.Warn("Play-by-play fetch failed, skipping cycle", "game_id", gameID, "error", err)
		return
	}

	// The feed may deliver a batch out of order; restore sequence order
	// before comparing against the last seen position.
	sort.Slice(events, func(i, j int) bool { return events[i].Sequence < events[j].Sequence })

	m.mu.RLock()
	lastSeen := m.tracked[gameID]
	m.mu.RUnlock()

	newEvents := 0
	for _, ev := range events {
		if ev.Sequence <= lastSeen {
			continue
		}
		newEvents++

		if notif, ok := classify.Classify(ev, m.team); ok {
			m.logger.Info("Trigger event", "game_id", gameID, "play", classify.Describe(ev))
			if err := m.notifier.Send(ctx, notif.Text); err != nil {
				// At-most-once: a missed chat message is not fatal.
				m.logger.Warn("Notification delivery failed", "game_id", gameID, "error", err)
			}
		}

		// Advance past every processed event, matched or not, so unmatched
		// events are never re-evaluated.
		lastSeen = ev.Sequence
	}

	m.mu.Lock()
	m.tracked[gameID] = lastSeen
	m.mu.Unlock()

	if newEvents == 0 {
		m.logger.Debug("No new plays since last check", "game_id", gameID)
	}
}

// evict discards a finished game's tracking state. Idempotent.
func (m *Monitor) evict(gameID string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.tracked[gameID]; ok {
		m.logger.Info("Game is over, stopping monitoring", "game_id", gameID)
		delete(m.tracked, gameID)
	}
	m.stopped[gameID] = struct{}{}
}

// done reports whether nothing is tracking and every scheduled game has
// already been admitted and stopped.
func (m *Monitor) done(games []nba.Game) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if len(m.tracked) > 0 {
		return false
	}
	for _, g := range games {
		if _, ok := m.stopped[g.ID]; !ok {
			return false
		}
	}
	return true
}

func (m *Monitor) known(gameID string) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if _, ok := m.tracked[gameID]; ok {
		return true
	}
	_, ok := m.stopped[gameID]
	return ok
}

func (m *Monitor) trackedIDs() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	ids := make([]string, 0, len(m.tracked))
	for id := range m.tracked {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Snapshot is a point-in-time view of monitor state for the status server.
type Snapshot struct {
	TrackedTeam  string         `json:"tracked_team"`
	Tracking     map[string]int `json:"tracking"`
	StoppedGames int            `json:"stopped_games"`
}

// Snapshot returns the current tracking state. Safe to call from other
// goroutines.
func (m *Monitor) Snapshot() Snapshot {
	m.mu.RLock()
	defer m.mu.RUnlock()
	tracking := make(map[string]int, len(m.tracked))
	for id, seq := range m.tracked {
		tracking[id] = seq
	}
	return Snapshot{
		TrackedTeam:  m.team,
		Tracking:     tracking,
		StoppedGames: len(m.stopped),
	}
}
