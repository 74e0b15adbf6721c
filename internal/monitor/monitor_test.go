package monitor

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/aaryanpatel2/nbaliveslack/internal/nba"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// fakeFeed serves scripted statuses and events. Statuses are consumed in
// order, with the final value repeating.
type fakeFeed struct {
	mu        sync.Mutex
	statusSeq map[string][]nba.GameStatus
	statusIdx map[string]int
	events    map[string][]nba.Event
	eventsErr map[string]error
	games     []nba.Game
}

func newFakeFeed() *fakeFeed {
	return &fakeFeed{
		statusSeq: make(map[string][]nba.GameStatus),
		statusIdx: make(map[string]int),
		events:    make(map[string][]nba.Event),
		eventsErr: make(map[string]error),
	}
}

func (f *fakeFeed) ListTodayGames(context.Context) ([]nba.Game, error) {
	return f.games, nil
}

func (f *fakeFeed) GetStatus(_ context.Context, gameID string) (nba.GameStatus, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	seq := f.statusSeq[gameID]
	if len(seq) == 0 {
		return nba.StatusScheduled, nil
	}
	i := f.statusIdx[gameID]
	if i >= len(seq) {
		i = len(seq) - 1
	} else {
		f.statusIdx[gameID]++
	}
	return seq[i], nil
}

func (f *fakeFeed) GetEvents(_ context.Context, gameID string) ([]nba.Event, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.eventsErr[gameID]; err != nil {
		return nil, err
	}
	return f.events[gameID], nil
}

func (f *fakeFeed) setStatus(gameID string, statuses ...nba.GameStatus) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.statusSeq[gameID] = statuses
	f.statusIdx[gameID] = 0
}

type fakeNotifier struct {
	mu    sync.Mutex
	texts []string
	err   error
}

func (n *fakeNotifier) Send(_ context.Context, text string) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.err != nil {
		return n.err
	}
	n.texts = append(n.texts, text)
	return nil
}

func (n *fakeNotifier) sent() []string {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]string(nil), n.texts...)
}

func trackedThree(seq int, desc string) nba.Event {
	return nba.Event{
		Sequence:    seq,
		Type:        "3pt",
		Description: desc,
		MadeShot:    true,
		IsFieldGoal: true,
		TeamCode:    "OKC",
	}
}

func rebound(seq int) nba.Event {
	return nba.Event{Sequence: seq, Type: "rebound", TeamCode: "OKC"}
}

func newTestMonitor(feed *fakeFeed, notifier *fakeNotifier) *Monitor {
	return New(feed, notifier, "OKC", time.Millisecond, testLogger())
}

func TestLifecycleScheduledLiveFinished(t *testing.T) {
	feed := newFakeFeed()
	notifier := &fakeNotifier{}
	games := []nba.Game{{ID: "g1"}}
	m := newTestMonitor(feed, notifier)
	ctx := context.Background()

	// Scheduled: admission does nothing.
	feed.setStatus("g1", nba.StatusScheduled)
	m.admit(ctx, games)
	if len(m.tracked) != 0 {
		t.Fatal("scheduled game should not be tracked")
	}

	// Live: admitted with the no-event-seen sentinel.
	feed.setStatus("g1", nba.StatusLive)
	m.admit(ctx, games)
	if seq, ok := m.tracked["g1"]; !ok || seq != noEventSeen {
		t.Fatalf("tracked[g1] = %d, %v; want %d, true", seq, ok, noEventSeen)
	}

	// Two live polls: events notify once, then replay is silent.
	feed.events["g1"] = []nba.Event{
		rebound(1),
		trackedThree(2, "J. Williams makes 3-pt shot"),
	}
	m.pollTracked(ctx)
	m.pollTracked(ctx)
	if got := notifier.sent(); len(got) != 1 {
		t.Fatalf("sent %d notifications, want 1: %v", len(got), got)
	}
	if m.tracked["g1"] != 2 {
		t.Errorf("lastSeenSeq = %d, want 2", m.tracked["g1"])
	}

	// Finished: evicted exactly once, terminal thereafter.
	feed.setStatus("g1", nba.StatusFinished)
	m.pollTracked(ctx)
	if len(m.tracked) != 0 {
		t.Error("finished game still tracked")
	}
	if _, ok := m.stopped["g1"]; !ok {
		t.Error("finished game not in stopped set")
	}
	if !m.done(games) {
		t.Error("done() = false after all games stopped")
	}

	// Feed flapping back to live must not resurrect the game.
	feed.setStatus("g1", nba.StatusLive)
	m.admit(ctx, games)
	if len(m.tracked) != 0 {
		t.Error("stopped game was resurrected")
	}
}

func TestOutOfOrderBatchMatchesSortedBatch(t *testing.T) {
	runBatch := func(events []nba.Event) []string {
		feed := newFakeFeed()
		notifier := &fakeNotifier{}
		m := newTestMonitor(feed, notifier)
		feed.setStatus("g1", nba.StatusLive)
		m.admit(context.Background(), []nba.Game{{ID: "g1"}})
		feed.events["g1"] = events
		m.pollTracked(context.Background())
		return notifier.sent()
	}

	sorted := []nba.Event{
		trackedThree(2, "A. Caruso makes 3-pt shot"),
		rebound(5),
		trackedThree(8, "C. Wallace makes 3-pt shot"),
	}
	shuffled := []nba.Event{sorted[2], sorted[0], sorted[1]}

	a, b := runBatch(sorted), runBatch(shuffled)
	if len(a) != 2 || len(b) != 2 {
		t.Fatalf("notification counts = %d, %d; want 2, 2", len(a), len(b))
	}
	for i := range a {
		if a[i] != b[i] {
			t.Errorf("order-dependent output at %d: %q vs %q", i, a[i], b[i])
		}
	}
}

func TestReplayProducesNoNotifications(t *testing.T) {
	feed := newFakeFeed()
	notifier := &fakeNotifier{}
	m := newTestMonitor(feed, notifier)
	ctx := context.Background()

	feed.setStatus("g1", nba.StatusLive)
	m.admit(ctx, []nba.Game{{ID: "g1"}})
	feed.events["g1"] = []nba.Event{trackedThree(3, "I. Hartenstein makes 3-pt shot")}

	m.pollTracked(ctx)
	before := len(notifier.sent())
	for i := 0; i < 3; i++ {
		m.pollTracked(ctx)
	}
	if after := len(notifier.sent()); after != before {
		t.Errorf("replay produced %d extra notifications", after-before)
	}
}

func TestFeedErrorSkipsCycleKeepsState(t *testing.T) {
	feed := newFakeFeed()
	notifier := &fakeNotifier{}
	m := newTestMonitor(feed, notifier)
	ctx := context.Background()

	feed.setStatus("g1", nba.StatusLive)
	m.admit(ctx, []nba.Game{{ID: "g1"}})
	feed.events["g1"] = []nba.Event{trackedThree(4, "L. Dort makes 3-pt shot")}

	feed.eventsErr["g1"] = errors.New("feed unavailable")
	m.pollTracked(ctx)
	if m.tracked["g1"] != noEventSeen {
		t.Fatalf("lastSeenSeq advanced during a failed cycle: %d", m.tracked["g1"])
	}
	if len(notifier.sent()) != 0 {
		t.Fatal("notification sent during a failed cycle")
	}

	// Next cycle succeeds and catches up.
	feed.eventsErr["g1"] = nil
	m.pollTracked(ctx)
	if len(notifier.sent()) != 1 {
		t.Errorf("sent %d notifications after recovery, want 1", len(notifier.sent()))
	}
}

func TestDeliveryFailureStillAdvances(t *testing.T) {
	feed := newFakeFeed()
	notifier := &fakeNotifier{err: errors.New("channel_not_found")}
	m := newTestMonitor(feed, notifier)
	ctx := context.Background()

	feed.setStatus("g1", nba.StatusLive)
	m.admit(ctx, []nba.Game{{ID: "g1"}})
	feed.events["g1"] = []nba.Event{trackedThree(7, "A. Mitchell makes 3-pt shot")}

	m.pollTracked(ctx)
	if m.tracked["g1"] != 7 {
		t.Errorf("lastSeenSeq = %d after delivery failure, want 7", m.tracked["g1"])
	}

	// Delivery recovers; the already-processed event must not re-send.
	notifier.err = nil
	m.pollTracked(ctx)
	if len(notifier.sent()) != 0 {
		t.Error("failed delivery was retried on a later cycle")
	}
}

func TestFinishedBeforeLiveIsSkipped(t *testing.T) {
	feed := newFakeFeed()
	notifier := &fakeNotifier{}
	m := newTestMonitor(feed, notifier)
	games := []nba.Game{{ID: "g1"}}

	feed.setStatus("g1", nba.StatusFinished)
	m.admit(context.Background(), games)
	if !m.done(games) {
		t.Error("a game finished before going live should not block termination")
	}
}

func TestRunTerminatesWhenAllGamesFinish(t *testing.T) {
	feed := newFakeFeed()
	notifier := &fakeNotifier{}
	m := newTestMonitor(feed, notifier)

	// Live on admission, live for one poll, then finished.
	feed.setStatus("g1", nba.StatusLive, nba.StatusLive, nba.StatusFinished)
	feed.events["g1"] = []nba.Event{trackedThree(1, "K. Holmgren makes 3-pt shot")}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := m.Run(ctx, []nba.Game{{ID: "g1"}}); err != nil {
		t.Fatalf("Run returned %v, want nil", err)
	}
	if len(notifier.sent()) != 1 {
		t.Errorf("sent %d notifications, want 1", len(notifier.sent()))
	}

	snap := m.Snapshot()
	if len(snap.Tracking) != 0 || snap.StoppedGames != 1 {
		t.Errorf("snapshot = %+v, want no tracking and 1 stopped game", snap)
	}
}
