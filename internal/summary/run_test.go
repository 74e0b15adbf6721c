package summary_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/aaryanpatel2/nbaliveslack/internal/config"
	"github.com/aaryanpatel2/nbaliveslack/internal/nba"
	"github.com/aaryanpatel2/nbaliveslack/internal/summary"
)

type fakePostGameFeed struct {
	gameID   string
	findErr  error
	box      *nba.BoxScore
	boxErrs  []error // consumed per GetBoxScore call
	boxCalls int
}

func (f *fakePostGameFeed) FindRecentGame(context.Context, string, int) (string, error) {
	if f.findErr != nil {
		return "", f.findErr
	}
	return f.gameID, nil
}

func (f *fakePostGameFeed) GetBoxScore(context.Context, string) (*nba.BoxScore, error) {
	f.boxCalls++
	if len(f.boxErrs) > 0 {
		err := f.boxErrs[0]
		f.boxErrs = f.boxErrs[1:]
		if err != nil {
			return nil, err
		}
	}
	return f.box, nil
}

type memStore struct {
	value    string
	hasValue bool
	writeErr error
	writes   int
}

func (s *memStore) Read(context.Context) (string, bool, error) { return s.value, s.hasValue, nil }
func (s *memStore) Write(_ context.Context, v string) error {
	if s.writeErr != nil {
		return s.writeErr
	}
	s.value, s.hasValue = v, true
	s.writes++
	return nil
}
func (s *memStore) Close() {}

type captureNotifier struct {
	texts []string
	err   error
}

func (n *captureNotifier) Send(_ context.Context, text string) error {
	if n.err != nil {
		return n.err
	}
	n.texts = append(n.texts, text)
	return nil
}

func runConfig() *config.Config {
	return &config.Config{
		TeamCode:          "OKC",
		StatType:          "3pt",
		LookbackDays:      1,
		FeedRetryAttempts: 3,
		FeedRetryDelay:    time.Millisecond,
	}
}

func discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestRunSendsSummaryAndWritesMarker(t *testing.T) {
	feed := &fakePostGameFeed{gameID: "0022401197", box: testBox(player("S. Gilgeous-Alexander", 3, 4))}
	store := &memStore{value: "0022401196", hasValue: true}
	notifier := &captureNotifier{}

	if err := summary.Run(context.Background(), feed, store, notifier, runConfig(), discard()); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(notifier.texts) != 1 || !strings.Contains(notifier.texts[0], "S. Gilgeous-Alexander") {
		t.Errorf("sent = %v, want one summary message", notifier.texts)
	}
	if store.value != "0022401197" {
		t.Errorf("marker = %q, want %q", store.value, "0022401197")
	}
}

func TestRunSkipsAlreadyNotifiedGame(t *testing.T) {
	feed := &fakePostGameFeed{gameID: "0022401196", box: testBox(player("P", 1, 2))}
	store := &memStore{value: "0022401196", hasValue: true}
	notifier := &captureNotifier{}

	if err := summary.Run(context.Background(), feed, store, notifier, runConfig(), discard()); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(notifier.texts) != 0 {
		t.Errorf("sent %v for an already-notified game", notifier.texts)
	}
	if store.writes != 0 {
		t.Error("marker rewritten for an already-notified game")
	}
}

func TestRunNoRecentGameIsInformational(t *testing.T) {
	feed := &fakePostGameFeed{findErr: nba.ErrGameNotFound}
	store := &memStore{}
	notifier := &captureNotifier{}

	if err := summary.Run(context.Background(), feed, store, notifier, runConfig(), discard()); err != nil {
		t.Fatalf("Run returned %v, want nil for no recent game", err)
	}
	if len(notifier.texts) != 1 || !strings.Contains(notifier.texts[0], "No recent game") {
		t.Errorf("sent = %v, want one informational message", notifier.texts)
	}
	if store.writes != 0 {
		t.Error("marker written with nothing summarized")
	}
}

func TestRunNoAttemptsLeavesMarkerUntouched(t *testing.T) {
	feed := &fakePostGameFeed{gameID: "0022401197", box: testBox(player("Benchwarmer", 0, 0))}
	store := &memStore{}
	notifier := &captureNotifier{}

	if err := summary.Run(context.Background(), feed, store, notifier, runConfig(), discard()); err != nil {
		t.Fatalf("Run returned %v, want nil for no attempts", err)
	}
	if len(notifier.texts) != 1 || !strings.Contains(notifier.texts[0], "No three-pointers attempted") {
		t.Errorf("sent = %v, want the no-attempts message", notifier.texts)
	}
	if store.writes != 0 {
		t.Error("marker written for a game with no attempts")
	}
}

func TestRunRetriesBoxscoreFetch(t *testing.T) {
	feed := &fakePostGameFeed{
		gameID:  "0022401197",
		box:     testBox(player("P", 2, 3)),
		boxErrs: []error{errors.New("lagging"), errors.New("lagging")},
	}
	store := &memStore{}
	notifier := &captureNotifier{}

	if err := summary.Run(context.Background(), feed, store, notifier, runConfig(), discard()); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if feed.boxCalls != 3 {
		t.Errorf("boxscore fetched %d times, want 3 (two failures then success)", feed.boxCalls)
	}
	if len(notifier.texts) != 1 {
		t.Errorf("sent = %v, want one summary", notifier.texts)
	}
}

func TestRunDeliveryFailureStillWritesMarker(t *testing.T) {
	feed := &fakePostGameFeed{gameID: "0022401197", box: testBox(player("P", 2, 3))}
	store := &memStore{}
	notifier := &captureNotifier{err: errors.New("channel_not_found")}

	if err := summary.Run(context.Background(), feed, store, notifier, runConfig(), discard()); err != nil {
		t.Fatalf("Run returned %v, delivery failure must not escalate", err)
	}
	if store.value != "0022401197" {
		t.Errorf("marker = %q after failed delivery, want %q", store.value, "0022401197")
	}
}

func TestRunMarkerWriteFailureEscalates(t *testing.T) {
	feed := &fakePostGameFeed{gameID: "0022401197", box: testBox(player("P", 2, 3))}
	store := &memStore{writeErr: errors.New("disk full")}
	notifier := &captureNotifier{}

	if err := summary.Run(context.Background(), feed, store, notifier, runConfig(), discard()); err == nil {
		t.Fatal("Run returned nil, want error when the marker cannot be persisted")
	}
}
