// Package nba provides a client for the NBA live-data CDN endpoints:
// today's scoreboard, per-game play-by-play, per-game boxscore, and the
// season schedule used for lookback searches.
//
// Endpoints are unauthenticated but rate limited on our side via a token
// bucket limiter. Responses are point-in-time snapshots; any call may fail
// transiently and callers decide whether to retry.
package nba

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"golang.org/x/time/rate"

	"github.com/aaryanpatel2/nbaliveslack/internal/config"
)

// Client is the shared HTTP client for all NBA CDN endpoints.
type Client struct {
	httpClient  *http.Client
	baseURL     string
	scheduleURL string
	limiter     *rate.Limiter
	logger      *slog.Logger

	// Test mode pins a single past game as live so the monitor path can be
	// exercised against a finished game's real play-by-play.
	testMode   bool
	testGameID string
	testStart  time.Time
}

// NewClient creates an NBA CDN client with rate limiting.
func NewClient(cfg *config.Config, logger *slog.Logger) *Client {
	if logger == nil {
		logger = slog.Default()
	}
	rps := float64(cfg.NBARequestsPerMin) / 60.0
	return &Client{
		httpClient:  &http.Client{Timeout: 30 * time.Second},
		baseURL:     cfg.NBALiveBaseURL,
		scheduleURL: cfg.NBAScheduleURL,
		limiter:     rate.NewLimiter(rate.Limit(rps), 1),
		logger:      logger,
		testMode:    cfg.TestMode,
		testGameID:  cfg.TestGameID,
		testStart:   cfg.TestStartTime,
	}
}

// get performs a rate-limited GET request and decodes the JSON body into out.
func (c *Client) get(ctx context.Context, url string, out any) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("rate limit wait: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("http request %s: %w", url, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response body: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("NBA CDN %s returned %d: %s", url, resp.StatusCode, truncate(body, 200))
	}

	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

// truncate returns a truncated string representation for error messages.
func truncate(b []byte, maxLen int) string {
	if len(b) <= maxLen {
		return string(b)
	}
	return string(b[:maxLen]) + "..."
}
