// Package slack delivers notification text to a single channel via the
// chat.postMessage Web API. Delivery is at-most-once: callers log failures
// and never retry.
package slack

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"
)

const defaultAPIURL = "https://slack.com/api/chat.postMessage"

// Client posts messages to one Slack channel using a bot token.
// Nil-safe: a nil client logs sends instead of delivering them.
type Client struct {
	token      string
	channel    string
	apiURL     string
	httpClient *http.Client
	logger     *slog.Logger
}

// New creates a Slack client. Returns nil when token is empty (delivery
// disabled; sends become dry-run log lines).
func New(token, channel string, logger *slog.Logger) *Client {
	if token == "" {
		return nil
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Client{
		token:      token,
		channel:    channel,
		apiURL:     defaultAPIURL,
		httpClient: &http.Client{Timeout: 10 * time.Second},
		logger:     logger,
	}
}

// NewWithURL is New with an overridable API endpoint, used in tests.
func NewWithURL(token, channel, apiURL string, logger *slog.Logger) *Client {
	c := New(token, channel, logger)
	if c != nil && apiURL != "" {
		c.apiURL = apiURL
	}
	return c
}

// postMessageResponse is the subset of the Slack API response we inspect.
type postMessageResponse struct {
	OK    bool   `json:"ok"`
	Error string `json:"error"`
}

// Send posts text to the configured channel. A non-ok API response is a
// delivery error; the caller decides whether it is fatal.
func (c *Client) Send(ctx context.Context, text string) error {
	if c == nil {
		slog.Default().Info("Slack disabled, dropping message", "text", text)
		return nil
	}

	payload, err := json.Marshal(map[string]string{
		"channel": c.channel,
		"text":    text,
	})
	if err != nil {
		return fmt.Errorf("marshal slack payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.apiURL, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json; charset=utf-8")
	req.Header.Set("Authorization", "Bearer "+c.token)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("post slack message: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read slack response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("slack API returned %d", resp.StatusCode)
	}

	var result postMessageResponse
	if err := json.Unmarshal(body, &result); err != nil {
		return fmt.Errorf("decode slack response: %w", err)
	}
	if !result.OK {
		return fmt.Errorf("slack API error: %s", result.Error)
	}
	return nil
}
