// Package config provides centralized configuration loaded from environment
// variables. Shared by the watch and summary commands.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// --------------------------------------------------------------------------
// Team registry — full and short franchise names to NBA tricodes
// --------------------------------------------------------------------------

var TeamRegistry = map[string]string{
	"OKC Thunder":           "OKC",
	"Oklahoma City Thunder": "OKC",
	"Thunder":               "OKC",
	"Lakers":                "LAL",
	"Warriors":              "GSW",
	"Celtics":               "BOS",
	"Heat":                  "MIA",
	"Nets":                  "BKN",
	"Knicks":                "NYK",
	"Sixers":                "PHI",
	"Bucks":                 "MIL",
	"Bulls":                 "CHI",
	"Cavaliers":             "CLE",
	"Pistons":               "DET",
	"Pacers":                "IND",
	"Hawks":                 "ATL",
	"Hornets":               "CHA",
	"Magic":                 "ORL",
	"Wizards":               "WAS",
	"Nuggets":               "DEN",
	"Timberwolves":          "MIN",
	"Trail Blazers":         "POR",
	"Jazz":                  "UTA",
	"Suns":                  "PHX",
	"Clippers":              "LAC",
	"Kings":                 "SAC",
	"Mavericks":             "DAL",
	"Rockets":               "HOU",
	"Grizzlies":             "MEM",
	"Pelicans":              "NOP",
	"Spurs":                 "SAS",
	"Raptors":               "TOR",
}

// ResolveTeam maps a team name to its tricode. Values that are already
// tricodes (or unknown) pass through unchanged.
func ResolveTeam(name string) string {
	if code, ok := TeamRegistry[name]; ok {
		return code
	}
	return name
}

// --------------------------------------------------------------------------
// Stat registry — selectable stat types for the post-game summary
// --------------------------------------------------------------------------

type StatConfig struct {
	Key         string
	Name        string
	Emoji       string
	Description string
}

var StatRegistry = map[string]StatConfig{
	"3pt": {Key: "3pt", Name: "3-Point", Emoji: "🏀", Description: "three-pointers"},
	"fg":  {Key: "fg", Name: "Field Goal", Emoji: "🎯", Description: "field goals"},
	"ft":  {Key: "ft", Name: "Free Throw", Emoji: "🎯", Description: "free throws"},
}

// Marker store backends.
const (
	MarkerFile     = "file"
	MarkerPostgres = "postgres"
	MarkerRedis    = "redis"
)

// --------------------------------------------------------------------------
// Config struct — populated from environment variables
// --------------------------------------------------------------------------

type Config struct {
	// Slack
	SlackBotToken string
	SlackChannel  string

	// Tracking
	TeamCode     string
	StatType     string
	LookbackDays int
	PollInterval time.Duration

	// Post-game feed reads retry because boxscores lag behind game end.
	FeedRetryAttempts int
	FeedRetryDelay    time.Duration

	// NBA feed
	NBALiveBaseURL    string
	NBAScheduleURL    string
	NBARequestsPerMin int

	// Marker store
	MarkerBackend string
	MarkerPath    string
	DatabaseURL   string
	RedisAddr     string
	RedisPassword string

	// Status server (empty = disabled)
	StatusAddr string

	// Test mode — monitor a fixed past game as if it were live
	TestMode      bool
	TestGameID    string
	TestStartTime time.Time
}

// Load reads configuration from environment variables with sensible defaults.
func Load() (*Config, error) {
	token := os.Getenv("SLACK_BOT_TOKEN")
	if token == "" {
		return nil, fmt.Errorf("SLACK_BOT_TOKEN must be set")
	}
	channel := envOr("SLACK_CHANNEL_ID", os.Getenv("SLACK_USER_ID"))
	if channel == "" {
		return nil, fmt.Errorf("SLACK_CHANNEL_ID or SLACK_USER_ID must be set")
	}

	statType := envOr("STAT_TYPE", "3pt")
	if _, ok := StatRegistry[statType]; !ok {
		return nil, fmt.Errorf("unknown STAT_TYPE %q (want 3pt, fg, or ft)", statType)
	}

	backend := envOr("MARKER_BACKEND", MarkerFile)
	switch backend {
	case MarkerFile, MarkerPostgres, MarkerRedis:
	default:
		return nil, fmt.Errorf("unknown MARKER_BACKEND %q (want file, postgres, or redis)", backend)
	}

	return &Config{
		SlackBotToken: token,
		SlackChannel:  channel,

		TeamCode:     ResolveTeam(envOr("TRACKED_TEAM", "OKC Thunder")),
		StatType:     statType,
		LookbackDays: envInt("LOOKBACK_DAYS", 1),
		PollInterval: envDuration("POLL_INTERVAL_SECONDS", 5*time.Second),

		FeedRetryAttempts: envInt("FEED_RETRY_ATTEMPTS", 3),
		FeedRetryDelay:    envDuration("FEED_RETRY_DELAY_SECONDS", 2*time.Second),

		NBALiveBaseURL:    envOr("NBA_LIVE_BASE_URL", "https://cdn.nba.com/static/json/liveData"),
		NBAScheduleURL:    envOr("NBA_SCHEDULE_URL", "https://cdn.nba.com/static/json/staticData/scheduleLeagueV2.json"),
		NBARequestsPerMin: envInt("NBA_REQUESTS_PER_MINUTE", 60),

		MarkerBackend: backend,
		MarkerPath:    envOr("MARKER_FILE", "last_notified_game.txt"),
		DatabaseURL:   envOr("DATABASE_URL", ""),
		RedisAddr:     envOr("REDIS_URL", "localhost:6379"),
		RedisPassword: os.Getenv("REDIS_PASSWORD"),

		StatusAddr: envOr("STATUS_ADDR", ""),

		TestMode:      envBool("TEST_MODE", false),
		TestGameID:    envOr("TEST_GAME_ID", "0022401196"),
		TestStartTime: time.Date(2025, 6, 2, 20, 0, 0, 0, time.UTC),
	}, nil
}

// Stat returns the configured stat type's registry entry.
func (c *Config) Stat() StatConfig {
	return StatRegistry[c.StatType]
}

// --------------------------------------------------------------------------
// Env helpers
// --------------------------------------------------------------------------

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func envBool(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		b, err := strconv.ParseBool(v)
		if err == nil {
			return b
		}
	}
	return fallback
}

func envDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			return time.Duration(n) * time.Second
		}
	}
	return fallback
}
