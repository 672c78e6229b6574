package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds service settings read from the environment
type Config struct {
	Port        string
	DatabaseURL string
	VideosFile  string
	HistoryFile string

	LogLevel  string
	LogFormat string

	// RefreshInterval reloads the catalog periodically; 0 disables it
	RefreshInterval time.Duration
	WatchVideos     bool

	// Client-side timing, served to the UI and never applied by the engine
	SearchDebounce time.Duration
	SuggestDelay   time.Duration

	DefaultMaxResults int
	MaxSuggestions    int
}

func Default() Config {
	return Config{
		Port:              "8080",
		VideosFile:        "videos.json",
		HistoryFile:       "search_history.json",
		LogLevel:          "info",
		LogFormat:         "text",
		WatchVideos:       true,
		SearchDebounce:    300 * time.Millisecond,
		SuggestDelay:      100 * time.Millisecond,
		DefaultMaxResults: 50,
		MaxSuggestions:    8,
	}
}

// Load reads the environment over the defaults
func Load() (Config, error) {
	return load(os.Getenv)
}

func load(getenv func(string) string) (Config, error) {
	cfg := Default()

	str := func(key string, dst *string) {
		if v := strings.TrimSpace(getenv(key)); v != "" {
			*dst = v
		}
	}
	str("PORT", &cfg.Port)
	str("DATABASE_URL", &cfg.DatabaseURL)
	str("VIDEOS_FILE", &cfg.VideosFile)
	str("HISTORY_FILE", &cfg.HistoryFile)
	str("LOG_LEVEL", &cfg.LogLevel)
	str("LOG_FORMAT", &cfg.LogFormat)

	// Fix for SQLAlchemy scheme
	if strings.HasPrefix(cfg.DatabaseURL, "postgresql+psycopg:") {
		cfg.DatabaseURL = "postgres:" + strings.TrimPrefix(cfg.DatabaseURL, "postgresql+psycopg:")
	}

	durations := []struct {
		key string
		dst *time.Duration
	}{
		{"REFRESH_INTERVAL", &cfg.RefreshInterval},
		{"SEARCH_DEBOUNCE", &cfg.SearchDebounce},
		{"SUGGEST_DELAY", &cfg.SuggestDelay},
	}
	for _, d := range durations {
		v := strings.TrimSpace(getenv(d.key))
		if v == "" {
			continue
		}
		parsed, err := time.ParseDuration(v)
		if err != nil || parsed < 0 {
			return Config{}, fmt.Errorf("%s: invalid duration %q", d.key, v)
		}
		*d.dst = parsed
	}

	ints := []struct {
		key string
		dst *int
	}{
		{"DEFAULT_MAX_RESULTS", &cfg.DefaultMaxResults},
		{"MAX_SUGGESTIONS", &cfg.MaxSuggestions},
	}
	for _, n := range ints {
		v := strings.TrimSpace(getenv(n.key))
		if v == "" {
			continue
		}
		parsed, err := strconv.Atoi(v)
		if err != nil || parsed < 0 {
			return Config{}, fmt.Errorf("%s: invalid count %q", n.key, v)
		}
		*n.dst = parsed
	}

	if v := strings.TrimSpace(getenv("WATCH_VIDEOS")); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return Config{}, fmt.Errorf("WATCH_VIDEOS: invalid bool %q", v)
		}
		cfg.WatchVideos = b
	}

	return cfg, nil
}
