// Package config loads application configuration from environment
// variables with defaults and validation. A .env file is honored when
// present so local runs don't need exported variables.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all configuration values for the bot process.
type Config struct {
	// Transport
	BotToken string  // BOT_TOKEN
	AdminIDs []int64 // ADMIN_IDS, comma-separated Telegram user IDs

	// Storage
	DatabasePath string // DATABASE_PATH

	// Logging
	LogLevel  string // LOG_LEVEL: debug|info|warn|error
	LogPretty bool   // LOG_PRETTY: console writer for dev

	// Game settings
	DefaultScores       []string // DEFAULT_SCORES, comma-separated score menu
	MaxScoreLength      int      // MAX_SCORE_LENGTH
	PointsExactScore    int      // POINTS_EXACT_SCORE
	PointsCorrectWinner int      // POINTS_CORRECT_WINNER
	PointsPartialScore  int      // POINTS_PARTIAL_SCORE
	DrawLabel           string   // DRAW_LABEL, winner label for a tied match

	// Caching / display
	WeekCacheTTL    time.Duration // WEEK_CACHE_TTL
	LeaderboardSize int           // LEADERBOARD_SIZE
}

// MustLoad loads the configuration and panics if validation fails.
func MustLoad() Config {
	cfg, err := Load()
	if err != nil {
		panic(err)
	}
	return cfg
}

// Load reads configuration from the environment, applies defaults and
// validates the result. A missing .env file is not an error.
func Load() (Config, error) {
	_ = godotenv.Load()

	cfg := Config{
		BotToken:            os.Getenv("BOT_TOKEN"),
		AdminIDs:            splitIDs(getenv("ADMIN_IDS", "")),
		DatabasePath:        getenv("DATABASE_PATH", "bot.db"),
		LogLevel:            strings.ToLower(getenv("LOG_LEVEL", "info")),
		LogPretty:           getbool("LOG_PRETTY", false),
		DefaultScores:       splitCSV(getenv("DEFAULT_SCORES", "1-0,2-1,3-1,0-0")),
		MaxScoreLength:      getint("MAX_SCORE_LENGTH", 7),
		PointsExactScore:    getint("POINTS_EXACT_SCORE", 5),
		PointsCorrectWinner: getint("POINTS_CORRECT_WINNER", 3),
		PointsPartialScore:  getint("POINTS_PARTIAL_SCORE", 1),
		DrawLabel:           getenv("DRAW_LABEL", "مساوی"),
		WeekCacheTTL:        getdur("WEEK_CACHE_TTL", 300*time.Second),
		LeaderboardSize:     getint("LEADERBOARD_SIZE", 10),
	}

	if cfg.MaxScoreLength < 3 {
		return Config{}, fmt.Errorf("MAX_SCORE_LENGTH too small: %d", cfg.MaxScoreLength)
	}
	if len(cfg.DefaultScores) == 0 {
		return Config{}, errors.New("DEFAULT_SCORES must not be empty")
	}
	if cfg.LeaderboardSize < 1 {
		return Config{}, fmt.Errorf("LEADERBOARD_SIZE must be >= 1, got %d", cfg.LeaderboardSize)
	}
	if cfg.WeekCacheTTL <= 0 {
		return Config{}, fmt.Errorf("WEEK_CACHE_TTL must be positive, got %v", cfg.WeekCacheTTL)
	}

	return cfg, nil
}

// IsAdmin reports whether the given Telegram user ID is on the admin
// allow-list.
func (c Config) IsAdmin(userID int64) bool {
	for _, id := range c.AdminIDs {
		if id == userID {
			return true
		}
	}
	return false
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getint(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}

func getbool(key string, def bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return def
}

func getdur(key string, def time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
		if n, err := strconv.Atoi(v); err == nil {
			return time.Duration(n) * time.Second
		}
	}
	return def
}

func splitCSV(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func splitIDs(s string) []int64 {
	var out []int64
	for _, part := range strings.Split(s, ",") {
		p := strings.TrimSpace(part)
		if p == "" {
			continue
		}
		if id, err := strconv.ParseInt(p, 10, 64); err == nil {
			out = append(out, id)
		}
	}
	return out
}
