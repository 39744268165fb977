package config

import (
	"log"
	"os"
	"strconv"
	"time"
)

// Config holds everything the server reads from the environment. Values are
// loaded once at startup; malformed numbers fall back to their defaults.
type Config struct {
	Port         string
	WebDir       string
	SnapshotPath string
	RedisURL     string

	HistoryDays     int
	HTTPTimeout     time.Duration
	AnalyzerWorkers int

	RefreshPoll     time.Duration
	MarketOpenTTL   time.Duration
	MarketClosedTTL time.Duration
	MarketTimezone  string

	OpenAIAPIKey string
	OpenAIModel  string

	AnomalyDampEnabled bool
	AnomalyThreshold   float64
	AnomalyTrees       int
}

func Load() *Config {
	return &Config{
		Port:         getEnv("PORT", "8080"),
		WebDir:       getEnv("WEB_DIR", "web"),
		SnapshotPath: getEnv("SNAPSHOT_PATH", "data/stock_analysis.json"),
		RedisURL:     os.Getenv("REDIS_URL"),

		HistoryDays:     getEnvInt("HISTORY_DAYS", 60),
		HTTPTimeout:     time.Duration(getEnvInt("HTTP_TIMEOUT_SECS", 15)) * time.Second,
		AnalyzerWorkers: getEnvInt("ANALYZER_WORKERS", 4),

		RefreshPoll:     time.Duration(getEnvInt("REFRESH_POLL_SECS", 3600)) * time.Second,
		MarketOpenTTL:   time.Duration(getEnvInt("MARKET_OPEN_TTL_SECS", 300)) * time.Second,
		MarketClosedTTL: time.Duration(getEnvInt("MARKET_CLOSED_TTL_SECS", 1800)) * time.Second,
		MarketTimezone:  getEnv("MARKET_TIMEZONE", "America/New_York"),

		OpenAIAPIKey: os.Getenv("OPENAI_API_KEY"),
		OpenAIModel:  getEnv("OPENAI_MODEL", "gpt-4o-mini"),

		AnomalyDampEnabled: getEnvBool("ANOMALY_DAMP_ENABLED", true),
		AnomalyThreshold:   getEnvFloat("ANOMALY_THRESHOLD", 0.62),
		AnomalyTrees:       getEnvInt("ANOMALY_TREES", 100),
	}
}

// MarketOpen reports whether US equity markets are in their regular session
// at the given instant: weekdays 9:30 to 16:00 in the configured exchange
// timezone. Holidays are not modeled; a holiday just means one more refresh
// than strictly needed.
func (c *Config) MarketOpen(t time.Time) bool {
	loc, err := time.LoadLocation(c.MarketTimezone)
	if err != nil {
		log.Printf("Warning: invalid MARKET_TIMEZONE %q, assuming market closed: %v", c.MarketTimezone, err)
		return false
	}
	local := t.In(loc)

	switch local.Weekday() {
	case time.Saturday, time.Sunday:
		return false
	}

	minutes := local.Hour()*60 + local.Minute()
	return minutes >= 9*60+30 && minutes < 16*60
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}

func getEnvFloat(key string, fallback float64) float64 {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return fallback
	}
	return f
}

func getEnvBool(key string, fallback bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return fallback
	}
	return b
}
