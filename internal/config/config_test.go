package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	for _, key := range []string{
		"PORT", "WEB_DIR", "SNAPSHOT_PATH", "REDIS_URL", "HISTORY_DAYS",
		"HTTP_TIMEOUT_SECS", "ANALYZER_WORKERS", "REFRESH_POLL_SECS",
		"MARKET_OPEN_TTL_SECS", "MARKET_CLOSED_TTL_SECS", "MARKET_TIMEZONE",
		"OPENAI_API_KEY", "OPENAI_MODEL", "ANOMALY_DAMP_ENABLED",
		"ANOMALY_THRESHOLD", "ANOMALY_TREES",
	} {
		t.Setenv(key, "")
	}

	cfg := Load()

	if cfg.Port != "8080" {
		t.Fatalf("unexpected port: %s", cfg.Port)
	}
	if cfg.SnapshotPath != "data/stock_analysis.json" {
		t.Fatalf("unexpected snapshot path: %s", cfg.SnapshotPath)
	}
	if cfg.HistoryDays != 60 {
		t.Fatalf("unexpected history days: %d", cfg.HistoryDays)
	}
	if cfg.HTTPTimeout != 15*time.Second {
		t.Fatalf("unexpected timeout: %s", cfg.HTTPTimeout)
	}
	if cfg.AnalyzerWorkers != 4 {
		t.Fatalf("unexpected workers: %d", cfg.AnalyzerWorkers)
	}
	if cfg.MarketOpenTTL != 5*time.Minute || cfg.MarketClosedTTL != 30*time.Minute {
		t.Fatalf("unexpected TTLs: %s/%s", cfg.MarketOpenTTL, cfg.MarketClosedTTL)
	}
	if cfg.MarketTimezone != "America/New_York" {
		t.Fatalf("unexpected timezone: %s", cfg.MarketTimezone)
	}
	if !cfg.AnomalyDampEnabled {
		t.Fatal("expected anomaly damping on by default")
	}
	if cfg.AnomalyThreshold != 0.62 {
		t.Fatalf("unexpected anomaly threshold: %f", cfg.AnomalyThreshold)
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("HISTORY_DAYS", "90")
	t.Setenv("ANOMALY_DAMP_ENABLED", "false")
	t.Setenv("ANOMALY_THRESHOLD", "0.8")
	t.Setenv("REDIS_URL", "redis://localhost:6379")

	cfg := Load()

	if cfg.Port != "9090" {
		t.Fatalf("unexpected port: %s", cfg.Port)
	}
	if cfg.HistoryDays != 90 {
		t.Fatalf("unexpected history days: %d", cfg.HistoryDays)
	}
	if cfg.AnomalyDampEnabled {
		t.Fatal("expected anomaly damping disabled by override")
	}
	if cfg.AnomalyThreshold != 0.8 {
		t.Fatalf("unexpected threshold: %f", cfg.AnomalyThreshold)
	}
	if cfg.RedisURL != "redis://localhost:6379" {
		t.Fatalf("unexpected redis url: %s", cfg.RedisURL)
	}
}

func TestLoadMalformedFallsBack(t *testing.T) {
	t.Setenv("HISTORY_DAYS", "ninety")
	t.Setenv("ANOMALY_THRESHOLD", "very high")
	t.Setenv("ANOMALY_DAMP_ENABLED", "yep")

	cfg := Load()

	if cfg.HistoryDays != 60 {
		t.Fatalf("expected fallback history days, got %d", cfg.HistoryDays)
	}
	if cfg.AnomalyThreshold != 0.62 {
		t.Fatalf("expected fallback threshold, got %f", cfg.AnomalyThreshold)
	}
	if !cfg.AnomalyDampEnabled {
		t.Fatal("expected fallback for malformed bool")
	}
}

func TestMarketOpen(t *testing.T) {
	cfg := &Config{MarketTimezone: "America/New_York"}
	loc, err := time.LoadLocation("America/New_York")
	if err != nil {
		t.Skip("tzdata unavailable")
	}

	cases := []struct {
		name string
		at   time.Time
		want bool
	}{
		{"tuesday mid-session", time.Date(2026, 8, 25, 12, 0, 0, 0, loc), true},
		{"tuesday open bell", time.Date(2026, 8, 25, 9, 30, 0, 0, loc), true},
		{"tuesday pre-market", time.Date(2026, 8, 25, 9, 29, 0, 0, loc), false},
		{"tuesday close bell", time.Date(2026, 8, 25, 16, 0, 0, 0, loc), false},
		{"saturday", time.Date(2026, 8, 29, 12, 0, 0, 0, loc), false},
		{"sunday", time.Date(2026, 8, 30, 12, 0, 0, 0, loc), false},
	}
	for _, tc := range cases {
		if got := cfg.MarketOpen(tc.at); got != tc.want {
			t.Fatalf("%s: expected %v, got %v", tc.name, tc.want, got)
		}
	}
}

func TestMarketOpenConvertsTimezone(t *testing.T) {
	cfg := &Config{MarketTimezone: "America/New_York"}
	// 18:00 UTC on a Tuesday in August is 14:00 in New York.
	at := time.Date(2026, 8, 25, 18, 0, 0, 0, time.UTC)
	if !cfg.MarketOpen(at) {
		t.Fatal("expected market open for 14:00 New York time")
	}
}

func TestMarketOpenBadTimezone(t *testing.T) {
	cfg := &Config{MarketTimezone: "Not/AZone"}
	if cfg.MarketOpen(time.Now()) {
		t.Fatal("expected closed for unknown timezone")
	}
}
