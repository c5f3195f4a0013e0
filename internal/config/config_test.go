package config

import (
	"strings"
	"testing"
	"time"

	"github.com/riskibarqy/snooker-stats/internal/platform/logging"
)

func setRequiredEnv(t *testing.T) {
	t.Helper()
	t.Setenv("SNOOKER_REQUESTED_BY", "snooker-stats-tests")
}

func TestLoadDefaults(t *testing.T) {
	setRequiredEnv(t)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}

	if cfg.AppEnv != EnvDev {
		t.Fatalf("AppEnv=%q want %q", cfg.AppEnv, EnvDev)
	}
	if cfg.HTTPAddr != ":8080" {
		t.Fatalf("HTTPAddr=%q", cfg.HTTPAddr)
	}
	if cfg.SnookerBaseURL != "https://api.snooker.org/" {
		t.Fatalf("SnookerBaseURL=%q", cfg.SnookerBaseURL)
	}
	if cfg.SnookerRequestedBy != "snooker-stats-tests" {
		t.Fatalf("SnookerRequestedBy=%q", cfg.SnookerRequestedBy)
	}
	if cfg.SnookerTimeout != 30*time.Second {
		t.Fatalf("SnookerTimeout=%v", cfg.SnookerTimeout)
	}
	if cfg.SnookerRateLimitWait != 60*time.Second {
		t.Fatalf("SnookerRateLimitWait=%v", cfg.SnookerRateLimitWait)
	}
	if len(cfg.Tours) != 1 || cfg.Tours[0] != "main" {
		t.Fatalf("Tours=%v", cfg.Tours)
	}
	if cfg.SeasonInterval != 24*time.Hour {
		t.Fatalf("SeasonInterval=%v", cfg.SeasonInterval)
	}
	if cfg.RankingsInterval != 168*time.Hour {
		t.Fatalf("RankingsInterval=%v", cfg.RankingsInterval)
	}
	if cfg.ScoresInterval != 5*time.Minute {
		t.Fatalf("ScoresInterval=%v", cfg.ScoresInterval)
	}
	if cfg.PlayerCacheRefreshDelay != 5*time.Second {
		t.Fatalf("PlayerCacheRefreshDelay=%v", cfg.PlayerCacheRefreshDelay)
	}
	if cfg.PlayerCacheBackfillDelay != time.Second {
		t.Fatalf("PlayerCacheBackfillDelay=%v", cfg.PlayerCacheBackfillDelay)
	}
	if cfg.PlayerCachePath != "data/player_cache.json" {
		t.Fatalf("PlayerCachePath=%q", cfg.PlayerCachePath)
	}
	if cfg.CalendarEnabled {
		t.Fatal("CalendarEnabled should default to false")
	}
	if cfg.LogLevel != logging.LevelInfo {
		t.Fatalf("LogLevel=%v", cfg.LogLevel)
	}
	if len(cfg.CORSAllowedOrigins) != 1 || cfg.CORSAllowedOrigins[0] != "*" {
		t.Fatalf("CORSAllowedOrigins=%v", cfg.CORSAllowedOrigins)
	}
}

func TestLoadRequiresRequestedBy(t *testing.T) {
	t.Setenv("SNOOKER_REQUESTED_BY", "  ")

	_, err := Load()
	if err == nil {
		t.Fatal("expected error when SNOOKER_REQUESTED_BY is missing")
	}
	if !strings.Contains(err.Error(), "SNOOKER_REQUESTED_BY") {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestLoadParsesTours(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("SNOOKER_TOURS", "main, women ,seniors")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	want := []string{"main", "women", "seniors"}
	if len(cfg.Tours) != len(want) {
		t.Fatalf("Tours=%v", cfg.Tours)
	}
	for i, tour := range want {
		if cfg.Tours[i] != tour {
			t.Fatalf("Tours[%d]=%q want %q", i, cfg.Tours[i], tour)
		}
	}
}

func TestLoadRejectsUnknownTour(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("SNOOKER_TOURS", "main,galactic")

	_, err := Load()
	if err == nil {
		t.Fatal("expected error for unknown tour")
	}
	if !strings.Contains(err.Error(), "galactic") {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestLoadRejectsNonPositiveInterval(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("SCORES_POLL_INTERVAL", "0s")

	_, err := Load()
	if err == nil {
		t.Fatal("expected error for zero interval")
	}
	if !strings.Contains(err.Error(), "SCORES_POLL_INTERVAL") {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestLoadRejectsInvalidAppEnv(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("APP_ENV", "sandbox")

	_, err := Load()
	if err == nil {
		t.Fatal("expected error for invalid APP_ENV")
	}
}

func TestLoadOverrides(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("APP_ENV", "prod")
	t.Setenv("APP_HTTP_ADDR", ":9090")
	t.Setenv("APP_LOG_LEVEL", "debug")
	t.Setenv("SCORES_POLL_INTERVAL", "30s")
	t.Setenv("CALENDAR_ENABLED", "true")
	t.Setenv("PLAYER_CACHE_PATH", "/tmp/players.json")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.AppEnv != EnvProd {
		t.Fatalf("AppEnv=%q", cfg.AppEnv)
	}
	if cfg.HTTPAddr != ":9090" {
		t.Fatalf("HTTPAddr=%q", cfg.HTTPAddr)
	}
	if cfg.LogLevel != logging.LevelDebug {
		t.Fatalf("LogLevel=%v", cfg.LogLevel)
	}
	if cfg.ScoresInterval != 30*time.Second {
		t.Fatalf("ScoresInterval=%v", cfg.ScoresInterval)
	}
	if !cfg.CalendarEnabled {
		t.Fatal("CalendarEnabled should be true")
	}
	if cfg.PlayerCachePath != "/tmp/players.json" {
		t.Fatalf("PlayerCachePath=%q", cfg.PlayerCachePath)
	}
}

func TestParseLogLevel(t *testing.T) {
	tests := []struct {
		in   string
		want logging.Level
	}{
		{in: "debug", want: logging.LevelDebug},
		{in: "WARN", want: logging.LevelWarn},
		{in: "warning", want: logging.LevelWarn},
		{in: "error", want: logging.LevelError},
		{in: "info", want: logging.LevelInfo},
		{in: "bogus", want: logging.LevelInfo},
	}
	for _, tt := range tests {
		if got := parseLogLevel(tt.in); got != tt.want {
			t.Fatalf("parseLogLevel(%q)=%v want %v", tt.in, got, tt.want)
		}
	}
}
