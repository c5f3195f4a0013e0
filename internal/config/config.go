package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/riskibarqy/snooker-stats/external/snookerorg"
	"github.com/riskibarqy/snooker-stats/internal/platform/logging"
)

// Config stores runtime configuration for the service.
type Config struct {
	AppEnv             string
	ServiceName        string
	ServiceVersion     string
	HTTPAddr           string
	ReadTimeout        time.Duration
	WriteTimeout       time.Duration
	CORSAllowedOrigins []string
	LogLevel           logging.Level

	SnookerBaseURL       string
	SnookerRequestedBy   string
	SnookerTimeout       time.Duration
	SnookerRateLimitWait time.Duration
	Tours                []string

	SeasonInterval   time.Duration
	RankingsInterval time.Duration
	UpcomingInterval time.Duration
	EventsInterval   time.Duration
	ScoresInterval   time.Duration

	PlayerCachePath          string
	PlayerCacheRefreshDelay  time.Duration
	PlayerCacheBackfillDelay time.Duration

	CalendarEnabled bool

	PprofEnabled bool
	PprofAddr    string
}

func Load() (Config, error) {
	appEnv, err := parseAppEnv(getEnv("APP_ENV", EnvDev))
	if err != nil {
		return Config{}, err
	}

	requestedBy := strings.TrimSpace(getEnv("SNOOKER_REQUESTED_BY", ""))
	if requestedBy == "" {
		return Config{}, fmt.Errorf("SNOOKER_REQUESTED_BY is required: the API rejects anonymous clients")
	}

	tours := splitCSV(getEnv("SNOOKER_TOURS", snookerorg.TourMain))
	if len(tours) == 0 {
		return Config{}, fmt.Errorf("SNOOKER_TOURS cannot be empty")
	}
	for _, tour := range tours {
		if !snookerorg.KnownTour(tour) {
			return Config{}, fmt.Errorf("invalid tour %q in SNOOKER_TOURS", tour)
		}
	}

	snookerTimeout, err := time.ParseDuration(getEnv("SNOOKER_TIMEOUT", "30s"))
	if err != nil {
		return Config{}, fmt.Errorf("parse SNOOKER_TIMEOUT: %w", err)
	}
	if snookerTimeout <= 0 {
		return Config{}, fmt.Errorf("SNOOKER_TIMEOUT must be > 0")
	}

	rateLimitWait, err := time.ParseDuration(getEnv("SNOOKER_RATE_LIMIT_WAIT", "60s"))
	if err != nil {
		return Config{}, fmt.Errorf("parse SNOOKER_RATE_LIMIT_WAIT: %w", err)
	}
	if rateLimitWait <= 0 {
		return Config{}, fmt.Errorf("SNOOKER_RATE_LIMIT_WAIT must be > 0")
	}

	seasonInterval, err := parsePositiveDuration("SEASON_POLL_INTERVAL", "24h")
	if err != nil {
		return Config{}, err
	}
	rankingsInterval, err := parsePositiveDuration("RANKINGS_POLL_INTERVAL", "168h")
	if err != nil {
		return Config{}, err
	}
	upcomingInterval, err := parsePositiveDuration("UPCOMING_POLL_INTERVAL", "24h")
	if err != nil {
		return Config{}, err
	}
	eventsInterval, err := parsePositiveDuration("EVENTS_POLL_INTERVAL", "24h")
	if err != nil {
		return Config{}, err
	}
	scoresInterval, err := parsePositiveDuration("SCORES_POLL_INTERVAL", "5m")
	if err != nil {
		return Config{}, err
	}

	refreshDelay, err := parsePositiveDuration("PLAYER_REFRESH_DELAY", "5s")
	if err != nil {
		return Config{}, err
	}
	backfillDelay, err := parsePositiveDuration("PLAYER_BACKFILL_DELAY", "1s")
	if err != nil {
		return Config{}, err
	}

	calendarEnabled, err := strconv.ParseBool(getEnv("CALENDAR_ENABLED", "false"))
	if err != nil {
		return Config{}, fmt.Errorf("parse CALENDAR_ENABLED: %w", err)
	}

	pprofEnabled, err := strconv.ParseBool(getEnv("PPROF_ENABLED", "false"))
	if err != nil {
		return Config{}, fmt.Errorf("parse PPROF_ENABLED: %w", err)
	}

	readTimeout, err := parsePositiveDuration("APP_READ_TIMEOUT", "10s")
	if err != nil {
		return Config{}, err
	}
	writeTimeout, err := parsePositiveDuration("APP_WRITE_TIMEOUT", "15s")
	if err != nil {
		return Config{}, err
	}

	cfg := Config{
		AppEnv:             appEnv,
		ServiceName:        getEnv("APP_SERVICE_NAME", "snooker-stats-api"),
		ServiceVersion:     getEnv("APP_SERVICE_VERSION", "dev"),
		HTTPAddr:           getEnv("APP_HTTP_ADDR", ":8080"),
		ReadTimeout:        readTimeout,
		WriteTimeout:       writeTimeout,
		CORSAllowedOrigins: splitCSV(getEnv("CORS_ALLOWED_ORIGINS", "*")),
		LogLevel:           parseLogLevel(getEnv("APP_LOG_LEVEL", "info")),

		SnookerBaseURL:       strings.TrimSpace(getEnv("SNOOKER_BASE_URL", "https://api.snooker.org/")),
		SnookerRequestedBy:   requestedBy,
		SnookerTimeout:       snookerTimeout,
		SnookerRateLimitWait: rateLimitWait,
		Tours:                tours,

		SeasonInterval:   seasonInterval,
		RankingsInterval: rankingsInterval,
		UpcomingInterval: upcomingInterval,
		EventsInterval:   eventsInterval,
		ScoresInterval:   scoresInterval,

		PlayerCachePath:          strings.TrimSpace(getEnv("PLAYER_CACHE_PATH", "data/player_cache.json")),
		PlayerCacheRefreshDelay:  refreshDelay,
		PlayerCacheBackfillDelay: backfillDelay,

		CalendarEnabled: calendarEnabled,

		PprofEnabled: pprofEnabled,
		PprofAddr:    getEnv("PPROF_ADDR", ":6060"),
	}

	if len(cfg.CORSAllowedOrigins) == 0 {
		return Config{}, fmt.Errorf("CORS_ALLOWED_ORIGINS cannot be empty")
	}
	if cfg.PlayerCachePath == "" {
		return Config{}, fmt.Errorf("PLAYER_CACHE_PATH cannot be empty")
	}

	return cfg, nil
}

func parsePositiveDuration(key, fallback string) (time.Duration, error) {
	out, err := time.ParseDuration(getEnv(key, fallback))
	if err != nil {
		return 0, fmt.Errorf("parse %s: %w", key, err)
	}
	if out <= 0 {
		return 0, fmt.Errorf("%s must be > 0", key)
	}
	return out, nil
}

func parseLogLevel(v string) logging.Level {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "debug":
		return logging.LevelDebug
	case "warn", "warning":
		return logging.LevelWarn
	case "error":
		return logging.LevelError
	default:
		return logging.LevelInfo
	}
}

func getEnv(key, fallback string) string {
	value := os.Getenv(key)
	if strings.TrimSpace(value) == "" {
		return fallback
	}

	return value
}

func splitCSV(v string) []string {
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		item := strings.TrimSpace(part)
		if item == "" {
			continue
		}
		out = append(out, item)
	}

	return out
}

const (
	EnvDev   = "dev"
	EnvStage = "stage"
	EnvProd  = "prod"
)

func parseAppEnv(v string) (string, error) {
	value := strings.ToLower(strings.TrimSpace(v))
	switch value {
	case EnvDev, EnvStage, EnvProd:
		return value, nil
	default:
		return "", fmt.Errorf("invalid APP_ENV %q: valid values are %s, %s, %s", v, EnvDev, EnvStage, EnvProd)
	}
}
