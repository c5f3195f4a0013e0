package usecase

import (
	"context"
	"time"

	"github.com/riskibarqy/snooker-stats/internal/domain/event"
)

// SnookerAPI is the provider surface the services consume. Payloads stay as
// raw maps; the provider's field names vary enough that each service picks
// the candidates it needs.
type SnookerAPI interface {
	CurrentSeason(ctx context.Context) (map[string]any, error)
	Rankings(ctx context.Context, season int, rankingType string) ([]map[string]any, error)
	UpcomingMatches(ctx context.Context, tour string) ([]map[string]any, error)
	EventsInSeason(ctx context.Context, season int, tour string) ([]map[string]any, error)
	CurrentMatches(ctx context.Context, tour string) ([]map[string]any, error)
	MatchesOfEvent(ctx context.Context, eventID int) ([]map[string]any, error)
	Player(ctx context.Context, playerID int) (map[string]any, error)
	PacedPlayerFetch(ctx context.Context, playerIDs []int, delay time.Duration) (map[int]map[string]any, error)
}

// SeasonSource exposes the season poller's last good payload. Services that
// need the season prefer it over an extra API round trip.
type SeasonSource interface {
	Snapshot() (map[string]any, bool)
}

// EventSource exposes the events poller's last good snapshot for joining
// event metadata onto live matches.
type EventSource interface {
	Snapshot() (event.SeasonEvents, bool)
}
