package usecase

import (
	"context"
	"fmt"
	"sort"

	"github.com/riskibarqy/snooker-stats/external/snookerorg"
	"github.com/riskibarqy/snooker-stats/internal/domain/match"
	"github.com/riskibarqy/snooker-stats/internal/platform/logging"
)

// UpcomingService merges upcoming fixtures across the configured tours.
// Rows without any scheduled date are dropped; a fixture nobody can place
// in time is useless to every consumer. Players referenced by fixtures but
// absent from the cache are backfilled opportunistically; a backfill
// failure degrades names, not the fixture list.
type UpcomingService struct {
	api    SnookerAPI
	cache  *PlayerCacheService
	tours  []string
	logger *logging.Logger
}

func NewUpcomingService(api SnookerAPI, cache *PlayerCacheService, tours []string, logger *logging.Logger) *UpcomingService {
	if logger == nil {
		logger = logging.Default()
	}
	return &UpcomingService{api: api, cache: cache, tours: tours, logger: logger}
}

func (s *UpcomingService) Refresh(ctx context.Context) (match.UpcomingList, error) {
	ctx, span := startUsecaseSpan(ctx, "UpcomingService.Refresh")
	defer span.End()

	merged := make([]match.Upcoming, 0, 64)
	for _, tour := range s.tours {
		rows, err := s.api.UpcomingMatches(ctx, tour)
		if err != nil {
			return match.UpcomingList{}, fmt.Errorf("fetch upcoming matches tour=%s: %w", tour, err)
		}
		s.logger.DebugContext(ctx, "upcoming matches fetched", "tour", tour, "count", len(rows))

		for _, raw := range rows {
			scheduled := snookerorg.StringField(raw, "ScheduledDate", "StartDate", "Date")
			if scheduled == "" {
				continue
			}
			eventID, _ := snookerorg.IntField(raw, "EventID", "Event", "EID")
			p1, _ := snookerorg.IntField(raw, "Player1ID", "P1", "Player1")
			p2, _ := snookerorg.IntField(raw, "Player2ID", "P2", "Player2")

			merged = append(merged, match.Upcoming{
				Tour:          tour,
				EventID:       eventID,
				ScheduledDate: scheduled,
				Player1ID:     p1,
				Player2ID:     p2,
			})
		}
	}

	playerIDs := make([]int, 0, len(merged)*2)
	for _, m := range merged {
		playerIDs = append(playerIDs, m.Player1ID, m.Player2ID)
	}
	if _, err := s.cache.Backfill(ctx, playerIDs); err != nil {
		s.logger.WarnContext(ctx, "upcoming matches player backfill failed", "error", err)
	}

	sort.SliceStable(merged, func(i, j int) bool {
		return merged[i].ScheduledDate < merged[j].ScheduledDate
	})

	s.logger.DebugContext(ctx, "upcoming matches merged", "total", len(merged))
	return match.UpcomingList{Count: len(merged), Matches: merged}, nil
}
