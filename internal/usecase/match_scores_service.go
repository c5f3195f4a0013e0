package usecase

import (
	"context"
	"fmt"
	"sort"

	"github.com/riskibarqy/snooker-stats/external/snookerorg"
	"github.com/riskibarqy/snooker-stats/internal/domain/event"
	"github.com/riskibarqy/snooker-stats/internal/domain/match"
	"github.com/riskibarqy/snooker-stats/internal/platform/logging"
)

// MatchScoresService merges live matches across the configured tours, joins
// event metadata from the events poller, and resolves player names from the
// cache. Players missing from the cache are backfilled within the refresh
// and the already-built rows get their names re-resolved, so the snapshot
// served after a refresh is as complete as the cache allows.
type MatchScoresService struct {
	api    SnookerAPI
	cache  *PlayerCacheService
	events EventSource
	tours  []string
	logger *logging.Logger
}

func NewMatchScoresService(api SnookerAPI, cache *PlayerCacheService, events EventSource, tours []string, logger *logging.Logger) *MatchScoresService {
	if logger == nil {
		logger = logging.Default()
	}
	return &MatchScoresService{api: api, cache: cache, events: events, tours: tours, logger: logger}
}

func (s *MatchScoresService) Refresh(ctx context.Context) (match.ScoreList, error) {
	ctx, span := startUsecaseSpan(ctx, "MatchScoresService.Refresh")
	defer span.End()

	var raw []map[string]any
	for _, tour := range s.tours {
		rows, err := s.api.CurrentMatches(ctx, tour)
		if err != nil {
			return match.ScoreList{}, fmt.Errorf("fetch current matches tour=%s: %w", tour, err)
		}
		s.logger.DebugContext(ctx, "current matches fetched", "tour", tour, "count", len(rows))
		raw = append(raw, rows...)
	}

	var eventsByID map[int]event.Event
	if s.events != nil {
		if snapshot, ok := s.events.Snapshot(); ok {
			eventsByID = snapshot.ByID
		}
	}

	matches := make([]match.Score, 0, len(raw))
	playerIDs := make([]int, 0, len(raw)*2)
	for _, row := range raw {
		p1, _ := snookerorg.IntField(row, "Player1ID")
		p2, _ := snookerorg.IntField(row, "Player2ID")
		eventID, _ := snookerorg.IntField(row, "EventID")
		matchID, _ := snookerorg.IntField(row, "ID")
		score1, _ := snookerorg.IntField(row, "Score1")
		score2, _ := snookerorg.IntField(row, "Score2")
		status, _ := snookerorg.IntField(row, "Status")

		playerIDs = append(playerIDs, p1, p2)
		ev := eventsByID[eventID]

		matches = append(matches, match.Score{
			MatchID:       matchID,
			EventID:       eventID,
			EventName:     ev.Name,
			EventType:     ev.Type,
			EventCity:     ev.City,
			Player1ID:     p1,
			Player1Name:   s.cache.DisplayName(p1),
			Score1:        score1,
			Player2ID:     p2,
			Player2Name:   s.cache.DisplayName(p2),
			Score2:        score2,
			Status:        status,
			Unfinished:    snookerorg.BoolField(row, "Unfinished"),
			ScheduledDate: snookerorg.StringField(row, "ScheduledDate"),
			StartDate:     snookerorg.StringField(row, "StartDate"),
			EndDate:       snookerorg.StringField(row, "EndDate"),
		})
	}

	if added, err := s.cache.Backfill(ctx, playerIDs); err != nil {
		s.logger.WarnContext(ctx, "live match player backfill failed", "error", err)
	} else if added > 0 {
		for i := range matches {
			if matches[i].Player1ID != 0 {
				if name, ok := s.cache.Lookup(matches[i].Player1ID); ok {
					matches[i].Player1Name = name
				}
			}
			if matches[i].Player2ID != 0 {
				if name, ok := s.cache.Lookup(matches[i].Player2ID); ok {
					matches[i].Player2Name = name
				}
			}
		}
	}

	sort.SliceStable(matches, func(i, j int) bool {
		if matches[i].ScheduledDate != matches[j].ScheduledDate {
			return matches[i].ScheduledDate < matches[j].ScheduledDate
		}
		return matches[i].MatchID < matches[j].MatchID
	})

	s.logger.DebugContext(ctx, "current matches normalized", "count", len(matches))
	return match.ScoreList{Count: len(matches), Matches: matches}, nil
}
