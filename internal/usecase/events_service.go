package usecase

import (
	"context"
	"fmt"
	"sort"

	"github.com/riskibarqy/snooker-stats/external/snookerorg"
	"github.com/riskibarqy/snooker-stats/internal/domain/event"
	"github.com/riskibarqy/snooker-stats/internal/platform/logging"
)

// EventsService fetches the season's events across the configured tours and
// deduplicates them by event ID, last write wins. Rows without a parseable
// ID are dropped.
type EventsService struct {
	api     SnookerAPI
	seasons SeasonSource
	tours   []string
	logger  *logging.Logger
}

func NewEventsService(api SnookerAPI, seasons SeasonSource, tours []string, logger *logging.Logger) *EventsService {
	if logger == nil {
		logger = logging.Default()
	}
	return &EventsService{api: api, seasons: seasons, tours: tours, logger: logger}
}

func (s *EventsService) Refresh(ctx context.Context) (event.SeasonEvents, error) {
	ctx, span := startUsecaseSpan(ctx, "EventsService.Refresh")
	defer span.End()

	seasonPayload, err := seasonFor(ctx, s.seasons, s.api)
	if err != nil {
		return event.SeasonEvents{}, err
	}
	season, err := snookerorg.ExtractSeason(seasonPayload)
	if err != nil {
		return event.SeasonEvents{}, fmt.Errorf("resolve season for events: %w", err)
	}

	var raw []map[string]any
	if len(s.tours) > 0 {
		for _, tour := range s.tours {
			rows, err := s.api.EventsInSeason(ctx, season, tour)
			if err != nil {
				return event.SeasonEvents{}, fmt.Errorf("fetch events season=%d tour=%s: %w", season, tour, err)
			}
			s.logger.DebugContext(ctx, "season events fetched", "tour", tour, "count", len(rows))
			raw = append(raw, rows...)
		}
	} else {
		raw, err = s.api.EventsInSeason(ctx, season, "")
		if err != nil {
			return event.SeasonEvents{}, fmt.Errorf("fetch events season=%d: %w", season, err)
		}
		s.logger.DebugContext(ctx, "season events fetched unfiltered", "count", len(raw))
	}

	byID := make(map[int]event.Event, len(raw))
	for _, row := range raw {
		id, ok := snookerorg.IntField(row, "ID", "EventID", "EID")
		if !ok {
			continue
		}
		byID[id] = event.Event{
			ID:        id,
			Name:      snookerorg.StringField(row, "Name", "EventName"),
			City:      snookerorg.StringField(row, "City"),
			Venue:     snookerorg.StringField(row, "Venue"),
			Type:      snookerorg.StringField(row, "Type"),
			StartDate: snookerorg.StringField(row, "StartDate", "Start"),
			EndDate:   snookerorg.StringField(row, "EndDate", "End"),
		}
	}

	events := make([]event.Event, 0, len(byID))
	for _, ev := range byID {
		events = append(events, ev)
	}
	sort.Slice(events, func(i, j int) bool { return events[i].ID < events[j].ID })

	s.logger.DebugContext(ctx, "season events normalized", "season", season, "count", len(events))
	return event.SeasonEvents{
		Season: season,
		Count:  len(events),
		Events: events,
		ByID:   byID,
	}, nil
}
