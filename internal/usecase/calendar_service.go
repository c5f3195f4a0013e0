package usecase

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/riskibarqy/snooker-stats/external/snookerorg"
	"github.com/riskibarqy/snooker-stats/internal/domain/match"
	"github.com/riskibarqy/snooker-stats/internal/platform/logging"
)

const calendarDefaultDuration = 2 * time.Hour

// UpcomingSource exposes the upcoming-matches poller's last good snapshot.
type UpcomingSource interface {
	Snapshot() (match.UpcomingList, bool)
}

// CalendarEntry is one fixture rendered as a calendar event.
type CalendarEntry struct {
	Summary     string
	Start       time.Time
	End         time.Time
	Description string
	Location    string
}

// CalendarService renders upcoming fixtures of one tour as calendar
// entries within a time window. It reads the upcoming and events pollers;
// it never calls the API itself.
type CalendarService struct {
	upcoming UpcomingSource
	events   EventSource
	cache    *PlayerCacheService
	logger   *logging.Logger
}

func NewCalendarService(upcoming UpcomingSource, events EventSource, cache *PlayerCacheService, logger *logging.Logger) *CalendarService {
	if logger == nil {
		logger = logging.Default()
	}
	return &CalendarService{upcoming: upcoming, events: events, cache: cache, logger: logger}
}

// Entries lists the fixtures of tour scheduled within [start, end], sorted
// by start time.
func (s *CalendarService) Entries(ctx context.Context, tour string, start, end time.Time) ([]CalendarEntry, error) {
	tour = strings.TrimSpace(tour)
	if !snookerorg.KnownTour(tour) {
		return nil, fmt.Errorf("%w: unknown tour %q", ErrInvalidInput, tour)
	}
	if end.Before(start) {
		return nil, fmt.Errorf("%w: window end precedes start", ErrInvalidInput)
	}

	list, ok := s.upcoming.Snapshot()
	if !ok {
		return nil, fmt.Errorf("%w: upcoming matches", ErrNoData)
	}

	startUTC := start.UTC()
	endUTC := end.UTC()

	entries := make([]CalendarEntry, 0, 16)
	for _, m := range list.Matches {
		if m.Tour != tour {
			continue
		}
		at, ok := parseScheduledDate(m.ScheduledDate)
		if !ok {
			continue
		}
		if at.Before(startUTC) || at.After(endUTC) {
			continue
		}

		entries = append(entries, CalendarEntry{
			Summary:     s.matchSummary(m),
			Start:       at,
			End:         at.Add(calendarDefaultDuration),
			Description: s.eventDescription(m.EventID),
		})
	}

	sort.SliceStable(entries, func(i, j int) bool { return entries[i].Start.Before(entries[j].Start) })

	s.logger.DebugContext(ctx, "calendar entries built", "tour", tour, "count", len(entries))
	return entries, nil
}

func (s *CalendarService) matchSummary(m match.Upcoming) string {
	p1 := "TBD"
	if m.Player1ID != 0 {
		p1 = s.resolveCalendarName(m.Player1ID)
	}
	p2 := "TBD"
	if m.Player2ID != 0 {
		p2 = s.resolveCalendarName(m.Player2ID)
	}
	return p1 + " vs " + p2
}

func (s *CalendarService) resolveCalendarName(playerID int) string {
	if name, ok := s.cache.Lookup(playerID); ok {
		return name
	}
	return fmt.Sprintf("#%d", playerID)
}

func (s *CalendarService) eventDescription(eventID int) string {
	const unknown = "Unknown - Unknown - Unknown - Unknown"
	if eventID == 0 || s.events == nil {
		return unknown
	}
	snapshot, ok := s.events.Snapshot()
	if !ok {
		return unknown
	}
	ev, ok := snapshot.Lookup(eventID)
	if !ok {
		return unknown
	}

	field := func(v string) string {
		if v == "" {
			return "Unknown"
		}
		return v
	}
	return fmt.Sprintf("%s - %s - %s - %s", field(ev.Name), field(ev.Type), field(ev.City), field(ev.Venue))
}

// parseScheduledDate parses the provider's loose date strings. Values like
// "2026-04-18 10:00:00" use a space separator; timezone-naive values are
// taken as UTC.
func parseScheduledDate(raw string) (time.Time, bool) {
	raw = strings.TrimSpace(strings.Replace(raw, " ", "T", 1))
	if raw == "" {
		return time.Time{}, false
	}
	for _, layout := range []string{time.RFC3339, "2006-01-02T15:04:05", "2006-01-02"} {
		if at, err := time.Parse(layout, raw); err == nil {
			return at.UTC(), true
		}
	}
	return time.Time{}, false
}
