package httpapi

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	sonic "github.com/bytedance/sonic"
	"github.com/go-playground/validator/v10"
	"github.com/riskibarqy/snooker-stats/external/snookerorg"
	"github.com/riskibarqy/snooker-stats/internal/domain/event"
	"github.com/riskibarqy/snooker-stats/internal/domain/match"
	"github.com/riskibarqy/snooker-stats/internal/domain/ranking"
	"github.com/riskibarqy/snooker-stats/internal/platform/logging"
	"github.com/riskibarqy/snooker-stats/internal/poller"
	"github.com/riskibarqy/snooker-stats/internal/usecase"
)

const calendarDefaultWindow = 365 * 24 * time.Hour

type HandlerConfig struct {
	Season      *poller.Poller[map[string]any]
	Rankings    *poller.Poller[ranking.Table]
	Upcoming    *poller.Poller[match.UpcomingList]
	Events      *poller.Poller[event.SeasonEvents]
	Scores      *poller.Poller[match.ScoreList]
	PlayerCache *usecase.PlayerCacheService
	// Calendar is optional; when nil the calendar route is not registered.
	Calendar *usecase.CalendarService
	Refresh  *usecase.RefreshService
	Logger   *logging.Logger
}

type Handler struct {
	season      *poller.Poller[map[string]any]
	rankings    *poller.Poller[ranking.Table]
	upcoming    *poller.Poller[match.UpcomingList]
	events      *poller.Poller[event.SeasonEvents]
	scores      *poller.Poller[match.ScoreList]
	playerCache *usecase.PlayerCacheService
	calendar    *usecase.CalendarService
	refresh     *usecase.RefreshService
	logger      *logging.Logger
	validator   *validator.Validate
}

func NewHandler(cfg HandlerConfig) *Handler {
	logger := cfg.Logger
	if logger == nil {
		logger = logging.Default()
	}

	return &Handler{
		season:      cfg.Season,
		rankings:    cfg.Rankings,
		upcoming:    cfg.Upcoming,
		events:      cfg.Events,
		scores:      cfg.Scores,
		playerCache: cfg.PlayerCache,
		calendar:    cfg.Calendar,
		refresh:     cfg.Refresh,
		logger:      logger,
		validator:   validator.New(),
	}
}

func (h *Handler) Healthz(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.Healthz")
	defer span.End()

	writeSuccess(ctx, w, http.StatusOK, map[string]string{"status": "ok"})
}

type seasonDTO struct {
	Season    int            `json:"season,omitempty"`
	Payload   map[string]any `json:"payload"`
	FetchedAt time.Time      `json:"fetched_at"`
}

func (h *Handler) GetSeason(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetSeason")
	defer span.End()

	payload, ok := h.season.Snapshot()
	if !ok {
		writeError(ctx, w, fmt.Errorf("%w: current season", usecase.ErrNoData))
		return
	}

	dto := seasonDTO{Payload: payload, FetchedAt: h.season.LastSuccess()}
	if season, err := snookerorg.ExtractSeason(payload); err == nil {
		dto.Season = season
	} else {
		h.logger.WarnContext(ctx, "season payload has no usable season field", "error", err)
	}

	writeSuccess(ctx, w, http.StatusOK, dto)
}

type rankingsDTO struct {
	Season            int           `json:"season"`
	Top10Money        []ranking.Row `json:"top10_money"`
	Top10OneYearMoney []ranking.Row `json:"top10_one_year_money"`
	FetchedAt         time.Time     `json:"fetched_at"`
}

func (h *Handler) GetRankings(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetRankings")
	defer span.End()

	table, ok := h.rankings.Snapshot()
	if !ok {
		writeError(ctx, w, fmt.Errorf("%w: rankings", usecase.ErrNoData))
		return
	}

	writeSuccess(ctx, w, http.StatusOK, rankingsDTO{
		Season:            table.Season,
		Top10Money:        table.Top10Money,
		Top10OneYearMoney: table.Top10OneYearMoney,
		FetchedAt:         h.rankings.LastSuccess(),
	})
}

type upcomingMatchDTO struct {
	Tour          string `json:"Tour"`
	EventID       int    `json:"EventID,omitempty"`
	ScheduledDate string `json:"ScheduledDate"`
	Player1ID     int    `json:"Player1ID,omitempty"`
	Player2ID     int    `json:"Player2ID,omitempty"`
}

type upcomingListDTO struct {
	Count     int                `json:"count"`
	Matches   []upcomingMatchDTO `json:"matches"`
	FetchedAt time.Time          `json:"fetched_at"`
}

func (h *Handler) ListUpcomingMatches(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListUpcomingMatches")
	defer span.End()

	list, ok := h.upcoming.Snapshot()
	if !ok {
		writeError(ctx, w, fmt.Errorf("%w: upcoming matches", usecase.ErrNoData))
		return
	}

	items := make([]upcomingMatchDTO, 0, len(list.Matches))
	for _, m := range list.Matches {
		items = append(items, upcomingMatchDTO{
			Tour:          m.Tour,
			EventID:       m.EventID,
			ScheduledDate: m.ScheduledDate,
			Player1ID:     m.Player1ID,
			Player2ID:     m.Player2ID,
		})
	}

	writeSuccess(ctx, w, http.StatusOK, upcomingListDTO{
		Count:     list.Count,
		Matches:   items,
		FetchedAt: h.upcoming.LastSuccess(),
	})
}

type eventDTO struct {
	ID        int    `json:"ID"`
	Name      string `json:"Name"`
	City      string `json:"City"`
	Venue     string `json:"Venue"`
	Type      string `json:"Type"`
	StartDate string `json:"StartDate"`
	EndDate   string `json:"EndDate"`
}

type seasonEventsDTO struct {
	Season     int              `json:"season"`
	Count      int              `json:"count"`
	Events     []eventDTO       `json:"events"`
	EventsByID map[int]eventDTO `json:"events_by_id"`
	FetchedAt  time.Time        `json:"fetched_at"`
}

func (h *Handler) ListSeasonEvents(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListSeasonEvents")
	defer span.End()

	snapshot, ok := h.events.Snapshot()
	if !ok {
		writeError(ctx, w, fmt.Errorf("%w: season events", usecase.ErrNoData))
		return
	}

	items := make([]eventDTO, 0, len(snapshot.Events))
	byID := make(map[int]eventDTO, len(snapshot.ByID))
	for _, ev := range snapshot.Events {
		dto := eventToDTO(ev)
		items = append(items, dto)
		byID[ev.ID] = dto
	}

	writeSuccess(ctx, w, http.StatusOK, seasonEventsDTO{
		Season:     snapshot.Season,
		Count:      snapshot.Count,
		Events:     items,
		EventsByID: byID,
		FetchedAt:  h.events.LastSuccess(),
	})
}

func eventToDTO(ev event.Event) eventDTO {
	return eventDTO{
		ID:        ev.ID,
		Name:      ev.Name,
		City:      ev.City,
		Venue:     ev.Venue,
		Type:      ev.Type,
		StartDate: ev.StartDate,
		EndDate:   ev.EndDate,
	}
}

type scoreDTO struct {
	MatchID       int    `json:"MatchID"`
	EventID       int    `json:"EventID,omitempty"`
	EventName     string `json:"EventName"`
	EventType     string `json:"EventType"`
	EventCity     string `json:"EventCity"`
	Player1ID     int    `json:"Player1ID,omitempty"`
	Player1Name   string `json:"Player1Name"`
	Score1        int    `json:"Score1"`
	Player2ID     int    `json:"Player2ID,omitempty"`
	Player2Name   string `json:"Player2Name"`
	Score2        int    `json:"Score2"`
	Status        int    `json:"Status"`
	Unfinished    bool   `json:"Unfinished"`
	ScheduledDate string `json:"ScheduledDate"`
	StartDate     string `json:"StartDate"`
	EndDate       string `json:"EndDate"`
}

type scoreListDTO struct {
	Count     int        `json:"count"`
	Matches   []scoreDTO `json:"matches"`
	FetchedAt time.Time  `json:"fetched_at"`
}

func (h *Handler) ListMatchScores(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListMatchScores")
	defer span.End()

	list, ok := h.scores.Snapshot()
	if !ok {
		writeError(ctx, w, fmt.Errorf("%w: match scores", usecase.ErrNoData))
		return
	}

	items := make([]scoreDTO, 0, len(list.Matches))
	for _, m := range list.Matches {
		items = append(items, scoreDTO{
			MatchID:       m.MatchID,
			EventID:       m.EventID,
			EventName:     m.EventName,
			EventType:     m.EventType,
			EventCity:     m.EventCity,
			Player1ID:     m.Player1ID,
			Player1Name:   m.Player1Name,
			Score1:        m.Score1,
			Player2ID:     m.Player2ID,
			Player2Name:   m.Player2Name,
			Score2:        m.Score2,
			Status:        m.Status,
			Unfinished:    m.Unfinished,
			ScheduledDate: m.ScheduledDate,
			StartDate:     m.StartDate,
			EndDate:       m.EndDate,
		})
	}

	writeSuccess(ctx, w, http.StatusOK, scoreListDTO{
		Count:     list.Count,
		Matches:   items,
		FetchedAt: h.scores.LastSuccess(),
	})
}

type playersDTO struct {
	Count         int            `json:"count"`
	Players       map[int]string `json:"players"`
	LastRefreshed *time.Time     `json:"last_refreshed,omitempty"`
}

func (h *Handler) ListPlayers(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListPlayers")
	defer span.End()

	cache := h.playerCache.Snapshot()
	writeSuccess(ctx, w, http.StatusOK, playersDTO{
		Count:         len(cache.Players),
		Players:       cache.Players,
		LastRefreshed: cache.LastRefreshed,
	})
}

type calendarEntryDTO struct {
	Summary     string    `json:"summary"`
	Start       time.Time `json:"start"`
	End         time.Time `json:"end"`
	Description string    `json:"description"`
	Location    string    `json:"location"`
}

func (h *Handler) GetCalendar(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetCalendar")
	defer span.End()

	tour := strings.TrimSpace(r.URL.Query().Get("tour"))
	if tour == "" {
		tour = snookerorg.TourMain
	}

	now := time.Now().UTC()
	start, err := parseQueryTime(r.URL.Query().Get("start"), now)
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	end, err := parseQueryTime(r.URL.Query().Get("end"), start.Add(calendarDefaultWindow))
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	entries, err := h.calendar.Entries(ctx, tour, start, end)
	if err != nil {
		h.logger.WarnContext(ctx, "calendar entries failed", "tour", tour, "error", err)
		writeError(ctx, w, err)
		return
	}

	items := make([]calendarEntryDTO, 0, len(entries))
	for _, e := range entries {
		items = append(items, calendarEntryDTO{
			Summary:     e.Summary,
			Start:       e.Start,
			End:         e.End,
			Description: e.Description,
			Location:    e.Location,
		})
	}

	writeSuccess(ctx, w, http.StatusOK, map[string]any{
		"tour":    tour,
		"count":   len(items),
		"entries": items,
	})
}

func parseQueryTime(raw string, fallback time.Time) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return fallback, nil
	}
	at, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: timestamp %q is not RFC 3339", usecase.ErrInvalidInput, raw)
	}
	return at, nil
}

type refreshRequest struct {
	Target string `json:"target" validate:"required,oneof=season rankings upcoming events scores all"`
}

type refreshResultDTO struct {
	Target    string `json:"target"`
	Refreshed int    `json:"refreshed"`
}

func (h *Handler) TriggerRefresh(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.TriggerRefresh")
	defer span.End()

	var req refreshRequest
	if err := sonic.ConfigDefault.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(ctx, w, fmt.Errorf("%w: malformed request body", usecase.ErrInvalidInput))
		return
	}
	req.Target = strings.ToLower(strings.TrimSpace(req.Target))
	if err := h.validator.StructCtx(ctx, req); err != nil {
		writeError(ctx, w, fmt.Errorf("%w: %v", usecase.ErrInvalidInput, err))
		return
	}

	refreshed, err := h.refresh.Refresh(ctx, req.Target)
	if err != nil {
		h.logger.WarnContext(ctx, "manual refresh request failed", "target", req.Target, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, refreshResultDTO{
		Target:    req.Target,
		Refreshed: refreshed,
	})
}
