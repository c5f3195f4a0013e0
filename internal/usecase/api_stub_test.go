package usecase

import (
	"context"
	"sync"
	"time"

	crerr "github.com/cockroachdb/errors"
	"github.com/riskibarqy/snooker-stats/internal/domain/event"
	"github.com/riskibarqy/snooker-stats/internal/domain/match"
	"github.com/riskibarqy/snooker-stats/internal/domain/playercache"
)

type stubAPI struct {
	currentSeasonFn    func(ctx context.Context) (map[string]any, error)
	rankingsFn         func(ctx context.Context, season int, rankingType string) ([]map[string]any, error)
	upcomingMatchesFn  func(ctx context.Context, tour string) ([]map[string]any, error)
	eventsInSeasonFn   func(ctx context.Context, season int, tour string) ([]map[string]any, error)
	currentMatchesFn   func(ctx context.Context, tour string) ([]map[string]any, error)
	matchesOfEventFn   func(ctx context.Context, eventID int) ([]map[string]any, error)
	playerFn           func(ctx context.Context, playerID int) (map[string]any, error)
	pacedPlayerFetchFn func(ctx context.Context, playerIDs []int, delay time.Duration) (map[int]map[string]any, error)
}

func (s *stubAPI) CurrentSeason(ctx context.Context) (map[string]any, error) {
	if s.currentSeasonFn == nil {
		return nil, crerr.New("unexpected CurrentSeason call")
	}
	return s.currentSeasonFn(ctx)
}

func (s *stubAPI) Rankings(ctx context.Context, season int, rankingType string) ([]map[string]any, error) {
	if s.rankingsFn == nil {
		return nil, crerr.New("unexpected Rankings call")
	}
	return s.rankingsFn(ctx, season, rankingType)
}

func (s *stubAPI) UpcomingMatches(ctx context.Context, tour string) ([]map[string]any, error) {
	if s.upcomingMatchesFn == nil {
		return nil, crerr.New("unexpected UpcomingMatches call")
	}
	return s.upcomingMatchesFn(ctx, tour)
}

func (s *stubAPI) EventsInSeason(ctx context.Context, season int, tour string) ([]map[string]any, error) {
	if s.eventsInSeasonFn == nil {
		return nil, crerr.New("unexpected EventsInSeason call")
	}
	return s.eventsInSeasonFn(ctx, season, tour)
}

func (s *stubAPI) CurrentMatches(ctx context.Context, tour string) ([]map[string]any, error) {
	if s.currentMatchesFn == nil {
		return nil, crerr.New("unexpected CurrentMatches call")
	}
	return s.currentMatchesFn(ctx, tour)
}

func (s *stubAPI) MatchesOfEvent(ctx context.Context, eventID int) ([]map[string]any, error) {
	if s.matchesOfEventFn == nil {
		return nil, crerr.New("unexpected MatchesOfEvent call")
	}
	return s.matchesOfEventFn(ctx, eventID)
}

func (s *stubAPI) Player(ctx context.Context, playerID int) (map[string]any, error) {
	if s.playerFn == nil {
		return nil, crerr.New("unexpected Player call")
	}
	return s.playerFn(ctx, playerID)
}

func (s *stubAPI) PacedPlayerFetch(ctx context.Context, playerIDs []int, delay time.Duration) (map[int]map[string]any, error) {
	if s.pacedPlayerFetchFn == nil {
		return nil, crerr.New("unexpected PacedPlayerFetch call")
	}
	return s.pacedPlayerFetchFn(ctx, playerIDs, delay)
}

type memCacheRepo struct {
	mu    sync.Mutex
	cache playercache.Cache
	saves int
	err   error
}

func newMemCacheRepo() *memCacheRepo {
	return &memCacheRepo{cache: playercache.New()}
}

func (r *memCacheRepo) Load(ctx context.Context) (playercache.Cache, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return playercache.Cache{}, r.err
	}
	return r.cache.Clone(), nil
}

func (r *memCacheRepo) Save(ctx context.Context, cache playercache.Cache) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return r.err
	}
	r.cache = cache.Clone()
	r.saves++
	return nil
}

func (r *memCacheRepo) saveCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.saves
}

type stubSeasonSource struct {
	payload map[string]any
	ok      bool
}

func (s stubSeasonSource) Snapshot() (map[string]any, bool) { return s.payload, s.ok }

type stubEventSource struct {
	events event.SeasonEvents
	ok     bool
}

func (s stubEventSource) Snapshot() (event.SeasonEvents, bool) { return s.events, s.ok }

type stubUpcomingSource struct {
	list match.UpcomingList
	ok   bool
}

func (s stubUpcomingSource) Snapshot() (match.UpcomingList, bool) { return s.list, s.ok }

func newTestCacheService(api SnookerAPI, repo playercache.Repository, now func() time.Time) *PlayerCacheService {
	return NewPlayerCacheService(PlayerCacheServiceConfig{
		API:              api,
		Repo:             repo,
		FullRefreshDelay: time.Millisecond,
		BackfillDelay:    time.Millisecond,
		Now:              now,
	})
}
