package usecase

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/riskibarqy/snooker-stats/external/snookerorg"
	"github.com/riskibarqy/snooker-stats/internal/domain/playercache"
	"github.com/riskibarqy/snooker-stats/internal/platform/logging"
)

const (
	fullRefreshMaxAge   = 30 * 24 * time.Hour
	fullRefreshTopCount = 100

	defaultFullRefreshDelay = 5 * time.Second
	defaultBackfillDelay    = time.Second
)

type PlayerCacheServiceConfig struct {
	API  SnookerAPI
	Repo playercache.Repository
	// FullRefreshDelay paces the per-player fetches of a full refresh.
	FullRefreshDelay time.Duration
	// BackfillDelay paces incremental fetches of players discovered in
	// match payloads.
	BackfillDelay time.Duration
	Logger        *logging.Logger
	Now           func() time.Time
}

// PlayerCacheService owns the player-ID-to-name cache. It serves lookups
// from memory and persists every mutation through the repository. All
// mutating paths take the same mutex; concurrent pollers backfilling at the
// same time must not lose each other's writes.
type PlayerCacheService struct {
	api              SnookerAPI
	repo             playercache.Repository
	fullRefreshDelay time.Duration
	backfillDelay    time.Duration
	logger           *logging.Logger
	now              func() time.Time

	mu    sync.Mutex
	cache playercache.Cache
}

func NewPlayerCacheService(cfg PlayerCacheServiceConfig) *PlayerCacheService {
	logger := cfg.Logger
	if logger == nil {
		logger = logging.Default()
	}
	now := cfg.Now
	if now == nil {
		now = time.Now
	}
	fullDelay := cfg.FullRefreshDelay
	if fullDelay <= 0 {
		fullDelay = defaultFullRefreshDelay
	}
	backfillDelay := cfg.BackfillDelay
	if backfillDelay <= 0 {
		backfillDelay = defaultBackfillDelay
	}

	return &PlayerCacheService{
		api:              cfg.API,
		repo:             cfg.Repo,
		fullRefreshDelay: fullDelay,
		backfillDelay:    backfillDelay,
		logger:           logger,
		now:              now,
		cache:            playercache.New(),
	}
}

// Load hydrates the in-memory cache from the repository. Call once at
// startup before any poller runs.
func (s *PlayerCacheService) Load(ctx context.Context) error {
	cache, err := s.repo.Load(ctx)
	if err != nil {
		return fmt.Errorf("load player cache: %w", err)
	}

	s.mu.Lock()
	s.cache = cache
	players := len(cache.Players)
	s.mu.Unlock()

	s.logger.InfoContext(ctx, "player cache loaded",
		"players", players,
		"last_refreshed", cache.LastRefreshed,
	)
	return nil
}

// Lookup returns the cached name for a player ID.
func (s *PlayerCacheService) Lookup(playerID int) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	name, ok := s.cache.Players[playerID]
	return name, ok
}

// DisplayName resolves a player ID to a name for presentation: the cached
// name, a "#<id>" placeholder for an unknown player, or "TBD" when the
// fixture has no player assigned yet.
func (s *PlayerCacheService) DisplayName(playerID int) string {
	if playerID == 0 {
		return "TBD"
	}
	if name, ok := s.Lookup(playerID); ok {
		return name
	}
	return fmt.Sprintf("#%d", playerID)
}

// Missing returns the sorted subset of playerIDs not yet cached, ignoring
// zero IDs.
func (s *PlayerCacheService) Missing(playerIDs []int) []int {
	s.mu.Lock()
	defer s.mu.Unlock()

	seen := make(map[int]struct{}, len(playerIDs))
	out := make([]int, 0, len(playerIDs))
	for _, id := range playerIDs {
		if id == 0 {
			continue
		}
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		if _, ok := s.cache.Players[id]; !ok {
			out = append(out, id)
		}
	}
	sort.Ints(out)
	return out
}

// Size returns the number of cached players.
func (s *PlayerCacheService) Size() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.cache.Players)
}

// Snapshot returns a copy of the current cache state.
func (s *PlayerCacheService) Snapshot() playercache.Cache {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cache.Clone()
}

// RefreshIfDue runs a full refresh when the cache has never been refreshed
// or its last refresh is at least thirty days old. Otherwise it is a no-op.
func (s *PlayerCacheService) RefreshIfDue(ctx context.Context) error {
	s.mu.Lock()
	due := s.cache.RefreshDue(s.now(), fullRefreshMaxAge)
	last := s.cache.LastRefreshed
	s.mu.Unlock()

	if !due {
		s.logger.DebugContext(ctx, "player cache refresh not due", "last_refreshed", last)
		return nil
	}
	return s.FullRefresh(ctx)
}

// FullRefresh rebuilds the cache from the top of the current money ranking:
// it resolves the season, takes the top hundred ranked player IDs, and
// fetches each player on a slow pace. Names already cached for players
// outside the top hundred are kept.
func (s *PlayerCacheService) FullRefresh(ctx context.Context) error {
	ctx, span := startUsecaseSpan(ctx, "PlayerCacheService.FullRefresh")
	defer span.End()

	seasonPayload, err := s.api.CurrentSeason(ctx)
	if err != nil {
		return fmt.Errorf("fetch current season: %w", err)
	}
	season, err := snookerorg.ExtractSeason(seasonPayload)
	if err != nil {
		return fmt.Errorf("resolve season for cache refresh: %w", err)
	}

	rankings, err := s.api.Rankings(ctx, season, snookerorg.RankingMoney)
	if err != nil {
		return fmt.Errorf("fetch money rankings: %w", err)
	}

	rows := rankings
	if len(rows) > fullRefreshTopCount {
		rows = rows[:fullRefreshTopCount]
	}
	playerIDs := make([]int, 0, len(rows))
	for _, row := range rows {
		if id, ok := snookerorg.IntField(row, "PlayerID", "ID"); ok {
			playerIDs = append(playerIDs, id)
		}
	}

	s.logger.InfoContext(ctx, "player cache full refresh started",
		"season", season,
		"players", len(playerIDs),
		"delay", s.fullRefreshDelay,
	)

	payloads, err := s.api.PacedPlayerFetch(ctx, playerIDs, s.fullRefreshDelay)
	if err != nil {
		return fmt.Errorf("paced player fetch: %w", err)
	}

	refreshedAt := s.now().UTC()
	s.mu.Lock()
	for id, payload := range payloads {
		s.cache.Players[id] = snookerorg.PlayerDisplayName(payload)
	}
	s.cache.LastRefreshed = &refreshedAt
	snapshot := s.cache.Clone()
	s.mu.Unlock()

	if err := s.repo.Save(ctx, snapshot); err != nil {
		return fmt.Errorf("persist player cache: %w", err)
	}

	s.logger.InfoContext(ctx, "player cache full refresh complete",
		"updated", len(payloads),
		"total_cached", len(snapshot.Players),
	)
	return nil
}

// Backfill fetches and caches the given players on a fast pace. Unlike a
// full refresh it never touches LastRefreshed; it exists so match payloads
// referencing uncached players get names without waiting a month. Returns
// how many entries were added or updated.
func (s *PlayerCacheService) Backfill(ctx context.Context, playerIDs []int) (int, error) {
	missing := s.Missing(playerIDs)
	if len(missing) == 0 {
		return 0, nil
	}

	s.logger.DebugContext(ctx, "player cache backfill started", "players", len(missing))

	payloads, err := s.api.PacedPlayerFetch(ctx, missing, s.backfillDelay)
	if err != nil {
		return 0, fmt.Errorf("backfill player fetch: %w", err)
	}

	s.mu.Lock()
	for id, payload := range payloads {
		s.cache.Players[id] = snookerorg.PlayerDisplayName(payload)
	}
	snapshot := s.cache.Clone()
	s.mu.Unlock()

	if err := s.repo.Save(ctx, snapshot); err != nil {
		return 0, fmt.Errorf("persist player cache: %w", err)
	}

	s.logger.DebugContext(ctx, "player cache backfill complete",
		"added_or_updated", len(payloads),
		"total_cached", len(snapshot.Players),
	)
	return len(payloads), nil
}
