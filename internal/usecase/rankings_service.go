package usecase

import (
	"context"
	"fmt"

	"github.com/riskibarqy/snooker-stats/external/snookerorg"
	"github.com/riskibarqy/snooker-stats/internal/domain/ranking"
	"github.com/riskibarqy/snooker-stats/internal/platform/logging"
)

const rankingsTopCount = 10

// RankingsService fetches both money ranking tables and decorates the top
// rows with player names from the cache. It only reads the cache; unknown
// players show as "#<id>" until a cache refresh catches up.
type RankingsService struct {
	api     SnookerAPI
	cache   *PlayerCacheService
	seasons SeasonSource
	logger  *logging.Logger
}

func NewRankingsService(api SnookerAPI, cache *PlayerCacheService, seasons SeasonSource, logger *logging.Logger) *RankingsService {
	if logger == nil {
		logger = logging.Default()
	}
	return &RankingsService{api: api, cache: cache, seasons: seasons, logger: logger}
}

func (s *RankingsService) Refresh(ctx context.Context) (ranking.Table, error) {
	ctx, span := startUsecaseSpan(ctx, "RankingsService.Refresh")
	defer span.End()

	seasonPayload, err := seasonFor(ctx, s.seasons, s.api)
	if err != nil {
		return ranking.Table{}, err
	}
	season, err := snookerorg.ExtractSeason(seasonPayload)
	if err != nil {
		return ranking.Table{}, fmt.Errorf("resolve season for rankings: %w", err)
	}

	money, err := s.api.Rankings(ctx, season, snookerorg.RankingMoney)
	if err != nil {
		return ranking.Table{}, fmt.Errorf("fetch money rankings: %w", err)
	}
	oneYear, err := s.api.Rankings(ctx, season, snookerorg.RankingOneYearMoney)
	if err != nil {
		return ranking.Table{}, fmt.Errorf("fetch one-year money rankings: %w", err)
	}

	table := ranking.Table{
		Season:            season,
		Top10Money:        s.decorate(money),
		Top10OneYearMoney: s.decorate(oneYear),
	}

	s.logger.DebugContext(ctx, "rankings refreshed",
		"season", season,
		"top10_money", len(table.Top10Money),
		"top10_one_year", len(table.Top10OneYearMoney),
	)
	return table, nil
}

func (s *RankingsService) decorate(rows []map[string]any) []ranking.Row {
	if len(rows) > rankingsTopCount {
		rows = rows[:rankingsTopCount]
	}

	out := make([]ranking.Row, 0, len(rows))
	for _, raw := range rows {
		playerID, _ := snookerorg.IntField(raw, "PlayerID", "ID")

		row := make(ranking.Row, len(raw)+1)
		for key, value := range raw {
			row[key] = value
		}
		if name, ok := s.cache.Lookup(playerID); ok {
			row["PlayerName"] = name
		} else {
			row["PlayerName"] = fmt.Sprintf("#%d", playerID)
		}
		out = append(out, row)
	}
	return out
}
