package usecase

import (
	"context"
	"fmt"

	"github.com/riskibarqy/snooker-stats/internal/platform/logging"
)

// SeasonService fetches the current-season payload. The payload is kept
// verbatim; consumers extract what they need from it.
type SeasonService struct {
	api    SnookerAPI
	logger *logging.Logger
}

func NewSeasonService(api SnookerAPI, logger *logging.Logger) *SeasonService {
	if logger == nil {
		logger = logging.Default()
	}
	return &SeasonService{api: api, logger: logger}
}

func (s *SeasonService) Refresh(ctx context.Context) (map[string]any, error) {
	ctx, span := startUsecaseSpan(ctx, "SeasonService.Refresh")
	defer span.End()

	payload, err := s.api.CurrentSeason(ctx)
	if err != nil {
		return nil, fmt.Errorf("fetch current season: %w", err)
	}

	s.logger.DebugContext(ctx, "season payload fetched",
		"keys", len(payload),
		"season", payload["Season"],
		"id", payload["ID"],
	)
	return payload, nil
}

// seasonFor resolves the current season number, preferring the season
// poller's last good payload over a fresh API call.
func seasonFor(ctx context.Context, source SeasonSource, api SnookerAPI) (map[string]any, error) {
	if source != nil {
		if payload, ok := source.Snapshot(); ok {
			return payload, nil
		}
	}
	payload, err := api.CurrentSeason(ctx)
	if err != nil {
		return nil, fmt.Errorf("fetch current season: %w", err)
	}
	return payload, nil
}
