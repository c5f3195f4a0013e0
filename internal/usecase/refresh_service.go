package usecase

import (
	"context"
	"fmt"
	"strings"

	"github.com/riskibarqy/snooker-stats/internal/platform/logging"
)

// Refresh targets accepted by the manual refresh operation.
const (
	RefreshTargetSeason   = "season"
	RefreshTargetRankings = "rankings"
	RefreshTargetUpcoming = "upcoming"
	RefreshTargetEvents   = "events"
	RefreshTargetScores   = "scores"
	RefreshTargetAll      = "all"
)

// Refresher is the poller surface the refresh coordinator drives.
type Refresher interface {
	Name() string
	RequestRefresh(ctx context.Context) error
}

// RefreshService triggers out-of-schedule poller refreshes. A target names
// one poller or all of them; the result counts how many refreshed
// successfully so callers can tell a no-op from real work.
type RefreshService struct {
	season   Refresher
	rankings Refresher
	upcoming Refresher
	events   Refresher
	scores   Refresher
	logger   *logging.Logger
}

func NewRefreshService(season, rankings, upcoming, events, scores Refresher, logger *logging.Logger) *RefreshService {
	if logger == nil {
		logger = logging.Default()
	}
	return &RefreshService{
		season:   season,
		rankings: rankings,
		upcoming: upcoming,
		events:   events,
		scores:   scores,
		logger:   logger,
	}
}

// Refresh runs the pollers the target selects and returns how many
// succeeded. Individual poller failures are logged, not returned; one
// broken feed must not block refreshing the others.
func (s *RefreshService) Refresh(ctx context.Context, target string) (int, error) {
	ctx, span := startUsecaseSpan(ctx, "RefreshService.Refresh")
	defer span.End()

	var selected []Refresher
	switch strings.ToLower(strings.TrimSpace(target)) {
	case RefreshTargetSeason:
		selected = []Refresher{s.season}
	case RefreshTargetRankings:
		selected = []Refresher{s.rankings}
	case RefreshTargetUpcoming:
		selected = []Refresher{s.upcoming}
	case RefreshTargetEvents:
		selected = []Refresher{s.events}
	case RefreshTargetScores:
		selected = []Refresher{s.scores}
	case RefreshTargetAll:
		selected = []Refresher{s.season, s.rankings, s.upcoming, s.events, s.scores}
	default:
		return 0, fmt.Errorf("%w: unknown refresh target %q", ErrInvalidInput, target)
	}

	refreshed := 0
	for _, r := range selected {
		if r == nil {
			continue
		}
		if err := r.RequestRefresh(ctx); err != nil {
			s.logger.WarnContext(ctx, "manual refresh failed", "poller", r.Name(), "error", err)
			continue
		}
		refreshed++
	}

	if refreshed == 0 {
		s.logger.WarnContext(ctx, "manual refresh completed with no successful refreshes", "target", target)
	} else {
		s.logger.InfoContext(ctx, "manual refresh completed", "target", target, "refreshed", refreshed)
	}
	return refreshed, nil
}
