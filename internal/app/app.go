package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/panjf2000/ants/v2"

	"github.com/riskibarqy/snooker-stats/external/snookerorg"
	"github.com/riskibarqy/snooker-stats/internal/config"
	"github.com/riskibarqy/snooker-stats/internal/domain/event"
	"github.com/riskibarqy/snooker-stats/internal/domain/match"
	"github.com/riskibarqy/snooker-stats/internal/domain/ranking"
	"github.com/riskibarqy/snooker-stats/internal/infrastructure/repository/file"
	"github.com/riskibarqy/snooker-stats/internal/interfaces/httpapi"
	"github.com/riskibarqy/snooker-stats/internal/observability"
	"github.com/riskibarqy/snooker-stats/internal/platform/logging"
	"github.com/riskibarqy/snooker-stats/internal/poller"
	"github.com/riskibarqy/snooker-stats/internal/usecase"
)

const shutdownTimeout = 10 * time.Second

// App owns the HTTP server, the background pollers and the player name
// cache. Build it with New, then drive it with Run.
type App struct {
	cfg    config.Config
	logger *logging.Logger

	playerCache *usecase.PlayerCacheService

	seasonPoller   *poller.Poller[map[string]any]
	rankingsPoller *poller.Poller[ranking.Table]
	upcomingPoller *poller.Poller[match.UpcomingList]
	eventsPoller   *poller.Poller[event.SeasonEvents]
	scoresPoller   *poller.Poller[match.ScoreList]

	server *http.Server
}

func New(cfg config.Config, logger *logging.Logger) (*App, error) {
	if cfg.HTTPAddr == "" {
		return nil, fmt.Errorf("http server addr cannot be empty")
	}
	if logger == nil {
		logger = logging.Default()
	}

	client := snookerorg.NewClient(snookerorg.ClientConfig{
		BaseURL:       cfg.SnookerBaseURL,
		RequestedBy:   cfg.SnookerRequestedBy,
		Timeout:       cfg.SnookerTimeout,
		RateLimitWait: cfg.SnookerRateLimitWait,
		Logger:        logger,
	})

	cacheRepo := file.NewPlayerCacheRepository(cfg.PlayerCachePath)
	playerCache := usecase.NewPlayerCacheService(usecase.PlayerCacheServiceConfig{
		API:              client,
		Repo:             cacheRepo,
		FullRefreshDelay: cfg.PlayerCacheRefreshDelay,
		BackfillDelay:    cfg.PlayerCacheBackfillDelay,
		Logger:           logger,
	})

	seasonSvc := usecase.NewSeasonService(client, logger)
	seasonPoller := poller.New("season", cfg.SeasonInterval, seasonSvc.Refresh, logger)

	rankingsSvc := usecase.NewRankingsService(client, playerCache, seasonPoller, logger)
	rankingsPoller := poller.New("rankings", cfg.RankingsInterval, rankingsSvc.Refresh, logger)

	upcomingSvc := usecase.NewUpcomingService(client, playerCache, cfg.Tours, logger)
	upcomingPoller := poller.New("upcoming", cfg.UpcomingInterval, upcomingSvc.Refresh, logger)

	eventsSvc := usecase.NewEventsService(client, seasonPoller, cfg.Tours, logger)
	eventsPoller := poller.New("events", cfg.EventsInterval, eventsSvc.Refresh, logger)

	scoresSvc := usecase.NewMatchScoresService(client, playerCache, eventsPoller, cfg.Tours, logger)
	scoresPoller := poller.New("scores", cfg.ScoresInterval, scoresSvc.Refresh, logger)

	refreshSvc := usecase.NewRefreshService(
		seasonPoller,
		rankingsPoller,
		upcomingPoller,
		eventsPoller,
		scoresPoller,
		logger,
	)

	var calendarSvc *usecase.CalendarService
	if cfg.CalendarEnabled {
		calendarSvc = usecase.NewCalendarService(upcomingPoller, eventsPoller, playerCache, logger)
	}

	handler := httpapi.NewHandler(httpapi.HandlerConfig{
		Season:      seasonPoller,
		Rankings:    rankingsPoller,
		Upcoming:    upcomingPoller,
		Events:      eventsPoller,
		Scores:      scoresPoller,
		PlayerCache: playerCache,
		Calendar:    calendarSvc,
		Refresh:     refreshSvc,
		Logger:      logger,
	})
	router := httpapi.NewRouter(handler, logger, cfg.CORSAllowedOrigins)

	server := &http.Server{
		Addr:         cfg.HTTPAddr,
		Handler:      router,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}

	return &App{
		cfg:            cfg,
		logger:         logger,
		playerCache:    playerCache,
		seasonPoller:   seasonPoller,
		rankingsPoller: rankingsPoller,
		upcomingPoller: upcomingPoller,
		eventsPoller:   eventsPoller,
		scoresPoller:   scoresPoller,
		server:         server,
	}, nil
}

// Run blocks until ctx is cancelled or the HTTP server fails. The first
// install has no player names on disk, so the initial full refresh runs
// before the pollers start publishing payloads that reference players.
func (a *App) Run(ctx context.Context) error {
	if err := a.playerCache.Load(ctx); err != nil {
		return err
	}

	coldStart := a.playerCache.Size() == 0
	if coldStart {
		a.logger.InfoContext(ctx, "player cache empty, running full refresh before first poll")
		if err := a.playerCache.FullRefresh(ctx); err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			a.logger.WarnContext(ctx, "startup player refresh failed", "error", err)
		}
	}

	pollCtx, cancelPolls := context.WithCancel(ctx)
	defer cancelPolls()

	runners := []func(context.Context){
		a.seasonPoller.Run,
		a.rankingsPoller.Run,
		a.upcomingPoller.Run,
		a.eventsPoller.Run,
		a.scoresPoller.Run,
	}

	pool, err := ants.NewPool(len(runners)+1, ants.WithPanicHandler(func(r any) {
		a.logger.Error("background worker panicked", "panic", r)
	}))
	if err != nil {
		return fmt.Errorf("create worker pool: %w", err)
	}
	defer pool.Release()

	if !coldStart {
		if err := pool.Submit(func() {
			if err := a.playerCache.RefreshIfDue(pollCtx); err != nil {
				a.logger.WarnContext(pollCtx, "scheduled player refresh failed", "error", err)
			}
		}); err != nil {
			return fmt.Errorf("start player refresh: %w", err)
		}
	}

	for _, run := range runners {
		run := run
		if err := pool.Submit(func() { run(pollCtx) }); err != nil {
			return fmt.Errorf("start poller: %w", err)
		}
	}

	pprofSrv := observability.StartPprofServer(a.cfg.PprofEnabled, a.cfg.PprofAddr, a.logger)
	defer func() {
		if err := observability.StopPprofServer(pprofSrv, a.logger, shutdownTimeout); err != nil {
			a.logger.Warn("pprof shutdown failed", "error", err)
		}
	}()

	serverErr := make(chan error, 1)
	go func() {
		a.logger.Info("http server starting", "addr", a.server.Addr)
		if err := a.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	select {
	case <-ctx.Done():
	case err := <-serverErr:
		return fmt.Errorf("http server failed: %w", err)
	}

	cancelPolls()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := a.server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("graceful shutdown: %w", err)
	}

	a.logger.Info("http server stopped")
	return nil
}
