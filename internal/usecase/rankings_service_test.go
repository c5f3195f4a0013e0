package usecase

import (
	"context"
	"testing"
	"time"

	"github.com/riskibarqy/snooker-stats/external/snookerorg"
)

func TestRankingsServiceRefresh(t *testing.T) {
	t.Parallel()

	rows := make([]map[string]any, 12)
	for i := range rows {
		rows[i] = map[string]any{"PlayerID": float64(i + 1), "Position": float64(i + 1), "Sum": float64(1000 - i)}
	}

	var gotTypes []string
	api := &stubAPI{
		rankingsFn: func(ctx context.Context, season int, rankingType string) ([]map[string]any, error) {
			if season != 2025 {
				t.Errorf("unexpected season %d", season)
			}
			gotTypes = append(gotTypes, rankingType)
			return rows, nil
		},
	}

	repo := newMemCacheRepo()
	repo.cache.Players[1] = "Judd Trump"

	cache := newTestCacheService(api, repo, time.Now)
	if err := cache.Load(context.Background()); err != nil {
		t.Fatalf("load cache: %v", err)
	}

	seasons := stubSeasonSource{payload: map[string]any{"Season": float64(2025)}, ok: true}
	svc := NewRankingsService(api, cache, seasons, nil)

	table, err := svc.Refresh(context.Background())
	if err != nil {
		t.Fatalf("refresh: %v", err)
	}

	if table.Season != 2025 {
		t.Fatalf("unexpected season %d", table.Season)
	}
	if len(gotTypes) != 2 || gotTypes[0] != snookerorg.RankingMoney || gotTypes[1] != snookerorg.RankingOneYearMoney {
		t.Fatalf("unexpected ranking types fetched: %v", gotTypes)
	}
	if len(table.Top10Money) != 10 {
		t.Fatalf("expected top 10, got %d", len(table.Top10Money))
	}
	if table.Top10Money[0]["PlayerName"] != "Judd Trump" {
		t.Fatalf("expected cached name, got %v", table.Top10Money[0]["PlayerName"])
	}
	if table.Top10Money[1]["PlayerName"] != "#2" {
		t.Fatalf("expected placeholder for uncached player, got %v", table.Top10Money[1]["PlayerName"])
	}
	if table.Top10Money[0]["Sum"] != float64(1000) {
		t.Fatal("expected raw row fields passed through")
	}
}

func TestRankingsServiceFallsBackToDirectSeasonFetch(t *testing.T) {
	t.Parallel()

	seasonCalls := 0
	api := &stubAPI{
		currentSeasonFn: func(ctx context.Context) (map[string]any, error) {
			seasonCalls++
			return map[string]any{"CurrentSeason": "2024"}, nil
		},
		rankingsFn: func(ctx context.Context, season int, rankingType string) ([]map[string]any, error) {
			if season != 2024 {
				t.Errorf("unexpected season %d", season)
			}
			return nil, nil
		},
	}

	cache := newTestCacheService(api, newMemCacheRepo(), time.Now)
	svc := NewRankingsService(api, cache, stubSeasonSource{ok: false}, nil)

	table, err := svc.Refresh(context.Background())
	if err != nil {
		t.Fatalf("refresh: %v", err)
	}
	if seasonCalls != 1 {
		t.Fatalf("expected one direct season fetch, got %d", seasonCalls)
	}
	if table.Season != 2024 {
		t.Fatalf("unexpected season %d", table.Season)
	}
}

func TestRankingsServiceSeasonExtractionFailure(t *testing.T) {
	t.Parallel()

	api := &stubAPI{}
	cache := newTestCacheService(api, newMemCacheRepo(), time.Now)
	seasons := stubSeasonSource{payload: map[string]any{"Nothing": "useful"}, ok: true}

	if _, err := NewRankingsService(api, cache, seasons, nil).Refresh(context.Background()); err == nil {
		t.Fatal("expected season extraction error")
	}
}
