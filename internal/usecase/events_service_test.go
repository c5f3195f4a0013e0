package usecase

import (
	"context"
	"testing"
)

func TestEventsServiceRefresh(t *testing.T) {
	t.Parallel()

	api := &stubAPI{
		eventsInSeasonFn: func(ctx context.Context, season int, tour string) ([]map[string]any, error) {
			if season != 2025 {
				t.Errorf("unexpected season %d", season)
			}
			switch tour {
			case "main":
				return []map[string]any{
					{"ID": float64(902), "Name": "UK Championship", "City": "York", "Venue": "Barbican", "Type": "Ranking", "StartDate": "2026-11-20", "EndDate": "2026-12-01"},
					{"EventID": float64(901), "EventName": "Shanghai Masters", "Start": "2026-09-01", "End": "2026-09-07"},
					{"Name": "No ID Open"},
				}, nil
			case "q":
				return []map[string]any{
					{"EID": float64(902), "Name": "UK Championship Qualifiers"},
				}, nil
			default:
				t.Errorf("unexpected tour %q", tour)
				return nil, nil
			}
		},
	}

	seasons := stubSeasonSource{payload: map[string]any{"Season": float64(2025)}, ok: true}
	svc := NewEventsService(api, seasons, []string{"main", "q"}, nil)

	got, err := svc.Refresh(context.Background())
	if err != nil {
		t.Fatalf("refresh: %v", err)
	}

	if got.Season != 2025 {
		t.Fatalf("unexpected season %d", got.Season)
	}
	if got.Count != 2 {
		t.Fatalf("expected rows without parseable IDs dropped and duplicates merged, got %d", got.Count)
	}
	if got.Events[0].ID != 901 || got.Events[1].ID != 902 {
		t.Fatalf("expected events sorted by ID, got %+v", got.Events)
	}
	if got.Events[0].Name != "Shanghai Masters" || got.Events[0].StartDate != "2026-09-01" {
		t.Fatalf("expected alternate field names honored, got %+v", got.Events[0])
	}
	if got.ByID[902].Name != "UK Championship Qualifiers" {
		t.Fatalf("expected last write to win for duplicate ID, got %q", got.ByID[902].Name)
	}
}

func TestEventsServiceNoTourFilter(t *testing.T) {
	t.Parallel()

	var gotTours []string
	api := &stubAPI{
		eventsInSeasonFn: func(ctx context.Context, season int, tour string) ([]map[string]any, error) {
			gotTours = append(gotTours, tour)
			return []map[string]any{{"ID": float64(1), "Name": "Open"}}, nil
		},
	}

	seasons := stubSeasonSource{payload: map[string]any{"Season": float64(2025)}, ok: true}
	svc := NewEventsService(api, seasons, nil, nil)

	got, err := svc.Refresh(context.Background())
	if err != nil {
		t.Fatalf("refresh: %v", err)
	}
	if len(gotTours) != 1 || gotTours[0] != "" {
		t.Fatalf("expected single unfiltered fetch, got %v", gotTours)
	}
	if got.Count != 1 {
		t.Fatalf("unexpected count %d", got.Count)
	}
}

func TestEventsServiceFetchError(t *testing.T) {
	t.Parallel()

	svc := NewEventsService(&stubAPI{}, stubSeasonSource{payload: map[string]any{"Season": float64(2025)}, ok: true}, []string{"main"}, nil)
	if _, err := svc.Refresh(context.Background()); err == nil {
		t.Fatal("expected fetch error to propagate")
	}
}
