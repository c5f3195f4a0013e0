package snookerorg

import (
	"strings"
	"testing"
)

func TestExtractSeason(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		payload map[string]any
		want    int
		wantErr bool
	}{
		{
			name:    "season field",
			payload: map[string]any{"Season": float64(2025)},
			want:    2025,
		},
		{
			name:    "candidate order prefers Season over ID",
			payload: map[string]any{"ID": float64(99), "Season": float64(2024)},
			want:    2024,
		},
		{
			name:    "falls back to later candidates",
			payload: map[string]any{"Season": "n/a", "CurrentSeason": "2023"},
			want:    2023,
		},
		{
			name:    "no usable candidate",
			payload: map[string]any{"Something": "else"},
			wantErr: true,
		},
		{
			name:    "empty payload",
			payload: map[string]any{},
			wantErr: true,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			got, err := ExtractSeason(tc.payload)
			if tc.wantErr {
				if err == nil {
					t.Fatal("expected error")
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tc.want {
				t.Fatalf("expected season %d, got %d", tc.want, got)
			}
		})
	}
}

func TestExtractSeasonErrorListsKeys(t *testing.T) {
	t.Parallel()

	_, err := ExtractSeason(map[string]any{"Zeta": 1, "Alpha": 2})
	if err == nil {
		t.Fatal("expected error")
	}
	if !strings.Contains(err.Error(), "[Alpha Zeta]") {
		t.Fatalf("expected sorted payload keys in error, got %q", err.Error())
	}
}

func TestPlayerDisplayName(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		payload map[string]any
		want    string
	}{
		{
			name:    "direct name field",
			payload: map[string]any{"Name": "Judd Trump"},
			want:    "Judd Trump",
		},
		{
			name:    "full name fallback",
			payload: map[string]any{"Name": "", "FullName": "Mark Selby"},
			want:    "Mark Selby",
		},
		{
			name:    "first and last concatenated",
			payload: map[string]any{"FirstName": "Neil", "LastName": "Robertson"},
			want:    "Neil Robertson",
		},
		{
			name:    "last name only",
			payload: map[string]any{"LastName": "Higgins"},
			want:    "Higgins",
		},
		{
			name:    "placeholder from id",
			payload: map[string]any{"ID": float64(237)},
			want:    "Player 237",
		},
		{
			name:    "placeholder without id",
			payload: map[string]any{},
			want:    "Player ?",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			if got := PlayerDisplayName(tc.payload); got != tc.want {
				t.Fatalf("expected %q, got %q", tc.want, got)
			}
		})
	}
}

func TestKnownTour(t *testing.T) {
	t.Parallel()

	for _, code := range []string{TourMain, TourQ, TourSeniors, TourWomen, TourEBSA, TourWSF, TourOther} {
		if !KnownTour(code) {
			t.Fatalf("expected %q to be known", code)
		}
	}
	if KnownTour("pro-am") || KnownTour("") {
		t.Fatal("expected unknown codes to be rejected")
	}
}
