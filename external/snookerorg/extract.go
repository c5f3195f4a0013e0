package snookerorg

import (
	"sort"
	"strings"

	crerr "github.com/cockroachdb/errors"
)

// Ranking table identifiers accepted by the rt query parameter.
const (
	RankingMoney        = "MoneyRankings"
	RankingOneYearMoney = "OneYearMoneyRankings"
)

// Tour codes accepted by the tr query parameter.
const (
	TourMain    = "main"
	TourQ       = "q"
	TourSeniors = "seniors"
	TourWomen   = "women"
	TourEBSA    = "ebsa"
	TourWSF     = "wsf"
	TourOther   = "other"
)

var knownTours = map[string]struct{}{
	TourMain:    {},
	TourQ:       {},
	TourSeniors: {},
	TourWomen:   {},
	TourEBSA:    {},
	TourWSF:     {},
	TourOther:   {},
}

// KnownTour reports whether code is one of the tour codes the API understands.
func KnownTour(code string) bool {
	_, ok := knownTours[code]
	return ok
}

var seasonCandidateKeys = []string{"Season", "ID", "CurrentSeason", "SeasonID"}

// ExtractSeason pulls the integer season out of a current-season payload.
// The field name varies between deployments, so candidates are tried in
// order and the first integer-parseable one wins. A payload without any
// usable candidate is a hard error: defaulting the season to zero would
// silently corrupt every downstream fetch.
func ExtractSeason(payload map[string]any) (int, error) {
	for _, key := range seasonCandidateKeys {
		raw, ok := payload[key]
		if !ok || raw == nil {
			continue
		}
		if value, ok := parseInt(raw); ok {
			return value, nil
		}
	}

	keys := payloadKeys(payload)
	sort.Strings(keys)
	return 0, crerr.Newf("no usable season value in payload keys=%v", keys)
}

// PlayerDisplayName derives a display name from a raw player payload.
// Field availability varies per player, so direct name fields are tried
// first, then a FirstName/LastName concatenation, then a placeholder
// built from the raw ID field.
func PlayerDisplayName(payload map[string]any) string {
	if name := StringField(payload, "Name", "FullName", "DisplayName"); name != "" {
		return name
	}

	first := StringField(payload, "FirstName")
	last := StringField(payload, "LastName")
	if name := strings.TrimSpace(first + " " + last); name != "" {
		return name
	}

	id := StringField(payload, "ID")
	if id == "" {
		id = "?"
	}
	return "Player " + id
}
