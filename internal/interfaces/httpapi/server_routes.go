package httpapi

import "net/http"

func registerSystemRoutes(mux *http.ServeMux, handler *Handler) {
	mux.HandleFunc("GET /healthz", handler.Healthz)
}

func registerDomainRoutes(mux *http.ServeMux, handler *Handler) {
	mux.HandleFunc("GET /v1/season", handler.GetSeason)
	mux.HandleFunc("GET /v1/rankings", handler.GetRankings)
	mux.HandleFunc("GET /v1/matches/upcoming", handler.ListUpcomingMatches)
	mux.HandleFunc("GET /v1/events", handler.ListSeasonEvents)
	mux.HandleFunc("GET /v1/scores", handler.ListMatchScores)
	mux.HandleFunc("GET /v1/players", handler.ListPlayers)
	mux.HandleFunc("POST /v1/refresh", handler.TriggerRefresh)

	if handler.calendar != nil {
		mux.HandleFunc("GET /v1/calendar", handler.GetCalendar)
	}
}
