package match

// Upcoming is a normalized fixture. Player and event IDs are zero when the
// provider row carried no parseable value. Dates stay as provider strings;
// they sort correctly lexicographically and round-trip without timezone
// guesswork.
type Upcoming struct {
	Tour          string
	EventID       int
	ScheduledDate string
	Player1ID     int
	Player2ID     int
}

// UpcomingList is the merged, date-sorted fixture set across tours.
type UpcomingList struct {
	Count   int
	Matches []Upcoming
}

// Score is a normalized live or near-live match with event metadata joined
// in and player names resolved from the cache.
type Score struct {
	MatchID       int
	EventID       int
	EventName     string
	EventType     string
	EventCity     string
	Player1ID     int
	Player1Name   string
	Score1        int
	Player2ID     int
	Player2Name   string
	Score2        int
	Status        int
	Unfinished    bool
	ScheduledDate string
	StartDate     string
	EndDate       string
}

// ScoreList is the merged live-match set across tours, sorted by scheduled
// date then match ID.
type ScoreList struct {
	Count   int
	Matches []Score
}
