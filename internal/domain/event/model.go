package event

// Event is a normalized tournament record for one season.
type Event struct {
	ID        int
	Name      string
	City      string
	Venue     string
	Type      string
	StartDate string
	EndDate   string
}

// SeasonEvents is the deduplicated event set of one season, sorted by ID,
// with a lookup map for joins against live matches.
type SeasonEvents struct {
	Season int
	Count  int
	Events []Event
	ByID   map[int]Event
}

// Lookup returns the event with the given ID, or a zero Event when unknown.
func (s SeasonEvents) Lookup(id int) (Event, bool) {
	ev, ok := s.ByID[id]
	return ev, ok
}
