package playercache

import "time"

// Cache maps player IDs to display names, with the timestamp of the last
// full refresh. A nil LastRefreshed means no full refresh has run yet.
type Cache struct {
	Players       map[int]string
	LastRefreshed *time.Time
}

func New() Cache {
	return Cache{Players: make(map[int]string)}
}

// Clone returns an independent copy so callers can mutate freely.
func (c Cache) Clone() Cache {
	out := Cache{Players: make(map[int]string, len(c.Players))}
	for id, name := range c.Players {
		out.Players[id] = name
	}
	if c.LastRefreshed != nil {
		ts := *c.LastRefreshed
		out.LastRefreshed = &ts
	}
	return out
}

// RefreshDue reports whether a full refresh should run at now. The cache is
// due when it has never been refreshed or when at least maxAge has elapsed.
func (c Cache) RefreshDue(now time.Time, maxAge time.Duration) bool {
	if c.LastRefreshed == nil {
		return true
	}
	return now.Sub(*c.LastRefreshed) >= maxAge
}
