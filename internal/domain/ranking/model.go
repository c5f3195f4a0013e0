package ranking

// Row is a raw provider ranking row passed through as-is, decorated with a
// resolved PlayerName key. The provider's row schema varies per ranking
// type, so the raw fields are kept instead of forcing a struct shape.
type Row map[string]any

// Table holds the top slices of both money ranking tables for one season.
type Table struct {
	Season            int
	Top10Money        []Row
	Top10OneYearMoney []Row
}
