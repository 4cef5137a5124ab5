package core

// CategoryTotal is the spend aggregated over one category for the current
// month. Categories with no entries in the window are never reported.
type CategoryTotal struct {
	Category string
	Total    Money
}

// MonthlySummary is the grand total for the current month. A month without
// entries yields the zero value, never an error.
type MonthlySummary struct {
	Total Money
	Count int64
}

// EntryPage is one page of a ledger listing. TotalCount counts every row the
// filter matched; TotalPages is zero when nothing matched, so an empty ledger
// reports page 1 of 0.
type EntryPage struct {
	Entries    []Entry
	Page       int
	TotalPages int
	TotalCount int64
}
