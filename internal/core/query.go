package core

import "time"

// DateRange selects the time window of a ledger query.
type DateRange string

const (
	RangeAllTime   DateRange = "all_time"
	RangeThisMonth DateRange = "this_month"
	RangeLastMonth DateRange = "last_month"
	RangeThisYear  DateRange = "this_year"
)

// SortKey selects the single-key ordering of a ledger query. Ties on equal
// keys fall back to creation order; callers must not rely on a specific tie
// order.
type SortKey string

const (
	SortDateDesc   SortKey = "date_desc"
	SortDateAsc    SortKey = "date_asc"
	SortAmountDesc SortKey = "amount_desc"
	SortAmountAsc  SortKey = "amount_asc"
)

// EntryFilter is the filter/sort/page specification for listing entries.
// A zero Category means no category predicate.
type EntryFilter struct {
	Category Category
	Range    DateRange
	Sort     SortKey
	Page     int // 1-indexed
}

// ParseDateRange maps a request token to a DateRange. Unknown tokens fall
// back to all_time, matching how unrecognised ranges have always behaved.
func ParseDateRange(s string) DateRange {
	switch DateRange(s) {
	case RangeThisMonth, RangeLastMonth, RangeThisYear:
		return DateRange(s)
	default:
		return RangeAllTime
	}
}

// ParseSortKey maps a request token to a SortKey, defaulting to newest-first.
func ParseSortKey(s string) SortKey {
	switch SortKey(s) {
	case SortDateAsc, SortAmountDesc, SortAmountAsc:
		return SortKey(s)
	default:
		return SortDateDesc
	}
}

// Window resolves the date range to concrete bounds relative to now, on the
// local day boundary. Start is inclusive; End, when set, is also inclusive.
//
// Only last_month carries an upper bound, and that bound sits at 00:00:00 of
// the last day of the previous month, so entries recorded later that day fall
// outside the window. Both quirks are inherited contract: the other ranges
// stay open-ended and the last_month bound stays where it is.
func (r DateRange) Window(now time.Time) (start, end *time.Time) {
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())

	switch r {
	case RangeThisMonth:
		s := time.Date(today.Year(), today.Month(), 1, 0, 0, 0, 0, today.Location())
		return &s, nil
	case RangeLastMonth:
		s := time.Date(today.Year(), today.Month(), 1, 0, 0, 0, 0, today.Location()).AddDate(0, -1, 0)
		e := time.Date(today.Year(), today.Month(), 1, 0, 0, 0, 0, today.Location()).AddDate(0, 0, -1)
		return &s, &e
	case RangeThisYear:
		s := time.Date(today.Year(), time.January, 1, 0, 0, 0, 0, today.Location())
		return &s, nil
	default:
		return nil, nil
	}
}

// EntryQuery is the fully resolved form of an EntryFilter: the date range has
// been turned into concrete bounds and the page into a limit/offset pair. This
// is the contract the store executes. DateFrom is inclusive; DateTo, when set,
// is also inclusive.
type EntryQuery struct {
	OwnerID  string
	Category Category // zero value means any category
	DateFrom *time.Time
	DateTo   *time.Time
	Sort     SortKey
	Limit    int
	Offset   int
}

// Resolve turns the filter into an EntryQuery relative to now, with pageSize
// items per page.
func (f EntryFilter) Resolve(ownerID string, now time.Time, pageSize int) EntryQuery {
	page := f.Page
	if page < 1 {
		page = 1
	}
	from, to := f.Range.Window(now)
	return EntryQuery{
		OwnerID:  ownerID,
		Category: f.Category,
		DateFrom: from,
		DateTo:   to,
		Sort:     f.Sort,
		Limit:    pageSize,
		Offset:   (page - 1) * pageSize,
	}
}

// MonthWindow returns the aggregation window for the calendar month of now:
// [first day of month, first day of next month). This window is fixed for
// the Aggregation Engine and independent of any user-chosen filter.
func MonthWindow(now time.Time) (start, end time.Time) {
	start = time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	return start, start.AddDate(0, 1, 0)
}

// MonthKeyWindow resolves a "YYYY-MM" key to the same bounds MonthWindow
// produces, anchored in loc so spend and budget progress for a month are
// measured over identical boundaries. The key must already be well formed.
func MonthKeyWindow(key string, loc *time.Location) (start, end time.Time) {
	t, _ := time.ParseInLocation("2006-01", key, loc)
	return MonthWindow(t)
}
