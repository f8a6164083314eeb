package period

import (
	"sort"
	"time"
)

// Record is anything with a calendar date and an amount.
type Record interface {
	RecordDate() time.Time
	RecordAmount() float64
}

type Result[T Record] struct {
	Records []T
	Total   float64
	Count   int
}

// Filter returns the records whose date falls into the selected window, most
// recent first, together with their sum and count. Records with equal dates
// keep their input order.
func Filter[T Record](records []T, selector Selector, now time.Time) Result[T] {
	selected := make([]T, 0, len(records))
	for _, r := range records {
		if selector.Contains(r.RecordDate(), now) {
			selected = append(selected, r)
		}
	}
	return Summarize(selected)
}

// Summarize sorts records most recent first, with undated records last, and
// totals them without filtering.
func Summarize[T Record](records []T) Result[T] {
	sorted := make([]T, len(records))
	copy(sorted, records)
	sort.SliceStable(sorted, func(i, j int) bool {
		di, dj := sorted[i].RecordDate(), sorted[j].RecordDate()
		if di.IsZero() || dj.IsZero() {
			return !di.IsZero() && dj.IsZero()
		}
		return di.After(dj)
	})

	total := 0.0
	for _, r := range sorted {
		total += r.RecordAmount()
	}
	return Result[T]{Records: sorted, Total: total, Count: len(sorted)}
}
