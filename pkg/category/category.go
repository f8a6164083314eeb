package category

import (
	"sort"
	"strings"
)

// Record is anything that carries a category label and an amount.
type Record interface {
	RecordCategory() string
	RecordAmount() float64
}

// Key is the matching key of a category: lower-cased, otherwise untouched.
func Key(name string) string {
	return strings.ToLower(name)
}

// Totals sums amounts per category key. Sums are not rounded.
func Totals[T Record](records []T) map[string]float64 {
	totals := make(map[string]float64)
	for _, r := range records {
		totals[Key(r.RecordCategory())] += r.RecordAmount()
	}
	return totals
}

type Share struct {
	Category   string
	Amount     float64
	Percentage float64
}

// Breakdown turns records into chart shares, largest first. The label of each
// share is the first spelling seen for its key.
func Breakdown[T Record](records []T) []Share {
	labels := make(map[string]string)
	order := make([]string, 0)
	for _, r := range records {
		key := Key(r.RecordCategory())
		if _, ok := labels[key]; !ok {
			labels[key] = r.RecordCategory()
			order = append(order, key)
		}
	}

	totals := Totals(records)
	sum := 0.0
	for _, amount := range totals {
		sum += amount
	}

	shares := make([]Share, 0, len(order))
	for _, key := range order {
		share := Share{Category: labels[key], Amount: totals[key]}
		if sum > 0 {
			share.Percentage = totals[key] / sum * 100
		}
		shares = append(shares, share)
	}
	sort.SliceStable(shares, func(i, j int) bool {
		return shares[i].Amount > shares[j].Amount
	})
	return shares
}
