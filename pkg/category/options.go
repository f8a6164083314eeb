package category

import "strings"

var defaults = map[string][]string{
	"expense": {
		"Food",
		"Housing",
		"Transport",
		"Utilities",
		"Health",
		"Leisure",
		"Education",
		"Clothing",
		"Subscriptions",
		"Other",
	},
	"income": {
		"Salary",
		"Freelance",
		"Rental",
		"Dividends",
		"Gifts",
		"Other",
	},
	"saving": {
		"Emergency fund",
		"Retirement",
		"Vacation",
		"Home",
		"Other",
	},
	"investment": {
		"Stocks",
		"Bonds",
		"Funds",
		"Crypto",
		"Real estate",
		"Other",
	},
}

// Defaults returns the built-in categories for a transaction type.
func Defaults(kind string) []string {
	list := defaults[strings.ToLower(kind)]
	out := make([]string, len(list))
	copy(out, list)
	return out
}

// Options lists the categories offered for a transaction type: the defaults
// followed by custom categories already in use, deduplicated by key. Blank
// names are skipped.
func Options(kind string, existing []string) []string {
	seen := make(map[string]bool)
	options := make([]string, 0, len(defaults[strings.ToLower(kind)])+len(existing))
	add := func(name string) {
		if strings.TrimSpace(name) == "" {
			return
		}
		key := Key(name)
		if seen[key] {
			return
		}
		seen[key] = true
		options = append(options, name)
	}
	for _, name := range Defaults(kind) {
		add(name)
	}
	for _, name := range existing {
		add(name)
	}
	return options
}
