package transaction

import (
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/google/uuid"
)

type Type string

const (
	Expense    Type = "expense"
	Income     Type = "income"
	Saving     Type = "saving"
	Investment Type = "investment"
)

var AllTypes = []Type{Expense, Income, Saving, Investment}

var ErrInvalidTransaction = errors.New("invalid transaction")
var ErrTransactionNotFound = errors.New("transaction not found")

func ParseType(s string) (Type, error) {
	t := Type(strings.ToLower(strings.TrimSpace(s)))
	if !t.IsValid() {
		return "", fmt.Errorf("%w: unknown type %q", ErrInvalidTransaction, s)
	}
	return t, nil
}

func (t Type) IsValid() bool {
	switch t {
	case Expense, Income, Saving, Investment:
		return true
	}
	return false
}

type Transaction struct {
	Id          uuid.UUID
	Type        Type
	Category    string
	Amount      float64
	Description string
	// Date is a calendar date. A zero Date means the stored value was missing or unparseable.
	Date time.Time

	// Investment details, only meaningful for Investment transactions.
	AssetSymbol   string
	Quantity      *float64
	PurchasePrice *float64
}

// SafeAmount is the amount used in every sum: missing, negative or non-finite values count as 0.
func (t Transaction) SafeAmount() float64 {
	if math.IsNaN(t.Amount) || math.IsInf(t.Amount, 0) || t.Amount < 0 {
		return 0
	}
	return t.Amount
}

// HasDate reports whether the transaction carries a usable calendar date.
func (t Transaction) HasDate() bool {
	return !t.Date.IsZero()
}

func (t Transaction) Validate() error {
	if !t.Type.IsValid() {
		return fmt.Errorf("%w: unknown type %q", ErrInvalidTransaction, t.Type)
	}
	if strings.TrimSpace(t.Category) == "" {
		return fmt.Errorf("%w: category is required", ErrInvalidTransaction)
	}
	if math.IsNaN(t.Amount) || math.IsInf(t.Amount, 0) || t.Amount < 0 {
		return fmt.Errorf("%w: amount must be a non-negative number", ErrInvalidTransaction)
	}
	if !t.HasDate() {
		return fmt.Errorf("%w: date is required", ErrInvalidTransaction)
	}
	if t.Quantity != nil && *t.Quantity < 0 {
		return fmt.Errorf("%w: quantity must not be negative", ErrInvalidTransaction)
	}
	if t.PurchasePrice != nil && *t.PurchasePrice < 0 {
		return fmt.Errorf("%w: purchase price must not be negative", ErrInvalidTransaction)
	}
	return nil
}

const DateLayout = "2006-01-02"

// ParseDate parses a calendar date. It accepts plain dates and RFC 3339 timestamps.
func ParseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if d, err := time.Parse(DateLayout, s); err == nil {
		return d, nil
	}
	ts, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q: %w", s, err)
	}
	year, month, day := ts.Date()
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC), nil
}

// RecordDate, RecordAmount and RecordCategory let transactions flow through the
// period filter and the category aggregator.
func (t Transaction) RecordDate() time.Time { return t.Date }

func (t Transaction) RecordAmount() float64 { return t.SafeAmount() }

func (t Transaction) RecordCategory() string { return t.Category }
