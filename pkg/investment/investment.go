package investment

import (
	"strings"

	"github.com/google/uuid"
	"github.com/pocketbook/pocketbook/pkg/transaction"
)

type Position struct {
	TransactionId uuid.UUID
	Symbol        string
	Category      string
	Quantity      float64
	PurchasePrice float64
	CurrentPrice  float64
	Invested      float64
	CurrentValue  float64
	Gain          float64
	GainPercent   float64
	// NoData marks records without quantity or purchase price. They count with
	// their recorded amount as both invested and current value.
	NoData bool
	// Priced is false when no current price was available for the symbol.
	Priced bool
}

type Portfolio struct {
	Positions        []Position
	TotalInvested    float64
	TotalCurrent     float64
	TotalGain        float64
	TotalGainPercent float64
	// Degraded is set when at least one priced position had to fall back to
	// its invested amount.
	Degraded bool
}

// Evaluate computes the performance of one investment record. prices are
// current prices keyed by upper-case asset symbol.
func Evaluate(record transaction.Transaction, prices map[string]float64) Position {
	p := Position{
		TransactionId: record.Id,
		Symbol:        strings.ToUpper(record.AssetSymbol),
		Category:      record.Category,
	}
	if record.Quantity == nil || record.PurchasePrice == nil {
		p.NoData = true
		p.Invested = record.SafeAmount()
		p.CurrentValue = p.Invested
		return p
	}

	p.Quantity = *record.Quantity
	p.PurchasePrice = *record.PurchasePrice
	p.Invested = p.Quantity * p.PurchasePrice

	price, ok := prices[p.Symbol]
	if !ok || p.Symbol == "" {
		p.CurrentValue = p.Invested
		return p
	}
	p.Priced = true
	p.CurrentPrice = price
	p.CurrentValue = p.Quantity * price
	p.Gain = p.CurrentValue - p.Invested
	p.GainPercent = gainPercent(p.Gain, p.Invested)
	return p
}

// Calculate evaluates every investment record and totals the portfolio.
// Records of other types are ignored.
func Calculate(records []transaction.Transaction, prices map[string]float64) Portfolio {
	portfolio := Portfolio{Positions: make([]Position, 0, len(records))}
	for _, record := range records {
		if record.Type != transaction.Investment {
			continue
		}
		p := Evaluate(record, prices)
		if !p.NoData && !p.Priced {
			portfolio.Degraded = true
		}
		portfolio.Positions = append(portfolio.Positions, p)
		portfolio.TotalInvested += p.Invested
		portfolio.TotalCurrent += p.CurrentValue
		portfolio.TotalGain += p.Gain
	}
	portfolio.TotalGainPercent = gainPercent(portfolio.TotalGain, portfolio.TotalInvested)
	return portfolio
}

func gainPercent(gain, invested float64) float64 {
	if invested <= 0 {
		return 0
	}
	return gain / invested * 100
}
