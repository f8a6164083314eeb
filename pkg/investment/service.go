package investment

import (
	"context"
	"strings"

	"github.com/pocketbook/pocketbook/pkg/market"
	"github.com/pocketbook/pocketbook/pkg/transaction"
	log "github.com/sirupsen/logrus"
)

type TransactionLister interface {
	List(ctx context.Context, txType transaction.Type) ([]transaction.Transaction, error)
}

// QuoteSource is the read side of the price board.
type QuoteSource interface {
	Quotes(currency string) (map[string]market.Quote, bool)
	Refresh(ctx context.Context, currency string) error
}

type Service struct {
	transactions TransactionLister
	quotes       QuoteSource
}

func NewService(transactions TransactionLister, quotes QuoteSource) *Service {
	return &Service{transactions: transactions, quotes: quotes}
}

type Report struct {
	Currency  string
	Portfolio Portfolio
	Change24h map[string]float64
}

// Portfolio evaluates all investment records in currency. Missing prices are
// fetched once; when that fails the report degrades to invested amounts.
func (s *Service) Portfolio(ctx context.Context, currency string) (Report, error) {
	records, err := s.transactions.List(ctx, transaction.Investment)
	if err != nil {
		return Report{}, err
	}

	currency = strings.ToUpper(currency)
	quotes, ok := s.quotes.Quotes(currency)
	if !ok {
		if err := s.quotes.Refresh(ctx, currency); err != nil {
			log.Warnf("prices unavailable for %s, showing invested amounts: %v", currency, err)
		}
		quotes, _ = s.quotes.Quotes(currency)
	}

	prices := make(map[string]float64, len(quotes))
	changes := make(map[string]float64, len(quotes))
	for symbol, quote := range quotes {
		prices[symbol] = quote.Price
		changes[symbol] = quote.Change24h
	}
	return Report{
		Currency:  currency,
		Portfolio: Calculate(records, prices),
		Change24h: changes,
	}, nil
}
