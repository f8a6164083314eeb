package market

import (
	"context"
	"strings"
	"sync"
)

type ClientStub struct {
	mu     sync.Mutex
	quotes map[string]map[string]Quote // currency -> symbol -> quote
	err    error
	calls  []string
}

func NewClientStub() *ClientStub {
	return &ClientStub{quotes: make(map[string]map[string]Quote)}
}

func (s *ClientStub) SetQuote(currency, symbol string, quote Quote) {
	s.mu.Lock()
	defer s.mu.Unlock()
	currency = strings.ToUpper(currency)
	if s.quotes[currency] == nil {
		s.quotes[currency] = make(map[string]Quote)
	}
	s.quotes[currency][strings.ToUpper(symbol)] = quote
}

func (s *ClientStub) SetError(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.err = err
}

// Calls returns the currencies requested so far, in order.
func (s *ClientStub) Calls() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.calls...)
}

func (s *ClientStub) GetPrices(ctx context.Context, baseCurrency string) (map[string]Quote, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	currency := strings.ToUpper(baseCurrency)
	s.calls = append(s.calls, currency)
	if s.err != nil {
		return nil, s.err
	}
	quotes := make(map[string]Quote, len(s.quotes[currency]))
	for symbol, quote := range s.quotes[currency] {
		quotes[symbol] = quote
	}
	return quotes, nil
}
