package market

import (
	"context"
	"strings"
	"sync"
	"time"

	log "github.com/sirupsen/logrus"
)

// Board holds the most recently fetched quotes per currency. A refresh that
// completes later overwrites an earlier one, whichever was started first.
type Board struct {
	client Client

	mu      sync.RWMutex
	quotes  map[string]map[string]Quote
	fetched map[string]time.Time
	lastErr map[string]error
	wg      sync.WaitGroup
}

func NewBoard(client Client) *Board {
	return &Board{
		client:  client,
		quotes:  make(map[string]map[string]Quote),
		fetched: make(map[string]time.Time),
		lastErr: make(map[string]error),
	}
}

// Refresh fetches quotes for currency and stores them. On failure the previous
// quotes stay in place and the error is returned.
func (b *Board) Refresh(ctx context.Context, currency string) error {
	currency = strings.ToUpper(currency)
	quotes, err := b.client.GetPrices(ctx, currency)

	b.mu.Lock()
	defer b.mu.Unlock()
	if err != nil {
		b.lastErr[currency] = err
		return err
	}
	b.quotes[currency] = quotes
	b.fetched[currency] = time.Now()
	delete(b.lastErr, currency)
	return nil
}

// RefreshAsync starts a refresh in the background and returns immediately.
func (b *Board) RefreshAsync(currency string) {
	b.wg.Add(1)
	go func() {
		defer b.wg.Done()
		if err := b.Refresh(context.Background(), currency); err != nil {
			log.Warnf("could not refresh %s prices: %v", currency, err)
		}
	}()
}

// Wait blocks until every refresh started by RefreshAsync has finished.
func (b *Board) Wait() {
	b.wg.Wait()
}

// Quotes returns a copy of the latest quotes for currency and whether any
// were fetched successfully.
func (b *Board) Quotes(currency string) (map[string]Quote, bool) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	stored, ok := b.quotes[strings.ToUpper(currency)]
	if !ok {
		return map[string]Quote{}, false
	}
	quotes := make(map[string]Quote, len(stored))
	for symbol, quote := range stored {
		quotes[symbol] = quote
	}
	return quotes, true
}

// LastError returns the error of the last failed refresh for currency, if the
// failure has not been followed by a successful refresh.
func (b *Board) LastError(currency string) error {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.lastErr[strings.ToUpper(currency)]
}

func (b *Board) FetchedAt(currency string) time.Time {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.fetched[strings.ToUpper(currency)]
}
