package market

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"sort"
	"strings"
	"time"

	log "github.com/sirupsen/logrus"
)

var ErrUnsupportedCurrency = errors.New("unsupported currency")

// Quote is the latest market data of one asset in a base currency.
type Quote struct {
	Price     float64
	Change24h float64
}

type Client interface {
	// GetPrices returns the quotes of every supported asset, keyed by upper-case symbol.
	GetPrices(ctx context.Context, baseCurrency string) (map[string]Quote, error)
}

// coinIds maps asset symbols to CoinGecko coin ids.
var coinIds = map[string]string{
	"BTC":   "bitcoin",
	"ETH":   "ethereum",
	"SOL":   "solana",
	"ADA":   "cardano",
	"XRP":   "ripple",
	"DOT":   "polkadot",
	"DOGE":  "dogecoin",
	"LTC":   "litecoin",
	"BNB":   "binancecoin",
	"LINK":  "chainlink",
	"AVAX":  "avalanche-2",
	"USDT":  "tether",
	"USDC":  "usd-coin",
	"MATIC": "matic-network",
}

// Symbols lists the supported asset symbols in alphabetical order.
func Symbols() []string {
	symbols := make([]string, 0, len(coinIds))
	for symbol := range coinIds {
		symbols = append(symbols, symbol)
	}
	sort.Strings(symbols)
	return symbols
}

type CoinGeckoClient struct {
	baseUrl    string
	httpClient *http.Client
}

func NewCoinGeckoClient(baseUrl string, timeout time.Duration) *CoinGeckoClient {
	return &CoinGeckoClient{
		baseUrl:    strings.TrimRight(baseUrl, "/"),
		httpClient: &http.Client{Timeout: timeout},
	}
}

// GetPrices calls GET {base}/simple/price for all known coins.
func (c *CoinGeckoClient) GetPrices(ctx context.Context, baseCurrency string) (map[string]Quote, error) {
	currency := strings.ToLower(strings.TrimSpace(baseCurrency))
	if currency == "" {
		return nil, ErrUnsupportedCurrency
	}

	ids := make([]string, 0, len(coinIds))
	for _, symbol := range Symbols() {
		ids = append(ids, coinIds[symbol])
	}
	query := url.Values{}
	query.Set("ids", strings.Join(ids, ","))
	query.Set("vs_currencies", currency)
	query.Set("include_24hr_change", "true")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseUrl+"/simple/price?"+query.Encode(), nil)
	if err != nil {
		log.Errorf("Failed to create request: %v", err)
		return nil, err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		log.Errorf("Failed to execute request: %v", err)
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		err := fmt.Errorf("price API returned non-OK status: %d", resp.StatusCode)
		log.Error(err)
		return nil, err
	}

	var response map[string]map[string]float64
	if err := json.NewDecoder(resp.Body).Decode(&response); err != nil {
		log.Errorf("Failed to decode response: %v", err)
		return nil, err
	}

	quotes := make(map[string]Quote, len(response))
	for symbol, id := range coinIds {
		values, ok := response[id]
		if !ok {
			continue
		}
		price, ok := values[currency]
		if !ok {
			continue
		}
		quotes[symbol] = Quote{Price: price, Change24h: values[currency+"_24h_change"]}
	}
	if len(quotes) == 0 && len(response) > 0 {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedCurrency, baseCurrency)
	}
	return quotes, nil
}
