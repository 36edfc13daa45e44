// backend/src/services/price_service.go
package services

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strings"
	"time"

	"github.com/patrickmn/go-cache"
	"golang.org/x/net/publicsuffix"

	"github.com/username/cryptofolio/backend/src/logger"
)

// assetIDMap translates ledger symbols to CoinGecko canonical ids. Symbols
// without an entry cannot be priced and are skipped at fetch time.
var assetIDMap = map[string]string{
	"BTC":  "bitcoin",
	"ETH":  "ethereum",
	"SOL":  "solana",
	"ADA":  "cardano",
	"DOGE": "dogecoin",
}

// priceEntry is what gets cached per (symbol, quote currency). Entries are
// stored without go-cache expiration so a stale price survives as the
// fallback when a later fetch fails; freshness is checked against FetchedAt.
type priceEntry struct {
	Price     float64
	FetchedAt time.Time
}

type priceServiceImpl struct {
	cache   *cache.Cache
	fetcher PriceFetcher
	ttl     time.Duration
	now     func() time.Time
}

// NewPriceService creates the valuation service on top of an explicitly
// owned cache handle. The cache is the one piece of shared mutable state
// across requests; go-cache serializes access internally.
func NewPriceService(priceCache *cache.Cache, fetcher PriceFetcher, ttl time.Duration) PriceService {
	return &priceServiceImpl{
		cache:   priceCache,
		fetcher: fetcher,
		ttl:     ttl,
		now:     time.Now,
	}
}

func priceCacheKey(vsCurrency, symbol string) string {
	return fmt.Sprintf("price_%s_%s", strings.ToLower(vsCurrency), strings.ToUpper(symbol))
}

// GetCurrentPrices resolves prices for the requested symbols, consulting the
// cache first and batching the misses into a single fetch. Fetch failures
// are logged and degrade to the last cached price, or 0; they never surface
// to the caller.
func (s *priceServiceImpl) GetCurrentPrices(symbols []string, vsCurrency string) map[string]float64 {
	now := s.now()
	prices := make(map[string]float64, len(symbols))

	var missed []string
	for _, symbol := range symbols {
		if entry, found := s.cachedEntry(vsCurrency, symbol); found && now.Sub(entry.FetchedAt) < s.ttl {
			prices[symbol] = entry.Price
			continue
		}
		missed = append(missed, symbol)
	}
	if len(missed) == 0 {
		return prices
	}

	var ids []string
	for _, symbol := range missed {
		if id, ok := assetIDMap[strings.ToUpper(symbol)]; ok {
			ids = append(ids, id)
		}
	}

	var fetched map[string]float64
	if len(ids) > 0 {
		var err error
		fetched, err = s.fetcher.Fetch(ids, strings.ToLower(vsCurrency))
		if err != nil {
			logger.L.Error("Price fetch failed, falling back to cached prices", "error", err, "symbols", missed)
		}
	}

	for _, symbol := range missed {
		id := assetIDMap[strings.ToUpper(symbol)]
		if price, ok := fetched[id]; ok {
			prices[symbol] = price
			s.cache.Set(priceCacheKey(vsCurrency, symbol), priceEntry{Price: price, FetchedAt: now}, cache.NoExpiration)
			continue
		}
		// A stale cached price beats no price at all.
		if entry, found := s.cachedEntry(vsCurrency, symbol); found {
			prices[symbol] = entry.Price
		} else {
			prices[symbol] = 0
		}
	}

	return prices
}

func (s *priceServiceImpl) cachedEntry(vsCurrency, symbol string) (priceEntry, bool) {
	v, found := s.cache.Get(priceCacheKey(vsCurrency, symbol))
	if !found {
		return priceEntry{}, false
	}
	entry, ok := v.(priceEntry)
	return entry, ok
}

// coingeckoFetcher fetches spot prices from CoinGecko's simple/price API.
type coingeckoFetcher struct {
	httpClient http.Client
	apiURL     string
}

// NewCoinGeckoFetcher builds the production price fetcher. The client gets a
// cookie jar and a bounded timeout; a slow or failing API must degrade, not
// hang the request.
func NewCoinGeckoFetcher(apiURL string, timeout time.Duration) PriceFetcher {
	jar, err := cookiejar.New(&cookiejar.Options{PublicSuffixList: publicsuffix.List})
	if err != nil {
		logger.L.Error("Failed to create cookie jar", "error", err)
	}
	return &coingeckoFetcher{
		httpClient: http.Client{Jar: jar, Timeout: timeout},
		apiURL:     apiURL,
	}
}

func (f *coingeckoFetcher) Fetch(ids []string, vsCurrency string) (map[string]float64, error) {
	reqURL, err := url.Parse(f.apiURL)
	if err != nil {
		return nil, fmt.Errorf("invalid price API URL: %w", err)
	}
	query := reqURL.Query()
	query.Set("ids", strings.Join(ids, ","))
	query.Set("vs_currencies", vsCurrency)
	reqURL.RawQuery = query.Encode()

	req, err := http.NewRequest(http.MethodGet, reqURL.String(), nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := f.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to call price API: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("price API returned non-OK status %d", resp.StatusCode)
	}

	// Response shape: {"bitcoin": {"usd": 64000.12}, ...}
	var payload map[string]map[string]float64
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("failed to decode price API response: %w", err)
	}

	result := make(map[string]float64, len(payload))
	for id, quotes := range payload {
		if price, ok := quotes[vsCurrency]; ok {
			result[id] = price
		}
	}
	return result, nil
}
