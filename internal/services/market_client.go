package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/pkg/errors"
	"golang.org/x/sync/singleflight"

	"marketlens/backend-go/internal/config"
	"marketlens/backend-go/internal/models"
)

// MarketClient fronts the primary quote/indicator provider. The provider has
// no batch indicator endpoint and enforces a low per-minute quota, so the
// indicator bundles go through the sequential collector.
type MarketClient struct {
	cfg       config.Config
	fetcher   *Fetcher
	indicator *Collector
	compose   *Collector
	cache     Cache
	sf        singleflight.Group
	policy    Policy
}

func NewMarketClient(cfg config.Config, cache Cache, clock clockwork.Clock) *MarketClient {
	fetcher := NewFetcher("market", cfg.RequestTimeout, clock)
	return &MarketClient{
		cfg:       cfg,
		fetcher:   fetcher,
		indicator: NewCollector(fetcher, cfg.CollectorDelay),
		compose:   NewCollector(fetcher, cfg.ComposeDelay),
		cache:     cache,
		policy: Policy{
			MaxRetries: cfg.FetchMaxRetries,
			RetryDelay: cfg.FetchRetryDelay,
			Backoff:    BackoffFixed,
		},
	}
}

type providerQuote struct {
	Symbol        string `json:"symbol"`
	Name          string `json:"name"`
	Exchange      string `json:"exchange"`
	Currency      string `json:"currency"`
	Close         string `json:"close"`
	Change        string `json:"change"`
	PercentChange string `json:"percent_change"`
	Volume        string `json:"volume"`
}

func (c *MarketClient) Quote(ctx context.Context, symbol string) (models.QuoteResponse, bool, error) {
	symbol = NormalizeSymbol(symbol)
	if c.cfg.MarketAPIKey == "" {
		return models.QuoteResponse{}, false, errors.Wrap(ErrMissingCredential, "market provider")
	}
	key := "quote:v1:" + symbol
	return FillThrough(ctx, c.cache, &c.sf, key, c.cfg.CacheTTLQuote, func() (models.QuoteResponse, error) {
		var raw providerQuote
		if err := c.fetcher.GetJSON(ctx, c.endpoint("quote", symbol, nil), c.policy, &raw); err != nil {
			return models.QuoteResponse{}, err
		}
		return mapQuote(symbol, raw)
	})
}

// Stock composes quote, latest price, end-of-day close and a 30-bar daily
// series from four independent endpoints of the same provider. The legs run
// sequentially with a short inter-request delay; the quote leg is required,
// the rest degrade to null.
func (c *MarketClient) Stock(ctx context.Context, symbol string) (models.StockResponse, bool, error) {
	symbol = NormalizeSymbol(symbol)
	if c.cfg.MarketAPIKey == "" {
		return models.StockResponse{}, false, errors.Wrap(ErrMissingCredential, "market provider")
	}
	key := "stock:v1:" + symbol
	return FillThrough(ctx, c.cache, &c.sf, key, c.cfg.CacheTTLStock, func() (models.StockResponse, error) {
		legs, err := c.compose.Collect(ctx, []Sub{
			{Name: "quote", URL: c.endpoint("quote", symbol, nil), Policy: c.policy},
			{Name: "price", URL: c.endpoint("price", symbol, nil), Policy: c.policy},
			{Name: "eod", URL: c.endpoint("eod", symbol, nil), Policy: c.policy},
			{Name: "timeSeries", URL: c.endpoint("time_series", symbol, url.Values{"outputsize": {"30"}}), Policy: c.policy},
		})
		if err != nil {
			return models.StockResponse{}, err
		}
		if isNullLeg(legs["quote"]) {
			return models.StockResponse{}, errors.Errorf("quote unavailable for %s", symbol)
		}
		var raw providerQuote
		if err := json.Unmarshal(legs["quote"], &raw); err != nil {
			return models.StockResponse{}, errors.Wrap(err, "decoding quote leg")
		}
		quote, err := mapQuote(symbol, raw)
		if err != nil {
			return models.StockResponse{}, err
		}
		return models.StockResponse{
			Symbol:     symbol,
			Quote:      quote,
			Price:      orNull(legs["price"]),
			EOD:        orNull(legs["eod"]),
			TimeSeries: orNull(legs["timeSeries"]),
			TsISO:      time.Now().UTC().Format(time.RFC3339),
		}, nil
	})
}

type indicatorSpec struct {
	name   string
	path   string
	params url.Values
}

var indicatorBundleSpecs = []indicatorSpec{
	{name: "ema20", path: "ema", params: url.Values{"time_period": {"20"}}},
	{name: "ema50", path: "ema", params: url.Values{"time_period": {"50"}}},
	{name: "rsi", path: "rsi", params: url.Values{"time_period": {"14"}}},
	{name: "macd", path: "macd"},
	{name: "bbands", path: "bbands", params: url.Values{"time_period": {"20"}}},
	{name: "atr", path: "atr", params: url.Values{"time_period": {"14"}}},
	{name: "obv", path: "obv"},
	{name: "supertrend", path: "supertrend"},
}

var technicalBundleSpecs = []indicatorSpec{
	{name: "sma", path: "sma", params: url.Values{"time_period": {"50"}}},
	{name: "rsi", path: "rsi", params: url.Values{"time_period": {"14"}}},
	{name: "macd", path: "macd"},
	{name: "atr", path: "atr", params: url.Values{"time_period": {"14"}}},
	{name: "ichimoku", path: "ichimoku"},
	{name: "aroon", path: "aroon", params: url.Values{"time_period": {"14"}}},
}

func (c *MarketClient) Indicators(ctx context.Context, symbol string) (models.IndicatorBundle, bool, error) {
	return c.bundle(ctx, symbol, "indicators", indicatorBundleSpecs)
}

func (c *MarketClient) Technicals(ctx context.Context, symbol string) (models.IndicatorBundle, bool, error) {
	return c.bundle(ctx, symbol, "technicals", technicalBundleSpecs)
}

func (c *MarketClient) bundle(ctx context.Context, symbol, family string, specs []indicatorSpec) (models.IndicatorBundle, bool, error) {
	symbol = NormalizeSymbol(symbol)
	if c.cfg.MarketAPIKey == "" {
		return models.IndicatorBundle{}, false, errors.Wrap(ErrMissingCredential, "market provider")
	}
	key := family + ":v1:" + symbol
	return FillThrough(ctx, c.cache, &c.sf, key, c.cfg.CacheTTLIndicators, func() (models.IndicatorBundle, error) {
		subs := make([]Sub, 0, len(specs))
		for _, s := range specs {
			subs = append(subs, Sub{Name: s.name, URL: c.endpoint(s.path, symbol, s.params), Policy: c.policy})
		}
		legs, err := c.indicator.Collect(ctx, subs)
		if err != nil {
			return models.IndicatorBundle{}, err
		}
		indicators := make(map[string]json.RawMessage, len(specs))
		for _, s := range specs {
			indicators[s.name] = extractValues(legs[s.name])
		}
		return models.IndicatorBundle{
			Symbol:     symbol,
			Interval:   "1day",
			Indicators: indicators,
			TsISO:      time.Now().UTC().Format(time.RFC3339),
		}, nil
	})
}

func (c *MarketClient) ForexPairs(ctx context.Context) ([]models.ForexPair, bool, error) {
	if c.cfg.MarketAPIKey == "" {
		return nil, false, errors.Wrap(ErrMissingCredential, "market provider")
	}
	return FillThrough(ctx, c.cache, &c.sf, "forex:dir:v1", c.cfg.CacheTTLDirectory, func() ([]models.ForexPair, error) {
		var raw struct {
			Data []models.ForexPair `json:"data"`
		}
		if err := c.fetcher.GetJSON(ctx, c.listEndpoint("forex_pairs"), c.policy, &raw); err != nil {
			return nil, err
		}
		return raw.Data, nil
	})
}

func (c *MarketClient) CryptoPairs(ctx context.Context) ([]models.CryptoPair, bool, error) {
	if c.cfg.MarketAPIKey == "" {
		return nil, false, errors.Wrap(ErrMissingCredential, "market provider")
	}
	return FillThrough(ctx, c.cache, &c.sf, "crypto:dir:v1", c.cfg.CacheTTLDirectory, func() ([]models.CryptoPair, error) {
		var raw struct {
			Data []models.CryptoPair `json:"data"`
		}
		if err := c.fetcher.GetJSON(ctx, c.listEndpoint("cryptocurrencies"), c.policy, &raw); err != nil {
			return nil, err
		}
		return raw.Data, nil
	})
}

func (c *MarketClient) endpoint(path, symbol string, extra url.Values) string {
	v := url.Values{}
	v.Set("symbol", symbol)
	v.Set("interval", "1day")
	v.Set("apikey", c.cfg.MarketAPIKey)
	for k, vals := range extra {
		for _, val := range vals {
			v.Add(k, val)
		}
	}
	return fmt.Sprintf("%s/%s?%s", strings.TrimRight(c.cfg.MarketBaseURL, "/"), path, v.Encode())
}

func (c *MarketClient) listEndpoint(path string) string {
	v := url.Values{}
	v.Set("apikey", c.cfg.MarketAPIKey)
	return fmt.Sprintf("%s/%s?%s", strings.TrimRight(c.cfg.MarketBaseURL, "/"), path, v.Encode())
}

// NormalizeSymbol canonicalizes an external ticker/pair symbol.
func NormalizeSymbol(symbol string) string {
	return strings.ToUpper(strings.TrimSpace(symbol))
}

func isNullLeg(raw json.RawMessage) bool {
	return len(raw) == 0 || bytes.Equal(raw, []byte("null"))
}

func orNull(raw json.RawMessage) json.RawMessage {
	if len(raw) == 0 {
		return json.RawMessage("null")
	}
	return raw
}

// extractValues pulls the provider's "values" series out of an indicator leg;
// a failed leg or a body without a series stays null.
func extractValues(raw json.RawMessage) json.RawMessage {
	if isNullLeg(raw) {
		return json.RawMessage("null")
	}
	var body struct {
		Values json.RawMessage `json:"values"`
	}
	if err := json.Unmarshal(raw, &body); err != nil || isNullLeg(body.Values) {
		return json.RawMessage("null")
	}
	return body.Values
}
