package services

import (
	"context"
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

// ReferenceClient fronts the secondary provider used for company reference
// data (profile and logo).
type ReferenceClient struct {
	cfg     config.Config
	fetcher *Fetcher
	cache   Cache
	sf      singleflight.Group
	policy  Policy
}

func NewReferenceClient(cfg config.Config, cache Cache, clock clockwork.Clock) *ReferenceClient {
	return &ReferenceClient{
		cfg:     cfg,
		fetcher: NewFetcher("reference", cfg.RequestTimeout, clock),
		cache:   cache,
		policy: Policy{
			MaxRetries: cfg.FetchMaxRetries,
			RetryDelay: cfg.FetchRetryDelay,
			Backoff:    BackoffFixed,
		},
	}
}

type providerProfile struct {
	Name                 string  `json:"name"`
	Ticker               string  `json:"ticker"`
	Exchange             string  `json:"exchange"`
	FinnhubIndustry      string  `json:"finnhubIndustry"`
	MarketCapitalization float64 `json:"marketCapitalization"`
	Logo                 string  `json:"logo"`
	Weburl               string  `json:"weburl"`
	Country              string  `json:"country"`
	Currency             string  `json:"currency"`
}

func (c *ReferenceClient) Overview(ctx context.Context, symbol string) (models.OverviewResponse, bool, error) {
	symbol = NormalizeSymbol(symbol)
	if c.cfg.RefAPIKey == "" {
		return models.OverviewResponse{}, false, errors.Wrap(ErrMissingCredential, "reference provider")
	}
	key := "overview:v1:" + symbol
	return FillThrough(ctx, c.cache, &c.sf, key, c.cfg.CacheTTLOverview, func() (models.OverviewResponse, error) {
		v := url.Values{}
		v.Set("symbol", symbol)
		v.Set("token", c.cfg.RefAPIKey)
		endpoint := fmt.Sprintf("%s/stock/profile2?%s", strings.TrimRight(c.cfg.RefBaseURL, "/"), v.Encode())

		var raw providerProfile
		if err := c.fetcher.GetJSON(ctx, endpoint, c.policy, &raw); err != nil {
			return models.OverviewResponse{}, err
		}
		return models.OverviewResponse{
			Symbol:    symbol,
			Name:      raw.Name,
			Exchange:  raw.Exchange,
			Industry:  raw.FinnhubIndustry,
			MarketCap: raw.MarketCapitalization,
			Logo:      raw.Logo,
			WebURL:    raw.Weburl,
			Country:   raw.Country,
			Currency:  raw.Currency,
			TsISO:     time.Now().UTC().Format(time.RFC3339),
		}, nil
	})
}
