package services

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"

	"marketlens/backend-go/internal/config"
)

func testConfig(baseURL string) config.Config {
	return config.Config{
		MarketBaseURL:      baseURL,
		MarketAPIKey:       "test-key",
		CacheTTLQuote:      time.Minute,
		CacheTTLStock:      time.Minute,
		CacheTTLIndicators: time.Minute,
		CacheTTLDirectory:  time.Minute,
		CacheMaxEntries:    100,
		FetchMaxRetries:    3,
		FetchRetryDelay:    time.Millisecond,
		RequestTimeout:     2 * time.Second,
	}
}

func TestIndicatorBundlePartialTolerance(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		if r.URL.Query().Get("apikey") != "test-key" {
			t.Errorf("missing apikey on %s", r.URL.Path)
		}
		if strings.HasPrefix(r.URL.Path, "/macd") {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		_, _ = w.Write([]byte(`{"values":[{"datetime":"2026-08-28","value":"1.0"}],"status":"ok"}`))
	}))
	defer srv.Close()

	c := NewMarketClient(testConfig(srv.URL), NewMemoryCache(100), clockwork.NewRealClock())
	bundle, cached, err := c.Indicators(context.Background(), "aapl")
	if err != nil {
		t.Fatalf("bundle must tolerate one failed leg: %v", err)
	}
	if cached {
		t.Fatal("first fetch must not be a cache hit")
	}
	if bundle.Symbol != "AAPL" {
		t.Fatalf("expected normalized symbol, got %q", bundle.Symbol)
	}
	if len(bundle.Indicators) != 8 {
		t.Fatalf("expected 8 indicators, got %d", len(bundle.Indicators))
	}
	nulls := 0
	for name, raw := range bundle.Indicators {
		if bytes.Equal(raw, []byte("null")) {
			nulls++
			if name != "macd" {
				t.Fatalf("unexpected null indicator: %s", name)
			}
		}
	}
	if nulls != 1 {
		t.Fatalf("expected 1 null indicator, got %d", nulls)
	}
	if got := atomic.LoadInt32(&calls); got != 8 {
		t.Fatalf("expected 8 upstream calls, got %d", got)
	}

	// Second read is served from cache without upstream traffic.
	_, cached, err = c.Indicators(context.Background(), "AAPL")
	if err != nil || !cached {
		t.Fatalf("expected cache hit, cached=%v err=%v", cached, err)
	}
	if got := atomic.LoadInt32(&calls); got != 8 {
		t.Fatalf("cache hit must not refetch, got %d calls", got)
	}
}

func TestForexPairsDirectoryCached(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		if r.URL.Path != "/forex_pairs" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		_, _ = w.Write([]byte(`{"data":[{"symbol":"EUR/USD","currency_group":"Major","currency_base":"Euro","currency_quote":"US Dollar"}]}`))
	}))
	defer srv.Close()

	c := NewMarketClient(testConfig(srv.URL), NewMemoryCache(100), clockwork.NewRealClock())
	pairs, _, err := c.ForexPairs(context.Background())
	if err != nil {
		t.Fatalf("fetch failed: %v", err)
	}
	if len(pairs) != 1 || pairs[0].Symbol != "EUR/USD" {
		t.Fatalf("unexpected directory: %+v", pairs)
	}

	if _, _, err := c.ForexPairs(context.Background()); err != nil {
		t.Fatalf("cached fetch failed: %v", err)
	}
	if got := atomic.LoadInt32(&calls); got != 1 {
		t.Fatalf("expected one upstream call, got %d", got)
	}
}

func TestQuoteMissingCredential(t *testing.T) {
	cfg := testConfig("http://unused")
	cfg.MarketAPIKey = ""
	c := NewMarketClient(cfg, NewMemoryCache(100), clockwork.NewRealClock())
	if _, _, err := c.Quote(context.Background(), "AAPL"); err == nil {
		t.Fatal("expected missing credential error")
	}
}

func TestStockCompositeDegradesToNullLegs(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case strings.HasPrefix(r.URL.Path, "/quote"):
			_, _ = w.Write([]byte(`{"symbol":"AAPL","close":"150.00","change":"2.5","percent_change":"1.69","volume":"50000000"}`))
		case strings.HasPrefix(r.URL.Path, "/eod"):
			w.WriteHeader(http.StatusBadGateway)
		default:
			_, _ = w.Write([]byte(`{"price":"150.25"}`))
		}
	}))
	defer srv.Close()

	c := NewMarketClient(testConfig(srv.URL), NewMemoryCache(100), clockwork.NewRealClock())
	stock, _, err := c.Stock(context.Background(), "AAPL")
	if err != nil {
		t.Fatalf("composite must tolerate failed secondary legs: %v", err)
	}
	if stock.Quote.Price != 150.0 {
		t.Fatalf("unexpected quote price: %v", stock.Quote.Price)
	}
	if !bytes.Equal(stock.EOD, []byte("null")) {
		t.Fatalf("expected null eod leg, got %s", stock.EOD)
	}
	if bytes.Equal(stock.TimeSeries, []byte("null")) {
		t.Fatal("expected time series leg to be populated")
	}
}
