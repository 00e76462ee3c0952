package http

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"marketlens/backend-go/internal/config"
	"marketlens/backend-go/internal/handlers"
)

func NewRouter(cfg config.Config, api *handlers.API) http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/quote", api.Quote)
	mux.HandleFunc("/api/stock", api.Stock)
	mux.HandleFunc("/api/indicators", api.Indicators)
	mux.HandleFunc("/api/technicals", api.Technicals)
	mux.HandleFunc("/api/forex", api.Forex)
	mux.HandleFunc("/api/forex/pair", api.ForexPair)
	mux.HandleFunc("/api/crypto", api.Crypto)
	mux.HandleFunc("/api/overview", api.Overview)
	mux.HandleFunc("/api/news", api.News)
	mux.HandleFunc("/api/analysis", api.Analysis)
	mux.HandleFunc("/api/v1/health", api.Health)
	mux.Handle("/metrics", promhttp.Handler())

	h := http.Handler(mux)
	h = withRecovery(h)
	h = withMetrics(h)
	h = withLogging(h)
	h = withRateLimit(cfg.RateLimitPerMin)(h)
	h = withCORS(h)
	return h
}
