package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/sirupsen/logrus"

	"marketlens/backend-go/internal/config"
	"marketlens/backend-go/internal/services"
)

type API struct {
	cfg    config.Config
	cache  services.Cache
	market *services.MarketClient
	ref    *services.ReferenceClient
	news   *services.NewsClient
	llm    *services.LLMClient
	log    *logrus.Entry
}

func New(cfg config.Config, cache services.Cache, clock clockwork.Clock) *API {
	return &API{
		cfg:    cfg,
		cache:  cache,
		market: services.NewMarketClient(cfg, cache, clock),
		ref:    services.NewReferenceClient(cfg, cache, clock),
		news:   services.NewNewsClient(cfg, cache, clock),
		llm:    services.NewLLMClient(cfg, clock),
		log:    logrus.WithField("component", "api"),
	}
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func parseIntParam(v string, def int, min int, max int) int {
	if v == "" {
		return def
	}
	var out int
	_, err := fmt.Sscanf(v, "%d", &out)
	if err != nil {
		return def
	}
	if out < min {
		return min
	}
	if out > max {
		return max
	}
	return out
}

func nowISO() string {
	return time.Now().UTC().Format(time.RFC3339)
}

func timeboxed(r *http.Request, d time.Duration) (context.Context, context.CancelFunc) {
	return context.WithTimeout(r.Context(), d)
}
