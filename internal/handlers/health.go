package handlers

import (
	"net/http"
	"os"

	"marketlens/backend-go/internal/models"
)

func (a *API) Health(w http.ResponseWriter, r *http.Request) {
	resp := models.HealthResponse{
		Ok:      true,
		TsISO:   nowISO(),
		Service: "backend-go",
		Version: os.Getenv("SERVICE_VERSION"),
		Env: map[string]bool{
			"TWELVEDATA_API_KEY": a.cfg.MarketAPIKey != "",
			"FINNHUB_API_KEY":    a.cfg.RefAPIKey != "",
			"NEWS_API_KEY":       a.cfg.NewsAPIKey != "",
			"OPENAI_API_KEY":     a.cfg.LLMAPIKey != "",
			"REDIS_URL":          os.Getenv("REDIS_URL") != "",
		},
	}
	writeJSON(w, http.StatusOK, resp)
}
