package handlers

import (
	"context"
	"net/http"
	"strings"

	"marketlens/backend-go/internal/models"
)

// Indicator bundles are collected one sub-fetch at a time against a provider
// quota of a few requests per minute; a cold-cache bundle legitimately takes
// minutes, so these routes run without the standard request timeout.
func (a *API) Indicators(w http.ResponseWriter, r *http.Request) {
	a.serveBundle(w, r, a.market.Indicators)
}

func (a *API) Technicals(w http.ResponseWriter, r *http.Request) {
	a.serveBundle(w, r, a.market.Technicals)
}

func (a *API) serveBundle(w http.ResponseWriter, r *http.Request, fetch func(context.Context, string) (models.IndicatorBundle, bool, error)) {
	symbol := strings.TrimSpace(r.URL.Query().Get("symbol"))
	if symbol == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Symbol parameter is required"})
		return
	}

	resp, _, err := fetch(r.Context(), symbol)
	if err != nil {
		writeUpstreamError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}
