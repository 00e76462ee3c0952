package handlers

import (
	"net/http"
	"strings"
)

func (a *API) Quote(w http.ResponseWriter, r *http.Request) {
	symbol := strings.TrimSpace(r.URL.Query().Get("symbol"))
	if symbol == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Symbol parameter is required"})
		return
	}

	ctx, cancel := timeboxed(r, a.cfg.RequestTimeout)
	defer cancel()

	resp, _, err := a.market.Quote(ctx, symbol)
	if err != nil {
		writeUpstreamError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (a *API) Stock(w http.ResponseWriter, r *http.Request) {
	symbol := strings.TrimSpace(r.URL.Query().Get("symbol"))
	if symbol == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Symbol parameter is required"})
		return
	}

	// The composite runs four sequential upstream legs with pacing, so it
	// gets a wider deadline than single-fetch routes.
	ctx, cancel := timeboxed(r, 4*a.cfg.RequestTimeout+3*a.cfg.ComposeDelay)
	defer cancel()

	resp, _, err := a.market.Stock(ctx, symbol)
	if err != nil {
		writeUpstreamError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}
