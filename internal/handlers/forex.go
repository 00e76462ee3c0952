package handlers

import (
	"fmt"
	"net/http"
	"strings"

	"marketlens/backend-go/internal/models"
	"marketlens/backend-go/internal/services"
)

func (a *API) Forex(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	page := parseIntParam(q.Get("page"), 1, 1, 500)
	perPage := parseIntParam(q.Get("perPage"), 20, 1, 200)
	group := strings.TrimSpace(q.Get("currencyGroup"))
	search := strings.TrimSpace(q.Get("searchQuery"))

	cacheKey := fmt.Sprintf("forex:v1:%s:%s:%d:%d", strings.ToLower(group), strings.ToLower(search), page, perPage)
	if a.cache != nil {
		if b, ok := a.cache.Get(r.Context(), cacheKey); ok {
			var cached models.ForexPageResponse
			if err := services.UnmarshalCache(b, &cached); err == nil {
				writeJSON(w, http.StatusOK, cached)
				return
			}
		}
	}

	ctx, cancel := timeboxed(r, a.cfg.RequestTimeout)
	defer cancel()
	pairs, _, err := a.market.ForexPairs(ctx)
	if err != nil {
		writeUpstreamError(w, err)
		return
	}

	filtered := filterForexPairs(pairs, group, search)
	total := len(filtered)
	paged := pageSlice(filtered, page, perPage)

	out := models.ForexPageResponse{
		TsISO:         nowISO(),
		Page:          page,
		PerPage:       perPage,
		Total:         total,
		CurrencyGroup: group,
		SearchQuery:   search,
		Items:         paged,
	}
	if a.cache != nil {
		if b, err := services.MarshalCache(out); err == nil {
			_ = a.cache.Set(r.Context(), cacheKey, b, a.cfg.CacheTTLDirectory)
		}
	}
	writeJSON(w, http.StatusOK, out)
}

func (a *API) ForexPair(w http.ResponseWriter, r *http.Request) {
	symbol := strings.TrimSpace(r.URL.Query().Get("symbol"))
	if symbol == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Symbol parameter is required"})
		return
	}

	ctx, cancel := timeboxed(r, a.cfg.RequestTimeout)
	defer cancel()
	pairs, _, err := a.market.ForexPairs(ctx)
	if err != nil {
		writeUpstreamError(w, err)
		return
	}

	wanted := services.NormalizeSymbol(symbol)
	for _, p := range pairs {
		if services.NormalizeSymbol(p.Symbol) == wanted {
			writeJSON(w, http.StatusOK, p)
			return
		}
	}
	writeJSON(w, http.StatusNotFound, map[string]string{"error": "symbol not found"})
}

func filterForexPairs(pairs []models.ForexPair, group, search string) []models.ForexPair {
	out := make([]models.ForexPair, 0, len(pairs))
	needle := strings.ToLower(search)
	for _, p := range pairs {
		if group != "" && !strings.EqualFold(p.CurrencyGroup, group) {
			continue
		}
		if needle != "" {
			text := strings.ToLower(p.Symbol + " " + p.CurrencyBase + " " + p.CurrencyQuote)
			if !strings.Contains(text, needle) {
				continue
			}
		}
		out = append(out, p)
	}
	return out
}

func pageSlice[T any](items []T, page, perPage int) []T {
	total := len(items)
	start := (page - 1) * perPage
	if start > total {
		start = total
	}
	end := start + perPage
	if end > total {
		end = total
	}
	paged := []T{}
	if start < end {
		paged = items[start:end]
	}
	return paged
}
