package handlers

import (
	"fmt"
	"net/http"
	"strings"

	"marketlens/backend-go/internal/models"
	"marketlens/backend-go/internal/services"
)

func (a *API) Crypto(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	page := parseIntParam(q.Get("page"), 1, 1, 500)
	perPage := parseIntParam(q.Get("perPage"), 20, 1, 200)
	search := strings.TrimSpace(q.Get("searchQuery"))

	cacheKey := fmt.Sprintf("crypto:v1:%s:%d:%d", strings.ToLower(search), page, perPage)
	if a.cache != nil {
		if b, ok := a.cache.Get(r.Context(), cacheKey); ok {
			var cached models.CryptoPageResponse
			if err := services.UnmarshalCache(b, &cached); err == nil {
				writeJSON(w, http.StatusOK, cached)
				return
			}
		}
	}

	ctx, cancel := timeboxed(r, a.cfg.RequestTimeout)
	defer cancel()
	pairs, _, err := a.market.CryptoPairs(ctx)
	if err != nil {
		writeUpstreamError(w, err)
		return
	}

	filtered := filterCryptoPairs(pairs, search)
	total := len(filtered)
	paged := pageSlice(filtered, page, perPage)

	out := models.CryptoPageResponse{
		TsISO:       nowISO(),
		Page:        page,
		PerPage:     perPage,
		Total:       total,
		SearchQuery: search,
		Items:       paged,
	}
	if a.cache != nil {
		if b, err := services.MarshalCache(out); err == nil {
			_ = a.cache.Set(r.Context(), cacheKey, b, a.cfg.CacheTTLDirectory)
		}
	}
	writeJSON(w, http.StatusOK, out)
}

func filterCryptoPairs(pairs []models.CryptoPair, search string) []models.CryptoPair {
	if search == "" {
		return pairs
	}
	needle := strings.ToLower(search)
	out := make([]models.CryptoPair, 0, len(pairs))
	for _, p := range pairs {
		text := strings.ToLower(p.Symbol + " " + p.CurrencyBase + " " + p.CurrencyQuote)
		if strings.Contains(text, needle) {
			out = append(out, p)
		}
	}
	return out
}
