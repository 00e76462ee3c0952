package handlers

import (
	"net/http"
	"strings"
)

func (a *API) News(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	query := strings.TrimSpace(q.Get("q"))
	if query == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Query parameter is required"})
		return
	}
	page := parseIntParam(q.Get("page"), 1, 1, 100)
	pageSize := parseIntParam(q.Get("pageSize"), 20, 1, 100)

	ctx, cancel := timeboxed(r, a.cfg.RequestTimeout)
	defer cancel()

	resp, _, err := a.news.Search(ctx, query, page, pageSize)
	if err != nil {
		writeUpstreamError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}
