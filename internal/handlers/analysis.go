package handlers

import (
	"fmt"
	"net/http"
	"strings"

	"marketlens/backend-go/internal/models"
)

// Analysis pairs the cached quote with a one-shot LLM summary. The result is
// deliberately not cached: completions are not deterministic and the quote
// underneath already is.
func (a *API) Analysis(w http.ResponseWriter, r *http.Request) {
	symbol := strings.TrimSpace(r.URL.Query().Get("symbol"))
	if symbol == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Symbol parameter is required"})
		return
	}

	ctx, cancel := timeboxed(r, a.cfg.LLMTimeout)
	defer cancel()

	quote, _, err := a.market.Quote(ctx, symbol)
	if err != nil {
		writeUpstreamError(w, err)
		return
	}

	prompt := fmt.Sprintf(
		"In two sentences, summarize the trading picture for %s: last price %.2f, day change %.2f (%.2f%%), volume %d.",
		quote.Symbol, quote.Price, quote.Change, quote.ChangePercent, quote.Volume,
	)
	summary, err := a.llm.Complete(ctx, prompt)
	if err != nil {
		writeUpstreamError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, models.AnalysisResponse{
		Symbol:  quote.Symbol,
		Quote:   quote,
		Summary: summary,
		TsISO:   nowISO(),
	})
}
