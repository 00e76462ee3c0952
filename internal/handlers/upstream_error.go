package handlers

import (
	"context"
	"errors"
	"net/http"

	"marketlens/backend-go/internal/services"
)

// writeUpstreamError translates fetch-layer failures into the JSON error
// envelope. All upstream and configuration failures surface as 500; the
// rate-limit case keeps its message so clients can tell exhaustion apart.
func writeUpstreamError(w http.ResponseWriter, err error) {
	if errors.Is(err, services.ErrMissingCredential) {
		writeJSON(w, http.StatusInternalServerError, map[string]any{"error": "server configuration error: " + err.Error()})
		return
	}
	if errors.Is(err, services.ErrRateLimited) {
		writeJSON(w, http.StatusInternalServerError, map[string]any{"error": err.Error()})
		return
	}
	var upErr *services.UpstreamError
	if errors.As(err, &upErr) {
		writeJSON(w, http.StatusInternalServerError, map[string]any{"error": "upstream api error", "details": upErr.Body})
		return
	}
	if errors.Is(err, context.DeadlineExceeded) {
		writeJSON(w, http.StatusInternalServerError, map[string]any{"error": "upstream timeout"})
		return
	}
	writeJSON(w, http.StatusInternalServerError, map[string]any{"error": err.Error()})
}
