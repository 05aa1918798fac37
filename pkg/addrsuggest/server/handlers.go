package server

import (
	"encoding/json"
	"net/http"

	"github.com/nekruzvatanshoev/addrsuggest/pkg/addrsuggest/dal"
)

// HealthReport reports liveness.
type HealthReport struct {
	Status string `json:"status"`
}

// GetSuggestions defines a GET handler returning address suggestions for q.
// It answers 200 even when the dataset is unreachable.
func (h *httpServer) GetSuggestions(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("q")

	suggestions := h.svc.Suggest(r.Context(), query)

	h.sendJSON(w, r, http.StatusOK, dal.NewSuggestionResponse(suggestions))
}

// Health defines a GET handler for liveness probes.
func (h *httpServer) Health(w http.ResponseWriter, r *http.Request) {
	h.sendJSON(w, r, http.StatusOK, HealthReport{Status: "ok"})
}

// recoverSuggestions keeps the autocomplete contract when a handler panics.
func (h *httpServer) recoverSuggestions(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				h.log.WithContext(r.Context()).Error("autocomplete panic", "panic", rec)
				h.sendJSON(w, r, http.StatusOK, dal.NewSuggestionResponse(nil))
			}
		}()
		next(w, r)
	}
}

func (h *httpServer) sendJSON(w http.ResponseWriter, r *http.Request, status int, object interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(object); err != nil {
		h.log.WithContext(r.Context()).Error("encode response", "error", err)
	}
}
