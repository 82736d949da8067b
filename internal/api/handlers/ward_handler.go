package handlers

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/rs/zerolog/log"

	"github.com/sehadigital/roomstatus/internal/domain/entities"
)

// WardSummaryReader defines the summary operations used by the handler.
type WardSummaryReader interface {
	Summaries(ctx context.Context) ([]entities.WardSummary, error)
	Cached() []entities.WardSummary
}

// WardAdmin defines the admin operations used by the handler.
type WardAdmin interface {
	AddWard(ctx context.Context, name, icon, description string) error
}

// WardHandler handles ward-level HTTP requests
type WardHandler struct {
	summaries WardSummaryReader
	admin     WardAdmin
}

// NewWardHandler creates a new ward handler
func NewWardHandler(summaries WardSummaryReader, admin WardAdmin) *WardHandler {
	return &WardHandler{summaries: summaries, admin: admin}
}

// ListWards handles GET /api/wards. A failed live aggregation falls back
// to the poller's last good snapshot instead of clearing the board.
func (h *WardHandler) ListWards(w http.ResponseWriter, r *http.Request) {
	summaries, err := h.summaries.Summaries(r.Context())
	if err != nil {
		if cached := h.summaries.Cached(); cached != nil {
			log.Warn().Err(err).Msg("serving cached ward summaries")
			respondWithJSON(w, http.StatusOK, map[string]interface{}{
				"wards": cached,
				"stale": true,
			})
			return
		}
		respondWithServiceError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"wards": summaries,
		"count": len(summaries),
	})
}

type addWardRequest struct {
	Name        string `json:"name"`
	Icon        string `json:"icon"`
	Description string `json:"description"`
}

// AddWard handles POST /api/wards
func (h *WardHandler) AddWard(w http.ResponseWriter, r *http.Request) {
	var payload addWardRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid request payload")
		return
	}

	if err := h.admin.AddWard(r.Context(), payload.Name, payload.Icon, payload.Description); err != nil {
		respondWithServiceError(w, err)
		return
	}

	respondWithJSON(w, http.StatusCreated, map[string]string{"status": "created"})
}
