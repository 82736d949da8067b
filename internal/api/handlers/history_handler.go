package handlers

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/sehadigital/roomstatus/internal/application/services"
	"github.com/sehadigital/roomstatus/internal/domain/entities"
)

// HistoryReader defines the history operations used by the handler.
type HistoryReader interface {
	History(ctx context.Context, filter services.HistoryFilter) ([]entities.HistoryRecord, error)
}

// HistoryHandler handles history HTTP requests
type HistoryHandler struct {
	history HistoryReader
}

// NewHistoryHandler creates a new history handler
func NewHistoryHandler(history HistoryReader) *HistoryHandler {
	return &HistoryHandler{history: history}
}

// GetHistory handles GET /api/history
func (h *HistoryHandler) GetHistory(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	filter := services.HistoryFilter{}

	if raw := query.Get("wardId"); raw != "" {
		wardID, err := strconv.Atoi(raw)
		if err != nil {
			respondWithError(w, http.StatusBadRequest, "invalid wardId")
			return
		}
		filter.WardID = wardID
	}
	if raw := query.Get("roomId"); raw != "" {
		roomID, err := strconv.Atoi(raw)
		if err != nil {
			respondWithError(w, http.StatusBadRequest, "invalid roomId")
			return
		}
		filter.RoomID = roomID
	}
	if raw := query.Get("startDate"); raw != "" {
		if _, err := time.Parse("2006-01-02", raw); err != nil {
			respondWithError(w, http.StatusBadRequest, "startDate must be YYYY-MM-DD")
			return
		}
		filter.StartDate = raw
	}
	if raw := query.Get("endDate"); raw != "" {
		if _, err := time.Parse("2006-01-02", raw); err != nil {
			respondWithError(w, http.StatusBadRequest, "endDate must be YYYY-MM-DD")
			return
		}
		filter.EndDate = raw
	}

	records, err := h.history.History(r.Context(), filter)
	if err != nil {
		respondWithServiceError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"history": records,
		"count":   len(records),
	})
}
