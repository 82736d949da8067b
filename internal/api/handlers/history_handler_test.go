package handlers_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sehadigital/roomstatus/internal/api/handlers"
	"github.com/sehadigital/roomstatus/internal/application/services"
	"github.com/sehadigital/roomstatus/internal/domain/entities"
)

type stubHistoryService struct {
	lastFilter services.HistoryFilter
	records    []entities.HistoryRecord
}

func (s *stubHistoryService) History(ctx context.Context, filter services.HistoryFilter) ([]entities.HistoryRecord, error) {
	s.lastFilter = filter
	return s.records, nil
}

func TestHistoryHandler_PassesFilterThrough(t *testing.T) {
	service := &stubHistoryService{
		records: []entities.HistoryRecord{
			{ID: 1, RoomID: 5, WardID: 7, WardName: "ICU", NewStatus: "occupied", Timestamp: time.Date(2024, 1, 15, 8, 0, 0, 0, time.UTC)},
		},
	}
	handler := handlers.NewHistoryHandler(service)

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/api/history?wardId=7&roomId=5&startDate=2024-01-01&endDate=2024-01-31", nil)
	handler.GetHistory(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, services.HistoryFilter{
		WardID:    7,
		RoomID:    5,
		StartDate: "2024-01-01",
		EndDate:   "2024-01-31",
	}, service.lastFilter)

	var payload struct {
		History []entities.HistoryRecord `json:"history"`
		Count   int                      `json:"count"`
	}
	require.NoError(t, json.NewDecoder(w.Body).Decode(&payload))
	assert.Equal(t, 1, payload.Count)
	assert.Equal(t, "ICU", payload.History[0].WardName)
}

func TestHistoryHandler_RejectsBadDates(t *testing.T) {
	service := &stubHistoryService{}
	handler := handlers.NewHistoryHandler(service)

	w := httptest.NewRecorder()
	handler.GetHistory(w, httptest.NewRequest("GET", "/api/history?startDate=january", nil))

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestHistoryHandler_RejectsBadWardID(t *testing.T) {
	service := &stubHistoryService{}
	handler := handlers.NewHistoryHandler(service)

	w := httptest.NewRecorder()
	handler.GetHistory(w, httptest.NewRequest("GET", "/api/history?wardId=icu", nil))

	assert.Equal(t, http.StatusBadRequest, w.Code)
}
