package handlers_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sehadigital/roomstatus/internal/api/handlers"
	"github.com/sehadigital/roomstatus/internal/domain/entities"
	"github.com/sehadigital/roomstatus/pkg/apperrors"
)

type stubWardService struct {
	summaries    []entities.WardSummary
	summariesErr error
	cached       []entities.WardSummary
	addErr       error
	addedWards   []string
}

func (s *stubWardService) Summaries(ctx context.Context) ([]entities.WardSummary, error) {
	return s.summaries, s.summariesErr
}

func (s *stubWardService) Cached() []entities.WardSummary {
	return s.cached
}

func (s *stubWardService) AddWard(ctx context.Context, name, icon, description string) error {
	s.addedWards = append(s.addedWards, name)
	return s.addErr
}

func TestWardHandler_ListWards(t *testing.T) {
	service := &stubWardService{
		summaries: []entities.WardSummary{{WardID: 7, Name: "ICU", TotalRooms: 5}},
	}
	handler := handlers.NewWardHandler(service, service)

	w := httptest.NewRecorder()
	handler.ListWards(w, httptest.NewRequest("GET", "/api/wards", nil))

	assert.Equal(t, http.StatusOK, w.Code)

	var payload struct {
		Wards []entities.WardSummary `json:"wards"`
		Count int                    `json:"count"`
	}
	require.NoError(t, json.NewDecoder(w.Body).Decode(&payload))
	assert.Equal(t, 1, payload.Count)
	assert.Equal(t, "ICU", payload.Wards[0].Name)
}

func TestWardHandler_ListWards_FallsBackToCachedSnapshot(t *testing.T) {
	service := &stubWardService{
		summariesErr: apperrors.NewUnavailableError("proxy unreachable", errors.New("dial refused")),
		cached:       []entities.WardSummary{{WardID: 7, Name: "ICU", TotalRooms: 5}},
	}
	handler := handlers.NewWardHandler(service, service)

	w := httptest.NewRecorder()
	handler.ListWards(w, httptest.NewRequest("GET", "/api/wards", nil))

	assert.Equal(t, http.StatusOK, w.Code)

	var payload struct {
		Wards []entities.WardSummary `json:"wards"`
		Stale bool                   `json:"stale"`
	}
	require.NoError(t, json.NewDecoder(w.Body).Decode(&payload))
	assert.True(t, payload.Stale)
	assert.Len(t, payload.Wards, 1)
}

func TestWardHandler_ListWards_NoCacheSurfacesError(t *testing.T) {
	service := &stubWardService{
		summariesErr: apperrors.NewUnavailableError("proxy unreachable", errors.New("dial refused")),
	}
	handler := handlers.NewWardHandler(service, service)

	w := httptest.NewRecorder()
	handler.ListWards(w, httptest.NewRequest("GET", "/api/wards", nil))

	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}

func TestWardHandler_AddWard(t *testing.T) {
	service := &stubWardService{}
	handler := handlers.NewWardHandler(service, service)

	body := `{"name":"Maternity","icon":"🤰"}`
	w := httptest.NewRecorder()
	handler.AddWard(w, httptest.NewRequest("POST", "/api/wards", strings.NewReader(body)))

	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, []string{"Maternity"}, service.addedWards)
}

func TestWardHandler_AddWard_Conflict(t *testing.T) {
	service := &stubWardService{addErr: apperrors.NewConflictError("a ward with this name already exists")}
	handler := handlers.NewWardHandler(service, service)

	body := `{"name":"ICU"}`
	w := httptest.NewRecorder()
	handler.AddWard(w, httptest.NewRequest("POST", "/api/wards", strings.NewReader(body)))

	assert.Equal(t, http.StatusConflict, w.Code)
}
