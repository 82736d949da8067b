package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/sehadigital/roomstatus/internal/domain/entities"
)

// RoomReader defines the room read/mutate operations used by the handler.
type RoomReader interface {
	Rooms(ctx context.Context, wardID int) ([]entities.Room, error)
	UpdateRoomStatus(ctx context.Context, wardID, roomID int, newStatus entities.Status, ts time.Time) error
	ClearAllRooms(ctx context.Context, wardID int) error
}

// RoomAdmin defines the admin operations used by the handler.
type RoomAdmin interface {
	AddRoom(ctx context.Context, wardID int, number string, status entities.Status) error
}

// RoomHandler handles room-level HTTP requests
type RoomHandler struct {
	rooms RoomReader
	admin RoomAdmin
}

// NewRoomHandler creates a new room handler
func NewRoomHandler(rooms RoomReader, admin RoomAdmin) *RoomHandler {
	return &RoomHandler{rooms: rooms, admin: admin}
}

// GetWardRooms handles GET /api/wards/{id}/rooms
func (h *RoomHandler) GetWardRooms(w http.ResponseWriter, r *http.Request) {
	wardID, err := strconv.Atoi(r.PathValue("id"))
	if err != nil || wardID <= 0 {
		respondWithError(w, http.StatusBadRequest, "invalid ward id")
		return
	}

	rooms, err := h.rooms.Rooms(r.Context(), wardID)
	if err != nil {
		respondWithServiceError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"rooms": rooms,
		"count": len(rooms),
	})
}

type updateStatusRequest struct {
	WardID int    `json:"wardId"`
	Status string `json:"status"`
}

// UpdateRoomStatus handles PATCH /api/rooms/{id}/status
func (h *RoomHandler) UpdateRoomStatus(w http.ResponseWriter, r *http.Request) {
	roomID, err := strconv.Atoi(r.PathValue("id"))
	if err != nil || roomID <= 0 {
		respondWithError(w, http.StatusBadRequest, "invalid room id")
		return
	}

	var payload updateStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid request payload")
		return
	}
	if payload.WardID <= 0 {
		respondWithError(w, http.StatusBadRequest, "wardId is required")
		return
	}

	status := entities.Status(payload.Status)
	if !entities.IsCanonical(status) {
		respondWithError(w, http.StatusBadRequest, "status must be one of: available, occupied, for cleaning")
		return
	}

	if err := h.rooms.UpdateRoomStatus(r.Context(), payload.WardID, roomID, status, time.Now()); err != nil {
		respondWithServiceError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]string{"status": "updated"})
}

// ClearAllRooms handles POST /api/wards/{id}/rooms/clear
func (h *RoomHandler) ClearAllRooms(w http.ResponseWriter, r *http.Request) {
	wardID, err := strconv.Atoi(r.PathValue("id"))
	if err != nil || wardID <= 0 {
		respondWithError(w, http.StatusBadRequest, "invalid ward id")
		return
	}

	if err := h.rooms.ClearAllRooms(r.Context(), wardID); err != nil {
		respondWithServiceError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]string{"status": "cleared"})
}

type addRoomRequest struct {
	WardID int    `json:"wardId"`
	Number string `json:"number"`
	Status string `json:"status"`
}

// AddRoom handles POST /api/rooms
func (h *RoomHandler) AddRoom(w http.ResponseWriter, r *http.Request) {
	var payload addRoomRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid request payload")
		return
	}

	if err := h.admin.AddRoom(r.Context(), payload.WardID, payload.Number, entities.Status(payload.Status)); err != nil {
		respondWithServiceError(w, err)
		return
	}

	respondWithJSON(w, http.StatusCreated, map[string]string{"status": "created"})
}
