package entities

import "time"

// HistoryRecord is an immutable log entry of one status transition.
// Records are append-only; no update or delete path exists.
type HistoryRecord struct {
	ID             int       `json:"id"`
	RoomID         int       `json:"roomId"`
	WardID         int       `json:"wardId"`
	WardName       string    `json:"wardName"`
	PreviousStatus string    `json:"previousStatus"`
	NewStatus      string    `json:"newStatus"`
	Timestamp      time.Time `json:"timestamp"`
	ChangedBy      string    `json:"changedBy"`
}
