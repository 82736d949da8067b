package entities

import "strings"

// Status is a room's occupancy state. The remote list store holds it as
// free text, so only the three canonical values below are meaningful.
type Status string

const (
	StatusAvailable   Status = "available"
	StatusOccupied    Status = "occupied"
	StatusForCleaning Status = "for cleaning"
)

// CanonicalStatuses lists the three recognized statuses.
var CanonicalStatuses = []Status{StatusAvailable, StatusOccupied, StatusForCleaning}

// IsCanonical reports whether s is one of the three recognized statuses.
func IsCanonical(s Status) bool {
	switch s {
	case StatusAvailable, StatusOccupied, StatusForCleaning:
		return true
	}
	return false
}

// NormalizeStatus maps a stored status string onto a canonical Status.
// The list store has accumulated free-text and legacy values, so the
// mapping is deliberately permissive: exact matches pass through,
// recognizable fragments are mapped, and anything else falls back to
// available. The result is always canonical, and normalizing twice gives
// the same answer as normalizing once.
func NormalizeStatus(raw string) Status {
	normalized := strings.TrimSpace(strings.ToLower(raw))
	if IsCanonical(Status(normalized)) {
		return Status(normalized)
	}

	switch {
	case strings.Contains(normalized, "avail"), strings.Contains(normalized, "avl"):
		return StatusAvailable
	case strings.Contains(normalized, "occup"):
		return StatusOccupied
	case strings.Contains(normalized, "clean"):
		return StatusForCleaning
	}

	return StatusAvailable
}
