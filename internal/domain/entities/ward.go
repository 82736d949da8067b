package entities

// Ward is an organizational grouping of rooms (e.g. a hospital
// department). Wards are created by admins and never updated or deleted
// through this system.
type Ward struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
	Icon string `json:"icon,omitempty"`
}

// WardSummary is the per-ward occupancy snapshot shown on the board. It is
// derived from live room data on every poll cycle and never persisted.
type WardSummary struct {
	WardID     int            `json:"wardId"`
	Name       string         `json:"name"`
	Icon       string         `json:"icon,omitempty"`
	RoomCounts map[Status]int `json:"roomCounts"`
	TotalRooms int            `json:"totalRooms"`
}
