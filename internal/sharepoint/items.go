package sharepoint

// Item DTOs carry the store's own field names. The services translate
// them into domain entities.

// WardItem is one row of the Wards list.
type WardItem struct {
	ID    int    `json:"Id"`
	Title string `json:"Title"`
	Icon  string `json:"Icon"`
}

// RoomItem is one row of the Rooms list.
type RoomItem struct {
	ID          int    `json:"Id"`
	Title       string `json:"Title"`
	Status      string `json:"Status"`
	WardID      int    `json:"WardId"`
	WardName    string `json:"WardName"`
	LastUpdated string `json:"LastUpdated"`
}

// HistoryItem is one row of the StatusHistory list.
type HistoryItem struct {
	ID             int    `json:"Id"`
	RoomID         int    `json:"RoomId"`
	WardID         int    `json:"WardId"`
	PreviousStatus string `json:"PreviousStatus"`
	NewStatus      string `json:"NewStatus"`
	Timestamp      string `json:"Timestamp"`
	ChangedBy      string `json:"ChangedBy"`
}
