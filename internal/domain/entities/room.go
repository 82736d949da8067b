package entities

// Room is a trackable unit belonging to one ward. Status is the stored
// value lower-cased for display; callers that need a guaranteed canonical
// value run it through NormalizeStatus.
type Room struct {
	ID          int    `json:"id"`
	Number      string `json:"roomNumber"`
	Status      Status `json:"status"`
	WardID      int    `json:"wardId"`
	LastUpdated string `json:"lastUpdated,omitempty"`
}
