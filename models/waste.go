package models

// WasteItem is a simulated nearby waste marker for the map view. Items are
// ephemeral: regenerated on every location update and never persisted or
// merged with real report data.
type WasteItem struct {
	ID             string    `json:"id"`
	Lat            float64   `json:"lat"`
	Lng            float64   `json:"lng"`
	Type           WasteType `json:"type"`
	Description    string    `json:"description,omitempty"`
	DistanceMeters int       `json:"distanceMeters"`
}
