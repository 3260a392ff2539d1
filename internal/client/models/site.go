// Package models defines client-side data models used by the ArchePal field
// client: excavation sites, artifacts, diary entries, and the offline queue
// and cache envelopes that carry them.
package models

// Site is an excavation site as served by the remote document store.
type Site struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Period      string  `json:"period"`
	Latitude    float64 `json:"latitude"`
	Longitude   float64 `json:"longitude"`
	ImageURL    string  `json:"imageUrl,omitempty"`
}
