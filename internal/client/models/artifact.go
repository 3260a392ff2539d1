package models

import "time"

// Artifact is a cataloged find, tied to the site it was excavated from.
// ID is empty until the remote store assigns one.
type Artifact struct {
	ID             string    `json:"id,omitempty"`
	SiteID         string    `json:"siteId"`
	Name           string    `json:"name"`
	Description    string    `json:"description"`
	Material       string    `json:"material"`
	Period         string    `json:"period"`
	Latitude       float64   `json:"latitude,omitempty"`
	Longitude      float64   `json:"longitude,omitempty"`
	ImageURL       string    `json:"imageUrl,omitempty"`
	AIImageSummary string    `json:"aiImageSummary,omitempty"`
	DiscoveredAt   time.Time `json:"discoveredAt,omitempty"`
}
