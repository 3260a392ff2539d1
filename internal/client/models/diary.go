package models

import "time"

// DiaryEntry is a field-diary note, optionally linked to a site.
type DiaryEntry struct {
	ID             string    `json:"id,omitempty"`
	Title          string    `json:"title"`
	Content        string    `json:"content"`
	Category       string    `json:"category"`
	SiteID         string    `json:"siteId,omitempty"`
	ImageURL       string    `json:"imageUrl,omitempty"`
	AIImageSummary string    `json:"aiImageSummary,omitempty"`
	CreatedAt      time.Time `json:"createdAt,omitempty"`
}
