package models

import "time"

// DocumentPayload bundles the raw and rendered content of one document.
// It is computed fresh on every request; nothing is cached server-side.
type DocumentPayload struct {
	Path         string    `json:"path"`
	Title        string    `json:"title,omitempty"`
	Content      string    `json:"content"`
	HTML         string    `json:"html"`
	Checksum     string    `json:"checksum"`
	LastModified time.Time `json:"last_modified"`
}
