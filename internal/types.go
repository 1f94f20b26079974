package internal

import "time"

// IconJob is the persisted record of a single icon generation request.
type IconJob struct {
	ID          string    `json:"id"`
	ArtStyle    string    `json:"art_style"`
	Description string    `json:"description"`
	Timestamp   time.Time `json:"timestamp"`
}
