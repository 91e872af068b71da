package db

import (
	"time"

	"github.com/google/uuid"
)

// SavedArtist is the artist a device last chose.
type SavedArtist struct {
	DeviceID          uuid.UUID
	ArtistQuery       string
	ArtistID          string
	ArtistDisplayName string
	CreatedAt         time.Time
	UpdatedAt         time.Time
}
