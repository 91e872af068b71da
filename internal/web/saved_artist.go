package web

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/justestif/go-omakase-shuffle/internal/db"
)

const (
	deviceCookieName = "omakase_device"
	deviceCookieTTL  = 365 * 24 * time.Hour
)

// ErrNoSavedArtist is returned when a device has not saved an artist.
var ErrNoSavedArtist = errors.New("no saved artist")

// SavedArtist is the artist a device chose, kept so the next visit can pick
// a track without resolving again.
type SavedArtist struct {
	ArtistQuery       string    `json:"artistQuery"`
	ArtistID          string    `json:"artistId"`
	ArtistDisplayName string    `json:"artistDisplayName"`
	SavedAt           time.Time `json:"savedAt"`
}

// SavedArtistStore keeps one saved artist per device.
type SavedArtistStore interface {
	Get(ctx context.Context, deviceID uuid.UUID) (*SavedArtist, error)
	Save(ctx context.Context, deviceID uuid.UUID, artist SavedArtist) (*SavedArtist, error)
	Delete(ctx context.Context, deviceID uuid.UUID) error
}

// ============================================================================
// In-Memory Store (for development/testing)
// ============================================================================

// MemorySavedArtistStore keeps saved artists in memory.
type MemorySavedArtistStore struct {
	mu      sync.RWMutex
	artists map[uuid.UUID]SavedArtist
	now     func() time.Time
}

// NewMemorySavedArtistStore creates a new in-memory store.
func NewMemorySavedArtistStore() *MemorySavedArtistStore {
	return &MemorySavedArtistStore{
		artists: make(map[uuid.UUID]SavedArtist),
		now:     time.Now,
	}
}

// Get returns the device's saved artist or ErrNoSavedArtist.
func (s *MemorySavedArtistStore) Get(_ context.Context, deviceID uuid.UUID) (*SavedArtist, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	artist, ok := s.artists[deviceID]
	if !ok {
		return nil, ErrNoSavedArtist
	}
	return &artist, nil
}

// Save replaces the device's saved artist.
func (s *MemorySavedArtistStore) Save(_ context.Context, deviceID uuid.UUID, artist SavedArtist) (*SavedArtist, error) {
	artist.SavedAt = s.now()

	s.mu.Lock()
	s.artists[deviceID] = artist
	s.mu.Unlock()

	return &artist, nil
}

// Delete forgets the device's saved artist.
func (s *MemorySavedArtistStore) Delete(_ context.Context, deviceID uuid.UUID) error {
	s.mu.Lock()
	delete(s.artists, deviceID)
	s.mu.Unlock()
	return nil
}

// ============================================================================
// Database-Backed Store
// ============================================================================

// DBSavedArtistStore keeps saved artists in PostgreSQL.
type DBSavedArtistStore struct {
	database *db.DB
}

// NewDBSavedArtistStore creates a new database-backed store.
func NewDBSavedArtistStore(database *db.DB) *DBSavedArtistStore {
	return &DBSavedArtistStore{database: database}
}

// Get returns the device's saved artist or ErrNoSavedArtist.
func (s *DBSavedArtistStore) Get(ctx context.Context, deviceID uuid.UUID) (*SavedArtist, error) {
	row, err := s.database.SavedArtists().Get(ctx, deviceID)
	if errors.Is(err, db.ErrNotFound) {
		return nil, ErrNoSavedArtist
	}
	if err != nil {
		return nil, err
	}
	return fromRow(row), nil
}

// Save upserts the device's saved artist.
func (s *DBSavedArtistStore) Save(ctx context.Context, deviceID uuid.UUID, artist SavedArtist) (*SavedArtist, error) {
	row := &db.SavedArtist{
		DeviceID:          deviceID,
		ArtistQuery:       artist.ArtistQuery,
		ArtistID:          artist.ArtistID,
		ArtistDisplayName: artist.ArtistDisplayName,
	}
	if err := s.database.SavedArtists().Upsert(ctx, row); err != nil {
		return nil, err
	}
	return fromRow(row), nil
}

// Delete removes the device's saved artist.
func (s *DBSavedArtistStore) Delete(ctx context.Context, deviceID uuid.UUID) error {
	return s.database.SavedArtists().Delete(ctx, deviceID)
}

func fromRow(row *db.SavedArtist) *SavedArtist {
	return &SavedArtist{
		ArtistQuery:       row.ArtistQuery,
		ArtistID:          row.ArtistID,
		ArtistDisplayName: row.ArtistDisplayName,
		SavedAt:           row.UpdatedAt,
	}
}

// ============================================================================
// Device Cookie
// ============================================================================

// deviceFromRequest returns the device id from the request cookie.
func deviceFromRequest(r *http.Request) (uuid.UUID, bool) {
	cookie, err := r.Cookie(deviceCookieName)
	if err != nil {
		return uuid.Nil, false
	}
	id, err := uuid.Parse(cookie.Value)
	if err != nil || id == uuid.Nil {
		return uuid.Nil, false
	}
	return id, true
}

// ensureDevice returns the request's device id, issuing a new one in a
// cookie when the request has none.
func ensureDevice(w http.ResponseWriter, r *http.Request) uuid.UUID {
	if id, ok := deviceFromRequest(r); ok {
		return id
	}

	id := uuid.New()
	http.SetCookie(w, &http.Cookie{
		Name:     deviceCookieName,
		Value:    id.String(),
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   int(deviceCookieTTL.Seconds()),
	})
	return id
}

// Ensure both stores implement SavedArtistStore.
var (
	_ SavedArtistStore = (*MemorySavedArtistStore)(nil)
	_ SavedArtistStore = (*DBSavedArtistStore)(nil)
)
