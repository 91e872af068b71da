// Package prefs persists the CLI's saved artist in a TOML file.
package prefs

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
)

const (
	configDirName = "omakase-shuffle"
	artistFile    = "artist.toml"
)

// SavedArtist is the artist the user last resolved.
type SavedArtist struct {
	ArtistQuery       string    `toml:"artist_query"`
	ArtistID          string    `toml:"artist_id"`
	ArtistDisplayName string    `toml:"artist_display_name"`
	SavedAt           time.Time `toml:"saved_at,omitempty"`
}

// Valid reports whether the saved artist can be used for a random pick.
func (a SavedArtist) Valid() bool {
	return strings.TrimSpace(a.ArtistQuery) != "" && strings.TrimSpace(a.ArtistID) != ""
}

// Store reads and writes the saved artist file.
type Store struct {
	path string
}

// DefaultStore returns a Store using the default location:
// ~/.config/omakase-shuffle/artist.toml
func DefaultStore() (*Store, error) {
	configDir, err := os.UserConfigDir()
	if err != nil {
		return nil, fmt.Errorf("getting user config dir: %w", err)
	}

	return &Store{path: filepath.Join(configDir, configDirName, artistFile)}, nil
}

// NewStore creates a Store with a custom path.
func NewStore(path string) *Store {
	return &Store{path: path}
}

// Path returns the file path where the artist is stored.
func (s *Store) Path() string {
	return s.path
}

// Load reads the saved artist.
// Returns (nil, nil) if the file does not exist or the query or id is empty.
func (s *Store) Load() (*SavedArtist, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("reading artist file: %w", err)
	}

	var artist SavedArtist
	if err := toml.Unmarshal(data, &artist); err != nil {
		return nil, fmt.Errorf("parsing artist file: %w", err)
	}

	if !artist.Valid() {
		return nil, nil
	}

	return &artist, nil
}

// Save writes the artist, creating the parent directory if needed.
func (s *Store) Save(artist SavedArtist) error {
	if !artist.Valid() {
		return errors.New("cannot save artist without query and id")
	}
	if artist.SavedAt.IsZero() {
		artist.SavedAt = time.Now().UTC().Truncate(time.Second)
	}

	if err := os.MkdirAll(filepath.Dir(s.path), 0700); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(artist); err != nil {
		return fmt.Errorf("encoding artist: %w", err)
	}

	if err := os.WriteFile(s.path, buf.Bytes(), 0600); err != nil {
		return fmt.Errorf("writing artist file: %w", err)
	}

	return nil
}

// Delete removes the saved artist.
// Returns nil if the file does not exist.
func (s *Store) Delete() error {
	err := os.Remove(s.path)
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("removing artist file: %w", err)
	}
	return nil
}
