package prefs

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestStore_SaveLoadDelete(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "artist.toml")
	store := NewStore(path)

	got, err := store.Load()
	if err != nil {
		t.Fatalf("Load() on missing file error = %v", err)
	}
	if got != nil {
		t.Fatalf("Load() on missing file = %+v, want nil", got)
	}

	saved := SavedArtist{
		ArtistQuery:       "example band",
		ArtistID:          "A1",
		ArtistDisplayName: "Example Band",
		SavedAt:           time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC),
	}
	if err := store.Save(saved); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("Stat() error = %v", err)
	}
	if perm := info.Mode().Perm(); perm != 0600 {
		t.Errorf("file mode = %o, want 600", perm)
	}

	got, err = store.Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if got == nil {
		t.Fatal("Load() = nil after Save()")
	}
	if got.ArtistQuery != saved.ArtistQuery || got.ArtistID != saved.ArtistID || got.ArtistDisplayName != saved.ArtistDisplayName {
		t.Errorf("Load() = %+v, want %+v", got, saved)
	}
	if !got.SavedAt.Equal(saved.SavedAt) {
		t.Errorf("SavedAt = %v, want %v", got.SavedAt, saved.SavedAt)
	}

	if err := store.Delete(); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if err := store.Delete(); err != nil {
		t.Errorf("second Delete() error = %v, want nil", err)
	}

	got, err = store.Load()
	if err != nil || got != nil {
		t.Errorf("Load() after Delete() = %+v, %v, want nil, nil", got, err)
	}
}

func TestStore_FileFormat(t *testing.T) {
	path := filepath.Join(t.TempDir(), "artist.toml")
	store := NewStore(path)

	err := store.Save(SavedArtist{ArtistQuery: "utada", ArtistID: "U1", ArtistDisplayName: "宇多田ヒカル"})
	if err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	for _, want := range []string{`artist_query = "utada"`, `artist_id = "U1"`, `artist_display_name = "宇多田ヒカル"`, "saved_at"} {
		if !strings.Contains(string(data), want) {
			t.Errorf("file %q missing %q", data, want)
		}
	}
}

func TestStore_LoadIncomplete(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"empty file", ""},
		{"missing id", `artist_query = "example band"` + "\n" + `artist_display_name = "Example Band"`},
		{"blank query", `artist_query = "  "` + "\n" + `artist_id = "A1"`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "artist.toml")
			if err := os.WriteFile(path, []byte(tt.content), 0600); err != nil {
				t.Fatal(err)
			}

			got, err := NewStore(path).Load()
			if err != nil {
				t.Fatalf("Load() error = %v", err)
			}
			if got != nil {
				t.Errorf("Load() = %+v, want nil", got)
			}
		})
	}
}

func TestStore_LoadCorrupt(t *testing.T) {
	path := filepath.Join(t.TempDir(), "artist.toml")
	if err := os.WriteFile(path, []byte("artist_query = [unterminated"), 0600); err != nil {
		t.Fatal(err)
	}

	if _, err := NewStore(path).Load(); err == nil {
		t.Error("Load() error = nil, want parse error")
	}
}

func TestStore_SaveRejectsIncomplete(t *testing.T) {
	store := NewStore(filepath.Join(t.TempDir(), "artist.toml"))

	if err := store.Save(SavedArtist{ArtistQuery: "x"}); err == nil {
		t.Error("Save() without id error = nil, want error")
	}
	if _, err := os.Stat(store.Path()); !os.IsNotExist(err) {
		t.Errorf("file should not exist after rejected Save(), stat err = %v", err)
	}
}

func TestDefaultStore(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)

	store, err := DefaultStore()
	if err != nil {
		t.Fatalf("DefaultStore() error = %v", err)
	}

	want := filepath.Join(dir, "omakase-shuffle", "artist.toml")
	if store.Path() != want {
		t.Errorf("Path() = %q, want %q", store.Path(), want)
	}
}
