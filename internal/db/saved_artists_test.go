package db

import (
	"context"
	"errors"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
)

// openTestDB connects to OMAKASE_TEST_DATABASE_URL or skips the test.
func openTestDB(t *testing.T) *DB {
	t.Helper()

	url := os.Getenv("OMAKASE_TEST_DATABASE_URL")
	if url == "" {
		t.Skip("OMAKASE_TEST_DATABASE_URL not set")
	}

	ctx := context.Background()
	database, err := New(ctx, url)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	t.Cleanup(database.Close)

	if err := database.Migrate(ctx); err != nil {
		t.Fatalf("Migrate() error = %v", err)
	}
	// Migrations are idempotent.
	if err := database.Migrate(ctx); err != nil {
		t.Fatalf("second Migrate() error = %v", err)
	}

	return database
}

func TestSavedArtistRepository(t *testing.T) {
	database := openTestDB(t)
	repo := database.SavedArtists()
	ctx := context.Background()

	device := uuid.New()
	t.Cleanup(func() { _ = repo.Delete(context.Background(), device) })

	if _, err := repo.Get(ctx, device); !errors.Is(err, ErrNotFound) {
		t.Fatalf("Get() on empty = %v, want ErrNotFound", err)
	}

	first := &SavedArtist{DeviceID: device, ArtistQuery: "example", ArtistID: "A1", ArtistDisplayName: "Example Band"}
	if err := repo.Upsert(ctx, first); err != nil {
		t.Fatalf("Upsert() error = %v", err)
	}
	if first.CreatedAt.IsZero() || first.UpdatedAt.IsZero() {
		t.Error("Upsert() did not fill timestamps")
	}

	second := &SavedArtist{DeviceID: device, ArtistQuery: "other", ArtistID: "B2", ArtistDisplayName: "Other Band"}
	if err := repo.Upsert(ctx, second); err != nil {
		t.Fatalf("second Upsert() error = %v", err)
	}

	got, err := repo.Get(ctx, device)
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if got.DeviceID != device || got.ArtistID != "B2" || got.ArtistDisplayName != "Other Band" {
		t.Errorf("Get() = %+v, want the second artist", got)
	}
	if !got.CreatedAt.Equal(first.CreatedAt) {
		t.Errorf("CreatedAt changed on update: %v -> %v", first.CreatedAt, got.CreatedAt)
	}

	if err := repo.Delete(ctx, device); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if _, err := repo.Get(ctx, device); !errors.Is(err, ErrNotFound) {
		t.Errorf("Get() after Delete() = %v, want ErrNotFound", err)
	}
}

func TestSavedArtistRepository_DeleteStale(t *testing.T) {
	database := openTestDB(t)
	repo := database.SavedArtists()
	ctx := context.Background()

	device := uuid.New()
	if err := repo.Upsert(ctx, &SavedArtist{DeviceID: device, ArtistQuery: "q", ArtistID: "A1", ArtistDisplayName: "A"}); err != nil {
		t.Fatalf("Upsert() error = %v", err)
	}

	n, err := repo.DeleteStale(ctx, time.Now().Add(time.Hour))
	if err != nil {
		t.Fatalf("DeleteStale() error = %v", err)
	}
	if n < 1 {
		t.Errorf("DeleteStale() removed %d rows, want >= 1", n)
	}
	if _, err := repo.Get(ctx, device); !errors.Is(err, ErrNotFound) {
		t.Errorf("Get() after DeleteStale() = %v, want ErrNotFound", err)
	}
}
