package db

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// SavedArtistRepository handles saved artist database operations.
type SavedArtistRepository struct {
	pool *pgxpool.Pool
}

// Upsert stores the artist for its device, replacing any earlier choice.
func (r *SavedArtistRepository) Upsert(ctx context.Context, artist *SavedArtist) error {
	query := `
		INSERT INTO saved_artists (device_id, artist_query, artist_id, artist_display_name, created_at, updated_at)
		VALUES ($1, $2, $3, $4, NOW(), NOW())
		ON CONFLICT (device_id) DO UPDATE SET
			artist_query = EXCLUDED.artist_query,
			artist_id = EXCLUDED.artist_id,
			artist_display_name = EXCLUDED.artist_display_name,
			updated_at = NOW()
		RETURNING created_at, updated_at
	`
	err := r.pool.QueryRow(ctx, query,
		artist.DeviceID.String(),
		artist.ArtistQuery,
		artist.ArtistID,
		artist.ArtistDisplayName,
	).Scan(&artist.CreatedAt, &artist.UpdatedAt)
	if err != nil {
		return fmt.Errorf("upserting saved artist: %w", err)
	}
	return nil
}

// Get retrieves the saved artist for a device.
func (r *SavedArtistRepository) Get(ctx context.Context, deviceID uuid.UUID) (*SavedArtist, error) {
	query := `
		SELECT device_id::text, artist_query, artist_id, artist_display_name, created_at, updated_at
		FROM saved_artists
		WHERE device_id = $1
	`
	var (
		artist SavedArtist
		id     string
	)
	err := r.pool.QueryRow(ctx, query, deviceID.String()).Scan(
		&id,
		&artist.ArtistQuery,
		&artist.ArtistID,
		&artist.ArtistDisplayName,
		&artist.CreatedAt,
		&artist.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("querying saved artist: %w", err)
	}

	artist.DeviceID, err = uuid.Parse(id)
	if err != nil {
		return nil, fmt.Errorf("parsing device id: %w", err)
	}
	return &artist, nil
}

// Delete removes the saved artist for a device.
func (r *SavedArtistRepository) Delete(ctx context.Context, deviceID uuid.UUID) error {
	query := `DELETE FROM saved_artists WHERE device_id = $1`
	_, err := r.pool.Exec(ctx, query, deviceID.String())
	if err != nil {
		return fmt.Errorf("deleting saved artist: %w", err)
	}
	return nil
}

// DeleteStale removes saved artists not touched since before cutoff.
func (r *SavedArtistRepository) DeleteStale(ctx context.Context, cutoff time.Time) (int64, error) {
	query := `DELETE FROM saved_artists WHERE updated_at < $1`
	result, err := r.pool.Exec(ctx, query, cutoff)
	if err != nil {
		return 0, fmt.Errorf("deleting stale saved artists: %w", err)
	}
	return result.RowsAffected(), nil
}
