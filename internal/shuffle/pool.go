package shuffle

import (
	"context"
	"fmt"

	"github.com/justestif/go-omakase-shuffle/internal/spotify"
)

// Pool bounds. At most MaxOffset/PageSize page fetches are made per build.
const (
	PageSize        = 20
	MaxOffset       = 1000
	MaxUniqueTracks = 200
)

// TrackSearcher is the part of the catalog the PoolBuilder needs.
type TrackSearcher interface {
	SearchTracksByArtistName(ctx context.Context, name string, offset, limit int) (spotify.TrackPage, error)
}

// PoolBuilder pages through an artist's tracks and collects a bounded,
// deduplicated pool to pick from.
type PoolBuilder struct {
	searcher TrackSearcher
}

// NewPoolBuilder creates a PoolBuilder backed by searcher.
func NewPoolBuilder(searcher TrackSearcher) *PoolBuilder {
	return &PoolBuilder{searcher: searcher}
}

// Build returns up to MaxUniqueTracks tracks credited to artistName, in
// catalog order with duplicate ids dropped. Pages are fetched one after
// another until the pool is full, the catalog runs out, or MaxOffset is hit.
func (b *PoolBuilder) Build(ctx context.Context, artistName string) ([]spotify.Track, error) {
	pool := make([]spotify.Track, 0, PageSize)
	seen := make(map[string]struct{})

	offset := 0
	knownTotal := -1 // unknown until the first page

	for len(pool) < MaxUniqueTracks && offset < MaxOffset && (knownTotal < 0 || offset < knownTotal) {
		page, err := b.searcher.SearchTracksByArtistName(ctx, artistName, offset, PageSize)
		if err != nil {
			return nil, fmt.Errorf("fetching tracks at offset %d: %w", offset, err)
		}
		knownTotal = page.Total

		for _, t := range page.Items {
			if _, ok := seen[t.ID]; ok {
				continue
			}
			seen[t.ID] = struct{}{}
			pool = append(pool, t)
			if len(pool) >= MaxUniqueTracks {
				break
			}
		}

		if len(page.Items) == 0 {
			break
		}
		offset += PageSize
	}

	if len(pool) == 0 {
		return nil, fmt.Errorf("%w: %q", ErrNoTracksFound, artistName)
	}

	return pool, nil
}
