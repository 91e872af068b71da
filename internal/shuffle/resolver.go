package shuffle

import (
	"context"
	"fmt"
	"strings"

	"github.com/justestif/go-omakase-shuffle/internal/spotify"
)

// ArtistFinder is the part of the catalog the Resolver needs.
type ArtistFinder interface {
	SearchTopArtist(ctx context.Context, query string) (*spotify.Artist, error)
	FetchArtistByID(ctx context.Context, id string) spotify.ArtistLookup
}

// Resolver turns a free-text query or a known artist id into an artist.
type Resolver struct {
	finder ArtistFinder
}

// NewResolver creates a Resolver backed by finder.
func NewResolver(finder ArtistFinder) *Resolver {
	return &Resolver{finder: finder}
}

// Resolve looks the artist up by query when one is given, otherwise by id.
// A query takes precedence even when an id is also supplied.
func (r *Resolver) Resolve(ctx context.Context, query, id string) (spotify.Artist, error) {
	query = strings.TrimSpace(query)
	id = strings.TrimSpace(id)

	if query == "" && id == "" {
		return spotify.Artist{}, ErrInvalidInput
	}

	if query != "" {
		artist, err := r.finder.SearchTopArtist(ctx, query)
		if err != nil {
			return spotify.Artist{}, fmt.Errorf("searching artist %q: %w", query, err)
		}
		if artist == nil {
			return spotify.Artist{}, fmt.Errorf("%w: no match for %q", ErrArtistNotFound, query)
		}
		return *artist, nil
	}

	lookup := r.finder.FetchArtistByID(ctx, id)
	if !lookup.Found() {
		// Only the sentinel is wrapped: a failed lookup still reads as not found.
		return spotify.Artist{}, fmt.Errorf("%w: id %q (%s: %v)", ErrArtistNotFound, id, lookup.Status, lookup.Err)
	}

	return lookup.Artist, nil
}
