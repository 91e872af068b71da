package shuffle

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"

	"github.com/justestif/go-omakase-shuffle/internal/spotify"
)

// fakeCatalog implements Catalog for testing.
type fakeCatalog struct {
	// artists maps a trimmed search query to its top result
	artists   map[string]spotify.Artist
	searchErr error

	// lookups maps an artist id to the lookup result
	lookups map[string]spotify.ArtistLookup

	// page serves track searches; nil means every page is empty
	page func(name string, offset, limit int) (spotify.TrackPage, error)

	searchCalls atomic.Int32
	lookupCalls atomic.Int32
	trackCalls  atomic.Int32

	trackNames []string
	offsets    []int
}

func (f *fakeCatalog) SearchTopArtist(ctx context.Context, query string) (*spotify.Artist, error) {
	f.searchCalls.Add(1)
	if f.searchErr != nil {
		return nil, f.searchErr
	}
	if a, ok := f.artists[query]; ok {
		return &a, nil
	}
	return nil, nil
}

func (f *fakeCatalog) FetchArtistByID(ctx context.Context, id string) spotify.ArtistLookup {
	f.lookupCalls.Add(1)
	if l, ok := f.lookups[id]; ok {
		return l
	}
	return spotify.ArtistLookup{Status: spotify.LookupNotFound, Err: errors.New("404")}
}

func (f *fakeCatalog) SearchTracksByArtistName(ctx context.Context, name string, offset, limit int) (spotify.TrackPage, error) {
	f.trackCalls.Add(1)
	f.trackNames = append(f.trackNames, name)
	f.offsets = append(f.offsets, offset)
	if f.page == nil {
		return spotify.TrackPage{}, nil
	}
	return f.page(name, offset, limit)
}

// makeTracks returns n tracks with ids t0..t(n-1).
func makeTracks(n int) []spotify.Track {
	tracks := make([]spotify.Track, n)
	for i := range tracks {
		tracks[i] = spotify.Track{
			ID:        fmt.Sprintf("t%d", i),
			Name:      fmt.Sprintf("Song %d", i),
			AlbumName: "Album",
		}
	}
	return tracks
}

// sliceCatalog serves tracks as a paged catalog reporting total.
func sliceCatalog(tracks []spotify.Track, total int) func(string, int, int) (spotify.TrackPage, error) {
	return func(_ string, offset, limit int) (spotify.TrackPage, error) {
		if offset >= len(tracks) {
			return spotify.TrackPage{Total: total}, nil
		}
		end := min(offset+limit, len(tracks))
		return spotify.TrackPage{Items: tracks[offset:end], Total: total}, nil
	}
}
