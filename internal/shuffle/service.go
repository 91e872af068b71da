// Package shuffle resolves an artist and picks one of their tracks at random.
//
// The package does no logging of its own. Errors carry a Kind (see KindOf)
// and, for upstream failures, the upstream status, for the caller to log.
package shuffle

import (
	"context"
	"strings"

	"github.com/justestif/go-omakase-shuffle/internal/spotify"
)

// Catalog is everything the Service reads from the music catalog.
// *spotify.Client implements it.
type Catalog interface {
	ArtistFinder
	TrackSearcher
}

// Service ties resolution, pool building and selection together.
type Service struct {
	resolver *Resolver
	pool     *PoolBuilder
	selector *Selector
}

// Option configures a Service.
type Option func(*Service)

// WithSelector replaces the random selector.
func WithSelector(sel *Selector) Option {
	return func(s *Service) {
		if sel != nil {
			s.selector = sel
		}
	}
}

// NewService creates a Service reading from catalog.
func NewService(catalog Catalog, opts ...Option) *Service {
	s := &Service{
		resolver: NewResolver(catalog),
		pool:     NewPoolBuilder(catalog),
		selector: NewSelector(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// ResolveArtist returns the catalog's best match for query.
func (s *Service) ResolveArtist(ctx context.Context, query string) (spotify.Artist, error) {
	if strings.TrimSpace(query) == "" {
		return spotify.Artist{}, ErrInvalidInput
	}
	return s.resolver.Resolve(ctx, query, "")
}

// Pick is one shuffle result: the resolved artist and the chosen track.
type Pick struct {
	Artist spotify.Artist
	Track  spotify.Track
}

// RandomTrack resolves the artist from artistQuery (or artistID when the
// query is empty) and returns one of their tracks at random.
func (s *Service) RandomTrack(ctx context.Context, artistQuery, artistID string) (spotify.Track, error) {
	pick, err := s.Shuffle(ctx, artistQuery, artistID)
	if err != nil {
		return spotify.Track{}, err
	}
	return pick.Track, nil
}

// Shuffle is RandomTrack that also reports which artist the track was
// picked for.
func (s *Service) Shuffle(ctx context.Context, artistQuery, artistID string) (Pick, error) {
	artist, err := s.resolver.Resolve(ctx, artistQuery, artistID)
	if err != nil {
		return Pick{}, err
	}

	pool, err := s.pool.Build(ctx, artist.Name)
	if err != nil {
		return Pick{}, err
	}

	return Pick{Artist: artist, Track: s.selector.Pick(pool)}, nil
}
