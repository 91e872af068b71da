// Package spotify provides the catalog reads needed to pick a random track,
// on top of the zmb3 Spotify Web API client.
package spotify

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/zmb3/spotify/v2"
)

const (
	// DefaultBaseURL is the Spotify Web API root.
	DefaultBaseURL = "https://api.spotify.com/v1/"

	// DefaultMarket restricts searches to the Japanese catalog.
	DefaultMarket = "JP"

	// DefaultTrackLimit is the page size used when the caller passes none.
	DefaultTrackLimit = 50
)

// Client wraps the Spotify API client with the three catalog reads.
type Client struct {
	api    *spotify.Client
	market string
}

type options struct {
	baseURL   string
	market    string
	transport http.RoundTripper
	timeout   time.Duration
}

// Option configures a Client.
type Option func(*options)

// WithBaseURL points the client at another API root, e.g. a test server.
func WithBaseURL(u string) Option {
	return func(o *options) {
		if u == "" {
			return
		}
		if !strings.HasSuffix(u, "/") {
			u += "/"
		}
		o.baseURL = u
	}
}

// WithMarket sets the market filter applied to searches.
func WithMarket(market string) Option {
	return func(o *options) {
		if market != "" {
			o.market = market
		}
	}
}

// WithTransport sets the underlying round tripper.
func WithTransport(rt http.RoundTripper) Option {
	return func(o *options) {
		if rt != nil {
			o.transport = rt
		}
	}
}

// WithTimeout bounds each catalog request. Zero, the default, leaves the
// bound to the caller's context.
func WithTimeout(d time.Duration) Option {
	return func(o *options) {
		o.timeout = d
	}
}

// New creates a client that authorizes every request with tokens.
func New(tokens TokenSource, opts ...Option) *Client {
	o := options{
		baseURL:   DefaultBaseURL,
		market:    DefaultMarket,
		transport: http.DefaultTransport,
	}
	for _, opt := range opts {
		opt(&o)
	}

	httpClient := &http.Client{
		Transport: &bearerTransport{tokens: tokens, base: o.transport},
		Timeout:   o.timeout,
	}

	return &Client{
		api:    spotify.New(httpClient, spotify.WithBaseURL(o.baseURL)),
		market: o.market,
	}
}

// SearchTopArtist returns the best artist match for query, or nil if the
// search came back empty.
func (c *Client) SearchTopArtist(ctx context.Context, query string) (*Artist, error) {
	ctx, rec := withRecorder(ctx)

	res, err := c.api.Search(ctx, query, spotify.SearchTypeArtist,
		spotify.Limit(1),
		spotify.Market(c.market),
	)
	if err != nil {
		return nil, requestError("/search", rec, err)
	}

	if res == nil || res.Artists == nil || len(res.Artists.Artists) == 0 {
		return nil, nil
	}

	a := res.Artists.Artists[0]
	return &Artist{ID: a.ID.String(), Name: a.Name}, nil
}

// FetchArtistByID looks an artist up by id. It never returns an error:
// failures are reported through the lookup status so the caller can treat
// them as "not found" while keeping the cause for diagnostics.
func (c *Client) FetchArtistByID(ctx context.Context, id string) ArtistLookup {
	ctx, rec := withRecorder(ctx)

	a, err := c.api.GetArtist(ctx, spotify.ID(url.PathEscape(id)))
	if err != nil {
		err = requestError("/artists/"+id, rec, err)

		var reqErr *RequestError
		if errors.As(err, &reqErr) && reqErr.Status == http.StatusNotFound {
			return ArtistLookup{Status: LookupNotFound, Err: err}
		}
		return ArtistLookup{Status: LookupFailed, Err: err}
	}

	if a == nil || a.ID == "" {
		return ArtistLookup{Status: LookupNotFound, Err: errors.New("empty artist in response")}
	}

	return ArtistLookup{
		Artist: Artist{ID: a.ID.String(), Name: a.Name},
		Status: LookupFound,
	}
}

// SearchTracksByArtistName returns one page of tracks credited to exactly
// name. A non-positive limit means DefaultTrackLimit.
func (c *Client) SearchTracksByArtistName(ctx context.Context, name string, offset, limit int) (TrackPage, error) {
	if limit <= 0 {
		limit = DefaultTrackLimit
	}

	ctx, rec := withRecorder(ctx)

	res, err := c.api.Search(ctx, artistFilter(name), spotify.SearchTypeTrack,
		spotify.Limit(limit),
		spotify.Offset(offset),
		spotify.Market(c.market),
	)
	if err != nil {
		return TrackPage{}, requestError("/search", rec, err)
	}

	var page TrackPage
	if res == nil || res.Tracks == nil {
		return page, nil
	}

	page.Total = int(res.Tracks.Total)
	page.Items = make([]Track, 0, len(res.Tracks.Tracks))
	for _, t := range res.Tracks.Tracks {
		page.Items = append(page.Items, convertTrack(t))
	}

	return page, nil
}

// artistFilter builds the exact-match artist field filter.
func artistFilter(name string) string {
	return `artist:"` + name + `"`
}

// convertTrack converts a Spotify FullTrack to Track.
func convertTrack(t spotify.FullTrack) Track {
	return Track{
		ID:          t.ID.String(),
		Name:        t.Name,
		AlbumName:   t.Album.Name,
		ExternalURL: t.ExternalURLs["spotify"],
	}
}
