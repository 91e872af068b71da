package shuffle

import (
	"errors"

	"github.com/justestif/go-omakase-shuffle/internal/auth"
	"github.com/justestif/go-omakase-shuffle/internal/spotify"
)

var (
	// ErrInvalidInput is returned when neither an artist query nor an id was given.
	ErrInvalidInput = errors.New("artist query or id is required")

	// ErrArtistNotFound is returned when no catalog artist matches.
	ErrArtistNotFound = errors.New("artist not found")

	// ErrNoTracksFound is returned when the resolved artist has no tracks
	// within the search bounds.
	ErrNoTracksFound = errors.New("no tracks found for artist")
)

// Kind classifies an error returned by the Service for the caller.
type Kind string

const (
	KindInvalidInput       Kind = "invalid_input"
	KindArtistNotFound     Kind = "artist_not_found"
	KindNoTracksFound      Kind = "no_tracks_found"
	KindCredentialsMissing Kind = "credentials_missing"
	KindUpstreamAuth       Kind = "upstream_auth"
	KindUpstreamRequest    Kind = "upstream_request"
	KindInternal           Kind = "internal"
)

// KindOf reports the kind of err. It returns "" for a nil error.
func KindOf(err error) Kind {
	if err == nil {
		return ""
	}

	var (
		authErr *auth.UpstreamAuthError
		reqErr  *spotify.RequestError
	)

	switch {
	case errors.Is(err, ErrInvalidInput):
		return KindInvalidInput
	case errors.Is(err, ErrArtistNotFound):
		return KindArtistNotFound
	case errors.Is(err, ErrNoTracksFound):
		return KindNoTracksFound
	case errors.Is(err, auth.ErrMissingCredentials):
		return KindCredentialsMissing
	case errors.As(err, &authErr):
		return KindUpstreamAuth
	case errors.As(err, &reqErr):
		return KindUpstreamRequest
	default:
		return KindInternal
	}
}

// UpstreamStatus returns the HTTP status the catalog or token endpoint
// answered with, or 0 if err did not come from an upstream response.
func UpstreamStatus(err error) int {
	var authErr *auth.UpstreamAuthError
	if errors.As(err, &authErr) {
		return authErr.Status
	}

	var reqErr *spotify.RequestError
	if errors.As(err, &reqErr) {
		return reqErr.Status
	}

	return 0
}

// UpstreamBody returns the response body captured from a failed upstream
// call, for logging only.
func UpstreamBody(err error) string {
	var authErr *auth.UpstreamAuthError
	if errors.As(err, &authErr) {
		return authErr.Body
	}

	var reqErr *spotify.RequestError
	if errors.As(err, &reqErr) {
		return reqErr.Body
	}

	return ""
}
