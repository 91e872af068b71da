// Package auth obtains and caches Spotify client-credentials access tokens.
package auth

import (
	"errors"
	"fmt"
)

// DefaultTokenURL is Spotify's client-credentials token endpoint.
const DefaultTokenURL = "https://accounts.spotify.com/api/token"

var (
	// ErrMissingCredentials is returned when the Spotify client id or secret is not configured.
	ErrMissingCredentials = errors.New("spotify credentials are missing: set SPOTIFY_CLIENT_ID and SPOTIFY_CLIENT_SECRET")
)

// Credentials are the client id/secret pair exchanged for a bearer token.
type Credentials struct {
	ClientID     string
	ClientSecret string
}

// Configured reports whether both halves of the pair are set.
func (c Credentials) Configured() bool {
	return c.ClientID != "" && c.ClientSecret != ""
}

// UpstreamAuthError is returned when the token endpoint rejects the exchange.
// Status is zero when no HTTP response was received.
type UpstreamAuthError struct {
	Status int
	Body   string
	Err    error
}

func (e *UpstreamAuthError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("spotify token request failed (%d): %s", e.Status, e.Body)
	}
	return fmt.Sprintf("spotify token request failed: %v", e.Err)
}

func (e *UpstreamAuthError) Unwrap() error {
	return e.Err
}
