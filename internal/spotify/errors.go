package spotify

import (
	"errors"
	"fmt"

	"github.com/justestif/go-omakase-shuffle/internal/auth"
)

// RequestError is returned when the catalog answers a request with a
// non-success status, or the request could not be completed at all.
// Status is zero in the latter case.
type RequestError struct {
	Endpoint string
	Status   int
	Body     string
	Err      error
}

func (e *RequestError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("spotify API request failed (%d) at %s: %s", e.Status, e.Endpoint, e.Body)
	}
	return fmt.Sprintf("spotify API request failed at %s: %v", e.Endpoint, e.Err)
}

func (e *RequestError) Unwrap() error {
	return e.Err
}

// requestError converts an error from the zmb3 client. Token failures keep
// their own type so callers can tell credentials problems from API ones.
func requestError(endpoint string, rec *responseRecorder, err error) error {
	var authErr *auth.UpstreamAuthError
	if errors.As(err, &authErr) {
		return authErr
	}
	if errors.Is(err, auth.ErrMissingCredentials) {
		return auth.ErrMissingCredentials
	}

	return &RequestError{
		Endpoint: endpoint,
		Status:   rec.status,
		Body:     rec.body,
		Err:      err,
	}
}
