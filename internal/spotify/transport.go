package spotify

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"strings"
)

// maxErrorBody caps how much of an error response is kept for diagnostics.
const maxErrorBody = 4 << 10

// TokenSource supplies bearer tokens for catalog requests.
type TokenSource interface {
	AccessToken(ctx context.Context) (string, error)
}

// bearerTransport authorizes each request with a token fetched under the
// request's context and records non-2xx responses for the caller.
type bearerTransport struct {
	tokens TokenSource
	base   http.RoundTripper
}

func (t *bearerTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	token, err := t.tokens.AccessToken(req.Context())
	if err != nil {
		return nil, err
	}

	req = req.Clone(req.Context())
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := t.base.RoundTrip(req)
	if err != nil {
		return nil, err
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		if rec := recorderFrom(req.Context()); rec != nil {
			body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
			resp.Body.Close()

			rec.status = resp.StatusCode
			rec.body = strings.TrimSpace(string(body))

			// zmb3/spotify decodes the error body itself.
			resp.Body = io.NopCloser(bytes.NewReader(body))
		}
	}

	return resp, nil
}

// responseRecorder captures the status and body of a failed catalog call.
type responseRecorder struct {
	status int
	body   string
}

type recorderKey struct{}

func withRecorder(ctx context.Context) (context.Context, *responseRecorder) {
	rec := &responseRecorder{}
	return context.WithValue(ctx, recorderKey{}, rec), rec
}

func recorderFrom(ctx context.Context) *responseRecorder {
	rec, _ := ctx.Value(recorderKey{}).(*responseRecorder)
	return rec
}
