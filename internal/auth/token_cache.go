package auth

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"time"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/clientcredentials"
)

// DefaultExpirySkew is how much validity a cached token must have left
// before it is handed out.
const DefaultExpirySkew = 60 * time.Second

// AccessToken is a bearer credential with its absolute expiry.
type AccessToken struct {
	Value     string
	ExpiresAt time.Time
}

// TokenCache holds the process-wide Spotify access token.
//
// The cache starts empty and is refreshed synchronously by the first
// AccessToken call that finds it missing or too close to expiry. The lock
// only guards reading and replacing the entry, so callers racing past an
// expired token may each perform an exchange; every exchange yields a valid
// token and the last one written wins.
type TokenCache struct {
	creds      Credentials
	tokenURL   string
	httpClient *http.Client
	now        func() time.Time

	mu    sync.Mutex
	token *AccessToken
}

// TokenCacheOption configures a TokenCache.
type TokenCacheOption func(*TokenCache)

// WithTokenURL overrides the token endpoint.
func WithTokenURL(url string) TokenCacheOption {
	return func(c *TokenCache) {
		if url != "" {
			c.tokenURL = url
		}
	}
}

// WithHTTPClient sets the client used for the credential exchange.
func WithHTTPClient(client *http.Client) TokenCacheOption {
	return func(c *TokenCache) {
		if client != nil {
			c.httpClient = client
		}
	}
}

// WithClock replaces time.Now.
func WithClock(now func() time.Time) TokenCacheOption {
	return func(c *TokenCache) {
		if now != nil {
			c.now = now
		}
	}
}

// NewTokenCache creates an empty cache for the given credentials.
// Missing credentials are reported by AccessToken, not here.
func NewTokenCache(creds Credentials, opts ...TokenCacheOption) *TokenCache {
	c := &TokenCache{
		creds:      creds,
		tokenURL:   DefaultTokenURL,
		httpClient: &http.Client{Timeout: 10 * time.Second},
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// AccessToken returns a token value with at least the skew margin of
// validity left, exchanging credentials for a new one when needed.
func (c *TokenCache) AccessToken(ctx context.Context) (string, error) {
	if !c.creds.Configured() {
		return "", ErrMissingCredentials
	}

	if tok, ok := c.cached(); ok {
		return tok.Value, nil
	}

	tok, err := c.exchange(ctx)
	if err != nil {
		return "", err
	}

	c.mu.Lock()
	c.token = tok
	c.mu.Unlock()

	return tok.Value, nil
}

// current returns the cached token without refreshing it.
func (c *TokenCache) current() (AccessToken, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.token == nil {
		return AccessToken{}, false
	}
	return *c.token, true
}

// cached returns the stored token if it is still usable.
func (c *TokenCache) cached() (*AccessToken, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.token == nil {
		return nil, false
	}
	if !c.now().Before(c.token.ExpiresAt.Add(-DefaultExpirySkew)) {
		return nil, false
	}
	return c.token, true
}

// exchange performs the client-credentials grant.
func (c *TokenCache) exchange(ctx context.Context) (*AccessToken, error) {
	cfg := &clientcredentials.Config{
		ClientID:     c.creds.ClientID,
		ClientSecret: c.creds.ClientSecret,
		TokenURL:     c.tokenURL,
		AuthStyle:    oauth2.AuthStyleInHeader,
	}

	ctx = context.WithValue(ctx, oauth2.HTTPClient, c.httpClient)
	tok, err := cfg.Token(ctx)
	if err != nil {
		return nil, newUpstreamAuthError(err)
	}

	// oauth2 stamps Expiry with the wall clock; rebase the lifetime onto ours.
	var lifetime time.Duration
	if !tok.Expiry.IsZero() {
		lifetime = time.Until(tok.Expiry)
	}

	return &AccessToken{
		Value:     tok.AccessToken,
		ExpiresAt: c.now().Add(lifetime),
	}, nil
}

func newUpstreamAuthError(err error) *UpstreamAuthError {
	authErr := &UpstreamAuthError{Err: err}

	var retrieveErr *oauth2.RetrieveError
	if errors.As(err, &retrieveErr) {
		if retrieveErr.Response != nil {
			authErr.Status = retrieveErr.Response.StatusCode
		}
		authErr.Body = string(retrieveErr.Body)
	}
	return authErr
}
