package web

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/justestif/go-omakase-shuffle/internal/shuffle"
	"github.com/justestif/go-omakase-shuffle/internal/spotify"
)

// maxBodyBytes caps JSON request bodies.
const maxBodyBytes = 16 << 10

// ShuffleService is the core the handlers call into. *shuffle.Service
// implements it.
type ShuffleService interface {
	ResolveArtist(ctx context.Context, query string) (spotify.Artist, error)
	RandomTrack(ctx context.Context, artistQuery, artistID string) (spotify.Track, error)
}

// ResolveArtistResponse is the body of a successful resolve-artist call.
type ResolveArtistResponse struct {
	ArtistID          string `json:"artistId"`
	ArtistDisplayName string `json:"artistDisplayName"`
}

// RandomTrackResponse is the body of a successful random-track call.
type RandomTrackResponse struct {
	TrackName  string `json:"trackName"`
	AlbumName  string `json:"albumName"`
	SpotifyURL string `json:"spotifyUrl"`
}

// Handlers contains HTTP handlers for the web application.
type Handlers struct {
	service   ShuffleService
	saved     SavedArtistStore
	templates *Templates
	market    string
	timeout   time.Duration
}

// HandlerOption configures Handlers.
type HandlerOption func(*Handlers)

// WithMarket sets the market named in not-found messages.
func WithMarket(market string) HandlerOption {
	return func(h *Handlers) {
		if market != "" {
			h.market = market
		}
	}
}

// WithRequestTimeout bounds each core call. Zero means no extra bound.
func WithRequestTimeout(d time.Duration) HandlerOption {
	return func(h *Handlers) {
		h.timeout = d
	}
}

// NewHandlers creates a new Handlers instance.
func NewHandlers(service ShuffleService, saved SavedArtistStore, templates *Templates, opts ...HandlerOption) *Handlers {
	h := &Handlers{
		service:   service,
		saved:     saved,
		templates: templates,
		market:    spotify.DefaultMarket,
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Home handles the home page (GET /).
func (h *Handlers) Home(w http.ResponseWriter, r *http.Request) {
	data := HomePageData{
		PageData: PageData{
			Title:       "Omakase Shuffle",
			CurrentPath: r.URL.Path,
		},
		Market: h.market,
	}

	if deviceID, ok := deviceFromRequest(r); ok {
		saved, err := h.saved.Get(r.Context(), deviceID)
		switch {
		case err == nil:
			data.SavedArtist = saved
		case !errors.Is(err, ErrNoSavedArtist):
			log.Ctx(r.Context()).Error().Err(err).Msg("loading saved artist")
		}
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := h.templates.Render(w, "home", data); err != nil {
		log.Ctx(r.Context()).Error().Err(err).Msg("rendering home")
		http.Error(w, "Failed to render template", http.StatusInternalServerError)
		return
	}
}

// Healthz reports liveness (GET /healthz).
func (h *Handlers) Healthz(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, r, map[string]string{"status": "ok"}, http.StatusOK)
}

// ResolveArtist resolves a free-text query to an artist (POST /api/resolve-artist).
func (h *Handlers) ResolveArtist(w http.ResponseWriter, r *http.Request) {
	query := readArtistQuery(r)
	if query == "" {
		writeError(w, r, "artistQuery is required.", http.StatusBadRequest)
		return
	}

	ctx, cancel := h.withTimeout(r.Context())
	defer cancel()

	artist, err := h.service.ResolveArtist(ctx, query)
	if err != nil {
		h.fail(w, r, err, opResolve, false)
		return
	}

	writeJSON(w, r, ResolveArtistResponse{
		ArtistID:          artist.ID,
		ArtistDisplayName: artist.Name,
	}, http.StatusOK)
}

// RandomTrack picks a random track for the artist (GET /api/random-track).
func (h *Handlers) RandomTrack(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	artistQuery := strings.TrimSpace(q.Get("artistQuery"))
	artistID := strings.TrimSpace(q.Get("artistId"))

	if artistQuery == "" && artistID == "" {
		writeError(w, r, "artistQuery or artistId is required.", http.StatusBadRequest)
		return
	}

	ctx, cancel := h.withTimeout(r.Context())
	defer cancel()

	track, err := h.service.RandomTrack(ctx, artistQuery, artistID)
	if err != nil {
		h.fail(w, r, err, opRandomTrack, artistQuery == "")
		return
	}

	writeJSON(w, r, RandomTrackResponse{
		TrackName:  track.Name,
		AlbumName:  track.AlbumName,
		SpotifyURL: track.ExternalURL,
	}, http.StatusOK)
}

// GetSavedArtist returns the device's saved artist (GET /api/saved-artist).
func (h *Handlers) GetSavedArtist(w http.ResponseWriter, r *http.Request) {
	deviceID, ok := deviceFromRequest(r)
	if !ok {
		writeError(w, r, "No saved artist.", http.StatusNotFound)
		return
	}

	saved, err := h.saved.Get(r.Context(), deviceID)
	if errors.Is(err, ErrNoSavedArtist) {
		writeError(w, r, "No saved artist.", http.StatusNotFound)
		return
	}
	if err != nil {
		log.Ctx(r.Context()).Error().Err(err).Msg("loading saved artist")
		writeError(w, r, "Could not load saved artist.", http.StatusInternalServerError)
		return
	}

	writeJSON(w, r, saved, http.StatusOK)
}

// PutSavedArtist resolves the query and saves the result for the device
// (PUT /api/saved-artist).
func (h *Handlers) PutSavedArtist(w http.ResponseWriter, r *http.Request) {
	query := readArtistQuery(r)
	if query == "" {
		writeError(w, r, "artistQuery is required.", http.StatusBadRequest)
		return
	}

	ctx, cancel := h.withTimeout(r.Context())
	defer cancel()

	artist, err := h.service.ResolveArtist(ctx, query)
	if err != nil {
		h.fail(w, r, err, opResolve, false)
		return
	}

	deviceID := ensureDevice(w, r)
	saved, err := h.saved.Save(r.Context(), deviceID, SavedArtist{
		ArtistQuery:       query,
		ArtistID:          artist.ID,
		ArtistDisplayName: artist.Name,
	})
	if err != nil {
		log.Ctx(r.Context()).Error().Err(err).Msg("saving artist")
		writeError(w, r, "Could not save artist.", http.StatusInternalServerError)
		return
	}

	writeJSON(w, r, saved, http.StatusOK)
}

// DeleteSavedArtist forgets the device's saved artist (DELETE /api/saved-artist).
func (h *Handlers) DeleteSavedArtist(w http.ResponseWriter, r *http.Request) {
	if deviceID, ok := deviceFromRequest(r); ok {
		if err := h.saved.Delete(r.Context(), deviceID); err != nil {
			log.Ctx(r.Context()).Error().Err(err).Msg("deleting saved artist")
			writeError(w, r, "Could not forget artist.", http.StatusInternalServerError)
			return
		}
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handlers) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if h.timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, h.timeout)
}

type operation string

const (
	opResolve     operation = "resolve artist"
	opRandomTrack operation = "random track"
)

// fail logs a core error and writes the matching client response.
// Upstream bodies are logged but never sent to the client.
func (h *Handlers) fail(w http.ResponseWriter, r *http.Request, err error, op operation, byID bool) {
	kind := shuffle.KindOf(err)
	status := statusForKind(kind)

	var event *zerolog.Event
	if status >= http.StatusInternalServerError {
		event = log.Ctx(r.Context()).Error()
	} else {
		event = log.Ctx(r.Context()).Info()
	}
	event = event.Err(err).Str("op", string(op)).Str("kind", string(kind))
	if upstream := shuffle.UpstreamStatus(err); upstream != 0 {
		event = event.Int("upstream_status", upstream).Str("upstream_body", shuffle.UpstreamBody(err))
	}
	event.Msg("request failed")

	writeError(w, r, h.messageForKind(kind, op, byID), status)
}

func statusForKind(kind shuffle.Kind) int {
	switch kind {
	case shuffle.KindInvalidInput:
		return http.StatusBadRequest
	case shuffle.KindArtistNotFound, shuffle.KindNoTracksFound:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

func (h *Handlers) messageForKind(kind shuffle.Kind, op operation, byID bool) string {
	switch kind {
	case shuffle.KindInvalidInput:
		if op == opResolve {
			return "artistQuery is required."
		}
		return "artistQuery or artistId is required."
	case shuffle.KindArtistNotFound:
		if byID {
			return "Artist not found."
		}
		return "No artist found for that name in " + marketName(h.market) + ". Try a different query."
	case shuffle.KindNoTracksFound:
		return "No tracks were found for this artist in " + marketName(h.market) + "."
	case shuffle.KindCredentialsMissing:
		return "Spotify credentials are not configured."
	case shuffle.KindUpstreamAuth:
		return "Spotify authentication failed."
	case shuffle.KindUpstreamRequest:
		return "Spotify request failed."
	default:
		if op == opResolve {
			return "Unexpected error while resolving artist."
		}
		return "Unexpected error while fetching a random track."
	}
}

// readArtistQuery returns the trimmed artistQuery from a JSON body. A
// missing, malformed or non-string value reads as empty.
func readArtistQuery(r *http.Request) string {
	var body struct {
		ArtistQuery any `json:"artistQuery"`
	}
	if err := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes)).Decode(&body); err != nil {
		return ""
	}
	s, ok := body.ArtistQuery.(string)
	if !ok {
		return ""
	}
	return strings.TrimSpace(s)
}
