package main

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"

	"github.com/justestif/go-omakase-shuffle/internal/prefs"
	"github.com/justestif/go-omakase-shuffle/internal/shuffle"
)

var styles = newPalette("#E2533C", "#04B575", "#FF5F5F", "#8A8A8A")

// palette is the set of styles used for command output.
type palette struct {
	title lipgloss.Style
	ok    lipgloss.Style
	err   lipgloss.Style
	muted lipgloss.Style
}

func newPalette(title, ok, err, muted string) *palette {
	return &palette{
		title: newBold(title),
		ok:    newBold(ok),
		err:   newBold(err),
		muted: newStyle(muted).Italic(true),
	}
}

func plainPalette() *palette {
	plain := lipgloss.NewStyle()
	return &palette{title: plain, ok: plain, err: plain, muted: plain}
}

func newStyle(fg string) lipgloss.Style {
	return lipgloss.NewStyle().Foreground(lipgloss.Color(fg))
}

func newBold(fg string) lipgloss.Style {
	return newStyle(fg).Bold(true)
}

func printArtist(w io.Writer, artist prefs.SavedArtist, saved bool) {
	fmt.Fprintln(w, styles.title.Render(artist.ArtistDisplayName))
	fmt.Fprintln(w, styles.muted.Render("id "+artist.ArtistID))
	if saved {
		fmt.Fprintln(w, styles.ok.Render("Saved.")+" Run `omakase-shuffle random` to pick a track.")
	}
}

func printTrack(w io.Writer, pick shuffle.Pick) {
	fmt.Fprintln(w, styles.title.Render(pick.Track.Name))
	fmt.Fprintln(w, pick.Artist.Name+" · "+pick.Track.AlbumName)
	if pick.Track.ExternalURL != "" {
		fmt.Fprintln(w, styles.muted.Render(pick.Track.ExternalURL))
	}
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// failure renders err for the terminal, with a hint for the common cases.
func (p *palette) failure(err error) string {
	msg := p.err.Render("error:") + " " + err.Error()

	var hint string
	switch shuffle.KindOf(err) {
	case shuffle.KindCredentialsMissing:
		hint = "set SPOTIFY_CLIENT_ID and SPOTIFY_CLIENT_SECRET"
	case shuffle.KindUpstreamAuth:
		hint = "check that the Spotify client credentials are valid"
	case shuffle.KindArtistNotFound:
		hint = "try a different spelling or the artist's native name"
	case shuffle.KindNoTracksFound:
		hint = "this artist has no tracks in the selected market; try --market"
	}
	if hint != "" {
		msg += "\n" + p.muted.Render(hint)
	}
	return msg
}
