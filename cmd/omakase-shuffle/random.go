package main

import (
	"errors"
	"strings"

	"github.com/spf13/cobra"
)

// errNoSavedArtist is returned by random when there is nothing to pick from.
var errNoSavedArtist = errors.New("no saved artist: run `omakase-shuffle resolve <artist>` first or pass an artist")

func newRandomCmd(a *app) *cobra.Command {
	var (
		artistID string
		jsonOut  bool
	)

	cmd := &cobra.Command{
		Use:   "random [artist]...",
		Short: "Pick a random track by an artist",
		Long: `Pick a random track by an artist.

With no arguments the saved artist is used (see resolve).`,
		Example: `  omakase-shuffle random
  omakase-shuffle random 宇多田ヒカル
  omakase-shuffle random --artist-id 7lbSsjYACZHn1MSDXPxNF2`,
		RunE: func(cmd *cobra.Command, args []string) error {
			query := strings.TrimSpace(strings.Join(args, " "))

			if query == "" && artistID == "" {
				store, err := a.prefsStore()
				if err != nil {
					return err
				}
				saved, err := store.Load()
				if err != nil {
					return err
				}
				if saved == nil {
					return errNoSavedArtist
				}
				query, artistID = saved.ArtistQuery, saved.ArtistID
			}

			ctx, cancel := a.withTimeout(cmd.Context())
			defer cancel()

			pick, err := a.service().Shuffle(ctx, query, artistID)
			if err != nil {
				return err
			}

			if jsonOut {
				return printJSON(cmd.OutOrStdout(), map[string]string{
					"artistDisplayName": pick.Artist.Name,
					"trackName":         pick.Track.Name,
					"albumName":         pick.Track.AlbumName,
					"spotifyUrl":        pick.Track.ExternalURL,
				})
			}
			printTrack(cmd.OutOrStdout(), pick)
			return nil
		},
	}

	cmd.Flags().StringVar(&artistID, "artist-id", "", "Spotify artist id (used when no artist name is given)")
	cmd.Flags().BoolVar(&jsonOut, "json", false, "Print the result as JSON")

	return cmd
}
