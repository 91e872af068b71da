package main

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/justestif/go-omakase-shuffle/internal/prefs"
)

func newResolveCmd(a *app) *cobra.Command {
	var (
		noSave  bool
		jsonOut bool
	)

	cmd := &cobra.Command{
		Use:   "resolve <artist>...",
		Short: "Look an artist up and save it for later picks",
		Example: `  omakase-shuffle resolve 宇多田ヒカル
  omakase-shuffle resolve --no-save "Yellow Magic Orchestra"`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			query := strings.TrimSpace(strings.Join(args, " "))

			ctx, cancel := a.withTimeout(cmd.Context())
			defer cancel()

			artist, err := a.service().ResolveArtist(ctx, query)
			if err != nil {
				return err
			}

			saved := prefs.SavedArtist{
				ArtistQuery:       query,
				ArtistID:          artist.ID,
				ArtistDisplayName: artist.Name,
			}

			if !noSave {
				store, err := a.prefsStore()
				if err != nil {
					return err
				}
				if err := store.Save(saved); err != nil {
					return err
				}
			}

			if jsonOut {
				return printJSON(cmd.OutOrStdout(), map[string]string{
					"artistId":          artist.ID,
					"artistDisplayName": artist.Name,
				})
			}
			printArtist(cmd.OutOrStdout(), saved, !noSave)
			return nil
		},
	}

	cmd.Flags().BoolVar(&noSave, "no-save", false, "Do not remember the artist")
	cmd.Flags().BoolVar(&jsonOut, "json", false, "Print the result as JSON")

	return cmd
}
