package main

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/justestif/go-omakase-shuffle/internal/config"
	"github.com/justestif/go-omakase-shuffle/internal/db"
	"github.com/justestif/go-omakase-shuffle/internal/web"
	webfs "github.com/justestif/go-omakase-shuffle/web"
)

// savedArtistRetention is how long an untouched saved artist is kept.
const savedArtistRetention = 365 * 24 * time.Hour

func newServeCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API and web client",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return a.serve(ctx)
		},
	}

	cmd.Flags().String("addr", web.DefaultAddr, "Address to listen on")
	_ = a.v.BindPFlag(config.ServerAddrKey, cmd.Flags().Lookup("addr"))

	cmd.Flags().String("database-url", "", "PostgreSQL URL for saved artists (default: in memory)")
	_ = a.v.BindPFlag(config.DatabaseURLKey, cmd.Flags().Lookup("database-url"))

	return cmd
}

func (a *app) serve(ctx context.Context) error {
	if !a.cfg.Spotify.Credentials().Configured() {
		log.Warn().Msg("Spotify credentials are not set; API calls will fail until SPOTIFY_CLIENT_ID and SPOTIFY_CLIENT_SECRET are provided")
	}

	saved, closeStore, err := a.savedArtistStore(ctx)
	if err != nil {
		return err
	}
	defer closeStore()

	templates, err := fs.Sub(webfs.TemplatesFS, "templates")
	if err != nil {
		return fmt.Errorf("creating templates filesystem: %w", err)
	}

	static, err := fs.Sub(webfs.StaticFS, "static")
	if err != nil {
		return fmt.Errorf("creating static filesystem: %w", err)
	}

	server, err := web.NewServer(web.ServerConfig{
		Addr:           a.cfg.Server.Addr,
		Service:        a.service(),
		SavedArtists:   saved,
		Market:         a.cfg.Spotify.Market,
		RequestTimeout: a.cfg.RequestTimeout,
		TemplatesFS:    templates,
		StaticFS:       static,
	})
	if err != nil {
		return fmt.Errorf("creating server: %w", err)
	}

	return server.Run(ctx)
}

// savedArtistStore picks PostgreSQL when a database URL is configured and
// memory otherwise.
func (a *app) savedArtistStore(ctx context.Context) (web.SavedArtistStore, func(), error) {
	if a.cfg.Database.URL == "" {
		log.Info().Msg("Saved artists are kept in memory")
		return web.NewMemorySavedArtistStore(), func() {}, nil
	}

	database, err := db.New(ctx, a.cfg.Database.URL)
	if err != nil {
		return nil, nil, fmt.Errorf("connecting to database: %w", err)
	}

	if err := database.Migrate(ctx); err != nil {
		database.Close()
		return nil, nil, err
	}

	removed, err := database.SavedArtists().DeleteStale(ctx, now().Add(-savedArtistRetention))
	if err != nil {
		log.Warn().Err(err).Msg("pruning stale saved artists")
	} else if removed > 0 {
		log.Info().Int64("removed", removed).Msg("Pruned stale saved artists")
	}

	log.Info().Msg("Saved artists are kept in PostgreSQL")
	return web.NewDBSavedArtistStore(database), database.Close, nil
}
