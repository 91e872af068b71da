package main

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/justestif/go-omakase-shuffle/internal/auth"
	"github.com/justestif/go-omakase-shuffle/internal/config"
	"github.com/justestif/go-omakase-shuffle/internal/logging"
	"github.com/justestif/go-omakase-shuffle/internal/prefs"
	"github.com/justestif/go-omakase-shuffle/internal/shuffle"
	"github.com/justestif/go-omakase-shuffle/internal/spotify"
)

// app holds the state shared by every subcommand.
type app struct {
	v          *viper.Viper
	configFile string
	cfg        *config.Config
}

func newRootCmd() *cobra.Command {
	a := &app{v: config.New()}

	root := &cobra.Command{
		Use:   "omakase-shuffle",
		Short: "Pick a random track by one artist",
		Long: `Omakase Shuffle resolves an artist against the Spotify catalog and picks
one of their tracks at random.

Spotify client credentials are read from SPOTIFY_CLIENT_ID and
SPOTIFY_CLIENT_SECRET (or the config file).`,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.init()
		},
	}

	flags := root.PersistentFlags()
	flags.StringVar(&a.configFile, "config", "", "Config file (default is ./omakase.yaml or $XDG_CONFIG_HOME/omakase-shuffle/omakase.yaml)")

	flags.String("log-level", "info", "Log level (debug, info, warn, error)")
	_ = a.v.BindPFlag(config.LogLevelKey, flags.Lookup("log-level"))

	flags.String("log-format", "console", "Log format (console, json)")
	_ = a.v.BindPFlag(config.LogFormatKey, flags.Lookup("log-format"))

	flags.Bool("no-color", false, "Disable color output")
	_ = a.v.BindPFlag(config.LogNoColorKey, flags.Lookup("no-color"))

	flags.String("market", spotify.DefaultMarket, "Spotify market to search in")
	_ = a.v.BindPFlag(config.SpotifyMarketKey, flags.Lookup("market"))

	flags.Duration("timeout", config.DefaultRequestTimeout, "Timeout for one resolve or pick")
	_ = a.v.BindPFlag(config.RequestTimeoutKey, flags.Lookup("timeout"))

	root.AddCommand(
		newServeCmd(a),
		newResolveCmd(a),
		newRandomCmd(a),
		newForgetCmd(a),
	)

	root.SilenceUsage = true
	root.SilenceErrors = true

	return root
}

// init reads configuration and sets up logging.
func (a *app) init() error {
	configPath, configErr := config.ReadFile(a.v, a.configFile)

	// Logging first so a config error can still be logged.
	if _, err := logging.Setup(logging.Options{
		Level:   a.v.GetString(config.LogLevelKey),
		Format:  a.v.GetString(config.LogFormatKey),
		NoColor: a.v.GetBool(config.LogNoColorKey),
	}); err != nil {
		return err
	}
	if configErr != nil {
		return configErr
	}
	if configPath != "" {
		log.Debug().Msgf("using config file: %s", configPath)
	}

	cfg, err := config.Load(a.v)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	a.cfg = cfg

	if a.cfg.Log.NoColor {
		styles = plainPalette()
	}
	return nil
}

// service builds the catalog stack: one token cache shared by every call.
func (a *app) service() *shuffle.Service {
	tokens := auth.NewTokenCache(a.cfg.Spotify.Credentials(),
		auth.WithTokenURL(a.cfg.Spotify.TokenURL),
	)
	catalog := spotify.New(tokens,
		spotify.WithBaseURL(a.cfg.Spotify.APIURL),
		spotify.WithMarket(a.cfg.Spotify.Market),
		spotify.WithTimeout(a.cfg.RequestTimeout),
	)
	return shuffle.NewService(catalog)
}

// withTimeout bounds one command-line call by the configured timeout.
func (a *app) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, a.cfg.RequestTimeout)
}

// prefsStore returns the saved-artist file for this user.
func (a *app) prefsStore() (*prefs.Store, error) {
	return prefs.DefaultStore()
}

// now is swapped in tests.
var now = time.Now
