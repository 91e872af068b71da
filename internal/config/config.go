// Package config loads service and CLI settings from flags, environment
// variables and an optional YAML file.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/justestif/go-omakase-shuffle/internal/auth"
	"github.com/justestif/go-omakase-shuffle/internal/spotify"
)

// AppName names the per-user config directory.
const AppName = "omakase-shuffle"

// Keys.
const (
	SpotifyClientIDKey     = "spotify.client_id"
	SpotifyClientSecretKey = "spotify.client_secret"
	SpotifyMarketKey       = "spotify.market"
	SpotifyTokenURLKey     = "spotify.token_url"
	SpotifyAPIURLKey       = "spotify.api_url"
	ServerAddrKey          = "server.addr"
	DatabaseURLKey         = "database.url"
	LogLevelKey            = "log.level"
	LogFormatKey           = "log.format"
	LogNoColorKey          = "log.no_color"
	RequestTimeoutKey      = "request_timeout"
)

// DefaultRequestTimeout bounds one resolve or random-track call end to end.
const DefaultRequestTimeout = 20 * time.Second

// Config is the resolved configuration.
type Config struct {
	Spotify        SpotifyConfig
	Server         ServerConfig
	Database       DatabaseConfig
	Log            LogConfig
	RequestTimeout time.Duration
}

// SpotifyConfig holds catalog credentials and endpoints.
type SpotifyConfig struct {
	ClientID     string
	ClientSecret string
	Market       string
	TokenURL     string
	APIURL       string
}

// Credentials returns the client credentials for the token cache.
func (c SpotifyConfig) Credentials() auth.Credentials {
	return auth.Credentials{ClientID: c.ClientID, ClientSecret: c.ClientSecret}
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Addr string
}

// DatabaseConfig holds the PostgreSQL connection string. An empty URL
// means saved artists are kept in memory.
type DatabaseConfig struct {
	URL string
}

// LogConfig holds logger settings.
type LogConfig struct {
	Level   string
	Format  string
	NoColor bool
}

// New returns a viper instance with defaults and environment bindings.
// Every key can be set as OMAKASE_<KEY> with dots replaced by underscores.
// The Spotify credentials and database URL also honour their conventional
// unprefixed names.
func New() *viper.Viper {
	v := viper.New()

	v.SetDefault(SpotifyMarketKey, spotify.DefaultMarket)
	v.SetDefault(SpotifyTokenURLKey, auth.DefaultTokenURL)
	v.SetDefault(SpotifyAPIURLKey, spotify.DefaultBaseURL)
	v.SetDefault(ServerAddrKey, "127.0.0.1:8080")
	v.SetDefault(LogLevelKey, "info")
	v.SetDefault(LogFormatKey, "console")
	v.SetDefault(RequestTimeoutKey, DefaultRequestTimeout)

	v.SetEnvPrefix("OMAKASE")
	v.SetEnvKeyReplacer(strings.NewReplacer(
		".", "_",
		"-", "_",
	))
	v.AutomaticEnv()

	_ = v.BindEnv(SpotifyClientIDKey, "OMAKASE_SPOTIFY_CLIENT_ID", "SPOTIFY_CLIENT_ID")
	_ = v.BindEnv(SpotifyClientSecretKey, "OMAKASE_SPOTIFY_CLIENT_SECRET", "SPOTIFY_CLIENT_SECRET")
	_ = v.BindEnv(DatabaseURLKey, "OMAKASE_DATABASE_URL", "DATABASE_URL")

	return v
}

// ReadFile reads the config file at path, or searches for omakase.yaml in
// the working directory and the user config directory when path is empty.
// A missing file is not an error when searching. It returns the file used.
func ReadFile(v *viper.Viper, path string) (string, error) {
	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.AddConfigPath(".")
		if dir, err := os.UserConfigDir(); err == nil {
			v.AddConfigPath(filepath.Join(dir, AppName))
		}
		v.SetConfigType("yaml")
		v.SetConfigName("omakase")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path == "" && errors.As(err, &notFound) {
			return "", nil
		}
		return "", fmt.Errorf("reading config file: %w", err)
	}

	return v.ConfigFileUsed(), nil
}

// Load builds a Config from v. Missing Spotify credentials are not an
// error here: they surface on the first catalog call.
func Load(v *viper.Viper) (*Config, error) {
	cfg := &Config{
		Spotify: SpotifyConfig{
			ClientID:     strings.TrimSpace(v.GetString(SpotifyClientIDKey)),
			ClientSecret: strings.TrimSpace(v.GetString(SpotifyClientSecretKey)),
			Market:       strings.ToUpper(strings.TrimSpace(v.GetString(SpotifyMarketKey))),
			TokenURL:     v.GetString(SpotifyTokenURLKey),
			APIURL:       v.GetString(SpotifyAPIURLKey),
		},
		Server: ServerConfig{
			Addr: v.GetString(ServerAddrKey),
		},
		Database: DatabaseConfig{
			URL: v.GetString(DatabaseURLKey),
		},
		Log: LogConfig{
			Level:   v.GetString(LogLevelKey),
			Format:  v.GetString(LogFormatKey),
			NoColor: v.GetBool(LogNoColorKey),
		},
		RequestTimeout: v.GetDuration(RequestTimeoutKey),
	}

	if cfg.Spotify.Market == "" {
		return nil, fmt.Errorf("%s must not be empty", SpotifyMarketKey)
	}
	if cfg.RequestTimeout <= 0 {
		return nil, fmt.Errorf("%s must be positive, got %q", RequestTimeoutKey, v.GetString(RequestTimeoutKey))
	}

	return cfg, nil
}
