package shared

import (
	_ "embed"
	"fmt"
	"os"
	"time"

	"github.com/BurntSushi/toml"
)

//go:embed config.example.toml
var exampleConf []byte

// Environment variables read by [Config.ApplyEnv].
const (
	EnvClientID     = "SPOTIFY_CLIENT_ID"
	EnvClientSecret = "SPOTIFY_CLIENT_SECRET"
	EnvLogLevel     = "SPOTIFY_MCP_LOG_LEVEL"
)

// Config represents the application configuration loaded from a TOML file.
type Config struct {
	Credentials CredentialsConfig `toml:"credentials"`
	Spotify     SpotifyConfig     `toml:"spotify"`
	Server      ServerConfig      `toml:"server"`
	Log         LogConfig         `toml:"log"`
}

// CredentialsConfig contains service-specific credentials.
type CredentialsConfig struct {
	Spotify SpotifyCredentials `toml:"spotify"`
}

// SpotifyCredentials is the client id/secret pair used for the client-credentials grant.
type SpotifyCredentials struct {
	ClientID     string `toml:"client_id"`
	ClientSecret string `toml:"client_secret"`
}

// SpotifyConfig contains Spotify Web API endpoints and client tuning.
type SpotifyConfig struct {
	TokenURL          string        `toml:"token_url"`
	BaseURL           string        `toml:"base_url"`
	Market            string        `toml:"market"`
	Timeout           time.Duration `toml:"timeout"`
	RequestsPerSecond float64       `toml:"requests_per_second"`
	Burst             int           `toml:"burst"`
}

// ServerConfig contains the JSON-RPC server identity and the tool-call rate gate.
type ServerConfig struct {
	Name            string        `toml:"name"`
	Version         string        `toml:"version"`
	ProtocolVersion string        `toml:"protocol_version"`
	MinInterval     time.Duration `toml:"min_interval"`
}

// LogConfig contains logger settings.
type LogConfig struct {
	Level  string `toml:"level"`
	Format string `toml:"format"`
}

// LoadConfig reads and parses a TOML configuration file from the specified path.
//
// Keys missing from the file keep the values of [DefaultConfig].
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	config := DefaultConfig()
	if err := toml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return config, nil
}

// DefaultConfig returns a Config with sensible defaults loaded from the embedded example config.
func DefaultConfig() *Config {
	var config Config
	if err := toml.Unmarshal(exampleConf, &config); err != nil {
		panic(fmt.Sprintf("failed to parse embedded default config: %v", err))
	}
	return &config
}

// CreateConfigFile creates a config.toml file at the specified path using the embedded example config.
func CreateConfigFile(path string) error {
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("config file already exists at %s", path)
	}

	if err := os.WriteFile(path, exampleConf, 0600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// ApplyEnv overlays credentials and log level from the environment.
//
// lookup defaults to [os.LookupEnv]. Empty values are ignored.
func (c *Config) ApplyEnv(lookup func(string) (string, bool)) {
	if lookup == nil {
		lookup = os.LookupEnv
	}

	if v, ok := lookup(EnvClientID); ok && v != "" {
		c.Credentials.Spotify.ClientID = v
	}
	if v, ok := lookup(EnvClientSecret); ok && v != "" {
		c.Credentials.Spotify.ClientSecret = v
	}
	if v, ok := lookup(EnvLogLevel); ok && v != "" {
		c.Log.Level = v
	}
}

// Validate checks values that would otherwise fail much later at request time.
//
// Missing credentials are not an error here: they surface on the first token request.
func (c *Config) Validate() error {
	if c.Spotify.TokenURL == "" {
		return fmt.Errorf("%w: spotify.token_url is empty", ErrInvalidConfig)
	}
	if c.Spotify.BaseURL == "" {
		return fmt.Errorf("%w: spotify.base_url is empty", ErrInvalidConfig)
	}
	if c.Spotify.RequestsPerSecond < 0 {
		return fmt.Errorf("%w: spotify.requests_per_second must not be negative", ErrInvalidConfig)
	}
	if c.Server.MinInterval < 0 {
		return fmt.Errorf("%w: server.min_interval must not be negative", ErrInvalidConfig)
	}
	return nil
}

// HasCredentials reports whether both halves of the Spotify credential are set.
func (s SpotifyCredentials) HasCredentials() bool {
	return s.ClientID != "" && s.ClientSecret != ""
}
