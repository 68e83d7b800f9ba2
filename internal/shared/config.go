package shared

import (
	_ "embed"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
)

//go:embed config.example.toml
var exampleConf []byte

// Session storage backends.
const (
	SessionBackendFile   = "file"
	SessionBackendSQLite = "sqlite"
)

// Config represents the application configuration loaded from a TOML file.
type Config struct {
	API      APIConfig      `toml:"api"`
	Session  SessionConfig  `toml:"session"`
	Database DatabaseConfig `toml:"database"`
	Server   ServerConfig   `toml:"server"`
	Log      LogConfig      `toml:"log"`
}

// APIConfig contains settings for the stats backend.
type APIConfig struct {
	BaseURL         string  `toml:"base_url"`
	TimeRange       string  `toml:"time_range"`
	TopArtistsLimit int     `toml:"top_artists_limit"`
	TopTracksLimit  int     `toml:"top_tracks_limit"`
	RecentLimit     int     `toml:"recent_limit"`
	RateLimit       float64 `toml:"rate_limit"`
}

// SessionConfig selects where the credential is persisted.
type SessionConfig struct {
	Backend string `toml:"backend"`
	Path    string `toml:"path"`
}

// DatabaseConfig contains SQLite connection pool settings.
type DatabaseConfig struct {
	MaxOpenConns int `toml:"max_open_conns"`
	MaxIdleConns int `toml:"max_idle_conns"`
}

// ServerConfig contains the local callback server address.
type ServerConfig struct {
	Host string `toml:"host"`
	Port int    `toml:"port"`
}

// LogConfig contains logger settings.
type LogConfig struct {
	Level string `toml:"level"`
}

// LoadConfig reads a TOML configuration file over the embedded defaults.
//
// Keys missing from the file keep their default values.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	config := DefaultConfig()
	if err := toml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
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

// CreateConfigFile writes the embedded example config to path, refusing to overwrite an existing file.
func CreateConfigFile(path string) error {
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("%w: config file already exists at %s", ErrInvalidArgument, path)
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create config directory: %w", err)
		}
	}

	if err := os.WriteFile(path, exampleConf, 0o644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// LoadEnv loads each existing dotenv file into the process environment.
//
// Missing files are skipped. Variables already set are not overridden.
func LoadEnv(files ...string) error {
	for _, f := range files {
		if _, err := os.Stat(f); err != nil {
			continue
		}
		if err := godotenv.Load(f); err != nil {
			return fmt.Errorf("failed to load env file %s: %w", f, err)
		}
	}
	return nil
}

// ApplyEnv overrides config values from environment variables using lookup (usually [os.LookupEnv]).
func (c *Config) ApplyEnv(lookup func(string) (string, bool)) {
	if v, ok := lookup("SOFAR_API_URL"); ok && v != "" {
		c.API.BaseURL = v
	}
	if v, ok := lookup("SOFAR_SESSION_BACKEND"); ok && v != "" {
		c.Session.Backend = v
	}
	if v, ok := lookup("SOFAR_SESSION_PATH"); ok && v != "" {
		c.Session.Path = v
	}
	if v, ok := lookup("SOFAR_LOG_LEVEL"); ok && v != "" {
		c.Log.Level = v
	}
}

// Validate checks values that would otherwise fail later at request time.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.API.BaseURL) == "" {
		return fmt.Errorf("%w: api.base_url is required", ErrInvalidConfig)
	}

	switch c.API.TimeRange {
	case "short_term", "medium_term", "long_term":
	default:
		return fmt.Errorf("%w: api.time_range %q", ErrInvalidConfig, c.API.TimeRange)
	}

	if c.API.TopArtistsLimit < 1 || c.API.TopTracksLimit < 1 || c.API.RecentLimit < 1 {
		return fmt.Errorf("%w: api limits must be positive", ErrInvalidConfig)
	}

	switch c.Session.Backend {
	case SessionBackendFile, SessionBackendSQLite:
	default:
		return fmt.Errorf("%w: session.backend %q", ErrInvalidConfig, c.Session.Backend)
	}

	return nil
}

// SessionPath returns the configured session location or the per-backend default under the user config directory.
func (c *Config) SessionPath() (string, error) {
	if c.Session.Path != "" {
		return c.Session.Path, nil
	}

	dir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("failed to resolve config directory: %w", err)
	}

	name := "session.json"
	if c.Session.Backend == SessionBackendSQLite {
		name = "sofar.db"
	}
	return filepath.Join(dir, "sofar", name), nil
}

// ServerAddr returns the host:port of the local callback server.
func (c *Config) ServerAddr() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.Port)
}

// CallbackURL returns the URL the backend redirects to after login.
func (c *Config) CallbackURL() string {
	return fmt.Sprintf("http://%s/callback", c.ServerAddr())
}
