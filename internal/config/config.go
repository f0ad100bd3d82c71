// Package config handles XDG configuration directory, file paths and
// settings.
package config

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
)

const (
	// AppName is the application directory name.
	AppName = "craftdoist"

	// SettingsFile is the settings filename.
	SettingsFile = "settings.yaml"

	// TodoistTokenFile is the stored Todoist API token filename.
	TodoistTokenFile = "todoist_token"

	// OAuthClientFile is the Google OAuth client credentials filename.
	OAuthClientFile = "oauth_client.json"

	// TokenFile is the stored Google OAuth token filename.
	TokenFile = "token.json"
)

// ErrNoToken is returned when no Todoist token has been stored.
var ErrNoToken = errors.New("no todoist token stored")

// Config holds configuration paths and settings.
type Config struct {
	// Dir is the configuration directory path.
	Dir string

	// Debug enables debug logging.
	Debug bool

	// Quiet suppresses informational output.
	Quiet bool

	// Settings are loaded from settings.yaml, or defaults.
	Settings Settings
}

// New creates a new Config with the default or specified config directory
// and loads its settings.
// If configDir is empty, uses XDG_CONFIG_HOME/craftdoist or $HOME/.config/craftdoist.
func New(configDir string) (*Config, error) {
	dir := configDir
	if dir == "" {
		dir = DefaultConfigDir()
	}
	c := &Config{Dir: dir}
	s, err := LoadSettings(c.SettingsPath())
	if err != nil {
		return nil, err
	}
	c.Settings = s
	return c, nil
}

// DefaultConfigDir returns the default configuration directory.
// Uses XDG_CONFIG_HOME if set, otherwise $HOME/.config.
func DefaultConfigDir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, AppName)
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return AppName
	}
	return filepath.Join(home, ".config", AppName)
}

// SettingsPath returns the path to the settings file.
func (c *Config) SettingsPath() string {
	return filepath.Join(c.Dir, SettingsFile)
}

// TodoistTokenPath returns the path to the stored Todoist token.
func (c *Config) TodoistTokenPath() string {
	return filepath.Join(c.Dir, TodoistTokenFile)
}

// OAuthClientPath returns the path to the OAuth client credentials file.
func (c *Config) OAuthClientPath() string {
	return filepath.Join(c.Dir, OAuthClientFile)
}

// TokenPath returns the path to the stored OAuth token file.
func (c *Config) TokenPath() string {
	return filepath.Join(c.Dir, TokenFile)
}

// EnsureDir creates the config directory if it doesn't exist.
// Directory is created with mode 0700.
func (c *Config) EnsureDir() error {
	return os.MkdirAll(c.Dir, 0700)
}

// HasOAuthClient checks if the OAuth client credentials file exists.
func (c *Config) HasOAuthClient() bool {
	_, err := os.Stat(c.OAuthClientPath())
	return err == nil
}

// HasToken reports whether credentials for the configured backend exist.
func (c *Config) HasToken() bool {
	path := c.TokenPath()
	if c.Settings.Backend == BackendTodoist {
		path = c.TodoistTokenPath()
	}
	_, err := os.Stat(path)
	return err == nil
}

// RemoveToken deletes the stored credentials of the configured backend.
func (c *Config) RemoveToken() error {
	if c.Settings.Backend == BackendTodoist {
		return os.Remove(c.TodoistTokenPath())
	}
	return os.Remove(c.TokenPath())
}

// SaveTodoistToken stores the Todoist API token with mode 0600.
func (c *Config) SaveTodoistToken(token string) error {
	if err := c.EnsureDir(); err != nil {
		return fmt.Errorf("failed to create config dir: %w", err)
	}
	return os.WriteFile(c.TodoistTokenPath(), []byte(strings.TrimSpace(token)+"\n"), 0600)
}

// TodoistToken returns the stored Todoist API token.
func (c *Config) TodoistToken() (string, error) {
	data, err := os.ReadFile(c.TodoistTokenPath())
	if errors.Is(err, os.ErrNotExist) {
		return "", ErrNoToken
	}
	if err != nil {
		return "", fmt.Errorf("failed to read token: %w", err)
	}
	token := strings.TrimSpace(string(data))
	if token == "" {
		return "", ErrNoToken
	}
	return token, nil
}

// Logger returns a text logger writing to w. Debug enables debug records,
// Quiet limits output to errors, otherwise warnings and above are written.
func (c *Config) Logger(w io.Writer) *slog.Logger {
	level := slog.LevelWarn
	switch {
	case c.Debug:
		level = slog.LevelDebug
	case c.Quiet:
		level = slog.LevelError
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}
