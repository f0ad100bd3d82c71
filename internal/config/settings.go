package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

// Backends.
const (
	BackendTodoist = "todoist"
	BackendGoogle  = "google"
)

// Settings are the user preferences read from settings.yaml.
type Settings struct {
	Backend        string   `yaml:"backend"`
	Links          []string `yaml:"links"`
	Metadata       []string `yaml:"metadata"`
	Grouping       string   `yaml:"grouping"`
	Sort           string   `yaml:"sort"`
	Format         string   `yaml:"format"`
	TimeFormat     string   `yaml:"time_format"`
	TodoistBaseURL string   `yaml:"todoist_base_url"`
}

// DefaultSettings returns the settings used when no file exists.
func DefaultSettings() Settings {
	return Settings{
		Backend:    BackendTodoist,
		Links:      []string{"mobile", "web"},
		Metadata:   []string{"dueDates", "priorities", "labels", "description"},
		Grouping:   "projectAndSection",
		Sort:       "order",
		Format:     "markdown",
		TimeFormat: "15:04",
	}
}

// LoadSettings reads settings from path. A missing file yields the defaults;
// keys absent from the file keep their default values.
func LoadSettings(path string) (Settings, error) {
	s := DefaultSettings()
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return s, nil
	}
	if err != nil {
		return s, fmt.Errorf("failed to read settings: %w", err)
	}

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&s); err != nil && !errors.Is(err, io.EOF) {
		return s, fmt.Errorf("invalid settings file %s: %w", path, err)
	}

	switch s.Backend {
	case BackendTodoist, BackendGoogle:
	default:
		return s, fmt.Errorf("invalid settings file %s: unknown backend %q", path, s.Backend)
	}
	return s, nil
}

// Save writes the settings to path.
func (s Settings) Save(path string) error {
	data, err := yaml.Marshal(s)
	if err != nil {
		return fmt.Errorf("failed to encode settings: %w", err)
	}
	return os.WriteFile(path, data, 0600)
}
