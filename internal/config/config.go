package config

import (
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"

	"commuteboard/internal/errors"
)

const (
	DefaultDataDir         = "data"
	DefaultTimezone        = "US/Eastern"
	DefaultPort            = "8050"
	DefaultRefreshInterval = 10 * time.Minute
)

// Config represents the complete dashboard configuration
type Config struct {
	DataDir                string      `yaml:"data_dir"`
	DisplayTimezone        string      `yaml:"display_timezone"`
	RefreshIntervalMinutes int         `yaml:"refresh_interval_minutes"`
	Itineraries            []Itinerary `yaml:"itineraries"`

	Server ServerConfig `yaml:"-"` // env only, never persisted
}

// Itinerary labels one monitored route. Only ID and OutputFile drive
// behavior; Name/From/To are display strings.
type Itinerary struct {
	ID         string `yaml:"id"`
	Name       string `yaml:"name"`
	From       string `yaml:"from"`
	To         string `yaml:"to"`
	OutputFile string `yaml:"output_file"`
}

// ServerConfig holds web server settings
type ServerConfig struct {
	Port     string
	Password string // empty disables the auth gate
}

// Load reads the YAML config file and applies environment overrides. A
// missing config file is non-fatal: the dashboard falls back to scanning the
// data directory and deriving tab labels from file names.
func Load(path string) (*Config, error) {
	cfg := &Config{
		DataDir:         DefaultDataDir,
		DisplayTimezone: DefaultTimezone,
	}

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case os.IsNotExist(err):
			// Fall through to defaults; tabs get derived from file names.
		case err != nil:
			return nil, errors.Wrapf(err, "failed to read config file %s", path)
		default:
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, errors.ConfigError("failed to parse config YAML", err)
			}
		}
	}

	if dir := os.Getenv("COMMUTE_DATA_DIR"); dir != "" {
		cfg.DataDir = dir
	}
	cfg.Server = ServerConfig{
		Port:     getEnvOrDefault("DASHBOARD_PORT", DefaultPort),
		Password: os.Getenv("DASHBOARD_PASSWORD"),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate applies presence checks only; itinerary metadata is labeling, not
// a schema.
func (c *Config) Validate() error {
	if c.DataDir == "" {
		return errors.ConfigInvalid("data_dir is required")
	}
	if _, err := c.Location(); err != nil {
		return errors.ConfigInvalid("unknown display_timezone: " + c.DisplayTimezone)
	}
	if c.RefreshIntervalMinutes < 0 {
		return errors.ConfigInvalid("refresh_interval_minutes cannot be negative")
	}

	seenIDs := make(map[string]bool)
	seenFiles := make(map[string]bool)
	for i, itin := range c.Itineraries {
		if itin.ID == "" {
			return errors.ConfigInvalid("itinerary " + strconv.Itoa(i) + ": id is required")
		}
		if itin.OutputFile == "" {
			return errors.ConfigInvalid("itinerary " + itin.ID + ": output_file is required")
		}
		if seenIDs[itin.ID] {
			return errors.ConfigInvalid("duplicate itinerary ID: " + itin.ID)
		}
		if seenFiles[itin.OutputFile] {
			return errors.ConfigInvalid("duplicate output_file: " + itin.OutputFile)
		}
		seenIDs[itin.ID] = true
		seenFiles[itin.OutputFile] = true
	}
	return nil
}

// Location resolves the configured display time zone.
func (c *Config) Location() (*time.Location, error) {
	name := c.DisplayTimezone
	if name == "" {
		name = DefaultTimezone
	}
	return time.LoadLocation(name)
}

// RefreshInterval returns the snapshot refresh period.
func (c *Config) RefreshInterval() time.Duration {
	if c.RefreshIntervalMinutes <= 0 {
		return DefaultRefreshInterval
	}
	return time.Duration(c.RefreshIntervalMinutes) * time.Minute
}

// Label returns the display name for an itinerary, falling back to the route
// endpoints and finally the ID.
func (i Itinerary) Label() string {
	if i.Name != "" {
		return i.Name
	}
	if i.From != "" && i.To != "" {
		return i.From + " → " + i.To
	}
	return i.ID
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
