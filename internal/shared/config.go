package shared

import (
	"bytes"
	_ "embed"
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
)

//go:embed config.example.toml
var exampleConf []byte

// Config represents the application configuration loaded from a TOML file.
type Config struct {
	Dataset  DatasetConfig  `toml:"dataset"`
	Explorer ExplorerConfig `toml:"explorer"`
	Audio    AudioConfig    `toml:"audio"`
	Server   ServerConfig   `toml:"server"`
	Logging  LoggingConfig  `toml:"logging"`
}

// DatasetConfig contains the source file location and page tuning.
type DatasetConfig struct {
	Path          string `toml:"path"`
	DateLayout    string `toml:"date_layout"`
	SampleSize    int    `toml:"sample_size"`
	HistogramBins int    `toml:"histogram_bins"`
	PreviewRows   int    `toml:"preview_rows"`
}

// ExplorerConfig contains the popularity slider bounds and its default selection.
type ExplorerConfig struct {
	PopularityMin         int `toml:"popularity_min"`
	PopularityMax         int `toml:"popularity_max"`
	DefaultPopularityLow  int `toml:"default_popularity_low"`
	DefaultPopularityHigh int `toml:"default_popularity_high"`
}

// AudioConfig points at the optional background track.
type AudioConfig struct {
	Path     string `toml:"path"`
	Autoplay bool   `toml:"autoplay"`
	Loop     bool   `toml:"loop"`
}

// ServerConfig contains HTTP server settings.
type ServerConfig struct {
	Host      string  `toml:"host"`
	Port      int     `toml:"port"`
	RateLimit float64 `toml:"rate_limit"`
	Burst     int     `toml:"burst"`
}

// LoggingConfig contains log level and the TUI log file path.
type LoggingConfig struct {
	Level string `toml:"level"`
	File  string `toml:"file"`
}

// Addr returns the host:port listen address.
func (s ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

// LoadConfig reads and parses a TOML configuration file from the specified path.
//
// Values missing from the file keep the embedded defaults.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	config := DefaultConfig()
	if _, err := toml.NewDecoder(bytes.NewReader(data)).Decode(config); err != nil {
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

	if err := os.WriteFile(path, exampleConf, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// Validate checks the ranges the dashboard relies on.
func (c *Config) Validate() error {
	if c.Dataset.Path == "" {
		return fmt.Errorf("%w: dataset.path is required", ErrInvalidConfig)
	}
	if c.Dataset.DateLayout == "" {
		return fmt.Errorf("%w: dataset.date_layout is required", ErrInvalidConfig)
	}
	if c.Dataset.SampleSize < 0 {
		return fmt.Errorf("%w: dataset.sample_size must be non-negative", ErrInvalidConfig)
	}
	if c.Dataset.HistogramBins < 1 {
		return fmt.Errorf("%w: dataset.histogram_bins must be at least 1", ErrInvalidConfig)
	}

	e := c.Explorer
	if e.PopularityMin > e.PopularityMax {
		return fmt.Errorf("%w: explorer.popularity_min exceeds popularity_max", ErrInvalidConfig)
	}
	if e.DefaultPopularityLow > e.DefaultPopularityHigh ||
		e.DefaultPopularityLow < e.PopularityMin ||
		e.DefaultPopularityHigh > e.PopularityMax {
		return fmt.Errorf("%w: explorer default popularity selection must lie within its bounds", ErrInvalidConfig)
	}

	if c.Server.Port < 0 || c.Server.Port > 65535 {
		return fmt.Errorf("%w: server.port out of range", ErrInvalidConfig)
	}
	return nil
}
