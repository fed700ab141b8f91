package risk

import (
	"embed"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

//go:embed config/feed.yaml
var feedYAML embed.FS

// Config holds the tunables for prompt construction and trend charting.
// Defaults are embedded; the model name can be overridden from the
// environment.
type Config struct {
	Model string      `yaml:"model"`
	Feed  FeedConfig  `yaml:"feed"`
	Trend TrendConfig `yaml:"trend"`
}

// FeedConfig shapes the global-updates prompt. Region and RegionalMinimum are
// instructions to the model only; nothing here verifies the returned events
// actually honor them.
type FeedConfig struct {
	EventCount      int    `yaml:"event_count"`
	Region          string `yaml:"region"`
	RegionalMinimum int    `yaml:"regional_minimum"`
}

// TrendConfig lists the chart windows the analytics endpoint accepts.
type TrendConfig struct {
	Windows     []int `yaml:"windows"`
	DefaultDays int   `yaml:"default_days"`
}

// LoadConfig reads the embedded defaults and applies environment overrides.
func LoadConfig() (*Config, error) {
	data, err := feedYAML.ReadFile("config/feed.yaml")
	if err != nil {
		return nil, fmt.Errorf("failed to read embedded config: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	if model := os.Getenv("GEMINI_MODEL"); model != "" {
		cfg.Model = model
	}

	return &cfg, nil
}

// AllowsTrendWindow reports whether days is one of the configured windows.
func (c *Config) AllowsTrendWindow(days int) bool {
	for _, w := range c.Trend.Windows {
		if w == days {
			return true
		}
	}
	return false
}
