package docsvc

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/hazyhaar/docparse/textclean"
)

// Config holds the full document parsing service configuration.
type Config struct {
	Listen    string      `yaml:"listen"`
	DBPath    string      `yaml:"db_path"`
	MaxFileMB int         `yaml:"max_file_mb"`
	Clean     CleanConfig `yaml:"clean"`
}

// CleanConfig selects the default cleaning passes applied to parsed text.
// Individual requests can override it via query parameters.
type CleanConfig struct {
	Enabled              bool     `yaml:"enabled"`
	RemovePageNumbers    bool     `yaml:"remove_page_numbers"`
	RemoveHeadersFooters bool     `yaml:"remove_headers_footers"`
	RemoveWatermarks     bool     `yaml:"remove_watermarks"`
	CustomPatterns       []string `yaml:"custom_patterns"`
	MinRepeatCount       int      `yaml:"min_repeat_count"`
}

// DefaultConfig returns sane defaults.
func DefaultConfig() *Config {
	return &Config{
		Listen:    ":8084",
		DBPath:    "docparse.db",
		MaxFileMB: 100,
		Clean: CleanConfig{
			Enabled:              true,
			RemovePageNumbers:    true,
			RemoveHeadersFooters: true,
			RemoveWatermarks:     true,
		},
	}
}

// LoadConfig reads and parses a YAML config file. Returns DefaultConfig merged with the file.
func LoadConfig(path string) (*Config, error) {
	cfg := DefaultConfig()
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	return cfg, cfg.Validate()
}

// Validate checks that required fields are present and values are sane.
func (c *Config) Validate() error {
	if c.DBPath == "" {
		return fmt.Errorf("db_path is required")
	}
	if c.MaxFileMB <= 0 {
		return fmt.Errorf("max_file_mb must be > 0")
	}
	if c.Clean.MinRepeatCount < 0 {
		return fmt.Errorf("min_repeat_count must be >= 0")
	}
	return nil
}

// MaxFileBytes returns max file size in bytes.
func (c *Config) MaxFileBytes() int64 { return int64(c.MaxFileMB) * 1024 * 1024 }

// CleanOptions converts the configured defaults into textclean options.
// Returns nil when cleaning is disabled, which skips the pipeline entirely.
func (c *Config) CleanOptions() *textclean.Options {
	if !c.Clean.Enabled {
		return nil
	}
	return &textclean.Options{
		RemovePageNumbers:    c.Clean.RemovePageNumbers,
		RemoveHeadersFooters: c.Clean.RemoveHeadersFooters,
		RemoveWatermarks:     c.Clean.RemoveWatermarks,
		CustomPatterns:       c.Clean.CustomPatterns,
		MinRepeatCount:       c.Clean.MinRepeatCount,
	}
}
