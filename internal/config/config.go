// Package config loads the operator-facing configuration for typecachectl:
// the classpath to resolve against and the default search result limit. The
// cache library itself (pkg/typecache) takes no configuration of its own —
// it is constructed explicitly by its caller — so this package exists only
// for the CLI front end.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

const defaultSearchLimit = 100

// Config is the document typecachectl reads at startup.
type Config struct {
	Classpath []string     `yaml:"classpath"`
	Search    SearchConfig `yaml:"search"`
}

// SearchConfig controls typecachectl search's default result cap.
type SearchConfig struct {
	DefaultLimit int `yaml:"defaultLimit"`
}

// New returns a Config with defaults applied and an empty classpath.
func New() *Config {
	return &Config{Search: SearchConfig{DefaultLimit: defaultSearchLimit}}
}

// Load reads and parses the YAML config at path, applying defaults for any
// field the file leaves unset.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: reading %s: %w", path, err)
	}
	c := New()
	if err := yaml.Unmarshal(data, c); err != nil {
		return nil, fmt.Errorf("config: parsing %s: %w", path, err)
	}
	if c.Search.DefaultLimit <= 0 {
		c.Search.DefaultLimit = defaultSearchLimit
	}
	return c, nil
}
