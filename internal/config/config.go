// Package config loads deadmod configuration from the crate root.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	kjson "github.com/knadh/koanf/parsers/json"
	ktoml "github.com/knadh/koanf/parsers/toml"
	kyaml "github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// Config holds all configuration options for deadmod.
type Config struct {
	// Module names or patterns to suppress from findings.
	Ignore []string `koanf:"ignore"`
	// Extra directory names to prune during scanning.
	Exclude []string `koanf:"exclude"`
	// Whether .gitignore patterns also exclude files.
	Gitignore bool `koanf:"gitignore"`
	// Output settings.
	Output OutputConfig `koanf:"output"`
	// Cache settings.
	Cache CacheConfig `koanf:"cache"`
}

// OutputConfig controls output formatting.
type OutputConfig struct {
	// "text", "json", "yaml", or "toon".
	Format string `koanf:"format"`
	Color  bool   `koanf:"color"`
}

// CacheConfig controls the incremental cache.
type CacheConfig struct {
	Enabled bool `koanf:"enabled"`
}

// Default returns a config with sensible defaults.
func Default() *Config {
	return &Config{
		Ignore:    []string{},
		Exclude:   []string{},
		Gitignore: false,
		Output: OutputConfig{
			Format: "text",
			Color:  true,
		},
		Cache: CacheConfig{Enabled: true},
	}
}

// Load reads a configuration file, picking the parser by extension.
func Load(path string) (*Config, error) {
	k := koanf.New(".")
	cfg := Default()

	var parser koanf.Parser
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		parser = kyaml.Parser()
	case ".json":
		parser = kjson.Parser()
	default:
		parser = ktoml.Parser()
	}

	if err := k.Load(file.Provider(path), parser); err != nil {
		return nil, fmt.Errorf("failed to load config %s: %w", path, err)
	}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", path, err)
	}

	return cfg, nil
}

// configNames are the file names searched at the crate root, in order.
var configNames = []string{
	"deadmod.toml",
	"deadmod.yaml",
	"deadmod.yml",
	"deadmod.json",
	".deadmod.toml",
	".deadmod.yaml",
	".deadmod.yml",
	".deadmod.json",
}

// LoadOrDefault tries the standard config locations under root and falls
// back to defaults when none parse.
func LoadOrDefault(root string) *Config {
	for _, name := range configNames {
		path := filepath.Join(root, name)
		if _, err := os.Stat(path); err != nil {
			continue
		}
		if cfg, err := Load(path); err == nil {
			return cfg
		}
	}
	return Default()
}

// MergeIgnores combines CLI-provided ignore patterns with the config file's;
// CLI patterns take precedence by appearing first.
func (c *Config) MergeIgnores(cli []string) []string {
	out := make([]string, 0, len(cli)+len(c.Ignore))
	seen := make(map[string]bool, len(cli))
	for _, p := range cli {
		if p != "" && !seen[p] {
			out = append(out, p)
			seen[p] = true
		}
	}
	for _, p := range c.Ignore {
		if p != "" && !seen[p] {
			out = append(out, p)
			seen[p] = true
		}
	}
	return out
}
