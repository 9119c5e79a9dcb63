package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	yamlv3 "gopkg.in/yaml.v3"
)

// EnvPrefix marks environment overrides. Nested keys use a double
// underscore: WORDCLOUD_FACEBOOK__APP_ID -> facebook.app_id.
const EnvPrefix = "WORDCLOUD_"

// Load reads configuration from the given YAML file, then overlays
// environment variable overrides. A missing file is not an error.
func Load(path string) (*Config, error) {
	k := koanf.New(".")

	cfg := DefaultConfig()

	if path != "" {
		if _, err := os.Stat(path); err == nil {
			if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
				return nil, fmt.Errorf("reading config %s: %w", path, err)
			}
		} else if !os.IsNotExist(err) {
			return nil, fmt.Errorf("accessing config %s: %w", path, err)
		}
	}

	if err := k.Load(env.Provider(EnvPrefix, ".", envKey), nil); err != nil {
		return nil, fmt.Errorf("loading env overrides: %w", err)
	}

	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("unmarshalling config: %w", err)
	}

	return cfg, nil
}

func envKey(s string) string {
	key := strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
	return strings.ReplaceAll(key, "__", ".")
}

// Save writes the configuration to the given YAML file path.
func (c *Config) Save(path string) error {
	data, err := yamlv3.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshalling config: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing config to %s: %w", path, err)
	}
	return nil
}

// Validate checks that the configuration contains usable values.
func (c *Config) Validate() error {
	if c.HTTPTimeout < 0 {
		return fmt.Errorf("http_timeout must be non-negative")
	}
	if c.RequestsPerSecond <= 0 {
		return fmt.Errorf("requests_per_second must be positive")
	}
	if c.MaxTerms <= 0 {
		return fmt.Errorf("max_terms must be positive")
	}
	if c.CellWidth <= 0 || c.CellHeight <= 0 {
		return fmt.Errorf("cell_width and cell_height must be positive")
	}
	if !strings.Contains(c.Wikipedia.APIURL, "%lang") {
		return fmt.Errorf("wikipedia.api_url must contain %%lang")
	}
	if c.Wikipedia.DefaultLang == "" {
		return fmt.Errorf("wikipedia.default_lang is required")
	}
	if !strings.Contains(c.GooglePlus.APIURL, "%source") {
		return fmt.Errorf("googleplus.api_url must contain %%source")
	}
	if c.Feed.SearchTemplate != "" && !strings.Contains(c.Feed.SearchTemplate, "%s") {
		return fmt.Errorf("feed.search_template must contain %%s")
	}
	if !strings.Contains(c.Feed.PanelTemplate, "%s") {
		return fmt.Errorf("feed.panel_template must contain %%s")
	}
	return nil
}
