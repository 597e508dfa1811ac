// Package config loads client configuration from a YAML file and from
// FLICKR_-prefixed environment variables, with the environment taking
// precedence.
package config

import (
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// Config carries everything needed to build a client.
type Config struct {
	APIKey    string `koanf:"api_key"`
	APISecret string `koanf:"api_secret"`

	// AuthFile points to a saved access token (see auth.LoadFile). Empty
	// means the client starts unauthenticated.
	AuthFile string `koanf:"auth_file"`

	RestURL    string      `koanf:"rest_url"`
	UploadURL  string      `koanf:"upload_url"`
	ReplaceURL string      `koanf:"replace_url"`
	Tracing    bool        `koanf:"tracing"`
	Cache      CacheConfig `koanf:"cache"`
}

// CacheConfig selects and tunes the response cache.
type CacheConfig struct {
	// Type is one of "none", "memory", "bigcache" or "sqlite".
	Type string `koanf:"type"`

	TTL        time.Duration `koanf:"ttl"`
	MaxEntries int           `koanf:"max_entries"`

	// Path is the database file for the sqlite cache.
	Path string `koanf:"path"`
}

// Load reads configuration from the environment only.
func Load() (*Config, error) {
	return load("")
}

// LoadFile reads configuration from a YAML file, then applies environment
// overrides.
func LoadFile(path string) (*Config, error) {
	return load(path)
}

func load(path string) (*Config, error) {
	k := koanf.New(".")

	if path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, err
		}
	}

	if err := k.Load(env.Provider("FLICKR_", ".", func(s string) string {
		return strings.ReplaceAll(strings.ToLower(strings.TrimPrefix(s, "FLICKR_")), "__", ".")
	}), nil); err != nil {
		return nil, err
	}

	if !k.Exists("cache.type") {
		k.Set("cache.type", "none")
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}
