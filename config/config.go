// Package config loads runtime settings from environment variables.
// All knobs live under the SECDOC_ prefix; a handful of legacy variable
// names from earlier deployments are still honored.
package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/knadh/koanf/providers/env/v2"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

const envPrefix = "SECDOC_"

// Config holds every runtime setting of the tool.
type Config struct {
	// StoragePrefix selects the artifact store: "bolt://path" for a
	// bbolt database, a directory path for the filesystem, empty to
	// disable persistence.
	StoragePrefix string `koanf:"storage_prefix"`

	// EdgarUserAgent identifies us to the SEC as their fair-use policy
	// requires.
	EdgarUserAgent string `koanf:"edgar_user_agent"`

	ChunkSize      int `koanf:"chunk_size"`
	MinChunkLength int `koanf:"min_chunk_length"`

	// TaggingModel is the chat model used to tag chunks. Tagging is
	// disabled when empty.
	TaggingModel   string `koanf:"tagging_model"`
	TaggingAPIBase string `koanf:"tagging_api_base"`
	TaggingAPIKey  string `koanf:"tagging_api_key"`

	LogLevel string `koanf:"log_level"`
}

// Default returns the built-in settings.
func Default() Config {
	return Config{
		EdgarUserAgent: "Lee Lynn (hayashi@yahoo.com)",
		ChunkSize:      2000,
		MinChunkLength: 100,
		LogLevel:       "info",
	}
}

// legacyVars maps pre-SECDOC variable names to config keys, in priority
// order: a later entry never overrides an earlier one for the same key.
var legacyVars = []struct{ env, key string }{
	{"STORAGE_PREFIX", "storage_prefix"},
	{"CACHE_PREFIX", "storage_prefix"},
	{"TAGGING_MODEL", "tagging_model"},
	{"LOG_LEVEL", "log_level"},
}

// Load reads the configuration from the environment on top of defaults.
func Load() (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(structs.Provider(Default(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("loading defaults: %w", err)
	}

	applied := map[string]bool{}
	for _, lv := range legacyVars {
		if applied[lv.key] || envSet(lv.key) {
			continue
		}
		if v := os.Getenv(lv.env); v != "" {
			if err := k.Set(lv.key, v); err != nil {
				return nil, fmt.Errorf("applying %s: %w", lv.env, err)
			}
			applied[lv.key] = true
		}
	}

	err := k.Load(env.Provider(".", env.Opt{
		Prefix: envPrefix,
		TransformFunc: func(key, value string) (string, any) {
			return strings.ToLower(strings.TrimPrefix(key, envPrefix)), value
		},
	}), nil)
	if err != nil {
		return nil, fmt.Errorf("loading environment: %w", err)
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}
	return &cfg, nil
}

// envSet reports whether the SECDOC_ form of a config key is present, so
// legacy names never shadow it.
func envSet(key string) bool {
	_, ok := os.LookupEnv(envPrefix + strings.ToUpper(key))
	return ok
}
