// Package config loads bookrec settings from built-in defaults, an optional
// YAML file, BOOKREC_* environment variables and command-line overrides, in
// increasing order of precedence.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"

	"github.com/chriscorrea/bookrec/internal/recommend"
)

const (
	// EnvPrefix starts every environment variable read by Load.
	EnvPrefix = "BOOKREC_"
	// PathEnvVar names a config file when --config is not given.
	PathEnvVar = EnvPrefix + "CONFIG"
	// DefaultCatalog is where the prepared catalog is expected by default.
	DefaultCatalog = "data/prepared_bookdata.csv"
)

// Config holds every tunable setting.
type Config struct {
	Catalog           string       `koanf:"catalog"`
	Stem              bool         `koanf:"stem"`
	StripHTML         bool         `koanf:"strip_html"`
	CacheSimilarities bool         `koanf:"cache_similarities"`
	Recommendations   int          `koanf:"recommendations"`
	MinDF             int          `koanf:"min_df"`
	MaxDF             float64      `koanf:"max_df"`
	Server            ServerConfig `koanf:"server"`
}

// ServerConfig configures the query API.
type ServerConfig struct {
	Addr            string        `koanf:"addr"`
	ReadTimeout     time.Duration `koanf:"read_timeout"`
	WriteTimeout    time.Duration `koanf:"write_timeout"`
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout"`
}

// Default returns the built-in settings.
func Default() *Config {
	return &Config{
		Catalog:         DefaultCatalog,
		StripHTML:       true,
		Recommendations: recommend.DefaultRecommendations,
		MinDF:           1,
		MaxDF:           1.0,
		Server: ServerConfig{
			Addr:            ":8080",
			ReadTimeout:     10 * time.Second,
			WriteTimeout:    30 * time.Second,
			ShutdownTimeout: 10 * time.Second,
		},
	}
}

// envKeys maps lowercased variable names (prefix removed) to config paths.
var envKeys = map[string]string{
	"catalog":                 "catalog",
	"stem":                    "stem",
	"strip_html":              "strip_html",
	"cache_similarities":      "cache_similarities",
	"recommendations":         "recommendations",
	"min_df":                  "min_df",
	"max_df":                  "max_df",
	"server_addr":             "server.addr",
	"addr":                    "server.addr",
	"server_read_timeout":     "server.read_timeout",
	"server_write_timeout":    "server.write_timeout",
	"server_shutdown_timeout": "server.shutdown_timeout",
}

// envTransform turns BOOKREC_SERVER_ADDR into server.addr. Unknown variables
// map to the empty key and are skipped.
func envTransform(key string) string {
	key = strings.ToLower(strings.TrimPrefix(key, EnvPrefix))
	return envKeys[key]
}

// Load layers defaults, the YAML file at path (or $BOOKREC_CONFIG when path is
// empty), the environment, and overrides. Override keys use config paths
// such as "server.addr"; they normally come from flags the user set.
func Load(path string, overrides map[string]any) (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(structs.Provider(Default(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	if path == "" {
		path = os.Getenv(PathEnvVar)
	}
	if path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", path, err)
		}
		slog.Debug("Loaded config file", "path", path)
	}

	if err := k.Load(env.Provider(EnvPrefix, ".", envTransform), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	for key, value := range overrides {
		if err := k.Set(key, value); err != nil {
			return nil, fmt.Errorf("failed to apply override %s: %w", key, err)
		}
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}
	return cfg, nil
}

// Validate checks ranges. The recommendation bounds are the engine's.
func (c *Config) Validate() error {
	var errs []error
	if strings.TrimSpace(c.Catalog) == "" {
		errs = append(errs, errors.New("catalog must not be empty"))
	}
	if c.Recommendations < recommend.MinRecommendations || c.Recommendations > recommend.MaxRecommendations {
		errs = append(errs, fmt.Errorf("recommendations must be between %d and %d, got %d",
			recommend.MinRecommendations, recommend.MaxRecommendations, c.Recommendations))
	}
	if c.MinDF < 1 {
		errs = append(errs, fmt.Errorf("min_df must be at least 1, got %d", c.MinDF))
	}
	if c.MaxDF <= 0 || c.MaxDF > 1 {
		errs = append(errs, fmt.Errorf("max_df must be in (0, 1], got %g", c.MaxDF))
	}
	if c.Server.Addr == "" {
		errs = append(errs, errors.New("server.addr must not be empty"))
	}
	return errors.Join(errs...)
}
