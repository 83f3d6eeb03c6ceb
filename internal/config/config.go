// Package config loads service configuration from defaults, an optional YAML
// file and environment variables, in that order of precedence.
package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

// ConfigPathEnvVar overrides the config file path.
const ConfigPathEnvVar = "CRESCENDO_CONFIG"

// DefaultConfigPaths lists where a config file is searched, first hit wins.
var DefaultConfigPaths = []string{
	"config.yaml",
	"config.yml",
	"/etc/crescendo/config.yaml",
}

// envPrefix namespaces environment overrides; a double underscore nests keys,
// e.g. CRESCENDO_SERVER__ADDR=:9090.
const envPrefix = "CRESCENDO_"

type ServerConfig struct {
	Addr              string        `koanf:"addr"`
	AllowedOrigins    []string      `koanf:"allowed_origins"`
	RequestsPerMinute int           `koanf:"requests_per_minute"`
	ReadHeaderTimeout time.Duration `koanf:"read_header_timeout"`
	ShutdownTimeout   time.Duration `koanf:"shutdown_timeout"`
}

type SpotifyConfig struct {
	BaseURL string `koanf:"base_url"`
	// ClientID/ClientSecret power the optional app-level client; user
	// requests ride their own bearer tokens.
	ClientID     string `koanf:"client_id"`
	ClientSecret string `koanf:"client_secret"`
}

type FeaturesConfig struct {
	BaseURL string `koanf:"base_url"`
}

type GenresConfig struct {
	CatalogPath string `koanf:"catalog_path" validate:"required"`
	StoragePath string `koanf:"storage_path" validate:"required"`
}

type PipelineConfig struct {
	MaxTracks    int           `koanf:"max_tracks" validate:"gt=0"`
	TopLimit     int           `koanf:"top_limit" validate:"gt=0"`
	FetchWorkers int           `koanf:"fetch_workers" validate:"gt=0"`
	CacheSize    int           `koanf:"cache_size" validate:"gt=0"`
	CacheTTL     time.Duration `koanf:"cache_ttl" validate:"gt=0"`
}

type OllamaConfig struct {
	Enabled bool   `koanf:"enabled"`
	URL     string `koanf:"url"`
	Model   string `koanf:"model"`
}

type LogConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
}

// Config is the full service configuration.
type Config struct {
	Server   ServerConfig   `koanf:"server"`
	Spotify  SpotifyConfig  `koanf:"spotify"`
	Features FeaturesConfig `koanf:"features"`
	Genres   GenresConfig   `koanf:"genres"`
	Pipeline PipelineConfig `koanf:"pipeline"`
	Ollama   OllamaConfig   `koanf:"ollama"`
	Log      LogConfig      `koanf:"log"`
}

func defaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Addr:              ":8000",
			AllowedOrigins:    []string{"http://localhost:3000"},
			RequestsPerMinute: 120,
			ReadHeaderTimeout: 15 * time.Second,
			ShutdownTimeout:   10 * time.Second,
		},
		Spotify: SpotifyConfig{
			BaseURL: "", // empty selects the production API
		},
		Features: FeaturesConfig{
			BaseURL: "",
		},
		Genres: GenresConfig{
			CatalogPath: "GENRES.md",
			StoragePath: "crescendo.db",
		},
		Pipeline: PipelineConfig{
			MaxTracks:    20,
			TopLimit:     5,
			FetchWorkers: 4,
			CacheSize:    1000,
			CacheTTL:     300 * time.Second,
		},
		Ollama: OllamaConfig{
			Enabled: false,
			URL:     "http://localhost:11434",
			Model:   "llama3.2:3b",
		},
		Log: LogConfig{
			Level:  "info",
			Format: "json",
		},
	}
}

// Load assembles the configuration: defaults, then the first config file
// found (or ConfigPathEnvVar), then CRESCENDO_* environment variables.
func Load() (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(structs.Provider(defaultConfig(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("config: load defaults: %w", err)
	}

	if path := findConfigFile(); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("config: load %s: %w", path, err)
		}
	}

	envProvider := env.Provider(envPrefix, ".", func(s string) string {
		s = strings.TrimPrefix(s, envPrefix)
		return strings.ReplaceAll(strings.ToLower(s), "__", ".")
	})
	if err := k.Load(envProvider, nil); err != nil {
		return nil, fmt.Errorf("config: load env: %w", err)
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("config: unmarshal: %w", err)
	}

	if err := validator.New().Struct(cfg); err != nil {
		return nil, fmt.Errorf("config: validate: %w", err)
	}
	return cfg, nil
}

func findConfigFile() string {
	if path := os.Getenv(ConfigPathEnvVar); path != "" {
		return path
	}
	for _, path := range DefaultConfigPaths {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}
