// Package config loads gocyto settings.
//
// Settings are layered, later sources winning:
//
//  1. Built-in defaults ([Default])
//  2. The TOML config file ($XDG_CONFIG_HOME/gocyto/config.toml, or --config)
//  3. A .env file in the working directory
//  4. GOCYTO_* environment variables
//  5. Command-line flags (applied by the CLI)
//
// The merged result is checked with [Config.Validate] before use.
//
// Example config.toml:
//
//	base_url = "http://127.0.0.1:1234/v1"
//	timeout  = "30s"
//	retries  = 2
//
//	[columns]
//	cluster_value = "cluster number"
//
//	[layout]
//	spacingx = 200
//
//	[cache]
//	backend = "redis"
//	[cache.redis]
//	addr = "localhost:6379"
package config

import (
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"

	"github.com/jorgebotas/gocyto/pkg/errors"
)

const appName = "gocyto"

// Environment variables read by [Load].
const (
	EnvBaseURL   = "GOCYTO_BASE_URL"
	EnvTimeout   = "GOCYTO_TIMEOUT"
	EnvRedisAddr = "GOCYTO_REDIS_ADDR"
)

// DefaultBaseURL is the CyREST endpoint of a local Cytoscape desktop.
const DefaultBaseURL = "http://127.0.0.1:1234/v1"

// Cache backends.
const (
	CacheFile  = "file"
	CacheRedis = "redis"
	CacheNone  = "none"
)

// Config is the complete gocyto configuration.
type Config struct {
	BaseURL   string   `toml:"base_url" validate:"required,url"`
	Timeout   Duration `toml:"timeout"`
	Retries   int      `toml:"retries" validate:"gte=0,lte=10"`
	RateLimit float64  `toml:"rate_limit" validate:"gte=0"` // requests per second, 0 = unlimited

	Columns Columns       `toml:"columns"`
	Layout  Layout        `toml:"layout"`
	Style   Style         `toml:"style"`
	Cache   CacheConfig   `toml:"cache"`
	History HistoryConfig `toml:"history"`
	Metrics MetricsConfig `toml:"metrics"`
}

// Columns names the input file columns.
type Columns struct {
	Source       string `toml:"source" validate:"required"`
	Target       string `toml:"target" validate:"required"`
	ClusterKey   string `toml:"cluster_key" validate:"required"`
	ClusterValue string `toml:"cluster_value" validate:"required"`
	ClusterColor string `toml:"cluster_color"`
	AttributeKey string `toml:"attribute_key" validate:"required"`
}

// Layout holds the attributes-layout parameters.
type Layout struct {
	SpacingX         float64 `toml:"spacingx" validate:"gte=0"`
	SpacingY         float64 `toml:"spacingy" validate:"gte=0"`
	MaxWidth         float64 `toml:"maxwidth" validate:"gte=0"`
	MinRadius        float64 `toml:"minrad" validate:"gte=0"`
	RadiusMultiplier float64 `toml:"radmult" validate:"gte=0"`
}

// Style holds styling defaults.
type Style struct {
	Preset    string  `toml:"preset"`
	Hole      float64 `toml:"hole" validate:"gt=0,lte=1"`
	LabelFont string  `toml:"label_font" validate:"required"`
}

// CacheConfig selects and configures the cache backend.
type CacheConfig struct {
	Backend string   `toml:"backend" validate:"oneof=file redis none"`
	Dir     string   `toml:"dir"`
	TTL     Duration `toml:"ttl"`
	Redis   Redis    `toml:"redis"`
}

// Redis holds connection settings for the redis cache backend.
type Redis struct {
	Addr     string `toml:"addr"`
	Password string `toml:"password"`
	DB       int    `toml:"db" validate:"gte=0"`
}

// HistoryConfig controls the run history database.
type HistoryConfig struct {
	Disabled bool   `toml:"disabled"`
	Path     string `toml:"path"`
}

// MetricsConfig controls the Prometheus textfile export.
type MetricsConfig struct {
	File string `toml:"file"`
}

// Default returns a fresh Config with built-in defaults.
func Default() *Config {
	return &Config{
		BaseURL: DefaultBaseURL,
		Timeout: Duration{30 * time.Second},
		Columns: Columns{
			Source:       "#node1",
			Target:       "node2",
			ClusterKey:   "protein name",
			ClusterValue: "cluster number",
			ClusterColor: "cluster color",
			AttributeKey: "gene",
		},
		Layout: DefaultLayout(),
		Style: Style{
			Hole:      0.7,
			LabelFont: "Avenir",
		},
		Cache: CacheConfig{
			Backend: CacheFile,
			TTL:     Duration{24 * time.Hour},
		},
	}
}

// DefaultLayout returns the attributes-layout parameters used when none
// are configured.
func DefaultLayout() Layout {
	return Layout{
		SpacingX:         150,
		SpacingY:         150,
		MaxWidth:         2000,
		MinRadius:        100,
		RadiusMultiplier: 50,
	}
}

// Load builds a Config from defaults, the config file at path, .env and the
// environment. An empty path uses [DefaultPath] and tolerates its absence;
// an explicit path must exist.
func Load(path string) (*Config, error) {
	cfg := Default()

	explicit := path != ""
	if !explicit {
		path = DefaultPath()
	}
	if path != "" {
		if _, err := os.Stat(path); err == nil {
			if _, err := toml.DecodeFile(path, cfg); err != nil {
				return nil, errors.Wrap(errors.ErrCodeInvalidConfig, err, "parse %s", path)
			}
		} else if explicit {
			return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "config file %s", path)
		}
	}

	_ = godotenv.Load()
	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyEnv() error {
	if v := os.Getenv(EnvBaseURL); v != "" {
		c.BaseURL = v
	}
	if v := os.Getenv(EnvTimeout); v != "" {
		d, err := parseDuration(v)
		if err != nil {
			return errors.Wrap(errors.ErrCodeInvalidConfig, err, "%s", EnvTimeout)
		}
		c.Timeout = Duration{d}
	}
	if v := os.Getenv(EnvRedisAddr); v != "" {
		c.Cache.Backend = CacheRedis
		c.Cache.Redis.Addr = v
	}
	return nil
}

// DefaultPath returns $XDG_CONFIG_HOME/gocyto/config.toml, falling back to
// ~/.config. It returns "" when no home directory is known.
func DefaultPath() string {
	if dir := os.Getenv("XDG_CONFIG_HOME"); dir != "" {
		return filepath.Join(dir, appName, "config.toml")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", appName, "config.toml")
}

// CacheDir returns the file cache directory: the configured one, or
// $XDG_CACHE_HOME/gocyto (~/.cache/gocyto).
func (c *Config) CacheDir() (string, error) {
	if c.Cache.Dir != "" {
		return c.Cache.Dir, nil
	}
	if dir := os.Getenv("XDG_CACHE_HOME"); dir != "" {
		return filepath.Join(dir, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".cache", appName), nil
}

// HistoryPath returns the run history database path: the configured one, or
// $XDG_DATA_HOME/gocyto/history.db (~/.local/share/gocyto/history.db).
func (c *Config) HistoryPath() (string, error) {
	if c.History.Path != "" {
		return c.History.Path, nil
	}
	if dir := os.Getenv("XDG_DATA_HOME"); dir != "" {
		return filepath.Join(dir, appName, "history.db"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".local", "share", appName, "history.db"), nil
}

// Duration is a time.Duration that decodes from strings such as "30s" or
// "45" (seconds).
type Duration struct {
	time.Duration
}

func (d *Duration) UnmarshalText(text []byte) error {
	v, err := parseDuration(string(text))
	if err != nil {
		return err
	}
	d.Duration = v
	return nil
}

func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

func parseDuration(s string) (time.Duration, error) {
	if n, err := strconv.Atoi(s); err == nil {
		return time.Duration(n) * time.Second, nil
	}
	return time.ParseDuration(s)
}
