package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/jorgebotas/gocyto/pkg/errors"
)

func isolate(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)
	t.Setenv(EnvBaseURL, "")
	t.Setenv(EnvTimeout, "")
	t.Setenv(EnvRedisAddr, "")
	t.Chdir(t.TempDir())
	return dir
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestDefault(t *testing.T) {
	cfg := Default()
	if cfg.BaseURL != DefaultBaseURL {
		t.Errorf("BaseURL = %q", cfg.BaseURL)
	}
	if cfg.Timeout.Duration != 30*time.Second {
		t.Errorf("Timeout = %v", cfg.Timeout)
	}
	if cfg.Columns.Source != "#node1" || cfg.Columns.Target != "node2" {
		t.Errorf("edge columns = %q/%q", cfg.Columns.Source, cfg.Columns.Target)
	}
	if cfg.Layout != DefaultLayout() {
		t.Errorf("Layout = %+v", cfg.Layout)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("defaults should validate: %v", err)
	}

	// Each call returns an independent value
	Default().Columns.Source = "x"
	if Default().Columns.Source != "#node1" {
		t.Error("Default() should return a fresh value")
	}
}

func TestLoadMissingDefaultFile(t *testing.T) {
	isolate(t)
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.BaseURL != DefaultBaseURL {
		t.Errorf("BaseURL = %q", cfg.BaseURL)
	}
}

func TestLoadMissingExplicitFile(t *testing.T) {
	isolate(t)
	_, err := Load(filepath.Join(t.TempDir(), "nope.toml"))
	if !errors.Is(err, errors.ErrCodeFileNotFound) {
		t.Errorf("Load error = %v, want FILE_NOT_FOUND", err)
	}
}

func TestLoadFile(t *testing.T) {
	dir := isolate(t)
	writeFile(t, filepath.Join(dir, "gocyto", "config.toml"), `
base_url = "http://10.0.0.5:1234/v1"
timeout = "5s"
retries = 2

[columns]
cluster_value = "cluster"

[layout]
spacingx = 300

[style]
hole = 0.5
`)

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.BaseURL != "http://10.0.0.5:1234/v1" {
		t.Errorf("BaseURL = %q", cfg.BaseURL)
	}
	if cfg.Timeout.Duration != 5*time.Second {
		t.Errorf("Timeout = %v", cfg.Timeout)
	}
	if cfg.Retries != 2 {
		t.Errorf("Retries = %d", cfg.Retries)
	}
	if cfg.Columns.ClusterValue != "cluster" {
		t.Errorf("ClusterValue = %q", cfg.Columns.ClusterValue)
	}
	// unset keys keep their defaults
	if cfg.Columns.ClusterKey != "protein name" {
		t.Errorf("ClusterKey = %q", cfg.Columns.ClusterKey)
	}
	if cfg.Layout.SpacingX != 300 || cfg.Layout.SpacingY != 150 {
		t.Errorf("Layout = %+v", cfg.Layout)
	}
	if cfg.Style.Hole != 0.5 {
		t.Errorf("Hole = %v", cfg.Style.Hole)
	}
}

func TestLoadInvalidTOML(t *testing.T) {
	isolate(t)
	path := filepath.Join(t.TempDir(), "bad.toml")
	writeFile(t, path, "base_url = ")
	if _, err := Load(path); !errors.Is(err, errors.ErrCodeInvalidConfig) {
		t.Errorf("Load error = %v, want INVALID_CONFIG", err)
	}
}

func TestLoadEnvOverrides(t *testing.T) {
	isolate(t)
	t.Setenv(EnvBaseURL, "http://cytoscape:1234/v1")
	t.Setenv(EnvTimeout, "90")
	t.Setenv(EnvRedisAddr, "redis:6379")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.BaseURL != "http://cytoscape:1234/v1" {
		t.Errorf("BaseURL = %q", cfg.BaseURL)
	}
	if cfg.Timeout.Duration != 90*time.Second {
		t.Errorf("Timeout = %v", cfg.Timeout)
	}
	if cfg.Cache.Backend != CacheRedis || cfg.Cache.Redis.Addr != "redis:6379" {
		t.Errorf("Cache = %+v", cfg.Cache)
	}
}

func TestLoadDotEnv(t *testing.T) {
	isolate(t)
	writeFile(t, ".env", "GOCYTO_BASE_URL=http://from-dotenv:1234/v1\n")
	t.Cleanup(func() { os.Unsetenv(EnvBaseURL) })
	// godotenv never overrides variables that are already set
	os.Unsetenv(EnvBaseURL)

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.BaseURL != "http://from-dotenv:1234/v1" {
		t.Errorf("BaseURL = %q", cfg.BaseURL)
	}
}

func TestLoadBadEnvTimeout(t *testing.T) {
	isolate(t)
	t.Setenv(EnvTimeout, "soon")
	if _, err := Load(""); !errors.Is(err, errors.ErrCodeInvalidConfig) {
		t.Errorf("Load error = %v, want INVALID_CONFIG", err)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"empty base url", func(c *Config) { c.BaseURL = "" }},
		{"bad base url", func(c *Config) { c.BaseURL = "not a url" }},
		{"negative retries", func(c *Config) { c.Retries = -1 }},
		{"negative rate", func(c *Config) { c.RateLimit = -1 }},
		{"zero timeout", func(c *Config) { c.Timeout = Duration{} }},
		{"zero hole", func(c *Config) { c.Style.Hole = 0 }},
		{"hole above one", func(c *Config) { c.Style.Hole = 1.5 }},
		{"empty source column", func(c *Config) { c.Columns.Source = "" }},
		{"negative spacing", func(c *Config) { c.Layout.SpacingX = -1 }},
		{"unknown backend", func(c *Config) { c.Cache.Backend = "memcached" }},
		{"redis without addr", func(c *Config) { c.Cache.Backend = CacheRedis }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			err := cfg.Validate()
			if !errors.Is(err, errors.ErrCodeInvalidConfig) {
				t.Errorf("Validate() = %v, want INVALID_CONFIG", err)
			}
		})
	}
}

func TestLayoutValidate(t *testing.T) {
	if err := DefaultLayout().Validate(); err != nil {
		t.Errorf("default layout: %v", err)
	}
	l := DefaultLayout()
	l.MinRadius = -5
	if err := l.Validate(); !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Errorf("Validate() = %v, want INVALID_INPUT", err)
	}
	var zero Layout
	if err := zero.Validate(); err != nil {
		t.Errorf("zero layout is non-negative: %v", err)
	}
}

func TestPaths(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "/cfg")
	t.Setenv("XDG_CACHE_HOME", "/cache")
	t.Setenv("XDG_DATA_HOME", "/data")

	if got := DefaultPath(); got != "/cfg/gocyto/config.toml" {
		t.Errorf("DefaultPath() = %q", got)
	}
	cfg := Default()
	if got, _ := cfg.CacheDir(); got != "/cache/gocyto" {
		t.Errorf("CacheDir() = %q", got)
	}
	if got, _ := cfg.HistoryPath(); got != "/data/gocyto/history.db" {
		t.Errorf("HistoryPath() = %q", got)
	}

	cfg.Cache.Dir = "/tmp/c"
	cfg.History.Path = "/tmp/h.db"
	if got, _ := cfg.CacheDir(); got != "/tmp/c" {
		t.Errorf("CacheDir() override = %q", got)
	}
	if got, _ := cfg.HistoryPath(); got != "/tmp/h.db" {
		t.Errorf("HistoryPath() override = %q", got)
	}
}

func TestDurationUnmarshalText(t *testing.T) {
	var d Duration
	if err := d.UnmarshalText([]byte("1m30s")); err != nil || d.Duration != 90*time.Second {
		t.Errorf("1m30s -> %v, %v", d, err)
	}
	if err := d.UnmarshalText([]byte("12")); err != nil || d.Duration != 12*time.Second {
		t.Errorf("12 -> %v, %v", d, err)
	}
	if err := d.UnmarshalText([]byte("later")); err == nil {
		t.Error("expected error for invalid duration")
	}
}
