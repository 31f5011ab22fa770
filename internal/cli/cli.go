// Package cli implements the gocyto command-line interface.
package cli

import (
	"context"
	"io"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/jorgebotas/gocyto/pkg/buildinfo"
	"github.com/jorgebotas/gocyto/pkg/cache"
	"github.com/jorgebotas/gocyto/pkg/config"
	"github.com/jorgebotas/gocyto/pkg/cyrest"
	"github.com/jorgebotas/gocyto/pkg/history"
	"github.com/jorgebotas/gocyto/pkg/observability"
	"github.com/jorgebotas/gocyto/pkg/pipeline"
)

// =============================================================================
// Constants
// =============================================================================

// appName is the application name used for directories and display.
const appName = "gocyto"

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger

	// Global flags
	configPath  string
	baseURL     string
	noCache     bool
	metricsFile string

	// Set by the root PersistentPreRunE
	cfg     *config.Config
	metrics *observability.Metrics
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{Logger: newLogger(w, level)}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   appName,
		Short: "gocyto loads tabular networks into Cytoscape and styles them",
		Long: `gocyto is a CLI tool that reads edge lists, cluster and attribute tables,
creates the network in a running Cytoscape through its CyREST API, and applies
colors, ring charts, a cluster layout and cluster labels.`,
		Version:           buildinfo.Version,
		SilenceUsage:      true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error { return c.setup() },
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			return c.flushMetrics()
		},
	}

	root.SetVersionTemplate(buildinfo.Template())

	flags := root.PersistentFlags()
	flags.StringVar(&c.configPath, "config", "", "config file (default: "+config.DefaultPath()+")")
	flags.StringVar(&c.baseURL, "base-url", "", "CyREST base URL (default: "+config.DefaultBaseURL+")")
	flags.BoolVar(&c.noCache, "no-cache", false, "disable the CyREST lookup cache")
	flags.StringVar(&c.metricsFile, "metrics-file", "", "write Prometheus metrics to this textfile on exit")

	// Remote commands
	root.AddCommand(c.networkCommand())
	root.AddCommand(c.layoutCommand())
	root.AddCommand(c.annotateCommand())
	root.AddCommand(c.styleCommand())
	root.AddCommand(c.exportCommand())
	root.AddCommand(c.shapesCommand())
	root.AddCommand(c.pingCommand())

	// Local commands
	root.AddCommand(c.inspectCommand())
	root.AddCommand(c.previewCommand())
	root.AddCommand(c.historyCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// setup loads the configuration, applies global flags and installs the
// metrics hooks.
func (c *CLI) setup() error {
	cfg, err := config.Load(c.configPath)
	if err != nil {
		return err
	}
	if c.baseURL != "" {
		cfg.BaseURL = c.baseURL
	}
	if c.noCache {
		cfg.Cache.Backend = config.CacheNone
	}
	if c.metricsFile != "" {
		cfg.Metrics.File = c.metricsFile
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	c.cfg = cfg

	if cfg.Metrics.File != "" {
		c.metrics = observability.NewMetrics()
		observability.SetPipelineHooks(c.metrics)
		observability.SetCacheHooks(c.metrics)
		observability.SetHTTPHooks(c.metrics)
	}
	c.Logger.Debug("configuration loaded", "base_url", cfg.BaseURL, "cache", cfg.Cache.Backend)
	return nil
}

// settings returns the loaded configuration, or defaults when setup did not
// run (as in tests that call command helpers directly).
func (c *CLI) settings() *config.Config {
	if c.cfg == nil {
		c.cfg = config.Default()
	}
	return c.cfg
}

func (c *CLI) flushMetrics() error {
	if c.metrics == nil {
		return nil
	}
	path := c.settings().Metrics.File
	if err := c.metrics.WriteTextfile(path); err != nil {
		c.Logger.Warn("could not write metrics", "path", path, "error", err)
		return nil
	}
	c.Logger.Debug("metrics written", "path", path)
	return nil
}

// =============================================================================
// Client and Runner Factory
// =============================================================================

// newCache creates the configured cache backend. An unreachable Redis falls
// back to no cache with a warning.
func (c *CLI) newCache(ctx context.Context) cache.Cache {
	cfg := c.settings()
	switch cfg.Cache.Backend {
	case config.CacheNone:
		return cache.NewNullCache()
	case config.CacheRedis:
		rc, err := cache.NewRedisCache(ctx, cache.RedisConfig{
			Addr:     cfg.Cache.Redis.Addr,
			Password: cfg.Cache.Redis.Password,
			DB:       cfg.Cache.Redis.DB,
		})
		if err != nil {
			c.Logger.Warn("redis cache unavailable, continuing without cache", "error", err)
			return cache.NewNullCache()
		}
		return rc
	}
	dir, err := cfg.CacheDir()
	if err != nil {
		return cache.NewNullCache()
	}
	fc, err := cache.NewFileCache(dir)
	if err != nil {
		c.Logger.Warn("file cache unavailable, continuing without cache", "dir", dir, "error", err)
		return cache.NewNullCache()
	}
	return fc
}

// newClient creates a CyREST client from the configuration. The returned
// close function releases the cache.
func (c *CLI) newClient(ctx context.Context) (*cyrest.Client, func(), error) {
	cfg := c.settings()
	cc := c.newCache(ctx)
	client, err := cyrest.New(cfg.BaseURL,
		cyrest.WithTimeout(cfg.Timeout.Duration),
		cyrest.WithRetries(cfg.Retries),
		cyrest.WithRateLimit(cfg.RateLimit),
		cyrest.WithCache(cc),
		cyrest.WithLogger(c.Logger),
	)
	if err != nil {
		cc.Close()
		return nil, nil, err
	}
	return client, func() { cc.Close() }, nil
}

// openHistory opens the run history, or returns nil when it is disabled or
// cannot be opened.
func (c *CLI) openHistory() *history.Store {
	cfg := c.settings()
	if cfg.History.Disabled {
		return nil
	}
	path, err := cfg.HistoryPath()
	if err != nil {
		return nil
	}
	store, err := history.Open(path)
	if err != nil {
		c.Logger.Warn("run history unavailable", "path", path, "error", err)
		return nil
	}
	return store
}

// newRunner creates a pipeline runner for CLI use.
func (c *CLI) newRunner(ctx context.Context, withHistory bool) (*pipeline.Runner, func(), error) {
	client, closeClient, err := c.newClient(ctx)
	if err != nil {
		return nil, nil, err
	}
	var store *history.Store
	if withHistory {
		store = c.openHistory()
	}
	closeAll := func() {
		closeClient()
		if store != nil {
			store.Close()
		}
	}
	return pipeline.NewRunner(client, store, c.Logger), closeAll, nil
}

// =============================================================================
// Warnings
// =============================================================================

// warningSink prints styling warnings as they happen.
func warningSink(msg string) {
	printWarning("%s", msg)
}

// isTerminal reports whether stdin is an interactive terminal.
var isTerminal = func() bool {
	fi, err := os.Stdin.Stat()
	return err == nil && fi.Mode()&os.ModeCharDevice != 0
}
