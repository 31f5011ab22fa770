package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jorgebotas/gocyto/pkg/cache"
	"github.com/jorgebotas/gocyto/pkg/config"
)

// cacheCommand creates the cache management command.
func (c *CLI) cacheCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Manage the CyREST lookup cache",
	}

	cmd.AddCommand(c.cacheClearCommand())
	cmd.AddCommand(c.cachePathCommand())

	return cmd
}

// cacheClearCommand creates the "cache clear" subcommand.
func (c *CLI) cacheClearCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Clear cached CyREST lookups",
		Long: `Clear cached CyREST lookups.

With the file backend every entry is removed. With the redis backend only the
entries of the configured base URL are removed, since the instance may be
shared.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := c.settings()
			switch cfg.Cache.Backend {
			case config.CacheNone:
				printInfo("Cache is disabled")
				return nil

			case config.CacheRedis:
				cc := c.newCache(cmd.Context())
				defer cc.Close()
				if err := cc.Delete(cmd.Context(), cache.ShapesKey(cfg.BaseURL)); err != nil {
					return fmt.Errorf("clear redis cache: %w", err)
				}
				printSuccess("Cleared cached lookups for %s", StyleHighlight.Render(cfg.BaseURL))
				return nil
			}

			dir, err := cfg.CacheDir()
			if err != nil {
				return fmt.Errorf("get cache dir: %w", err)
			}
			fc, err := cache.NewFileCache(dir)
			if err != nil {
				return fmt.Errorf("open cache: %w", err)
			}
			count, err := fc.Clear()
			if err != nil {
				return err
			}
			printSuccess("Cleared %d cached entries", count)
			printDetail("Directory: %s", dir)
			return nil
		},
	}
}

// cachePathCommand creates the "cache path" subcommand.
func (c *CLI) cachePathCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "Print the cache directory path",
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, err := c.settings().CacheDir()
			if err != nil {
				return fmt.Errorf("get cache dir: %w", err)
			}
			fmt.Println(dir)
			return nil
		},
	}
}
