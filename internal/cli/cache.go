package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/matzehuels/procflow/pkg/cache"
)

func (c *CLI) cacheCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Manage cached layouts and rendered artifacts",
	}
	cmd.AddCommand(c.cacheClearCommand(), c.cachePathCommand())
	return cmd
}

// localCacheDir is [cache] dir from the config, else the XDG cache dir.
func (c *CLI) localCacheDir() (string, error) {
	if dir := c.config().Cache.Dir; dir != "" {
		return dir, nil
	}
	return cacheDir()
}

func (c *CLI) cacheClearCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Remove every cached layout and artifact",
		Long: `Remove every cached layout and artifact from the configured backend.

With backend = "redis" only keys under the procflow prefix are deleted.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := c.config().Cache
			switch cfg.Backend {
			case backendNone:
				printInfo("Caching is disabled")
				return nil
			case backendRedis:
				return clearRedis(cmd.Context(), cfg.RedisURL)
			}

			dir, err := c.localCacheDir()
			if err != nil {
				return fmt.Errorf("get cache dir: %w", err)
			}
			if _, err := os.Stat(dir); os.IsNotExist(err) {
				printInfo("Cache is empty")
				return nil
			}
			fc, err := cache.NewFileCache(dir)
			if err != nil {
				return err
			}
			n, err := fc.Clear()
			if err != nil {
				return err
			}
			printSuccess("Cleared %d cached entries", n)
			printDetail("Directory: %s", dir)
			return nil
		},
	}
}

func clearRedis(ctx context.Context, url string) error {
	if ctx == nil {
		ctx = context.Background()
	}
	rc, err := cache.NewRedisCache(ctx, cache.RedisOptions{URL: url, Prefix: redisPrefix})
	if err != nil {
		return err
	}
	defer rc.Close()

	n, err := rc.Clear(ctx)
	if err != nil {
		return err
	}
	printSuccess("Cleared %d cached entries", n)
	printDetail("Redis prefix: %s", redisPrefix)
	return nil
}

func (c *CLI) cachePathCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "Print the file cache directory",
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, err := c.localCacheDir()
			if err != nil {
				return fmt.Errorf("get cache dir: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), dir)
			return nil
		},
	}
}
