package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/afgraph/pkg/cache"
	"github.com/matzehuels/afgraph/pkg/config"
)

// cacheCommand creates the cache management command.
func (c *CLI) cacheCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Manage the snapshot cache",
	}

	cmd.AddCommand(c.cacheClearCommand())
	cmd.AddCommand(c.cachePathCommand())

	return cmd
}

// cacheClearCommand creates the "cache clear" subcommand.
func (c *CLI) cacheClearCommand() *cobra.Command {
	var redisAddr string
	cmd := &cobra.Command{
		Use:   "clear",
		Short: "Remove all cached graph and index snapshots",
		Long: `Remove all cached graph and index snapshots from the local cache
directory, or from Redis with --redis.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := config.Engine{Cache: cache.BackendFile}
			if redisAddr != "" {
				opts = config.Engine{Cache: cache.BackendRedis, RedisAddr: redisAddr}
			}
			return c.clearCache(cmd.Context(), opts)
		},
	}
	cmd.Flags().StringVar(&redisAddr, "redis", "", "clear the Redis cache at this address instead")
	return cmd
}

func (c *CLI) clearCache(ctx context.Context, ec config.Engine) error {
	snapshots, err := c.openCache(ec)
	if err != nil {
		return err
	}
	defer snapshots.Close()

	clearer, ok := snapshots.(cache.Clearer)
	if !ok {
		return fmt.Errorf("%s cache cannot be cleared", ec.Cache)
	}
	n, err := clearer.Clear(ctx)
	if err != nil {
		return err
	}
	if n == 0 {
		printInfo("Cache is empty")
		return nil
	}
	printSuccess("Cleared %d cached snapshots", n)
	switch sc := snapshots.(type) {
	case *cache.FileCache:
		printDetail("Directory: %s", sc.Dir())
	default:
		printDetail("Redis: %s", ec.RedisAddr)
	}
	return nil
}

// cachePathCommand creates the "cache path" subcommand.
func (c *CLI) cachePathCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "Print the cache directory path",
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, err := cacheDir()
			if err != nil {
				return fmt.Errorf("get cache dir: %w", err)
			}
			fmt.Fprintln(stdout, dir)
			return nil
		},
	}
}
