package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/matzehuels/depstatus/pkg/config"
	"github.com/matzehuels/depstatus/pkg/engine"
	"github.com/matzehuels/depstatus/pkg/integrations/github"
)

// cacheCommand creates the cache management command.
func (c *CLI) cacheCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Manage the local status cache",
	}

	cmd.AddCommand(c.cacheClearCommand())
	cmd.AddCommand(c.cacheForgetCommand())
	cmd.AddCommand(c.cachePathCommand())

	return cmd
}

// cacheClearCommand creates the "cache clear" subcommand.
func (c *CLI) cacheClearCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Clear all cached status reports",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			if cfg.Cache != config.CacheFile {
				printWarning("cache backend is %s; entries expire on their own after %s", cfg.Cache, cfg.CacheTTL)
				return nil
			}
			dir, err := fileCacheDir(cfg)
			if err != nil {
				return fmt.Errorf("get cache dir: %w", err)
			}

			count, err := clearDir(dir)
			if err != nil {
				return err
			}
			if count == 0 {
				printInfo("Cache is empty")
				return nil
			}
			printSuccess("Cleared %d cached entries", count)
			printDetail("Directory: %s", dir)
			return nil
		},
	}
}

// cacheForgetCommand creates the "cache forget" subcommand. It works with
// every backend, unlike clear.
func (c *CLI) cacheForgetCommand() *cobra.Command {
	var opts checkOpts

	cmd := &cobra.Command{
		Use:   "forget OWNER/NAME",
		Short: "Drop the cached status report of one repository",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			owner, name, err := github.ParseRepoRef(args[0])
			if err != nil {
				return err
			}
			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			ctx := cmd.Context()
			eng, closeFn, err := c.newEngine(ctx, cfg)
			if err != nil {
				return err
			}
			defer closeFn()

			req := engine.Request{
				Owner:  owner,
				Name:   name,
				Branch: opts.branch,
				Prefix: opts.path,
				Class:  opts.class(),
			}
			if err := eng.Invalidate(ctx, req); err != nil {
				return fmt.Errorf("forget %s/%s: %w", owner, name, err)
			}
			printSuccess("Forgot %s/%s [%s]", owner, name, req.Class)
			return nil
		},
	}

	cmd.Flags().BoolVar(&opts.dev, "dev", false, "forget the [dev-dependencies] report")
	cmd.Flags().BoolVar(&opts.build, "build", false, "forget the [build-dependencies] report")
	cmd.Flags().StringVar(&opts.branch, "branch", "", "branch of the cached report (default from config)")
	cmd.Flags().StringVar(&opts.path, "path", "", "directory of Cargo.toml within the repository")
	cmd.MarkFlagsMutuallyExclusive("dev", "build")

	return cmd
}

// clearDir removes every file below dir and then the emptied
// subdirectories. dir itself is kept.
func clearDir(dir string) (int, error) {
	if _, err := os.Stat(dir); os.IsNotExist(err) {
		return 0, nil
	}

	count := 0
	var subdirs []string
	err := filepath.WalkDir(dir, func(path string, d os.DirEntry, err error) error {
		if err != nil || path == dir {
			return nil
		}
		if d.IsDir() {
			subdirs = append(subdirs, path)
			return nil
		}
		if err := os.Remove(path); err == nil {
			count++
		}
		return nil
	})
	if err != nil {
		return count, err
	}
	for i := len(subdirs) - 1; i >= 0; i-- {
		_ = os.Remove(subdirs[i])
	}
	return count, nil
}

// cachePathCommand creates the "cache path" subcommand.
func (c *CLI) cachePathCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "Print the cache directory path",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			dir, err := fileCacheDir(cfg)
			if err != nil {
				return fmt.Errorf("get cache dir: %w", err)
			}
			fmt.Println(dir)
			return nil
		},
	}
}
