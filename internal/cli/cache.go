package cli

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/matzehuels/qswap/pkg/cache"
)

// cacheCommand creates the cache management command.
func (c *CLI) cacheCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Manage the solution cache",
	}

	cmd.AddCommand(c.cacheClearCommand())
	cmd.AddCommand(c.cachePathCommand())

	return cmd
}

// cacheClearCommand creates the "cache clear" subcommand.
func (c *CLI) cacheClearCommand() *cobra.Command {
	var flags cacheFlags

	cmd := &cobra.Command{
		Use:   "clear",
		Short: "Remove every cached solution",
		RunE: func(cmd *cobra.Command, args []string) error {
			ch, err := newCache(cmd.Context(), flags)
			if err != nil {
				return err
			}
			defer ch.Close()

			cl, ok := ch.(cache.Clearer)
			if !ok {
				printInfo(c.Out, "Cache is disabled")
				return nil
			}

			spinner := newSpinner(cmd.Context(), c.Out, "Clearing cache...")
			spinner.Start()
			if err := cl.Clear(cmd.Context()); err != nil {
				spinner.StopWithError("Could not clear the %s cache", backendName(flags))
				return err
			}
			spinner.StopWithSuccess("Cleared the %s cache", backendName(flags))
			if dir, err := cacheLocation(flags); err == nil {
				printDetail(c.Out, "Location: %s", dir)
			}
			return nil
		},
	}
	flags.register(cmd)
	return cmd
}

// cachePathCommand creates the "cache path" subcommand.
func (c *CLI) cachePathCommand() *cobra.Command {
	var flags cacheFlags

	cmd := &cobra.Command{
		Use:   "path",
		Short: "Print where cached solutions are stored",
		RunE: func(cmd *cobra.Command, args []string) error {
			loc, err := cacheLocation(flags)
			if err != nil {
				return fmt.Errorf("get cache dir: %w", err)
			}
			fmt.Fprintln(c.Out, loc)
			return nil
		},
	}
	flags.register(cmd)
	return cmd
}

func backendName(f cacheFlags) string {
	if f.backend == "" {
		return backendFile
	}
	return f.backend
}

// cacheLocation reports the directory or server backing the cache.
func cacheLocation(f cacheFlags) (string, error) {
	if f.backend == backendRedis {
		return "redis://" + f.redisAddr, nil
	}
	dir := f.dir
	if dir == "" {
		d, err := cache.DefaultDir()
		if err != nil {
			return "", err
		}
		dir = d
	}
	if f.backend == backendBadger {
		return filepath.Join(dir, "badger"), nil
	}
	return dir, nil
}
