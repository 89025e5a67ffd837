// Package cli implements the qswap command-line interface.
package cli

import (
	"context"
	"fmt"
	"io"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/qswap/pkg/buildinfo"
	"github.com/matzehuels/qswap/pkg/cache"
	"github.com/matzehuels/qswap/pkg/pipeline"
)

// =============================================================================
// Constants
// =============================================================================

const (
	// appName is the application name used for directories and display.
	appName = "qswap"

	// redisPrefix namespaces solution keys in a shared Redis.
	redisPrefix = appName + ":"
)

// Cache backends selectable with --cache-backend.
const (
	backendFile   = "file"
	backendBadger = "badger"
	backendRedis  = "redis"
)

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

	// Out receives command results; logs go to the logger's writer.
	Out io.Writer
}

// New creates a new CLI instance. Results are written to out and logs to
// logw.
func New(out, logw io.Writer, level log.Level) *CLI {
	return &CLI{
		Logger: newLogger(logw, level),
		Out:    out,
	}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   appName,
		Short: "qswap places and routes interaction graphs on qubit lattices",
		Long: `qswap maps the interactions of a QUBO problem onto a fixed qubit lattice
(heavy-hex or hex) and searches for an ordering of entangling operations that
needs as few SWAP gates as possible.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			cmd.SetContext(withLogger(cmd.Context(), c.Logger))
		},
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.SetOut(c.Out)

	root.AddCommand(c.solveCommand())
	root.AddCommand(c.verifyCommand())
	root.AddCommand(c.latticeCommand())
	root.AddCommand(c.generateCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// =============================================================================
// Runner Factory
// =============================================================================

// cacheFlags selects the solution cache.
type cacheFlags struct {
	disabled  bool
	backend   string
	redisAddr string
	dir       string
}

func (f *cacheFlags) register(cmd *cobra.Command) {
	cmd.Flags().BoolVar(&f.disabled, "no-cache", false, "disable the solution cache")
	cmd.Flags().StringVar(&f.backend, "cache-backend", backendFile, "cache backend: file, badger or redis")
	cmd.Flags().StringVar(&f.redisAddr, "redis-addr", "localhost:6379", "Redis address for --cache-backend redis")
	cmd.Flags().StringVar(&f.dir, "cache-dir", "", "cache directory (default: user cache dir)")
}

// newRunner creates a pipeline runner for CLI use.
func (c *CLI) newRunner(ctx context.Context, f cacheFlags) (*pipeline.Runner, error) {
	ch, err := newCache(ctx, f)
	if err != nil {
		return nil, err
	}
	return pipeline.NewRunner(ch, nil, c.Logger), nil
}

func newCache(ctx context.Context, f cacheFlags) (cache.Cache, error) {
	if f.disabled {
		return cache.NewNullCache(), nil
	}
	dir := f.dir
	if dir == "" {
		d, err := cache.DefaultDir()
		if err != nil && f.backend != backendRedis {
			// No usable home directory; run uncached.
			return cache.NewNullCache(), nil
		}
		dir = d
	}

	switch f.backend {
	case "", backendFile:
		return cache.NewFileCache(dir)
	case backendBadger:
		return cache.NewBadgerCache(cache.BadgerConfig{Path: filepath.Join(dir, "badger")})
	case backendRedis:
		return cache.NewRedisCache(ctx, cache.RedisConfig{Addr: f.redisAddr, Prefix: redisPrefix})
	}
	return nil, fmt.Errorf("unknown cache backend %q (must be one of: file, badger, redis)", f.backend)
}
