package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"
	"golang.org/x/time/rate"

	"github.com/matzehuels/qswap/internal/server"
	"github.com/matzehuels/qswap/pkg/cache"
	"github.com/matzehuels/qswap/pkg/observability"
	"github.com/matzehuels/qswap/pkg/observability/prom"
	"github.com/matzehuels/qswap/pkg/pipeline"
	"github.com/matzehuels/qswap/pkg/store"
)

// Run stores selectable with --store.
const (
	storeMemory = "memory"
	storeFile   = "file"
	storeMongo  = "mongo"
)

type serveFlags struct {
	addr          string
	store         string
	storeDir      string
	mongoURI      string
	rateLimit     float64
	burst         int
	solveTimeout  time.Duration
	maxIterations int
	metrics       bool
	cacheScope    string
	cache         cacheFlags
}

// serveCommand creates the serve command.
func (c *CLI) serveCommand() *cobra.Command {
	var flags serveFlags

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the routing engine over HTTP",
		Long: `Serve starts a JSON API that solves routing problems, keeps a history of runs
and exposes Prometheus metrics on /metrics.`,
		Example: `  qswap serve --addr :9000 --store file
  qswap serve --store mongo --mongo-uri mongodb://localhost:27017 --cache-backend redis`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := configure(cmd, func(cfg *Config) []any {
				return []any{&cfg.Server, &cfg.Cache}
			}); err != nil {
				return err
			}
			return c.runServe(cmd.Context(), flags)
		},
	}

	cmd.Flags().StringVar(&flags.addr, "addr", server.DefaultAddr, "listen address")
	cmd.Flags().StringVar(&flags.store, "store", storeMemory, "run store: memory, file or mongo")
	cmd.Flags().StringVar(&flags.storeDir, "store-dir", "", "directory for --store file (default: ~/.config/qswap/runs)")
	cmd.Flags().StringVar(&flags.mongoURI, "mongo-uri", "mongodb://localhost:27017", "MongoDB URI for --store mongo")
	cmd.Flags().Float64Var(&flags.rateLimit, "rate-limit", server.DefaultRateLimit, "solve requests per second (0: unlimited)")
	cmd.Flags().IntVar(&flags.burst, "burst", server.DefaultBurst, "solve requests allowed in a burst")
	cmd.Flags().DurationVar(&flags.solveTimeout, "solve-timeout", server.DefaultSolveTimeout, "maximum time per solve request")
	cmd.Flags().IntVar(&flags.maxIterations, "max-iterations", server.DefaultMaxIterations, "largest iteration budget a request may ask for")
	cmd.Flags().BoolVar(&flags.metrics, "metrics", true, "serve Prometheus metrics on /metrics")
	cmd.Flags().StringVar(&flags.cacheScope, "cache-scope", "", "prefix for cache keys written by this server")
	flags.cache.register(cmd)
	addConfigFlag(cmd)

	return cmd
}

func (c *CLI) runServe(ctx context.Context, flags serveFlags) error {
	ch, err := newCache(ctx, flags.cache)
	if err != nil {
		return err
	}
	var keyer cache.Keyer
	if flags.cacheScope != "" {
		keyer = cache.NewScopedKeyer(cache.NewDefaultKeyer(), flags.cacheScope)
	}
	runner := pipeline.NewRunner(ch, keyer, c.Logger)
	defer runner.Close()

	st, err := c.openStore(ctx, flags)
	if err != nil {
		return err
	}
	defer st.Close()

	cfg := server.Config{
		Addr:          flags.addr,
		Runner:        runner,
		Store:         st,
		Logger:        c.Logger,
		RateLimit:     rate.Limit(flags.rateLimit),
		Burst:         flags.burst,
		SolveTimeout:  flags.solveTimeout,
		MaxIterations: flags.maxIterations,
	}
	if flags.rateLimit <= 0 {
		cfg.RateLimit = rate.Inf
	}
	if flags.metrics {
		cfg.Registry = newRegistry()
		defer observability.Reset()
	}

	srv, err := server.New(cfg)
	if err != nil {
		return err
	}
	printSuccess(c.Out, "Listening on %s", flags.addr)
	printDetail(c.Out, "Store: %s · Cache: %s", flags.store, backendName(flags.cache))
	return srv.ListenAndServe(ctx)
}

func (c *CLI) openStore(ctx context.Context, flags serveFlags) (store.Store, error) {
	switch flags.store {
	case "", storeMemory:
		return store.NewMemoryStore(), nil
	case storeFile:
		return store.NewFileStore(flags.storeDir)
	case storeMongo:
		spinner := newSpinner(ctx, c.Out, "Connecting to MongoDB...")
		spinner.Start()
		st, err := store.NewMongoStore(ctx, store.MongoConfig{URI: flags.mongoURI})
		if err != nil {
			spinner.StopWithError("Could not connect to MongoDB")
			return nil, err
		}
		spinner.StopWithSuccess("Connected to MongoDB")
		return st, nil
	}
	return nil, fmt.Errorf("unknown store %q (must be one of: memory, file, mongo)", flags.store)
}

// newRegistry creates a registry with process metrics and installs the qswap
// metrics as global hooks.
func newRegistry() *prometheus.Registry {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	m := prom.New(reg)
	observability.SetSearchHooks(m)
	observability.SetCacheHooks(m)
	observability.SetHTTPHooks(m)
	return reg
}
