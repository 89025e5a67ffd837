package pipeline

import (
	"bytes"
	"context"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"math/rand/v2"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/qswap/pkg/cache"
	"github.com/matzehuels/qswap/pkg/errors"
	qio "github.com/matzehuels/qswap/pkg/io"
	"github.com/matzehuels/qswap/pkg/lattice"
	"github.com/matzehuels/qswap/pkg/observability"
	"github.com/matzehuels/qswap/pkg/qubo"
	"github.com/matzehuels/qswap/pkg/route"
)

// keyType labels solution entries in cache hooks.
const keyType = "solution"

// Runner encapsulates pipeline execution with caching.
// Both CLI and API use it to avoid duplicating caching logic.
//
// The Runner is stateless except for the cache and logger. Multiple
// goroutines can safely use the same Runner with different options.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger
}

// NewRunner creates a runner with the given cache and keyer.
// If keyer is nil, a DefaultKeyer is used.
// If cache is nil, a NullCache is used (caching disabled).
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		Cache:  c,
		Keyer:  keyer,
		Logger: logger,
	}
}

// Execute loads the graph and lattice, then returns a cached result or runs
// the search and caches it. When ctx is cancelled mid-search the partial
// result is returned together with the context error.
func (r *Runner) Execute(ctx context.Context, opts Options) (*Result, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}

	loadStart := time.Now()
	g, err := r.LoadGraph(opts)
	if err != nil {
		return nil, err
	}
	l, err := lattice.Load(lattice.Topology(opts.Topology))
	if err != nil {
		return nil, err
	}
	p, err := route.NewProblem(g, l)
	if err != nil {
		return nil, Coded(err)
	}
	result := &Result{
		Graph:     g,
		Lattice:   l,
		Problem:   p,
		GraphHash: GraphHash(g),
	}
	result.Stats.NodeCount = g.NodeCount()
	result.Stats.EdgeCount = g.EdgeCount()
	result.Stats.LoadTime = time.Since(loadStart)

	r.Logger.Info("loaded problem",
		"qubits", g.NodeCount(),
		"interactions", g.EdgeCount(),
		"lattice", l.Name(),
		"sites", l.Size())

	solveStart := time.Now()
	res, hit, err := r.SolveWithCacheInfo(ctx, p, result.GraphHash, opts)
	result.Stats.SolveTime = time.Since(solveStart)
	result.Search = res
	result.CacheInfo.SolutionHit = hit
	result.CacheInfo.Key = r.Keyer.SolutionKey(result.GraphHash, opts.Topology, opts.SolutionKeyOpts())
	if err != nil {
		if res != nil {
			return result, err
		}
		return nil, err
	}

	if res.Solution != nil {
		r.Logger.Info("routed",
			"swaps", res.Solution.SwapCount,
			"average", fmt.Sprintf("%.2f", res.Stats.AverageSwaps),
			"cached", hit,
			"duration", result.Stats.SolveTime)
	}
	return result, nil
}

// LoadGraph builds the interaction graph from whichever input opts carries.
func (r *Runner) LoadGraph(opts Options) (*qubo.Graph, error) {
	switch {
	case opts.Graph != nil:
		return opts.Graph, nil
	case opts.EdgeFile != "":
		return qio.ImportEdgeList(opts.EdgeFile, opts.Nodes)
	case len(opts.Edges) > 0:
		return edgesGraph(opts.Edges, opts.Nodes)
	case opts.Regular > 0:
		rng := rand.New(rand.NewPCG(opts.Seed, opts.Seed^0xdeadbeef))
		g, err := qubo.RandomRegular(opts.Regular, RegularDegree, rng)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "generate %d-regular graph on %d nodes", RegularDegree, opts.Regular)
		}
		return g, nil
	default:
		return qubo.Empty(opts.Nodes), nil
	}
}

// edgesGraph builds a graph from inline edges. With nodes == 0 the node count
// is one past the largest id, bounded by qubo.MaxNodes.
func edgesGraph(edges []qubo.Edge, nodes int) (*qubo.Graph, error) {
	n := nodes
	if n == 0 {
		for i, e := range edges {
			if e.A >= qubo.MaxNodes || e.B >= qubo.MaxNodes {
				return nil, errors.New(errors.ErrCodeMalformedInput,
					"edge %d: node index %d exceeds the limit of %d nodes", i, max(e.A, e.B), qubo.MaxNodes)
			}
			n = max(n, e.A+1, e.B+1)
		}
	}
	g := qubo.New(n)
	for i, e := range edges {
		if err := errors.ValidateEdge(e.A, e.B, n, 0); err != nil {
			return nil, err
		}
		if err := g.AddEdge(e.A, e.B); err != nil {
			return nil, errors.Wrap(errors.ErrCodeMalformedInput, err, "edge %d", i)
		}
	}
	return g, nil
}

// SolveWithCacheInfo returns the search result for p, from the cache unless
// opts.Refresh is set, and reports whether it was a cache hit. Cached
// entries are replayed against p before use; entries that fail are
// recomputed.
func (r *Runner) SolveWithCacheInfo(ctx context.Context, p *route.Problem, graphHash string, opts Options) (*route.Result, bool, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, false, err
	}
	hooks := observability.Cache()
	cacheKey := r.Keyer.SolutionKey(graphHash, opts.Topology, opts.SolutionKeyOpts())

	if !opts.Refresh {
		data, hit, err := r.Cache.Get(ctx, cacheKey)
		if err != nil {
			r.Logger.Warn("cache read failed", "key", cacheKey, "error", err)
		}
		if hit {
			res, err := decodeResult(p, data)
			if err == nil {
				hooks.OnCacheHit(ctx, keyType)
				return res, true, nil
			}
			r.Logger.Warn("discarding cached solution", "key", cacheKey, "error", err)
		}
		hooks.OnCacheMiss(ctx, keyType)
	}

	res, err := route.Search(ctx, p, opts.SearchOptions())
	if err != nil {
		return res, false, Coded(err)
	}

	if data, err := json.Marshal(res); err == nil {
		if err := r.Cache.Set(ctx, cacheKey, data, cache.DefaultTTL); err != nil {
			r.Logger.Warn("cache write failed", "key", cacheKey, "error", err)
		} else {
			hooks.OnCacheSet(ctx, keyType, len(data))
		}
	}
	return res, false, nil
}

// Solve is a convenience wrapper that discards the cache hit info.
func (r *Runner) Solve(ctx context.Context, p *route.Problem, graphHash string, opts Options) (*route.Result, error) {
	res, _, err := r.SolveWithCacheInfo(ctx, p, graphHash, opts)
	return res, err
}

func decodeResult(p *route.Problem, data []byte) (*route.Result, error) {
	var res route.Result
	if err := json.Unmarshal(data, &res); err != nil {
		return nil, err
	}
	if res.Solution == nil {
		return nil, stderrors.New("cached result has no solution")
	}
	if _, err := route.Replay(p, res.Solution); err != nil {
		return nil, err
	}
	return &res, nil
}

// GraphHash returns a content hash of g's node count and edge list.
func GraphHash(g *qubo.Graph) string {
	var buf bytes.Buffer
	fmt.Fprintf(&buf, "%d\n", g.NodeCount())
	_ = qio.WriteEdgeList(g, &buf)
	return cache.Hash(buf.Bytes())
}

// Coded maps routing and lattice sentinel errors onto structured error
// codes. Errors that already carry a code, and context errors, pass through.
func Coded(err error) error {
	var coded *errors.Error
	switch {
	case err == nil:
		return nil
	case stderrors.As(err, &coded):
		return err
	case stderrors.Is(err, context.Canceled):
		return err
	case stderrors.Is(err, context.DeadlineExceeded):
		return errors.Wrap(errors.ErrCodeTimeout, err, "search timed out")
	case stderrors.Is(err, route.ErrCandidateExhausted):
		return errors.Wrap(errors.ErrCodeCandidateExhausted, err, "no acceptable starting placement; raise the entangle or distance scaler")
	case stderrors.Is(err, route.ErrTooLarge):
		return errors.Wrap(errors.ErrCodeInvalidInput, err, "graph does not fit the lattice")
	case stderrors.Is(err, route.ErrInvalidOptions):
		return errors.Wrap(errors.ErrCodeInvalidConfig, err, "invalid search options")
	case stderrors.Is(err, lattice.ErrNoPath):
		return errors.Wrap(errors.ErrCodeNoPath, err, "lattice has no path between sites")
	case stderrors.Is(err, route.ErrInvariant), stderrors.Is(err, route.ErrReplay):
		return errors.Wrap(errors.ErrCodeInvariant, err, "routing invariant violated")
	}
	return errors.Wrap(errors.ErrCodeInternal, err, "routing failed")
}

// Close releases resources held by the runner (primarily the cache).
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}

// applyLogger sets the runner's logger on options if not already set.
func (r *Runner) applyLogger(opts *Options) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
}
