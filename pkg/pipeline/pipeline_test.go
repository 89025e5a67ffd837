package pipeline

import (
	"context"
	stderrors "errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/matzehuels/qswap/pkg/cache"
	"github.com/matzehuels/qswap/pkg/errors"
	"github.com/matzehuels/qswap/pkg/lattice"
	"github.com/matzehuels/qswap/pkg/qubo"
	"github.com/matzehuels/qswap/pkg/route"
)

func pathEdges(n int) []qubo.Edge {
	edges := make([]qubo.Edge, 0, n-1)
	for i := range n - 1 {
		edges = append(edges, qubo.Edge{A: i, B: i + 1})
	}
	return edges
}

func TestOptionsDefaults(t *testing.T) {
	opts := Options{Regular: 10}
	if err := opts.ValidateAndSetDefaults(); err != nil {
		t.Fatalf("valid options should pass: %v", err)
	}

	if opts.Topology != string(lattice.HeavyHex) {
		t.Errorf("Topology = %q, want %q", opts.Topology, lattice.HeavyHex)
	}
	sc := lattice.HeavyHex.Scalers()
	if opts.EntangleScaler != sc.Entangle || opts.DistanceScaler != sc.Distance {
		t.Errorf("scalers = %v/%v, want %v/%v", opts.EntangleScaler, opts.DistanceScaler, sc.Entangle, sc.Distance)
	}
	if opts.Iterations != DefaultIterations {
		t.Errorf("Iterations = %d, want %d", opts.Iterations, DefaultIterations)
	}
	if opts.Seed != DefaultSeed {
		t.Errorf("Seed = %d, want %d", opts.Seed, DefaultSeed)
	}
	if opts.MaxAttempts != DefaultMaxAttempts || opts.StrikeLimit != DefaultStrikeLimit || opts.Workers != DefaultWorkers {
		t.Errorf("unexpected defaults: %+v", opts)
	}
	if opts.Logger == nil {
		t.Error("Logger should default to a discard logger")
	}
}

func TestOptionsTopologyAlias(t *testing.T) {
	opts := Options{Nodes: 3, Topology: "Hex"}
	if err := opts.ValidateAndSetDefaults(); err != nil {
		t.Fatal(err)
	}
	if opts.Topology != string(lattice.Hex) {
		t.Errorf("Topology = %q, want %q", opts.Topology, lattice.Hex)
	}
	if opts.EntangleScaler != lattice.Hex.Scalers().Entangle {
		t.Errorf("EntangleScaler = %v, want hex default", opts.EntangleScaler)
	}
}

func TestOptionsValidation(t *testing.T) {
	tests := []struct {
		name string
		opts Options
		code errors.Code
	}{
		{"no input", Options{}, errors.ErrCodeInvalidInput},
		{"conflicting inputs", Options{Regular: 4, Edges: pathEdges(3)}, errors.ErrCodeInvalidInput},
		{"negative iterations", Options{Nodes: 2, Iterations: -1}, errors.ErrCodeInvalidConfig},
		{"negative scaler", Options{Nodes: 2, DistanceScaler: -1}, errors.ErrCodeInvalidConfig},
		{"too many workers", Options{Nodes: 2, Workers: 1000}, errors.ErrCodeInvalidConfig},
		{"bad topology", Options{Nodes: 2, Topology: "square"}, errors.ErrCodeInvalidTopology},
		{"control characters", Options{EdgeFile: "graph\x00.csv"}, errors.ErrCodeInvalidPath},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.opts.ValidateAndSetDefaults()
			if err == nil {
				t.Fatal("expected error")
			}
			if got := errors.GetCode(err); got != tt.code {
				t.Errorf("code = %s, want %s (%v)", got, tt.code, err)
			}
		})
	}
}

func TestOptionsValidateAndSetDefaultsIdempotent(t *testing.T) {
	opts := Options{Nodes: 4, Topology: "hhex"}
	if err := opts.ValidateAndSetDefaults(); err != nil {
		t.Fatalf("first validation failed: %v", err)
	}
	first := opts.SolutionKeyOpts()
	if err := opts.ValidateAndSetDefaults(); err != nil {
		t.Fatalf("second validation failed: %v", err)
	}
	if opts.SolutionKeyOpts() != first {
		t.Error("options changed on second call")
	}
}

func TestLoadGraphSources(t *testing.T) {
	r := NewRunner(nil, nil, nil)

	g, err := r.LoadGraph(Options{Edges: pathEdges(4)})
	if err != nil {
		t.Fatal(err)
	}
	if g.NodeCount() != 4 || g.EdgeCount() != 3 {
		t.Errorf("inline edges: %d nodes %d edges", g.NodeCount(), g.EdgeCount())
	}

	g, err = r.LoadGraph(Options{Edges: pathEdges(2), Nodes: 5})
	if err != nil {
		t.Fatal(err)
	}
	if g.NodeCount() != 5 {
		t.Errorf("explicit node count ignored: %d", g.NodeCount())
	}

	if _, err := r.LoadGraph(Options{Edges: []qubo.Edge{{A: 0, B: 0}}}); err == nil {
		t.Error("self-loop should fail")
	}

	a, err := r.LoadGraph(Options{Regular: 12, Seed: 7})
	if err != nil {
		t.Fatal(err)
	}
	b, _ := r.LoadGraph(Options{Regular: 12, Seed: 7})
	if GraphHash(a) != GraphHash(b) {
		t.Error("regular generation should be deterministic per seed")
	}
	for n := range a.NodeCount() {
		if a.Degree(n) != RegularDegree {
			t.Fatalf("node %d has degree %d", n, a.Degree(n))
		}
	}

	if _, err := r.LoadGraph(Options{Regular: 5}); !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Errorf("odd regular size: got %v", err)
	}

	g, err = r.LoadGraph(Options{Nodes: 3})
	if err != nil || g.EdgeCount() != 0 || g.NodeCount() != 3 {
		t.Errorf("node count only: %v", err)
	}
}

func TestLoadGraphBoundsInferredNodeCount(t *testing.T) {
	opts := Options{Edges: []qubo.Edge{{A: 0, B: 5_000_000}}}
	if err := opts.ValidateAndSetDefaults(); err != nil {
		t.Fatalf("ValidateAndSetDefaults() error: %v", err)
	}
	g, err := NewRunner(nil, nil, nil).LoadGraph(opts)
	if !errors.Is(err, errors.ErrCodeMalformedInput) {
		t.Fatalf("LoadGraph() error = %v, want MALFORMED_INPUT", err)
	}
	if g != nil {
		t.Errorf("LoadGraph() built a graph with %d nodes", g.NodeCount())
	}

	opts = Options{Edges: []qubo.Edge{{A: 0, B: MaxNodes - 1}}}
	g, err = NewRunner(nil, nil, nil).LoadGraph(opts)
	if err != nil {
		t.Fatalf("LoadGraph() at the limit: %v", err)
	}
	if g.NodeCount() != MaxNodes {
		t.Errorf("NodeCount() = %d, want %d", g.NodeCount(), MaxNodes)
	}
}

func TestLoadGraphFromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "graph.csv")
	if err := os.WriteFile(path, []byte("Node1,Node2\n0,1\n1,2\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	g, err := NewRunner(nil, nil, nil).LoadGraph(Options{EdgeFile: path})
	if err != nil {
		t.Fatal(err)
	}
	if g.NodeCount() != 3 || g.EdgeCount() != 2 {
		t.Errorf("got %d nodes %d edges", g.NodeCount(), g.EdgeCount())
	}
}

func TestGraphHashDependsOnNodeCount(t *testing.T) {
	a := qubo.Empty(3)
	b := qubo.Empty(4)
	if GraphHash(a) == GraphHash(b) {
		t.Error("graphs of different size should hash differently")
	}
}

func TestExecuteCaches(t *testing.T) {
	c, err := cache.NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	r := NewRunner(c, nil, nil)
	defer r.Close()

	opts := Options{Regular: 10, Iterations: 20, EntangleScaler: 2, DistanceScaler: 100}
	ctx := context.Background()

	first, err := r.Execute(ctx, opts)
	if err != nil {
		t.Fatal(err)
	}
	if first.CacheInfo.SolutionHit {
		t.Error("first run should miss the cache")
	}
	if _, err := route.Replay(first.Problem, first.Search.Solution); err != nil {
		t.Fatalf("solution does not replay: %v", err)
	}

	second, err := r.Execute(ctx, opts)
	if err != nil {
		t.Fatal(err)
	}
	if !second.CacheInfo.SolutionHit {
		t.Error("second run should hit the cache")
	}
	if second.CacheInfo.Key != first.CacheInfo.Key {
		t.Errorf("keys differ: %s vs %s", first.CacheInfo.Key, second.CacheInfo.Key)
	}
	if second.Search.Solution.SwapCount != first.Search.Solution.SwapCount {
		t.Errorf("cached swaps %d, fresh %d", second.Search.Solution.SwapCount, first.Search.Solution.SwapCount)
	}

	opts.Refresh = true
	third, err := r.Execute(ctx, opts)
	if err != nil {
		t.Fatal(err)
	}
	if third.CacheInfo.SolutionHit {
		t.Error("refresh should bypass the cache")
	}
}

func TestExecuteDiscardsCorruptCacheEntry(t *testing.T) {
	c, err := cache.NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	r := NewRunner(c, nil, nil)
	opts := Options{Edges: pathEdges(5), Iterations: 5, EntangleScaler: 2, DistanceScaler: 100}

	first, err := r.Execute(context.Background(), opts)
	if err != nil {
		t.Fatal(err)
	}
	if err := c.Set(context.Background(), first.CacheInfo.Key, []byte(`{"solution":{"swap_count":3}}`), 0); err != nil {
		t.Fatal(err)
	}

	again, err := r.Execute(context.Background(), opts)
	if err != nil {
		t.Fatal(err)
	}
	if again.CacheInfo.SolutionHit {
		t.Error("an entry that does not replay should be recomputed")
	}
}

func TestExecuteErrorCodes(t *testing.T) {
	r := NewRunner(nil, nil, nil)
	ctx := context.Background()

	_, err := r.Execute(ctx, Options{Nodes: 1000})
	if !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Errorf("oversized graph: got %v", err)
	}

	_, err = r.Execute(ctx, Options{
		Regular:        20,
		Iterations:     5,
		EntangleScaler: 1e-9,
		DistanceScaler: 1e-9,
		MaxAttempts:    3,
	})
	if !errors.Is(err, errors.ErrCodeCandidateExhausted) {
		t.Errorf("exhausted candidate: got %v", err)
	}
}

func TestExecuteCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := NewRunner(nil, nil, nil).Execute(ctx, Options{Regular: 10, Iterations: 50})
	if err == nil {
		t.Fatal("expected context error")
	}
}

func TestCoded(t *testing.T) {
	if Coded(nil) != nil {
		t.Error("nil should stay nil")
	}
	if err := Coded(context.Canceled); err != context.Canceled {
		t.Errorf("Canceled should pass through, got %v", err)
	}
	orig := errors.New(errors.ErrCodeNotFound, "x")
	if Coded(orig) != error(orig) {
		t.Error("coded errors should pass through")
	}

	tests := []struct {
		name string
		err  error
		code errors.Code
		msg  string
	}{
		{"deadline", context.DeadlineExceeded, errors.ErrCodeTimeout, "search timed out"},
		{"no path", lattice.ErrNoPath, errors.ErrCodeNoPath, "lattice has no path between sites"},
		{"no path wrapped", fmt.Errorf("distance 3-9: %w", lattice.ErrNoPath), errors.ErrCodeNoPath, "lattice has no path between sites"},
		{"invariant", route.ErrInvariant, errors.ErrCodeInvariant, "routing invariant violated"},
		{"replay", fmt.Errorf("move 4: %w", route.ErrReplay), errors.ErrCodeInvariant, "routing invariant violated"},
		{"exhausted", route.ErrCandidateExhausted, errors.ErrCodeCandidateExhausted, "no acceptable starting placement; raise the entangle or distance scaler"},
		{"too large", route.ErrTooLarge, errors.ErrCodeInvalidInput, "graph does not fit the lattice"},
		{"options", route.ErrInvalidOptions, errors.ErrCodeInvalidConfig, "invalid search options"},
		{"other", stderrors.New("boom"), errors.ErrCodeInternal, "routing failed"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Coded(tt.err)
			if got := errors.GetCode(err); got != tt.code {
				t.Errorf("code = %q, want %q", got, tt.code)
			}
			if got := errors.UserMessage(err); got != tt.msg {
				t.Errorf("UserMessage = %q, want %q", got, tt.msg)
			}
			if !stderrors.Is(err, tt.err) {
				t.Error("cause should stay reachable")
			}
		})
	}
}
