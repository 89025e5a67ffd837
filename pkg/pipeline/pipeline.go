// Package pipeline runs a complete routing job: load the interaction graph,
// load the lattice, look the result up in the cache, search, and store the
// result. The CLI and the HTTP server both go through a [Runner] so they
// share defaults, validation and caching.
//
// # Usage
//
//	runner := pipeline.NewRunner(cache, nil, logger)
//	result, err := runner.Execute(ctx, pipeline.Options{
//	    EdgeFile:   "graph.csv",
//	    Topology:   "heavy-hex",
//	    Iterations: 1000,
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(result.Search.Solution.SwapCount)
package pipeline

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-playground/validator/v10"

	"github.com/matzehuels/qswap/pkg/cache"
	"github.com/matzehuels/qswap/pkg/errors"
	"github.com/matzehuels/qswap/pkg/lattice"
	"github.com/matzehuels/qswap/pkg/qubo"
	"github.com/matzehuels/qswap/pkg/route"
)

// =============================================================================
// Default Values - Single Source of Truth for CLI and API
// =============================================================================

const (
	// DefaultIterations is the trial budget of a search.
	DefaultIterations = route.DefaultIterations

	// DefaultSeed is the default random seed for reproducibility.
	DefaultSeed = route.DefaultSeed

	// DefaultMaxAttempts caps rejected placements per candidate.
	DefaultMaxAttempts = route.DefaultMaxAttempts

	// DefaultStrikeLimit is the refiner's no-improvement streak.
	DefaultStrikeLimit = route.DefaultStrikeLimit

	// DefaultWorkers runs candidate units sequentially.
	DefaultWorkers = 1

	// RegularDegree is the degree of generated random graphs.
	RegularDegree = 3

	// MaxNodes bounds the interaction graph size accepted from callers.
	MaxNodes = qubo.MaxNodes
)

// =============================================================================
// Options - Pipeline Configuration
// =============================================================================

// Options contains all configuration for a routing job. Exactly one input
// source is used: Graph, EdgeFile, Edges, Regular, or Nodes alone (a graph
// without interactions).
type Options struct {
	// Input
	EdgeFile string      `json:"edge_file,omitempty" validate:"omitempty,max=4096"`
	Edges    []qubo.Edge `json:"edges,omitempty" validate:"omitempty,max=1000000"`
	Nodes    int         `json:"nodes,omitempty" validate:"gte=0,lte=100000"`
	Regular  int         `json:"regular,omitempty" validate:"gte=0,lte=100000"`
	Topology string      `json:"topology,omitempty"`

	// Search
	Iterations     int     `json:"iterations,omitempty" validate:"gte=0,lte=100000000"`
	EntangleScaler float64 `json:"entangle_scaler,omitempty" validate:"gte=0"`
	DistanceScaler float64 `json:"distance_scaler,omitempty" validate:"gte=0"`
	NoTruncate     bool    `json:"no_truncate,omitempty"`
	Seed           uint64  `json:"seed,omitempty"`
	MaxAttempts    int     `json:"max_attempts,omitempty" validate:"gte=-1"`
	StrikeLimit    int     `json:"strike_limit,omitempty" validate:"gte=0,lte=1000000"`
	Workers        int     `json:"workers,omitempty" validate:"gte=0,lte=256"`

	// Refresh skips the cache lookup and overwrites the entry.
	Refresh bool `json:"refresh,omitempty"`

	// Runtime options (not serialized)
	Graph    *qubo.Graph          `json:"-"`
	Logger   *log.Logger          `json:"-"`
	Progress func(route.Progress) `json:"-"`

	// validated tracks whether ValidateAndSetDefaults has been called.
	validated bool
}

// Result contains the outputs of a pipeline run.
type Result struct {
	// Graph is the interaction graph that was routed.
	Graph *qubo.Graph

	// Lattice is the physical lattice.
	Lattice *lattice.Graph

	// Problem binds Graph to Lattice; use it with [route.Replay].
	Problem *route.Problem

	// GraphHash is the content hash of the graph.
	GraphHash string

	// Search is the search result, from the cache or freshly computed.
	Search *route.Result

	// Stats contains timing and size information.
	Stats Stats

	// CacheInfo tells whether the search result came from the cache.
	CacheInfo CacheInfo
}

// Stats contains pipeline execution statistics.
type Stats struct {
	NodeCount int
	EdgeCount int
	LoadTime  time.Duration
	SolveTime time.Duration
}

// CacheInfo describes the cache lookup.
type CacheInfo struct {
	Key         string
	SolutionHit bool
}

// =============================================================================
// Validation
// =============================================================================

var validate = validator.New()

// ValidateAndSetDefaults checks the options and fills defaults. It is
// idempotent.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	if err := validate.Struct(o); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidConfig, err, "%s", describe(err))
	}
	for name, v := range map[string]float64{"entangle_scaler": o.EntangleScaler, "distance_scaler": o.DistanceScaler} {
		if err := errors.ValidateScaler(name, v); err != nil {
			return err
		}
	}
	if err := o.validateInput(); err != nil {
		return err
	}

	topo, err := lattice.ParseTopology(o.Topology)
	if err != nil {
		return err
	}
	o.Topology = string(topo)
	sc := topo.Scalers()
	if o.EntangleScaler == 0 {
		o.EntangleScaler = sc.Entangle
	}
	if o.DistanceScaler == 0 {
		o.DistanceScaler = sc.Distance
	}
	if o.Iterations == 0 {
		o.Iterations = DefaultIterations
	}
	if o.Seed == 0 {
		o.Seed = DefaultSeed
	}
	if o.MaxAttempts == 0 {
		o.MaxAttempts = DefaultMaxAttempts
	}
	if o.StrikeLimit == 0 {
		o.StrikeLimit = DefaultStrikeLimit
	}
	if o.Workers == 0 {
		o.Workers = DefaultWorkers
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	o.validated = true
	return nil
}

func (o *Options) validateInput() error {
	var sources []string
	if o.Graph != nil {
		sources = append(sources, "graph")
	}
	if o.EdgeFile != "" {
		sources = append(sources, "edge_file")
	}
	if len(o.Edges) > 0 {
		sources = append(sources, "edges")
	}
	if o.Regular > 0 {
		sources = append(sources, "regular")
	}
	switch {
	case len(sources) > 1:
		return errors.New(errors.ErrCodeInvalidInput, "conflicting inputs: %s", strings.Join(sources, ", "))
	case len(sources) == 0 && o.Nodes == 0:
		return errors.New(errors.ErrCodeInvalidInput, "an edge file, edges, a regular graph size or a node count is required")
	}
	if o.EdgeFile != "" {
		return errors.ValidateFilePath(o.EdgeFile)
	}
	return nil
}

// describe turns validator errors into one readable line.
func describe(err error) string {
	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return err.Error()
	}
	parts := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		parts = append(parts, fmt.Sprintf("%s fails %s=%s (got %v)", fe.Field(), fe.Tag(), fe.Param(), fe.Value()))
	}
	return "invalid options: " + strings.Join(parts, "; ")
}

// SearchOptions returns the options passed to [route.Search].
func (o *Options) SearchOptions() route.Options {
	return route.Options{
		Iterations:     o.Iterations,
		EntangleScaler: o.EntangleScaler,
		DistanceScaler: o.DistanceScaler,
		NoTruncate:     o.NoTruncate,
		Seed:           o.Seed,
		MaxAttempts:    o.MaxAttempts,
		StrikeLimit:    o.StrikeLimit,
		Workers:        o.Workers,
		Progress:       o.Progress,
	}
}

// SolutionKeyOpts returns the cache key options for the search.
func (o *Options) SolutionKeyOpts() cache.SolutionKeyOpts {
	return cache.SolutionKeyOpts{
		Iterations:     o.Iterations,
		EntangleScaler: o.EntangleScaler,
		DistanceScaler: o.DistanceScaler,
		NoTruncate:     o.NoTruncate,
		Seed:           o.Seed,
		MaxAttempts:    o.MaxAttempts,
		StrikeLimit:    o.StrikeLimit,
	}
}
