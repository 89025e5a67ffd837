package route

import (
	"context"
	"errors"
	"fmt"
	"math"
	"slices"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/matzehuels/qswap/pkg/observability"
)

const (
	// DefaultIterations is the trial budget used when [Options.Iterations]
	// is zero.
	DefaultIterations = 1000

	// DefaultMaxAttempts caps the rejected placements per candidate.
	DefaultMaxAttempts = 1000

	// maxTrialsPerUnit bounds how many trials share one starting placement.
	maxTrialsPerUnit = 10
)

// Options controls [Search]. The zero value is usable: every zero field
// takes its default.
type Options struct {
	// Iterations is the total trial budget. Trials are grouped into candidate
	// units of clamp(Iterations/5, 1, 10) trials sharing one placement.
	Iterations int

	// EntangleScaler and DistanceScaler set the acceptance thresholds for a
	// starting placement, as multiples of the interaction count. Zero selects
	// the lattice's tuned values.
	EntangleScaler float64
	DistanceScaler float64

	// NoTruncate keeps running trials that can no longer beat the best.
	NoTruncate bool

	// Seed is the root of every random stream. Zero selects [DefaultSeed].
	Seed uint64

	// MaxAttempts caps the rejected placements per candidate unit. Zero
	// selects [DefaultMaxAttempts]; a negative value removes the cap.
	MaxAttempts int

	// StrikeLimit is passed to [Trial.Refine]. Zero selects
	// [DefaultStrikeLimit].
	StrikeLimit int

	// Workers is the number of candidate units run concurrently.
	Workers int

	// Progress, when set, is called after every trial. Calls are serialized.
	Progress func(Progress)
}

// Progress is a snapshot passed to [Options.Progress].
type Progress struct {
	Units    int // candidate units finished
	Trials   int // trials run, abandoned included
	Attempts int // placements tried by the unit that reported
	Best     int // best swap count so far, -1 before the first completed trial
	Improved bool
}

// CandidateStats describes one accepted starting placement and the trials
// run from it.
type CandidateStats struct {
	Attempts         int     `json:"attempts"`
	InitialRemaining int     `json:"initial_remaining"`
	InitialDistance  int     `json:"initial_distance"`
	AverageSwaps     float64 `json:"average_swaps"`
}

// Stats summarizes a search. Abandoned trials appear in Trials and Abandoned
// but not in SwapCounts or AverageSwaps.
type Stats struct {
	Units        int              `json:"units"`
	Trials       int              `json:"trials"`
	Completed    int              `json:"completed"`
	Abandoned    int              `json:"abandoned"`
	Attempts     int              `json:"attempts"`
	SwapCounts   []int            `json:"swap_counts"`
	AverageSwaps float64          `json:"average_swaps"`
	Candidates   []CandidateStats `json:"candidates"`
	Duration     time.Duration    `json:"duration"`
}

// Result is the outcome of [Search].
type Result struct {
	Solution *Solution `json:"solution"`
	Stats    Stats     `json:"stats"`
}

// resolve fills defaults and rejects out-of-range values.
func (o Options) resolve(p *Problem) (Options, error) {
	if o.Iterations < 0 || o.Workers < 0 || o.StrikeLimit < 0 {
		return o, fmt.Errorf("iterations %d, workers %d, strike limit %d: %w",
			o.Iterations, o.Workers, o.StrikeLimit, ErrInvalidOptions)
	}
	for _, v := range []float64{o.EntangleScaler, o.DistanceScaler} {
		if v < 0 || math.IsNaN(v) || math.IsInf(v, 0) {
			return o, fmt.Errorf("scaler %v: %w", v, ErrInvalidOptions)
		}
	}
	def := p.defaultScalers()
	if o.EntangleScaler == 0 {
		o.EntangleScaler = def.Entangle
	}
	if o.DistanceScaler == 0 {
		o.DistanceScaler = def.Distance
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
		o.Workers = 1
	}
	return o, nil
}

// trialsPerUnit returns the number of trials per candidate unit and the
// number of units for an iteration budget.
func trialsPerUnit(iterations int) (trials, units int) {
	trials = min(max(iterations/5, 1), maxTrialsPerUnit)
	return trials, (iterations + trials - 1) / trials
}

// Search looks for the routing with the fewest chargeable swaps.
//
// Each candidate unit draws starting placements until one passes the
// acceptance thresholds (phase A), then runs a batch of routing trials from
// copies of it (phase B). A trial whose running swap count can no longer
// beat the best is abandoned unless NoTruncate is set. With Workers > 1 the
// units run concurrently; every unit and trial owns a random stream derived
// from Seed, so the best solution does not depend on Workers.
//
// On context cancellation Search returns the best result found so far
// together with the context error.
func Search(ctx context.Context, p *Problem, opts Options) (*Result, error) {
	opts, err := opts.resolve(p)
	if err != nil {
		return nil, err
	}
	start := time.Now()
	hooks := observability.Search()
	hooks.OnSearchStart(ctx, p.lattice.Name(), p.Qubits(), p.Interactions())

	trials, units := trialsPerUnit(opts.Iterations)
	s := &searcher{p: p, opts: opts, trials: trials, hooks: hooks}
	s.best.Store(math.MaxInt64)
	s.progress.Best = -1

	results := make([]*unitResult, units)
	if opts.Workers > 1 {
		g, gctx := errgroup.WithContext(ctx)
		g.SetLimit(opts.Workers)
		for u := range units {
			g.Go(func() error {
				r, err := s.runUnit(gctx, u)
				results[u] = r
				return err
			})
		}
		err = g.Wait()
	} else {
		for u := range units {
			var r *unitResult
			r, err = s.runUnit(ctx, u)
			results[u] = r
			if err != nil {
				break
			}
		}
	}

	res := merge(results)
	res.Stats.Duration = time.Since(start)
	best := -1
	if res.Solution != nil {
		best = res.Solution.SwapCount
	}
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil && errors.Is(err, ctxErr) {
			hooks.OnSearchComplete(ctx, best, res.Stats.Duration, ctxErr)
			return res, ctxErr
		}
		hooks.OnSearchComplete(ctx, best, res.Stats.Duration, err)
		return nil, err
	}
	hooks.OnSearchComplete(ctx, best, res.Stats.Duration, nil)
	return res, nil
}

type searcher struct {
	p      *Problem
	opts   Options
	trials int
	hooks  observability.SearchHooks

	best atomic.Int64

	mu       sync.Mutex
	progress Progress
}

type unitResult struct {
	accepted  bool
	cand      CandidateStats
	best      *Solution
	swaps     []int
	abandoned int
}

// runUnit performs phase A and phase B for candidate unit u. The returned
// result is valid even when err is not nil.
func (s *searcher) runUnit(ctx context.Context, u int) (*unitResult, error) {
	seed := deriveSeed(s.opts.Seed, uint64(u))
	base := s.p.NewTrial(newRand(seed))
	res := &unitResult{}

	occ, emb, err := s.candidate(ctx, base, &res.cand)
	if err != nil {
		return res, fmt.Errorf("candidate %d: %w", u, err)
	}
	res.accepted = true
	s.hooks.OnCandidate(ctx, res.cand.Attempts)

	local := math.MaxInt
	for i := range s.trials {
		if err := ctx.Err(); err != nil {
			return res, err
		}
		t := base.fork(newRand(deriveSeed(seed, uint64(i))))
		completed, err := t.Run(s.stopFunc())
		if err != nil {
			return res, fmt.Errorf("candidate %d trial %d: %w", u, i, err)
		}
		s.hooks.OnTrial(ctx, t.swaps, completed)
		if !completed {
			res.abandoned++
			s.report(res.cand.Attempts, false)
			continue
		}
		res.swaps = append(res.swaps, t.swaps)
		if t.swaps < local {
			local = t.swaps
			res.best = &Solution{
				SwapCount:        t.swaps,
				Moves:            slices.Clone(t.moves),
				InitialOccupancy: occ,
				InitialEmbedding: emb,
			}
		}
		improved := s.lower(int64(t.swaps))
		if improved {
			s.hooks.OnImprovement(ctx, t.swaps)
		}
		s.report(res.cand.Attempts, improved)
	}
	res.cand.AverageSwaps = mean(res.swaps)

	s.mu.Lock()
	s.progress.Units++
	s.mu.Unlock()
	return res, nil
}

// candidate repeats placement on t until the result is acceptable and
// returns the placement before resolution.
func (s *searcher) candidate(ctx context.Context, t *Trial, cs *CandidateStats) (occ, emb []int, err error) {
	e := float64(s.p.Interactions())
	for {
		if s.opts.MaxAttempts > 0 && cs.Attempts >= s.opts.MaxAttempts {
			return nil, nil, fmt.Errorf("%d placements rejected: %w", cs.Attempts, ErrCandidateExhausted)
		}
		if err := ctx.Err(); err != nil {
			return nil, nil, err
		}
		cs.Attempts++

		t.Reset()
		if err := t.PlaceInitial(); err != nil {
			return nil, nil, err
		}
		if err := t.PlaceChains(); err != nil {
			return nil, nil, err
		}
		t.Refine(s.opts.StrikeLimit)
		occ, emb = t.state.Occupancy(), t.state.Embedding()
		t.Resolve()

		remaining, dist := t.pending.Len(), t.TotalDistance()
		if remaining == 0 || (float64(remaining) <= s.opts.EntangleScaler*e && float64(dist) < s.opts.DistanceScaler*e) {
			cs.InitialRemaining, cs.InitialDistance = remaining, dist
			return occ, emb, nil
		}
	}
}

// stopFunc returns the early-abandon test for a trial. Sequential searches
// abandon once the running count reaches the best; concurrent ones only
// once it exceeds it, so a unit that finishes ahead of an earlier-indexed
// unit cannot suppress that unit's equal result.
func (s *searcher) stopFunc() func(int) bool {
	if s.opts.NoTruncate {
		return nil
	}
	if s.opts.Workers > 1 {
		return func(swaps int) bool { return int64(swaps) > s.best.Load() }
	}
	return func(swaps int) bool { return int64(swaps) >= s.best.Load() }
}

// lower records swaps as the global best if it is strictly smaller.
func (s *searcher) lower(swaps int64) bool {
	for {
		cur := s.best.Load()
		if swaps >= cur {
			return false
		}
		if s.best.CompareAndSwap(cur, swaps) {
			return true
		}
	}
}

func (s *searcher) report(attempts int, improved bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.progress.Trials++
	s.progress.Attempts = attempts
	s.progress.Improved = improved
	if b := s.best.Load(); b != math.MaxInt64 {
		s.progress.Best = int(b)
	}
	if s.opts.Progress != nil {
		s.opts.Progress(s.progress)
	}
}

// merge folds unit results in index order; a later unit replaces the best
// only with strictly fewer swaps.
func merge(results []*unitResult) *Result {
	res := &Result{}
	st := &res.Stats
	for _, r := range results {
		if r == nil {
			continue
		}
		st.Attempts += r.cand.Attempts
		if !r.accepted {
			continue
		}
		st.Units++
		st.Candidates = append(st.Candidates, r.cand)
		st.SwapCounts = append(st.SwapCounts, r.swaps...)
		st.Abandoned += r.abandoned
		if r.best != nil && (res.Solution == nil || r.best.SwapCount < res.Solution.SwapCount) {
			res.Solution = r.best
		}
	}
	st.Completed = len(st.SwapCounts)
	st.Trials = st.Completed + st.Abandoned
	st.AverageSwaps = mean(st.SwapCounts)
	return res
}

func mean(xs []int) float64 {
	if len(xs) == 0 {
		return 0
	}
	sum := 0
	for _, x := range xs {
		sum += x
	}
	return float64(sum) / float64(len(xs))
}
