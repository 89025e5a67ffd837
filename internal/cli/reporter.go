package cli

import (
	"context"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/qswap/pkg/route"
)

// heartbeatInterval is how often a quiet search logs that it is still
// running.
const heartbeatInterval = 10 * time.Second

// searchReporter turns search progress callbacks into log lines: the first
// solution, every improvement, and a periodic heartbeat.
//
// The search serializes progress calls, so the reporter needs no locking.
type searchReporter struct {
	logger     *log.Logger
	prog       *progress
	iterations int
	lastBest   int
	lastLog    time.Time
	heartbeat  time.Duration
	now        func() time.Time
}

func newSearchReporter(ctx context.Context, iterations int) *searchReporter {
	logger := loggerFromContext(ctx)
	return &searchReporter{
		logger:     logger,
		prog:       newProgress(logger),
		iterations: iterations,
		lastBest:   -1,
		heartbeat:  heartbeatInterval,
		now:        time.Now,
	}
}

// onProgress is passed as route.Options.Progress.
func (r *searchReporter) onProgress(p route.Progress) {
	if p.Best < 0 {
		return
	}
	now := r.now()
	switch {
	case r.lastBest < 0:
		r.logger.Infof("Initial: %d swaps (trial %d, %d placement attempts)", p.Best, p.Trials, p.Attempts)
		r.lastLog = now
	case p.Best < r.lastBest:
		r.logger.Infof("Improved: %d swaps (↓%d, trial %d)", p.Best, r.lastBest-p.Best, p.Trials)
		r.lastLog = now
	case now.Sub(r.lastLog) >= r.heartbeat:
		r.logger.Infof("Searching... %d/%d trials, best %d swaps", p.Trials, r.iterations, p.Best)
		r.lastLog = now
	}
	r.lastBest = p.Best
}

// finish logs the search summary.
func (r *searchReporter) finish(res *route.Result) {
	if res == nil || res.Solution == nil {
		return
	}
	st := res.Stats
	r.prog.done("Search complete")
	r.logger.Infof("Best: %d swaps (%d trials, %d abandoned, %d candidates)",
		res.Solution.SwapCount, st.Trials, st.Abandoned, st.Units)
	r.logger.Debugf("Average: %.3f swaps over %d completed trials", st.AverageSwaps, st.Completed)
	for i, c := range st.Candidates {
		r.logger.Debugf("  candidate %d: %d attempts, %d unresolved, distance %d, average %.2f",
			i, c.Attempts, c.InitialRemaining, c.InitialDistance, c.AverageSwaps)
	}
}
