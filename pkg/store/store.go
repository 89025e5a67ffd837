// Package store keeps solved routing runs so the HTTP API can list and fetch
// them after the request that produced them.
//
// Three backends implement [Store]:
//   - [MemoryStore]: process-local, for tests and single-instance servers
//   - [FileStore]: one JSON file per run under a directory
//   - [MongoStore]: a MongoDB collection, for shared deployments
//
// # Usage
//
//	st, err := store.NewFileStore("")
//	if err != nil {
//	    return err
//	}
//	run := store.NewRun("heavy-hex", g.NodeCount(), g.EdgeCount(), res)
//	if err := st.Put(ctx, run); err != nil {
//	    return err
//	}
//	runs, err := st.List(ctx, 20)
package store

import (
	"cmp"
	"context"
	"errors"
	"slices"
	"time"

	"github.com/google/uuid"

	"github.com/matzehuels/qswap/pkg/route"
)

// ErrNotFound is returned when no run has the requested id.
var ErrNotFound = errors.New("run not found")

// Run is one solved routing problem.
type Run struct {
	ID           string          `json:"id" bson:"_id"`
	CreatedAt    time.Time       `json:"created_at" bson:"created_at"`
	Topology     string          `json:"topology" bson:"topology"`
	Nodes        int             `json:"nodes" bson:"nodes"`
	Edges        int             `json:"edges" bson:"edges"`
	SwapCount    int             `json:"swap_count" bson:"swap_count"`
	AverageSwaps float64         `json:"average_swaps" bson:"average_swaps"`
	Duration     time.Duration   `json:"duration" bson:"duration"`
	Solution     *route.Solution `json:"solution,omitempty" bson:"solution,omitempty"`
}

// NewRun creates a run with a fresh id from a search result.
func NewRun(topology string, nodes, edges int, res *route.Result) *Run {
	r := &Run{
		ID:        uuid.NewString(),
		CreatedAt: time.Now().UTC(),
		Topology:  topology,
		Nodes:     nodes,
		Edges:     edges,
	}
	if res != nil {
		r.AverageSwaps = res.Stats.AverageSwaps
		r.Duration = res.Stats.Duration
		if res.Solution != nil {
			r.SwapCount = res.Solution.SwapCount
			r.Solution = res.Solution.Clone()
		}
	}
	return r
}

// Summary returns a copy of r without the move list.
func (r *Run) Summary() *Run {
	s := *r
	s.Solution = nil
	return &s
}

func (r *Run) clone() *Run {
	c := *r
	c.Solution = r.Solution.Clone()
	return &c
}

// Store persists runs.
type Store interface {
	// Get returns the run with the given id, or ErrNotFound.
	Get(ctx context.Context, id string) (*Run, error)

	// Put inserts or replaces a run.
	Put(ctx context.Context, run *Run) error

	// List returns up to limit runs, newest first. A limit <= 0 returns all.
	List(ctx context.Context, limit int) ([]*Run, error)

	// Delete removes a run, or returns ErrNotFound.
	Delete(ctx context.Context, id string) error

	// Close releases the backend's resources.
	Close() error
}

// newestFirst sorts runs by creation time, newest first, then truncates to
// limit.
func newestFirst(runs []*Run, limit int) []*Run {
	slices.SortFunc(runs, func(a, b *Run) int {
		if c := b.CreatedAt.Compare(a.CreatedAt); c != 0 {
			return c
		}
		return cmp.Compare(a.ID, b.ID)
	})
	if limit > 0 && len(runs) > limit {
		runs = runs[:limit]
	}
	return runs
}

