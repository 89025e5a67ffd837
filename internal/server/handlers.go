package server

import (
	"context"
	stderrors "errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/matzehuels/qswap/pkg/buildinfo"
	"github.com/matzehuels/qswap/pkg/errors"
	"github.com/matzehuels/qswap/pkg/httputil"
	"github.com/matzehuels/qswap/pkg/lattice"
	"github.com/matzehuels/qswap/pkg/pipeline"
	"github.com/matzehuels/qswap/pkg/qubo"
	"github.com/matzehuels/qswap/pkg/route"
	"github.com/matzehuels/qswap/pkg/store"
)

// =============================================================================
// Request / response types
// =============================================================================

// SolveRequest is the body of POST /v1/solve. Exactly one of Edges, Regular
// or a bare Nodes count describes the graph.
type SolveRequest struct {
	Nodes    int          `json:"nodes,omitempty"`
	Edges    []qubo.Edge  `json:"edges,omitempty"`
	Regular  int          `json:"regular,omitempty"`
	Topology string       `json:"topology,omitempty"`
	Options  SolveOptions `json:"options"`
}

// SolveOptions are the search knobs a client may set.
type SolveOptions struct {
	Iterations     int     `json:"iterations,omitempty"`
	EntangleScaler float64 `json:"entangle_scaler,omitempty"`
	DistanceScaler float64 `json:"distance_scaler,omitempty"`
	NoTruncate     bool    `json:"no_truncate,omitempty"`
	Seed           uint64  `json:"seed,omitempty"`
	MaxAttempts    int     `json:"max_attempts,omitempty"`
	StrikeLimit    int     `json:"strike_limit,omitempty"`
	Workers        int     `json:"workers,omitempty"`
	Refresh        bool    `json:"refresh,omitempty"`
}

// SolveResponse is returned by POST /v1/solve.
type SolveResponse struct {
	Run       *store.Run       `json:"run"`
	Counts    route.MoveCounts `json:"counts"`
	Stats     route.Stats      `json:"stats"`
	GraphHash string           `json:"graph_hash"`
	Cached    bool             `json:"cached"`
}

// LatticeInfo describes a built-in lattice.
type LatticeInfo struct {
	Name           string  `json:"name"`
	Sites          int     `json:"sites"`
	Edges          int     `json:"edges"`
	Diameter       int     `json:"diameter"`
	EntangleScaler float64 `json:"entangle_scaler"`
	DistanceScaler float64 `json:"distance_scaler"`
}

// HealthResponse is returned by GET /healthz.
type HealthResponse struct {
	Status string         `json:"status"`
	Build  buildinfo.Info `json:"build"`
}

// =============================================================================
// Handlers
// =============================================================================

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	httputil.WriteJSON(w, http.StatusOK, HealthResponse{Status: "ok", Build: buildinfo.Get()})
}

func (s *Server) handleSolve(w http.ResponseWriter, r *http.Request) {
	var req SolveRequest
	if err := httputil.DecodeJSON(w, r, &req, httputil.MaxBodyBytes); err != nil {
		httputil.WriteError(w, err)
		return
	}
	opts, err := s.pipelineOptions(req)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), s.cfg.SolveTimeout)
	defer cancel()
	result, err := s.cfg.Runner.Execute(ctx, opts)
	if err != nil {
		if stderrors.Is(err, context.DeadlineExceeded) {
			err = errors.Wrap(errors.ErrCodeTimeout, err, "solve exceeded %s", s.cfg.SolveTimeout)
		}
		httputil.WriteError(w, err)
		return
	}

	run := store.NewRun(opts.Topology, result.Graph.NodeCount(), result.Graph.EdgeCount(), result.Search)
	if err := s.cfg.Store.Put(r.Context(), run); err != nil {
		s.cfg.Logger.Error("store run", "id", run.ID, "error", err)
		httputil.WriteError(w, errors.Wrap(errors.ErrCodeInternal, err, "store run"))
		return
	}
	s.cfg.Logger.Info("solved",
		"id", run.ID,
		"topology", run.Topology,
		"qubits", run.Nodes,
		"swaps", run.SwapCount,
		"cached", result.CacheInfo.SolutionHit)

	resp := SolveResponse{
		Run:       run,
		Stats:     result.Search.Stats,
		GraphHash: result.GraphHash,
		Cached:    result.CacheInfo.SolutionHit,
	}
	if run.Solution != nil {
		resp.Counts = run.Solution.Counts()
	}
	httputil.WriteJSON(w, http.StatusOK, resp)
}

// pipelineOptions maps a request onto pipeline options, enforcing the
// server's iteration cap.
func (s *Server) pipelineOptions(req SolveRequest) (pipeline.Options, error) {
	o := req.Options
	if o.Iterations > s.cfg.MaxIterations {
		return pipeline.Options{}, errors.New(errors.ErrCodeInvalidConfig,
			"iterations %d exceeds the server limit of %d", o.Iterations, s.cfg.MaxIterations)
	}
	if o.MaxAttempts < 0 {
		return pipeline.Options{}, errors.New(errors.ErrCodeInvalidConfig, "max_attempts must be positive")
	}
	return pipeline.Options{
		Edges:          req.Edges,
		Nodes:          req.Nodes,
		Regular:        req.Regular,
		Topology:       req.Topology,
		Iterations:     o.Iterations,
		EntangleScaler: o.EntangleScaler,
		DistanceScaler: o.DistanceScaler,
		NoTruncate:     o.NoTruncate,
		Seed:           o.Seed,
		MaxAttempts:    o.MaxAttempts,
		StrikeLimit:    o.StrikeLimit,
		Workers:        o.Workers,
		Refresh:        o.Refresh,
	}, nil
}

func (s *Server) handleLattices(w http.ResponseWriter, _ *http.Request) {
	out := make([]LatticeInfo, 0, len(lattice.Topologies))
	for _, t := range lattice.Topologies {
		l, err := lattice.Load(t)
		if err != nil {
			httputil.WriteError(w, err)
			return
		}
		sc := t.Scalers()
		out = append(out, LatticeInfo{
			Name:           string(t),
			Sites:          l.Size(),
			Edges:          l.EdgeCount(),
			Diameter:       l.Distances().Diameter(),
			EntangleScaler: sc.Entangle,
			DistanceScaler: sc.Distance,
		})
	}
	httputil.WriteJSON(w, http.StatusOK, out)
}

func (s *Server) handleListRuns(w http.ResponseWriter, r *http.Request) {
	limit := DefaultListLimit
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			httputil.WriteError(w, errors.New(errors.ErrCodeInvalidInput, "limit must be a positive integer"))
			return
		}
		limit = n
	}
	runs, err := s.cfg.Store.List(r.Context(), limit)
	if err != nil {
		httputil.WriteError(w, errors.Wrap(errors.ErrCodeInternal, err, "list runs"))
		return
	}
	summaries := make([]*store.Run, len(runs))
	for i, run := range runs {
		summaries[i] = run.Summary()
	}
	httputil.WriteJSON(w, http.StatusOK, summaries)
}

func (s *Server) handleGetRun(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := errors.ValidateStoreID(id); err != nil {
		httputil.WriteError(w, err)
		return
	}
	run, err := s.cfg.Store.Get(r.Context(), id)
	if err != nil {
		httputil.WriteError(w, storeError(err, id))
		return
	}
	httputil.WriteJSON(w, http.StatusOK, run)
}

func (s *Server) handleDeleteRun(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := errors.ValidateStoreID(id); err != nil {
		httputil.WriteError(w, err)
		return
	}
	if err := s.cfg.Store.Delete(r.Context(), id); err != nil {
		httputil.WriteError(w, storeError(err, id))
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func storeError(err error, id string) error {
	if stderrors.Is(err, store.ErrNotFound) {
		return errors.New(errors.ErrCodeNotFound, "run %q not found", id)
	}
	return errors.Wrap(errors.ErrCodeInternal, err, "run %q", id)
}
