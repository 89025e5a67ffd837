package route

import "errors"

var (
	// ErrInvariant reports a defect in placement or routing: a broken
	// occupancy/embedding inverse, an empty candidate set the algorithm
	// guarantees to be non-empty, or a full lattice. The current search is
	// aborted; no partial result is recorded for the failing trial.
	ErrInvariant = errors.New("invariant violation")

	// ErrCandidateExhausted is returned by [Search] when a candidate unit hits
	// [Options.MaxAttempts] rejected embeddings in a row.
	ErrCandidateExhausted = errors.New("candidate generation exhausted")

	// ErrTooLarge is returned by [NewProblem] when the interaction graph has
	// more qubits than the lattice has sites.
	ErrTooLarge = errors.New("graph does not fit on lattice")

	// ErrInvalidOptions is returned by [Search] for out-of-range options.
	ErrInvalidOptions = errors.New("invalid search options")

	// ErrReplay is returned by [Replay] when a recorded move does not match
	// the state it is applied to.
	ErrReplay = errors.New("replay mismatch")
)
