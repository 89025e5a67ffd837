package route

import "math/rand/v2"

// Trial is the mutable routing state of one run: the qubit placement, the
// interactions still pending, the moves made so far and the chargeable swap
// count. A Trial is owned by a single goroutine.
type Trial struct {
	p       *Problem
	rng     *rand.Rand
	state   *State
	pending *Interactions
	moves   []Move
	swaps   int

	buf []int
}

// NewTrial returns an empty trial: nothing placed, every interaction
// pending.
func (p *Problem) NewTrial(rng *rand.Rand) *Trial {
	return &Trial{
		p:       p,
		rng:     rng,
		state:   NewState(p.lattice.Size(), p.Qubits()),
		pending: p.template.Clone(),
	}
}

// Reset returns the trial to its freshly created condition.
func (t *Trial) Reset() {
	t.state.Clear()
	t.pending = t.p.template.Clone()
	t.moves = t.moves[:0]
	t.swaps = 0
}

// fork copies the trial for an independent continuation with its own
// random stream.
func (t *Trial) fork(rng *rand.Rand) *Trial {
	return &Trial{
		p:       t.p,
		rng:     rng,
		state:   t.state.Clone(),
		pending: t.pending.Clone(),
		moves:   append([]Move(nil), t.moves...),
		swaps:   t.swaps,
	}
}

// State returns the live placement. Callers must not mutate it.
func (t *Trial) State() *State { return t.state }

// Pending returns the live set of unresolved interactions.
func (t *Trial) Pending() *Interactions { return t.pending }

// Moves returns the moves recorded so far.
func (t *Trial) Moves() []Move { return t.moves }

// Swaps returns the chargeable swap count.
func (t *Trial) Swaps() int { return t.swaps }

// Done reports whether every interaction has been resolved.
func (t *Trial) Done() bool { return t.pending.Len() == 0 }

// Run alternates [Trial.RouteNext] and [Trial.Resolve] until nothing is
// pending or stop reports true for the running swap count. It returns
// whether the trial completed.
func (t *Trial) Run(stop func(swaps int) bool) (bool, error) {
	for !t.Done() {
		if _, err := t.RouteNext(); err != nil {
			return false, err
		}
		t.Resolve()
		if stop != nil && stop(t.swaps) {
			return t.Done(), nil
		}
	}
	return true, nil
}
