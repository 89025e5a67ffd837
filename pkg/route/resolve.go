package route

// Resolve consumes every pending interaction whose qubits sit on coupled
// sites and appends the resulting moves to the trial.
//
// The first pass walks the coupler table and records an entangle move per
// resolved pair, in the pair's stored orientation. Pairs whose exchange
// would lower the remaining distance are queued; the second pass swaps each
// queued pair that is still adjacent and turns its record into a free move.
// Entangle moves come first in the output, then free moves. Free swaps are
// not charged.
func (t *Trial) Resolve() []Move {
	first := len(t.moves)
	var queued []int
	for _, e := range t.p.lattice.Edges() {
		qa, qb := t.state.Occupant(e.A), t.state.Occupant(e.B)
		if qa == Empty || qb == Empty {
			continue
		}
		pr, ok := t.pending.Lookup(qa, qb)
		if !ok {
			continue
		}
		t.pending.Remove(qa, qb)
		sa, sb := e.A, e.B
		if pr.A != qa {
			sa, sb = sb, sa
		}
		t.moves = append(t.moves, Move{Kind: MoveEntangle, A: pr.A, B: pr.B, SiteA: sa, SiteB: sb})
		if t.SwapCost(pr.A, pr.B, sb) < 0 {
			queued = append(queued, len(t.moves)-1)
		}
	}
	if len(queued) == 0 {
		return t.moves[first:]
	}

	var free []Move
	for _, i := range queued {
		m := t.moves[i]
		sa, sb := t.state.Site(m.A), t.state.Site(m.B)
		if !t.p.lattice.Adjacent(sa, sb) {
			continue
		}
		t.state.SwapSites(sa, sb)
		free = append(free, Move{Kind: MoveFree, A: m.A, B: m.B, SiteA: sa, SiteB: sb})
		t.moves[i].Kind = moveDropped
	}
	kept := t.moves[:first]
	for _, m := range t.moves[first:] {
		if m.Kind != moveDropped {
			kept = append(kept, m)
		}
	}
	t.moves = append(kept, free...)
	return t.moves[first:]
}
