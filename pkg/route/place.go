package route

import (
	"fmt"
	"slices"
)

// PlaceInitial performs the snake placement of every non-chain qubit. The
// origin is drawn uniformly from the placeable qubits and put on site 0.
// Each following site i receives a random unplaced placeable neighbor of the
// qubit placed on site i-1, or any unplaced placeable qubit when that
// neighbor set is empty. Candidates are drawn from ascending id order.
func (t *Trial) PlaceInitial() error {
	cands := t.p.placeable
	if len(cands) == 0 {
		return nil
	}
	g := t.p.graph

	prev := cands[t.rng.IntN(len(cands))]
	if err := t.state.Place(prev, 0); err != nil {
		return err
	}
	for site := 1; site < len(cands); site++ {
		next := t.buf[:0]
		for m := range g.Neighbors(prev) {
			if !g.Node(m).InChain() && t.state.Site(m) == Unplaced {
				next = append(next, m)
			}
		}
		if len(next) == 0 {
			for _, q := range cands {
				if t.state.Site(q) == Unplaced {
					next = append(next, q)
				}
			}
		} else {
			slices.Sort(next)
		}
		if len(next) == 0 {
			return fmt.Errorf("no unplaced qubit for site %d: %w", site, ErrInvariant)
		}
		prev = next[t.rng.IntN(len(next))]
		t.buf = next
		if err := t.state.Place(prev, site); err != nil {
			return err
		}
	}
	return nil
}

// PlaceChains lays every chain out from its anchor, tail start first. Each
// chain qubit goes on the first free lattice neighbor of the previously
// placed qubit's site, or on the nearest free site found by
// [Trial.FindOpenSite]. Chains run in ascending tail-start order.
func (t *Trial) PlaceChains() error {
	l := t.p.lattice
	for _, c := range t.p.chains {
		from := 0
		if c.Anchor >= 0 {
			from = t.state.Site(c.Anchor)
			if from == Unplaced {
				return fmt.Errorf("anchor %d of chain %v not placed: %w", c.Anchor, c.Nodes, ErrInvariant)
			}
		}
		for _, q := range c.Nodes {
			site := Empty
			for _, nb := range l.Neighbors(from) {
				if t.state.Occupant(nb) == Empty {
					site = nb
					break
				}
			}
			if site == Empty {
				var err error
				if site, err = t.FindOpenSite(from); err != nil {
					return err
				}
			}
			if err := t.state.Place(q, site); err != nil {
				return err
			}
			from = site
		}
	}
	return nil
}

// FindOpenSite returns the first empty site in breadth-first discovery order
// from the given site, the site itself excluded. Discovery follows coupler
// table order, so the result is deterministic for a given occupancy.
func (t *Trial) FindOpenSite(from int) (int, error) {
	l := t.p.lattice
	seen := make([]bool, l.Size())
	seen[from] = true
	queue := []int{from}
	for head := 0; head < len(queue); head++ {
		for _, v := range l.Neighbors(queue[head]) {
			if seen[v] {
				continue
			}
			if t.state.Occupant(v) == Empty {
				return v, nil
			}
			seen[v] = true
			queue = append(queue, v)
		}
	}
	return Empty, fmt.Errorf("no free site reachable from %d: %w", from, ErrInvariant)
}
