package route

import (
	"fmt"
	"math"

	"github.com/matzehuels/qswap/pkg/lattice"
)

// RouteNext brings one pending interaction into adjacency with chargeable
// swaps and returns the swap moves it made.
//
// Among all pending pairs at the smallest lattice distance one is drawn
// uniformly. Two markers start at the ends of a shortest path between its
// qubits. At each step the end whose advance costs less, measured by
// [Trial.SwapCost] for the qubit at that end, moves one site inwards; ties
// go to the right end. The walk stops when the markers are adjacent, after
// len(path)-2 swaps.
func (t *Trial) RouteNext() ([]Move, error) {
	if t.pending.Len() == 0 {
		return nil, nil
	}
	pick, err := t.nearestPending()
	if err != nil {
		return nil, err
	}

	path, err := t.p.lattice.ShortestPath(t.state.Site(pick.A), t.state.Site(pick.B))
	if err != nil {
		return nil, fmt.Errorf("route %d-%d: %w", pick.A, pick.B, err)
	}

	first := len(t.moves)
	left, right := pick.A, pick.B
	ml, mr := 0, len(path)-1
	dl := t.SwapCost(left, t.state.Occupant(path[1]), path[1])
	dr := t.SwapCost(right, t.state.Occupant(path[mr-1]), path[mr-1])
	for range len(path) - 2 {
		if dl < dr {
			t.swap(path[ml], path[ml+1])
			ml++
			dl = t.SwapCost(left, t.state.Occupant(path[ml+1]), path[ml+1])
		} else {
			t.swap(path[mr], path[mr-1])
			mr--
			dr = t.SwapCost(right, t.state.Occupant(path[mr-1]), path[mr-1])
		}
	}
	return t.moves[first:], nil
}

// nearestPending draws uniformly among the pending pairs at minimal lattice
// distance, taken from the distance table.
func (t *Trial) nearestPending() (Pair, error) {
	best := math.MaxInt
	var cands []Pair
	for pr := range t.pending.All() {
		d := t.p.dist.At(t.state.Site(pr.A), t.state.Site(pr.B))
		if d < 0 {
			return Pair{}, fmt.Errorf("pair %d-%d: %w", pr.A, pr.B, lattice.ErrNoPath)
		}
		if d < best {
			best = d
			cands = cands[:0]
		}
		if d == best {
			cands = append(cands, pr)
		}
	}
	return cands[t.rng.IntN(len(cands))], nil
}

// swap records and performs one chargeable exchange between coupled sites.
func (t *Trial) swap(a, b int) {
	t.moves = append(t.moves, Move{
		Kind:  MoveSwap,
		A:     t.state.Occupant(a),
		B:     t.state.Occupant(b),
		SiteA: a,
		SiteB: b,
	})
	t.state.SwapSites(a, b)
	t.swaps++
}
