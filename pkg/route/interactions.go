package route

import (
	"iter"

	"github.com/matzehuels/qswap/pkg/qubo"
)

// Pair is a pending interaction in the orientation it was added.
type Pair struct {
	A int `json:"a"`
	B int `json:"b"`
}

// Interactions is the set of interactions that still need adjacency. It
// iterates in insertion order and keeps a per-qubit partner index so cost
// evaluations only touch the qubits involved.
//
// The pair table and its lookup map are shared read-only between copies;
// only the liveness flags and partner lists are owned by each copy.
type Interactions struct {
	pairs []Pair
	pos   map[[2]int]int

	alive    []bool
	live     int
	partners [][]int
}

// NewInteractions builds the full pending set for the given edges.
func NewInteractions(qubits int, edges []qubo.Edge) *Interactions {
	p := &Interactions{
		pairs:    make([]Pair, len(edges)),
		pos:      make(map[[2]int]int, len(edges)),
		alive:    make([]bool, len(edges)),
		live:     len(edges),
		partners: make([][]int, qubits),
	}
	for i, e := range edges {
		p.pairs[i] = Pair{A: e.A, B: e.B}
		p.pos[pairKey(e.A, e.B)] = i
		p.alive[i] = true
		p.partners[e.A] = append(p.partners[e.A], e.B)
		p.partners[e.B] = append(p.partners[e.B], e.A)
	}
	return p
}

func pairKey(a, b int) [2]int {
	if a > b {
		a, b = b, a
	}
	return [2]int{a, b}
}

// Len returns the number of pending interactions.
func (p *Interactions) Len() int { return p.live }

// Total returns the number of interactions the set started with.
func (p *Interactions) Total() int { return len(p.pairs) }

// Lookup returns the pending pair joining a and b in its stored orientation.
func (p *Interactions) Lookup(a, b int) (Pair, bool) {
	i, ok := p.pos[pairKey(a, b)]
	if !ok || !p.alive[i] {
		return Pair{}, false
	}
	return p.pairs[i], true
}

// Remove resolves the interaction a-b. It reports whether it was pending.
func (p *Interactions) Remove(a, b int) bool {
	i, ok := p.pos[pairKey(a, b)]
	if !ok || !p.alive[i] {
		return false
	}
	p.alive[i] = false
	p.live--
	p.partners[a] = dropOne(p.partners[a], b)
	p.partners[b] = dropOne(p.partners[b], a)
	return true
}

func dropOne(s []int, v int) []int {
	for i, x := range s {
		if x == v {
			last := len(s) - 1
			s[i] = s[last]
			return s[:last]
		}
	}
	return s
}

// Partners returns the pending partners of q. The slice is owned by the set
// and is only valid until the next Remove.
func (p *Interactions) Partners(q int) []int { return p.partners[q] }

// All yields the pending pairs in insertion order.
func (p *Interactions) All() iter.Seq[Pair] {
	return func(yield func(Pair) bool) {
		for i, pr := range p.pairs {
			if p.alive[i] && !yield(pr) {
				return
			}
		}
	}
}

// Clone returns a copy that can be consumed independently.
func (p *Interactions) Clone() *Interactions {
	c := &Interactions{
		pairs:    p.pairs,
		pos:      p.pos,
		alive:    append([]bool(nil), p.alive...),
		live:     p.live,
		partners: make([][]int, len(p.partners)),
	}
	for q, ps := range p.partners {
		c.partners[q] = append([]int(nil), ps...)
	}
	return c
}
