package lattice

import (
	"errors"
	"slices"
)

// ErrNoPath is returned by [Graph.ShortestPath] when the target cannot be
// reached. Lattices built by [New] are connected, so this signals a defect.
var ErrNoPath = errors.New("no path between sites")

// Distances is the all-pairs shortest-path table of a lattice, in hops.
// It is read-only after construction and safe to share between goroutines.
type Distances struct {
	n int
	d []int32
}

// NewDistances runs one breadth-first search per site.
func NewDistances(g *Graph) *Distances {
	n := g.Size()
	t := &Distances{n: n, d: make([]int32, n*n)}
	for i := range t.d {
		t.d[i] = -1
	}
	queue := make([]int, 0, n)
	for s := range n {
		row := t.d[s*n : (s+1)*n]
		row[s] = 0
		queue = append(queue[:0], s)
		for head := 0; head < len(queue); head++ {
			u := queue[head]
			for _, v := range g.adj[u] {
				if row[v] < 0 {
					row[v] = row[u] + 1
					queue = append(queue, v)
				}
			}
		}
	}
	return t
}

// At returns the hop distance between sites u and v.
func (t *Distances) At(u, v int) int { return int(t.d[u*t.n+v]) }

// Size returns the number of sites covered by the table.
func (t *Distances) Size() int { return t.n }

// Diameter returns the largest finite distance in the table.
func (t *Distances) Diameter() int {
	var m int32
	for _, v := range t.d {
		m = max(m, v)
	}
	return int(m)
}

// ShortestPath returns one shortest site sequence from -> to, both included.
// Ties are broken by coupler table order.
func (g *Graph) ShortestPath(from, to int) ([]int, error) {
	if from == to {
		return []int{from}, nil
	}
	parent := make([]int, len(g.sites))
	for i := range parent {
		parent[i] = -1
	}
	parent[from] = from
	queue := []int{from}
	for head := 0; head < len(queue); head++ {
		u := queue[head]
		for _, v := range g.adj[u] {
			if parent[v] >= 0 {
				continue
			}
			parent[v] = u
			if v == to {
				return walkBack(parent, from, to), nil
			}
			queue = append(queue, v)
		}
	}
	return nil, ErrNoPath
}

func walkBack(parent []int, from, to int) []int {
	var path []int
	for v := to; v != from; v = parent[v] {
		path = append(path, v)
	}
	path = append(path, from)
	slices.Reverse(path)
	return path
}
