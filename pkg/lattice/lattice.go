package lattice

import (
	"errors"
	"fmt"
	"sync"
)

var (
	// ErrEmpty is returned by [New] for a lattice without sites.
	ErrEmpty = errors.New("lattice has no sites")

	// ErrBadEdge is returned by [New] for self-loops, duplicate couplers and
	// endpoints outside the site table.
	ErrBadEdge = errors.New("invalid lattice edge")

	// ErrDisconnected is returned by [New] when some site cannot be reached
	// from site 0. Routing requires a connected lattice.
	ErrDisconnected = errors.New("lattice is not connected")
)

// Site is one physical qubit position. X and Y are only used for display.
type Site struct {
	ID int     `json:"id"`
	X  float64 `json:"x"`
	Y  float64 `json:"y"`
}

// Edge is a physical coupler between two sites.
type Edge struct {
	A int `json:"a"`
	B int `json:"b"`
}

// Graph is an immutable physical connectivity lattice. Site ids are 0..N-1
// and match their index in the node table.
//
// A Graph is safe for concurrent use; it is never mutated after [New].
type Graph struct {
	name  string
	sites []Site
	edges []Edge
	adj   [][]int

	distOnce sync.Once
	dist     *Distances
}

// New builds a lattice from a site table and coupler list. Sites must be
// numbered 0..len(sites)-1 in order; couplers must be simple and the
// lattice connected.
func New(name string, sites []Site, edges []Edge) (*Graph, error) {
	if len(sites) == 0 {
		return nil, ErrEmpty
	}
	for i, s := range sites {
		if s.ID != i {
			return nil, fmt.Errorf("site %d listed at position %d: %w", s.ID, i, ErrBadEdge)
		}
	}
	g := &Graph{
		name:  name,
		sites: append([]Site(nil), sites...),
		edges: make([]Edge, 0, len(edges)),
		adj:   make([][]int, len(sites)),
	}
	seen := make(map[[2]int]struct{}, len(edges))
	for _, e := range edges {
		if e.A < 0 || e.B < 0 || e.A >= len(sites) || e.B >= len(sites) || e.A == e.B {
			return nil, fmt.Errorf("coupler (%d,%d): %w", e.A, e.B, ErrBadEdge)
		}
		k := [2]int{min(e.A, e.B), max(e.A, e.B)}
		if _, dup := seen[k]; dup {
			return nil, fmt.Errorf("duplicate coupler (%d,%d): %w", e.A, e.B, ErrBadEdge)
		}
		seen[k] = struct{}{}
		g.edges = append(g.edges, e)
		g.adj[e.A] = append(g.adj[e.A], e.B)
		g.adj[e.B] = append(g.adj[e.B], e.A)
	}
	if !g.connected() {
		return nil, ErrDisconnected
	}
	return g, nil
}

func (g *Graph) connected() bool {
	seen := make([]bool, len(g.sites))
	queue := []int{0}
	seen[0] = true
	count := 1
	for len(queue) > 0 {
		u := queue[0]
		queue = queue[1:]
		for _, v := range g.adj[u] {
			if !seen[v] {
				seen[v] = true
				count++
				queue = append(queue, v)
			}
		}
	}
	return count == len(g.sites)
}

// Name returns the topology name the lattice was loaded as.
func (g *Graph) Name() string { return g.name }

// Size returns the number of sites.
func (g *Graph) Size() int { return len(g.sites) }

// EdgeCount returns the number of couplers.
func (g *Graph) EdgeCount() int { return len(g.edges) }

// Site returns the site record for id.
func (g *Graph) Site(id int) Site { return g.sites[id] }

// Sites returns a copy of the site table.
func (g *Graph) Sites() []Site { return append([]Site(nil), g.sites...) }

// Edges returns the couplers in table order. The slice is shared and must
// not be modified.
func (g *Graph) Edges() []Edge { return g.edges }

// Neighbors returns the sites coupled to id in table order. The slice is
// shared and must not be modified.
func (g *Graph) Neighbors(id int) []int { return g.adj[id] }

// Adjacent reports whether a and b share a coupler.
func (g *Graph) Adjacent(a, b int) bool {
	for _, v := range g.adj[a] {
		if v == b {
			return true
		}
	}
	return false
}

// Distances returns the all-pairs hop-count table, computing it on first use.
func (g *Graph) Distances() *Distances {
	g.distOnce.Do(func() { g.dist = NewDistances(g) })
	return g.dist
}
