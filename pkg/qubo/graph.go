package qubo

import (
	"errors"
	"fmt"
	"iter"
)

var (
	// ErrSelfLoop is returned by [Graph.AddEdge] when both endpoints are the
	// same node. Interactions are always between two distinct qubits.
	ErrSelfLoop = errors.New("self-loop")

	// ErrDuplicateEdge is returned by [Graph.AddEdge] when the interaction is
	// already present in either orientation.
	ErrDuplicateEdge = errors.New("duplicate edge")

	// ErrNodeOutOfRange is returned by [Graph.AddEdge] when an endpoint is not
	// in 0..N-1.
	ErrNodeOutOfRange = errors.New("node out of range")
)

// MaxNodes is the largest node count accepted from external input. Readers
// that infer the count from edge indices reject anything larger before
// allocating.
const MaxNodes = 100_000

// Role labels a node for placement order. It is assigned by [Classify].
type Role int

const (
	// RolePlain is any node that is neither a hub, a chain member nor isolated.
	RolePlain Role = iota
	// RoleHub marks nodes at the clamped maximum degree.
	RoleHub
	// RoleChainEnd marks the degree-1 terminal of a chain (tail end).
	RoleChainEnd
	// RoleChainInterior marks the remaining members of a chain.
	RoleChainInterior
	// RoleIsolated marks degree-0 nodes.
	RoleIsolated
)

var roleNames = [...]string{
	RolePlain:         "plain",
	RoleHub:           "hub",
	RoleChainEnd:      "chain_end",
	RoleChainInterior: "chain_interior",
	RoleIsolated:      "isolated",
}

// String returns the snake_case name of the role.
func (r Role) String() string {
	if r < 0 || int(r) >= len(roleNames) {
		return fmt.Sprintf("Role(%d)", int(r))
	}
	return roleNames[r]
}

// MarshalText implements encoding.TextMarshaler.
func (r Role) MarshalText() ([]byte, error) { return []byte(r.String()), nil }

// Node holds the classification of one logical qubit.
type Node struct {
	ID   int
	Role Role

	// TailStart is set on the chain member adjacent to the chain's anchor.
	TailStart bool
	// TailEnd is set on the degree-1 node the chain walk started from.
	TailEnd bool
	// Chain is the index into [Graph.Chains], or -1.
	Chain int
}

// InChain reports whether the node is placed as part of a chain rather than
// by the snake placement.
func (n Node) InChain() bool {
	return n.Role == RoleChainEnd || n.Role == RoleChainInterior
}

// Edge is one required interaction. A and B keep the orientation in which
// the edge was added.
type Edge struct {
	A int `json:"a"`
	B int `json:"b"`
}

// Chain is a maximal run of degree-2 nodes ending in a degree-1 node.
// Nodes is ordered from the anchor side (tail start) to the tail end.
// Anchor is the node the chain hangs off; it is never part of the chain.
type Chain struct {
	Nodes  []int
	Anchor int
}

// Graph is the interaction graph: logical qubits 0..N-1 and the pairwise
// interactions they require. Edges are undirected with no self-loops and no
// duplicates.
//
// The zero value is an empty graph with no nodes. Graph is not safe for
// concurrent mutation; read-only use from several goroutines is fine once
// construction and [Classify] are done.
type Graph struct {
	nodes  []Node
	adj    [][]int
	edges  []Edge
	index  map[[2]int]struct{}
	chains []Chain

	classified bool
}

// New creates a graph with n nodes and no edges.
func New(n int) *Graph {
	if n < 0 {
		n = 0
	}
	g := &Graph{
		nodes: make([]Node, n),
		adj:   make([][]int, n),
		index: make(map[[2]int]struct{}),
	}
	for i := range g.nodes {
		g.nodes[i] = Node{ID: i, Chain: -1}
	}
	return g
}

// FromEdges creates a graph with n nodes and the given edges, stopping at the
// first edge [Graph.AddEdge] rejects.
func FromEdges(n int, edges []Edge) (*Graph, error) {
	g := New(n)
	for _, e := range edges {
		if err := g.AddEdge(e.A, e.B); err != nil {
			return nil, fmt.Errorf("edge (%d,%d): %w", e.A, e.B, err)
		}
	}
	return g, nil
}

func key(a, b int) [2]int {
	if a > b {
		a, b = b, a
	}
	return [2]int{a, b}
}

// AddEdge adds the interaction a-b. It returns [ErrSelfLoop] when a == b,
// [ErrDuplicateEdge] when a-b or b-a already exists and [ErrNodeOutOfRange]
// for unknown nodes. Adding an edge clears any previous classification.
func (g *Graph) AddEdge(a, b int) error {
	if a < 0 || b < 0 || a >= len(g.nodes) || b >= len(g.nodes) {
		return ErrNodeOutOfRange
	}
	if a == b {
		return ErrSelfLoop
	}
	k := key(a, b)
	if _, ok := g.index[k]; ok {
		return ErrDuplicateEdge
	}
	if g.index == nil {
		g.index = make(map[[2]int]struct{})
	}
	g.index[k] = struct{}{}
	g.edges = append(g.edges, Edge{A: a, B: b})
	g.adj[a] = append(g.adj[a], b)
	g.adj[b] = append(g.adj[b], a)
	g.classified = false
	return nil
}

// HasEdge reports whether a-b exists in either orientation.
func (g *Graph) HasEdge(a, b int) bool {
	_, ok := g.index[key(a, b)]
	return ok
}

// NodeCount returns N.
func (g *Graph) NodeCount() int { return len(g.nodes) }

// EdgeCount returns the number of interactions.
func (g *Graph) EdgeCount() int { return len(g.edges) }

// Degree returns the number of interactions node n takes part in.
func (g *Graph) Degree(n int) int { return len(g.adj[n]) }

// MaxDegree returns the largest node degree, 0 for an empty graph.
func (g *Graph) MaxDegree() int {
	m := 0
	for _, a := range g.adj {
		m = max(m, len(a))
	}
	return m
}

// Neighbors returns the neighbors of n in edge insertion order. The sequence
// can be ranged over any number of times.
func (g *Graph) Neighbors(n int) iter.Seq[int] {
	return func(yield func(int) bool) {
		for _, m := range g.adj[n] {
			if !yield(m) {
				return
			}
		}
	}
}

// Edges returns a copy of the edge list in insertion order.
func (g *Graph) Edges() []Edge {
	out := make([]Edge, len(g.edges))
	copy(out, g.edges)
	return out
}

// Node returns the classification record of n.
func (g *Graph) Node(n int) Node { return g.nodes[n] }

// Nodes returns a copy of all node records.
func (g *Graph) Nodes() []Node {
	out := make([]Node, len(g.nodes))
	copy(out, g.nodes)
	return out
}

// Chains returns the chains found by the last [Classify], ordered by the id
// of their tail-start node.
func (g *Graph) Chains() []Chain {
	out := make([]Chain, len(g.chains))
	for i, c := range g.chains {
		out[i] = Chain{Nodes: append([]int(nil), c.Nodes...), Anchor: c.Anchor}
	}
	return out
}

// Classified reports whether roles reflect the current edge set.
func (g *Graph) Classified() bool { return g.classified }

// Clone returns a deep copy of the graph including its classification.
func (g *Graph) Clone() *Graph {
	c := &Graph{
		nodes:      append([]Node(nil), g.nodes...),
		adj:        make([][]int, len(g.adj)),
		edges:      append([]Edge(nil), g.edges...),
		index:      make(map[[2]int]struct{}, len(g.index)),
		chains:     g.Chains(),
		classified: g.classified,
	}
	for i, a := range g.adj {
		c.adj[i] = append([]int(nil), a...)
	}
	for k := range g.index {
		c.index[k] = struct{}{}
	}
	return c
}
