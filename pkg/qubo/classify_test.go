package qubo

import (
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRand(seed uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, seed^0xdeadbeef))
}

func mustGraph(t *testing.T, n int, edges ...Edge) *Graph {
	t.Helper()
	g, err := FromEdges(n, edges)
	require.NoError(t, err)
	return g
}

func roles(g *Graph) []Role {
	out := make([]Role, g.NodeCount())
	for i, n := range g.Nodes() {
		out[i] = n.Role
	}
	return out
}

func TestClassifyHubWithChains(t *testing.T) {
	// 0 is a hub with two leaves and a three-node tail 3-4-5.
	g := mustGraph(t, 6, Edge{0, 1}, Edge{0, 2}, Edge{0, 3}, Edge{3, 4}, Edge{4, 5})
	Classify(g)

	assert.Equal(t, []Role{
		RoleHub, RoleChainEnd, RoleChainEnd, RoleChainInterior, RoleChainInterior, RoleChainEnd,
	}, roles(g))

	chains := g.Chains()
	require.Len(t, chains, 3)
	assert.Equal(t, Chain{Nodes: []int{1}, Anchor: 0}, chains[0])
	assert.Equal(t, Chain{Nodes: []int{2}, Anchor: 0}, chains[1])
	assert.Equal(t, Chain{Nodes: []int{3, 4, 5}, Anchor: 0}, chains[2])

	assert.True(t, g.Node(3).TailStart)
	assert.False(t, g.Node(3).TailEnd)
	assert.True(t, g.Node(5).TailEnd)
	assert.True(t, g.Node(1).TailStart && g.Node(1).TailEnd, "single-node chain is both ends")
	assert.Equal(t, []int{0}, g.Placeable())
}

func TestClassifyBarePath(t *testing.T) {
	g := mustGraph(t, 4, Edge{0, 1}, Edge{1, 2}, Edge{2, 3})
	Classify(g)

	chains := g.Chains()
	require.Len(t, chains, 1)
	assert.Equal(t, Chain{Nodes: []int{2, 1, 0}, Anchor: 3}, chains[0])
	assert.Equal(t, RolePlain, g.Node(3).Role, "far endpoint anchors the path")
	assert.Equal(t, []int{3}, g.Placeable())
}

func TestClassifyIsolatedAndPair(t *testing.T) {
	g := mustGraph(t, 3, Edge{0, 1})
	Classify(g)

	assert.Equal(t, []Role{RoleChainEnd, RolePlain, RoleIsolated}, roles(g))
	assert.Equal(t, []int{1, 2}, g.Placeable())
}

func TestClassifyCycleHasNoChains(t *testing.T) {
	g := mustGraph(t, 4, Edge{0, 1}, Edge{1, 2}, Edge{2, 3}, Edge{3, 0})
	Classify(g)

	assert.Empty(t, g.Chains())
	assert.Equal(t, []Role{RolePlain, RolePlain, RolePlain, RolePlain}, roles(g))
}

func TestClassifyTerminatesOnLoops(t *testing.T) {
	// triangle with a tail; the walk must not circle the triangle.
	g := mustGraph(t, 5, Edge{0, 1}, Edge{1, 2}, Edge{2, 0}, Edge{2, 3}, Edge{3, 4})
	Classify(g)

	chains := g.Chains()
	require.Len(t, chains, 1)
	assert.Equal(t, Chain{Nodes: []int{3, 4}, Anchor: 2}, chains[0])
	assert.Equal(t, RoleHub, g.Node(2).Role)
}

func TestClassifyIdempotent(t *testing.T) {
	g, err := RandomRegular(20, 3, newRand(3))
	require.NoError(t, err)
	// hang a few tails off the regular core
	h := New(26)
	for _, e := range g.Edges() {
		require.NoError(t, h.AddEdge(e.A, e.B))
	}
	for _, e := range []Edge{{0, 20}, {20, 21}, {21, 22}, {5, 23}, {24, 25}} {
		require.NoError(t, h.AddEdge(e.A, e.B))
	}

	Classify(h)
	nodes, chains := h.Nodes(), h.Chains()
	Classify(h)
	assert.Equal(t, nodes, h.Nodes())
	assert.Equal(t, chains, h.Chains())

	for _, n := range h.Nodes() {
		if n.InChain() {
			assert.LessOrEqual(t, h.Degree(n.ID), 2)
		}
	}
}

func TestRoleString(t *testing.T) {
	assert.Equal(t, "chain_interior", RoleChainInterior.String())
	assert.Equal(t, "Role(9)", Role(9).String())
}
