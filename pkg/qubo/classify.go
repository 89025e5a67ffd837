package qubo

import "slices"

// minHubDegree is the floor applied to the maximum degree before hubs are
// marked. A graph made only of paths has no hubs.
const minHubDegree = 3

// Classify assigns a [Role] to every node and records the graph's chains.
//
// Every degree-1 node starts a chain. The walk continues through unvisited
// degree-2 neighbors and stops at the first node whose degree is not 2; that
// node becomes the chain's anchor and is not part of the chain. When the
// walk ends on another degree-1 node the component is a bare path, and that
// far endpoint is the anchor, so it is placed like any other non-chain node.
// Nodes at the clamped maximum degree become hubs, degree-0 nodes become
// isolated and the rest stay plain.
//
// Classify resets previous labels first, so calling it again yields the same
// result. The walk is iterative and never revisits a node.
func Classify(g *Graph) {
	n := len(g.nodes)
	for i := range g.nodes {
		g.nodes[i] = Node{ID: i, Chain: -1}
	}
	g.chains = g.chains[:0]

	visited := make([]bool, n)
	anchor := make([]bool, n)
	for s := 0; s < n; s++ {
		if g.Degree(s) != 1 || visited[s] || anchor[s] {
			continue
		}
		walk := []int{s}
		visited[s] = true
		prev, cur, end := -1, s, -1
		for {
			next := -1
			for _, m := range g.adj[cur] {
				if m != prev && !visited[m] {
					next = m
					break
				}
			}
			if next == -1 {
				break
			}
			if g.Degree(next) != 2 {
				end = next
				break
			}
			visited[next] = true
			walk = append(walk, next)
			prev, cur = cur, next
		}
		if end >= 0 {
			anchor[end] = true
		}
		slices.Reverse(walk)
		g.chains = append(g.chains, Chain{Nodes: walk, Anchor: end})
	}

	slices.SortFunc(g.chains, func(a, b Chain) int { return a.Nodes[0] - b.Nodes[0] })
	for ci, c := range g.chains {
		for _, m := range c.Nodes {
			g.nodes[m].Role = RoleChainInterior
			g.nodes[m].Chain = ci
		}
		tail := c.Nodes[len(c.Nodes)-1]
		g.nodes[tail].Role = RoleChainEnd
		g.nodes[tail].TailEnd = true
		g.nodes[c.Nodes[0]].TailStart = true
	}

	hub := max(g.MaxDegree(), minHubDegree)
	for i := range g.nodes {
		if g.nodes[i].InChain() {
			continue
		}
		switch d := g.Degree(i); {
		case d == 0:
			g.nodes[i].Role = RoleIsolated
		case d == hub:
			g.nodes[i].Role = RoleHub
		default:
			g.nodes[i].Role = RolePlain
		}
	}
	g.classified = true
}

// Placeable returns the nodes the snake placement handles: everything that
// is not a chain member, in ascending id order.
func (g *Graph) Placeable() []int {
	out := make([]int, 0, len(g.nodes))
	for _, nd := range g.nodes {
		if !nd.InChain() {
			out = append(out, nd.ID)
		}
	}
	return out
}
