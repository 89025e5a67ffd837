package route

import (
	"fmt"

	"github.com/matzehuels/qswap/pkg/lattice"
	"github.com/matzehuels/qswap/pkg/qubo"
)

// Problem is one routing instance: a classified interaction graph and the
// lattice it is placed on. It is read-only once built and may be shared by
// concurrent trials.
type Problem struct {
	graph   *qubo.Graph
	lattice *lattice.Graph
	dist    *lattice.Distances

	placeable []int
	chains    []qubo.Chain
	template  *Interactions
}

// NewProblem prepares g for routing on l. The graph is cloned and
// classified, so the caller's copy is left untouched.
func NewProblem(g *qubo.Graph, l *lattice.Graph) (*Problem, error) {
	if g.NodeCount() > l.Size() {
		return nil, fmt.Errorf("%d qubits on %d sites of %s: %w", g.NodeCount(), l.Size(), l.Name(), ErrTooLarge)
	}
	g = g.Clone()
	qubo.Classify(g)
	return &Problem{
		graph:     g,
		lattice:   l,
		dist:      l.Distances(),
		placeable: g.Placeable(),
		chains:    g.Chains(),
		template:  NewInteractions(g.NodeCount(), g.Edges()),
	}, nil
}

// Graph returns the classified interaction graph.
func (p *Problem) Graph() *qubo.Graph { return p.graph }

// Lattice returns the physical lattice.
func (p *Problem) Lattice() *lattice.Graph { return p.lattice }

// Qubits returns the number of logical qubits.
func (p *Problem) Qubits() int { return p.graph.NodeCount() }

// Interactions returns the number of required interactions.
func (p *Problem) Interactions() int { return p.graph.EdgeCount() }

// defaultScalers returns the tuned acceptance factors for the lattice,
// falling back to heavy-hex for custom lattices.
func (p *Problem) defaultScalers() lattice.Scalers {
	if t := lattice.Topology(p.lattice.Name()); t.Valid() {
		return t.Scalers()
	}
	return lattice.DefaultTopology.Scalers()
}
