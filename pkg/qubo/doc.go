// Package qubo models the interaction graph of a routing problem.
//
// # Overview
//
// Nodes are logical qubits numbered 0..N-1. An edge a-b is a required
// two-qubit interaction: at some point during execution the two qubits must
// sit on adjacent sites of the physical lattice. The name follows the QUBO
// problems the graphs usually come from; only the coupling structure is
// kept, never the weights.
//
// # Topology Classification
//
// [Classify] labels every node before placement:
//
//   - isolated: degree 0, never part of an interaction
//   - hub: degree equal to max(MaxDegree, 3)
//   - chain_end / chain_interior: members of a chain, a path of degree-2
//     nodes ending in a degree-1 node and hanging off an anchor
//   - plain: everything else
//
// Chain members are placed after everything else, one after the other,
// next to their anchor; see the route package.
//
// # Generators
//
// [Empty] and [RandomRegular] build synthetic inputs. Edge-list files are
// read by the io package.
package qubo
