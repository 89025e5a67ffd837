// Package lattice provides the physical qubit connectivity graphs routing
// runs on.
//
// A lattice is a fixed set of sites joined by couplers. Two topologies are
// built in, each shipped as a pair of CSV tables embedded in the binary:
//
//   - heavy-hex: honeycomb cells with an extra site on every coupler
//   - hex: plain honeycomb cells
//
// Site numbering starts at the centre and spirals outwards, so sites with
// nearby indices are nearby on the chip. The snake placement in the route
// package relies on this when it fills sites 0, 1, 2 in order.
//
// [Load] returns a shared, immutable [Graph]. [Graph.Distances] exposes the
// all-pairs hop table every cost computation reads from; it is computed
// once per lattice and safe to share across goroutines.
//
// Custom lattices can be read with [ReadTables] or [ImportTables] using the
// same table format:
//
//	index,x_coor,y_coor
//	0,4.33,6.5
//	...
//
//	Node1,Node2
//	0,1
//	...
package lattice
