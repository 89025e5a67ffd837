// Package io reads and writes interaction graphs and solved routings.
//
// # Edge lists
//
// Interaction graphs are CSV tables with one header row and two integer
// columns, one row per interaction:
//
//	Node1,Node2
//	0,1
//	1,2
//
// [ReadEdgeList] validates every row: indices must be non-negative integers
// below the node count, and self-loops and duplicate rows are rejected. A
// node count of zero infers it from the largest index. Errors are
// MALFORMED_INPUT errors naming the offending line.
//
// # Solutions
//
// A solved routing is written as JSON by [WriteSolution]:
//
//	{
//	  "lattice": "heavy-hex",
//	  "nodes": 3,
//	  "edges": [{"a": 0, "b": 1}, {"a": 1, "b": 2}],
//	  "swap_count": 1,
//	  "average_swaps": 1.4,
//	  "moves": [
//	    {"kind": "swap", "a": 2, "b": -1, "site_a": 5, "site_b": 4},
//	    {"kind": "entangle", "a": 1, "b": 2, "site_a": 3, "site_b": 4}
//	  ],
//	  "initial_occupancy": [0, 1, -1, ...],
//	  "initial_embedding": [0, 1, 5],
//	  "stats": {...}
//	}
//
// The file carries the graph and lattice name, so [SolutionFile.Graph] and
// [SolutionFile.Solution] are all that is needed to replay it.
package io
