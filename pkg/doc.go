// Package pkg provides the libraries behind qswap, a placer and router for
// QUBO interaction graphs on fixed qubit lattices.
//
// # Overview
//
// A QUBO problem couples pairs of logical qubits. On hardware each pair can
// only interact when its qubits sit on adjacent lattice sites, so qubits are
// moved around with SWAP gates. qswap picks a starting placement and an order
// of operations that resolves every interaction with as few swaps as it can
// find. The pkg directory is organized into four areas:
//
//  1. Domain: [qubo], [lattice], [route]
//  2. Orchestration: [pipeline]
//  3. Persistence: [cache], [store], [io]
//  4. Support: [errors], [httputil], [observability], [buildinfo]
//
// # Architecture
//
// The data flow for a single solve:
//
//	CSV edge list / generated graph
//	         ↓
//	    [qubo] package (interaction graph)
//	         ↓
//	    [lattice] package (heavy-hex or hex sites + distances)
//	         ↓
//	    [route] package (placement, trials, refinement)
//	         ↓
//	    solution JSON / HTTP response
//
// [pipeline] runs these steps for both the CLI and the HTTP server, and looks
// results up in [cache] before searching.
//
// # Quick Start
//
// Route a random 3-regular graph on the heavy-hex lattice:
//
//	runner := pipeline.NewRunner(cache.NewNullCache(), nil, nil)
//	defer runner.Close()
//
//	res, err := runner.Execute(ctx, pipeline.Options{Regular: 40, Iterations: 500})
//	if err != nil {
//	    return err
//	}
//	fmt.Println(res.Search.Solution.SwapCount)
//
// Or drive the engine directly:
//
//	g, _ := io.ImportEdgeList("graph.csv", 0)
//	l, _ := lattice.Load(lattice.HeavyHex)
//	p, _ := route.NewProblem(g, l)
//	res, _ := route.Search(ctx, p, route.Options{Iterations: 1000, Workers: 4})
//
// # Main Packages
//
// [route] - The search engine. A search accepts starting placements that pass
// the entangle and distance thresholds, runs trials from each of them, and
// keeps the solution with the fewest swaps. [route.Replay] checks a solution
// move by move.
//
// [cache] - Byte caches for solved routings: null, file, Badger and Redis.
//
// [store] - History of runs served by the HTTP API: memory, file and MongoDB.
//
// [observability] - Hook interfaces for searches, caches and HTTP requests,
// with a Prometheus implementation in observability/prom.
//
// # Testing
//
//	go test ./...                 # All tests
//	go test ./pkg/route/...       # Specific package
//	go test -run Search -race ./pkg/route
//
// [qubo]: https://pkg.go.dev/github.com/matzehuels/qswap/pkg/qubo
// [lattice]: https://pkg.go.dev/github.com/matzehuels/qswap/pkg/lattice
// [route]: https://pkg.go.dev/github.com/matzehuels/qswap/pkg/route
// [route.Replay]: https://pkg.go.dev/github.com/matzehuels/qswap/pkg/route#Replay
// [pipeline]: https://pkg.go.dev/github.com/matzehuels/qswap/pkg/pipeline
// [cache]: https://pkg.go.dev/github.com/matzehuels/qswap/pkg/cache
// [store]: https://pkg.go.dev/github.com/matzehuels/qswap/pkg/store
// [io]: https://pkg.go.dev/github.com/matzehuels/qswap/pkg/io
// [errors]: https://pkg.go.dev/github.com/matzehuels/qswap/pkg/errors
// [httputil]: https://pkg.go.dev/github.com/matzehuels/qswap/pkg/httputil
// [observability]: https://pkg.go.dev/github.com/matzehuels/qswap/pkg/observability
// [buildinfo]: https://pkg.go.dev/github.com/matzehuels/qswap/pkg/buildinfo
package pkg
