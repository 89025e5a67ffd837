package route_test

import (
	"context"
	"fmt"

	"github.com/matzehuels/qswap/pkg/lattice"
	"github.com/matzehuels/qswap/pkg/qubo"
	"github.com/matzehuels/qswap/pkg/route"
)

func ExampleSearch() {
	g, _ := qubo.FromEdges(3, []qubo.Edge{{A: 0, B: 1}})
	l, _ := lattice.Load(lattice.HeavyHex)
	p, _ := route.NewProblem(g, l)

	res, err := route.Search(context.Background(), p, route.Options{Iterations: 5})
	if err != nil {
		fmt.Println(err)
		return
	}
	_, err = route.Replay(p, res.Solution)
	fmt.Println("swaps:", res.Solution.SwapCount)
	fmt.Println("valid:", err == nil)
	// Output:
	// swaps: 0
	// valid: true
}
