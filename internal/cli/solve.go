package cli

import (
	"context"
	stderrors "errors"
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	qio "github.com/matzehuels/qswap/pkg/io"
	"github.com/matzehuels/qswap/pkg/lattice"
	"github.com/matzehuels/qswap/pkg/pipeline"
)

// solveFlags holds the flags of "qswap solve".
type solveFlags struct {
	nodes          int
	regular        int
	lattice        string
	iterations     int
	entangleScaler float64
	distanceScaler float64
	noTruncate     bool
	seed           uint64
	maxAttempts    int
	strikeLimit    int
	workers        int
	output         string
	moves          bool
	refresh        bool
	tui            bool
	cache          cacheFlags
}

func (f *solveFlags) options(args []string) pipeline.Options {
	opts := pipeline.Options{
		Nodes:          f.nodes,
		Regular:        f.regular,
		Topology:       f.lattice,
		Iterations:     f.iterations,
		EntangleScaler: f.entangleScaler,
		DistanceScaler: f.distanceScaler,
		NoTruncate:     f.noTruncate,
		Seed:           f.seed,
		MaxAttempts:    f.maxAttempts,
		StrikeLimit:    f.strikeLimit,
		Workers:        f.workers,
		Refresh:        f.refresh,
	}
	if len(args) == 1 {
		opts.EdgeFile = args[0]
	}
	return opts
}

// solveCommand creates the solve command.
func (c *CLI) solveCommand() *cobra.Command {
	var flags solveFlags

	cmd := &cobra.Command{
		Use:   "solve [edge-file]",
		Short: "Place and route an interaction graph on a lattice",
		Long: `Solve places the qubits of an interaction graph on a lattice and searches for
the move sequence that needs the fewest SWAP gates.

The graph comes from a CSV edge list (one header row, two node columns), from
--regular N (a random 3-regular graph on N nodes), or from --nodes alone (no
interactions).`,
		Example: `  # Route a graph file on the heavy-hex lattice
  qswap solve graph.csv

  # Random 3-regular graph on 40 nodes, hex lattice, 4 workers
  qswap solve --regular 40 --lattice hex --workers 4

  # Save the solution and print every move
  qswap solve graph.csv -o solution.json --moves`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := configure(cmd, func(cfg *Config) []any {
				return []any{&cfg.Solve, &cfg.Cache}
			}); err != nil {
				return err
			}
			return c.runSolve(cmd.Context(), flags, args)
		},
	}

	cmd.Flags().IntVarP(&flags.nodes, "nodes", "n", 0, "node count (default: inferred from the edge list)")
	cmd.Flags().IntVar(&flags.regular, "regular", 0, "generate a random 3-regular graph with this many nodes")
	cmd.Flags().StringVarP(&flags.lattice, "lattice", "a", string(lattice.DefaultTopology), "lattice topology: heavy-hex or hex")
	cmd.Flags().IntVarP(&flags.iterations, "iterations", "i", pipeline.DefaultIterations, "number of routing trials")
	cmd.Flags().Float64Var(&flags.entangleScaler, "entangle-scaler", 0, "max unresolved interactions per interaction for a starting placement (default: per lattice)")
	cmd.Flags().Float64Var(&flags.distanceScaler, "distance-scaler", 0, "max total distance per interaction for a starting placement (default: per lattice)")
	cmd.Flags().BoolVar(&flags.noTruncate, "no-truncate", false, "finish trials that can no longer beat the best")
	cmd.Flags().Uint64Var(&flags.seed, "seed", pipeline.DefaultSeed, "random seed")
	cmd.Flags().IntVar(&flags.maxAttempts, "max-attempts", pipeline.DefaultMaxAttempts, "placement attempts per candidate before giving up (-1: unlimited)")
	cmd.Flags().IntVar(&flags.strikeLimit, "strike-limit", pipeline.DefaultStrikeLimit, "refinement steps without improvement before stopping")
	cmd.Flags().IntVar(&flags.workers, "workers", pipeline.DefaultWorkers, "candidates searched in parallel")
	cmd.Flags().StringVarP(&flags.output, "output", "o", "", "write the solution as JSON to this file")
	cmd.Flags().BoolVar(&flags.moves, "moves", false, "print the move list")
	cmd.Flags().BoolVar(&flags.refresh, "refresh", false, "ignore cached solutions")
	cmd.Flags().BoolVar(&flags.tui, "tui", false, "show an interactive progress view")
	flags.cache.register(cmd)
	addConfigFlag(cmd)

	return cmd
}

func (c *CLI) runSolve(ctx context.Context, flags solveFlags, args []string) error {
	runner, err := c.newRunner(ctx, flags.cache)
	if err != nil {
		return err
	}
	defer runner.Close()

	opts := flags.options(args)
	var result *pipeline.Result
	if flags.tui {
		result, err = c.runTUI(ctx, runner, opts)
	} else {
		reporter := newSearchReporter(ctx, opts.Iterations)
		opts.Progress = reporter.onProgress
		result, err = runner.Execute(ctx, opts)
		if result != nil {
			reporter.finish(result.Search)
		}
	}

	if err != nil {
		if result == nil || result.Search == nil || result.Search.Solution == nil {
			return err
		}
		if !stderrors.Is(err, context.Canceled) && !stderrors.Is(err, context.DeadlineExceeded) {
			return err
		}
		printWarning(c.Out, "Search interrupted; showing the best solution so far")
	}

	printSolveSummary(c.Out, result)
	if flags.moves {
		fmt.Fprintln(c.Out)
		fmt.Fprintln(c.Out, renderMoves(result.Search.Solution.Moves))
	}
	if flags.output != "" {
		file := qio.NewSolutionFile(result.Lattice.Name(), result.Graph, result.Search)
		if werr := qio.ExportSolution(file, flags.output); werr != nil {
			return werr
		}
		printFile(c.Out, flags.output)
	}
	return err
}

// printSolveSummary prints the result block shown after a search.
func printSolveSummary(w io.Writer, r *pipeline.Result) {
	sol := r.Search.Solution
	st := r.Search.Stats

	printSuccess(w, "Minimum swaps needed: %s", StyleNumber.Render(fmt.Sprint(sol.SwapCount)))
	printCacheStatus(w, r.Stats.NodeCount, r.Stats.EdgeCount, r.CacheInfo.SolutionHit)
	fmt.Fprintln(w)
	printKeyValue(w, "Lattice", fmt.Sprintf("%s (%d sites)", r.Lattice.Name(), r.Lattice.Size()))
	printKeyValue(w, "Moves", formatCounts(sol.Counts()))
	printKeyValue(w, "Average swaps", fmt.Sprintf("%.3f over %d trials", st.AverageSwaps, st.Completed))
	if st.Abandoned > 0 {
		printKeyValue(w, "Abandoned", fmt.Sprintf("%d trials", st.Abandoned))
	}
	printKeyValue(w, "Attempts", fmt.Sprintf("%d placements for %d candidates", st.Attempts, st.Units))
	printKeyValue(w, "Runtime", st.Duration.Round(time.Millisecond).String())
	printKeyValue(w, "Per trial", perTrial(st.Duration, st.Trials))
}
