package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	qio "github.com/matzehuels/qswap/pkg/io"
	"github.com/matzehuels/qswap/pkg/lattice"
	"github.com/matzehuels/qswap/pkg/pipeline"
	"github.com/matzehuels/qswap/pkg/route"
)

// verifyCommand creates the verify command.
func (c *CLI) verifyCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "verify <solution.json>",
		Short: "Replay a saved solution and check every move",
		Long: `Verify rebuilds the graph and lattice named in a solution file, replays the
recorded moves from the initial placement, and checks that every move acts on
coupled sites, that every interaction is applied exactly once, and that the
swap count matches.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := loggerFromContext(cmd.Context())
			prog := newProgress(logger)

			file, err := qio.ImportSolution(args[0])
			if err != nil {
				return err
			}
			g, err := file.Graph()
			if err != nil {
				return err
			}
			topo, err := lattice.ParseTopology(file.Lattice)
			if err != nil {
				return err
			}
			l, err := lattice.Load(topo)
			if err != nil {
				return err
			}
			p, err := route.NewProblem(g, l)
			if err != nil {
				return pipeline.Coded(err)
			}

			sol := file.Solution()
			if _, err := route.Replay(p, sol); err != nil {
				printError(c.Out, "Solution is invalid")
				printDetail(c.Out, "%v", err)
				return pipeline.Coded(err)
			}
			prog.done(fmt.Sprintf("Replayed %d moves", len(sol.Moves)))

			printSuccess(c.Out, "Solution is valid: %s swaps", StyleNumber.Render(fmt.Sprint(sol.SwapCount)))
			printKeyValue(c.Out, "Lattice", l.Name())
			printKeyValue(c.Out, "Qubits", strconv.Itoa(g.NodeCount()))
			printKeyValue(c.Out, "Interactions", strconv.Itoa(g.EdgeCount()))
			printKeyValue(c.Out, "Moves", formatCounts(sol.Counts()))
			return nil
		},
	}
}
