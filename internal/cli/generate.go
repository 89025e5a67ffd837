package cli

import (
	"math/rand/v2"

	"github.com/spf13/cobra"

	"github.com/matzehuels/qswap/pkg/errors"
	qio "github.com/matzehuels/qswap/pkg/io"
	"github.com/matzehuels/qswap/pkg/pipeline"
	"github.com/matzehuels/qswap/pkg/qubo"
)

// generateCommand creates the generate command.
func (c *CLI) generateCommand() *cobra.Command {
	var (
		nodes  int
		degree int
		seed   uint64
		output string
	)

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Write a random regular interaction graph as an edge list",
		Example: `  qswap generate --regular 40 -o graph.csv
  qswap generate --regular 12 --seed 7`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if nodes <= 0 {
				return errors.New(errors.ErrCodeInvalidInput, "--regular must be positive")
			}
			rng := rand.New(rand.NewPCG(seed, seed^0xdeadbeef))
			g, err := qubo.RandomRegular(nodes, degree, rng)
			if err != nil {
				return errors.Wrap(errors.ErrCodeInvalidInput, err, "generate graph")
			}
			if output == "" {
				return qio.WriteEdgeList(g, c.Out)
			}
			if err := qio.ExportEdgeList(g, output); err != nil {
				return err
			}
			printSuccess(c.Out, "Generated %d nodes, %d edges", g.NodeCount(), g.EdgeCount())
			printFile(c.Out, output)
			return nil
		},
	}

	cmd.Flags().IntVar(&nodes, "regular", 0, "number of nodes")
	cmd.Flags().IntVar(&degree, "degree", pipeline.RegularDegree, "degree of every node")
	cmd.Flags().Uint64Var(&seed, "seed", pipeline.DefaultSeed, "random seed")
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default: stdout)")
	_ = cmd.MarkFlagRequired("regular")

	return cmd
}
