package cli

import (
	"fmt"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/matzehuels/qswap/pkg/lattice"
)

// latticeCommand creates the lattice command.
func (c *CLI) latticeCommand() *cobra.Command {
	return &cobra.Command{
		Use:       "lattice [topology]",
		Short:     "Describe the built-in lattices",
		Args:      cobra.MaximumNArgs(1),
		ValidArgs: []string{string(lattice.HeavyHex), string(lattice.Hex)},
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				return c.listLattices()
			}
			topo, err := lattice.ParseTopology(args[0])
			if err != nil {
				return err
			}
			l, err := lattice.Load(topo)
			if err != nil {
				return err
			}
			sc := topo.Scalers()
			fmt.Fprintln(c.Out, StyleTitle.Render(string(topo)))
			printKeyValue(c.Out, "Sites", strconv.Itoa(l.Size()))
			printKeyValue(c.Out, "Couplers", strconv.Itoa(l.EdgeCount()))
			printKeyValue(c.Out, "Max degree", strconv.Itoa(maxDegree(l)))
			printKeyValue(c.Out, "Diameter", strconv.Itoa(l.Distances().Diameter()))
			printKeyValue(c.Out, "Entangle", fmt.Sprintf("%g × interactions", sc.Entangle))
			printKeyValue(c.Out, "Distance", fmt.Sprintf("%g × interactions", sc.Distance))
			return nil
		},
	}
}

func (c *CLI) listLattices() error {
	rows := make([][]string, 0, len(lattice.Topologies))
	for _, t := range lattice.Topologies {
		l, err := lattice.Load(t)
		if err != nil {
			return err
		}
		sc := t.Scalers()
		rows = append(rows, []string{
			string(t),
			strconv.Itoa(l.Size()),
			strconv.Itoa(l.EdgeCount()),
			strconv.Itoa(l.Distances().Diameter()),
			fmt.Sprintf("%g / %g", sc.Entangle, sc.Distance),
		})
	}

	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true).Padding(0, 1)
	cell := lipgloss.NewStyle().Padding(0, 1)
	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("Topology", "Sites", "Couplers", "Diameter", "Scalers").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == headerRow {
				return headerStyle
			}
			if col == 0 {
				return cell.Foreground(colorCyan)
			}
			return cell
		})
	fmt.Fprintln(c.Out, t.Render())
	return nil
}

func maxDegree(l *lattice.Graph) int {
	best := 0
	for i := range l.Size() {
		best = max(best, len(l.Neighbors(i)))
	}
	return best
}
