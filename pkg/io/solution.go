package io

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/matzehuels/qswap/pkg/errors"
	"github.com/matzehuels/qswap/pkg/qubo"
	"github.com/matzehuels/qswap/pkg/route"
)

// SolutionFile is the on-disk form of a solved routing.
type SolutionFile struct {
	Lattice          string       `json:"lattice"`
	Nodes            int          `json:"nodes"`
	Edges            []qubo.Edge  `json:"edges"`
	SwapCount        int          `json:"swap_count"`
	AverageSwaps     float64      `json:"average_swaps"`
	Moves            []route.Move `json:"moves"`
	InitialOccupancy []int        `json:"initial_occupancy"`
	InitialEmbedding []int        `json:"initial_embedding"`
	Stats            *route.Stats `json:"stats,omitempty"`
}

// NewSolutionFile packages a search result with the graph and lattice it
// was computed for.
func NewSolutionFile(lattice string, g *qubo.Graph, res *route.Result) *SolutionFile {
	sol := res.Solution
	stats := res.Stats
	return &SolutionFile{
		Lattice:          lattice,
		Nodes:            g.NodeCount(),
		Edges:            g.Edges(),
		SwapCount:        sol.SwapCount,
		AverageSwaps:     stats.AverageSwaps,
		Moves:            sol.Moves,
		InitialOccupancy: sol.InitialOccupancy,
		InitialEmbedding: sol.InitialEmbedding,
		Stats:            &stats,
	}
}

// Graph rebuilds the interaction graph.
func (f *SolutionFile) Graph() (*qubo.Graph, error) {
	g := qubo.New(f.Nodes)
	for i, e := range f.Edges {
		if err := errors.ValidateEdge(e.A, e.B, f.Nodes, 0); err != nil {
			return nil, fmt.Errorf("edge %d: %w", i, err)
		}
		if err := g.AddEdge(e.A, e.B); err != nil {
			return nil, errors.Wrap(errors.ErrCodeMalformedInput, err, "edge %d", i)
		}
	}
	return g, nil
}

// Solution returns the routing part of the file.
func (f *SolutionFile) Solution() *route.Solution {
	return &route.Solution{
		SwapCount:        f.SwapCount,
		Moves:            f.Moves,
		InitialOccupancy: f.InitialOccupancy,
		InitialEmbedding: f.InitialEmbedding,
	}
}

// WriteSolution encodes f as indented JSON.
func WriteSolution(f *SolutionFile, w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(f); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return nil
}

// ExportSolution writes f to a JSON file at path.
func ExportSolution(f *SolutionFile, path string) error {
	out, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer out.Close()
	return WriteSolution(f, out)
}

// ReadSolution decodes a solution file. It checks the document's shape;
// use [route.Replay] to check the moves themselves.
func ReadSolution(r io.Reader) (*SolutionFile, error) {
	var f SolutionFile
	if err := json.NewDecoder(r).Decode(&f); err != nil {
		return nil, errors.Wrap(errors.ErrCodeMalformedInput, err, "decode solution")
	}
	if f.Lattice == "" {
		return nil, errors.New(errors.ErrCodeMalformedInput, "solution has no lattice")
	}
	if f.Nodes < 0 || len(f.InitialEmbedding) != f.Nodes {
		return nil, errors.New(errors.ErrCodeMalformedInput, "solution places %d qubits, declares %d", len(f.InitialEmbedding), f.Nodes)
	}
	return &f, nil
}

// ImportSolution reads a solution file from disk.
func ImportSolution(path string) (*SolutionFile, error) {
	if err := errors.ValidateFilePath(path); err != nil {
		return nil, err
	}
	in, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "open %s", path)
	}
	defer in.Close()
	return ReadSolution(in)
}
