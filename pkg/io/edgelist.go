package io

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/matzehuels/qswap/pkg/errors"
	"github.com/matzehuels/qswap/pkg/qubo"
)

// EdgeListHeader is the header row written by [WriteEdgeList].
var EdgeListHeader = []string{"Node1", "Node2"}

// ReadEdgeList parses an interaction graph from a CSV edge table. nodes is
// the node count; zero infers it as the largest index plus one.
func ReadEdgeList(r io.Reader, nodes int) (*qubo.Graph, error) {
	if nodes < 0 {
		return nil, errors.New(errors.ErrCodeInvalidInput, "node count must not be negative, got %d", nodes)
	}
	if nodes > qubo.MaxNodes {
		return nil, errors.New(errors.ErrCodeInvalidInput, "node count %d exceeds the limit of %d", nodes, qubo.MaxNodes)
	}
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	// row keeps the CSV line an edge came from for error messages.
	type row struct {
		edge qubo.Edge
		line int
	}
	var rows []row
	maxIndex, maxLine := -1, 0
	for header := true; ; header = false {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeMalformedInput, err, "read edge list")
		}
		if header {
			continue
		}
		line, _ := cr.FieldPos(0)
		if len(rec) == 1 && strings.TrimSpace(rec[0]) == "" {
			continue
		}
		if len(rec) < 2 {
			return nil, errors.New(errors.ErrCodeMalformedInput, "row %d: want 2 columns, got %d", line, len(rec))
		}
		a, errA := strconv.Atoi(strings.TrimSpace(rec[0]))
		b, errB := strconv.Atoi(strings.TrimSpace(rec[1]))
		if errA != nil || errB != nil {
			return nil, errors.New(errors.ErrCodeMalformedInput, "row %d: non-integer node index %q", line, rec[:2])
		}
		rows = append(rows, row{edge: qubo.Edge{A: a, B: b}, line: line})
		if max(a, b) > maxIndex {
			maxIndex, maxLine = max(a, b), line
		}
	}
	if nodes == 0 {
		if maxIndex >= qubo.MaxNodes {
			return nil, errors.New(errors.ErrCodeMalformedInput,
				"row %d: node index %d exceeds the limit of %d nodes", maxLine, maxIndex, qubo.MaxNodes)
		}
		nodes = maxIndex + 1
	}

	g := qubo.New(nodes)
	for _, rw := range rows {
		if err := errors.ValidateEdge(rw.edge.A, rw.edge.B, nodes, rw.line); err != nil {
			return nil, err
		}
		if err := g.AddEdge(rw.edge.A, rw.edge.B); err != nil {
			return nil, errors.Wrap(errors.ErrCodeMalformedInput, err, "row %d", rw.line)
		}
	}
	return g, nil
}

// ImportEdgeList reads an edge list from a file.
func ImportEdgeList(path string, nodes int) (*qubo.Graph, error) {
	if err := errors.ValidateFilePath(path); err != nil {
		return nil, err
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "open %s", path)
	}
	defer f.Close()
	g, err := ReadEdgeList(f, nodes)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return g, nil
}

// WriteEdgeList writes g as a CSV edge table with a header row.
func WriteEdgeList(g *qubo.Graph, w io.Writer) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(EdgeListHeader); err != nil {
		return err
	}
	for _, e := range g.Edges() {
		if err := cw.Write([]string{strconv.Itoa(e.A), strconv.Itoa(e.B)}); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// ExportEdgeList writes g to a CSV file at path.
func ExportEdgeList(g *qubo.Graph, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()
	return WriteEdgeList(g, f)
}
