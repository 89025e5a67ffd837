package lattice

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/matzehuels/qswap/pkg/errors"
)

// ReadTables parses a lattice from a node table (index, x, y) and an edge
// table (two site indices). Both tables carry one header row, which is
// skipped. Parse failures are MALFORMED_INPUT errors naming the row.
func ReadTables(name string, nodes, edges io.Reader) (*Graph, error) {
	nodeRows, err := readRows(nodes, 3)
	if err != nil {
		return nil, fmt.Errorf("node table: %w", err)
	}
	sites := make([]Site, 0, len(nodeRows))
	for i, row := range nodeRows {
		id, err := strconv.Atoi(row[0])
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeMalformedInput, err, "node table row %d: bad index", i+2)
		}
		x, err := strconv.ParseFloat(row[1], 64)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeMalformedInput, err, "node table row %d: bad x", i+2)
		}
		y, err := strconv.ParseFloat(row[2], 64)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeMalformedInput, err, "node table row %d: bad y", i+2)
		}
		sites = append(sites, Site{ID: id, X: x, Y: y})
	}

	edgeRows, err := readRows(edges, 2)
	if err != nil {
		return nil, fmt.Errorf("edge table: %w", err)
	}
	couplers := make([]Edge, 0, len(edgeRows))
	for i, row := range edgeRows {
		a, errA := strconv.Atoi(row[0])
		b, errB := strconv.Atoi(row[1])
		if errA != nil || errB != nil {
			return nil, errors.New(errors.ErrCodeMalformedInput, "edge table row %d: bad index %v", i+2, row)
		}
		couplers = append(couplers, Edge{A: a, B: b})
	}

	g, err := New(name, sites, couplers)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeMalformedInput, err, "lattice %s", name)
	}
	return g, nil
}

// ImportTables reads a lattice from two CSV files on disk.
func ImportTables(name, nodesPath, edgesPath string) (*Graph, error) {
	nf, err := os.Open(nodesPath)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "open %s", nodesPath)
	}
	defer nf.Close()
	ef, err := os.Open(edgesPath)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "open %s", edgesPath)
	}
	defer ef.Close()
	return ReadTables(name, nf, ef)
}

// readRows returns all data rows with at least cols fields, trimmed, after
// dropping the header row. Extra columns are ignored.
func readRows(r io.Reader, cols int) ([][]string, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true
	records, err := cr.ReadAll()
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeMalformedInput, err, "read csv")
	}
	if len(records) == 0 {
		return nil, errors.New(errors.ErrCodeMalformedInput, "missing header row")
	}
	rows := make([][]string, 0, len(records)-1)
	for i, rec := range records[1:] {
		if len(rec) == 1 && strings.TrimSpace(rec[0]) == "" {
			continue
		}
		if len(rec) < cols {
			return nil, errors.New(errors.ErrCodeMalformedInput, "row %d: want %d columns, got %d", i+2, cols, len(rec))
		}
		for j := range rec {
			rec[j] = strings.TrimSpace(rec[j])
		}
		rows = append(rows, rec)
	}
	return rows, nil
}
