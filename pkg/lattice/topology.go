package lattice

import (
	"embed"
	"fmt"
	"strings"
	"sync"

	"github.com/matzehuels/qswap/pkg/errors"
)

// Topology names one of the built-in lattices.
type Topology string

const (
	// HeavyHex is a honeycomb with an extra site on every coupler; every
	// site has degree 2 or 3.
	HeavyHex Topology = "heavy-hex"
	// Hex is a plain honeycomb; bulk sites have degree 3.
	Hex Topology = "hex"
)

// DefaultTopology is used when no topology is configured.
const DefaultTopology = HeavyHex

// Topologies lists the built-in topologies in display order.
var Topologies = []Topology{HeavyHex, Hex}

// Scalers are the candidate acceptance factors tuned per topology. A
// candidate embedding is accepted when, after the initial resolver pass,
// remaining <= Entangle*E and remaining distance < Distance*E, E being the
// number of interactions.
type Scalers struct {
	Entangle float64 `json:"entangle"`
	Distance float64 `json:"distance"`
}

var scalers = map[Topology]Scalers{
	HeavyHex: {Entangle: 1.5, Distance: 2.2},
	Hex:      {Entangle: 0.5, Distance: 1.5},
}

// Scalers returns the tuned acceptance factors for t.
func (t Topology) Scalers() Scalers { return scalers[t] }

// Valid reports whether t is a built-in topology.
func (t Topology) Valid() bool {
	_, ok := scalers[t]
	return ok
}

// ParseTopology accepts the canonical names plus the short forms used by
// older tooling ("HHex", "Heavy Hex", "heavy_hex", "Hex").
func ParseTopology(s string) (Topology, error) {
	norm := strings.ToLower(strings.TrimSpace(s))
	norm = strings.NewReplacer("_", "", "-", "", " ", "").Replace(norm)
	switch norm {
	case "", "heavyhex", "hhex":
		return HeavyHex, nil
	case "hex", "hexagonal":
		return Hex, nil
	}
	return "", errors.New(errors.ErrCodeInvalidTopology, "unknown lattice topology %q (must be one of: heavy-hex, hex)", s)
}

//go:embed data/*.csv
var tables embed.FS

var files = map[Topology][2]string{
	HeavyHex: {"data/heavy_hex_nodes.csv", "data/heavy_hex_edges.csv"},
	Hex:      {"data/hex_nodes.csv", "data/hex_edges.csv"},
}

var (
	loadMu sync.Mutex
	loaded = map[Topology]*Graph{}
)

// Load returns the built-in lattice for t. Lattices are parsed once and
// shared; they are immutable.
func Load(t Topology) (*Graph, error) {
	if !t.Valid() {
		return nil, errors.New(errors.ErrCodeInvalidTopology, "unknown lattice topology %q", string(t))
	}
	loadMu.Lock()
	defer loadMu.Unlock()
	if g, ok := loaded[t]; ok {
		return g, nil
	}

	paths := files[t]
	nodes, err := tables.Open(paths[0])
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", paths[0], err)
	}
	defer nodes.Close()
	edges, err := tables.Open(paths[1])
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", paths[1], err)
	}
	defer edges.Close()

	g, err := ReadTables(string(t), nodes, edges)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", t, err)
	}
	loaded[t] = g
	return g, nil
}
