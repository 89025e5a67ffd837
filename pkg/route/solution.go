package route

import (
	"fmt"
	"slices"
)

// MoveKind tells what a recorded move did.
type MoveKind uint8

const (
	// MoveEntangle resolves an interaction between coupled sites.
	MoveEntangle MoveKind = iota + 1
	// MoveFree resolves an interaction and exchanges the two qubits without
	// charge.
	MoveFree
	// MoveSwap is a chargeable exchange made by the router.
	MoveSwap

	moveDropped MoveKind = 0xff
)

func (k MoveKind) String() string {
	switch k {
	case MoveEntangle:
		return "entangle"
	case MoveFree:
		return "free"
	case MoveSwap:
		return "swap"
	}
	return fmt.Sprintf("MoveKind(%d)", uint8(k))
}

// MarshalText encodes the kind by name.
func (k MoveKind) MarshalText() ([]byte, error) {
	switch k {
	case MoveEntangle, MoveFree, MoveSwap:
		return []byte(k.String()), nil
	}
	return nil, fmt.Errorf("invalid move kind %d", uint8(k))
}

// UnmarshalText accepts the kind names and the single-letter tags "e", "g"
// (entangle), "f" and "s".
func (k *MoveKind) UnmarshalText(b []byte) error {
	switch string(b) {
	case "entangle", "e", "g":
		*k = MoveEntangle
	case "free", "f":
		*k = MoveFree
	case "swap", "s":
		*k = MoveSwap
	default:
		return fmt.Errorf("unknown move kind %q", b)
	}
	return nil
}

// Move is one step of a solution. A and B are logical qubits (B may be
// [Empty] for a router swap into a free site); SiteA and SiteB are the sites
// they occupied when the move was made.
type Move struct {
	Kind  MoveKind `json:"kind"`
	A     int      `json:"a"`
	B     int      `json:"b"`
	SiteA int      `json:"site_a"`
	SiteB int      `json:"site_b"`
}

func (m Move) String() string {
	return fmt.Sprintf("%s %d@%d %d@%d", m.Kind, m.A, m.SiteA, m.B, m.SiteB)
}

// Solution is the best trial found by [Search]: its chargeable swap count,
// its ordered moves, and the placement it started from.
type Solution struct {
	SwapCount        int    `json:"swap_count"`
	Moves            []Move `json:"moves"`
	InitialOccupancy []int  `json:"initial_occupancy"`
	InitialEmbedding []int  `json:"initial_embedding"`
}

// MoveCounts tallies a solution's moves by kind.
type MoveCounts struct {
	Entangle int `json:"entangle"`
	Free     int `json:"free"`
	Swap     int `json:"swap"`
}

// Counts tallies the moves by kind.
func (s *Solution) Counts() MoveCounts {
	var c MoveCounts
	for _, m := range s.Moves {
		switch m.Kind {
		case MoveEntangle:
			c.Entangle++
		case MoveFree:
			c.Free++
		case MoveSwap:
			c.Swap++
		}
	}
	return c
}

// Clone returns a deep copy.
func (s *Solution) Clone() *Solution {
	if s == nil {
		return nil
	}
	return &Solution{
		SwapCount:        s.SwapCount,
		Moves:            slices.Clone(s.Moves),
		InitialOccupancy: slices.Clone(s.InitialOccupancy),
		InitialEmbedding: slices.Clone(s.InitialEmbedding),
	}
}

// Replay applies sol to its initial placement on p and checks every move:
// both qubits must sit on the recorded sites, the sites must be coupled, and
// entangle or free moves must consume a pending interaction. At the end no
// interaction may be pending and the swap moves must match SwapCount. It
// returns the final placement.
func Replay(p *Problem, sol *Solution) (*State, error) {
	if len(sol.InitialOccupancy) != p.lattice.Size() || len(sol.InitialEmbedding) != p.Qubits() {
		return nil, fmt.Errorf("placement covers %d sites and %d qubits, want %d and %d: %w",
			len(sol.InitialOccupancy), len(sol.InitialEmbedding), p.lattice.Size(), p.Qubits(), ErrReplay)
	}
	st, err := RestoreState(sol.InitialOccupancy, sol.InitialEmbedding)
	if err != nil {
		return nil, fmt.Errorf("initial placement: %w", err)
	}
	for q, site := range sol.InitialEmbedding {
		if site == Unplaced {
			return nil, fmt.Errorf("qubit %d not placed: %w", q, ErrReplay)
		}
	}
	pending := p.template.Clone()
	swaps := 0
	for i, m := range sol.Moves {
		if m.SiteA < 0 || m.SiteA >= p.lattice.Size() || m.SiteB < 0 || m.SiteB >= p.lattice.Size() {
			return nil, fmt.Errorf("move %d (%s): site out of range: %w", i, m, ErrReplay)
		}
		if st.Occupant(m.SiteA) != m.A || st.Occupant(m.SiteB) != m.B {
			return nil, fmt.Errorf("move %d (%s): found %d@%d %d@%d: %w",
				i, m, st.Occupant(m.SiteA), m.SiteA, st.Occupant(m.SiteB), m.SiteB, ErrReplay)
		}
		if !p.lattice.Adjacent(m.SiteA, m.SiteB) {
			return nil, fmt.Errorf("move %d (%s): sites not coupled: %w", i, m, ErrReplay)
		}
		switch m.Kind {
		case MoveEntangle, MoveFree:
			if !pending.Remove(m.A, m.B) {
				return nil, fmt.Errorf("move %d (%s): no pending interaction: %w", i, m, ErrReplay)
			}
			if m.Kind == MoveFree {
				st.SwapSites(m.SiteA, m.SiteB)
			}
		case MoveSwap:
			st.SwapSites(m.SiteA, m.SiteB)
			swaps++
		default:
			return nil, fmt.Errorf("move %d: kind %d: %w", i, m.Kind, ErrReplay)
		}
	}
	if n := pending.Len(); n > 0 {
		return nil, fmt.Errorf("%d interactions left unresolved: %w", n, ErrReplay)
	}
	if swaps != sol.SwapCount {
		return nil, fmt.Errorf("replayed %d swaps, recorded %d: %w", swaps, sol.SwapCount, ErrReplay)
	}
	return st, nil
}
