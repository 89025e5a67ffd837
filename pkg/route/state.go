package route

import "fmt"

const (
	// Empty marks a lattice site without a qubit.
	Empty = -1
	// Unplaced marks a qubit not yet on the lattice.
	Unplaced = -1
)

// State is the pair of mutually inverse maps between sites and qubits:
// occupancy[site] is the qubit on that site or [Empty]; embedding[qubit] is
// its site or [Unplaced]. Every mutation keeps both maps in step.
type State struct {
	occupancy []int
	embedding []int
}

// NewState returns an all-empty state for the given lattice and qubit counts.
func NewState(sites, qubits int) *State {
	s := &State{occupancy: make([]int, sites), embedding: make([]int, qubits)}
	s.Clear()
	return s
}

// RestoreState rebuilds a state from saved occupancy and embedding arrays
// and checks that they are inverse to each other.
func RestoreState(occupancy, embedding []int) (*State, error) {
	s := &State{
		occupancy: append([]int(nil), occupancy...),
		embedding: append([]int(nil), embedding...),
	}
	if err := s.Verify(); err != nil {
		return nil, err
	}
	return s, nil
}

// Clear removes every qubit from the lattice.
func (s *State) Clear() {
	for i := range s.occupancy {
		s.occupancy[i] = Empty
	}
	for i := range s.embedding {
		s.embedding[i] = Unplaced
	}
}

// Occupant returns the qubit on site, or [Empty].
func (s *State) Occupant(site int) int { return s.occupancy[site] }

// Site returns the site of qubit q, or [Unplaced].
func (s *State) Site(q int) int { return s.embedding[q] }

// Place puts an unplaced qubit on an empty site.
func (s *State) Place(q, site int) error {
	if s.embedding[q] != Unplaced {
		return fmt.Errorf("qubit %d already on site %d: %w", q, s.embedding[q], ErrInvariant)
	}
	if s.occupancy[site] != Empty {
		return fmt.Errorf("site %d already holds qubit %d: %w", site, s.occupancy[site], ErrInvariant)
	}
	s.occupancy[site] = q
	s.embedding[q] = site
	return nil
}

// SwapSites exchanges the contents of two sites. Either may be empty.
func (s *State) SwapSites(a, b int) {
	qa, qb := s.occupancy[a], s.occupancy[b]
	s.occupancy[a], s.occupancy[b] = qb, qa
	if qa != Empty {
		s.embedding[qa] = b
	}
	if qb != Empty {
		s.embedding[qb] = a
	}
}

// Occupancy returns a copy of the site → qubit array.
func (s *State) Occupancy() []int { return append([]int(nil), s.occupancy...) }

// Embedding returns a copy of the qubit → site array.
func (s *State) Embedding() []int { return append([]int(nil), s.embedding...) }

// Clone returns an independent copy.
func (s *State) Clone() *State {
	return &State{occupancy: s.Occupancy(), embedding: s.Embedding()}
}

// CopyFrom overwrites s with o. Both must have the same dimensions.
func (s *State) CopyFrom(o *State) {
	copy(s.occupancy, o.occupancy)
	copy(s.embedding, o.embedding)
}

// Verify checks that occupancy and embedding are exact inverses.
func (s *State) Verify() error {
	for site, q := range s.occupancy {
		if q == Empty {
			continue
		}
		if q < 0 || q >= len(s.embedding) {
			return fmt.Errorf("site %d holds unknown qubit %d: %w", site, q, ErrInvariant)
		}
		if s.embedding[q] != site {
			return fmt.Errorf("site %d holds qubit %d embedded at %d: %w", site, q, s.embedding[q], ErrInvariant)
		}
	}
	for q, site := range s.embedding {
		if site == Unplaced {
			continue
		}
		if site < 0 || site >= len(s.occupancy) || s.occupancy[site] != q {
			return fmt.Errorf("qubit %d embedded at site %d not occupied by it: %w", q, site, ErrInvariant)
		}
	}
	return nil
}
