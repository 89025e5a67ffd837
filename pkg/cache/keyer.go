package cache

// Keyer generates cache keys.
type Keyer interface {
	// SolutionKey identifies a search result for a graph on a lattice.
	SolutionKey(graphHash, topology string, opts SolutionKeyOpts) string
}

// SolutionKeyOpts lists the solver options that change a search result.
// Workers is omitted: results do not depend on it.
type SolutionKeyOpts struct {
	Iterations     int     `json:"iterations"`
	EntangleScaler float64 `json:"entangle_scaler"`
	DistanceScaler float64 `json:"distance_scaler"`
	NoTruncate     bool    `json:"no_truncate"`
	Seed           uint64  `json:"seed"`
	MaxAttempts    int     `json:"max_attempts"`
	StrikeLimit    int     `json:"strike_limit"`
}

// DefaultKeyer produces unscoped keys of the form "solution:<sha256>".
type DefaultKeyer struct{}

// NewDefaultKeyer returns the default keyer.
func NewDefaultKeyer() Keyer { return DefaultKeyer{} }

// SolutionKey hashes the graph hash, topology and options together.
func (DefaultKeyer) SolutionKey(graphHash, topology string, opts SolutionKeyOpts) string {
	return hashKey("solution", graphHash, topology, opts)
}
