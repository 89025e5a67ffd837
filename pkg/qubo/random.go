package qubo

import (
	"errors"
	"fmt"
	"math/rand/v2"
)

var (
	// ErrInvalidRegular is returned by [RandomRegular] for impossible
	// parameters: n*d odd, d >= n or negative values.
	ErrInvalidRegular = errors.New("invalid regular graph parameters")

	// ErrConstructFailed is returned by [RandomRegular] when no simple pairing
	// was found within the attempt limit.
	ErrConstructFailed = errors.New("random regular construction failed")
)

// maxPairingAttempts bounds the stub reshuffles in RandomRegular. A simple
// 3-regular pairing succeeds with probability about e^-2 per attempt.
const maxPairingAttempts = 1000

// Empty returns a graph of n nodes with no interactions.
func Empty(n int) *Graph { return New(n) }

// RandomRegular builds a random simple d-regular graph on n nodes by stub
// matching. Each attempt shuffles the n*d stubs, pairs them consecutively and
// accepts the pairing only if it has no self-loop and no repeated pair.
// Results are deterministic for a given rng state.
func RandomRegular(n, d int, rng *rand.Rand) (*Graph, error) {
	if n < 1 || d < 0 || d >= n || (n*d)%2 != 0 {
		return nil, fmt.Errorf("n=%d d=%d: %w", n, d, ErrInvalidRegular)
	}
	g := New(n)
	if d == 0 {
		return g, nil
	}

	stubs := make([]int, 0, n*d)
	for i := range n {
		for range d {
			stubs = append(stubs, i)
		}
	}

	seen := make(map[[2]int]struct{}, len(stubs)/2)
	for range maxPairingAttempts {
		rng.Shuffle(len(stubs), func(i, j int) { stubs[i], stubs[j] = stubs[j], stubs[i] })
		clear(seen)
		ok := true
		for i := 0; i < len(stubs); i += 2 {
			a, b := stubs[i], stubs[i+1]
			if a == b {
				ok = false
				break
			}
			k := key(a, b)
			if _, dup := seen[k]; dup {
				ok = false
				break
			}
			seen[k] = struct{}{}
		}
		if !ok {
			continue
		}
		for i := 0; i < len(stubs); i += 2 {
			if err := g.AddEdge(stubs[i], stubs[i+1]); err != nil {
				return nil, err
			}
		}
		return g, nil
	}
	return nil, fmt.Errorf("n=%d d=%d after %d attempts: %w", n, d, maxPairingAttempts, ErrConstructFailed)
}
