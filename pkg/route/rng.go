package route

import "math/rand/v2"

// DefaultSeed is the root seed used when [Options.Seed] is zero.
const DefaultSeed uint64 = 42

// newRand returns a PCG-backed generator for seed.
func newRand(seed uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, seed^0xdeadbeef))
}

// deriveSeed mixes a parent seed and a stream index into an independent
// child seed with the SplitMix64 finalizer. Candidate unit u uses
// deriveSeed(root, u); trial t of that unit uses deriveSeed(unitSeed, t).
func deriveSeed(parent, stream uint64) uint64 {
	x := parent ^ (stream + 0x9e3779b97f4a7c15)
	x += 0x9e3779b97f4a7c15
	x = (x ^ (x >> 30)) * 0xbf58476d1ce4e5b9
	x = (x ^ (x >> 27)) * 0x94d049bb133111eb
	return x ^ (x >> 31)
}
