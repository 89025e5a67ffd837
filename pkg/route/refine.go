package route

// DefaultStrikeLimit is the number of consecutive non-improving samples
// after which [Trial.Refine] stops.
const DefaultStrikeLimit = 50

// Refine hill-climbs the placement: it samples two qubits with replacement
// and swaps their sites when that strictly lowers the total pending
// distance. The streak of non-improving samples resets on every swap and the
// search stops when it reaches strikeLimit. It returns the number of swaps
// made; none of them are chargeable.
func (t *Trial) Refine(strikeLimit int) int {
	n := t.p.Qubits()
	if n == 0 {
		return 0
	}
	swaps, strikes := 0, 0
	for strikes < strikeLimit {
		q1, q2 := t.rng.IntN(n), t.rng.IntN(n)
		s1, s2 := t.state.Site(q1), t.state.Site(q2)
		if t.SwapCost(q1, q2, s2) < 0 {
			t.state.SwapSites(s1, s2)
			swaps++
			strikes = 0
			continue
		}
		strikes++
	}
	return swaps
}
