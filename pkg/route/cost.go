package route

// MoveCost is the change in q's summed distance to its pending partners if
// q moved from start to end. A partner found exactly on end is the qubit q
// trades places with, so its new distance is the start-end span instead of
// zero.
func (t *Trial) MoveCost(q, start, end int) int {
	d := t.p.dist
	span := d.At(start, end)
	delta := 0
	for _, p := range t.pending.Partners(q) {
		ps := t.state.Site(p)
		after := d.At(end, ps)
		if after == 0 {
			after = span
		}
		delta += after - d.At(start, ps)
	}
	return delta
}

// SwapCost is the change in total pending distance if q1 moved to end while
// q2, the current occupant of end or [Empty], moved to q1's site.
func (t *Trial) SwapCost(q1, q2, end int) int {
	start := t.state.Site(q1)
	delta := t.MoveCost(q1, start, end)
	if q2 != Empty {
		delta += t.MoveCost(q2, end, start)
	}
	return delta
}

// TotalDistance sums the lattice distance of every pending interaction.
func (t *Trial) TotalDistance() int {
	total := 0
	for pr := range t.pending.All() {
		total += t.p.dist.At(t.state.Site(pr.A), t.state.Site(pr.B))
	}
	return total
}
