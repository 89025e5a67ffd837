// Package route places logical qubits on a physical lattice and inserts the
// swaps needed to bring every interacting pair onto coupled sites.
//
// A [Problem] binds a classified interaction graph to a lattice. A [Trial]
// runs one routing attempt on it:
//
//  1. [Trial.PlaceInitial] snakes the non-chain qubits over sites 0, 1, 2, ...
//  2. [Trial.PlaceChains] hangs every chain off its anchor.
//  3. [Trial.Refine] hill-climbs the placement by pairwise exchanges.
//  4. [Trial.Resolve] consumes every interaction whose qubits are coupled,
//     exchanging a pair for free when that shortens the remaining distance.
//  5. [Trial.RouteNext] walks the nearest pending pair together with
//     chargeable swaps, and Resolve runs again until nothing is pending.
//
// [Search] repeats steps 1 to 4 until a placement passes the acceptance
// thresholds, runs a batch of routing trials from it, and keeps the trial
// with the fewest swaps as a [Solution]. [Replay] checks a solution
// against its problem.
//
// Every random choice comes from a PCG stream derived from [Options.Seed],
// so a search is reproducible regardless of [Options.Workers].
package route
