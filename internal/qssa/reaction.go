package qssa

import "fmt"

// NumReactions is the number of reaction channels in the network.
const NumReactions = 6

// Delta is the integer change a reaction applies to every species, indexed
// like Counts.
type Delta [NumSpecies]int

// Reaction describes one channel of the network.
type Reaction struct {
	Index int
	ID    string
	Name  string
	Delta Delta
}

// Stoichiometry is the fixed reaction-indexed change table over
// (A, B, Aj, Bj, C, Cj, P, D).
var Stoichiometry = [NumReactions]Delta{
	//  A   B  Aj  Bj   C  Cj   P   D
	{-1, -1, +1, 0, 0, 0, 0, 0},
	{0, 0, -1, +1, -1, 0, 0, 0},
	{0, +1, 0, -1, -2, 0, +1, 0},
	{+1, -1, 0, 0, 0, +1, -1, 0},
	{-1, +1, 0, 0, 0, -1, +1, 0},
	{0, 0, 0, 0, 0, -1, -1, +1},
}

var standardReactions = [NumReactions]Reaction{
	{Index: 0, ID: "r1", Name: "A + B -> Aj"},
	{Index: 1, ID: "r2", Name: "Aj + C -> Bj"},
	{Index: 2, ID: "r3", Name: "Bj + 2C -> B + P"},
	{Index: 3, ID: "r4", Name: "P + B -> A + Cj"},
	{Index: 4, ID: "r5", Name: "Cj + A -> B + P"},
	{Index: 5, ID: "r6", Name: "P + Cj -> D"},
}

func init() {
	for i := range standardReactions {
		standardReactions[i].Delta = Stoichiometry[i]
	}
}

// ApplyReaction returns counts with reaction k's delta added. An index
// outside [0, NumReactions) is a programming error and panics.
func ApplyReaction(counts Counts, k int) Counts {
	d := deltaFor(k)
	for i, v := range d {
		counts[i] += float64(v)
	}
	return counts
}

// RevertReaction undoes ApplyReaction for the same index.
func RevertReaction(counts Counts, k int) Counts {
	d := deltaFor(k)
	for i, v := range d {
		counts[i] -= float64(v)
	}
	return counts
}

func deltaFor(k int) Delta {
	if k < 0 || k >= NumReactions {
		panic(fmt.Sprintf("qssa: reaction index %d out of range [0,%d)", k, NumReactions))
	}
	return Stoichiometry[k]
}
