package qssa

import "testing"

func TestStoichiometry_Table(t *testing.T) {
	tests := []struct {
		k    int
		want Delta
	}{
		{0, Delta{-1, -1, 1, 0, 0, 0, 0, 0}},
		{1, Delta{0, 0, -1, 1, -1, 0, 0, 0}},
		{2, Delta{0, 1, 0, -1, -2, 0, 1, 0}},
		{3, Delta{1, -1, 0, 0, 0, 1, -1, 0}},
		{4, Delta{-1, 1, 0, 0, 0, -1, 1, 0}},
		{5, Delta{0, 0, 0, 0, 0, -1, -1, 1}},
	}
	for _, tt := range tests {
		if Stoichiometry[tt.k] != tt.want {
			t.Errorf("reaction %d: expected %v, got %v", tt.k, tt.want, Stoichiometry[tt.k])
		}
	}
}

func TestApplyReaction_RoundTrip(t *testing.T) {
	start := Counts{500, 500, 3, 2, 99000, 1, 4, 0}
	for k := 0; k < NumReactions; k++ {
		next := ApplyReaction(start, k)
		if next == start {
			t.Errorf("reaction %d left the state unchanged", k)
		}
		if back := RevertReaction(next, k); back != start {
			t.Errorf("reaction %d: round trip gave %v, want %v", k, back, start)
		}
	}
}

func TestApplyReaction_OnlyTouchesDeltaSpecies(t *testing.T) {
	start := Counts{10, 10, 10, 10, 10, 10, 10, 10}
	next := ApplyReaction(start, 5)
	want := Counts{10, 10, 10, 10, 10, 9, 9, 11}
	if next != want {
		t.Errorf("Expected %v, got %v", want, next)
	}
}

func TestApplyReaction_OutOfRangePanics(t *testing.T) {
	for _, k := range []int{-1, NumReactions} {
		func() {
			defer func() {
				if recover() == nil {
					t.Errorf("expected panic for reaction index %d", k)
				}
			}()
			ApplyReaction(Counts{}, k)
		}()
	}
}

func TestStandardNetwork(t *testing.T) {
	n := StandardNetwork()

	if got := len(n.AllSpecies()); got != NumSpecies {
		t.Fatalf("Expected %d species, got %d", NumSpecies, got)
	}
	for i, sp := range n.AllSpecies() {
		if sp.Index != i {
			t.Errorf("species %s has index %d, want %d", sp.Name, sp.Index, i)
		}
	}
	if sp, ok := n.Species(SpeciesCj); !ok || sp.Index != IdxCj {
		t.Errorf("Species(Cj) = %+v, %v", sp, ok)
	}
	if _, ok := n.Species("X"); ok {
		t.Error("Expected unknown species lookup to fail")
	}

	reactions := n.Reactions()
	if len(reactions) != NumReactions {
		t.Fatalf("Expected %d reactions, got %d", NumReactions, len(reactions))
	}
	for k, r := range reactions {
		if r.Delta != Stoichiometry[k] {
			t.Errorf("reaction %s delta %v does not match table row %d", r.ID, r.Delta, k)
		}
	}
	if _, ok := n.Reaction(NumReactions); ok {
		t.Error("Expected out-of-range reaction lookup to fail")
	}
}

func TestCounts_Get(t *testing.T) {
	c := Counts{1, 2, 3, 4, 5, 6, 7, 8}
	if c.Get(SpeciesBj) != 4 || c.Get(SpeciesD) != 8 {
		t.Errorf("unexpected lookups: Bj=%g D=%g", c.Get(SpeciesBj), c.Get(SpeciesD))
	}
	if c.Get("nope") != 0 {
		t.Error("Expected 0 for unknown species")
	}
}
