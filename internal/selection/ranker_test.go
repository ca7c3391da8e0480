package selection

import (
	"fmt"
	"testing"
)

func float64Ptr(v float64) *float64 { return &v }

func candidate(id string, aesthetic, sharpness float64) Candidate {
	return Candidate{PhotoID: id, Aesthetic: float64Ptr(aesthetic), Sharpness: sharpness}
}

func TestTopCount(t *testing.T) {
	tests := []struct {
		n    int
		pct  float64
		want int
	}{
		{0, 20, 0},
		{1, 20, 1},
		{4, 20, 1},
		{5, 20, 1},
		{10, 20, 2},
		{10, 25, 2},
		{10, 100, 10},
		{3, 1, 1},
		{1000, 0.5, 5},
	}
	for _, tt := range tests {
		if got := TopCount(tt.n, tt.pct); got != tt.want {
			t.Errorf("TopCount(%d, %v) = %d, want %d", tt.n, tt.pct, got, tt.want)
		}
	}
}

func TestSelectPicked_Intersection(t *testing.T) {
	// Ten candidates, 20% -> k=2 per axis. Aesthetic top two are a and
	// b; sharpness top two are a and c. Only a sits in both.
	candidates := []Candidate{
		candidate("a", 6.0, 9000),
		candidate("b", 5.9, 7000),
		candidate("c", 5.0, 8900),
		candidate("d", 4.9, 7100),
		candidate("e", 4.9, 7200),
		candidate("f", 4.8, 7300),
		candidate("g", 4.8, 7400),
		candidate("h", 4.8, 7500),
		candidate("i", 4.8, 7600),
		candidate("j", 4.8, 7700),
	}

	picked := SelectPicked(candidates, 20)
	if len(picked) != 1 || !picked["a"] {
		t.Errorf("picked = %v, want only a", picked)
	}
}

// Inverse correlation between the axes can leave the intersection empty.
func TestSelectPicked_DisjointAxesYieldEmptySet(t *testing.T) {
	candidates := []Candidate{
		candidate("a", 6.0, 7000),
		candidate("b", 5.5, 7100),
		candidate("c", 5.0, 7200),
		candidate("d", 4.5, 7300),
		candidate("e", 4.0, 7400),
	}

	picked := SelectPicked(candidates, 20)
	if len(picked) != 0 {
		t.Errorf("picked = %v, want empty set", picked)
	}
}

func TestSelectPicked_SubsetAndBounded(t *testing.T) {
	candidates := []Candidate{
		candidate("p1", 5.0, 8000),
		candidate("p2", 5.1, 8100),
		candidate("p3", 5.2, 8200),
		candidate("p4", 5.3, 8300),
		candidate("p5", 5.4, 8400),
		candidate("p6", 5.5, 8500),
	}
	ids := make(map[string]bool, len(candidates))
	for _, c := range candidates {
		ids[c.PhotoID] = true
	}

	for _, pct := range []float64{1, 10, 20, 50, 100} {
		picked := SelectPicked(candidates, pct)
		k := TopCount(len(candidates), pct)
		if len(picked) > k {
			t.Errorf("pct %v: %d picked, max %d", pct, len(picked), k)
		}
		for id := range picked {
			if !ids[id] {
				t.Errorf("pct %v: picked unknown photo %q", pct, id)
			}
		}
	}
}

func TestSelectPicked_SingleCandidate(t *testing.T) {
	picked := SelectPicked([]Candidate{candidate("only", 5.0, 8000)}, 20)
	if len(picked) != 1 || !picked["only"] {
		t.Errorf("picked = %v, want the sole candidate", picked)
	}
}

func TestSelectPicked_Empty(t *testing.T) {
	if picked := SelectPicked(nil, 20); len(picked) != 0 {
		t.Errorf("picked = %v, want empty", picked)
	}
}

// Candidates without an aesthetic score cannot be picked but still
// widen the population k is computed from.
func TestSelectPicked_NilAestheticCountsTowardPopulation(t *testing.T) {
	candidates := []Candidate{
		candidate("a", 6.0, 9000),
		candidate("b", 5.9, 8900),
		{PhotoID: "c", Aesthetic: nil, Sharpness: 9999},
	}
	// n=3, 67% -> k=2. Sharpness top two are c and a; aesthetic top two
	// are a and b. Only a intersects; c is shut out despite leading on
	// sharpness.
	picked := SelectPicked(candidates, 67)
	if picked["c"] {
		t.Error("candidate without aesthetic score must never be picked")
	}
	if !picked["a"] {
		t.Errorf("picked = %v, want a", picked)
	}

	onlyNil := []Candidate{
		{PhotoID: "x", Aesthetic: nil, Sharpness: 100},
		{PhotoID: "y", Aesthetic: nil, Sharpness: 200},
	}
	if picked := SelectPicked(onlyNil, 50); len(picked) != 0 {
		t.Errorf("picked = %v, want empty when no candidate has an aesthetic score", picked)
	}
}

// Equal scores at the boundary resolve by photo ID, so shuffled input
// orders produce the identical picked set.
func TestSelectPicked_TieBreakDeterministic(t *testing.T) {
	build := func(order []int) []Candidate {
		base := []Candidate{
			candidate("p1", 5.0, 8000),
			candidate("p2", 5.0, 8000),
			candidate("p3", 5.0, 8000),
			candidate("p4", 5.0, 8000),
		}
		out := make([]Candidate, len(order))
		for i, idx := range order {
			out[i] = base[idx]
		}
		return out
	}

	want := SelectPicked(build([]int{0, 1, 2, 3}), 50)
	if len(want) != 2 || !want["p1"] || !want["p2"] {
		t.Fatalf("picked = %v, want p1 and p2 by ID tie-break", want)
	}

	orders := [][]int{{3, 2, 1, 0}, {1, 3, 0, 2}, {2, 0, 3, 1}}
	for _, order := range orders {
		got := SelectPicked(build(order), 50)
		if fmt.Sprint(got) != fmt.Sprint(want) {
			t.Errorf("order %v: picked = %v, want %v", order, got, want)
		}
	}
}
