// Package selection computes the picked subset of a run: the 3-star
// photos that rank in the top K% on both the aesthetic and the
// sharpness axis at once. Requiring dual-criterion agreement instead
// of a weighted composite keeps a single strong axis from carrying a
// weak photo; the intersection is deliberately conservative and may be
// empty.
package selection

import "sort"

// Candidate is one 3-star photo competing for the picked flag.
// Aesthetic is nil when the quality scorer produced nothing for the
// photo; such a candidate can never enter the aesthetic top slice and
// therefore can never be picked, but it still counts toward the
// population size that k is derived from.
type Candidate struct {
	PhotoID   string
	Aesthetic *float64
	Sharpness float64
}

// TopCount returns how many photos each axis contributes:
// max(1, floor(n * pct / 100)).
func TopCount(n int, topPercentage float64) int {
	if n == 0 {
		return 0
	}
	k := int(float64(n) * topPercentage / 100.0)
	if k < 1 {
		k = 1
	}
	return k
}

// SelectPicked returns the identifiers of candidates that sit in the
// top K% by aesthetic score and simultaneously in the top K% by
// normalized sharpness. The result is a subset of the input and has at
// most k members. Ties at the k-th boundary resolve by ascending
// PhotoID, so identical input always yields the identical set.
func SelectPicked(candidates []Candidate, topPercentage float64) map[string]bool {
	picked := make(map[string]bool)
	if len(candidates) == 0 {
		return picked
	}

	k := TopCount(len(candidates), topPercentage)

	withAesthetic := make([]Candidate, 0, len(candidates))
	for _, c := range candidates {
		if c.Aesthetic != nil {
			withAesthetic = append(withAesthetic, c)
		}
	}
	if len(withAesthetic) == 0 {
		return picked
	}

	sort.Slice(withAesthetic, func(i, j int) bool {
		a, b := withAesthetic[i], withAesthetic[j]
		if *a.Aesthetic != *b.Aesthetic {
			return *a.Aesthetic > *b.Aesthetic
		}
		return a.PhotoID < b.PhotoID
	})

	bySharpness := make([]Candidate, len(candidates))
	copy(bySharpness, candidates)
	sort.Slice(bySharpness, func(i, j int) bool {
		a, b := bySharpness[i], bySharpness[j]
		if a.Sharpness != b.Sharpness {
			return a.Sharpness > b.Sharpness
		}
		return a.PhotoID < b.PhotoID
	})

	aestheticTop := make(map[string]bool, k)
	for _, c := range topSlice(withAesthetic, k) {
		aestheticTop[c.PhotoID] = true
	}

	for _, c := range topSlice(bySharpness, k) {
		if aestheticTop[c.PhotoID] {
			picked[c.PhotoID] = true
		}
	}

	return picked
}

func topSlice(cs []Candidate, k int) []Candidate {
	if k > len(cs) {
		k = len(cs)
	}
	return cs[:k]
}
