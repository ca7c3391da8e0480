// Package recompute re-derives ratings and picks for a stored run
// under a new threshold configuration. It replays the classifier and
// the picked ranker over the persisted metrics table; detection and
// quality scoring are never re-invoked and the stored metrics are
// never mutated. The output is a proposed assignment plus a
// statistical diff against the prior one - applying it is the
// caller's decision.
package recompute

import (
	"sort"

	"gonum.org/v1/gonum/stat"

	"superpicky/internal/models"
	"superpicky/internal/rating"
	"superpicky/internal/report"
	"superpicky/internal/selection"
)

// BucketCounts tallies an assignment by rating bucket.
type BucketCounts struct {
	Rejected     int `json:"rejected"`
	ZeroStar     int `json:"zero_star"`
	OneStar      int `json:"one_star"`
	TwoStar      int `json:"two_star"`
	ThreeStar    int `json:"three_star"`
	Picked       int `json:"picked"`
	Unresolvable int `json:"unresolvable"`
}

func (b *BucketCounts) addRating(r int) {
	switch r {
	case models.RatingRejected:
		b.Rejected++
	case models.RatingZero:
		b.ZeroStar++
	case models.RatingOne:
		b.OneStar++
	case models.RatingTwo:
		b.TwoStar++
	case models.RatingThree:
		b.ThreeStar++
	}
}

// SharpnessSummary describes the normalized-sharpness distribution of
// the resolvable records, for calibrating the promote threshold.
type SharpnessSummary struct {
	Mean float64 `json:"mean"`
	P25  float64 `json:"p25"`
	P50  float64 `json:"p50"`
	P75  float64 `json:"p75"`
}

// DiffStats is the preview payload: counts for the proposed
// assignment, counts reconstructed from the stored one, and the
// per-bucket deltas between them.
type DiffStats struct {
	New       BucketCounts     `json:"new"`
	Previous  BucketCounts     `json:"previous"`
	Delta     BucketCounts     `json:"delta"`
	Changed   int              `json:"changed"`
	Sharpness SharpnessSummary `json:"sharpness"`
}

// Recompute classifies every resolvable persisted row with cfg, ranks
// the resulting 3-star subset, and reports the diff against the stored
// assignment. Deterministic: the same rows and config always produce
// the same assignments, so calling it twice is a no-op in effect.
func Recompute(rows []report.Row, cfg models.ThresholdConfig) ([]report.Assignment, DiffStats) {
	var stats DiffStats

	type classified struct {
		row    report.Row
		result models.RatingResult
	}

	resolved := make([]classified, 0, len(rows))
	sharpnessValues := make([]float64, 0, len(rows))

	for _, row := range rows {
		m, ok := resolveMetrics(row)
		if !ok {
			stats.New.Unresolvable++
			continue
		}
		resolved = append(resolved, classified{row: row, result: rating.Classify(m, cfg)})
		sharpnessValues = append(sharpnessValues, m.NormalizedSharpness)

		if row.Rating != nil {
			stats.Previous.addRating(int(*row.Rating))
			if row.Picked {
				stats.Previous.Picked++
			}
		} else {
			stats.Previous.Unresolvable++
		}
	}

	candidates := make([]selection.Candidate, 0, len(resolved))
	for _, c := range resolved {
		if !c.result.Promotable {
			continue
		}
		candidates = append(candidates, selection.Candidate{
			PhotoID:   c.row.PhotoID,
			Aesthetic: c.row.AestheticScore,
			Sharpness: *c.row.NormalizedSharpness,
		})
	}
	picked := selection.SelectPicked(candidates, cfg.PickedTopPercentage)

	assignments := make([]report.Assignment, 0, len(resolved))
	for _, c := range resolved {
		a := report.Assignment{
			PhotoID: c.row.PhotoID,
			Rating:  c.result.Rating,
			Reason:  c.result.Reason,
			Picked:  picked[c.row.PhotoID],
		}
		assignments = append(assignments, a)

		stats.New.addRating(a.Rating)
		if a.Picked {
			stats.New.Picked++
		}
		if c.row.Rating == nil || int(*c.row.Rating) != a.Rating || c.row.Picked != a.Picked {
			stats.Changed++
		}
	}

	stats.Delta = delta(stats.New, stats.Previous)
	stats.Sharpness = summarize(sharpnessValues)

	return assignments, stats
}

// resolveMetrics rebuilds PhotoMetrics from a stored row. A row
// missing any field the classifier depends on is unresolvable: it is
// excluded from the new assignment and from the picked computation,
// and tallied so callers can audit data quality.
func resolveMetrics(row report.Row) (models.PhotoMetrics, bool) {
	if row.PhotoID == "" || row.FoundSubject == nil || row.Confidence == nil || row.NormalizedSharpness == nil {
		return models.PhotoMetrics{}, false
	}

	m := models.PhotoMetrics{
		FoundSubject:        *row.FoundSubject,
		Confidence:          *row.Confidence,
		NormalizedSharpness: *row.NormalizedSharpness,
		AestheticScore:      row.AestheticScore,
		TechnicalScore:      row.TechnicalScore,
	}
	if row.AreaRatio != nil {
		m.AreaRatio = *row.AreaRatio
	}
	if row.CenterX != nil {
		m.CenterX = *row.CenterX
	}
	if row.CenterY != nil {
		m.CenterY = *row.CenterY
	}
	if row.RawSharpness != nil {
		m.RawSharpness = *row.RawSharpness
	}
	if row.EffectivePixels != nil {
		m.EffectivePixels = int(*row.EffectivePixels)
	}
	return m, true
}

func delta(a, b BucketCounts) BucketCounts {
	return BucketCounts{
		Rejected:     a.Rejected - b.Rejected,
		ZeroStar:     a.ZeroStar - b.ZeroStar,
		OneStar:      a.OneStar - b.OneStar,
		TwoStar:      a.TwoStar - b.TwoStar,
		ThreeStar:    a.ThreeStar - b.ThreeStar,
		Picked:       a.Picked - b.Picked,
		Unresolvable: a.Unresolvable - b.Unresolvable,
	}
}

func summarize(values []float64) SharpnessSummary {
	if len(values) == 0 {
		return SharpnessSummary{}
	}
	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)

	return SharpnessSummary{
		Mean: stat.Mean(sorted, nil),
		P25:  stat.Quantile(0.25, stat.Empirical, sorted, nil),
		P50:  stat.Quantile(0.5, stat.Empirical, sorted, nil),
		P75:  stat.Quantile(0.75, stat.Empirical, sorted, nil),
	}
}
