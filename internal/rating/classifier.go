// Package rating turns one photo's metric tuple into a star rating.
//
// The classifier is an ordered decision list: rules are evaluated
// top-down and the first match wins. Rejection and floor checks sit
// above the promotion checks, so priority is part of the contract
// rather than an accident of code layout. Every rule is pure; photos
// can be classified in any order, concurrently, with identical results.
package rating

import (
	"superpicky/internal/models"
)

// rule pairs a predicate with the outcome it produces. The predicate
// must not mutate its inputs.
type rule struct {
	matches func(m models.PhotoMetrics, c models.ThresholdConfig) bool
	outcome func(m models.PhotoMetrics, c models.ThresholdConfig) models.RatingResult
}

// fixed returns an outcome that ignores the inputs.
func fixed(r models.RatingResult) func(models.PhotoMetrics, models.ThresholdConfig) models.RatingResult {
	return func(models.PhotoMetrics, models.ThresholdConfig) models.RatingResult { return r }
}

// Threshold comparisons use >= / <= so a metric exactly at a boundary
// passes. An absent aesthetic or technical score never fires a floor
// and never satisfies a promotion: absence is neutral, not
// disqualifying and not qualifying.
var rules = []rule{
	{
		// No subject found at all.
		matches: func(m models.PhotoMetrics, _ models.ThresholdConfig) bool {
			return !m.FoundSubject
		},
		outcome: fixed(models.RatingResult{Rating: models.RatingRejected, Reason: models.ReasonNoSubject}),
	},
	{
		// Detector not confident enough in the subject it found.
		matches: func(m models.PhotoMetrics, c models.ThresholdConfig) bool {
			return m.Confidence < c.MinConfidenceReject
		},
		outcome: fixed(models.RatingResult{Rating: models.RatingRejected, Reason: models.ReasonLowConfidence}),
	},
	{
		// Technical quality floors. Any single failure zeroes the photo;
		// when several fail, the reported reason follows the fixed order
		// technical, aesthetic, sharpness.
		matches: func(m models.PhotoMetrics, c models.ThresholdConfig) bool {
			return failsTechnicalFloor(m, c) || failsAestheticFloor(m, c) || failsSharpnessFloor(m, c)
		},
		outcome: func(m models.PhotoMetrics, c models.ThresholdConfig) models.RatingResult {
			reason := models.ReasonSharpnessFloor
			if failsTechnicalFloor(m, c) {
				reason = models.ReasonTechnicalFloor
			} else if failsAestheticFloor(m, c) {
				reason = models.ReasonAestheticFloor
			}
			return models.RatingResult{Rating: models.RatingZero, Reason: reason}
		},
	},
	{
		// Sharp and aesthetically strong: promotable.
		matches: func(m models.PhotoMetrics, c models.ThresholdConfig) bool {
			return passesSharpnessPromote(m, c) && passesAestheticPromote(m, c)
		},
		outcome: fixed(models.RatingResult{Rating: models.RatingThree, Reason: models.ReasonBothAxes, Promotable: true}),
	},
	{
		// Strong on one axis only.
		matches: func(m models.PhotoMetrics, c models.ThresholdConfig) bool {
			return passesSharpnessPromote(m, c) || passesAestheticPromote(m, c)
		},
		outcome: fixed(models.RatingResult{Rating: models.RatingTwo, Reason: models.ReasonOneAxis}),
	},
}

func failsTechnicalFloor(m models.PhotoMetrics, c models.ThresholdConfig) bool {
	return m.TechnicalScore != nil && *m.TechnicalScore > c.MaxTechnicalCeiling
}

func failsAestheticFloor(m models.PhotoMetrics, c models.ThresholdConfig) bool {
	return m.AestheticScore != nil && *m.AestheticScore < c.MinAestheticFloor
}

func failsSharpnessFloor(m models.PhotoMetrics, c models.ThresholdConfig) bool {
	return m.NormalizedSharpness < c.MinSharpnessFloor
}

func passesSharpnessPromote(m models.PhotoMetrics, c models.ThresholdConfig) bool {
	return m.NormalizedSharpness >= c.SharpnessPromoteThreshold
}

func passesAestheticPromote(m models.PhotoMetrics, c models.ThresholdConfig) bool {
	return m.AestheticScore != nil && *m.AestheticScore >= c.AestheticPromoteThreshold
}

// Classify maps one photo's metrics and a threshold configuration to a
// rating. Total: it never errors, and out-of-domain numeric fields are
// clamped before evaluation.
func Classify(m models.PhotoMetrics, c models.ThresholdConfig) models.RatingResult {
	m, _ = m.Clamped()
	for _, r := range rules {
		if r.matches(m, c) {
			return r.outcome(m, c)
		}
	}
	// Nothing disqualified the photo and nothing promoted it.
	return models.RatingResult{Rating: models.RatingOne, Reason: models.ReasonOrdinary}
}
