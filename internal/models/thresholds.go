package models

import "superpicky/internal/constants"

// ThresholdConfig carries every user-adjustable threshold for one
// batch or recompute invocation. Treat a value as frozen once handed
// to the engine: workers share it read-only, and mutating it mid-batch
// would break the determinism guarantees.
type ThresholdConfig struct {
	// Rejection and floor thresholds.
	MinConfidenceReject float64 `json:"min_confidence_reject" yaml:"min_confidence_reject"`
	MinSharpnessFloor   float64 `json:"min_sharpness_floor" yaml:"min_sharpness_floor"`
	MinAestheticFloor   float64 `json:"min_aesthetic_floor" yaml:"min_aesthetic_floor"`
	MaxTechnicalCeiling float64 `json:"max_technical_ceiling" yaml:"max_technical_ceiling"`

	// Promotion thresholds for the 2/3-star tiers.
	SharpnessPromoteThreshold float64 `json:"sharpness_promote_threshold" yaml:"sharpness_promote_threshold"`
	AestheticPromoteThreshold float64 `json:"aesthetic_promote_threshold" yaml:"aesthetic_promote_threshold"`

	// Share of the 3-star population eligible for the picked flag, (0,100].
	PickedTopPercentage float64 `json:"picked_top_percentage" yaml:"picked_top_percentage"`
}

// DefaultThresholds returns the production defaults.
func DefaultThresholds() ThresholdConfig {
	return ThresholdConfig{
		MinConfidenceReject:       constants.DefaultMinConfidenceReject,
		MinSharpnessFloor:         constants.DefaultMinSharpnessFloor,
		MinAestheticFloor:         constants.DefaultMinAestheticFloor,
		MaxTechnicalCeiling:       constants.DefaultMaxTechnicalCeiling,
		SharpnessPromoteThreshold: constants.DefaultSharpnessPromote,
		AestheticPromoteThreshold: constants.DefaultAestheticPromote,
		PickedTopPercentage:       constants.DefaultPickedTopPercentage,
	}
}
