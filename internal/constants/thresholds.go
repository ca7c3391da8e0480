package constants

// Centralized threshold defaults used across the application.
// Keep these stable; change deliberately and document why.
// These are not configuration knobs; use pkg/config for env-driven settings.

const (
	// Rejection: detector confidence below this rejects the photo outright.
	DefaultMinConfidenceReject = 0.5

	// Zero-star floors. A photo failing any one of these is a technical
	// reject regardless of how it does on the other axes.
	DefaultMinSharpnessFloor   = 4000.0
	DefaultMinAestheticFloor   = 4.0
	DefaultMaxTechnicalCeiling = 30.0

	// Promotion thresholds for the 2/3-star tiers. The sharpness value
	// assumes log-compressed normalization, where the useful range of a
	// batch sits roughly between 6000 and 9000.
	DefaultSharpnessPromote = 7000.0
	DefaultAestheticPromote = 4.8

	// Share of 3-star photos eligible for the picked flag.
	DefaultPickedTopPercentage = 20.0
)

const (
	// EXIF write-back batch size.
	DefaultExifBatchSize = 20

	// Pick flag values (Lightroom convention).
	PickFlagExcluded = -1
	PickFlagNone     = 0
	PickFlagPicked   = 1

	// Ratings above the engine's own range indicate manual curation;
	// the write-back boundary refuses to overwrite them.
	MaxEngineRating = 3
)
