package models

// Rating buckets. The scale mirrors the Lightroom conventions the
// write-back boundary uses: -1 rejects a photo, 0 marks a technical
// failure, 1-3 grade keepers, and 3-star photos compete for the
// picked flag.
const (
	RatingRejected = -1
	RatingZero     = 0
	RatingOne      = 1
	RatingTwo      = 2
	RatingThree    = 3
)

// Reason identifies which rule produced a rating. Reasons make the
// decision auditable: every result names the first rule that matched.
type Reason string

const (
	ReasonNoSubject      Reason = "no_subject"
	ReasonLowConfidence  Reason = "low_confidence"
	ReasonTechnicalFloor Reason = "technical_floor"
	ReasonAestheticFloor Reason = "aesthetic_floor"
	ReasonSharpnessFloor Reason = "sharpness_floor"
	ReasonBothAxes       Reason = "both_axes"
	ReasonOneAxis        Reason = "one_axis"
	ReasonOrdinary       Reason = "ordinary"
)

// RatingResult is the classifier's verdict for one photo.
// Promotable is true only for 3-star results, which are the only
// candidates for the picked ranking.
type RatingResult struct {
	Rating     int    `json:"rating"`
	Reason     Reason `json:"reason"`
	Promotable bool   `json:"promotable"`
}
