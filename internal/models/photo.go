package models

// PhotoMetrics holds the per-photo measurements handed to the scoring
// engine. The detector supplies the subject geometry and confidence,
// the sharpness estimator fills NormalizedSharpness, and the external
// quality scorers supply the two optional scores. A PhotoMetrics value
// is immutable once produced; classification never mutates it.
type PhotoMetrics struct {
	FoundSubject        bool     `json:"found_subject"`
	Confidence          float64  `json:"confidence"`
	AreaRatio           float64  `json:"area_ratio"`
	CenterX             float64  `json:"center_x"`
	CenterY             float64  `json:"center_y"`
	RawSharpness        float64  `json:"raw_sharpness"`
	EffectivePixels     int      `json:"effective_pixels"`
	NormalizedSharpness float64  `json:"normalized_sharpness"`
	AestheticScore      *float64 `json:"aesthetic_score,omitempty"`
	TechnicalScore      *float64 `json:"technical_score,omitempty"`
}

// Clamped returns a copy with out-of-domain numeric fields pulled back
// to the nearest valid value, plus the names of the fields that were
// adjusted. Invalid metrics degrade one photo's result, never the batch.
func (m PhotoMetrics) Clamped() (PhotoMetrics, []string) {
	var clamped []string

	clampUnit := func(v *float64, name string) {
		if *v < 0 {
			*v = 0
			clamped = append(clamped, name)
		} else if *v > 1 {
			*v = 1
			clamped = append(clamped, name)
		}
	}

	clampUnit(&m.Confidence, "confidence")
	clampUnit(&m.AreaRatio, "area_ratio")
	clampUnit(&m.CenterX, "center_x")
	clampUnit(&m.CenterY, "center_y")

	if m.RawSharpness < 0 {
		m.RawSharpness = 0
		clamped = append(clamped, "raw_sharpness")
	}
	if m.EffectivePixels < 0 {
		m.EffectivePixels = 0
		clamped = append(clamped, "effective_pixels")
	}

	return m, clamped
}
