// Package sharpness normalizes the mask-restricted Laplacian variance
// the detector reports. The raw variance is biased toward photos with
// large subjects: more mask pixels mean more texture and a higher
// variance for the same optical sharpness. Each normalization mode
// damps that bias with a different denominator, trading fairness
// across subject sizes against sensitivity.
package sharpness

import (
	"fmt"
	"math"
)

// Mode selects a normalization strategy. All modes are monotonic in
// the raw statistic, so reordering by normalized sharpness can only
// come from differing pixel counts, never from the transform itself.
type Mode string

const (
	// ModeNone passes the raw variance through untouched. Together with
	// ModeLogCompression these are the two production defaults; the
	// remaining modes exist for calibration experiments.
	ModeNone Mode = "none"

	// ModeLogCompression maps x to ln(1+x)*1000, compressing the long
	// tail so small and large subjects land in a comparable range.
	ModeLogCompression Mode = "log_compression"

	// ModeSqrt divides by the square root of the pixel count.
	ModeSqrt Mode = "sqrt"

	// ModeLinear divides by the pixel count.
	ModeLinear Mode = "linear"

	// ModeLog divides by log10(pixels+10), the mildest damping.
	ModeLog Mode = "log"

	// ModeGentle divides by pixels^0.35, between sqrt and log, leaving
	// larger subjects a slight advantage.
	ModeGentle Mode = "gentle"
)

// ParseMode maps a configuration string to a Mode. Unknown strings
// fall back to ModeNone so a stale config never breaks a batch.
func ParseMode(s string) (Mode, error) {
	switch Mode(s) {
	case ModeNone, ModeLogCompression, ModeSqrt, ModeLinear, ModeLog, ModeGentle:
		return Mode(s), nil
	case "":
		return ModeNone, nil
	}
	return ModeNone, fmt.Errorf("unknown sharpness normalization mode %q", s)
}

// Normalize converts a raw mask-restricted sharpness statistic into a
// normalized scalar. Total function: negative inputs are clamped to
// zero and a zero pixel count (degenerate mask) always yields zero.
func Normalize(raw float64, effectivePixels int, mode Mode) float64 {
	if raw < 0 || math.IsNaN(raw) {
		raw = 0
	}
	if effectivePixels <= 0 {
		return 0
	}

	p := float64(effectivePixels)

	switch mode {
	case ModeLogCompression:
		return math.Log1p(raw) * 1000
	case ModeSqrt:
		return raw / math.Sqrt(p)
	case ModeLinear:
		return raw / p
	case ModeLog:
		return raw / math.Log10(p+10)
	case ModeGentle:
		return raw / math.Pow(p, 0.35)
	default:
		return raw
	}
}
