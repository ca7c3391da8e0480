package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const presetYAML = `
presets:
  - name: perched
    description: Perched birds in good light
    normalization: log_compression
    thresholds:
      min_confidence_reject: 0.5
      min_sharpness_floor: 4000
      min_aesthetic_floor: 4.0
      max_technical_ceiling: 30
      sharpness_promote_threshold: 7000
      aesthetic_promote_threshold: 4.8
      picked_top_percentage: 20
  - name: in-flight
    normalization: sqrt
    thresholds:
      min_confidence_reject: 0.35
      min_sharpness_floor: 2500
      min_aesthetic_floor: 3.5
      max_technical_ceiling: 40
      sharpness_promote_threshold: 5000
      aesthetic_promote_threshold: 4.5
      picked_top_percentage: 30
`

func TestParsePresets(t *testing.T) {
	presets, err := ParsePresets([]byte(presetYAML))
	require.NoError(t, err)
	require.Len(t, presets, 2)

	perched, ok := presets["perched"]
	require.True(t, ok)
	assert.Equal(t, "log_compression", perched.Normalization)
	assert.Equal(t, 4000.0, perched.Thresholds.MinSharpnessFloor)
	assert.Equal(t, 20.0, perched.Thresholds.PickedTopPercentage)

	flight, ok := presets["in-flight"]
	require.True(t, ok)
	assert.Equal(t, 0.35, flight.Thresholds.MinConfidenceReject)
	assert.Empty(t, flight.Description)
}

func TestParsePresets_Invalid(t *testing.T) {
	tests := []struct {
		name string
		yaml string
	}{
		{
			name: "missing name",
			yaml: "presets:\n  - thresholds:\n      picked_top_percentage: 20\n",
		},
		{
			name: "unknown normalization mode",
			yaml: "presets:\n  - name: x\n    normalization: cubic\n    thresholds:\n      picked_top_percentage: 20\n",
		},
		{
			name: "zero picked percentage",
			yaml: "presets:\n  - name: x\n    thresholds:\n      picked_top_percentage: 0\n",
		},
		{
			name: "percentage above 100",
			yaml: "presets:\n  - name: x\n    thresholds:\n      picked_top_percentage: 120\n",
		},
		{
			name: "duplicate names",
			yaml: "presets:\n  - name: x\n    thresholds:\n      picked_top_percentage: 20\n  - name: x\n    thresholds:\n      picked_top_percentage: 30\n",
		},
		{
			name: "malformed yaml",
			yaml: "presets: [not closed",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParsePresets([]byte(tt.yaml))
			assert.Error(t, err)
		})
	}
}

func TestLoadPresets(t *testing.T) {
	path := filepath.Join(t.TempDir(), "presets.yaml")
	require.NoError(t, os.WriteFile(path, []byte(presetYAML), 0o644))

	presets, err := LoadPresets(path)
	require.NoError(t, err)
	assert.Len(t, presets, 2)

	_, err = LoadPresets(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}
