package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"superpicky/internal/models"
	"superpicky/internal/sharpness"
	apperrors "superpicky/pkg/errors"
)

// Preset is a named, user-editable threshold bundle. Field culling
// tastes differ by shoot type (perched vs. in-flight, good vs. bad
// light), so presets let a user swap the whole configuration at once.
type Preset struct {
	Name          string                 `yaml:"name"`
	Description   string                 `yaml:"description,omitempty"`
	Normalization string                 `yaml:"normalization,omitempty"`
	Thresholds    models.ThresholdConfig `yaml:"thresholds"`
}

type presetFile struct {
	Presets []Preset `yaml:"presets"`
}

// LoadPresets parses a YAML preset file. Presets with an unknown
// normalization mode or an out-of-range picked percentage are
// rejected; a threshold left at zero keeps its zero (the engine treats
// thresholds literally, range validation is a caller concern).
func LoadPresets(path string) (map[string]Preset, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("cannot read preset file: %w", err)
	}
	return ParsePresets(data)
}

// ParsePresets parses preset YAML content.
func ParsePresets(data []byte) (map[string]Preset, error) {
	var file presetFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, apperrors.NewValidation("config.ParsePresets", "invalid preset YAML", err)
	}

	presets := make(map[string]Preset, len(file.Presets))
	for _, p := range file.Presets {
		if p.Name == "" {
			return nil, apperrors.NewValidation("config.ParsePresets", "preset without a name", nil)
		}
		if p.Normalization != "" {
			if _, err := sharpness.ParseMode(p.Normalization); err != nil {
				return nil, apperrors.NewValidation("config.ParsePresets", fmt.Sprintf("preset %q", p.Name), err)
			}
		}
		if pct := p.Thresholds.PickedTopPercentage; pct <= 0 || pct > 100 {
			return nil, apperrors.NewValidation("config.ParsePresets",
				fmt.Sprintf("preset %q: picked_top_percentage must be in (0,100]", p.Name), nil)
		}
		if _, dup := presets[p.Name]; dup {
			return nil, apperrors.NewValidation("config.ParsePresets", fmt.Sprintf("duplicate preset %q", p.Name), nil)
		}
		presets[p.Name] = p
	}
	return presets, nil
}
