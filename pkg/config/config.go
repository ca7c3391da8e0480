package config

import (
	"os"
	"strconv"

	"superpicky/internal/models"
	"superpicky/internal/sharpness"
)

// Config is the env-driven application configuration. Threshold values
// come from the environment too, but a YAML preset file (see
// presets.go) can override them by name at the call site.
type Config struct {
	DatabasePath string
	WorkerCount  int
	Port         string
	PresetPath   string

	// Logging
	LogLevel  string
	LogFormat string // "json" or "text"

	// Sharpness normalization strategy for new batches.
	NormalizationMode sharpness.Mode

	// Write-back behavior
	SkipWriteBack bool

	Thresholds models.ThresholdConfig
}

// Load reads configuration from the environment, falling back to the
// production defaults.
func Load() *Config {
	workerCount, _ := strconv.Atoi(getEnv("WORKER_COUNT", "0")) // 0 = use default
	skipWriteBack, _ := strconv.ParseBool(getEnv("SKIP_WRITE_BACK", "false"))

	mode, err := sharpness.ParseMode(getEnv("SHARPNESS_NORMALIZATION", string(sharpness.ModeLogCompression)))
	if err != nil {
		mode = sharpness.ModeLogCompression
	}

	thresholds := models.DefaultThresholds()
	thresholds.MinConfidenceReject = getEnvFloat("MIN_CONFIDENCE_REJECT", thresholds.MinConfidenceReject)
	thresholds.MinSharpnessFloor = getEnvFloat("MIN_SHARPNESS_FLOOR", thresholds.MinSharpnessFloor)
	thresholds.MinAestheticFloor = getEnvFloat("MIN_AESTHETIC_FLOOR", thresholds.MinAestheticFloor)
	thresholds.MaxTechnicalCeiling = getEnvFloat("MAX_TECHNICAL_CEILING", thresholds.MaxTechnicalCeiling)
	thresholds.SharpnessPromoteThreshold = getEnvFloat("SHARPNESS_PROMOTE_THRESHOLD", thresholds.SharpnessPromoteThreshold)
	thresholds.AestheticPromoteThreshold = getEnvFloat("AESTHETIC_PROMOTE_THRESHOLD", thresholds.AestheticPromoteThreshold)
	thresholds.PickedTopPercentage = getEnvFloat("PICKED_TOP_PERCENTAGE", thresholds.PickedTopPercentage)

	return &Config{
		DatabasePath:      getEnv("DATABASE_PATH", "superpicky.db"),
		WorkerCount:       workerCount,
		Port:              getEnv("PORT", "8080"),
		PresetPath:        getEnv("PRESET_PATH", ""),
		LogLevel:          getEnv("LOG_LEVEL", "info"),
		LogFormat:         getEnv("LOG_FORMAT", "text"),
		NormalizationMode: mode,
		SkipWriteBack:     skipWriteBack,
		Thresholds:        thresholds,
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if f, err := strconv.ParseFloat(value, 64); err == nil {
			return f
		}
	}
	return defaultValue
}
