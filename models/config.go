package models

import (
	"encoding/json"
	"os"
	"path/filepath"

	"manga-translator/internal/config"
)

// Config holds application settings.
// Supports multiple translation providers and exposes the slicing heuristics
// as tunables, since the best values depend on the comic being translated.
type Config struct {
	// Basic settings
	TargetLang      string `json:"target_lang"`
	OutputDirectory string `json:"output_directory"`

	// Provider selection (gemini, mock)
	Provider string `json:"provider"`

	// Gemini API settings
	GeminiAPIKey string `json:"gemini_api_key"`
	GeminiModel  string `json:"gemini_model"`

	// Slicing settings
	TargetChunkHeight  int `json:"target_chunk_height"`
	MinChunkHeight     int `json:"min_chunk_height"`
	HintTolerance      int `json:"hint_tolerance"`
	FallbackHalfWindow int `json:"fallback_half_window"`

	// Disable AI zone hints entirely and rely on the pixel scan only.
	DisableZoneHints bool `json:"disable_zone_hints"`

	// Scheduler settings
	MaxConcurrent     int `json:"max_concurrent"`
	RequestsPerMinute int `json:"requests_per_minute"`

	// Skip visually flat chunks (solid gutters, blank filler) instead of
	// sending them to the model.
	SkipFlatChunks        bool    `json:"skip_flat_chunks"`
	FlatVarianceThreshold float64 `json:"flat_variance_threshold"`

	// Stitch translated chunks back into a single strip next to the
	// per-chunk output files.
	StitchOutput bool `json:"stitch_output"`
}

func DefaultConfig() *Config {
	homeDir, _ := os.UserHomeDir()
	return &Config{
		TargetLang:      config.DefaultTargetLang,
		OutputDirectory: filepath.Join(homeDir, "Desktop", "Translated"),

		Provider: "gemini",

		GeminiAPIKey: "",
		GeminiModel:  config.GeminiDefaultModel,

		TargetChunkHeight:  config.TargetChunkHeight,
		MinChunkHeight:     config.MinChunkHeight,
		HintTolerance:      config.HintTolerance,
		FallbackHalfWindow: config.FallbackHalfWindow,

		DisableZoneHints: false,

		MaxConcurrent:     config.MaxConcurrentTranslations,
		RequestsPerMinute: config.RequestsPerMinute,

		SkipFlatChunks:        true,
		FlatVarianceThreshold: config.FlatVarianceThreshold,

		StitchOutput: true,
	}
}

func (c *Config) ConfigPath() string {
	homeDir, _ := os.UserHomeDir()
	return filepath.Join(homeDir, ".config", "manga-translator", "config.json")
}

func LoadConfig() (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(cfg.ConfigPath())
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, err
	}

	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) Save() error {
	configPath := c.ConfigPath()

	// Create directory if it doesn't exist
	dir := filepath.Dir(configPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	data, err := json.MarshalIndent(c, "", "    ")
	if err != nil {
		return err
	}

	return os.WriteFile(configPath, data, 0600) // User-only permissions, holds the API key
}
