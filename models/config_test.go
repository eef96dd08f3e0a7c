package models

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultConfig(t *testing.T) {
	config := DefaultConfig()

	if config.TargetLang != "en" {
		t.Errorf("TargetLang = %q, want 'en'", config.TargetLang)
	}
	if config.Provider != "gemini" {
		t.Errorf("Provider = %q, want 'gemini'", config.Provider)
	}
	if config.GeminiModel == "" {
		t.Error("GeminiModel should have a default")
	}
	if config.TargetChunkHeight != 2500 {
		t.Errorf("TargetChunkHeight = %d, want 2500", config.TargetChunkHeight)
	}
	if config.MaxConcurrent != 5 {
		t.Errorf("MaxConcurrent = %d, want 5", config.MaxConcurrent)
	}
	if config.RequestsPerMinute != 20 {
		t.Errorf("RequestsPerMinute = %d, want 20", config.RequestsPerMinute)
	}
	if !config.SkipFlatChunks {
		t.Error("SkipFlatChunks should default to true")
	}
	if !config.StitchOutput {
		t.Error("StitchOutput should default to true")
	}
}

func TestDefaultConfig_HomeDir(t *testing.T) {
	config := DefaultConfig()
	homeDir, _ := os.UserHomeDir()

	expectedOutputDir := filepath.Join(homeDir, "Desktop", "Translated")
	if config.OutputDirectory != expectedOutputDir {
		t.Errorf("OutputDirectory = %q, want %q", config.OutputDirectory, expectedOutputDir)
	}
}

func TestConfigPath(t *testing.T) {
	config := DefaultConfig()
	homeDir, _ := os.UserHomeDir()

	expected := filepath.Join(homeDir, ".config", "manga-translator", "config.json")
	if got := config.ConfigPath(); got != expected {
		t.Errorf("ConfigPath() = %q, want %q", got, expected)
	}
}

func TestConfig_JSONRoundTrip(t *testing.T) {
	config := DefaultConfig()
	config.TargetLang = "de"
	config.Provider = "mock"
	config.TargetChunkHeight = 1800
	config.DisableZoneHints = true

	data, err := json.Marshal(config)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	loaded := DefaultConfig()
	if err := json.Unmarshal(data, loaded); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}

	if loaded.TargetLang != "de" {
		t.Errorf("TargetLang = %q, want 'de'", loaded.TargetLang)
	}
	if loaded.Provider != "mock" {
		t.Errorf("Provider = %q, want 'mock'", loaded.Provider)
	}
	if loaded.TargetChunkHeight != 1800 {
		t.Errorf("TargetChunkHeight = %d, want 1800", loaded.TargetChunkHeight)
	}
	if !loaded.DisableZoneHints {
		t.Error("DisableZoneHints should survive the round trip")
	}
}

func TestConfig_PartialFileKeepsDefaults(t *testing.T) {
	// A config file written by an older version only overrides the fields it
	// contains.
	cfg := DefaultConfig()
	if err := json.Unmarshal([]byte(`{"target_lang":"ja"}`), cfg); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}

	if cfg.TargetLang != "ja" {
		t.Errorf("TargetLang = %q, want 'ja'", cfg.TargetLang)
	}
	if cfg.TargetChunkHeight != 2500 {
		t.Errorf("TargetChunkHeight = %d, want default 2500", cfg.TargetChunkHeight)
	}
	if cfg.Provider != "gemini" {
		t.Errorf("Provider = %q, want default 'gemini'", cfg.Provider)
	}
}
