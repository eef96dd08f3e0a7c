// Package config provides centralized configuration and constants for the manga-translator application.
package config

import "time"

// Progress stage boundaries (0-100%)
const (
	ProgressLoadStart      = 0
	ProgressLoadEnd        = 5
	ProgressSliceStart     = 5
	ProgressSliceEnd       = 15
	ProgressTranslateStart = 15
	ProgressTranslateEnd   = 90
	ProgressSaveStart      = 90
	ProgressSaveEnd        = 100
)

// Slicing defaults. A webtoon strip is cut into chunks of roughly
// TargetChunkHeight pixels at visually flat rows; images within
// SingleChunkFactor of the target are never cut at all.
const (
	TargetChunkHeight = 2500 // Preferred chunk height in pixels
	SingleChunkFactor = 1.2  // Images up to 1.2x the target stay whole

	// HintTolerance is how far (in pixels) an AI-suggested zone midpoint may
	// sit from the desired cut position and still be used. Zones further away
	// are ignored in favor of a local fallback scan.
	HintTolerance = 600

	// FallbackHalfWindow is the half-width of the search window scanned
	// around the desired cut when no usable zone hint is available.
	FallbackHalfWindow = 400

	// ZonePassMargin guards against re-selecting a zone the cursor has
	// already moved past.
	ZonePassMargin = 100

	// MinChunkHeight is the smallest chunk the assembler will emit.
	// Thinner slivers are silently skipped (merged into a neighbor).
	MinChunkHeight = 120
)

// Row scoring. Rows are scored by horizontal pixel activity; low energy
// means a flat row and a safe cut. Near-white and near-black rows get a
// bonus since gutters are usually blank.
const (
	RowSampleStride    = 2   // Sample every 2nd pixel of a row
	GutterBrightCutoff = 235 // Brightness above this counts as near-white
	GutterDarkCutoff   = 20  // Brightness below this counts as near-black
	GutterScoreBonus   = 40.0
	CenterBiasWeight   = 12.0 // Penalty weight for cuts far from the zone center
)

// Complexity pre-filter. Chunks whose sampled brightness variance falls
// below the threshold carry no drawn content worth translating and are
// completed synthetically without an API call.
const (
	ComplexitySampleStride = 8
	FlatVarianceThreshold  = 25.0
)

// Scheduler limits.
const (
	// MaxConcurrentTranslations caps in-flight chunk translations across
	// all pages. The model API degrades badly past a handful of parallel
	// multimodal requests.
	MaxConcurrentTranslations = 5

	// RequestsPerMinute caps admissions inside any sliding 60s window.
	RequestsPerMinute = 20

	// RateWindowLength is the length of the sliding admission window.
	RateWindowLength = time.Minute

	// SchedulerTickInterval bounds how long the scheduler waits before
	// re-checking budgets when no state change wakes it up.
	SchedulerTickInterval = 500 * time.Millisecond
)

// Retry settings.
const (
	DefaultMaxRetries     = 3
	DefaultRetryDelayBase = time.Second
)

// HTTP client settings.
const (
	HTTPTimeout             = 2 * time.Minute
	HTTPMaxIdleConns        = 10
	HTTPMaxIdleConnsPerHost = 10
	HTTPIdleConnTimeout     = 90 * time.Second
)

// Gemini API settings.
const (
	GeminiAPIEndpoint  = "https://generativelanguage.googleapis.com/v1beta/models"
	GeminiDefaultModel = "gemini-2.0-flash"
)

// Output settings.
const (
	// ChunkSaveWorkers is the worker count for parallel PNG encoding of
	// finished chunks. Encoding is CPU-bound, not API-bound.
	ChunkSaveWorkers = 4
)

// Default target language.
const DefaultTargetLang = "en"
