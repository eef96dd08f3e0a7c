package services

import (
	"context"

	"manga-translator/internal/slicer"
)

// Translator sends one chunk image to a model and returns the translated
// image bytes. Implementations are fallible and may block on network I/O;
// the scheduler isolates failures to the single chunk.
type Translator interface {
	// TranslateChunk renders the chunk's text into targetLang, returning
	// encoded image bytes of the same dimensions.
	TranslateChunk(ctx context.Context, img []byte, mime, targetLang string) ([]byte, error)
	// Name identifies the provider for logging.
	Name() string
}

// ZoneSuggester proposes safe cut zones for a full strip. The suggestion is
// advisory: the slicer treats every error or malformed response as an empty
// hint list and falls back to its pixel scan.
type ZoneSuggester interface {
	SuggestZones(ctx context.Context, img []byte, mime string) ([]slicer.SafeZone, error)
}
