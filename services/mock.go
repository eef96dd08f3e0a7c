package services

import (
	"context"
	"time"

	"manga-translator/internal/slicer"
)

// MockService is an offline provider for dry runs and tests: chunks come
// back unmodified and no zones are suggested, which exercises the slicer's
// pure fallback path.
type MockService struct {
	// Delay simulates network latency per call.
	Delay time.Duration
}

func NewMockService() *MockService {
	return &MockService{Delay: 50 * time.Millisecond}
}

func (s *MockService) Name() string { return "mock" }

func (s *MockService) TranslateChunk(ctx context.Context, img []byte, mime, targetLang string) ([]byte, error) {
	if s.Delay > 0 {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(s.Delay):
		}
	}
	out := make([]byte, len(img))
	copy(out, img)
	return out, nil
}

func (s *MockService) SuggestZones(ctx context.Context, img []byte, mime string) ([]slicer.SafeZone, error) {
	return nil, nil
}
