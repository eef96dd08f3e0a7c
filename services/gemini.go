package services

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"manga-translator/internal/config"
	internalhttp "manga-translator/internal/http"
	"manga-translator/internal/logger"
	"manga-translator/internal/slicer"
	"manga-translator/internal/text"
)

// Use shared HTTP client with connection pooling
var geminiClient = internalhttp.GeminiClient

const zonePrompt = `You are analyzing a vertically scrolling comic strip.
Identify horizontal bands that are safe places to cut the image: gutters
between panels and stretches of uniform background with no artwork or text.
Return ONLY a JSON array, each element {"start": <fraction>, "end": <fraction>,
"kind": "gutter"|"safe_background"}, where fractions are of total image height
from the top. Return [] if there are no safe bands.`

const translatePrompt = `Translate all text in this comic image into %s.
Redraw the speech bubbles and captions with the translated text, preserving
the artwork, layout and image dimensions exactly. Return only the edited image.`

// GeminiService calls the Gemini multimodal API for zone suggestion and
// chunk translation.
type GeminiService struct {
	apiKey string
	model  string
}

// NewGeminiService creates a Gemini-backed translator. An empty model uses
// the default from internal/config.
func NewGeminiService(apiKey, model string) *GeminiService {
	if model == "" {
		model = config.GeminiDefaultModel
	}
	return &GeminiService{apiKey: apiKey, model: model}
}

func (s *GeminiService) Name() string { return "gemini" }

// CheckAPIKey validates that the API key is set.
func (s *GeminiService) CheckAPIKey() error {
	if s.apiKey == "" {
		return fmt.Errorf("Gemini API key is not configured")
	}
	return nil
}

// SuggestZones asks the model for safe cut bands on a full strip. Garbage
// output decodes to an empty list; only transport-level failures return an
// error, and the slicer downgrades those to the pixel-scan fallback anyway.
func (s *GeminiService) SuggestZones(ctx context.Context, img []byte, mime string) ([]slicer.SafeZone, error) {
	parts, err := s.generate(ctx, []geminiPart{
		{Text: zonePrompt},
		{InlineData: &geminiBlob{MimeType: mime, Data: base64.StdEncoding.EncodeToString(img)}},
	})
	if err != nil {
		return nil, err
	}

	for _, part := range parts {
		if part.Text != "" {
			zones := parseZones(part.Text)
			logger.Debug("gemini: %d zone hints", len(zones))
			return zones, nil
		}
	}
	return nil, nil
}

// TranslateChunk sends one chunk for in-place text translation and returns
// the edited image bytes.
func (s *GeminiService) TranslateChunk(ctx context.Context, img []byte, mime, targetLang string) ([]byte, error) {
	if err := s.CheckAPIKey(); err != nil {
		return nil, err
	}

	parts, err := s.generate(ctx, []geminiPart{
		{Text: fmt.Sprintf(translatePrompt, text.GetLanguageName(targetLang))},
		{InlineData: &geminiBlob{MimeType: mime, Data: base64.StdEncoding.EncodeToString(img)}},
	})
	if err != nil {
		return nil, err
	}

	for _, part := range parts {
		if part.InlineData != nil {
			data, err := base64.StdEncoding.DecodeString(part.InlineData.Data)
			if err != nil {
				return nil, fmt.Errorf("failed to decode image payload: %w", err)
			}
			return data, nil
		}
	}
	return nil, fmt.Errorf("no image in Gemini response")
}

// Request/response wire types (generateContent).

type geminiRequest struct {
	Contents []geminiContent `json:"contents"`
}

type geminiContent struct {
	Parts []geminiPart `json:"parts"`
}

type geminiPart struct {
	Text       string      `json:"text,omitempty"`
	InlineData *geminiBlob `json:"inlineData,omitempty"`
}

type geminiBlob struct {
	MimeType string `json:"mimeType"`
	Data     string `json:"data"`
}

// generate performs one generateContent call and returns the reply parts.
func (s *GeminiService) generate(ctx context.Context, parts []geminiPart) ([]geminiPart, error) {
	reqBody := geminiRequest{Contents: []geminiContent{{Parts: parts}}}
	jsonBody, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	url := fmt.Sprintf("%s/%s:generateContent?key=%s", config.GeminiAPIEndpoint, s.model, s.apiKey)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(jsonBody))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := internalhttp.DoWithRetryContext(ctx, geminiClient, req, internalhttp.DefaultRetryConfig())
	if err != nil {
		return nil, fmt.Errorf("API request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		var errResp struct {
			Error struct {
				Message string `json:"message"`
			} `json:"error"`
		}
		if json.Unmarshal(respBody, &errResp) == nil && errResp.Error.Message != "" {
			return nil, fmt.Errorf("Gemini API error: %s", errResp.Error.Message)
		}
		return nil, fmt.Errorf("Gemini API error (status %d): %s", resp.StatusCode, string(respBody))
	}

	var result struct {
		Candidates []struct {
			Content geminiContent `json:"content"`
		} `json:"candidates"`
	}
	if err := json.Unmarshal(respBody, &result); err != nil {
		return nil, fmt.Errorf("failed to parse response: %w", err)
	}
	if len(result.Candidates) == 0 {
		return nil, fmt.Errorf("no response from Gemini")
	}
	return result.Candidates[0].Content.Parts, nil
}
