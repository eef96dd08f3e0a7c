// Package http provides HTTP client utilities with connection pooling and retry logic.
package http

import (
	"net/http"
	"time"

	"manga-translator/internal/config"
)

// ClientConfig configures the HTTP client behavior.
type ClientConfig struct {
	Timeout             time.Duration
	MaxIdleConns        int
	MaxIdleConnsPerHost int
	IdleConnTimeout     time.Duration
}

// DefaultClientConfig returns the default HTTP client configuration.
func DefaultClientConfig() ClientConfig {
	return ClientConfig{
		Timeout:             config.HTTPTimeout,
		MaxIdleConns:        config.HTTPMaxIdleConns,
		MaxIdleConnsPerHost: config.HTTPMaxIdleConnsPerHost,
		IdleConnTimeout:     config.HTTPIdleConnTimeout,
	}
}

// NewPooledClient creates an HTTP client with connection pooling.
// This should be reused across requests to the same host for efficiency.
func NewPooledClient(cfg ClientConfig) *http.Client {
	return &http.Client{
		Timeout: cfg.Timeout,
		Transport: &http.Transport{
			MaxIdleConns:        cfg.MaxIdleConns,
			MaxIdleConnsPerHost: cfg.MaxIdleConnsPerHost,
			IdleConnTimeout:     cfg.IdleConnTimeout,
		},
	}
}

// GeminiClient is the shared HTTP client for Gemini API calls. Multimodal
// requests carry whole image chunks, so the timeout is generous.
var GeminiClient = NewPooledClient(ClientConfig{
	Timeout:             3 * time.Minute,
	MaxIdleConns:        config.HTTPMaxIdleConns,
	MaxIdleConnsPerHost: config.HTTPMaxIdleConnsPerHost,
	IdleConnTimeout:     config.HTTPIdleConnTimeout,
})
