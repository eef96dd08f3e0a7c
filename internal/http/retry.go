package http

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"manga-translator/internal/config"
)

// RetryConfig configures retry behavior for HTTP requests.
type RetryConfig struct {
	MaxAttempts     int
	InitialDelay    time.Duration
	BackoffFactor   float64
	RetryableStatus []int // HTTP status codes that should trigger a retry
}

// DefaultRetryConfig returns the default retry configuration.
func DefaultRetryConfig() RetryConfig {
	return RetryConfig{
		MaxAttempts:   config.DefaultMaxRetries,
		InitialDelay:  config.DefaultRetryDelayBase,
		BackoffFactor: 2.0,
		RetryableStatus: []int{
			http.StatusTooManyRequests,     // 429
			http.StatusInternalServerError, // 500
			http.StatusBadGateway,          // 502
			http.StatusServiceUnavailable,  // 503
			http.StatusGatewayTimeout,      // 504
		},
	}
}

// isRetryableStatus checks if a status code should trigger a retry.
func isRetryableStatus(status int, retryable []int) bool {
	for _, s := range retryable {
		if s == status {
			return true
		}
	}
	return false
}

// DoWithRetryContext executes an HTTP request with exponential backoff retry.
// The request body must be resettable (use bytes.NewReader or similar).
func DoWithRetryContext(ctx context.Context, client *http.Client, req *http.Request, cfg RetryConfig) (*http.Response, error) {
	var lastErr error
	delay := cfg.InitialDelay

	for attempt := 1; attempt <= cfg.MaxAttempts; attempt++ {
		// Check context before making request
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		// Clone the request to allow retries
		reqClone := req.Clone(ctx)

		// Reset body if it's a seeker (like bytes.Reader)
		if req.Body != nil {
			if seeker, ok := req.Body.(io.Seeker); ok {
				seeker.Seek(0, io.SeekStart)
			}
		}

		resp, err := client.Do(reqClone)
		if err != nil {
			lastErr = err
			if attempt < cfg.MaxAttempts {
				if werr := waitRetry(ctx, delay); werr != nil {
					return nil, werr
				}
				delay = time.Duration(float64(delay) * cfg.BackoffFactor)
			}
			continue
		}

		// Check if we should retry based on status code
		if isRetryableStatus(resp.StatusCode, cfg.RetryableStatus) && attempt < cfg.MaxAttempts {
			resp.Body.Close() // Close the response before retry
			lastErr = fmt.Errorf("HTTP %d", resp.StatusCode)

			if werr := waitRetry(ctx, delay); werr != nil {
				return nil, werr
			}
			delay = time.Duration(float64(delay) * cfg.BackoffFactor)
			continue
		}

		// Success or non-retryable error
		return resp, nil
	}

	return nil, fmt.Errorf("failed after %d retries: %w", cfg.MaxAttempts, lastErr)
}

func waitRetry(ctx context.Context, d time.Duration) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(d):
		return nil
	}
}
