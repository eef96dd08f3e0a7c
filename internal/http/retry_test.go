package http

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

func fastRetryConfig() RetryConfig {
	cfg := DefaultRetryConfig()
	cfg.InitialDelay = time.Millisecond
	return cfg
}

func TestDoWithRetryContext_SuccessFirstTry(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	req, _ := http.NewRequest(http.MethodGet, srv.URL, nil)
	resp, err := DoWithRetryContext(context.Background(), srv.Client(), req, fastRetryConfig())
	if err != nil {
		t.Fatalf("DoWithRetryContext() error = %v", err)
	}
	resp.Body.Close()

	if hits.Load() != 1 {
		t.Errorf("expected 1 request, got %d", hits.Load())
	}
}

func TestDoWithRetryContext_RetriesOn429(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if hits.Add(1) < 3 {
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	req, _ := http.NewRequest(http.MethodGet, srv.URL, nil)
	resp, err := DoWithRetryContext(context.Background(), srv.Client(), req, fastRetryConfig())
	if err != nil {
		t.Fatalf("DoWithRetryContext() error = %v", err)
	}
	resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Errorf("status = %d, want 200", resp.StatusCode)
	}
	if hits.Load() != 3 {
		t.Errorf("expected 3 requests, got %d", hits.Load())
	}
}

func TestDoWithRetryContext_NonRetryableStatusReturned(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		w.WriteHeader(http.StatusBadRequest)
	}))
	defer srv.Close()

	req, _ := http.NewRequest(http.MethodGet, srv.URL, nil)
	resp, err := DoWithRetryContext(context.Background(), srv.Client(), req, fastRetryConfig())
	if err != nil {
		t.Fatalf("DoWithRetryContext() error = %v", err)
	}
	resp.Body.Close()

	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", resp.StatusCode)
	}
	if hits.Load() != 1 {
		t.Errorf("400 must not be retried, got %d requests", hits.Load())
	}
}

func TestDoWithRetryContext_BodyResentOnRetry(t *testing.T) {
	var hits atomic.Int32
	var mu sync.Mutex
	var bodies [][]byte
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		mu.Lock()
		bodies = append(bodies, body)
		mu.Unlock()
		if hits.Add(1) < 2 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	payload := []byte(`{"contents":[]}`)
	req, _ := http.NewRequest(http.MethodPost, srv.URL, bytes.NewReader(payload))
	resp, err := DoWithRetryContext(context.Background(), srv.Client(), req, fastRetryConfig())
	if err != nil {
		t.Fatalf("DoWithRetryContext() error = %v", err)
	}
	resp.Body.Close()

	mu.Lock()
	defer mu.Unlock()
	if len(bodies) != 2 {
		t.Fatalf("expected 2 requests, got %d", len(bodies))
	}
	for i, body := range bodies {
		if !bytes.Equal(body, payload) {
			t.Errorf("request %d body = %q, want %q", i, body, payload)
		}
	}
}

func TestDoWithRetryContext_ExhaustedRetries(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	// The final attempt's response is handed back so the caller can read the
	// API error payload.
	cfg := fastRetryConfig()
	req, _ := http.NewRequest(http.MethodGet, srv.URL, nil)
	resp, err := DoWithRetryContext(context.Background(), srv.Client(), req, cfg)
	if err != nil {
		t.Fatalf("DoWithRetryContext() error = %v", err)
	}
	resp.Body.Close()

	if resp.StatusCode != http.StatusInternalServerError {
		t.Errorf("status = %d, want 500", resp.StatusCode)
	}
	if int(hits.Load()) != cfg.MaxAttempts {
		t.Errorf("expected %d attempts, got %d", cfg.MaxAttempts, hits.Load())
	}
}

func TestDoWithRetryContext_ContextCancelled(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	req, _ := http.NewRequest(http.MethodGet, srv.URL, nil)
	if _, err := DoWithRetryContext(ctx, srv.Client(), req, fastRetryConfig()); err == nil {
		t.Error("expected error for cancelled context")
	}
}

func TestIsRetryableStatus(t *testing.T) {
	retryable := DefaultRetryConfig().RetryableStatus

	for _, status := range []int{429, 500, 502, 503, 504} {
		if !isRetryableStatus(status, retryable) {
			t.Errorf("status %d should be retryable", status)
		}
	}
	for _, status := range []int{200, 201, 400, 401, 403, 404} {
		if isRetryableStatus(status, retryable) {
			t.Errorf("status %d should not be retryable", status)
		}
	}
}
