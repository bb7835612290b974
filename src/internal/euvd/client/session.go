// Copyright (c) 2025 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

package client

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/H0llyW00dzZ/euvd-mcp/src/internal/helper/gc"
)

// DefaultBaseURL is the public EUVD service endpoint.
const DefaultBaseURL = "https://euvdservices.enisa.europa.eu"

const (
	defaultTimeout     = 30 * time.Second
	defaultMaxAttempts = 3
	defaultRetryDelay  = time.Second

	// maxErrorBodyBytes caps how much of an upstream error body is kept for diagnostics.
	maxErrorBodyBytes = 512
)

// Config holds the read-only settings for a session. All fields are applied
// once in NewSession; changing a Config after that has no effect.
type Config struct {
	// BaseURL overrides the upstream service root (default: DefaultBaseURL).
	BaseURL string
	// Timeout bounds a single HTTP attempt (default: 30s).
	Timeout time.Duration
	// MaxAttempts is the total number of attempts per request, first try
	// included (default: 3).
	MaxAttempts int
	// RetryBaseDelay is the backoff before the first retry; it doubles per
	// attempt (default: 1s).
	RetryBaseDelay time.Duration
	// UserAgent overrides the User-Agent header sent upstream.
	UserAgent string
}

// withDefaults fills unset fields with their defaults.
func (c Config) withDefaults() Config {
	if c.BaseURL == "" {
		c.BaseURL = DefaultBaseURL
	}
	if c.Timeout <= 0 {
		c.Timeout = defaultTimeout
	}
	if c.MaxAttempts <= 0 {
		c.MaxAttempts = defaultMaxAttempts
	}
	if c.RetryBaseDelay <= 0 {
		c.RetryBaseDelay = defaultRetryDelay
	}
	if c.UserAgent == "" {
		c.UserAgent = defaultUserAgent
	}
	return c
}

// defaultUserAgent mirrors a desktop browser; the EUVD service rejects some
// obviously non-browser agents.
var defaultUserAgent = "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"

// Session owns the HTTP client used for all upstream calls and applies a
// uniform retry policy to every request.
//
// A Session is safe for concurrent use; the underlying transport handles
// connection pooling. Acquire one with NewSession and release it with Close.
type Session struct {
	cfg    Config
	client *http.Client
}

// NewSession creates a session with the given configuration (defaults applied
// for unset fields). The caller is responsible for calling Close when done.
func NewSession(cfg Config) *Session {
	cfg = cfg.withDefaults()
	return &Session{
		cfg:    cfg,
		client: &http.Client{Timeout: cfg.Timeout},
	}
}

// Close releases the session's idle connections. The session must not be
// used after Close.
func (s *Session) Close() {
	s.client.CloseIdleConnections()
}

// Get issues an HTTP GET against the given endpoint path and returns the raw
// JSON body of a successful response.
//
// Retry policy: transient failures (network errors, timeouts of a single
// attempt, HTTP 429 and 5xx) are retried up to cfg.MaxAttempts total
// attempts with exponential backoff (RetryBaseDelay doubling per attempt).
// Non-retryable 4xx responses surface immediately as KindUpstreamRequest.
// Exhausted retries surface as KindServiceUnavailable wrapping the last
// failure. A cancelled or expired ctx aborts the call, including mid-backoff,
// with KindTimeout.
func (s *Session) Get(ctx context.Context, endpoint string, params url.Values) (json.RawMessage, error) {
	reqURL := s.cfg.BaseURL + endpoint
	if len(params) > 0 {
		reqURL += "?" + params.Encode()
	}

	var lastErr error
	for attempt := 1; attempt <= s.cfg.MaxAttempts; attempt++ {
		if attempt > 1 {
			// Backoff grows 1s, 2s, 4s... and remains cancellable.
			delay := s.cfg.RetryBaseDelay << (attempt - 2)
			if err := sleepCtx(ctx, delay); err != nil {
				return nil, err
			}
		}

		body, retryable, err := s.attempt(ctx, reqURL)
		if err == nil {
			return body, nil
		}
		if !retryable {
			return nil, err
		}
		lastErr = err
	}

	return nil, &Error{
		Kind: KindServiceUnavailable,
		Msg:  fmt.Sprintf("giving up after %d attempts", s.cfg.MaxAttempts),
		Err:  lastErr,
	}
}

// attempt performs a single GET. The second return value reports whether the
// failure is transient and the caller may retry.
func (s *Session) attempt(ctx context.Context, reqURL string) (json.RawMessage, bool, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, false, &Error{Kind: KindUpstreamRequest, Msg: "building request", Err: err}
	}
	s.setHeaders(req)

	resp, err := s.client.Do(req)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, false, &Error{Kind: KindTimeout, Msg: "request aborted", Err: ctxErr}
		}
		// Connection failures and per-attempt timeouts are transient.
		return nil, true, &Error{Kind: KindServiceUnavailable, Msg: "request failed", Err: err}
	}
	defer resp.Body.Close()

	buf := gc.Default.Get()
	defer func() {
		buf.Reset()
		gc.Default.Put(buf)
	}()
	if _, err := buf.ReadFrom(resp.Body); err != nil {
		return nil, true, &Error{Kind: KindServiceUnavailable, Msg: "reading response body", Err: err}
	}

	switch {
	case resp.StatusCode >= 200 && resp.StatusCode < 300:
		if !json.Valid(buf.Bytes()) && len(buf.Bytes()) > 0 {
			return nil, false, &Error{
				Kind:   KindMalformedResponse,
				Status: resp.StatusCode,
				Msg:    fmt.Sprintf("invalid JSON body: %s", truncate(string(buf.Bytes()), maxErrorBodyBytes)),
			}
		}
		// The buffer returns to the pool; hand the caller its own copy.
		body := make(json.RawMessage, len(buf.Bytes()))
		copy(body, buf.Bytes())
		return body, false, nil

	case resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500:
		return nil, true, &Error{
			Kind:   KindServiceUnavailable,
			Status: resp.StatusCode,
			Msg:    fmt.Sprintf("upstream returned %d", resp.StatusCode),
		}

	default:
		return nil, false, &Error{
			Kind:   KindUpstreamRequest,
			Status: resp.StatusCode,
			Msg:    fmt.Sprintf("upstream returned %d: %s", resp.StatusCode, truncate(string(buf.Bytes()), maxErrorBodyBytes)),
		}
	}
}

// setHeaders applies the header set the EUVD service expects.
func (s *Session) setHeaders(req *http.Request) {
	req.Header.Set("User-Agent", s.cfg.UserAgent)
	req.Header.Set("Accept", "application/json, text/plain, */*")
	req.Header.Set("Accept-Language", "en-US,en;q=0.9")
	req.Header.Set("Referer", DefaultBaseURL+"/")
	req.Header.Set("Origin", DefaultBaseURL)
}

// sleepCtx waits for d or until ctx is done, whichever comes first.
func sleepCtx(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-t.C:
		return nil
	case <-ctx.Done():
		return &Error{Kind: KindTimeout, Msg: "aborted during retry backoff", Err: ctx.Err()}
	}
}

// truncate shortens s to at most n bytes for diagnostics.
func truncate(s string, n int) string {
	s = strings.TrimSpace(s)
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
