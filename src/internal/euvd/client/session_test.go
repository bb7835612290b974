// Copyright (c) 2025 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

package client

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// testSession builds a session against srv with fast retries so the backoff
// does not slow the suite down.
func testSession(srv *httptest.Server, maxAttempts int) *Session {
	return NewSession(Config{
		BaseURL:        srv.URL,
		Timeout:        2 * time.Second,
		MaxAttempts:    maxAttempts,
		RetryBaseDelay: time.Millisecond,
	})
}

func TestGetRetriesTransientFailures(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) < 3 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		w.Write([]byte(`{"ok":true}`))
	}))
	defer srv.Close()

	s := testSession(srv, 3)
	defer s.Close()

	body, err := s.Get(context.Background(), "/api/test", nil)
	require.NoError(t, err)
	assert.JSONEq(t, `{"ok":true}`, string(body))
	assert.Equal(t, int32(3), calls.Load(), "expected two retries before success")
}

func TestGetExhaustsRetries(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	s := testSession(srv, 3)
	defer s.Close()

	_, err := s.Get(context.Background(), "/api/test", nil)
	require.Error(t, err)
	assert.True(t, IsKind(err, KindServiceUnavailable), "expected service_unavailable, got %v", err)
	assert.Equal(t, int32(3), calls.Load(), "every attempt must be spent before giving up")
}

func TestGetRetriesTooManyRequests(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) == 1 {
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}
		w.Write([]byte(`[]`))
	}))
	defer srv.Close()

	s := testSession(srv, 3)
	defer s.Close()

	_, err := s.Get(context.Background(), "/api/test", nil)
	require.NoError(t, err)
	assert.Equal(t, int32(2), calls.Load(), "429 must be retried")
}

func TestGetClientErrorDoesNotRetry(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte("bad request"))
	}))
	defer srv.Close()

	s := testSession(srv, 3)
	defer s.Close()

	_, err := s.Get(context.Background(), "/api/test", nil)
	require.Error(t, err)
	assert.True(t, IsKind(err, KindUpstreamRequest), "expected upstream_request, got %v", err)
	assert.Equal(t, int32(1), calls.Load(), "4xx responses must not be retried")

	var ce *Error
	require.ErrorAs(t, err, &ce)
	assert.Equal(t, http.StatusBadRequest, ce.Status)
}

func TestGetInvalidJSONBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("<html>not json</html>"))
	}))
	defer srv.Close()

	s := testSession(srv, 3)
	defer s.Close()

	_, err := s.Get(context.Background(), "/api/test", nil)
	require.Error(t, err)
	assert.True(t, IsKind(err, KindMalformedResponse), "expected malformed_response, got %v", err)
}

func TestGetAbortsDuringBackoff(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	s := NewSession(Config{
		BaseURL:        srv.URL,
		Timeout:        2 * time.Second,
		MaxAttempts:    3,
		RetryBaseDelay: 500 * time.Millisecond,
	})
	defer s.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	start := time.Now()
	_, err := s.Get(ctx, "/api/test", nil)
	require.Error(t, err)
	assert.True(t, IsKind(err, KindTimeout), "expected timeout, got %v", err)
	assert.Less(t, time.Since(start), 450*time.Millisecond, "cancellation must interrupt the backoff wait")
}

func TestGetSendsBrowserHeaders(t *testing.T) {
	var gotUA, gotAccept string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUA = r.Header.Get("User-Agent")
		gotAccept = r.Header.Get("Accept")
		w.Write([]byte(`[]`))
	}))
	defer srv.Close()

	s := testSession(srv, 1)
	defer s.Close()

	_, err := s.Get(context.Background(), "/api/test", nil)
	require.NoError(t, err)
	assert.Contains(t, gotUA, "Mozilla/5.0", "default agent must look like a browser")
	assert.Contains(t, gotAccept, "application/json")
}

func TestGetEncodesQueryParams(t *testing.T) {
	var gotQuery string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.RawQuery
		w.Write([]byte(`[]`))
	}))
	defer srv.Close()

	s := testSession(srv, 1)
	defer s.Close()

	_, err := s.Get(context.Background(), "/api/search", singleParam("id", "EUVD-2024-45012"))
	require.NoError(t, err)
	assert.Equal(t, "id=EUVD-2024-45012", gotQuery)
}

func TestConfigWithDefaults(t *testing.T) {
	cfg := Config{}.withDefaults()

	assert.Equal(t, DefaultBaseURL, cfg.BaseURL)
	assert.Equal(t, defaultTimeout, cfg.Timeout)
	assert.Equal(t, defaultMaxAttempts, cfg.MaxAttempts)
	assert.Equal(t, defaultRetryDelay, cfg.RetryBaseDelay)
	assert.NotEmpty(t, cfg.UserAgent)

	custom := Config{BaseURL: "https://example.test", MaxAttempts: 5}.withDefaults()
	assert.Equal(t, "https://example.test", custom.BaseURL)
	assert.Equal(t, 5, custom.MaxAttempts)
}
