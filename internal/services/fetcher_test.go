package services

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
)

func testPolicy() Policy {
	return Policy{MaxRetries: 3, RetryDelay: time.Millisecond}
}

func TestFetcherRetryBoundOnRateLimit(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer srv.Close()

	f := NewFetcher("test", time.Second, clockwork.NewRealClock())
	var out map[string]any
	err := f.GetJSON(context.Background(), srv.URL, testPolicy(), &out)
	if err == nil {
		t.Fatal("expected error after exhausting retries")
	}
	if !errors.Is(err, ErrRateLimited) {
		t.Fatalf("expected ErrRateLimited, got %v", err)
	}
	if !strings.Contains(err.Error(), "rate limit") {
		t.Fatalf("expected rate limit message, got %q", err.Error())
	}
	if got := atomic.LoadInt32(&calls); got != 3 {
		t.Fatalf("expected exactly 3 attempts, got %d", got)
	}
}

func TestFetcherRateLimitedThenSuccess(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&calls, 1) <= 2 {
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}
		_, _ = w.Write([]byte(`{"ok":true}`))
	}))
	defer srv.Close()

	f := NewFetcher("test", time.Second, clockwork.NewRealClock())
	var out map[string]any
	if err := f.GetJSON(context.Background(), srv.URL, testPolicy(), &out); err != nil {
		t.Fatalf("expected success after transient 429s, got %v", err)
	}
	if got := atomic.LoadInt32(&calls); got != 3 {
		t.Fatalf("expected 3 attempts (2 rate limited + 1 success), got %d", got)
	}
	if out["ok"] != true {
		t.Fatalf("unexpected payload: %v", out)
	}
}

func TestFetcherGenericErrorNotRetried(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusBadGateway)
		_, _ = w.Write([]byte(`{"message":"upstream exploded"}`))
	}))
	defer srv.Close()

	f := NewFetcher("test", time.Second, clockwork.NewRealClock())
	var out map[string]any
	err := f.GetJSON(context.Background(), srv.URL, testPolicy(), &out)
	if err == nil {
		t.Fatal("expected error")
	}
	var upErr *UpstreamError
	if !errors.As(err, &upErr) {
		t.Fatalf("expected UpstreamError, got %v", err)
	}
	if upErr.Status != http.StatusBadGateway {
		t.Fatalf("unexpected status: %d", upErr.Status)
	}
	if !strings.Contains(upErr.Body, "upstream exploded") {
		t.Fatalf("expected upstream body in error, got %q", upErr.Body)
	}
	if got := atomic.LoadInt32(&calls); got != 1 {
		t.Fatalf("generic errors must not be retried by default, got %d attempts", got)
	}
}

func TestFetcherGenericErrorRetriedWhenEnabled(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&calls, 1) <= 2 {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		_, _ = w.Write([]byte(`{"ok":true}`))
	}))
	defer srv.Close()

	f := NewFetcher("test", time.Second, clockwork.NewRealClock())
	p := testPolicy()
	p.RetryOnGenericError = true
	var out map[string]any
	if err := f.GetJSON(context.Background(), srv.URL, p, &out); err != nil {
		t.Fatalf("expected success, got %v", err)
	}
	if got := atomic.LoadInt32(&calls); got != 3 {
		t.Fatalf("expected 3 attempts, got %d", got)
	}
}

func TestRetryDelayStrategies(t *testing.T) {
	base := 10 * time.Millisecond
	cases := []struct {
		backoff Backoff
		attempt int
		want    time.Duration
	}{
		{BackoffFixed, 1, base},
		{BackoffFixed, 3, base},
		{BackoffLinear, 2, 2 * base},
		{BackoffLinear, 3, 3 * base},
		{BackoffExponential, 1, base},
		{BackoffExponential, 3, 4 * base},
	}
	for _, c := range cases {
		p := Policy{RetryDelay: base, Backoff: c.backoff}
		if got := retryDelay(p, c.attempt); got != c.want {
			t.Fatalf("backoff %d attempt %d: expected %v, got %v", c.backoff, c.attempt, got, c.want)
		}
	}
}
