package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/sony/gobreaker/v2"

	"marketlens/backend-go/internal/metrics"
)

// ErrRateLimited marks an upstream fetch that exhausted its retry budget on
// HTTP 429 responses.
var ErrRateLimited = errors.New("rate limit exceeded")

// ErrMissingCredential marks a provider call attempted without its API key
// configured. Never retried, never cached.
var ErrMissingCredential = errors.New("missing provider credential")

type UpstreamError struct {
	Status int
	Body   string
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("upstream status %d: %s", e.Status, e.Body)
}

type Backoff int

const (
	BackoffFixed Backoff = iota
	BackoffLinear
	BackoffExponential
)

// Policy parameterizes one logical upstream fetch. Every call site shares this
// one shape instead of carrying its own retry loop.
type Policy struct {
	MaxRetries          int
	RetryDelay          time.Duration
	Backoff             Backoff
	RetryOnGenericError bool
}

func DefaultPolicy() Policy {
	return Policy{MaxRetries: 3, RetryDelay: 10 * time.Second, Backoff: BackoffFixed}
}

// Fetcher performs resilient JSON requests against one upstream provider.
// Rate-limit responses are retried per policy; non-429 upstream errors
// propagate immediately unless the policy opts into retrying them. Delays run
// through the injected clock so tests can use millisecond policies.
type Fetcher struct {
	provider string
	hc       *http.Client
	clock    clockwork.Clock
	cb       *gobreaker.CircuitBreaker[*http.Response]
	log      *logrus.Entry
}

func NewFetcher(provider string, timeout time.Duration, clock clockwork.Clock) *Fetcher {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	log := logrus.WithField("provider", provider)
	cb := gobreaker.NewCircuitBreaker[*http.Response](gobreaker.Settings{
		Name:    provider,
		Timeout: 30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			log.WithFields(logrus.Fields{"from": from.String(), "to": to.String()}).Warn("circuit breaker state change")
		},
	})
	return &Fetcher{
		provider: provider,
		hc:       &http.Client{Timeout: timeout},
		clock:    clock,
		cb:       cb,
		log:      log,
	}
}

func (f *Fetcher) GetJSON(ctx context.Context, url string, p Policy, out any) error {
	return f.fetch(ctx, http.MethodGet, url, nil, nil, p, out)
}

func (f *Fetcher) PostJSON(ctx context.Context, url string, body []byte, header http.Header, p Policy, out any) error {
	return f.fetch(ctx, http.MethodPost, url, body, header, p, out)
}

func (f *Fetcher) fetch(ctx context.Context, method, url string, body []byte, header http.Header, p Policy, out any) error {
	if p.MaxRetries <= 0 {
		p.MaxRetries = 1
	}
	var lastErr error
	for attempt := 1; attempt <= p.MaxRetries; attempt++ {
		status, err := f.do(ctx, method, url, body, header, out)
		if err == nil {
			return nil
		}
		lastErr = err

		switch {
		case status == http.StatusTooManyRequests:
			metrics.UpstreamRateLimited.WithLabelValues(f.provider).Inc()
			f.log.WithFields(logrus.Fields{"attempt": attempt, "max": p.MaxRetries}).Warn("upstream rate limited")
			if attempt == p.MaxRetries {
				return errors.Wrapf(ErrRateLimited, "%s: gave up after %d attempts", f.provider, attempt)
			}
		case status != 0:
			// Upstream answered with a non-429 error. These rarely heal
			// within a retry window, so the platform default is to propagate.
			if !p.RetryOnGenericError {
				return err
			}
			if attempt == p.MaxRetries {
				return lastErr
			}
		default:
			// Transport-level failure (DNS, timeout, open breaker).
			f.log.WithError(err).WithField("attempt", attempt).Warn("upstream request failed")
			if attempt == p.MaxRetries {
				return lastErr
			}
		}

		if err := f.wait(ctx, retryDelay(p, attempt)); err != nil {
			return err
		}
	}
	return lastErr
}

// do performs a single attempt. The returned status is zero when the request
// never produced an HTTP response.
func (f *Fetcher) do(ctx context.Context, method, url string, body []byte, header http.Header, out any) (int, error) {
	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, url, reader)
	if err != nil {
		return 0, errors.Wrap(err, f.provider)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for k, vs := range header {
		for _, v := range vs {
			req.Header.Add(k, v)
		}
	}

	metrics.UpstreamAttempts.WithLabelValues(f.provider).Inc()
	res, err := f.cb.Execute(func() (*http.Response, error) {
		return f.hc.Do(req)
	})
	if err != nil {
		return 0, errors.Wrap(err, f.provider)
	}
	defer res.Body.Close()

	if res.StatusCode == http.StatusTooManyRequests {
		_, _ = io.Copy(io.Discard, io.LimitReader(res.Body, 4096))
		return res.StatusCode, &UpstreamError{Status: res.StatusCode, Body: "rate limited"}
	}
	if res.StatusCode >= 300 {
		b, _ := io.ReadAll(io.LimitReader(res.Body, 4096))
		return res.StatusCode, &UpstreamError{Status: res.StatusCode, Body: string(b)}
	}
	if out == nil {
		return res.StatusCode, nil
	}
	if err := json.NewDecoder(res.Body).Decode(out); err != nil {
		return res.StatusCode, &UpstreamError{Status: res.StatusCode, Body: "invalid json: " + err.Error()}
	}
	return 0, nil
}

func (f *Fetcher) wait(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-f.clock.After(d):
		return nil
	}
}

func retryDelay(p Policy, attempt int) time.Duration {
	switch p.Backoff {
	case BackoffLinear:
		return p.RetryDelay * time.Duration(attempt)
	case BackoffExponential:
		return p.RetryDelay << (attempt - 1)
	default:
		return p.RetryDelay
	}
}
