package services

import (
	"context"
	"encoding/json"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/sirupsen/logrus"
)

// Sub describes one leg of a sequential collection: a name to file the result
// under and the full upstream URL to fetch.
type Sub struct {
	Name   string
	URL    string
	Policy Policy
}

// Collector assembles a multi-part result from a provider that has no batch
// endpoint and enforces a low requests-per-minute ceiling. Legs run strictly
// one at a time with an inter-request delay before every leg after the first;
// concurrent dispatch would trip the provider's rate limiting immediately.
type Collector struct {
	fetcher *Fetcher
	delay   time.Duration
	clock   clockwork.Clock
	log     *logrus.Entry
}

func NewCollector(fetcher *Fetcher, delay time.Duration) *Collector {
	return &Collector{
		fetcher: fetcher,
		delay:   delay,
		clock:   fetcher.clock,
		log:     fetcher.log,
	}
}

// Collect fetches every sub-resource in order. A leg that fails after the
// fetcher's own retries is recorded as JSON null and the remaining legs still
// run; the aggregate itself only fails on context cancellation.
func (c *Collector) Collect(ctx context.Context, subs []Sub) (map[string]json.RawMessage, error) {
	out := make(map[string]json.RawMessage, len(subs))
	for i, sub := range subs {
		if i > 0 {
			if err := c.wait(ctx); err != nil {
				return out, err
			}
		}
		var raw json.RawMessage
		if err := c.fetcher.GetJSON(ctx, sub.URL, sub.Policy, &raw); err != nil {
			if ctx.Err() != nil {
				return out, ctx.Err()
			}
			c.log.WithError(err).WithField("sub", sub.Name).Warn("sub-fetch failed, recording null")
			out[sub.Name] = json.RawMessage("null")
			continue
		}
		out[sub.Name] = raw
	}
	return out, nil
}

func (c *Collector) wait(ctx context.Context) error {
	if c.delay <= 0 {
		return nil
	}
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-c.clock.After(c.delay):
		return nil
	}
}
