// Package health probes the service health endpoint. Deploys poll it
// until the service answers with a 2xx status or the attempt budget
// runs out.
package health

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/jheysaaz/snippy-backend-sub001/internal/config"
	opserrors "github.com/jheysaaz/snippy-backend-sub001/internal/errors"
)

// Checker polls a health endpoint.
type Checker struct {
	// OnAttempt is called after every probe with the attempt number
	// and its result. Optional.
	OnAttempt func(attempt int, err error)

	client   *http.Client
	url      string
	attempts int
	interval time.Duration
}

// NewChecker builds a Checker from the health configuration.
func NewChecker(cfg config.HealthConfig) (*Checker, error) {
	interval, err := cfg.IntervalDuration()
	if err != nil {
		return nil, fmt.Errorf("invalid health interval: %w", err)
	}
	if cfg.Attempts < 1 {
		return nil, opserrors.Validation("health attempts must be at least 1")
	}

	return &Checker{
		client:   &http.Client{Timeout: interval},
		url:      cfg.URL,
		attempts: cfg.Attempts,
		interval: interval,
	}, nil
}

// URL returns the probed endpoint.
func (c *Checker) URL() string {
	return c.url
}

// Check performs a single probe. Any 2xx response counts as healthy.
func (c *Checker) Check(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.url, nil)
	if err != nil {
		return fmt.Errorf("invalid health URL: %w", err)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return err
	}
	defer func() { _ = resp.Body.Close() }()
	_, _ = io.Copy(io.Discard, resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("health endpoint returned %s", resp.Status)
	}
	return nil
}

// Wait polls the endpoint until it reports healthy, the attempt budget
// is exhausted, or ctx is cancelled. It returns the number of attempts
// made.
func (c *Checker) Wait(ctx context.Context) (int, error) {
	var lastErr error
	for attempt := 1; attempt <= c.attempts; attempt++ {
		lastErr = c.Check(ctx)
		if c.OnAttempt != nil {
			c.OnAttempt(attempt, lastErr)
		}
		if lastErr == nil {
			return attempt, nil
		}
		if ctx.Err() != nil {
			return attempt, ctx.Err()
		}
		if attempt == c.attempts {
			break
		}

		timer := time.NewTimer(c.interval)
		select {
		case <-ctx.Done():
			timer.Stop()
			return attempt, ctx.Err()
		case <-timer.C:
		}
	}

	msg := fmt.Sprintf("service did not become healthy after %d attempts", c.attempts)
	return c.attempts, opserrors.Wrap(opserrors.ErrCodeHealth, msg, lastErr)
}
