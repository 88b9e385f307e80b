// Package httpclient implements the collaborator ports over HTTP JSON
// contracts. Every service client shares the same transport: a circuit
// breaker, client-side rate limiting, bounded retry, and request
// metrics.
package httpclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/biograph-labs/episteme/core"
	"github.com/biograph-labs/episteme/pkg/limiter"
	"github.com/biograph-labs/episteme/pkg/metrics"
)

// Config holds the shared client settings.
type Config struct {
	Timeout time.Duration
	Guard   limiter.Config
}

// DefaultConfig returns the transport defaults.
func DefaultConfig() Config {
	return Config{
		Timeout: 30 * time.Second,
		Guard:   limiter.DefaultConfig(),
	}
}

// caller is the shared HTTP plumbing behind every service client.
type caller struct {
	http    *http.Client
	baseURL string
	service string
	guard   *limiter.Guard
	metrics *metrics.Metrics
}

func newCaller(service, baseURL string, cfg Config, m *metrics.Metrics) *caller {
	if m == nil {
		m = metrics.New(prometheus.NewRegistry())
	}
	return &caller{
		http:    &http.Client{Timeout: cfg.Timeout},
		baseURL: baseURL,
		service: service,
		guard:   limiter.NewGuard(service, cfg.Guard),
		metrics: m,
	}
}

// post sends payload to baseURL+path and decodes the JSON response into
// out (skipped when out is nil). A 404 reports found=false with no
// error; other non-2xx statuses fail, 4xx permanently.
func (c *caller) post(ctx context.Context, path string, payload, out any) (found bool, err error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return false, fmt.Errorf("%s: encode request: %w", c.service, err)
	}

	start := time.Now()
	found = true
	err = c.guard.Do(ctx, func(ctx context.Context) error {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(body))
		if err != nil {
			return limiter.Permanent(err)
		}
		req.Header.Set("Content-Type", "application/json")

		resp, err := c.http.Do(req)
		if err != nil {
			return fmt.Errorf("%w: %s%s: %v", core.ErrUnavailable, c.service, path, err)
		}
		defer resp.Body.Close()

		switch {
		case resp.StatusCode == http.StatusNotFound:
			found = false
			return nil
		case resp.StatusCode >= 500 || resp.StatusCode == http.StatusTooManyRequests:
			return fmt.Errorf("%w: %s%s: status %d", core.ErrUnavailable, c.service, path, resp.StatusCode)
		case resp.StatusCode >= 400:
			return limiter.Permanent(fmt.Errorf("%w: %s%s: status %d", core.ErrUnavailable, c.service, path, resp.StatusCode))
		}

		if out == nil {
			_, _ = io.Copy(io.Discard, resp.Body)
			return nil
		}
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return limiter.Permanent(fmt.Errorf("%s%s: decode response: %w", c.service, path, err))
		}
		return nil
	})

	if c.metrics != nil {
		status := "ok"
		if err != nil {
			status = "error"
		}
		c.metrics.ObserveCollaborator(c.service, status, time.Since(start))
	}
	return found, err
}
