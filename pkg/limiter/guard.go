// Package limiter protects collaborator calls with a circuit breaker,
// a client-side rate limit, and bounded retry with backoff.
package limiter

import (
	"context"
	"errors"
	"fmt"
	"math"
	"math/rand"
	"time"

	"github.com/sony/gobreaker"
	"golang.org/x/time/rate"
)

// Config holds the per-service protection settings.
type Config struct {
	// Breaker
	MaxRequests uint32        // probes allowed while half-open
	Interval    time.Duration // closed-state count reset window
	Timeout     time.Duration // open-state cool-down

	// Rate limit
	RequestsPerSecond float64
	Burst             int

	// Retry
	MaxRetries    int
	BaseDelay     time.Duration
	MaxDelay      time.Duration
	BackoffFactor float64
	Jitter        bool
}

// DefaultConfig returns conservative defaults for an external knowledge
// service.
func DefaultConfig() Config {
	return Config{
		MaxRequests:       3,
		Interval:          10 * time.Second,
		Timeout:           30 * time.Second,
		RequestsPerSecond: 20,
		Burst:             10,
		MaxRetries:        2,
		BaseDelay:         100 * time.Millisecond,
		MaxDelay:          5 * time.Second,
		BackoffFactor:     2.0,
		Jitter:            true,
	}
}

// PermanentError marks an error as non-retryable. The breaker still
// counts it as a failure.
type PermanentError struct {
	Err error
}

func (e *PermanentError) Error() string { return e.Err.Error() }
func (e *PermanentError) Unwrap() error { return e.Err }

// Permanent wraps err so the guard will not retry it.
func Permanent(err error) error {
	if err == nil {
		return nil
	}
	return &PermanentError{Err: err}
}

// Guard wraps calls to a single collaborator service.
type Guard struct {
	name    string
	breaker *gobreaker.CircuitBreaker
	limiter *rate.Limiter
	cfg     Config
}

// NewGuard creates a guard for the named service.
func NewGuard(name string, cfg Config) *Guard {
	breaker := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        name,
		MaxRequests: cfg.MaxRequests,
		Interval:    cfg.Interval,
		Timeout:     cfg.Timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.Requests >= 5 && float64(counts.TotalFailures)/float64(counts.Requests) >= 0.5
		},
	})
	return &Guard{
		name:    name,
		breaker: breaker,
		limiter: rate.NewLimiter(rate.Limit(cfg.RequestsPerSecond), cfg.Burst),
		cfg:     cfg,
	}
}

// Do runs fn behind the rate limiter and breaker, retrying transient
// failures with exponential backoff.
func (g *Guard) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	var lastErr error

	for attempt := 0; attempt <= g.cfg.MaxRetries; attempt++ {
		if err := g.limiter.Wait(ctx); err != nil {
			return err
		}

		_, err := g.breaker.Execute(func() (interface{}, error) {
			return nil, fn(ctx)
		})
		if err == nil {
			return nil
		}
		lastErr = err

		var perm *PermanentError
		if errors.As(err, &perm) {
			return perm.Err
		}
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			return fmt.Errorf("%s: %w", g.name, err)
		}
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return err
		}
		if attempt == g.cfg.MaxRetries {
			break
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(g.delay(attempt)):
		}
	}

	return fmt.Errorf("%s: retries exhausted: %w", g.name, lastErr)
}

func (g *Guard) delay(attempt int) time.Duration {
	d := float64(g.cfg.BaseDelay) * math.Pow(g.cfg.BackoffFactor, float64(attempt))
	if max := float64(g.cfg.MaxDelay); d > max {
		d = max
	}
	if g.cfg.Jitter {
		d *= 0.5 + rand.Float64()/2
	}
	return time.Duration(d)
}
