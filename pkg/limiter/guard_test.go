package limiter

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fastConfig() Config {
	cfg := DefaultConfig()
	cfg.BaseDelay = time.Millisecond
	cfg.MaxDelay = 2 * time.Millisecond
	cfg.Jitter = false
	cfg.RequestsPerSecond = 10000
	cfg.Burst = 100
	return cfg
}

func TestGuard_SuccessFirstTry(t *testing.T) {
	g := NewGuard("graph", fastConfig())

	calls := 0
	err := g.Do(context.Background(), func(ctx context.Context) error {
		calls++
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, 1, calls)
}

func TestGuard_RetriesTransientFailures(t *testing.T) {
	g := NewGuard("graph", fastConfig())

	calls := 0
	err := g.Do(context.Background(), func(ctx context.Context) error {
		calls++
		if calls < 3 {
			return errors.New("503")
		}
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, 3, calls)
}

func TestGuard_ExhaustsRetries(t *testing.T) {
	cfg := fastConfig()
	cfg.MaxRetries = 2
	g := NewGuard("graph", cfg)

	calls := 0
	err := g.Do(context.Background(), func(ctx context.Context) error {
		calls++
		return errors.New("timeout")
	})
	require.Error(t, err)
	assert.Equal(t, 3, calls, "initial attempt plus MaxRetries")
	assert.Contains(t, err.Error(), "retries exhausted")
}

func TestGuard_PermanentErrorNotRetried(t *testing.T) {
	g := NewGuard("ontology", fastConfig())

	sentinel := errors.New("404 unknown symbol")
	calls := 0
	err := g.Do(context.Background(), func(ctx context.Context) error {
		calls++
		return Permanent(sentinel)
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, sentinel)
	assert.Equal(t, 1, calls)
}

func TestGuard_ContextCancellation(t *testing.T) {
	g := NewGuard("graph", fastConfig())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := g.Do(ctx, func(ctx context.Context) error { return nil })
	require.ErrorIs(t, err, context.Canceled)
}

func TestGuard_BreakerOpensAfterFailures(t *testing.T) {
	cfg := fastConfig()
	cfg.MaxRetries = 0
	g := NewGuard("simulation", cfg)

	boom := func(ctx context.Context) error { return errors.New("down") }
	for i := 0; i < 6; i++ {
		_ = g.Do(context.Background(), boom)
	}

	calls := 0
	err := g.Do(context.Background(), func(ctx context.Context) error {
		calls++
		return nil
	})
	require.Error(t, err, "breaker should be open")
	assert.Equal(t, 0, calls, "open breaker short-circuits the call")
}
