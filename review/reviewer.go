// Package review implements the adversarial review board: an ordered
// set of independent critique strategies run against a hypothesis.
package review

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/biograph-labs/episteme/core"
)

// Board aggregates critiques from an ordered list of strategies.
// Invocation order is preserved in the output; downstream severity
// filtering does not care, but trace readability does.
type Board struct {
	strategies []core.ReviewStrategy
	logger     *zap.Logger
}

// NewBoard creates a review board over the given strategies.
func NewBoard(strategies []core.ReviewStrategy, logger *zap.Logger) *Board {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Board{strategies: strategies, logger: logger}
}

// Review runs every strategy in order and appends the findings to the
// hypothesis. A strategy error is not swallowed here; the engine decides
// whether the whole gap is errored. A strategy returning a nil slice is
// a contract violation and surfaces as core.ErrStrategyContract.
func (b *Board) Review(ctx context.Context, h *core.Hypothesis) error {
	b.logger.Info("convening review board", zap.String("hypothesis_id", h.ID))

	var collected []core.Critique
	for _, s := range b.strategies {
		critiques, err := s.Review(ctx, h)
		if err != nil {
			return fmt.Errorf("strategy %s: %w", s.Name(), err)
		}
		if critiques == nil {
			return fmt.Errorf("strategy %s: %w", s.Name(), core.ErrStrategyContract)
		}
		collected = append(collected, critiques...)
	}

	h.Critiques = append(h.Critiques, collected...)

	if len(collected) == 0 {
		b.logger.Info("hypothesis survived review with no critiques", zap.String("hypothesis_id", h.ID))
	} else {
		b.logger.Info("review complete",
			zap.String("hypothesis_id", h.ID),
			zap.Int("critiques", len(collected)),
		)
	}
	return nil
}
