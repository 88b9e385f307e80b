// Package causal scores hypotheses by counterfactual simulation.
package causal

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/biograph-labs/episteme/core"
)

// Validator asks the simulation service whether inhibiting the candidate
// target plausibly interrupts the proposed mechanism.
type Validator struct {
	simulation core.SimulationClient
	logger     *zap.Logger
}

// NewValidator creates a causal validator.
func NewValidator(simulation core.SimulationClient, logger *zap.Logger) *Validator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Validator{simulation: simulation, logger: logger}
}

// Validate writes the plausibility score and the key counterfactual
// description onto the hypothesis.
func (v *Validator) Validate(ctx context.Context, h *core.Hypothesis) error {
	v.logger.Info("validating hypothesis", zap.String("hypothesis_id", h.ID))

	target := h.TargetCandidate.Symbol
	score, err := v.simulation.CounterfactualPlausibility(ctx, h.ProposedMechanism, target)
	if err != nil {
		return fmt.Errorf("counterfactual simulation for %s: %w", h.ID, err)
	}

	h.CausalValidationScore = score
	h.KeyCounterfactual = fmt.Sprintf("Simulated inhibition of %s in context of %s", target, h.ProposedMechanism)

	v.logger.Info("validation score recorded",
		zap.String("hypothesis_id", h.ID),
		zap.Float64("score", score),
	)
	return nil
}
