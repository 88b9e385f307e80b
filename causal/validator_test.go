package causal

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/biograph-labs/episteme/core"
	"github.com/biograph-labs/episteme/testkit"
)

func TestValidate_RecordsScoreAndCounterfactual(t *testing.T) {
	var gotMechanism, gotTarget string
	sim := &testkit.SimulationStub{
		PlausibilityFunc: func(ctx context.Context, mechanism, target string) (float64, error) {
			gotMechanism, gotTarget = mechanism, target
			return 0.82, nil
		},
	}

	h := &core.Hypothesis{
		ID:                "hyp-1",
		ProposedMechanism: "Regulation of B via X (bridging from A).",
		TargetCandidate:   testkit.Target("X", 0.9),
	}

	v := NewValidator(sim, nil)
	require.NoError(t, v.Validate(context.Background(), h))

	assert.Equal(t, h.ProposedMechanism, gotMechanism)
	assert.Equal(t, "X", gotTarget)
	assert.Equal(t, 0.82, h.CausalValidationScore)
	assert.Equal(t, "Simulated inhibition of X in context of Regulation of B via X (bridging from A).", h.KeyCounterfactual)
}

func TestValidate_SimulationErrorPropagates(t *testing.T) {
	sim := &testkit.SimulationStub{
		PlausibilityFunc: func(ctx context.Context, mechanism, target string) (float64, error) {
			return 0, errors.New("simulation cluster unavailable")
		},
	}

	h := &core.Hypothesis{ID: "hyp-1", TargetCandidate: testkit.Target("X", 0.9)}
	err := NewValidator(sim, nil).Validate(context.Background(), h)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "simulation cluster unavailable")
	assert.Zero(t, h.CausalValidationScore)
	assert.Empty(t, h.KeyCounterfactual)
}
