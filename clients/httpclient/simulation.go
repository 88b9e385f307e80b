package httpclient

import (
	"context"

	"github.com/biograph-labs/episteme/core"
	"github.com/biograph-labs/episteme/pkg/metrics"
)

// Simulation is the HTTP client for the counterfactual-simulation
// service.
type Simulation struct {
	caller *caller
}

// NewSimulation creates a simulation client against baseURL.
func NewSimulation(baseURL string, cfg Config, m *metrics.Metrics) *Simulation {
	return &Simulation{caller: newCaller("simulation", baseURL, cfg, m)}
}

func (s *Simulation) CounterfactualPlausibility(ctx context.Context, mechanism, interventionTarget string) (float64, error) {
	payload := map[string]string{
		"mechanism":           mechanism,
		"intervention_target": interventionTarget,
	}
	var score float64
	if _, err := s.caller.post(ctx, "/run_counterfactual_simulation", payload, &score); err != nil {
		return 0, err
	}
	return score, nil
}

func (s *Simulation) ToxicologyScreen(ctx context.Context, target core.GeneticTarget) ([]string, error) {
	risks := []string{}
	if _, err := s.caller.post(ctx, "/run_toxicology_screen", map[string]any{"target_candidate": target}, &risks); err != nil {
		return nil, err
	}
	return risks, nil
}

func (s *Simulation) ClinicalRedundancy(ctx context.Context, mechanism string, target core.GeneticTarget) ([]string, error) {
	payload := map[string]any{
		"mechanism":        mechanism,
		"target_candidate": target,
	}
	redundancies := []string{}
	if _, err := s.caller.post(ctx, "/check_clinical_redundancy", payload, &redundancies); err != nil {
		return nil, err
	}
	return redundancies, nil
}
