package review

import (
	"context"
	"fmt"

	"github.com/biograph-labs/episteme/core"
)

// asCritiques wraps raw findings from a collaborator into Critique values
// with a shared source and severity. Always returns a non-nil slice.
func asCritiques(items []string, source string, severity core.CritiqueSeverity) []core.Critique {
	out := make([]core.Critique, 0, len(items))
	for _, item := range items {
		out = append(out, core.Critique{Source: source, Content: item, Severity: severity})
	}
	return out
}

// Toxicology is the safety reviewer. Any finding from the toxicology
// screen disqualifies the target, so all findings are FATAL.
type Toxicology struct {
	Simulation core.SimulationClient
}

func (t *Toxicology) Name() string { return "Toxicologist" }

func (t *Toxicology) Review(ctx context.Context, h *core.Hypothesis) ([]core.Critique, error) {
	risks, err := t.Simulation.ToxicologyScreen(ctx, h.TargetCandidate)
	if err != nil {
		return nil, err
	}
	return asCritiques(risks, t.Name(), core.SeverityFatal), nil
}

// ClinicalRedundancy checks whether the mechanism duplicates an existing
// clinical intervention. Findings are MEDIUM: worth recording, not
// disqualifying.
type ClinicalRedundancy struct {
	Simulation core.SimulationClient
}

func (c *ClinicalRedundancy) Name() string { return "Clinician" }

func (c *ClinicalRedundancy) Review(ctx context.Context, h *core.Hypothesis) ([]core.Critique, error) {
	redundancies, err := c.Simulation.ClinicalRedundancy(ctx, h.ProposedMechanism, h.TargetCandidate)
	if err != nil {
		return nil, err
	}
	return asCritiques(redundancies, c.Name(), core.SeverityMedium), nil
}

// Patent checks freedom to operate. Conflicts are HIGH severity.
type Patent struct {
	Literature core.LiteratureClient
}

func (p *Patent) Name() string { return "IP Strategist" }

func (p *Patent) Review(ctx context.Context, h *core.Hypothesis) ([]core.Critique, error) {
	conflicts, err := p.Literature.PatentConflicts(ctx, h.TargetCandidate, h.ProposedMechanism)
	if err != nil {
		return nil, err
	}
	return asCritiques(conflicts, p.Name(), core.SeverityHigh), nil
}

// Skeptic runs the null-hypothesis check: published evidence that the
// target does not affect the gap disqualifies the candidate.
type Skeptic struct {
	Literature core.LiteratureClient
}

func (s *Skeptic) Name() string { return "Scientific Skeptic" }

func (s *Skeptic) Review(ctx context.Context, h *core.Hypothesis) ([]core.Critique, error) {
	evidence, err := s.Literature.FindDisconfirmingEvidence(ctx, h.TargetCandidate.Symbol, h.KnowledgeGap, "affect")
	if err != nil {
		return nil, err
	}
	formatted := make([]string, 0, len(evidence))
	for _, e := range evidence {
		formatted = append(formatted, fmt.Sprintf("Disconfirming evidence found: %s", e))
	}
	return asCritiques(formatted, s.Name(), core.SeverityFatal), nil
}

// DefaultStrategies returns the standard council in its canonical order.
func DefaultStrategies(sim core.SimulationClient, lit core.LiteratureClient) []core.ReviewStrategy {
	return []core.ReviewStrategy{
		&Toxicology{Simulation: sim},
		&ClinicalRedundancy{Simulation: sim},
		&Patent{Literature: lit},
		&Skeptic{Literature: lit},
	}
}
