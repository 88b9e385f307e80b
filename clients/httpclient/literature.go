package httpclient

import (
	"context"

	"github.com/biograph-labs/episteme/core"
	"github.com/biograph-labs/episteme/pkg/metrics"
)

// Literature is the HTTP client for the literature-search service.
type Literature struct {
	caller *caller
}

// NewLiterature creates a literature client against baseURL.
func NewLiterature(baseURL string, cfg Config, m *metrics.Metrics) *Literature {
	return &Literature{caller: newCaller("literature", baseURL, cfg, m)}
}

func (l *Literature) VerifyCitation(ctx context.Context, claim string) (bool, error) {
	var verified bool
	if _, err := l.caller.post(ctx, "/verify_citation", map[string]string{"interaction_claim": claim}, &verified); err != nil {
		return false, err
	}
	return verified, nil
}

func (l *Literature) FindDisconfirmingEvidence(ctx context.Context, subject, object, action string) ([]string, error) {
	payload := map[string]string{"subject": subject, "object": object, "action": action}
	evidence := []string{}
	if _, err := l.caller.post(ctx, "/find_disconfirming_evidence", payload, &evidence); err != nil {
		return nil, err
	}
	return evidence, nil
}

func (l *Literature) FindLiteratureInconsistencies(ctx context.Context, topic string) ([]core.KnowledgeGap, error) {
	var gaps []core.KnowledgeGap
	if _, err := l.caller.post(ctx, "/find_literature_inconsistency", map[string]string{"topic": topic}, &gaps); err != nil {
		return nil, err
	}
	return gaps, nil
}

func (l *Literature) PatentConflicts(ctx context.Context, target core.GeneticTarget, mechanism string) ([]string, error) {
	payload := map[string]any{
		"target_candidate": target,
		"mechanism":        mechanism,
	}
	conflicts := []string{}
	if _, err := l.caller.post(ctx, "/check_patent_infringement", payload, &conflicts); err != nil {
		return nil, err
	}
	return conflicts, nil
}
