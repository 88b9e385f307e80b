// Package testkit provides scripted collaborator fakes shared by the
// component and engine tests.
package testkit

import (
	"context"
	"sync"

	"github.com/biograph-labs/episteme/core"
)

// GraphStub implements core.GraphClient with function fields. Unset
// fields answer with empty results.
type GraphStub struct {
	FindLatentBridgesFunc        func(ctx context.Context, sourceID, targetID string) ([]core.GeneticTarget, error)
	FindDisconnectedClustersFunc func(ctx context.Context, criteria map[string]string) ([]core.ClusterPair, error)

	mu          sync.Mutex
	BridgeCalls int
}

func (g *GraphStub) FindLatentBridges(ctx context.Context, sourceID, targetID string) ([]core.GeneticTarget, error) {
	g.mu.Lock()
	g.BridgeCalls++
	g.mu.Unlock()
	if g.FindLatentBridgesFunc == nil {
		return nil, nil
	}
	return g.FindLatentBridgesFunc(ctx, sourceID, targetID)
}

func (g *GraphStub) FindDisconnectedClusters(ctx context.Context, criteria map[string]string) ([]core.ClusterPair, error) {
	if g.FindDisconnectedClustersFunc == nil {
		return nil, nil
	}
	return g.FindDisconnectedClustersFunc(ctx, criteria)
}

// OntologyStub implements core.OntologyClient.
type OntologyStub struct {
	ValidateTargetFunc     func(ctx context.Context, symbol string) (*core.GeneticTarget, error)
	SemanticSimilarityFunc func(ctx context.Context, a, b string) (float64, error)
}

func (o *OntologyStub) ValidateTarget(ctx context.Context, symbol string) (*core.GeneticTarget, error) {
	if o.ValidateTargetFunc == nil {
		return nil, nil
	}
	return o.ValidateTargetFunc(ctx, symbol)
}

func (o *OntologyStub) SemanticSimilarity(ctx context.Context, a, b string) (float64, error) {
	if o.SemanticSimilarityFunc == nil {
		return 0, nil
	}
	return o.SemanticSimilarityFunc(ctx, a, b)
}

// DruggabilityStub implements core.DruggabilityClient.
type DruggabilityStub struct {
	ScoreFunc func(ctx context.Context, targetID string) (float64, error)

	mu    sync.Mutex
	Calls []string
}

func (d *DruggabilityStub) Score(ctx context.Context, targetID string) (float64, error) {
	d.mu.Lock()
	d.Calls = append(d.Calls, targetID)
	d.mu.Unlock()
	if d.ScoreFunc == nil {
		return 0, nil
	}
	return d.ScoreFunc(ctx, targetID)
}

// LiteratureStub implements core.LiteratureClient.
type LiteratureStub struct {
	VerifyCitationFunc            func(ctx context.Context, claim string) (bool, error)
	FindDisconfirmingEvidenceFunc func(ctx context.Context, subject, object, action string) ([]string, error)
	InconsistenciesFunc           func(ctx context.Context, topic string) ([]core.KnowledgeGap, error)
	PatentConflictsFunc           func(ctx context.Context, target core.GeneticTarget, mechanism string) ([]string, error)

	mu             sync.Mutex
	VerifiedClaims []string
}

func (l *LiteratureStub) VerifyCitation(ctx context.Context, claim string) (bool, error) {
	l.mu.Lock()
	l.VerifiedClaims = append(l.VerifiedClaims, claim)
	l.mu.Unlock()
	if l.VerifyCitationFunc == nil {
		return true, nil
	}
	return l.VerifyCitationFunc(ctx, claim)
}

func (l *LiteratureStub) FindDisconfirmingEvidence(ctx context.Context, subject, object, action string) ([]string, error) {
	if l.FindDisconfirmingEvidenceFunc == nil {
		return []string{}, nil
	}
	return l.FindDisconfirmingEvidenceFunc(ctx, subject, object, action)
}

func (l *LiteratureStub) FindLiteratureInconsistencies(ctx context.Context, topic string) ([]core.KnowledgeGap, error) {
	if l.InconsistenciesFunc == nil {
		return nil, nil
	}
	return l.InconsistenciesFunc(ctx, topic)
}

func (l *LiteratureStub) PatentConflicts(ctx context.Context, target core.GeneticTarget, mechanism string) ([]string, error) {
	if l.PatentConflictsFunc == nil {
		return []string{}, nil
	}
	return l.PatentConflictsFunc(ctx, target, mechanism)
}

// SimulationStub implements core.SimulationClient.
type SimulationStub struct {
	PlausibilityFunc func(ctx context.Context, mechanism, target string) (float64, error)
	ToxicologyFunc   func(ctx context.Context, target core.GeneticTarget) ([]string, error)
	RedundancyFunc   func(ctx context.Context, mechanism string, target core.GeneticTarget) ([]string, error)
}

func (s *SimulationStub) CounterfactualPlausibility(ctx context.Context, mechanism, target string) (float64, error) {
	if s.PlausibilityFunc == nil {
		return 1.0, nil
	}
	return s.PlausibilityFunc(ctx, mechanism, target)
}

func (s *SimulationStub) ToxicologyScreen(ctx context.Context, target core.GeneticTarget) ([]string, error) {
	if s.ToxicologyFunc == nil {
		return []string{}, nil
	}
	return s.ToxicologyFunc(ctx, target)
}

func (s *SimulationStub) ClinicalRedundancy(ctx context.Context, mechanism string, target core.GeneticTarget) ([]string, error) {
	if s.RedundancyFunc == nil {
		return []string{}, nil
	}
	return s.RedundancyFunc(ctx, mechanism, target)
}

// SinkRecorder implements core.ProvenanceSink and records every trace it
// receives, in order.
type SinkRecorder struct {
	mu     sync.Mutex
	Err    error
	IDs    []string
	Traces []*core.Trace
}

func (r *SinkRecorder) LogTrace(ctx context.Context, id string, trace *core.Trace) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Err != nil {
		return r.Err
	}
	r.IDs = append(r.IDs, id)
	r.Traces = append(r.Traces, trace)
	return nil
}

// Logged returns the number of traces recorded.
func (r *SinkRecorder) Logged() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.Traces)
}

// Target builds a GeneticTarget with a deterministic Ensembl id.
func Target(symbol string, druggability float64) core.GeneticTarget {
	return core.GeneticTarget{
		Symbol:            symbol,
		EnsemblID:         "ENSG-" + symbol,
		DruggabilityScore: druggability,
		NoveltyScore:      0.5,
	}
}
