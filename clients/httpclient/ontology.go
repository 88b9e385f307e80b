package httpclient

import (
	"context"
	"time"

	"github.com/biograph-labs/episteme/core"
	"github.com/biograph-labs/episteme/pkg/cache"
	"github.com/biograph-labs/episteme/pkg/metrics"
)

// Ontology is the HTTP client for the ontology service. Target
// validation results are memoized: the same symbol is looked up many
// times across refinement retries and gaps.
type Ontology struct {
	caller *caller
	cache  *cache.TTL[string, *core.GeneticTarget]
}

// NewOntology creates an ontology client against baseURL.
func NewOntology(baseURL string, cfg Config, m *metrics.Metrics) (*Ontology, error) {
	c, err := cache.NewTTL[string, *core.GeneticTarget](1024, 10*time.Minute)
	if err != nil {
		return nil, err
	}
	return &Ontology{caller: newCaller("ontology", baseURL, cfg, m), cache: c}, nil
}

func (o *Ontology) ValidateTarget(ctx context.Context, symbol string) (*core.GeneticTarget, error) {
	if cached, ok := o.cache.Get(symbol); ok {
		if cached == nil {
			return nil, nil
		}
		copied := *cached
		return &copied, nil
	}

	var target core.GeneticTarget
	found, err := o.caller.post(ctx, "/validate_target", map[string]string{"symbol": symbol}, &target)
	if err != nil {
		return nil, err
	}
	if !found {
		o.cache.Set(symbol, nil)
		return nil, nil
	}

	stored := target
	o.cache.Set(symbol, &stored)
	return &target, nil
}

func (o *Ontology) SemanticSimilarity(ctx context.Context, entityA, entityB string) (float64, error) {
	payload := map[string]string{"entity1": entityA, "entity2": entityB}
	var similarity float64
	if _, err := o.caller.post(ctx, "/get_semantic_similarity", payload, &similarity); err != nil {
		return 0, err
	}
	return similarity, nil
}
