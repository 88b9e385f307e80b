package httpclient

import (
	"context"

	"github.com/biograph-labs/episteme/core"
	"github.com/biograph-labs/episteme/pkg/metrics"
)

// Graph is the HTTP client for the knowledge-graph service.
type Graph struct {
	caller *caller
}

// NewGraph creates a graph client against baseURL.
func NewGraph(baseURL string, cfg Config, m *metrics.Metrics) *Graph {
	return &Graph{caller: newCaller("graph", baseURL, cfg, m)}
}

func (g *Graph) FindDisconnectedClusters(ctx context.Context, criteria map[string]string) ([]core.ClusterPair, error) {
	var pairs []core.ClusterPair
	if _, err := g.caller.post(ctx, "/find_disconnected_clusters", criteria, &pairs); err != nil {
		return nil, err
	}
	return pairs, nil
}

func (g *Graph) FindLatentBridges(ctx context.Context, sourceID, targetID string) ([]core.GeneticTarget, error) {
	payload := map[string]string{
		"source_cluster_id": sourceID,
		"target_cluster_id": targetID,
	}
	var targets []core.GeneticTarget
	if _, err := g.caller.post(ctx, "/find_latent_bridges", payload, &targets); err != nil {
		return nil, err
	}
	return targets, nil
}
