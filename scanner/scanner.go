// Package scanner detects knowledge gaps: disconnected but semantically
// similar graph clusters, and explicit inconsistencies in the literature.
package scanner

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/biograph-labs/episteme/core"
)

// Config holds the scanner thresholds.
type Config struct {
	// SimilarityThreshold is inclusive: clusters at or above it are
	// considered a meaningful disconnect.
	SimilarityThreshold float64
}

// DefaultConfig returns the scanner defaults.
func DefaultConfig() Config {
	return Config{SimilarityThreshold: 0.75}
}

// Scanner finds the negative space in the knowledge graph.
type Scanner struct {
	graph      core.GraphClient
	ontology   core.OntologyClient
	literature core.LiteratureClient
	cfg        Config
	logger     *zap.Logger
}

// NewScanner creates a gap scanner.
func NewScanner(graph core.GraphClient, ontology core.OntologyClient, literature core.LiteratureClient, cfg Config, logger *zap.Logger) *Scanner {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Scanner{graph: graph, ontology: ontology, literature: literature, cfg: cfg, logger: logger}
}

// Scan returns the gaps found for a disease or target. Symmetric cluster
// pairs (A,B) and (B,A) are reported as separate gaps; deduplication is
// deliberately left to downstream consumers.
func (s *Scanner) Scan(ctx context.Context, target string) ([]core.KnowledgeGap, error) {
	s.logger.Info("scanning for knowledge gaps", zap.String("target", target))
	var gaps []core.KnowledgeGap

	pairs, err := s.graph.FindDisconnectedClusters(ctx, map[string]string{"target": target})
	if err != nil {
		return nil, fmt.Errorf("find disconnected clusters for %s: %w", target, err)
	}

	for _, pair := range pairs {
		if pair.ClusterAID == "" || pair.ClusterBID == "" {
			continue
		}
		similarity, err := s.ontology.SemanticSimilarity(ctx, pair.ClusterAID, pair.ClusterBID)
		if err != nil {
			return nil, fmt.Errorf("semantic similarity %s/%s: %w", pair.ClusterAID, pair.ClusterBID, err)
		}
		if similarity < s.cfg.SimilarityThreshold {
			continue
		}

		s.logger.Info("found high-similarity disconnect",
			zap.String("cluster_a", pair.ClusterAName),
			zap.String("cluster_b", pair.ClusterBName),
			zap.Float64("similarity", similarity),
		)
		gaps = append(gaps, core.KnowledgeGap{
			ID:   fmt.Sprintf("gap-%s", uuid.NewString()),
			Type: core.GapClusterDisconnect,
			Description: fmt.Sprintf("Cluster Disconnect: %s and %s are similar (%v) but unconnected.",
				pair.ClusterAName, pair.ClusterBName, similarity),
			SourceNodes: []string{pair.ClusterAID, pair.ClusterBID},
		})
	}

	litGaps, err := s.literature.FindLiteratureInconsistencies(ctx, target)
	if err != nil {
		return nil, fmt.Errorf("literature inconsistencies for %s: %w", target, err)
	}
	for _, g := range litGaps {
		if g.ID == "" {
			g.ID = fmt.Sprintf("gap-%s", uuid.NewString())
		}
		if g.Type == "" {
			g.Type = core.GapLiteratureInconsistency
		}
		gaps = append(gaps, g)
	}

	s.logger.Info("scan complete", zap.String("target", target), zap.Int("gaps", len(gaps)))
	return gaps, nil
}
