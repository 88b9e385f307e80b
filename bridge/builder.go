// Package bridge implements candidate selection: finding a druggable,
// ontology-validated, citation-backed gene that connects the two ends
// of a knowledge gap.
package bridge

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/biograph-labs/episteme/core"
)

// Config holds the builder's selection thresholds.
type Config struct {
	// DruggabilityThreshold is exclusive: a candidate must score strictly
	// above it to stay in the running.
	DruggabilityThreshold float64
}

// DefaultConfig returns the builder defaults.
func DefaultConfig() Config {
	return Config{DruggabilityThreshold: 0.5}
}

// Builder proposes hypotheses by finding latent bridges in the knowledge
// graph and filtering them down to a single best candidate.
type Builder struct {
	graph        core.GraphClient
	druggability core.DruggabilityClient
	ontology     core.OntologyClient
	literature   core.LiteratureClient
	cfg          Config
	logger       *zap.Logger
}

// NewBuilder creates a bridge builder.
func NewBuilder(
	graph core.GraphClient,
	druggability core.DruggabilityClient,
	ontology core.OntologyClient,
	literature core.LiteratureClient,
	cfg Config,
	logger *zap.Logger,
) *Builder {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Builder{
		graph:        graph,
		druggability: druggability,
		ontology:     ontology,
		literature:   literature,
		cfg:          cfg,
		logger:       logger,
	}
}

// Generate proposes a hypothesis bridging the gap, skipping any symbol in
// excluded. The returned BridgeResult always carries the full candidate
// count and symbol list, even on failure, so the caller can trace why a
// gap did not bridge.
//
// Selection: among candidates that are druggable (strictly above the
// threshold), ontology-validated, and citation-verified, the one with the
// strictly highest measured druggability wins; on equal scores the first
// seen is kept.
func (b *Builder) Generate(ctx context.Context, gap core.KnowledgeGap, excluded []string) (core.BridgeResult, error) {
	b.logger.Info("attempting to build bridge",
		zap.String("gap_id", gap.ID),
		zap.String("description", gap.Description),
		zap.Int("excluded", len(excluded)),
	)

	if len(gap.SourceNodes) < 2 {
		b.logger.Warn("gap has too few source nodes to bridge", zap.String("gap_id", gap.ID))
		return core.BridgeResult{BridgesFoundCount: 0, ConsideredCandidates: []string{}}, nil
	}

	sourceID := gap.SourceNodes[0]
	targetID := gap.SourceNodes[1]

	candidates, err := b.graph.FindLatentBridges(ctx, sourceID, targetID)
	if err != nil {
		return core.BridgeResult{}, fmt.Errorf("find latent bridges %s->%s: %w", sourceID, targetID, err)
	}

	considered := make([]string, 0, len(candidates))
	for _, c := range candidates {
		considered = append(considered, c.Symbol)
	}
	result := core.BridgeResult{
		BridgesFoundCount:    len(candidates),
		ConsideredCandidates: considered,
	}

	if len(candidates) == 0 {
		b.logger.Info("no latent bridges found", zap.String("gap_id", gap.ID))
		return result, nil
	}

	skip := make(map[string]bool, len(excluded))
	for _, s := range excluded {
		skip[s] = true
	}

	var best *core.GeneticTarget
	bestScore := -1.0

	for _, candidate := range candidates {
		if skip[candidate.Symbol] {
			b.logger.Debug("skipping excluded target", zap.String("symbol", candidate.Symbol))
			continue
		}

		score, err := b.druggability.Score(ctx, candidate.EnsemblID)
		if err != nil {
			return core.BridgeResult{}, fmt.Errorf("druggability score for %s: %w", candidate.Symbol, err)
		}
		if score <= b.cfg.DruggabilityThreshold {
			continue
		}

		validated, err := b.ontology.ValidateTarget(ctx, candidate.Symbol)
		if err != nil {
			return core.BridgeResult{}, fmt.Errorf("validate target %s: %w", candidate.Symbol, err)
		}
		if validated == nil {
			continue
		}

		claim := fmt.Sprintf("%s interacts with %s and %s affects %s",
			sourceID, validated.Symbol, validated.Symbol, targetID)
		verified, err := b.literature.VerifyCitation(ctx, claim)
		if err != nil {
			return core.BridgeResult{}, fmt.Errorf("verify citation for %s: %w", candidate.Symbol, err)
		}
		if !verified {
			b.logger.Info("discarding candidate: citation verification failed",
				zap.String("symbol", candidate.Symbol))
			continue
		}

		// Keep the freshly measured druggability, not the graph's stale value.
		validated.DruggabilityScore = score

		if score > bestScore {
			bestScore = score
			best = validated
		}
	}

	if best == nil {
		b.logger.Info("no druggable, verified candidate among bridges", zap.String("gap_id", gap.ID))
		return result, nil
	}

	mechanism := fmt.Sprintf("Regulation of %s via %s (bridging from %s).", targetID, best.Symbol, sourceID)
	hypothesis := &core.Hypothesis{
		ID:                fmt.Sprintf("hyp-%s", uuid.NewString()),
		Title:             fmt.Sprintf("Proposed Link: %s -> %s -> %s", sourceID, best.Symbol, targetID),
		KnowledgeGap:      gap.Description,
		ProposedMechanism: mechanism,
		TargetCandidate:   *best,
		KillerExperiment: core.PICO{
			Population:   "TBD",
			Intervention: "TBD",
			Comparator:   "TBD",
			Outcome:      "TBD",
		},
		EvidenceChain: append(append([]string{}, gap.SourceNodes...), best.EnsemblID),
		Confidence:    core.ConfidenceSpeculative,
		Critiques:     []core.Critique{},
	}

	b.logger.Info("generated hypothesis",
		zap.String("hypothesis_id", hypothesis.ID),
		zap.String("symbol", best.Symbol),
		zap.Float64("druggability", best.DruggabilityScore),
	)

	result.Hypothesis = hypothesis
	return result, nil
}
