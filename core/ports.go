package core

import "context"

// Collaborator ports. Each external service gets its own narrow
// interface; capability sets are never merged into one monolith.

// GraphClient provides knowledge-graph traversals: disconnected cluster
// discovery for the scanner and latent-bridge queries for the builder.
type GraphClient interface {
	FindDisconnectedClusters(ctx context.Context, criteria map[string]string) ([]ClusterPair, error)
	FindLatentBridges(ctx context.Context, sourceID, targetID string) ([]GeneticTarget, error)
}

// ClusterPair is a pair of disconnected subgraphs reported by the graph
// service, consumed by the gap scanner.
type ClusterPair struct {
	ClusterAID   string `json:"cluster_a_id"`
	ClusterBID   string `json:"cluster_b_id"`
	ClusterAName string `json:"cluster_a_name"`
	ClusterBName string `json:"cluster_b_name"`
}

// OntologyClient validates gene symbols against the ontology and scores
// semantic similarity between entities.
type OntologyClient interface {
	// ValidateTarget returns nil (and no error) when the symbol is unknown.
	ValidateTarget(ctx context.Context, symbol string) (*GeneticTarget, error)
	SemanticSimilarity(ctx context.Context, entityA, entityB string) (float64, error)
}

// DruggabilityClient scores how tractable a target is for drug development.
type DruggabilityClient interface {
	Score(ctx context.Context, targetID string) (float64, error)
}

// LiteratureClient searches published literature and patents.
type LiteratureClient interface {
	VerifyCitation(ctx context.Context, claim string) (bool, error)
	FindDisconfirmingEvidence(ctx context.Context, subject, object, action string) ([]string, error)
	FindLiteratureInconsistencies(ctx context.Context, topic string) ([]KnowledgeGap, error)
	PatentConflicts(ctx context.Context, target GeneticTarget, mechanism string) ([]string, error)
}

// SimulationClient runs in-silico experiments: counterfactual plausibility,
// toxicology screens, and clinical redundancy checks.
type SimulationClient interface {
	CounterfactualPlausibility(ctx context.Context, mechanism, interventionTarget string) (float64, error)
	ToxicologyScreen(ctx context.Context, target GeneticTarget) ([]string, error)
	ClinicalRedundancy(ctx context.Context, mechanism string, target GeneticTarget) ([]string, error)
}

// ProvenanceSink receives the finished trace for every gap, exactly once.
type ProvenanceSink interface {
	LogTrace(ctx context.Context, id string, trace *Trace) error
}

// Internal component ports.

// GapScanner identifies knowledge gaps worth bridging.
type GapScanner interface {
	Scan(ctx context.Context, target string) ([]KnowledgeGap, error)
}

// BridgeBuilder proposes a hypothesis bridging a gap, honoring the
// exclusion set accumulated across refinement retries.
type BridgeBuilder interface {
	Generate(ctx context.Context, gap KnowledgeGap, excluded []string) (BridgeResult, error)
}

// CausalValidator scores a hypothesis's mechanism via simulation and
// records the key counterfactual tested.
type CausalValidator interface {
	Validate(ctx context.Context, h *Hypothesis) error
}

// Reviewer runs the adversarial review board against a hypothesis,
// appending critiques in strategy order.
type Reviewer interface {
	Review(ctx context.Context, h *Hypothesis) error
}

// ReviewStrategy is a single council member. A strategy returning no
// findings contributes nothing; a strategy error propagates unchanged.
type ReviewStrategy interface {
	Name() string
	Review(ctx context.Context, h *Hypothesis) ([]Critique, error)
}

// ProtocolDesigner attaches the killer-experiment PICO design to an
// accepted hypothesis.
type ProtocolDesigner interface {
	DesignExperiment(ctx context.Context, h *Hypothesis) error
}
