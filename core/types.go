package core

// GapType classifies how a knowledge gap was detected.
type GapType string

const (
	GapClusterDisconnect       GapType = "CLUSTER_DISCONNECT"
	GapLiteratureInconsistency GapType = "LITERATURE_INCONSISTENCY"
)

// KnowledgeGap is a detected disconnect between two biological concepts.
// SourceNodes holds the two "ends" to bridge; a gap with fewer than two
// nodes cannot be bridged. Immutable once produced by the scanner.
type KnowledgeGap struct {
	ID          string   `json:"id"`
	Description string   `json:"description"`
	Type        GapType  `json:"type"`
	SourceNodes []string `json:"source_nodes"`
}

// GeneticTarget is a gene proposed to causally connect the ends of a gap.
// DruggabilityScore is overwritten with a freshly measured value during
// candidate selection; everything else is read-only.
type GeneticTarget struct {
	Symbol            string  `json:"symbol"`
	EnsemblID         string  `json:"ensembl_id"`
	DruggabilityScore float64 `json:"druggability_score"`
	NoveltyScore      float64 `json:"novelty_score"`
}

// CritiqueSeverity ranks review findings. FATAL disqualifies the current
// candidate outright and triggers a refinement retry.
type CritiqueSeverity string

const (
	SeverityLow    CritiqueSeverity = "LOW"
	SeverityMedium CritiqueSeverity = "MEDIUM"
	SeverityHigh   CritiqueSeverity = "HIGH"
	SeverityFatal  CritiqueSeverity = "FATAL"
)

// Critique is a single review finding. Immutable value.
type Critique struct {
	Source   string           `json:"source"`
	Content  string           `json:"content"`
	Severity CritiqueSeverity `json:"severity"`
}

// ConfidenceLevel is the evidence tier assigned to a hypothesis.
type ConfidenceLevel string

const (
	ConfidenceSpeculative ConfidenceLevel = "SPECULATIVE"
	ConfidencePlausible   ConfidenceLevel = "PLAUSIBLE"
	ConfidenceProbable    ConfidenceLevel = "PROBABLE"
)

// PICO is the Population/Intervention/Comparator/Outcome experimental
// design record. Four named fields, never a free-form map.
type PICO struct {
	Population   string `json:"population"`
	Intervention string `json:"intervention"`
	Comparator   string `json:"comparator"`
	Outcome      string `json:"outcome"`
}

// Hypothesis is a proposed gene-disease mechanism. One is created per
// accepted bridging attempt and updated through the pipeline stages
// (validation score, critiques, design) until terminal. The critique
// list is append-only: it only grows and is never reordered.
type Hypothesis struct {
	ID                    string          `json:"id"`
	Title                 string          `json:"title"`
	KnowledgeGap          string          `json:"knowledge_gap"`
	ProposedMechanism     string          `json:"proposed_mechanism"`
	TargetCandidate       GeneticTarget   `json:"target_candidate"`
	CausalValidationScore float64         `json:"causal_validation_score"`
	KeyCounterfactual     string          `json:"key_counterfactual"`
	KillerExperiment      PICO            `json:"killer_experiment_pico"`
	EvidenceChain         []string        `json:"evidence_chain"`
	Confidence            ConfidenceLevel `json:"confidence"`
	Critiques             []Critique      `json:"critiques"`
}

// FatalCritiques returns the critiques severe enough to disqualify the
// current target candidate.
func (h *Hypothesis) FatalCritiques() []Critique {
	var fatal []Critique
	for _, c := range h.Critiques {
		if c.Severity == SeverityFatal {
			fatal = append(fatal, c)
		}
	}
	return fatal
}

// BridgeResult is returned by every selection attempt regardless of
// success so the orchestrator can trace why a gap failed to bridge.
type BridgeResult struct {
	Hypothesis           *Hypothesis `json:"hypothesis,omitempty"`
	BridgesFoundCount    int         `json:"bridges_found_count"`
	ConsideredCandidates []string    `json:"considered_candidates"`
}
