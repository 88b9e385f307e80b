package core

import "fmt"

// TraceStatus is the terminal (or pending) state of a gap's processing.
// Discard reasons and error messages are folded into the status string so
// the provenance payload is self-describing.
type TraceStatus string

const (
	StatusPending            TraceStatus = "PENDING"
	StatusAccepted           TraceStatus = "ACCEPTED"
	StatusDiscardedNoBridge  TraceStatus = "DISCARDED (No Bridge)"
	StatusDiscardedLowCausal TraceStatus = "DISCARDED (Low Causal Score)"
	StatusDiscardedExhausted TraceStatus = "DISCARDED (Exhausted Retries)"
)

// StatusError builds the status recorded when a collaborator failure
// aborts a gap.
func StatusError(err error) TraceStatus {
	return TraceStatus(fmt.Sprintf("ERROR: %v", err))
}

// Terminal reports whether the status is one of the three terminal states.
func (s TraceStatus) Terminal() bool {
	return s != StatusPending
}

// Discarded reports whether the status is a validation discard.
func (s TraceStatus) Discarded() bool {
	switch s {
	case StatusDiscardedNoBridge, StatusDiscardedLowCausal, StatusDiscardedExhausted:
		return true
	}
	return false
}

// Trace is the provenance record of one gap's processing. Created when
// the gap enters the engine, updated by every stage, and emitted exactly
// once to the provenance sink regardless of outcome.
//
// ExcludedTargetsHistory grows strictly monotonically across retries and
// never holds duplicates.
type Trace struct {
	GapID                  string       `json:"gap_id"`
	Gap                    KnowledgeGap `json:"gap"`
	HypothesisID           string       `json:"hypothesis_id,omitempty"`
	BridgeID               string       `json:"bridge_id,omitempty"`
	BridgesFoundCount      int          `json:"bridges_found_count"`
	ConsideredCandidates   []string     `json:"considered_candidates"`
	CausalValidationScore  float64      `json:"causal_validation_score"`
	KeyCounterfactual      string       `json:"key_counterfactual,omitempty"`
	Critiques              []Critique   `json:"critiques"`
	ExcludedTargetsHistory []string     `json:"excluded_targets_history"`
	RefinementRetries      int          `json:"refinement_retries"`
	Status                 TraceStatus  `json:"status"`
	Result                 *Hypothesis  `json:"result,omitempty"`
}

// NewTrace initializes a pending trace for a gap.
func NewTrace(gap KnowledgeGap) *Trace {
	return &Trace{
		GapID:  gap.ID,
		Gap:    gap,
		Status: StatusPending,
	}
}

// SinkID returns the identifier the trace is logged under. Gaps that
// never produced a hypothesis are logged under a synthetic id so the
// provenance record is still addressable.
func (t *Trace) SinkID() string {
	if t.HypothesisID != "" {
		return t.HypothesisID
	}
	if t.Status.Discarded() {
		return "failed-gap-" + t.GapID
	}
	return "error-gap-" + t.GapID
}
