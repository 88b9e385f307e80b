package core

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleHypothesis() Hypothesis {
	return Hypothesis{
		ID:                "hyp-1",
		Title:             "Proposed Link: BRCA1 -> TP53 -> MDM2",
		KnowledgeGap:      "BRCA1 and MDM2 clusters are similar but unconnected",
		ProposedMechanism: "Regulation of MDM2 via TP53 (bridging from BRCA1).",
		TargetCandidate: GeneticTarget{
			Symbol:            "TP53",
			EnsemblID:         "ENSG00000141510",
			DruggabilityScore: 0.82,
			NoveltyScore:      0.4,
		},
		CausalValidationScore: 0.77,
		KeyCounterfactual:     "Simulated inhibition of TP53",
		KillerExperiment: PICO{
			Population:   "In vitro/In vivo models",
			Intervention: "Selective inhibition/activation of TP53",
			Comparator:   "Vehicle control",
			Outcome:      "Modulation of downstream biomarkers",
		},
		EvidenceChain: []string{"BRCA1", "MDM2", "ENSG00000141510"},
		Confidence:    ConfidenceSpeculative,
		Critiques: []Critique{
			{Source: "Clinician", Content: "overlaps existing therapy", Severity: SeverityMedium},
			{Source: "IP Strategist", Content: "patent US-999", Severity: SeverityHigh},
		},
	}
}

func TestHypothesis_RoundTrip(t *testing.T) {
	h := sampleHypothesis()

	data, err := json.Marshal(h)
	require.NoError(t, err)

	var got Hypothesis
	require.NoError(t, json.Unmarshal(data, &got))
	assert.Equal(t, h, got)
}

func TestTrace_RoundTrip(t *testing.T) {
	h := sampleHypothesis()
	trace := Trace{
		GapID: "gap-1",
		Gap: KnowledgeGap{
			ID:          "gap-1",
			Description: "Cluster Disconnect: A and B",
			Type:        GapClusterDisconnect,
			SourceNodes: []string{"BRCA1", "MDM2"},
		},
		HypothesisID:           h.ID,
		BridgeID:               h.TargetCandidate.EnsemblID,
		BridgesFoundCount:      3,
		ConsideredCandidates:   []string{"TP53", "EGFR", "KRAS"},
		CausalValidationScore:  0.77,
		KeyCounterfactual:      h.KeyCounterfactual,
		Critiques:              h.Critiques,
		ExcludedTargetsHistory: []string{"EGFR"},
		RefinementRetries:      1,
		Status:                 StatusAccepted,
		Result:                 &h,
	}

	data, err := json.Marshal(&trace)
	require.NoError(t, err)

	var got Trace
	require.NoError(t, json.Unmarshal(data, &got))
	assert.Equal(t, trace, got)
}

func TestHypothesis_FatalCritiques(t *testing.T) {
	h := sampleHypothesis()
	assert.Empty(t, h.FatalCritiques())

	h.Critiques = append(h.Critiques, Critique{Source: "Toxicologist", Content: "hepatotoxicity", Severity: SeverityFatal})
	h.Critiques = append(h.Critiques, Critique{Source: "Skeptic", Content: "null result in cohort", Severity: SeverityFatal})

	fatal := h.FatalCritiques()
	require.Len(t, fatal, 2)
	assert.Equal(t, "Toxicologist", fatal[0].Source)
	assert.Equal(t, "Skeptic", fatal[1].Source)
}

func TestTraceStatus(t *testing.T) {
	t.Run("terminal states", func(t *testing.T) {
		assert.False(t, StatusPending.Terminal())
		assert.True(t, StatusAccepted.Terminal())
		assert.True(t, StatusDiscardedNoBridge.Terminal())
		assert.True(t, StatusError(errors.New("boom")).Terminal())
	})

	t.Run("discard reasons", func(t *testing.T) {
		assert.True(t, StatusDiscardedNoBridge.Discarded())
		assert.True(t, StatusDiscardedLowCausal.Discarded())
		assert.True(t, StatusDiscardedExhausted.Discarded())
		assert.False(t, StatusAccepted.Discarded())
		assert.False(t, StatusError(errors.New("boom")).Discarded())
	})

	t.Run("error status carries message", func(t *testing.T) {
		assert.Equal(t, TraceStatus("ERROR: graph service down"), StatusError(errors.New("graph service down")))
	})
}

func TestTrace_SinkID(t *testing.T) {
	gap := KnowledgeGap{ID: "g1", SourceNodes: []string{"A", "B"}}

	t.Run("uses hypothesis id when present", func(t *testing.T) {
		tr := NewTrace(gap)
		tr.HypothesisID = "hyp-9"
		tr.Status = StatusAccepted
		assert.Equal(t, "hyp-9", tr.SinkID())
	})

	t.Run("failed gap without hypothesis", func(t *testing.T) {
		tr := NewTrace(gap)
		tr.Status = StatusDiscardedNoBridge
		assert.Equal(t, "failed-gap-g1", tr.SinkID())
	})

	t.Run("errored gap without hypothesis", func(t *testing.T) {
		tr := NewTrace(gap)
		tr.Status = StatusError(errors.New("boom"))
		assert.Equal(t, "error-gap-g1", tr.SinkID())
	})
}
