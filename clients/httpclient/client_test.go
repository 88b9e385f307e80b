package httpclient

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/biograph-labs/episteme/core"
)

func fastConfig() Config {
	cfg := DefaultConfig()
	cfg.Timeout = time.Second
	cfg.Guard.MaxRetries = 1
	cfg.Guard.BaseDelay = time.Millisecond
	cfg.Guard.Jitter = false
	cfg.Guard.RequestsPerSecond = 10000
	cfg.Guard.Burst = 100
	return cfg
}

func jsonHandler(t *testing.T, wantPath string, respond func(body map[string]any) any) http.HandlerFunc {
	t.Helper()
	return func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, wantPath, r.URL.Path)
		var body map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		w.Header().Set("Content-Type", "application/json")
		require.NoError(t, json.NewEncoder(w).Encode(respond(body)))
	}
}

func TestGraph_FindLatentBridges(t *testing.T) {
	srv := httptest.NewServer(jsonHandler(t, "/find_latent_bridges", func(body map[string]any) any {
		assert.Equal(t, "A", body["source_cluster_id"])
		assert.Equal(t, "B", body["target_cluster_id"])
		return []core.GeneticTarget{{Symbol: "TP53", EnsemblID: "ENSG1", DruggabilityScore: 0.4, NoveltyScore: 0.7}}
	}))
	defer srv.Close()

	g := NewGraph(srv.URL, fastConfig(), nil)
	targets, err := g.FindLatentBridges(context.Background(), "A", "B")
	require.NoError(t, err)
	require.Len(t, targets, 1)
	assert.Equal(t, "TP53", targets[0].Symbol)
}

func TestOntology_ValidateTarget(t *testing.T) {
	var hits int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
		var body map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		if body["symbol"] == "UNKNOWN" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		_ = json.NewEncoder(w).Encode(core.GeneticTarget{Symbol: body["symbol"], EnsemblID: "ENSG9"})
	}))
	defer srv.Close()

	o, err := NewOntology(srv.URL, fastConfig(), nil)
	require.NoError(t, err)

	t.Run("valid symbol", func(t *testing.T) {
		target, err := o.ValidateTarget(context.Background(), "TP53")
		require.NoError(t, err)
		require.NotNil(t, target)
		assert.Equal(t, "TP53", target.Symbol)
	})

	t.Run("unknown symbol yields nil without error", func(t *testing.T) {
		target, err := o.ValidateTarget(context.Background(), "UNKNOWN")
		require.NoError(t, err)
		assert.Nil(t, target)
	})

	t.Run("repeat lookups are cached", func(t *testing.T) {
		before := atomic.LoadInt32(&hits)
		for i := 0; i < 3; i++ {
			_, err := o.ValidateTarget(context.Background(), "TP53")
			require.NoError(t, err)
		}
		assert.Equal(t, before, atomic.LoadInt32(&hits))
	})

	t.Run("cached copies do not alias", func(t *testing.T) {
		first, err := o.ValidateTarget(context.Background(), "TP53")
		require.NoError(t, err)
		first.DruggabilityScore = 0.99

		second, err := o.ValidateTarget(context.Background(), "TP53")
		require.NoError(t, err)
		assert.Zero(t, second.DruggabilityScore)
	})
}

func TestDruggability_ScoreCached(t *testing.T) {
	var hits int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
		_ = json.NewEncoder(w).Encode(0.83)
	}))
	defer srv.Close()

	d, err := NewDruggability(srv.URL, fastConfig(), nil)
	require.NoError(t, err)

	for i := 0; i < 3; i++ {
		score, err := d.Score(context.Background(), "ENSG1")
		require.NoError(t, err)
		assert.Equal(t, 0.83, score)
	}
	assert.Equal(t, int32(1), atomic.LoadInt32(&hits))
}

func TestLiterature_VerifyCitation(t *testing.T) {
	srv := httptest.NewServer(jsonHandler(t, "/verify_citation", func(body map[string]any) any {
		assert.Equal(t, "A interacts with X and X affects B", body["interaction_claim"])
		return true
	}))
	defer srv.Close()

	l := NewLiterature(srv.URL, fastConfig(), nil)
	verified, err := l.VerifyCitation(context.Background(), "A interacts with X and X affects B")
	require.NoError(t, err)
	assert.True(t, verified)
}

func TestSimulation_CounterfactualPlausibility(t *testing.T) {
	srv := httptest.NewServer(jsonHandler(t, "/run_counterfactual_simulation", func(body map[string]any) any {
		assert.Equal(t, "mechanism text", body["mechanism"])
		assert.Equal(t, "TP53", body["intervention_target"])
		return 0.72
	}))
	defer srv.Close()

	s := NewSimulation(srv.URL, fastConfig(), nil)
	score, err := s.CounterfactualPlausibility(context.Background(), "mechanism text", "TP53")
	require.NoError(t, err)
	assert.Equal(t, 0.72, score)
}

func TestProvenance_LogTrace(t *testing.T) {
	var got map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	p := NewProvenance(srv.URL, fastConfig(), nil)
	tr := core.NewTrace(core.KnowledgeGap{ID: "g1", SourceNodes: []string{"A", "B"}})
	tr.Status = core.StatusDiscardedNoBridge

	require.NoError(t, p.LogTrace(context.Background(), "failed-gap-g1", tr))
	assert.Equal(t, "failed-gap-g1", got["hypothesis_id"])
	assert.NotNil(t, got["trace_data"])
}

func TestCaller_ServerErrorsRetriedThenSurface(t *testing.T) {
	var hits int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	g := NewGraph(srv.URL, fastConfig(), nil)
	_, err := g.FindLatentBridges(context.Background(), "A", "B")
	require.Error(t, err)
	assert.ErrorIs(t, err, core.ErrUnavailable)
	assert.Equal(t, int32(2), atomic.LoadInt32(&hits), "one retry for a 503")
}

func TestCaller_ClientErrorsNotRetried(t *testing.T) {
	var hits int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
		w.WriteHeader(http.StatusBadRequest)
	}))
	defer srv.Close()

	cfg := fastConfig()
	cfg.Guard.MaxRetries = 3
	g := NewGraph(srv.URL, cfg, nil)
	_, err := g.FindLatentBridges(context.Background(), "A", "B")
	require.Error(t, err)
	assert.ErrorIs(t, err, core.ErrUnavailable)
	assert.Equal(t, int32(1), atomic.LoadInt32(&hits))
}
