package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	t.Run("defaults", func(t *testing.T) {
		cfg := Load()
		assert.Equal(t, "8080", cfg.ServicePort)
		assert.Equal(t, "local", cfg.ClientMode)
		assert.Equal(t, 3, cfg.MaxRetries)
		assert.InDelta(t, 0.5, cfg.CausalFloor, 1e-9)
		assert.InDelta(t, 0.75, cfg.Similarity, 1e-9)
	})

	t.Run("environment overrides", func(t *testing.T) {
		t.Setenv("EPISTEME_MAX_RETRIES", "7")
		t.Setenv("EPISTEME_CAUSAL_FLOOR", "0.8")
		t.Setenv("EPISTEME_CLIENT_MODE", "http")
		t.Setenv("EPISTEME_REQUEST_TIMEOUT", "5s")

		cfg := Load()
		assert.Equal(t, 7, cfg.MaxRetries)
		assert.InDelta(t, 0.8, cfg.CausalFloor, 1e-9)
		assert.Equal(t, "http", cfg.ClientMode)
		assert.Equal(t, "5s", cfg.RequestTimeout.String())
	})

	t.Run("malformed values fall back to defaults", func(t *testing.T) {
		t.Setenv("EPISTEME_MAX_RETRIES", "lots")
		t.Setenv("EPISTEME_CAUSAL_FLOOR", "high")

		cfg := Load()
		assert.Equal(t, 3, cfg.MaxRetries)
		assert.InDelta(t, 0.5, cfg.CausalFloor, 1e-9)
	})
}

func TestLoadEndpoints(t *testing.T) {
	write := func(t *testing.T, content string) string {
		t.Helper()
		path := filepath.Join(t.TempDir(), "endpoints.yaml")
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
		return path
	}

	t.Run("complete file", func(t *testing.T) {
		path := write(t, `
graph: http://graph:8001
ontology: http://ontology:8002
druggability: http://druggability:8003
literature: http://literature:8004
simulation: http://simulation:8005
provenance: http://provenance:8006
`)
		eps, err := LoadEndpoints(path)
		require.NoError(t, err)
		assert.Equal(t, "http://graph:8001", eps.Graph)
		assert.Equal(t, "http://provenance:8006", eps.Provenance)
	})

	t.Run("missing collaborator url", func(t *testing.T) {
		path := write(t, `
graph: http://graph:8001
ontology: http://ontology:8002
`)
		_, err := LoadEndpoints(path)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "missing")
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := LoadEndpoints(filepath.Join(t.TempDir(), "nope.yaml"))
		assert.Error(t, err)
	})

	t.Run("malformed yaml", func(t *testing.T) {
		path := write(t, "graph: [unterminated")
		_, err := LoadEndpoints(path)
		assert.Error(t, err)
	})
}
