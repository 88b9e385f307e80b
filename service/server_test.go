package service

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/biograph-labs/episteme/core"
)

func TestServer_Hypotheses(t *testing.T) {
	t.Run("returns accepted hypotheses", func(t *testing.T) {
		var gotDisease string
		var gotRetries int
		srv := NewServer(func(ctx context.Context, diseaseID string, maxRetries int) ([]core.Hypothesis, error) {
			gotDisease = diseaseID
			gotRetries = maxRetries
			return []core.Hypothesis{{ID: "hyp-1", KnowledgeGap: "gap"}}, nil
		}, nil)

		rec := httptest.NewRecorder()
		srv.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/hypotheses",
			strings.NewReader(`{"disease_id":"disease:x","max_retries":5}`)))

		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "disease:x", gotDisease)
		assert.Equal(t, 5, gotRetries)
		assert.Contains(t, rec.Body.String(), `"hyp-1"`)
		assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	})

	t.Run("rejects non-POST", func(t *testing.T) {
		srv := NewServer(func(ctx context.Context, diseaseID string, maxRetries int) ([]core.Hypothesis, error) {
			t.Fatal("run should not be called")
			return nil, nil
		}, nil)

		rec := httptest.NewRecorder()
		srv.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/hypotheses", nil))
		assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
	})

	t.Run("rejects malformed body", func(t *testing.T) {
		srv := NewServer(nil, nil)
		rec := httptest.NewRecorder()
		srv.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/hypotheses", strings.NewReader("{")))
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("rejects missing disease id", func(t *testing.T) {
		srv := NewServer(nil, nil)
		rec := httptest.NewRecorder()
		srv.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/hypotheses", strings.NewReader(`{}`)))
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("rejects negative max retries", func(t *testing.T) {
		srv := NewServer(nil, nil)
		rec := httptest.NewRecorder()
		srv.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/hypotheses",
			strings.NewReader(`{"disease_id":"disease:x","max_retries":-1}`)))
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("run failure yields 500", func(t *testing.T) {
		srv := NewServer(func(ctx context.Context, diseaseID string, maxRetries int) ([]core.Hypothesis, error) {
			return nil, errors.New("scanner unavailable")
		}, nil)

		rec := httptest.NewRecorder()
		srv.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/hypotheses",
			strings.NewReader(`{"disease_id":"disease:x"}`)))
		assert.Equal(t, http.StatusInternalServerError, rec.Code)
		assert.Contains(t, rec.Body.String(), "scanner unavailable")
	})
}

func TestRoutes(t *testing.T) {
	srv := NewServer(func(ctx context.Context, diseaseID string, maxRetries int) ([]core.Hypothesis, error) {
		return []core.Hypothesis{}, nil
	}, nil)
	mux := Routes(srv, prometheus.NewRegistry())

	t.Run("health", func(t *testing.T) {
		rec := httptest.NewRecorder()
		mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), "healthy")
	})

	t.Run("metrics", func(t *testing.T) {
		rec := httptest.NewRecorder()
		mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("hypotheses wired", func(t *testing.T) {
		rec := httptest.NewRecorder()
		mux.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/hypotheses",
			strings.NewReader(`{"disease_id":"disease:x"}`)))
		assert.Equal(t, http.StatusOK, rec.Code)
	})
}
