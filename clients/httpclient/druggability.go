package httpclient

import (
	"context"
	"time"

	"github.com/biograph-labs/episteme/pkg/cache"
	"github.com/biograph-labs/episteme/pkg/metrics"
)

// Druggability is the HTTP client for the druggability-scoring service.
// Scores are memoized briefly so refinement retries do not re-measure
// the same target.
type Druggability struct {
	caller *caller
	cache  *cache.TTL[string, float64]
}

// NewDruggability creates a druggability client against baseURL.
func NewDruggability(baseURL string, cfg Config, m *metrics.Metrics) (*Druggability, error) {
	c, err := cache.NewTTL[string, float64](1024, 5*time.Minute)
	if err != nil {
		return nil, err
	}
	return &Druggability{caller: newCaller("druggability", baseURL, cfg, m), cache: c}, nil
}

func (d *Druggability) Score(ctx context.Context, targetID string) (float64, error) {
	if score, ok := d.cache.Get(targetID); ok {
		return score, nil
	}

	var score float64
	if _, err := d.caller.post(ctx, "/check_druggability", map[string]string{"target_id": targetID}, &score); err != nil {
		return 0, err
	}
	d.cache.Set(targetID, score)
	return score, nil
}
