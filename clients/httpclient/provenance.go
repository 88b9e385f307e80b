package httpclient

import (
	"context"

	"github.com/biograph-labs/episteme/core"
	"github.com/biograph-labs/episteme/pkg/metrics"
)

// Provenance is the HTTP client for the provenance-log sink.
type Provenance struct {
	caller *caller
}

// NewProvenance creates a provenance client against baseURL.
func NewProvenance(baseURL string, cfg Config, m *metrics.Metrics) *Provenance {
	return &Provenance{caller: newCaller("provenance", baseURL, cfg, m)}
}

func (p *Provenance) LogTrace(ctx context.Context, id string, trace *core.Trace) error {
	payload := map[string]any{
		"hypothesis_id": id,
		"trace_data":    trace,
	}
	_, err := p.caller.post(ctx, "/log_trace", payload, nil)
	return err
}
