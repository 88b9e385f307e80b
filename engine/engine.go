// Package engine drives the Scan-Bridge-Simulate-Critique refinement
// loop that turns knowledge gaps into reviewed hypotheses.
package engine

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/biograph-labs/episteme/core"
	"github.com/biograph-labs/episteme/pkg/metrics"
)

// Engine orchestrates the per-gap state machine:
//
//	PENDING -> (SELECT -> VALIDATE -> REVIEW)* -> ACCEPTED | DISCARDED | ERROR
//
// One gap's failure never aborts the batch; every gap's trace reaches
// the provenance sink exactly once. On cancellation the in-flight gap is
// audited with an ERROR trace before the engine returns (at-least-once
// auditing).
type Engine struct {
	scanner   core.GapScanner
	builder   core.BridgeBuilder
	validator core.CausalValidator
	reviewer  core.Reviewer
	designer  core.ProtocolDesigner
	sink      core.ProvenanceSink

	cfg     Config
	logger  *zap.Logger
	metrics *metrics.Metrics
	tracer  trace.Tracer
}

// NewEngine wires the engine. Every collaborator is required; a missing
// one is a configuration error, fatal at startup rather than per gap.
func NewEngine(
	scanner core.GapScanner,
	builder core.BridgeBuilder,
	validator core.CausalValidator,
	reviewer core.Reviewer,
	designer core.ProtocolDesigner,
	sink core.ProvenanceSink,
	cfg Config,
	logger *zap.Logger,
	m *metrics.Metrics,
) (*Engine, error) {
	missing := make([]string, 0, 6)
	if scanner == nil {
		missing = append(missing, "gap scanner")
	}
	if builder == nil {
		missing = append(missing, "bridge builder")
	}
	if validator == nil {
		missing = append(missing, "causal validator")
	}
	if reviewer == nil {
		missing = append(missing, "reviewer")
	}
	if designer == nil {
		missing = append(missing, "protocol designer")
	}
	if sink == nil {
		missing = append(missing, "provenance sink")
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("engine misconfigured: missing %s", strings.Join(missing, ", "))
	}

	if logger == nil {
		logger = zap.NewNop()
	}
	if m == nil {
		m = metrics.New(prometheus.NewRegistry())
	}

	return &Engine{
		scanner:   scanner,
		builder:   builder,
		validator: validator,
		reviewer:  reviewer,
		designer:  designer,
		sink:      sink,
		cfg:       cfg.normalized(),
		logger:    logger,
		metrics:   m,
		tracer:    otel.Tracer("episteme/engine"),
	}, nil
}

// Run generates hypotheses for a disease or target. Only accepted
// hypotheses are returned; discarded and errored gaps are explained
// through their provenance traces.
func (e *Engine) Run(ctx context.Context, diseaseID string) ([]core.Hypothesis, error) {
	ctx, span := e.tracer.Start(ctx, "engine.run", trace.WithAttributes(attribute.String("disease_id", diseaseID)))
	defer span.End()

	e.logger.Info("starting hypothesis engine", zap.String("disease_id", diseaseID))

	gaps, err := e.scanner.Scan(ctx, diseaseID)
	if err != nil {
		return nil, fmt.Errorf("scan gaps for %s: %w", diseaseID, err)
	}
	e.metrics.GapsScanned.Add(float64(len(gaps)))
	if len(gaps) == 0 {
		e.logger.Info("no knowledge gaps found")
		return []core.Hypothesis{}, nil
	}

	var results []core.Hypothesis
	if e.cfg.GapConcurrency > 1 {
		results, err = e.runParallel(ctx, gaps)
	} else {
		results, err = e.runSequential(ctx, gaps)
	}

	e.logger.Info("engine finished",
		zap.String("disease_id", diseaseID),
		zap.Int("hypotheses", len(results)),
	)
	return results, err
}

func (e *Engine) runSequential(ctx context.Context, gaps []core.KnowledgeGap) ([]core.Hypothesis, error) {
	results := make([]core.Hypothesis, 0, len(gaps))
	for _, gap := range gaps {
		if h := e.processGap(ctx, gap); h != nil {
			results = append(results, *h)
		}
		if err := ctx.Err(); err != nil {
			return results, err
		}
	}
	return results, nil
}

// runParallel fans gaps out across a bounded worker group. Gaps share no
// mutable state, so the only coordination needed is result collection;
// accepted hypotheses keep the scanner's gap order.
func (e *Engine) runParallel(ctx context.Context, gaps []core.KnowledgeGap) ([]core.Hypothesis, error) {
	slots := make([]*core.Hypothesis, len(gaps))
	var mu sync.Mutex

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(e.cfg.GapConcurrency)
	for i, gap := range gaps {
		i, gap := i, gap
		g.Go(func() error {
			h := e.processGap(gctx, gap)
			mu.Lock()
			slots[i] = h
			mu.Unlock()
			return gctx.Err()
		})
	}
	err := g.Wait()

	results := make([]core.Hypothesis, 0, len(gaps))
	for _, h := range slots {
		if h != nil {
			results = append(results, *h)
		}
	}
	return results, err
}

// processGap runs the refinement loop for one gap and emits its trace.
// Collaborator errors are caught here, at the gap boundary, and become
// an ERROR trace; they are never allowed to abort the batch.
func (e *Engine) processGap(ctx context.Context, gap core.KnowledgeGap) *core.Hypothesis {
	ctx, span := e.tracer.Start(ctx, "engine.gap", trace.WithAttributes(attribute.String("gap_id", gap.ID)))
	defer span.End()

	start := time.Now()
	tr := core.NewTrace(gap)

	hypothesis, err := e.refine(ctx, gap, tr)
	if err != nil {
		e.logger.Error("error processing gap",
			zap.String("gap_id", gap.ID),
			zap.String("description", gap.Description),
			zap.Error(err),
		)
		tr.Status = core.StatusError(err)
	}

	switch {
	case tr.Status == core.StatusAccepted:
		e.metrics.ObserveGap(metrics.OutcomeAccepted, time.Since(start))
	case tr.Status.Discarded():
		e.metrics.ObserveGap(metrics.OutcomeDiscarded, time.Since(start))
	default:
		e.metrics.ObserveGap(metrics.OutcomeError, time.Since(start))
	}

	e.emitTrace(ctx, tr)
	return hypothesis
}

// refine is the bounded SELECT -> VALIDATE -> REVIEW loop. It mutates
// the trace as each stage completes and returns the accepted hypothesis,
// or nil for a discard. Collaborator errors bubble up to processGap.
func (e *Engine) refine(ctx context.Context, gap core.KnowledgeGap, tr *core.Trace) (*core.Hypothesis, error) {
	var excluded []string

	for attempt := 1; attempt <= e.cfg.MaxRetries; attempt++ {
		tr.ExcludedTargetsHistory = append([]string{}, excluded...)
		tr.RefinementRetries = attempt - 1

		e.logger.Info("refinement attempt",
			zap.String("gap_id", gap.ID),
			zap.Int("attempt", attempt),
			zap.Int("max_attempts", e.cfg.MaxRetries),
			zap.Int("excluded", len(excluded)),
		)

		// SELECT
		result, err := e.builder.Generate(ctx, gap, excluded)
		if err != nil {
			return nil, err
		}
		tr.BridgesFoundCount = result.BridgesFoundCount
		tr.ConsideredCandidates = result.ConsideredCandidates

		hypothesis := result.Hypothesis
		if hypothesis == nil {
			e.logger.Info("no hypothesis generated for gap", zap.String("gap_id", gap.ID))
			tr.Status = core.StatusDiscardedNoBridge
			return nil, nil
		}
		tr.HypothesisID = hypothesis.ID
		tr.BridgeID = hypothesis.TargetCandidate.EnsemblID

		// VALIDATE
		if err := e.validator.Validate(ctx, hypothesis); err != nil {
			return nil, err
		}
		tr.CausalValidationScore = hypothesis.CausalValidationScore
		tr.KeyCounterfactual = hypothesis.KeyCounterfactual

		if hypothesis.CausalValidationScore < e.cfg.CausalScoreFloor {
			e.logger.Info("hypothesis discarded: low causal score",
				zap.String("hypothesis_id", hypothesis.ID),
				zap.Float64("score", hypothesis.CausalValidationScore),
			)
			tr.Status = core.StatusDiscardedLowCausal
			return nil, nil
		}

		// REVIEW
		if err := e.reviewer.Review(ctx, hypothesis); err != nil {
			return nil, err
		}
		tr.Critiques = hypothesis.Critiques

		if fatal := hypothesis.FatalCritiques(); len(fatal) > 0 {
			symbol := hypothesis.TargetCandidate.Symbol
			e.logger.Warn("hypothesis rejected by fatal critiques",
				zap.String("hypothesis_id", hypothesis.ID),
				zap.Int("fatal", len(fatal)),
				zap.String("excluding", symbol),
			)
			excluded = appendUnique(excluded, symbol)
			e.metrics.RefinementRetries.Inc()
			continue
		}

		// ACCEPT
		if err := e.designer.DesignExperiment(ctx, hypothesis); err != nil {
			return nil, err
		}
		tr.Result = hypothesis
		tr.Status = core.StatusAccepted
		e.metrics.HypothesesAccepted.Inc()
		return hypothesis, nil
	}

	e.logger.Info("refinement retries exhausted", zap.String("gap_id", gap.ID))
	tr.Status = core.StatusDiscardedExhausted
	return nil, nil
}

// emitTrace delivers the finished trace to the provenance sink. Emission
// survives cancellation of the surrounding run so auditing stays
// at-least-once; a sink failure is logged and dropped, never fatal.
func (e *Engine) emitTrace(ctx context.Context, tr *core.Trace) {
	sinkCtx := context.WithoutCancel(ctx)
	if err := e.sink.LogTrace(sinkCtx, tr.SinkID(), tr); err != nil && !errors.Is(err, context.Canceled) {
		e.logger.Error("failed to log provenance trace",
			zap.String("trace_id", tr.SinkID()),
			zap.Error(err),
		)
	}
}

func appendUnique(list []string, item string) []string {
	for _, existing := range list {
		if existing == item {
			return list
		}
	}
	return append(list, item)
}
