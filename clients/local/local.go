// Package local provides deterministic in-memory implementations of the
// collaborator ports, used by the demo binary and integration tests.
package local

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/biograph-labs/episteme/core"
)

// Graph is an in-memory knowledge graph. Bridges are keyed by the
// ordered (source, target) pair; cluster pairs are returned verbatim.
type Graph struct {
	mu       sync.RWMutex
	bridges  map[string][]core.GeneticTarget
	clusters []core.ClusterPair
}

// NewGraph creates an empty local graph.
func NewGraph() *Graph {
	return &Graph{bridges: make(map[string][]core.GeneticTarget)}
}

func bridgeKey(sourceID, targetID string) string {
	return sourceID + "->" + targetID
}

// AddBridge registers candidates between two nodes.
func (g *Graph) AddBridge(sourceID, targetID string, candidates ...core.GeneticTarget) {
	g.mu.Lock()
	defer g.mu.Unlock()
	key := bridgeKey(sourceID, targetID)
	g.bridges[key] = append(g.bridges[key], candidates...)
}

// AddClusterPair registers a disconnected cluster pair.
func (g *Graph) AddClusterPair(pair core.ClusterPair) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.clusters = append(g.clusters, pair)
}

func (g *Graph) FindDisconnectedClusters(ctx context.Context, criteria map[string]string) ([]core.ClusterPair, error) {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return append([]core.ClusterPair{}, g.clusters...), nil
}

func (g *Graph) FindLatentBridges(ctx context.Context, sourceID, targetID string) ([]core.GeneticTarget, error) {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return append([]core.GeneticTarget{}, g.bridges[bridgeKey(sourceID, targetID)]...), nil
}

// Ontology validates symbols against a fixed registry and scores
// similarity from a pair table (default 0).
type Ontology struct {
	mu           sync.RWMutex
	targets      map[string]core.GeneticTarget
	similarities map[string]float64
}

// NewOntology creates an empty local ontology.
func NewOntology() *Ontology {
	return &Ontology{
		targets:      make(map[string]core.GeneticTarget),
		similarities: make(map[string]float64),
	}
}

// Register adds a known target.
func (o *Ontology) Register(target core.GeneticTarget) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.targets[target.Symbol] = target
}

// SetSimilarity fixes the similarity for an (a, b) pair, both directions.
func (o *Ontology) SetSimilarity(a, b string, similarity float64) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.similarities[a+"/"+b] = similarity
	o.similarities[b+"/"+a] = similarity
}

func (o *Ontology) ValidateTarget(ctx context.Context, symbol string) (*core.GeneticTarget, error) {
	o.mu.RLock()
	defer o.mu.RUnlock()
	if target, ok := o.targets[symbol]; ok {
		copied := target
		return &copied, nil
	}
	return nil, nil
}

func (o *Ontology) SemanticSimilarity(ctx context.Context, entityA, entityB string) (float64, error) {
	o.mu.RLock()
	defer o.mu.RUnlock()
	return o.similarities[entityA+"/"+entityB], nil
}

// Druggability serves scores from a table, with a default for unknown
// targets.
type Druggability struct {
	mu           sync.RWMutex
	scores       map[string]float64
	DefaultScore float64
}

// NewDruggability creates a local druggability scorer.
func NewDruggability() *Druggability {
	return &Druggability{scores: make(map[string]float64)}
}

// SetScore fixes the score for a target id.
func (d *Druggability) SetScore(targetID string, score float64) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.scores[targetID] = score
}

func (d *Druggability) Score(ctx context.Context, targetID string) (float64, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	if score, ok := d.scores[targetID]; ok {
		return score, nil
	}
	return d.DefaultScore, nil
}

// Literature verifies claims against a known-claims set and serves
// canned disconfirming evidence, inconsistencies, and patent conflicts.
type Literature struct {
	mu              sync.RWMutex
	verifiedClaims  map[string]bool
	disconfirming   map[string][]string
	inconsistencies []core.KnowledgeGap
	patents         map[string][]string

	// VerifyAll short-circuits claim verification to true.
	VerifyAll bool
}

// NewLiterature creates a local literature service.
func NewLiterature() *Literature {
	return &Literature{
		verifiedClaims: make(map[string]bool),
		disconfirming:  make(map[string][]string),
		patents:        make(map[string][]string),
	}
}

// AddVerifiedClaim marks a claim as citation-backed.
func (l *Literature) AddVerifiedClaim(claim string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.verifiedClaims[claim] = true
}

// AddDisconfirmingEvidence registers null-hypothesis evidence for a subject.
func (l *Literature) AddDisconfirmingEvidence(subject string, evidence ...string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.disconfirming[subject] = append(l.disconfirming[subject], evidence...)
}

// AddInconsistency registers a literature-inconsistency gap.
func (l *Literature) AddInconsistency(gap core.KnowledgeGap) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.inconsistencies = append(l.inconsistencies, gap)
}

// AddPatentConflict registers a conflict for a target symbol.
func (l *Literature) AddPatentConflict(symbol string, conflicts ...string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.patents[symbol] = append(l.patents[symbol], conflicts...)
}

func (l *Literature) VerifyCitation(ctx context.Context, claim string) (bool, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	if l.VerifyAll {
		return true, nil
	}
	return l.verifiedClaims[claim], nil
}

func (l *Literature) FindDisconfirmingEvidence(ctx context.Context, subject, object, action string) ([]string, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return append([]string{}, l.disconfirming[subject]...), nil
}

func (l *Literature) FindLiteratureInconsistencies(ctx context.Context, topic string) ([]core.KnowledgeGap, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	var matched []core.KnowledgeGap
	for _, gap := range l.inconsistencies {
		if topic == "" || strings.Contains(gap.Description, topic) {
			matched = append(matched, gap)
		}
	}
	return matched, nil
}

func (l *Literature) PatentConflicts(ctx context.Context, target core.GeneticTarget, mechanism string) ([]string, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return append([]string{}, l.patents[target.Symbol]...), nil
}

// Simulation serves plausibility scores, toxicology risks, and
// redundancy findings from per-symbol tables.
type Simulation struct {
	mu           sync.RWMutex
	plausibility map[string]float64
	toxicology   map[string][]string
	redundancy   map[string][]string

	// DefaultPlausibility is returned for targets without a fixed score.
	DefaultPlausibility float64
}

// NewSimulation creates a local simulation service.
func NewSimulation() *Simulation {
	return &Simulation{
		plausibility:        make(map[string]float64),
		toxicology:          make(map[string][]string),
		redundancy:          make(map[string][]string),
		DefaultPlausibility: 0.8,
	}
}

// SetPlausibility fixes the counterfactual score for a target symbol.
func (s *Simulation) SetPlausibility(symbol string, score float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.plausibility[symbol] = score
}

// AddToxicologyRisk registers screen findings for a target symbol.
func (s *Simulation) AddToxicologyRisk(symbol string, risks ...string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.toxicology[symbol] = append(s.toxicology[symbol], risks...)
}

// AddRedundancy registers clinical-redundancy findings for a symbol.
func (s *Simulation) AddRedundancy(symbol string, findings ...string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.redundancy[symbol] = append(s.redundancy[symbol], findings...)
}

func (s *Simulation) CounterfactualPlausibility(ctx context.Context, mechanism, interventionTarget string) (float64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if score, ok := s.plausibility[interventionTarget]; ok {
		return score, nil
	}
	return s.DefaultPlausibility, nil
}

func (s *Simulation) ToxicologyScreen(ctx context.Context, target core.GeneticTarget) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]string{}, s.toxicology[target.Symbol]...), nil
}

func (s *Simulation) ClinicalRedundancy(ctx context.Context, mechanism string, target core.GeneticTarget) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]string{}, s.redundancy[target.Symbol]...), nil
}

// Provenance stores traces in memory, keyed by sink id, preserving
// arrival order.
type Provenance struct {
	mu     sync.Mutex
	order  []string
	traces map[string]*core.Trace
}

// NewProvenance creates an in-memory provenance sink.
func NewProvenance() *Provenance {
	return &Provenance{traces: make(map[string]*core.Trace)}
}

func (p *Provenance) LogTrace(ctx context.Context, id string, trace *core.Trace) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if _, exists := p.traces[id]; exists {
		return fmt.Errorf("trace %s already logged", id)
	}
	p.order = append(p.order, id)
	p.traces[id] = trace
	return nil
}

// Trace returns the stored trace for an id.
func (p *Provenance) Trace(id string) (*core.Trace, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	trace, ok := p.traces[id]
	return trace, ok
}

// IDs returns the sink ids in arrival order.
func (p *Provenance) IDs() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]string{}, p.order...)
}
