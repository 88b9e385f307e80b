package main

import (
	"context"
	"log"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/biograph-labs/episteme/archive"
	"github.com/biograph-labs/episteme/bridge"
	"github.com/biograph-labs/episteme/causal"
	"github.com/biograph-labs/episteme/clients/httpclient"
	"github.com/biograph-labs/episteme/clients/local"
	"github.com/biograph-labs/episteme/config"
	"github.com/biograph-labs/episteme/core"
	"github.com/biograph-labs/episteme/engine"
	"github.com/biograph-labs/episteme/pkg/logging"
	"github.com/biograph-labs/episteme/pkg/metrics"
	"github.com/biograph-labs/episteme/pkg/tracing"
	"github.com/biograph-labs/episteme/protocol"
	"github.com/biograph-labs/episteme/review"
	"github.com/biograph-labs/episteme/scanner"
	"github.com/biograph-labs/episteme/service"
)

type collaborators struct {
	graph        core.GraphClient
	ontology     core.OntologyClient
	druggability core.DruggabilityClient
	literature   core.LiteratureClient
	simulation   core.SimulationClient
	sink         core.ProvenanceSink
}

func main() {
	cfg := config.Load()

	logger, err := logging.NewLogger(logging.Config{Level: cfg.LogLevel, Format: cfg.LogFormat})
	if err != nil {
		log.Fatalf("logger: %v", err)
	}
	defer logger.Sync()

	if cfg.JaegerEndpoint != "" {
		shutdown, err := tracing.Setup(tracing.Config{
			ServiceName:    "episteme",
			JaegerEndpoint: cfg.JaegerEndpoint,
		})
		if err != nil {
			logger.Fatal("tracing setup failed", zap.Error(err))
		}
		defer shutdown(context.Background())
	}

	registry := prometheus.NewRegistry()
	m := metrics.New(registry)

	collab, err := buildCollaborators(cfg, m)
	if err != nil {
		logger.Fatal("collaborator setup failed", zap.Error(err))
	}

	// An archive directory overrides the configured sink with local
	// durable storage of every trace.
	if cfg.ArchiveDir != "" {
		store, err := archive.NewStore(cfg.ArchiveDir, logger)
		if err != nil {
			logger.Fatal("archive setup failed", zap.Error(err))
		}
		collab.sink = store
	}

	run := func(ctx context.Context, diseaseID string, maxRetries int) ([]core.Hypothesis, error) {
		engCfg := engine.Config{
			MaxRetries:       cfg.MaxRetries,
			CausalScoreFloor: cfg.CausalFloor,
			GapConcurrency:   cfg.GapConcurrency,
		}
		if maxRetries > 0 {
			engCfg.MaxRetries = maxRetries
		}
		eng, err := engine.NewEngine(
			scanner.NewScanner(collab.graph, collab.ontology, collab.literature,
				scanner.Config{SimilarityThreshold: cfg.Similarity}, logger),
			bridge.NewBuilder(collab.graph, collab.druggability, collab.ontology, collab.literature,
				bridge.Config{DruggabilityThreshold: cfg.Druggability}, logger),
			causal.NewValidator(collab.simulation, logger),
			review.NewBoard(review.DefaultStrategies(collab.simulation, collab.literature), logger),
			protocol.NewDesigner(logger),
			collab.sink,
			engCfg,
			logger,
			m,
		)
		if err != nil {
			return nil, err
		}
		return eng.Run(ctx, diseaseID)
	}

	srv := service.NewServer(run, logger)
	mux := service.Routes(srv, registry)

	logger.Info("episteme starting",
		zap.String("port", cfg.ServicePort),
		zap.String("client_mode", cfg.ClientMode))
	log.Fatal(http.ListenAndServe(":"+cfg.ServicePort, mux))
}

func buildCollaborators(cfg *config.Config, m *metrics.Metrics) (*collaborators, error) {
	if cfg.ClientMode == "http" {
		eps, err := config.LoadEndpoints(cfg.EndpointsFile)
		if err != nil {
			return nil, err
		}
		clientCfg := httpclient.DefaultConfig()
		clientCfg.Timeout = cfg.RequestTimeout

		ontology, err := httpclient.NewOntology(eps.Ontology, clientCfg, m)
		if err != nil {
			return nil, err
		}
		druggability, err := httpclient.NewDruggability(eps.Druggability, clientCfg, m)
		if err != nil {
			return nil, err
		}
		return &collaborators{
			graph:        httpclient.NewGraph(eps.Graph, clientCfg, m),
			ontology:     ontology,
			druggability: druggability,
			literature:   httpclient.NewLiterature(eps.Literature, clientCfg, m),
			simulation:   httpclient.NewSimulation(eps.Simulation, clientCfg, m),
			sink:         httpclient.NewProvenance(eps.Provenance, clientCfg, m),
		}, nil
	}
	return seedLocal(), nil
}

// seedLocal builds the in-memory collaborators with a small demo
// dataset: two disconnected pathways bridged by a pair of candidates,
// one of which fails toxicology so a refinement retry is exercised.
func seedLocal() *collaborators {
	graph := local.NewGraph()
	graph.AddClusterPair(core.ClusterPair{
		ClusterAID: "pathway:inflammation", ClusterBID: "pathway:fibrosis",
		ClusterAName: "Chronic Inflammation", ClusterBName: "Tissue Fibrosis",
	})
	graph.AddBridge("pathway:inflammation", "pathway:fibrosis",
		core.GeneticTarget{Symbol: "TGFB1"},
		core.GeneticTarget{Symbol: "MMP9"},
	)

	ontology := local.NewOntology()
	ontology.Register(core.GeneticTarget{Symbol: "TGFB1", EnsemblID: "ENSG00000105329", NoveltyScore: 0.4})
	ontology.Register(core.GeneticTarget{Symbol: "MMP9", EnsemblID: "ENSG00000100985", NoveltyScore: 0.7})
	ontology.SetSimilarity("pathway:inflammation", "pathway:fibrosis", 0.88)

	druggability := local.NewDruggability()
	druggability.SetScore("ENSG00000105329", 0.72)
	druggability.SetScore("ENSG00000100985", 0.91)

	literature := local.NewLiterature()
	literature.VerifyAll = true

	simulation := local.NewSimulation()
	simulation.AddToxicologyRisk("MMP9", "musculoskeletal syndrome in long-term inhibition")

	return &collaborators{
		graph:        graph,
		ontology:     ontology,
		druggability: druggability,
		literature:   literature,
		simulation:   simulation,
		sink:         local.NewProvenance(),
	}
}
