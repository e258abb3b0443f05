package main

import (
	"flag"
	"fmt"
	"net/http"
	"os"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/clauseguard/clauseguard/pkg/api"
	"github.com/clauseguard/clauseguard/pkg/classification"
	"github.com/clauseguard/clauseguard/pkg/config"
	"github.com/clauseguard/clauseguard/pkg/embedding"
	"github.com/clauseguard/clauseguard/pkg/observability"
	"github.com/clauseguard/clauseguard/pkg/services"
	"github.com/clauseguard/clauseguard/pkg/templates"
)

func main() {
	var (
		configPath  = flag.String("config", "config/config.yaml", "Path to the configuration file")
		apiPort     = flag.Int("api-port", 8080, "Port for the classification API")
		metricsPort = flag.Int("metrics-port", 9190, "Port for Prometheus metrics")
	)
	flag.Parse()

	// Initialize logging (zap) from environment.
	if _, err := observability.InitLoggerFromEnv(); err != nil {
		// Fallback to stderr since logger initialization failed
		fmt.Fprintf(os.Stderr, "failed to initialize logger: %v\n", err)
	}

	if _, err := os.Stat(*configPath); os.IsNotExist(err) {
		observability.Fatalf("Config file not found: %s", *configPath)
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		observability.Fatalf("Failed to load config: %v", err)
	}

	store, err := templates.NewStore(cfg.Templates)
	if err != nil {
		observability.Fatalf("Failed to build template store: %v", err)
	}

	// The embedding provider is optional: without one the semantic step is
	// skipped and the cascade still produces verdicts.
	var provider embedding.Provider
	if cfg.Embedding.Model != "" {
		provider = embedding.NewOpenAIProvider(cfg.Embedding)
		observability.Infof("Embedding provider configured: model=%s endpoint=%s",
			cfg.Embedding.Model, cfg.Embedding.Endpoint)
	} else {
		observability.Warnf("No embedding model configured; semantic matching disabled")
	}

	engine, err := classification.NewEngine(cfg, store, provider)
	if err != nil {
		observability.Fatalf("Failed to build classification engine: %v", err)
	}

	svc := services.NewClassificationService(engine, &services.LogFeedbackSink{}, cfg.BatchWorkers)

	// Start metrics server
	go func() {
		http.Handle("/metrics", promhttp.Handler())
		metricsAddr := fmt.Sprintf(":%d", *metricsPort)
		observability.Infof("Starting metrics server on %s", metricsAddr)
		if err := http.ListenAndServe(metricsAddr, nil); err != nil {
			observability.Errorf("Metrics server error: %v", err)
		}
	}()

	server := api.NewServer(svc)
	if err := server.Start(*apiPort); err != nil {
		observability.Fatalf("Classification API server error: %v", err)
	}
}
