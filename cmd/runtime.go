package cmd

import (
	"context"

	"document-manager/core/config"
	"document-manager/core/logger"
	"document-manager/core/metrics"
	"document-manager/core/storage"
	"document-manager/feature/documents"
	"document-manager/feature/results"
	"document-manager/feature/results/render"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/zap"
)

// runtime is the set of components shared by the start and consume commands.
type runtime struct {
	cfg       *config.Config
	logger    *zap.Logger
	registry  *prometheus.Registry
	metrics   *metrics.Metrics
	documents *documents.Service
	pipeline  *results.Pipeline
}

// bootstrap loads configuration and builds every component. Any failure
// here aborts the command before it reports ready.
func bootstrap(ctx context.Context) (*runtime, error) {
	cfg, err := config.LoadConfig(configDir)
	if err != nil {
		return nil, err
	}

	logg, err := logger.New(&cfg.Log)
	if err != nil {
		return nil, err
	}
	zap.ReplaceGlobals(logg)

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	m := metrics.MustNewMetrics(registry)

	client, err := storage.NewClient(cfg.Storage)
	if err != nil {
		return nil, err
	}
	container := storage.NewContainer(client, cfg.Storage.Bucket)
	svc, err := documents.NewService(ctx, container, storage.NewFactory(client, container), logg, m)
	if err != nil {
		return nil, err
	}

	pipeline := results.NewPipeline(render.NewPDFRenderer(), svc, logg, m)

	return &runtime{
		cfg:       cfg,
		logger:    logg,
		registry:  registry,
		metrics:   m,
		documents: svc,
		pipeline:  pipeline,
	}, nil
}
