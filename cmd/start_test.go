package cmd

import (
	"context"
	"net/http/httptest"
	"testing"

	"document-manager/core/config"
	"document-manager/core/metrics"
	"document-manager/core/server"
	"document-manager/core/storage"
	"document-manager/feature/documents"
	"document-manager/feature/results"
	"document-manager/feature/results/render"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestRuntime(t *testing.T) *runtime {
	t.Helper()
	registry := prometheus.NewRegistry()
	m := metrics.MustNewMetrics(registry)
	client := storage.NewMemoryClient()
	container := storage.NewContainer(client, "documents")
	svc, err := documents.NewService(context.Background(), container, storage.NewFactory(client, container), zap.NewNop(), m)
	require.NoError(t, err)

	return &runtime{
		cfg: &config.Config{
			Server:  server.Config{Port: "8080", ApiKey: "secret", CorsOrigins: "*"},
			Metrics: metrics.Config{Enabled: true, Path: "/metrics"},
		},
		logger:    zap.NewNop(),
		registry:  registry,
		metrics:   m,
		documents: svc,
		pipeline:  results.NewPipeline(render.NewPDFRenderer(), svc, zap.NewNop(), m),
	}
}

func TestNewApp_CORS(t *testing.T) {
	app, err := newApp(newTestRuntime(t))
	require.NoError(t, err)

	req := httptest.NewRequest("OPTIONS", "/document/report.pdf", nil)
	req.Header.Set("Origin", "https://portal.example.com")
	req.Header.Set("Access-Control-Request-Method", "DELETE")
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, 204, resp.StatusCode)
	assert.Equal(t, "*", resp.Header.Get("Access-Control-Allow-Origin"))

	req = httptest.NewRequest("GET", "/document/report.pdf", nil)
	req.Header.Set("Origin", "https://portal.example.com")
	resp, err = app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, 401, resp.StatusCode)
	assert.Equal(t, "*", resp.Header.Get("Access-Control-Allow-Origin"))
}

func TestNewApp_APIKey(t *testing.T) {
	app, err := newApp(newTestRuntime(t))
	require.NoError(t, err)

	req := httptest.NewRequest("GET", "/document/missing.pdf", nil)
	req.Header.Set("X-API-Key", "secret")
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, 404, resp.StatusCode)

	resp, err = app.Test(httptest.NewRequest("GET", "/metrics", nil))
	require.NoError(t, err)
	assert.Equal(t, 200, resp.StatusCode)
}
