package results

import (
	"bytes"
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"document-manager/core/apperror"
	"document-manager/core/broker"
	"document-manager/core/metrics"
	"document-manager/core/storage"
	"document-manager/feature/documents"
	"document-manager/feature/results/models"
	"document-manager/feature/results/render"

	"github.com/ledongthuc/pdf"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type mockRenderer struct {
	mock.Mock
}

func (m *mockRenderer) Render(r models.AppointmentResult) ([]byte, error) {
	args := m.Called(r)
	b, _ := args.Get(0).([]byte)
	return b, args.Error(1)
}

type mockStore struct {
	mock.Mock
}

func (m *mockStore) Put(ctx context.Context, key string, content io.Reader, size int64, contentType string) error {
	args := m.Called(ctx, key, content, size, contentType)
	return args.Error(0)
}

func newDocumentService(t *testing.T) (*documents.Service, *storage.MemoryClient) {
	t.Helper()
	client := storage.NewMemoryClient()
	container := storage.NewContainer(client, "documents")
	svc, err := documents.NewService(context.Background(), container, storage.NewFactory(client, container), zap.NewNop(), nil)
	require.NoError(t, err)
	return svc, client
}

func pdfText(t *testing.T, doc []byte) string {
	t.Helper()
	r, err := pdf.NewReader(bytes.NewReader(doc), int64(len(doc)))
	require.NoError(t, err)
	plain, err := r.GetPlainText()
	require.NoError(t, err)
	b, err := io.ReadAll(plain)
	require.NoError(t, err)
	return strings.Join(strings.Fields(string(b)), " ")
}

func TestPipeline_JaneDoe(t *testing.T) {
	svc, _ := newDocumentService(t)
	p := NewPipeline(render.NewPDFRenderer(), svc, zap.NewNop(), nil)

	require.NoError(t, p.HandleMessage(context.Background(), []byte(janeDoeJSON)))

	doc, err := svc.Get(context.Background(), "9b2f6c1e-3d4a-4e8b-9c71-2a5d0f6e8b13.pdf")
	require.NoError(t, err)
	defer doc.Content.Close()
	assert.Equal(t, ContentType, doc.ContentType)

	body, err := io.ReadAll(doc.Content)
	require.NoError(t, err)
	text := pdfText(t, body)
	for _, want := range []string{"Jane Doe", "John Smith", "Therapy", "General Consultation", "Headache", "Tension headache", "Rest and hydration", "01 May 2024, 10:30", "03/15/1990"} {
		assert.Contains(t, text, want)
	}
}

func TestPipeline_RedeliveryIsIdempotent(t *testing.T) {
	svc, client := newDocumentService(t)
	p := NewPipeline(render.NewPDFRenderer(), svc, zap.NewNop(), nil)
	ctx := context.Background()

	require.NoError(t, p.HandleMessage(ctx, []byte(janeDoeJSON)))
	first, err := svc.Get(ctx, "9b2f6c1e-3d4a-4e8b-9c71-2a5d0f6e8b13.pdf")
	require.NoError(t, err)
	firstBody, _ := io.ReadAll(first.Content)
	first.Content.Close()

	require.NoError(t, p.HandleMessage(ctx, []byte(janeDoeJSON)))
	second, err := svc.Get(ctx, "9b2f6c1e-3d4a-4e8b-9c71-2a5d0f6e8b13.pdf")
	require.NoError(t, err)
	secondBody, _ := io.ReadAll(second.Content)
	second.Content.Close()

	assert.Equal(t, 1, client.Len("documents"))
	assert.Equal(t, firstBody, secondBody)
}

func TestPipeline_MalformedEmailStillStored(t *testing.T) {
	svc, client := newDocumentService(t)
	p := NewPipeline(render.NewPDFRenderer(), svc, zap.NewNop(), nil)
	body := strings.Replace(janeDoeJSON, `"jane@example.com"`, `"jane at example"`, 1)

	require.NoError(t, p.HandleMessage(context.Background(), []byte(body)))
	assert.Equal(t, 1, client.Len("documents"))

	doc, err := svc.Get(context.Background(), "9b2f6c1e-3d4a-4e8b-9c71-2a5d0f6e8b13.pdf")
	require.NoError(t, err)
	defer doc.Content.Close()
	assert.Equal(t, ContentType, doc.ContentType)
}

func TestPipeline_RenderFailureNeverUploads(t *testing.T) {
	renderer := new(mockRenderer)
	renderer.On("Render", mock.Anything).Return(nil, errors.New("font table corrupt"))
	store := new(mockStore)

	reg := prometheus.NewRegistry()
	p := NewPipeline(renderer, store, zap.NewNop(), metrics.MustNewMetrics(reg))

	err := p.HandleMessage(context.Background(), []byte(janeDoeJSON))
	require.Error(t, err)

	var re *render.RenderError
	assert.True(t, errors.As(err, &re))
	assert.True(t, broker.IsPermanent(err))
	assert.NotErrorIs(t, err, apperror.ErrStoreUnavailable)
	store.AssertNotCalled(t, "Put", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)

	assert.Equal(t, 1.0, eventCount(t, reg, OutcomeRenderFailed))
}

func TestPipeline_StoreFailurePropagates(t *testing.T) {
	renderer := new(mockRenderer)
	renderer.On("Render", mock.Anything).Return([]byte("%PDF-1.3 stub"), nil)
	store := new(mockStore)
	storeErr := apperror.StoreUnavailable("put", "9b2f6c1e-3d4a-4e8b-9c71-2a5d0f6e8b13.pdf", errors.New("connection reset"))
	store.On("Put", mock.Anything, "9b2f6c1e-3d4a-4e8b-9c71-2a5d0f6e8b13.pdf", mock.Anything, int64(13), ContentType).Return(storeErr)

	p := NewPipeline(renderer, store, nil, nil)
	err := p.HandleMessage(context.Background(), []byte(janeDoeJSON))

	assert.ErrorIs(t, err, apperror.ErrStoreUnavailable)
	assert.False(t, broker.IsPermanent(err))
	store.AssertExpectations(t)
}

func TestPipeline_CancelledLeaseFails(t *testing.T) {
	svc, client := newDocumentService(t)
	p := NewPipeline(render.NewPDFRenderer(), svc, zap.NewNop(), nil)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := p.HandleMessage(ctx, []byte(janeDoeJSON))
	assert.ErrorIs(t, err, apperror.ErrStoreUnavailable)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 0, client.Len("documents"))
}

func TestPipeline_PoisonMessage(t *testing.T) {
	store := new(mockStore)
	reg := prometheus.NewRegistry()
	p := NewPipeline(new(mockRenderer), store, zap.NewNop(), metrics.MustNewMetrics(reg))

	err := p.HandleMessage(context.Background(), []byte(`{"resultId":`))
	assert.True(t, broker.IsPermanent(err))
	store.AssertNotCalled(t, "Put", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	assert.Equal(t, 1.0, eventCount(t, reg, OutcomeDecodeFailed))
}

// eventCount reads the pipeline event counter for outcome from reg.
func eventCount(t *testing.T, reg *prometheus.Registry, outcome string) float64 {
	t.Helper()
	families, err := reg.Gather()
	require.NoError(t, err)
	for _, mf := range families {
		if mf.GetName() != "document_manager_pipeline_events_total" {
			continue
		}
		for _, m := range mf.GetMetric() {
			for _, lp := range m.GetLabel() {
				if lp.GetName() == "outcome" && lp.GetValue() == outcome {
					return m.GetCounter().GetValue()
				}
			}
		}
	}
	return 0
}
