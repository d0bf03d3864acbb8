package results

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"document-manager/core/metrics"
	"document-manager/feature/results/models"
	"document-manager/feature/results/render"

	"go.uber.org/zap"
)

// ContentType of every rendered report.
const ContentType = "application/pdf"

// Pipeline outcomes, used as metric labels.
const (
	OutcomeCompleted    = "completed"
	OutcomeRenderFailed = "render_failed"
	OutcomeUploadFailed = "upload_failed"
	OutcomeDecodeFailed = "decode_failed"
)

// Store is where rendered reports are written.
type Store interface {
	Put(ctx context.Context, key string, content io.Reader, size int64, contentType string) error
}

// Pipeline renders appointment results and stores them under <resultId>.pdf.
// It keeps no state between events, so redelivering an event overwrites
// the same object with equivalent content.
type Pipeline struct {
	renderer render.Renderer
	store    Store
	logger   *zap.Logger
	metrics  *metrics.Metrics
}

// NewPipeline creates a pipeline.
func NewPipeline(renderer render.Renderer, store Store, logger *zap.Logger, m *metrics.Metrics) *Pipeline {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Pipeline{renderer: renderer, store: store, logger: logger, metrics: m}
}

// HandleMessage decodes body and processes it. It has the broker.Handler
// signature. Undecodable payloads return a *DecodeError.
func (p *Pipeline) HandleMessage(ctx context.Context, body []byte) error {
	event, err := DecodeEvent(body)
	if err != nil {
		p.metrics.IncEvent(OutcomeDecodeFailed)
		p.logger.Error("Discarding undecodable event", zap.Error(err), zap.Int("bytes", len(body)))
		return err
	}
	return p.Process(ctx, event)
}

// Process renders event and uploads the report. A render failure never
// reaches the store. Store failures are returned as-is for the transport
// to redeliver.
func (p *Pipeline) Process(ctx context.Context, event models.AppointmentResult) error {
	l := p.logger.With(zap.String("result_id", event.ResultID.String()))
	l.Info("Received appointment result")

	start := time.Now()
	doc, err := p.renderer.Render(event)
	p.metrics.ObserveRender(time.Since(start))
	if err != nil {
		var re *render.RenderError
		if !errors.As(err, &re) {
			err = &render.RenderError{ResultID: event.ResultID.String(), Err: err}
		}
		p.metrics.IncEvent(OutcomeRenderFailed)
		l.Error("Rendering failed", zap.Error(err))
		return err
	}

	key := event.StorageKey()
	l.Info("Uploading report", zap.String("key", key), zap.Int("bytes", len(doc)))
	if err := p.store.Put(ctx, key, bytes.NewReader(doc), int64(len(doc)), ContentType); err != nil {
		p.metrics.IncEvent(OutcomeUploadFailed)
		l.Error("Upload failed", zap.String("key", key), zap.Error(err))
		return fmt.Errorf("upload %s: %w", key, err)
	}

	p.metrics.IncEvent(OutcomeCompleted)
	l.Info("Report stored", zap.String("key", key))
	return nil
}
