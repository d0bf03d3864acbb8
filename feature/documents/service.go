package documents

import (
	"context"
	"errors"
	"io"
	"net/url"
	"time"

	"document-manager/core/apperror"
	"document-manager/core/metrics"
	"document-manager/core/storage"

	"go.uber.org/zap"
)

// DefaultContentType is recorded when an upload does not name one.
const DefaultContentType = "application/octet-stream"

// StoredDocument is a retrieved document. The caller must close Content.
type StoredDocument struct {
	Key         string
	Content     io.ReadCloser
	ContentType string
	Size        int64
}

// Service is the only place raw store failures become domain errors.
// Every failure it returns is NotFound or StoreUnavailable.
type Service struct {
	container *storage.Container
	factory   storage.ClientFactory
	logger    *zap.Logger
	metrics   *metrics.Metrics
}

// NewService ensures the container exists and returns the service. A store
// that cannot be reached aborts construction with StoreUnavailable.
func NewService(ctx context.Context, container *storage.Container, factory storage.ClientFactory, logger *zap.Logger, m *metrics.Metrics) (*Service, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if err := container.CreateIfNotExists(ctx); err != nil {
		return nil, apperror.StoreUnavailable("create container", container.Name(), err)
	}
	logger.Info("Container ready", zap.String("bucket", container.Name()), zap.String("url", container.URL()))
	return &Service{container: container, factory: factory, logger: logger, metrics: m}, nil
}

// Get returns the document stored under key with its recorded content type.
func (s *Service) Get(ctx context.Context, key string) (*StoredDocument, error) {
	start := time.Now()
	oc, err := s.object(ctx, "get", key)
	if err != nil {
		return nil, s.done("get", key, start, err)
	}

	obj, err := oc.Download(ctx)
	if err != nil {
		return nil, s.done("get", key, start, s.translate(ctx, "get", key, err))
	}

	s.done("get", key, start, nil)
	return &StoredDocument{Key: key, Content: obj.Body, ContentType: obj.ContentType, Size: obj.Size}, nil
}

// Put creates or overwrites the document under key. It is not retried.
func (s *Service) Put(ctx context.Context, key string, content io.Reader, size int64, contentType string) error {
	start := time.Now()
	oc, err := s.object(ctx, "put", key)
	if err != nil {
		return s.done("put", key, start, err)
	}
	if contentType == "" {
		contentType = DefaultContentType
	}

	if err := oc.Upload(ctx, content, size, contentType); err != nil {
		return s.done("put", key, start, s.translate(ctx, "put", key, err))
	}
	return s.done("put", key, start, nil)
}

// Delete removes the document under key. Existence is checked first since
// S3-compatible stores report success for missing keys.
func (s *Service) Delete(ctx context.Context, key string) error {
	start := time.Now()
	oc, err := s.object(ctx, "delete", key)
	if err != nil {
		return s.done("delete", key, start, err)
	}

	if _, err := oc.Stat(ctx); err != nil {
		return s.done("delete", key, start, s.translate(ctx, "delete", key, err))
	}
	if err := oc.Delete(ctx); err != nil {
		return s.done("delete", key, start, s.translate(ctx, "delete", key, err))
	}
	return s.done("delete", key, start, nil)
}

// ObjectURL is the fully-qualified URL of key inside the container.
func (s *Service) ObjectURL(key string) string {
	return s.container.URL() + "/" + url.PathEscape(key)
}

func (s *Service) object(ctx context.Context, op, key string) (storage.ObjectClient, error) {
	if key == "" {
		return nil, apperror.NotFound(op, key, nil)
	}
	if err := ctx.Err(); err != nil {
		return nil, apperror.StoreUnavailable(op, key, err)
	}
	oc, err := s.factory.NewObjectClient(s.ObjectURL(key))
	if err != nil {
		return nil, apperror.StoreUnavailable(op, key, err)
	}
	return oc, nil
}

func (s *Service) translate(ctx context.Context, op, key string, err error) error {
	switch {
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return apperror.StoreUnavailable(op, key, err)
	case ctx.Err() != nil:
		return apperror.StoreUnavailable(op, key, errors.Join(ctx.Err(), err))
	case storage.IsNotFound(err):
		return apperror.NotFound(op, key, err)
	default:
		return apperror.StoreUnavailable(op, key, err)
	}
}

// done logs and records the outcome of op, returning err unchanged.
func (s *Service) done(op, key string, start time.Time, err error) error {
	elapsed := time.Since(start)
	fields := []zap.Field{
		zap.String("op", op),
		zap.String("key", key),
		zap.String("bucket", s.container.Name()),
		zap.Duration("elapsed", elapsed),
	}

	outcome := "ok"
	switch kind := apperror.KindOf(err); {
	case err == nil:
		s.logger.Info("Document operation succeeded", append(fields, zap.String("outcome", outcome))...)
	case kind == apperror.KindNotFound:
		outcome = kind.String()
		s.logger.Warn("Document not found", append(fields, zap.String("outcome", outcome))...)
	default:
		outcome = kind.String()
		s.logger.Error("Document operation failed", append(fields, zap.String("outcome", outcome), zap.Error(err))...)
	}
	s.metrics.ObserveStorage(op, outcome, elapsed)
	return err
}
