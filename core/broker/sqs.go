package broker

import (
	"context"
	"errors"
	"fmt"
	"time"

	"document-manager/core/metrics"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/sqs"
	sqstypes "github.com/aws/aws-sdk-go-v2/service/sqs/types"
	"go.uber.org/zap"
)

const (
	sqsMaxMessages = 10
	sqsWaitSeconds = 20
)

type sqsAPI interface {
	ReceiveMessage(ctx context.Context, params *sqs.ReceiveMessageInput, optFns ...func(*sqs.Options)) (*sqs.ReceiveMessageOutput, error)
	DeleteMessage(ctx context.Context, params *sqs.DeleteMessageInput, optFns ...func(*sqs.Options)) (*sqs.DeleteMessageOutput, error)
}

// SQS long-polls a queue. The visibility timeout is the delivery lease: a
// message that is not deleted before it expires is delivered again.
type SQS struct {
	cfg     Config
	logger  *zap.Logger
	metrics *metrics.Metrics
	client  sqsAPI
	backoff time.Duration
}

// NewSQS builds an SQS consumer with static credentials.
func NewSQS(cfg Config, logger *zap.Logger, m *metrics.Metrics) (*SQS, error) {
	awsCfg := aws.Config{
		Region:      cfg.Region,
		Credentials: credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, ""),
	}
	client := sqs.NewFromConfig(awsCfg, func(o *sqs.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
		}
	})
	return newSQS(cfg, logger, m, client), nil
}

func newSQS(cfg Config, logger *zap.Logger, m *metrics.Metrics, client sqsAPI) *SQS {
	return &SQS{cfg: cfg, logger: logger, metrics: m, client: client, backoff: 2 * time.Second}
}

// Run polls until ctx is cancelled, then waits for in-flight handlers.
func (s *SQS) Run(ctx context.Context, h Handler) error {
	concurrency := s.cfg.concurrency()
	p := newPool(concurrency)
	defer p.Wait()

	s.logger.Info("Consumer started",
		zap.String("driver", DriverSQS),
		zap.String("queue_url", s.cfg.QueueURL),
		zap.Int("concurrency", concurrency),
		zap.Int("visibility_seconds", s.cfg.VisibilitySeconds),
	)

	for ctx.Err() == nil {
		resp, err := s.client.ReceiveMessage(ctx, &sqs.ReceiveMessageInput{
			QueueUrl:            aws.String(s.cfg.QueueURL),
			MaxNumberOfMessages: sqsMaxMessages,
			WaitTimeSeconds:     sqsWaitSeconds,
			VisibilityTimeout:   int32(s.cfg.VisibilitySeconds),
		})
		if err != nil {
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) || ctx.Err() != nil {
				return nil
			}
			s.logger.Warn("Receive failed", zap.Error(err))
			select {
			case <-ctx.Done():
				return nil
			case <-time.After(s.backoff):
			}
			continue
		}

		for _, msg := range resp.Messages {
			if !p.Go(ctx, func() { s.handle(ctx, h, msg) }) {
				// Unclaimed messages reappear once their lease expires.
				return nil
			}
		}
	}
	return nil
}

func (s *SQS) handle(ctx context.Context, h Handler, msg sqstypes.Message) {
	l := s.logger.With(zap.String("sqs_message_id", aws.ToString(msg.MessageId)))

	// The lease bounds the handler; work past it would race a redelivery.
	hctx := context.WithoutCancel(ctx)
	if s.cfg.VisibilitySeconds > 0 {
		var cancel context.CancelFunc
		hctx, cancel = context.WithTimeout(hctx, time.Duration(s.cfg.VisibilitySeconds)*time.Second)
		defer cancel()
	}

	err := h(hctx, []byte(aws.ToString(msg.Body)))
	switch {
	case err == nil:
		if s.delete(l, msg) {
			s.metrics.IncDelivery(settleAck)
		}
	case IsPermanent(err):
		l.Error("Dropping message", zap.Error(err))
		if s.delete(l, msg) {
			s.metrics.IncDelivery(settleDrop)
		}
	default:
		l.Warn("Message failed, leaving for redelivery", zap.Error(err))
		s.metrics.IncDelivery(settleRequeue)
	}
}

func (s *SQS) delete(l *zap.Logger, msg sqstypes.Message) bool {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if _, err := s.client.DeleteMessage(ctx, &sqs.DeleteMessageInput{
		QueueUrl:      aws.String(s.cfg.QueueURL),
		ReceiptHandle: msg.ReceiptHandle,
	}); err != nil {
		l.Error("Delete message failed", zap.Error(fmt.Errorf("delete %s: %w", aws.ToString(msg.MessageId), err)))
		return false
	}
	return true
}

// Close is a no-op; the SDK client holds no connection state.
func (s *SQS) Close() error { return nil }
