package broker

import (
	"context"
	"errors"
	"fmt"
	"net"
	"strconv"
	"time"

	"document-manager/core/metrics"

	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"
)

// amqpChannel is the slice of *amqp.Channel used by the consumer.
type amqpChannel interface {
	Qos(prefetchCount, prefetchSize int, global bool) error
	QueueDeclare(name string, durable, autoDelete, exclusive, noWait bool, args amqp.Table) (amqp.Queue, error)
	ExchangeDeclare(name, kind string, durable, autoDelete, internal, noWait bool, args amqp.Table) error
	QueueBind(name, key, exchange string, noWait bool, args amqp.Table) error
	ConsumeWithContext(ctx context.Context, queue, consumer string, autoAck, exclusive, noLocal, noWait bool, args amqp.Table) (<-chan amqp.Delivery, error)
	Close() error
}

// RabbitMQ consumes a durable queue with manual acknowledgements.
type RabbitMQ struct {
	cfg     Config
	logger  *zap.Logger
	metrics *metrics.Metrics

	conn    *amqp.Connection
	channel amqpChannel
}

// NewRabbitMQ dials the broker and opens a channel.
func NewRabbitMQ(cfg Config, logger *zap.Logger, m *metrics.Metrics) (*RabbitMQ, error) {
	uri := amqp.URI{
		Scheme:   "amqp",
		Host:     cfg.Host,
		Port:     cfg.Port,
		Username: cfg.Username,
		Password: cfg.Password,
		Vhost:    cfg.VHost,
	}
	if uri.Port == 0 {
		uri.Port = 5672
	}

	conn, err := amqp.DialConfig(uri.String(), amqp.Config{
		Heartbeat: 10 * time.Second,
		Dial:      amqp.DefaultDial(30 * time.Second),
		Properties: amqp.Table{
			"connection_name": "document-manager",
		},
	})
	if err != nil {
		return nil, fmt.Errorf("dial rabbitmq %s: %w", net.JoinHostPort(cfg.Host, strconv.Itoa(uri.Port)), err)
	}
	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("open rabbitmq channel: %w", err)
	}
	return &RabbitMQ{cfg: cfg, logger: logger, metrics: m, conn: conn, channel: ch}, nil
}

// Run declares the queue and dispatches deliveries until ctx is cancelled.
func (r *RabbitMQ) Run(ctx context.Context, h Handler) error {
	queue := r.cfg.Queue
	if queue == "" {
		queue = DefaultQueue
	}
	concurrency := r.cfg.concurrency()

	if _, err := r.channel.QueueDeclare(queue, true, false, false, false, nil); err != nil {
		return fmt.Errorf("declare queue %s: %w", queue, err)
	}
	if ex := r.cfg.Exchange; ex != "" {
		kind := r.cfg.ExchangeType
		if kind == "" {
			kind = amqp.ExchangeFanout
		}
		if err := r.channel.ExchangeDeclare(ex, kind, true, false, false, false, nil); err != nil {
			return fmt.Errorf("declare exchange %s: %w", ex, err)
		}
		if err := r.channel.QueueBind(queue, r.cfg.RoutingKey, ex, false, nil); err != nil {
			return fmt.Errorf("bind %s to %s: %w", queue, ex, err)
		}
	}
	if err := r.channel.Qos(concurrency, 0, false); err != nil {
		return fmt.Errorf("set qos: %w", err)
	}
	deliveries, err := r.channel.ConsumeWithContext(ctx, queue, "", false, false, false, false, nil)
	if err != nil {
		return fmt.Errorf("consume %s: %w", queue, err)
	}

	r.logger.Info("Consumer started",
		zap.String("driver", DriverRabbitMQ),
		zap.String("queue", queue),
		zap.Int("concurrency", concurrency),
	)

	p := newPool(concurrency)
	defer p.Wait()

	// In-flight handlers finish their store call even after shutdown starts;
	// HandlerTimeoutSeconds still bounds each one.
	workCtx := context.WithoutCancel(ctx)

	for {
		select {
		case <-ctx.Done():
			return nil
		case d, ok := <-deliveries:
			if !ok {
				if ctx.Err() != nil {
					return nil
				}
				return errors.New("rabbitmq delivery channel closed")
			}
			if !p.Go(ctx, func() { r.handle(workCtx, h, d) }) {
				_ = d.Nack(false, true)
				return nil
			}
		}
	}
}

func (r *RabbitMQ) handle(ctx context.Context, h Handler, d amqp.Delivery) {
	l := r.logger.With(zap.Uint64("delivery_tag", d.DeliveryTag), zap.String("message_id", d.MessageId))

	if r.cfg.HandlerTimeoutSeconds > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, time.Duration(r.cfg.HandlerTimeoutSeconds)*time.Second)
		defer cancel()
	}

	err := h(ctx, d.Body)
	switch {
	case err == nil:
		if ackErr := d.Ack(false); ackErr != nil {
			l.Error("Ack failed", zap.Error(ackErr))
			return
		}
		r.metrics.IncDelivery(settleAck)
	case IsPermanent(err):
		l.Error("Dropping message", zap.Error(err))
		if nackErr := d.Nack(false, false); nackErr != nil {
			l.Error("Nack failed", zap.Error(nackErr))
			return
		}
		r.metrics.IncDelivery(settleDrop)
	default:
		l.Warn("Message failed, requeueing", zap.Error(err), zap.Bool("redelivered", d.Redelivered))
		if nackErr := d.Nack(false, true); nackErr != nil {
			l.Error("Nack failed", zap.Error(nackErr))
			return
		}
		r.metrics.IncDelivery(settleRequeue)
	}
}

// Close closes the channel and the connection.
func (r *RabbitMQ) Close() error {
	var errs []error
	if r.channel != nil {
		errs = append(errs, r.channel.Close())
	}
	if r.conn != nil && !r.conn.IsClosed() {
		errs = append(errs, r.conn.Close())
	}
	return errors.Join(errs...)
}
