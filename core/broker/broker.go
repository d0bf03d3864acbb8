package broker

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"document-manager/core/apperror"
	"document-manager/core/metrics"

	"go.uber.org/zap"
)

// Handler processes one message body. A nil return settles the message; a
// permanent error drops it; any other error hands it back for redelivery.
type Handler func(ctx context.Context, body []byte) error

// Consumer pulls messages from a transport and feeds them to a Handler.
type Consumer interface {
	// Run blocks until ctx is cancelled or the transport fails, then waits
	// for in-flight handlers to return.
	Run(ctx context.Context, h Handler) error
	Close() error
}

// Settlement labels used for metrics.
const (
	settleAck     = "ack"
	settleRequeue = "requeue"
	settleDrop    = "drop"
)

// IsPermanent reports whether err marks a message that can never succeed.
func IsPermanent(err error) bool {
	var p interface{ Permanent() bool }
	return errors.As(err, &p) && p.Permanent()
}

// NewConsumer builds the consumer selected by cfg.Driver.
func NewConsumer(cfg Config, logger *zap.Logger, m *metrics.Metrics) (Consumer, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	switch cfg.Driver {
	case DriverRabbitMQ, "":
		return NewRabbitMQ(cfg, logger, m)
	case DriverSQS:
		return NewSQS(cfg, logger, m)
	case DriverNone:
		return idle{}, nil
	default:
		return nil, apperror.Configuration(fmt.Sprintf("unknown broker driver %q", cfg.Driver), nil)
	}
}

// idle is the consumer used when no broker is configured.
type idle struct{}

func (idle) Run(ctx context.Context, _ Handler) error {
	<-ctx.Done()
	return nil
}

func (idle) Close() error { return nil }

// pool bounds concurrent handlers with a semaphore.
type pool struct {
	sem chan struct{}
	wg  sync.WaitGroup
}

func newPool(size int) *pool {
	return &pool{sem: make(chan struct{}, max(1, size))}
}

// Go runs fn once a slot is free. It returns false without running fn when
// ctx ends first.
func (p *pool) Go(ctx context.Context, fn func()) bool {
	select {
	case <-ctx.Done():
		return false
	case p.sem <- struct{}{}:
	}
	p.wg.Add(1)
	go func() {
		defer p.wg.Done()
		defer func() { <-p.sem }()
		fn()
	}()
	return true
}

func (p *pool) Wait() { p.wg.Wait() }
