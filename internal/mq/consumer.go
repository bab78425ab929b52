package mq

import (
	"context"
	"errors"
	"time"

	"github.com/nats-io/nats.go/jetstream"
	"go.uber.org/zap"

	"github.com/d60-Lab/feed-service/pkg/logger"
)

// Result of handling one delivered message.
type Result int

const (
	// Ack removes the message from the queue.
	Ack Result = iota
	// RejectRequeue leaves the message for redelivery (transient failure).
	RejectRequeue
	// RejectDrop terminates the message (poison, never retried).
	RejectDrop
)

// Handler processes one message body. It must leave no partial state behind on
// RejectRequeue.
type Handler interface {
	Handle(ctx context.Context, data []byte) Result
}

const fetchBatch = 64

// Consume runs a pull-consume loop on stream/subject until ctx is done. Each
// delivered message is handled independently; redelivery on requeue is the
// transport's responsibility.
func (m *JetStream) Consume(ctx context.Context, stream, durable, subject string, h Handler) error {
	cons, err := m.js.CreateOrUpdateConsumer(ctx, stream, jetstream.ConsumerConfig{
		Durable:       durable,
		FilterSubject: subject,
		AckPolicy:     jetstream.AckExplicitPolicy,
	})
	if err != nil {
		return err
	}

	for {
		select {
		case <-ctx.Done():
			return nil
		default:
		}

		batch, err := cons.Fetch(fetchBatch, jetstream.FetchMaxWait(5*time.Second))
		if err != nil {
			if errors.Is(err, context.Canceled) {
				return nil
			}
			logger.Warn("fetch failed", zap.String("durable", durable), zap.Error(err))
			continue
		}

		for msg := range batch.Messages() {
			switch h.Handle(ctx, msg.Data()) {
			case Ack:
				if err := msg.Ack(); err != nil {
					logger.Warn("ack failed", zap.String("durable", durable), zap.Error(err))
				}
			case RejectRequeue:
				if err := msg.Nak(); err != nil {
					logger.Warn("nak failed", zap.String("durable", durable), zap.Error(err))
				}
			case RejectDrop:
				if err := msg.Term(); err != nil {
					logger.Warn("term failed", zap.String("durable", durable), zap.Error(err))
				}
			}
		}
	}
}
