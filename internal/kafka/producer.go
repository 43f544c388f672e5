package kafka

import (
	"context"
	"time"

	"github.com/segmentio/kafka-go"

	"github.com/champomix/champomix-api/internal/logger"
)

// Publisher hands a message to the broker without waiting for it.
type Publisher interface {
	Publish(topic string, key, value []byte, headers ...kafka.Header)
}

// Discard is the Publisher used when no broker is configured.
type Discard struct{}

func (Discard) Publish(string, []byte, []byte, ...kafka.Header) {}

type Producer struct {
	w       *kafka.Writer
	inbox   chan kafka.Message
	closeCh chan struct{}
}

// NewProducer builds a producer that routes each message to its own topic.
func NewProducer(brokers []string, buf int) *Producer {
	return &Producer{
		w: &kafka.Writer{
			Addr:                   kafka.TCP(brokers...),
			Balancer:               &kafka.Hash{},
			RequiredAcks:           kafka.RequireAll,
			AllowAutoTopicCreation: true,
			Async:                  true,
			Completion: func(msgs []kafka.Message, err error) {
				if err != nil {
					logger.Default().WithError(err).WithField("messages", len(msgs)).Error("kafka write failed")
				}
			},
		},
		inbox:   make(chan kafka.Message, buf),
		closeCh: make(chan struct{}),
	}
}

// Start drains the inbox until Close is called, then flushes the writer.
func (p *Producer) Start(ctx context.Context) {
	go func() {
		defer close(p.closeCh)
		for m := range p.inbox {
			if err := p.w.WriteMessages(ctx, m); err != nil {
				logger.Default().WithError(err).WithField("topic", m.Topic).Error("kafka enqueue failed")
			}
		}
		if err := p.w.Close(); err != nil {
			logger.Default().WithError(err).Warn("kafka writer close")
		}
	}()
}

func (p *Producer) Publish(topic string, key, value []byte, headers ...kafka.Header) {
	p.inbox <- kafka.Message{
		Topic:   topic,
		Key:     key,
		Value:   value,
		Time:    time.Now(),
		Headers: headers,
	}
}

// Close stops accepting messages; the Start goroutine flushes what is left.
func (p *Producer) Close() { close(p.inbox) }

// WaitClosed blocks until the writer is flushed and closed.
func (p *Producer) WaitClosed() { <-p.closeCh }
