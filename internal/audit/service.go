// Package audit records every entity event published by the API.
package audit

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"
	kafkago "github.com/segmentio/kafka-go"
	"github.com/sirupsen/logrus"

	kafkax "github.com/champomix/champomix-api/internal/kafka"
	"github.com/champomix/champomix-api/internal/logger"
	"github.com/champomix/champomix-api/internal/redisx"
	"github.com/champomix/champomix-api/internal/shop"
)

type Service struct {
	// Redis dedups redelivered events. Nil disables dedup.
	Redis       *redis.Client
	ServiceName string
	Log         *logrus.Entry
}

// HandleEvent is installed as the consumer handler.
func (s *Service) HandleEvent(ctx context.Context, m kafkago.Message) error {
	env, err := kafkax.UnwrapPayload[shop.Envelope](m.Value)
	if err != nil {
		return fmt.Errorf("topic %s offset %d: %w", m.Topic, m.Offset, err)
	}
	if env.EventID == "" || env.EventType == "" {
		return fmt.Errorf("topic %s offset %d: envelope without id or type", m.Topic, m.Offset)
	}

	if s.Redis != nil {
		key := fmt.Sprintf(redisx.KeyDedup, s.ServiceName, env.EventID)
		first, err := redisx.MarkOnce(ctx, s.Redis, key, redisx.TTLDedup)
		if err != nil {
			return fmt.Errorf("dedup %s: %w", env.EventID, err)
		}
		if !first {
			return nil
		}
	}

	s.log().WithFields(logrus.Fields{
		"topic":          m.Topic,
		"event_id":       env.EventID,
		"event_type":     env.EventType,
		"event_version":  env.EventVersion,
		"producer":       env.Producer,
		"trace_id":       env.TraceID,
		"correlation_id": env.CorrelationID,
		"occurred_at":    env.OccurredAt,
		"payload":        string(env.Payload),
	}).Info("entity event")
	return nil
}

func (s *Service) log() *logrus.Entry {
	if s.Log != nil {
		return s.Log
	}
	return logger.Default()
}
