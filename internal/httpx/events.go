package httpx

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5/middleware"
	kafkago "github.com/segmentio/kafka-go"

	kafkax "github.com/champomix/champomix-api/internal/kafka"
	"github.com/champomix/champomix-api/internal/shop"
)

// Emitter publishes entity events after successful writes. A nil Emitter or
// nil Publisher drops them.
type Emitter struct {
	Publisher kafkax.Publisher
	Service   string
}

type entityEvents struct {
	topic, created, replaced, deleted string
}

var (
	productEvents = entityEvents{shop.TopicProducts, shop.EventProductCreated, shop.EventProductReplaced, shop.EventProductDeleted}
	userEvents    = entityEvents{shop.TopicUsers, shop.EventUserCreated, shop.EventUserReplaced, shop.EventUserDeleted}
	orderEvents   = entityEvents{shop.TopicOrders, shop.EventOrderCreated, shop.EventOrderReplaced, shop.EventOrderDeleted}
)

func (e *Emitter) emit(r *http.Request, topic, eventType string, id int64, payload any) {
	if e == nil || e.Publisher == nil {
		return
	}
	env := shop.NewEnvelope(eventType, e.Service, middleware.GetReqID(r.Context()), id, kafkax.MustMarshal(payload))
	e.Publisher.Publish(topic, shop.PartitionKey(id), kafkax.MustMarshal(env),
		kafkago.Header{Key: "x-event-type", Value: []byte(eventType)},
		kafkago.Header{Key: "x-event-version", Value: []byte(strconv.Itoa(shop.EventVersion))},
	)
}
