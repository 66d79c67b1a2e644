package orders

import (
	"context"
	"time"

	kafkax "github.com/ariefcatur/go-econstore/internal/kafka"
	"github.com/ariefcatur/go-econstore/internal/logging"
	"github.com/google/uuid"
	kafkago "github.com/segmentio/kafka-go"
)

type Publisher interface {
	Publish(key, value []byte, headers ...kafkago.Header)
}

type traceKey struct{}

// WithTraceID stores the request id that ends up in published envelopes.
func WithTraceID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, traceKey{}, id)
}

func traceID(ctx context.Context) string {
	s, _ := ctx.Value(traceKey{}).(string)
	return s
}

// Announcer is the Notifier used by the API: it primes the status cache and
// publishes OrderCreated once the transaction has committed.
type Announcer struct {
	Producer Publisher
	Cache    StatusCache
	Service  string
}

func (a *Announcer) OrderCreated(ctx context.Context, o Order, items []OrderItem) {
	if a.Cache != nil {
		if err := a.Cache.Set(ctx, o.ID, string(o.Status)); err != nil {
			logging.FromContext(ctx).Warn("status cache write failed", "order_id", o.ID, "error", err)
		}
	}

	prices := make([]ItemPrice, 0, len(items))
	for _, it := range items {
		prices = append(prices, ItemPrice{ProductID: it.ProductID, Qty: it.Quantity, UnitPrice: it.UnitPrice})
	}
	ev := Envelope{
		EventID:       uuid.NewString(),
		EventType:     EventOrderCreated,
		EventVersion:  1,
		OccurredAt:    time.Now().UTC(),
		Producer:      a.Service,
		TraceID:       traceID(ctx),
		CorrelationID: string(PartitionKey(o.ID)),
		Payload: kafkax.MustMarshal(OrderCreatedPayload{
			OrderID: o.ID,
			UserID:  o.UserID,
			Status:  o.Status,
			Total:   o.Total,
			Items:   prices,
		}),
	}
	a.Producer.Publish(PartitionKey(o.ID), kafkax.MustMarshal(ev),
		kafkago.Header{Key: "x-event-type", Value: []byte(EventOrderCreated)},
		kafkago.Header{Key: "x-event-version", Value: []byte("1")},
	)
}
