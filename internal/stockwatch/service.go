package stockwatch

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/ariefcatur/go-econstore/internal/catalog"
	kafkax "github.com/ariefcatur/go-econstore/internal/kafka"
	"github.com/ariefcatur/go-econstore/internal/orders"
	"github.com/ariefcatur/go-econstore/internal/redisx"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	kafkago "github.com/segmentio/kafka-go"
)

type ProductReader interface {
	GetByID(ctx context.Context, id int64) (catalog.Product, error)
}

// Service watches committed orders and raises StockLow for every ordered
// product whose remaining stock is at or below Threshold.
type Service struct {
	Products    ProductReader
	Redis       redis.Cmdable
	Producer    orders.Publisher // publish product.stock.low
	Threshold   int
	ServiceName string
	Log         *slog.Logger
}

// HandleOrderCreated dipasang sebagai handler consumer.
func (s *Service) HandleOrderCreated(ctx context.Context, m kafkago.Message) error {
	var env orders.Envelope
	if err := json.Unmarshal(m.Value, &env); err != nil {
		return kafkax.Permanent(fmt.Errorf("decode envelope: %w", err))
	}
	if env.EventType != orders.EventOrderCreated {
		return nil
	}

	// dedup via Redis (pakai event_id)
	dkey := fmt.Sprintf(redisx.KeyDedup, "stockwatch", env.EventID)
	claimed, err := redisx.MarkOnce(ctx, s.Redis, dkey, redisx.TTLDedup)
	if err != nil {
		return err
	}
	if !claimed {
		return nil
	}

	if err := s.check(ctx, env); err != nil {
		// lepas kunci supaya retry consumer bisa diproses ulang
		_ = s.Redis.Del(ctx, dkey).Err()
		return err
	}
	return nil
}

func (s *Service) check(ctx context.Context, env orders.Envelope) error {
	p, err := kafkax.UnwrapPayload[orders.OrderCreatedPayload](env.Payload)
	if err != nil {
		return kafkax.Permanent(err)
	}
	for _, it := range p.Items {
		prod, err := s.Products.GetByID(ctx, it.ProductID)
		if errors.Is(err, catalog.ErrNotFound) {
			continue
		}
		if err != nil {
			return err
		}
		if prod.Stock > s.Threshold {
			continue
		}
		s.logger().Info("stock low", "product_id", prod.ID, "stock", prod.Stock, "order_id", p.OrderID)
		s.publishLow(prod, p.OrderID, env.TraceID)
	}
	return nil
}

func (s *Service) publishLow(prod catalog.Product, orderID int64, trace string) {
	ev := orders.Envelope{
		EventID:       uuid.NewString(),
		EventType:     orders.EventStockLow,
		EventVersion:  1,
		OccurredAt:    time.Now().UTC(),
		Producer:      s.ServiceName,
		TraceID:       trace,
		CorrelationID: string(orders.PartitionKey(orderID)),
		Payload: kafkax.MustMarshal(orders.StockLowPayload{
			ProductID: prod.ID,
			Name:      prod.Name,
			Stock:     prod.Stock,
			Threshold: s.Threshold,
			OrderID:   orderID,
		}),
	}
	s.Producer.Publish(orders.PartitionKey(prod.ID), kafkax.MustMarshal(ev),
		kafkago.Header{Key: "x-event-type", Value: []byte(orders.EventStockLow)},
		kafkago.Header{Key: "x-event-version", Value: []byte("1")},
	)
}

func (s *Service) logger() *slog.Logger {
	if s.Log != nil {
		return s.Log
	}
	return slog.Default()
}
