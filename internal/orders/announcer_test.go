package orders

import (
	"context"
	"encoding/json"
	"testing"

	kafkax "github.com/ariefcatur/go-econstore/internal/kafka"
	kafkago "github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type published struct {
	key     []byte
	value   []byte
	headers []kafkago.Header
}

type capturePublisher struct{ msgs []published }

func (c *capturePublisher) Publish(key, value []byte, headers ...kafkago.Header) {
	c.msgs = append(c.msgs, published{key: key, value: value, headers: headers})
}

type mapCache map[int64]string

func (m mapCache) Get(_ context.Context, id int64) (string, bool, error) {
	v, ok := m[id]
	return v, ok, nil
}

func (m mapCache) Set(_ context.Context, id int64, s string) error {
	m[id] = s
	return nil
}

func TestAnnouncer_PublishesOrderCreated(t *testing.T) {
	pub := &capturePublisher{}
	cache := mapCache{}
	a := &Announcer{Producer: pub, Cache: cache, Service: "econstore-api"}
	ctx := WithTraceID(context.Background(), "req-1")

	a.OrderCreated(ctx, Order{ID: 42, UserID: 1, Total: 200, Status: StatusPending}, []OrderItem{
		{OrderID: 42, ProductID: 1, Quantity: 2, UnitPrice: 50},
		{OrderID: 42, ProductID: 2, Quantity: 1, UnitPrice: 100},
	})

	require.Len(t, pub.msgs, 1)
	msg := pub.msgs[0]
	assert.Equal(t, "42", string(msg.key))
	assert.Equal(t, EventOrderCreated, string(msg.headers[0].Value))

	var env Envelope
	require.NoError(t, json.Unmarshal(msg.value, &env))
	assert.Equal(t, EventOrderCreated, env.EventType)
	assert.Equal(t, "req-1", env.TraceID)
	assert.Equal(t, "econstore-api", env.Producer)
	assert.NotEmpty(t, env.EventID)

	p, err := kafkax.UnwrapPayload[OrderCreatedPayload](env.Payload)
	require.NoError(t, err)
	assert.Equal(t, int64(42), p.OrderID)
	assert.Equal(t, []ItemPrice{{ProductID: 1, Qty: 2, UnitPrice: 50}, {ProductID: 2, Qty: 1, UnitPrice: 100}}, p.Items)

	assert.Equal(t, "Pendente", cache[42])
}
