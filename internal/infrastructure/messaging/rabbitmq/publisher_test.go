package rabbitmq

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	amqp "github.com/streadway/amqp"
	"github.com/your-org/fireplay-backend/internal/domain/cart"
	"github.com/your-org/fireplay-backend/internal/domain/order"
	"github.com/your-org/fireplay-backend/internal/pkg/logger"
)

type recordingChannel struct {
	keys   []string
	msgs   []amqp.Publishing
	err    error
	closed bool
}

func (c *recordingChannel) Publish(_, key string, _, _ bool, msg amqp.Publishing) error {
	if c.err != nil {
		return c.err
	}
	c.keys = append(c.keys, key)
	c.msgs = append(c.msgs, msg)
	return nil
}

func (c *recordingChannel) Close() error {
	c.closed = true
	return nil
}

func testOrder() *order.Order {
	o := order.New("u1", []cart.Entry{{ID: 1, Price: 45}, {ID: 2, Price: 72}}, time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC))
	o.ID = "o1"
	return o
}

func TestPublishOrderPlaced(t *testing.T) {
	ch := &recordingChannel{}
	p := NewPublisher(ch, "order_placed", logger.Discard())

	require.NoError(t, p.PublishOrderPlaced(context.Background(), testOrder()))
	require.Len(t, ch.msgs, 1)
	assert.Equal(t, "order_placed", ch.keys[0])

	msg := ch.msgs[0]
	assert.Equal(t, "application/json", msg.ContentType)
	assert.Equal(t, amqp.Persistent, msg.DeliveryMode)
	assert.Equal(t, "o1", msg.MessageId)

	var event OrderPlacedEvent
	require.NoError(t, json.Unmarshal(msg.Body, &event))
	assert.Equal(t, EventOrderPlaced, event.Type)
	assert.Equal(t, []int{1, 2}, event.ItemIDs)
	assert.Equal(t, 117, event.Total)
	assert.Equal(t, "u1", event.UserID)

	require.NoError(t, p.Close())
	assert.True(t, ch.closed)
	assert.Error(t, p.PublishOrderPlaced(context.Background(), testOrder()))
}

func TestPublishOrderPlacedErrors(t *testing.T) {
	p := NewPublisher(&recordingChannel{err: errors.New("channel closed")}, "q", logger.Discard())
	assert.Error(t, p.PublishOrderPlaced(context.Background(), testOrder()))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, p.PublishOrderPlaced(ctx, testOrder()), context.Canceled)
}
