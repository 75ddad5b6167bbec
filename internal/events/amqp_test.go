package events

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/streadway/amqp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type published struct {
	exchange string
	key      string
	msg      amqp.Publishing
}

type fakeChannel struct {
	sent   []published
	err    error
	closed bool
}

func (c *fakeChannel) Publish(exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error {
	if c.err != nil {
		return c.err
	}
	c.sent = append(c.sent, published{exchange: exchange, key: key, msg: msg})
	return nil
}

func (c *fakeChannel) Close() error {
	c.closed = true
	return nil
}

func TestAMQPPublisher_Publish(t *testing.T) {
	ch := &fakeChannel{}
	p := &AMQPPublisher{channel: ch}

	event := Event{
		Type:       MedicineUpdated,
		EntityID:   uuid.New(),
		PharmacyID: uuid.New(),
		OccurredAt: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC),
	}
	require.NoError(t, p.Publish(context.Background(), event))
	require.Len(t, ch.sent, 1)

	sent := ch.sent[0]
	assert.Equal(t, "", sent.exchange)
	assert.Equal(t, QueueName, sent.key)
	assert.Equal(t, "application/json", sent.msg.ContentType)
	assert.Equal(t, uint8(amqp.Persistent), sent.msg.DeliveryMode)
	assert.Equal(t, "medicine.updated", sent.msg.Type)

	var decoded Event
	require.NoError(t, json.Unmarshal(sent.msg.Body, &decoded))
	assert.Equal(t, event, decoded)
}

func TestAMQPPublisher_PublishError(t *testing.T) {
	p := &AMQPPublisher{channel: &fakeChannel{err: errors.New("channel closed")}}

	err := p.Publish(context.Background(), Event{Type: PharmacyCreated})
	assert.ErrorContains(t, err, "failed to publish pharmacy.created")
}

func TestAMQPPublisher_CanceledContext(t *testing.T) {
	ch := &fakeChannel{}
	p := &AMQPPublisher{channel: ch}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	assert.ErrorIs(t, p.Publish(ctx, Event{Type: MedicineDeleted}), context.Canceled)
	assert.Empty(t, ch.sent)
}

func TestAMQPPublisher_Close(t *testing.T) {
	ch := &fakeChannel{}
	p := &AMQPPublisher{channel: ch}

	require.NoError(t, p.Close())
	assert.True(t, ch.closed)

	assert.Error(t, p.Publish(context.Background(), Event{Type: MedicineCreated}))
	assert.NoError(t, p.Close())
}

func TestNopPublisher(t *testing.T) {
	var p Publisher = NopPublisher{}
	assert.NoError(t, p.Publish(context.Background(), Event{Type: MedicineCreated}))
	assert.NoError(t, p.Close())
}
