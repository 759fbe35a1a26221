package notify

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"food-ordering/internal/storefront/domain/dto"
	"food-ordering/internal/storefront/domain/models"
	"food-ordering/internal/xpkg/logger"
	"food-ordering/internal/xpkg/rabbitmq"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeAcker struct {
	mu     sync.Mutex
	acked  []uint64
	nacked []uint64
}

func (fa *fakeAcker) Ack(tag uint64, _ bool) error {
	fa.mu.Lock()
	defer fa.mu.Unlock()
	fa.acked = append(fa.acked, tag)
	return nil
}

func (fa *fakeAcker) Nack(tag uint64, _ bool, requeue bool) error {
	fa.mu.Lock()
	defer fa.mu.Unlock()
	if requeue {
		return errors.New("unexpected requeue")
	}
	fa.nacked = append(fa.nacked, tag)
	return nil
}

func (fa *fakeAcker) Reject(tag uint64, requeue bool) error {
	return fa.Nack(tag, false, requeue)
}

func (fa *fakeAcker) counts() (int, int) {
	fa.mu.Lock()
	defer fa.mu.Unlock()
	return len(fa.acked), len(fa.nacked)
}

type fakeBroker struct {
	queues map[string]chan amqp.Delivery
	closed bool
}

func (fb *fakeBroker) Consume(_ context.Context, queue, _ string) (<-chan amqp.Delivery, error) {
	ch, ok := fb.queues[queue]
	if !ok {
		return nil, errors.New("no such queue")
	}
	return ch, nil
}

func (fb *fakeBroker) Close() error {
	fb.closed = true
	return nil
}

func delivery(t *testing.T, acker amqp.Acknowledger, tag uint64, body any) amqp.Delivery {
	t.Helper()
	raw, ok := body.([]byte)
	if !ok {
		var err error
		raw, err = json.Marshal(body)
		require.NoError(t, err)
	}
	return amqp.Delivery{Acknowledger: acker, DeliveryTag: tag, Body: raw}
}

func TestSubscriberAcksAndDropsBadMessages(t *testing.T) {
	acker := &fakeAcker{}
	kitchen := make(chan amqp.Delivery, 2)
	notifications := make(chan amqp.Delivery, 1)
	broker := &fakeBroker{queues: map[string]chan amqp.Delivery{
		rabbitmq.KitchenQueue:       kitchen,
		rabbitmq.NotificationsQueue: notifications,
	}}

	kitchen <- delivery(t, acker, 1, dto.OrderPlacedMessage{OrderNumber: "ORD_20240506_001", StoreSlug: "mie-gacoan-tebet"})
	kitchen <- delivery(t, acker, 2, []byte("{not json"))
	notifications <- delivery(t, acker, 3, dto.StatusUpdateMessage{
		OrderNumber: "ORD_20240506_001",
		OldStatus:   models.StatusPending,
		NewStatus:   models.StatusPaid,
	})

	s := NewSubscriber(broker, "test", 2, logger.Discard())
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.Run(ctx) }()

	require.Eventually(t, func() bool {
		acked, nacked := acker.counts()
		return acked == 2 && nacked == 1
	}, 2*time.Second, 10*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("subscriber did not stop")
	}

	assert.ElementsMatch(t, []uint64{1, 3}, acker.acked)
	assert.Equal(t, []uint64{2}, acker.nacked)

	require.NoError(t, s.Close())
	assert.True(t, broker.closed)
}

func TestSubscriberStopsWhenChannelCloses(t *testing.T) {
	kitchen := make(chan amqp.Delivery)
	broker := &fakeBroker{queues: map[string]chan amqp.Delivery{
		rabbitmq.KitchenQueue:       kitchen,
		rabbitmq.NotificationsQueue: make(chan amqp.Delivery),
	}}
	close(kitchen)

	s := NewSubscriber(broker, "test", 0, logger.Discard())
	assert.NoError(t, s.Run(context.Background()))
}

func TestSubscriberConsumeError(t *testing.T) {
	broker := &fakeBroker{queues: map[string]chan amqp.Delivery{}}
	s := NewSubscriber(broker, "test", 1, logger.Discard())
	assert.Error(t, s.Run(context.Background()))
}
