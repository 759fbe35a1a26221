package brokermessage

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"food-ordering/internal/storefront/domain/dto"
	"food-ordering/internal/storefront/domain/models"
	"food-ordering/internal/xpkg/logger"
	"food-ordering/internal/xpkg/rabbitmq"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type published struct {
	exchange, key string
	body          []byte
}

type fakeChannel struct {
	sent []published
	err  error
}

func (fc *fakeChannel) Publish(_ context.Context, exchange, routingKey string, body []byte) error {
	if fc.err != nil {
		return fc.err
	}
	fc.sent = append(fc.sent, published{exchange: exchange, key: routingKey, body: body})
	return nil
}

func (fc *fakeChannel) Close() error { return nil }

func TestPublishOrderPlacedRoutesToStoreKitchen(t *testing.T) {
	ch := &fakeChannel{}
	p := NewPublisher(ch, logger.Discard())

	msg := dto.OrderPlacedMessage{
		OrderID:     41,
		OrderNumber: "ORD_20240506_001",
		StoreID:     1,
		StoreSlug:   "mie-gacoan-tebet",
		TotalAmount: 19000,
	}
	require.NoError(t, p.PublishOrderPlaced(context.Background(), msg))

	require.Len(t, ch.sent, 1)
	assert.Equal(t, rabbitmq.OrdersExchange, ch.sent[0].exchange)
	assert.Equal(t, "kitchen.mie-gacoan-tebet", ch.sent[0].key)

	var got dto.OrderPlacedMessage
	require.NoError(t, json.Unmarshal(ch.sent[0].body, &got))
	assert.Equal(t, msg.OrderNumber, got.OrderNumber)
}

func TestPublishStatusUpdateFansOut(t *testing.T) {
	ch := &fakeChannel{}
	p := NewPublisher(ch, logger.Discard())

	err := p.PublishStatusUpdate(context.Background(), dto.StatusUpdateMessage{
		OrderNumber: "ORD_20240506_001",
		OldStatus:   models.StatusPending,
		NewStatus:   models.StatusPaid,
	})
	require.NoError(t, err)
	require.Len(t, ch.sent, 1)
	assert.Equal(t, rabbitmq.NotificationsExchange, ch.sent[0].exchange)
	assert.Empty(t, ch.sent[0].key)
}

func TestPublishErrorIsReturned(t *testing.T) {
	boom := errors.New("channel closed")
	p := NewPublisher(&fakeChannel{err: boom}, logger.Discard())

	err := p.PublishStatusUpdate(context.Background(), dto.StatusUpdateMessage{})
	assert.ErrorIs(t, err, boom)
}
