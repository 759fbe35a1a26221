package brokermessage

import (
	"context"
	"encoding/json"
	"fmt"

	"food-ordering/internal/storefront/domain/dto"
	"food-ordering/internal/xpkg/logger"
	"food-ordering/internal/xpkg/rabbitmq"
)

// Channel is the part of the rabbitmq client the publisher needs.
type Channel interface {
	Publish(ctx context.Context, exchange, routingKey string, body []byte) error
	Close() error
}

type Publisher struct {
	ch    Channel
	mylog logger.Logger
}

func NewPublisher(ch Channel, mylog logger.Logger) *Publisher {
	return &Publisher{
		ch:    ch,
		mylog: mylog,
	}
}

func (p *Publisher) Close() error {
	return p.ch.Close()
}

// PublishOrderPlaced routes the order to the kitchen of its store.
func (p *Publisher) PublishOrderPlaced(ctx context.Context, msg dto.OrderPlacedMessage) error {
	body, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("marshal order placed: %w", err)
	}
	key := rabbitmq.KitchenRoutingPrefix + msg.StoreSlug
	if err := p.ch.Publish(ctx, rabbitmq.OrdersExchange, key, body); err != nil {
		return err
	}
	p.mylog.Action("order_published").Debug("Order sent to kitchen", "order_number", msg.OrderNumber, "routing_key", key)
	return nil
}

func (p *Publisher) PublishStatusUpdate(ctx context.Context, msg dto.StatusUpdateMessage) error {
	body, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("marshal status update: %w", err)
	}
	if err := p.ch.Publish(ctx, rabbitmq.NotificationsExchange, "", body); err != nil {
		return err
	}
	p.mylog.Action("status_published").Debug("Status update sent", "order_number", msg.OrderNumber, "new_status", msg.NewStatus)
	return nil
}

// Discard is used when no broker is configured.
type Discard struct{}

func (Discard) Close() error { return nil }

func (Discard) PublishOrderPlaced(context.Context, dto.OrderPlacedMessage) error { return nil }

func (Discard) PublishStatusUpdate(context.Context, dto.StatusUpdateMessage) error { return nil }
