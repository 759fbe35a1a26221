package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"food-ordering/internal/storefront/domain/dto"
	"food-ordering/internal/xpkg/logger"
	"food-ordering/internal/xpkg/rabbitmq"

	amqp "github.com/rabbitmq/amqp091-go"
	"golang.org/x/sync/errgroup"
)

// Broker is the consuming side of the rabbitmq client.
type Broker interface {
	Consume(ctx context.Context, queue, consumer string) (<-chan amqp.Delivery, error)
	Close() error
}

// Subscriber logs kitchen tickets and order status notifications.
type Subscriber struct {
	mb      Broker
	name    string
	workers int
	mylog   logger.Logger

	mu sync.Mutex
}

func NewSubscriber(mb Broker, name string, workers int, mylog logger.Logger) *Subscriber {
	if workers <= 0 {
		workers = 1
	}
	return &Subscriber{
		mb:      mb,
		name:    name,
		workers: workers,
		mylog:   mylog,
	}
}

// Run consumes both queues until ctx is done or a delivery channel closes.
func (s *Subscriber) Run(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	mylog := s.mylog.Action("subscriber_run")

	kitchen, err := s.mb.Consume(ctx, rabbitmq.KitchenQueue, s.name+"-kitchen")
	if err != nil {
		return fmt.Errorf("failed to consume %s: %w", rabbitmq.KitchenQueue, err)
	}
	notifications, err := s.mb.Consume(ctx, rabbitmq.NotificationsQueue, s.name+"-notifications")
	if err != nil {
		return fmt.Errorf("failed to consume %s: %w", rabbitmq.NotificationsQueue, err)
	}
	mylog.Info("Consuming", "queues", []string{rabbitmq.KitchenQueue, rabbitmq.NotificationsQueue}, "workers", s.workers)

	g := &errgroup.Group{}
	g.SetLimit(s.workers)

	defer g.Wait()
	for {
		select {
		case <-ctx.Done():
			mylog.Info("Stopping message consumption due to context cancel")
			return nil

		case msg, ok := <-kitchen:
			if !ok {
				return nil
			}
			g.Go(func() error {
				s.handle(msg, s.processKitchenTicket)
				return nil
			})

		case msg, ok := <-notifications:
			if !ok {
				return nil
			}
			g.Go(func() error {
				s.handle(msg, s.processStatusUpdate)
				return nil
			})
		}
	}
}

func (s *Subscriber) Close() error {
	return s.mb.Close()
}

// handle acks processed deliveries. Undecodable messages are dropped without requeue.
func (s *Subscriber) handle(msg amqp.Delivery, process func([]byte) error) {
	mylog := s.mylog.Action("process_msg")

	if err := process(msg.Body); err != nil {
		mylog.Error("Failed to process message", err, "routing_key", msg.RoutingKey)
		if err := msg.Nack(false, false); err != nil {
			mylog.Error("Failed to nack", err)
		}
		return
	}
	if err := msg.Ack(false); err != nil {
		mylog.Error("Failed to ack", err)
	}
}

func (s *Subscriber) processKitchenTicket(body []byte) error {
	var order dto.OrderPlacedMessage
	if err := json.Unmarshal(body, &order); err != nil {
		return fmt.Errorf("unmarshal order placed: %w", err)
	}

	s.mylog.WithGroup("details").
		With("order_number", order.OrderNumber, "store", order.StoreSlug, "items", len(order.Items), "total_amount", order.TotalAmount).
		Action("kitchen_ticket_received").
		Info("New order for the kitchen")
	return nil
}

func (s *Subscriber) processStatusUpdate(body []byte) error {
	var update dto.StatusUpdateMessage
	if err := json.Unmarshal(body, &update); err != nil {
		return fmt.Errorf("unmarshal status update: %w", err)
	}

	s.mylog.WithGroup("details").
		With("order_number", update.OrderNumber, "old_status", update.OldStatus, "new_status", update.NewStatus, "changed_by", update.ChangedBy).
		Action("notification_received").
		Info("Order status changed")
	return nil
}
