package rabbitmq

import (
	"context"
	"fmt"
	"sync"
	"time"

	"food-ordering/internal/xpkg/config"
	xerrors "food-ordering/internal/xpkg/errors"
	"food-ordering/internal/xpkg/logger"

	amqp "github.com/rabbitmq/amqp091-go"
)

const (
	OrdersExchange        = "orders_topic"
	NotificationsExchange = "notifications_fanout"

	KitchenQueue       = "kitchen_queue"
	NotificationsQueue = "notifications_queue"

	KitchenRoutingPrefix = "kitchen."

	reconnectInterval = 5 * time.Second
)

type RabbitMQ struct {
	ctx          context.Context
	cfg          config.RabbitMQ
	conn         *amqp.Connection
	ch           *amqp.Channel
	mylog        logger.Logger
	reconnecting bool
	mu           sync.Mutex
	prefetch     int
}

// New dials the broker and declares the exchanges and queues used by the service.
func New(ctx context.Context, cfg config.RabbitMQ, mylog logger.Logger, prefetch int) (*RabbitMQ, error) {
	r := &RabbitMQ{
		ctx:      ctx,
		cfg:      cfg,
		mylog:    mylog,
		prefetch: prefetch,
	}
	if err := r.connect(); err != nil {
		return nil, fmt.Errorf("%w: %v", xerrors.ErrRMQConn, err)
	}
	return r, nil
}

func (r *RabbitMQ) connect() error {
	conn, err := amqp.Dial(r.cfg.URL())
	if err != nil {
		return err
	}

	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return err
	}

	if r.prefetch > 0 {
		if err := ch.Qos(r.prefetch, 0, false); err != nil {
			conn.Close()
			return err
		}
	}

	if err := declareTopology(ch); err != nil {
		conn.Close()
		return fmt.Errorf("declare topology: %w", err)
	}

	r.mu.Lock()
	r.conn = conn
	r.ch = ch
	r.mu.Unlock()
	return nil
}

func declareTopology(ch *amqp.Channel) error {
	if err := ch.ExchangeDeclare(OrdersExchange, "topic", true, false, false, false, nil); err != nil {
		return err
	}
	if err := ch.ExchangeDeclare(NotificationsExchange, "fanout", true, false, false, false, nil); err != nil {
		return err
	}

	if _, err := ch.QueueDeclare(KitchenQueue, true, false, false, false, nil); err != nil {
		return err
	}
	if _, err := ch.QueueDeclare(NotificationsQueue, true, false, false, false, nil); err != nil {
		return err
	}

	if err := ch.QueueBind(KitchenQueue, KitchenRoutingPrefix+"*", OrdersExchange, false, nil); err != nil {
		return err
	}
	return ch.QueueBind(NotificationsQueue, "", NotificationsExchange, false, nil)
}

func (r *RabbitMQ) IsAlive() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.conn == nil || r.conn.IsClosed() {
		return xerrors.ErrMBConn
	}
	if r.ch == nil || r.ch.IsClosed() {
		return xerrors.ErrMBCh
	}
	return nil
}

func (r *RabbitMQ) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.ch != nil && !r.ch.IsClosed() {
		if err := r.ch.Close(); err != nil {
			return fmt.Errorf("close rabbitmq channel: %v", err)
		}
	}
	if r.conn != nil && !r.conn.IsClosed() {
		if err := r.conn.Close(); err != nil {
			return fmt.Errorf("close rabbitmq connection: %v", err)
		}
	}
	return nil
}

// Publish sends a persistent JSON message. A closed connection triggers a background reconnect.
func (r *RabbitMQ) Publish(ctx context.Context, exchange, routingKey string, body []byte) error {
	if err := r.IsAlive(); err != nil {
		go r.reconnect(r.ctx)
		return err
	}

	r.mu.Lock()
	ch := r.ch
	r.mu.Unlock()

	return ch.PublishWithContext(ctx, exchange, routingKey, false, false, amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Timestamp:    time.Now().UTC(),
		Body:         body,
	})
}

func (r *RabbitMQ) Consume(ctx context.Context, queue, consumer string) (<-chan amqp.Delivery, error) {
	r.mu.Lock()
	ch := r.ch
	r.mu.Unlock()
	if ch == nil {
		return nil, xerrors.ErrMBCh
	}
	return ch.ConsumeWithContext(ctx, queue, consumer, false, false, false, false, nil)
}

func (r *RabbitMQ) reconnect(ctx context.Context) {
	r.mu.Lock()
	if r.reconnecting {
		r.mu.Unlock()
		return
	}
	r.reconnecting = true
	r.mu.Unlock()

	defer func() {
		r.mu.Lock()
		r.reconnecting = false
		r.mu.Unlock()
	}()

	t := time.NewTicker(reconnectInterval)
	defer t.Stop()
	log := r.mylog.Action("rabbitmq_reconnecting")

	for {
		select {
		case <-t.C:
			if err := r.connect(); err != nil {
				log.Warn("rabbitmq failed to reconnect", "error", err.Error())
				continue
			}
			log.Info("rabbitmq reconnected")
			return
		case <-ctx.Done():
			return
		}
	}
}
