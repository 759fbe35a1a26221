package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"food-ordering/internal/storefront/app/core"
	"food-ordering/internal/storefront/domain/dto"
	"food-ordering/internal/storefront/domain/models"
	"food-ordering/internal/xpkg/logger"
)

type OrderOptions struct {
	// StrictTransitions rejects status changes outside the transition table.
	StrictTransitions   bool
	DefaultCustomerName string
}

type OrderService struct {
	orders    core.IOrderRepo
	items     core.IItemRepo
	carts     core.ICartStore
	publisher core.IPublisher
	opts      OrderOptions
	clock     func() time.Time
	mylog     logger.Logger
}

func NewOrderService(
	orders core.IOrderRepo,
	items core.IItemRepo,
	carts core.ICartStore,
	publisher core.IPublisher,
	opts OrderOptions,
	mylog logger.Logger,
) *OrderService {
	if opts.DefaultCustomerName == "" {
		opts.DefaultCustomerName = "Guest"
	}
	return &OrderService{
		orders:    orders,
		items:     items,
		carts:     carts,
		publisher: publisher,
		opts:      opts,
		clock:     time.Now,
		mylog:     mylog,
	}
}

// PlaceOrder turns the session's cart for store into a pending order with
// price snapshots and empties the cart.
func (os *OrderService) PlaceOrder(ctx context.Context, store models.Store, sessionID string) (models.Order, error) {
	mylog := os.mylog.Action("place_order").With("store_id", store.ID)

	cart, err := os.carts.Load(ctx, sessionID, store.ID)
	if err != nil {
		mylog.Error("Failed to load cart", err)
		return models.Order{}, fmt.Errorf("cannot load cart: %w", err)
	}
	if cart.IsEmpty() {
		return models.Order{}, core.ErrEmptyCart
	}

	view, err := resolveCart(ctx, os.items, store.ID, cart)
	if err != nil {
		mylog.Error("Failed to resolve cart", err)
		return models.Order{}, err
	}
	if len(view.Lines) == 0 {
		return models.Order{}, core.ErrEmptyCart
	}

	now := os.clock().UTC()
	order := models.Order{
		StoreID:      store.ID,
		UserUUID:     sessionID,
		CustomerName: os.opts.DefaultCustomerName,
		TotalAmount:  view.Total,
		Status:       models.StatusPending,
		CreatedAt:    now,
		UpdatedAt:    now,
		Items:        make([]models.OrderItem, 0, len(view.Lines)),
	}
	for _, line := range view.Lines {
		order.Items = append(order.Items, models.OrderItem{
			ItemID:      line.Item.ID,
			ItemName:    line.Item.Name,
			Quantity:    line.Quantity,
			PriceAtTime: line.Item.Price,
		})
	}

	if err := os.orders.Create(ctx, &order); err != nil {
		mylog.Error("Failed to save order", err)
		return models.Order{}, fmt.Errorf("cannot save order: %w", err)
	}

	if err := os.carts.Clear(ctx, sessionID, store.ID); err != nil {
		mylog.Warn("Order placed but cart was not cleared", "order_number", order.OrderNumber, "error", err.Error())
	}

	msg := dto.OrderPlacedMessage{
		OrderID:      order.ID,
		OrderNumber:  order.OrderNumber,
		StoreID:      store.ID,
		StoreSlug:    store.Slug,
		CustomerName: order.CustomerName,
		TotalAmount:  order.TotalAmount,
		Items:        order.Items,
		CreatedAt:    order.CreatedAt,
	}
	if err := os.publisher.PublishOrderPlaced(ctx, msg); err != nil {
		mylog.Warn("Failed to publish order placed", "order_number", order.OrderNumber, "error", err.Error())
	}

	mylog.Info("Order placed", "order_number", order.OrderNumber, "total_amount", order.TotalAmount)
	return order, nil
}

// ConfirmPayment marks the order paid, optionally replacing the customer name.
func (os *OrderService) ConfirmPayment(ctx context.Context, storeID, orderID int64, customerName *string, actor string) (models.Order, error) {
	var name *string
	if customerName != nil {
		n := strings.TrimSpace(*customerName)
		if len(n) > core.MaxCustomerName {
			return models.Order{}, fmt.Errorf("%w: customer name longer than %d", core.ErrInvalidInput, core.MaxCustomerName)
		}
		if n != "" {
			name = &n
		}
	}

	return os.changeStatus(ctx, storeID, orderID, core.StatusChange{
		Status:       models.StatusPaid,
		ChangedBy:    actor,
		Note:         "payment confirmed",
		CustomerName: name,
	})
}

// SetStatus is the operator status change used by the kitchen view.
func (os *OrderService) SetStatus(ctx context.Context, storeID, orderID int64, status string, actor string) (models.Order, error) {
	next, err := models.ParseStatus(status)
	if err != nil {
		return models.Order{}, fmt.Errorf("%w: %v", core.ErrInvalidInput, err)
	}
	return os.changeStatus(ctx, storeID, orderID, core.StatusChange{
		Status:    next,
		ChangedBy: actor,
	})
}

func (os *OrderService) changeStatus(ctx context.Context, storeID, orderID int64, change core.StatusChange) (models.Order, error) {
	mylog := os.mylog.Action("change_status").With("store_id", storeID, "order_id", orderID, "new_status", change.Status)

	old, order, err := os.orders.UpdateStatus(ctx, storeID, orderID, os.transitionCheck(change.Status), change)
	if err != nil {
		switch {
		case errors.Is(err, core.ErrNotFound):
			return models.Order{}, core.ErrOrderNotFound
		case errors.Is(err, core.ErrInvalidTransition):
			mylog.Info("Transition rejected", "reason", err.Error())
			return models.Order{}, err
		}
		mylog.Error("Failed to update status", err)
		return models.Order{}, fmt.Errorf("cannot update order status: %w", err)
	}

	if old != order.Status {
		msg := dto.StatusUpdateMessage{
			OrderID:     order.ID,
			OrderNumber: order.OrderNumber,
			StoreID:     storeID,
			OldStatus:   old,
			NewStatus:   order.Status,
			ChangedBy:   change.ChangedBy,
			Timestamp:   os.clock().UTC(),
		}
		if err := os.publisher.PublishStatusUpdate(ctx, msg); err != nil {
			mylog.Warn("Failed to publish status update", "error", err.Error())
		}
	}

	mylog.Info("Order status changed", "old_status", old)
	return order, nil
}

func (os *OrderService) transitionCheck(next models.Status) core.StatusCheck {
	return func(current models.Status) error {
		if !os.opts.StrictTransitions || current.CanTransitionTo(next) {
			return nil
		}
		return fmt.Errorf("%w: %s -> %s", core.ErrInvalidTransition, current, next)
	}
}

func (os *OrderService) Get(ctx context.Context, storeID, orderID int64) (models.Order, error) {
	order, err := os.orders.Get(ctx, storeID, orderID)
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			return models.Order{}, core.ErrOrderNotFound
		}
		os.mylog.Action("get_order").Error("Failed to load order", err)
		return models.Order{}, fmt.Errorf("cannot load order: %w", err)
	}
	return order, nil
}

func (os *OrderService) Payment(ctx context.Context, store models.Store, orderID int64) (dto.PaymentView, error) {
	order, err := os.Get(ctx, store.ID, orderID)
	if err != nil {
		return dto.PaymentView{}, err
	}
	return dto.PaymentView{
		Order: order,
		Store: store.Name,
		Bank: dto.BankDetails{
			BankName:          store.BankName,
			BankAccountNumber: store.BankAccountNumber,
			BankAccountHolder: store.BankAccountHolder,
		},
	}, nil
}

// CustomerHistory lists the session's orders in the store, newest first.
func (os *OrderService) CustomerHistory(ctx context.Context, storeID int64, sessionID string) ([]models.Order, error) {
	orders, err := os.orders.ListBySession(ctx, storeID, sessionID)
	if err != nil {
		os.mylog.Action("customer_history").Error("Failed to list orders", err)
		return nil, fmt.Errorf("cannot list orders: %w", err)
	}
	return orders, nil
}

// KitchenQueue lists pending and paid orders of the store, oldest first.
func (os *OrderService) KitchenQueue(ctx context.Context, storeID int64) ([]models.Order, error) {
	orders, err := os.orders.ListByStatuses(ctx, storeID, models.ActiveStatuses)
	if err != nil {
		os.mylog.Action("kitchen_queue").Error("Failed to list orders", err)
		return nil, fmt.Errorf("cannot list orders: %w", err)
	}
	return orders, nil
}

func (os *OrderService) StatusLog(ctx context.Context, storeID, orderID int64) ([]models.OrderStatusLog, error) {
	logs, err := os.orders.StatusLog(ctx, storeID, orderID)
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			return nil, core.ErrOrderNotFound
		}
		os.mylog.Action("status_log").Error("Failed to load status log", err)
		return nil, fmt.Errorf("cannot load status log: %w", err)
	}
	return logs, nil
}
