package models

import (
	"fmt"
	"time"
)

type Status string

const (
	StatusPending   Status = "pending"
	StatusPaid      Status = "paid"
	StatusCompleted Status = "completed"
	StatusCancelled Status = "cancelled"
)

// transitions lists the legal next states. Terminal states have none.
var transitions = map[Status][]Status{
	StatusPending:   {StatusPaid, StatusCancelled},
	StatusPaid:      {StatusCompleted, StatusCancelled},
	StatusCompleted: nil,
	StatusCancelled: nil,
}

// ActiveStatuses are the statuses shown in the kitchen queue.
var ActiveStatuses = []Status{StatusPending, StatusPaid}

func ParseStatus(s string) (Status, error) {
	st := Status(s)
	if _, ok := transitions[st]; !ok {
		return "", fmt.Errorf("unknown order status: %q", s)
	}
	return st, nil
}

func (s Status) IsTerminal() bool {
	return len(transitions[s]) == 0
}

// CanTransitionTo reports whether next is reachable from s in one step.
// Re-setting the current status is allowed.
func (s Status) CanTransitionTo(next Status) bool {
	if s == next {
		return true
	}
	for _, st := range transitions[s] {
		if st == next {
			return true
		}
	}
	return false
}

type Order struct {
	ID           int64       `json:"id"`
	StoreID      int64       `json:"store_id"`
	OrderNumber  string      `json:"order_number"`
	UserUUID     string      `json:"user_uuid"`
	CustomerName string      `json:"customer_name"`
	TotalAmount  int64       `json:"total_amount"`
	Status       Status      `json:"status"`
	CreatedAt    time.Time   `json:"created_at"`
	UpdatedAt    time.Time   `json:"updated_at"`
	Items        []OrderItem `json:"items,omitempty"`
}

// OrderItem is a line of an order. PriceAtTime is the item price when the order was placed.
type OrderItem struct {
	ID          int64  `json:"id"`
	OrderID     int64  `json:"order_id"`
	ItemID      int64  `json:"item_id"`
	ItemName    string `json:"item_name,omitempty"`
	Quantity    int    `json:"quantity"`
	PriceAtTime int64  `json:"price_at_time"`
}

func (oi OrderItem) Subtotal() int64 {
	return oi.PriceAtTime * int64(oi.Quantity)
}

type OrderStatusLog struct {
	ID        int64     `json:"id"`
	OrderID   int64     `json:"order_id"`
	Status    Status    `json:"status"`
	ChangedBy string    `json:"changed_by"`
	ChangedAt time.Time `json:"changed_at"`
	Note      string    `json:"note,omitempty"`
}

// OrderNumber formats the human readable number for the seq-th order of the day.
func OrderNumber(day time.Time, seq int) string {
	return fmt.Sprintf("ORD_%s_%03d", day.UTC().Format("20060102"), seq)
}
