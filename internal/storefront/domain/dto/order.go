package dto

import (
	"time"

	"food-ordering/internal/storefront/domain/models"
)

type ConfirmPaymentRequest struct {
	CustomerName *string `json:"customer_name,omitempty"`
}

type StatusRequest struct {
	Status string `json:"status"`
}

type BankDetails struct {
	BankName          string `json:"bank_name"`
	BankAccountNumber string `json:"bank_account_number"`
	BankAccountHolder string `json:"bank_account_holder"`
}

type PaymentView struct {
	Order models.Order `json:"order"`
	Store string       `json:"store"`
	Bank  BankDetails  `json:"bank"`
}

// OrderPlacedMessage is published to the kitchen when an order is created.
type OrderPlacedMessage struct {
	OrderID      int64              `json:"order_id"`
	OrderNumber  string             `json:"order_number"`
	StoreID      int64              `json:"store_id"`
	StoreSlug    string             `json:"store_slug"`
	CustomerName string             `json:"customer_name"`
	TotalAmount  int64              `json:"total_amount"`
	Items        []models.OrderItem `json:"items"`
	CreatedAt    time.Time          `json:"created_at"`
}

// StatusUpdateMessage is fanned out to subscribers on every status change.
type StatusUpdateMessage struct {
	OrderID     int64         `json:"order_id"`
	OrderNumber string        `json:"order_number"`
	StoreID     int64         `json:"store_id"`
	OldStatus   models.Status `json:"old_status"`
	NewStatus   models.Status `json:"new_status"`
	ChangedBy   string        `json:"changed_by"`
	Timestamp   time.Time     `json:"timestamp"`
}
