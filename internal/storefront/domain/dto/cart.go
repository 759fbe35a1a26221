package dto

import "food-ordering/internal/storefront/domain/models"

type AddCartItemRequest struct {
	ItemID   int64 `json:"item_id"`
	Quantity int   `json:"quantity"`
}

// CartLineView is a cart line resolved against the catalog.
type CartLineView struct {
	Item     models.Item `json:"item"`
	Quantity int         `json:"quantity"`
	Subtotal int64       `json:"subtotal"`
}

type CartView struct {
	StoreID int64          `json:"store_id"`
	Lines   []CartLineView `json:"lines"`
	Total   int64          `json:"total"`
}
