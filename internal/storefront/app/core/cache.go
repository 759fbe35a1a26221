package core

import (
	"context"

	"food-ordering/internal/storefront/domain/models"
)

// ICartStore keeps carts keyed by (session, store).
type ICartStore interface {
	Load(ctx context.Context, sessionID string, storeID int64) (models.Cart, error)
	Save(ctx context.Context, sessionID string, storeID int64, cart models.Cart) error
	Clear(ctx context.Context, sessionID string, storeID int64) error
}

type IMenuCache interface {
	// Get reports ok=false on a miss.
	Get(ctx context.Context, storeID int64) (items []models.Item, ok bool, err error)
	Set(ctx context.Context, storeID int64, items []models.Item) error
	Invalidate(ctx context.Context, storeID int64) error
}
