package cache

import (
	"context"
	"sync"

	"food-ordering/internal/storefront/domain/models"
)

type memKey struct {
	session string
	store   int64
}

// MemoryCartStore is used when no redis is configured. Carts live as long as
// the process.
type MemoryCartStore struct {
	mu    sync.RWMutex
	carts map[memKey]models.Cart
}

func NewMemoryCartStore() *MemoryCartStore {
	return &MemoryCartStore{carts: make(map[memKey]models.Cart)}
}

func (mc *MemoryCartStore) Load(_ context.Context, sessionID string, storeID int64) (models.Cart, error) {
	mc.mu.RLock()
	defer mc.mu.RUnlock()

	cart := mc.carts[memKey{sessionID, storeID}]
	lines := make([]models.CartLine, len(cart.Lines))
	copy(lines, cart.Lines)
	return models.Cart{Lines: lines}, nil
}

func (mc *MemoryCartStore) Save(_ context.Context, sessionID string, storeID int64, cart models.Cart) error {
	mc.mu.Lock()
	defer mc.mu.Unlock()

	k := memKey{sessionID, storeID}
	if cart.IsEmpty() {
		delete(mc.carts, k)
		return nil
	}
	lines := make([]models.CartLine, len(cart.Lines))
	copy(lines, cart.Lines)
	mc.carts[k] = models.Cart{Lines: lines}
	return nil
}

func (mc *MemoryCartStore) Clear(_ context.Context, sessionID string, storeID int64) error {
	mc.mu.Lock()
	defer mc.mu.Unlock()
	delete(mc.carts, memKey{sessionID, storeID})
	return nil
}
