package services

import (
	"context"
	"errors"
	"fmt"

	"food-ordering/internal/storefront/app/core"
	"food-ordering/internal/storefront/domain/dto"
	"food-ordering/internal/storefront/domain/models"
	"food-ordering/internal/xpkg/logger"
)

type CartService struct {
	carts core.ICartStore
	items core.IItemRepo
	mylog logger.Logger
}

func NewCartService(carts core.ICartStore, items core.IItemRepo, mylog logger.Logger) *CartService {
	return &CartService{
		carts: carts,
		items: items,
		mylog: mylog,
	}
}

// Add merges quantity of itemID into the session's cart for storeID. The item
// must belong to the store and be available.
func (cs *CartService) Add(ctx context.Context, sessionID string, storeID, itemID int64, quantity int) (models.Cart, error) {
	mylog := cs.mylog.Action("cart_add").With("store_id", storeID, "item_id", itemID)

	item, err := cs.items.Get(ctx, storeID, itemID)
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			return models.Cart{}, core.ErrItemNotFound
		}
		mylog.Error("Failed to load item", err)
		return models.Cart{}, fmt.Errorf("cannot load item: %w", err)
	}
	if !item.IsAvailable {
		return models.Cart{}, fmt.Errorf("%w: item is not available", core.ErrInvalidInput)
	}

	cart, err := cs.carts.Load(ctx, sessionID, storeID)
	if err != nil {
		mylog.Error("Failed to load cart", err)
		return models.Cart{}, fmt.Errorf("cannot load cart: %w", err)
	}

	cart, err = cart.Add(itemID, quantity)
	if err != nil {
		return models.Cart{}, fmt.Errorf("%w: %v", core.ErrInvalidInput, err)
	}

	if err := cs.carts.Save(ctx, sessionID, storeID, cart); err != nil {
		mylog.Error("Failed to save cart", err)
		return models.Cart{}, fmt.Errorf("cannot save cart: %w", err)
	}
	mylog.Debug("Item added to cart", "quantity", cart.Quantity(itemID))
	return cart, nil
}

// Remove drops itemID from the cart. Removing an absent item is not an error.
func (cs *CartService) Remove(ctx context.Context, sessionID string, storeID, itemID int64) (models.Cart, error) {
	mylog := cs.mylog.Action("cart_remove")

	cart, err := cs.carts.Load(ctx, sessionID, storeID)
	if err != nil {
		mylog.Error("Failed to load cart", err)
		return models.Cart{}, fmt.Errorf("cannot load cart: %w", err)
	}

	cart = cart.Remove(itemID)
	if err := cs.carts.Save(ctx, sessionID, storeID, cart); err != nil {
		mylog.Error("Failed to save cart", err)
		return models.Cart{}, fmt.Errorf("cannot save cart: %w", err)
	}
	return cart, nil
}

func (cs *CartService) View(ctx context.Context, sessionID string, storeID int64) (dto.CartView, error) {
	cart, err := cs.carts.Load(ctx, sessionID, storeID)
	if err != nil {
		cs.mylog.Action("cart_view").Error("Failed to load cart", err)
		return dto.CartView{}, fmt.Errorf("cannot load cart: %w", err)
	}
	return resolveCart(ctx, cs.items, storeID, cart)
}

// resolveCart prices every cart line against the store's catalog. Lines whose
// item is gone or belongs to another store are dropped silently.
func resolveCart(ctx context.Context, items core.IItemRepo, storeID int64, cart models.Cart) (dto.CartView, error) {
	view := dto.CartView{StoreID: storeID, Lines: []dto.CartLineView{}}
	if cart.IsEmpty() {
		return view, nil
	}

	found, err := items.GetByIDs(ctx, storeID, cart.ItemIDs())
	if err != nil {
		return dto.CartView{}, fmt.Errorf("cannot resolve cart items: %w", err)
	}
	byID := make(map[int64]models.Item, len(found))
	for _, it := range found {
		if it.StoreID == storeID {
			byID[it.ID] = it
		}
	}

	for _, line := range cart.Lines {
		item, ok := byID[line.ItemID]
		if !ok {
			continue
		}
		subtotal := item.Price * int64(line.Quantity)
		view.Lines = append(view.Lines, dto.CartLineView{
			Item:     item,
			Quantity: line.Quantity,
			Subtotal: subtotal,
		})
		view.Total += subtotal
	}
	return view, nil
}
