package services

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"sync"

	"food-ordering/internal/storefront/app/core"
	"food-ordering/internal/storefront/domain/dto"
	"food-ordering/internal/storefront/domain/models"
	"food-ordering/internal/xpkg/logger"

	"github.com/google/uuid"
)

type CatalogService struct {
	items  core.IItemRepo
	cache  core.IMenuCache
	images core.IImageStore
	mylog  logger.Logger

	// loadMu keeps concurrent cache misses from all hitting the database.
	loadMu sync.Mutex
}

func NewCatalogService(items core.IItemRepo, cache core.IMenuCache, images core.IImageStore, mylog logger.Logger) *CatalogService {
	return &CatalogService{
		items:  items,
		cache:  cache,
		images: images,
		mylog:  mylog,
	}
}

// Menu returns the available items of a store, served from cache when possible.
func (cs *CatalogService) Menu(ctx context.Context, storeID int64) ([]models.Item, error) {
	mylog := cs.mylog.Action("menu").With("store_id", storeID)

	if items, ok := cs.cached(ctx, storeID); ok {
		return items, nil
	}

	cs.loadMu.Lock()
	defer cs.loadMu.Unlock()

	// another request may have filled the cache while we waited
	if items, ok := cs.cached(ctx, storeID); ok {
		return items, nil
	}

	items, err := cs.items.ListAvailable(ctx, storeID)
	if err != nil {
		mylog.Error("Failed to list items", err)
		return nil, fmt.Errorf("cannot list items: %w", err)
	}

	if cs.cache != nil {
		if err := cs.cache.Set(ctx, storeID, items); err != nil {
			mylog.Warn("Failed to update menu cache", "error", err.Error())
		}
	}
	return items, nil
}

func (cs *CatalogService) cached(ctx context.Context, storeID int64) ([]models.Item, bool) {
	if cs.cache == nil {
		return nil, false
	}
	items, ok, err := cs.cache.Get(ctx, storeID)
	if err != nil {
		cs.mylog.Action("menu_cache").Warn("Menu cache read failed", "store_id", storeID, "error", err.Error())
		return nil, false
	}
	return items, ok
}

// AllItems lists every item of the store, including unavailable ones.
func (cs *CatalogService) AllItems(ctx context.Context, storeID int64) ([]models.Item, error) {
	items, err := cs.items.ListByStore(ctx, storeID)
	if err != nil {
		cs.mylog.Action("all_items").Error("Failed to list items", err)
		return nil, fmt.Errorf("cannot list items: %w", err)
	}
	return items, nil
}

func (cs *CatalogService) CreateItem(ctx context.Context, storeID int64, req dto.CreateItemRequest, image *dto.Upload) (models.Item, error) {
	mylog := cs.mylog.Action("create_item").With("store_id", storeID)

	item := models.Item{
		StoreID:     storeID,
		Name:        strings.TrimSpace(req.Name),
		Description: strings.TrimSpace(req.Description),
		Price:       req.Price,
		IsAvailable: true,
	}
	if err := validateItem(item); err != nil {
		return models.Item{}, err
	}

	if image != nil {
		name := fmt.Sprintf("%d/%s%s", storeID, uuid.NewString(), strings.ToLower(filepath.Ext(image.Filename)))
		url, err := cs.images.Save(ctx, name, image.ContentType, image.Size, image.Body)
		if err != nil {
			mylog.Error("Failed to store image", err)
			return models.Item{}, fmt.Errorf("cannot store image: %w", err)
		}
		item.ImageURL = url
	}

	if err := cs.items.Create(ctx, &item); err != nil {
		mylog.Error("Failed to create item", err)
		return models.Item{}, fmt.Errorf("cannot create item: %w", err)
	}
	cs.invalidate(ctx, storeID)

	mylog.Info("Item created", "item_id", item.ID)
	return item, nil
}

// UpdateItem applies a partial edit. Setting IsAvailable to false is the only way to retire an item.
func (cs *CatalogService) UpdateItem(ctx context.Context, storeID, itemID int64, req dto.UpdateItemRequest) (models.Item, error) {
	mylog := cs.mylog.Action("update_item").With("store_id", storeID, "item_id", itemID)

	item, err := cs.items.Get(ctx, storeID, itemID)
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			return models.Item{}, core.ErrItemNotFound
		}
		mylog.Error("Failed to load item", err)
		return models.Item{}, fmt.Errorf("cannot load item: %w", err)
	}

	if req.Name != nil {
		item.Name = strings.TrimSpace(*req.Name)
	}
	if req.Description != nil {
		item.Description = strings.TrimSpace(*req.Description)
	}
	if req.Price != nil {
		item.Price = *req.Price
	}
	if req.IsAvailable != nil {
		item.IsAvailable = *req.IsAvailable
	}
	if err := validateItem(item); err != nil {
		return models.Item{}, err
	}

	if err := cs.items.Update(ctx, &item); err != nil {
		mylog.Error("Failed to update item", err)
		return models.Item{}, fmt.Errorf("cannot update item: %w", err)
	}
	cs.invalidate(ctx, storeID)
	return item, nil
}

func (cs *CatalogService) invalidate(ctx context.Context, storeID int64) {
	if cs.cache == nil {
		return
	}
	if err := cs.cache.Invalidate(ctx, storeID); err != nil {
		cs.mylog.Action("menu_cache").Warn("Failed to invalidate menu cache", "store_id", storeID, "error", err.Error())
	}
}

func validateItem(item models.Item) error {
	if item.Name == "" {
		return fmt.Errorf("%w: name: %v", core.ErrInvalidInput, core.ErrFieldIsEmpty)
	}
	if len(item.Name) > core.MaxItemNameLen {
		return fmt.Errorf("%w: name longer than %d", core.ErrInvalidInput, core.MaxItemNameLen)
	}
	if item.Price < 0 || item.Price > core.MaxItemPrice {
		return fmt.Errorf("%w: price must be in range [0, %d]", core.ErrInvalidInput, core.MaxItemPrice)
	}
	return nil
}
