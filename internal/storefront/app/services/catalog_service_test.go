package services_test

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"food-ordering/internal/storefront/app/core"
	"food-ordering/internal/storefront/domain/dto"
	"food-ordering/internal/storefront/domain/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func updatePrice(price int64) dto.UpdateItemRequest {
	return dto.UpdateItemRequest{Price: &price}
}

func names(items []models.Item) []string {
	out := make([]string, len(items))
	for i, it := range items {
		out[i] = it.Name
	}
	return out
}

func TestMenuIsServedFromCache(t *testing.T) {
	f := newFixture(t, true)
	ctx := context.Background()

	items, err := f.catalog.Menu(ctx, f.store.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"Mie Suit"}, names(items))
	assert.Equal(t, 1, f.menu.sets)

	// written behind the service's back, so only visible after invalidation
	f.addItem(t, f.store.ID, "Udang Keju", 8600)

	items, err = f.catalog.Menu(ctx, f.store.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"Mie Suit"}, names(items))
	assert.Equal(t, 1, f.menu.sets)

	_, err = f.catalog.CreateItem(ctx, f.store.ID, dto.CreateItemRequest{Name: "Es Gobak Sodor", Price: 8600}, nil)
	require.NoError(t, err)
	assert.Equal(t, 1, f.menu.invalidations)

	items, err = f.catalog.Menu(ctx, f.store.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"Es Gobak Sodor", "Mie Suit", "Udang Keju"}, names(items))
}

func TestMenuHidesUnavailableItems(t *testing.T) {
	f := newFixture(t, true)
	ctx := context.Background()

	off := false
	_, err := f.catalog.UpdateItem(ctx, f.store.ID, f.item.ID, dto.UpdateItemRequest{IsAvailable: &off})
	require.NoError(t, err)

	menu, err := f.catalog.Menu(ctx, f.store.ID)
	require.NoError(t, err)
	assert.Empty(t, menu)

	all, err := f.catalog.AllItems(ctx, f.store.ID)
	require.NoError(t, err)
	assert.Len(t, all, 1)
}

func TestCreateItemWithImage(t *testing.T) {
	f := newFixture(t, true)
	ctx := context.Background()

	img := &dto.Upload{
		Filename:    "photo.PNG",
		ContentType: "image/png",
		Size:        4,
		Body:        strings.NewReader("\x89PNG"),
	}
	item, err := f.catalog.CreateItem(ctx, f.store.ID, dto.CreateItemRequest{Name: " Udang Keju ", Price: 8600}, img)
	require.NoError(t, err)

	assert.Equal(t, "Udang Keju", item.Name)
	assert.True(t, item.IsAvailable)
	require.Len(t, f.images.saved, 1)
	saved := f.images.saved[0]
	assert.True(t, strings.HasPrefix(saved.name, fmt.Sprintf("%d/", f.store.ID)))
	assert.True(t, strings.HasSuffix(saved.name, ".png"))
	assert.Equal(t, "image/png", saved.contentType)
	assert.Equal(t, "/uploads/"+saved.name, item.ImageURL)
}

func TestItemValidation(t *testing.T) {
	f := newFixture(t, true)
	ctx := context.Background()

	tests := []struct {
		name string
		req  dto.CreateItemRequest
	}{
		{name: "empty name", req: dto.CreateItemRequest{Name: "  ", Price: 100}},
		{name: "long name", req: dto.CreateItemRequest{Name: strings.Repeat("a", core.MaxItemNameLen+1), Price: 100}},
		{name: "negative price", req: dto.CreateItemRequest{Name: "x", Price: -1}},
		{name: "huge price", req: dto.CreateItemRequest{Name: "x", Price: core.MaxItemPrice + 1}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.catalog.CreateItem(ctx, f.store.ID, tt.req, nil)
			assert.ErrorIs(t, err, core.ErrInvalidInput)
		})
	}

	_, err := f.catalog.UpdateItem(ctx, f.store.ID, 9999, updatePrice(1))
	assert.ErrorIs(t, err, core.ErrItemNotFound)
}

func TestUpdateItemIsStoreScoped(t *testing.T) {
	f := newFixture(t, true)
	ctx := context.Background()
	other, _ := f.addStore(t, "warteg-bahari")

	_, err := f.catalog.UpdateItem(ctx, other.ID, f.item.ID, updatePrice(1))
	assert.ErrorIs(t, err, core.ErrItemNotFound)
}
