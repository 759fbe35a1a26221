package services_test

import (
	"context"
	"testing"

	"food-ordering/internal/storefront/app/core"
	"food-ordering/internal/storefront/domain/dto"
	"food-ordering/internal/storefront/domain/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCartAddMergesQuantities(t *testing.T) {
	f := newFixture(t, true)
	ctx := context.Background()

	_, err := f.cart.Add(ctx, "s1", f.store.ID, f.item.ID, 2)
	require.NoError(t, err)
	cart, err := f.cart.Add(ctx, "s1", f.store.ID, f.item.ID, 3)
	require.NoError(t, err)

	require.Len(t, cart.Lines, 1)
	assert.Equal(t, 5, cart.Quantity(f.item.ID))

	view, err := f.cart.View(ctx, "s1", f.store.ID)
	require.NoError(t, err)
	require.Len(t, view.Lines, 1)
	assert.Equal(t, int64(47500), view.Lines[0].Subtotal)
	assert.Equal(t, int64(47500), view.Total)
}

func TestCartAddRejects(t *testing.T) {
	f := newFixture(t, true)
	ctx := context.Background()
	other, _ := f.addStore(t, "warteg-bahari")
	foreign := f.addItem(t, other.ID, "Nasi Rames", 15000)

	hidden := f.addItem(t, f.store.ID, "Udang Keju", 8600)
	off := false
	_, err := f.catalog.UpdateItem(ctx, f.store.ID, hidden.ID, dto.UpdateItemRequest{IsAvailable: &off})
	require.NoError(t, err)

	tests := []struct {
		name    string
		itemID  int64
		qty     int
		wantErr error
	}{
		{name: "zero quantity", itemID: f.item.ID, qty: 0, wantErr: core.ErrInvalidInput},
		{name: "negative quantity", itemID: f.item.ID, qty: -1, wantErr: core.ErrInvalidInput},
		{name: "above per call bound", itemID: f.item.ID, qty: models.MaxAddQuantity + 1, wantErr: core.ErrInvalidInput},
		{name: "unknown item", itemID: 9999, qty: 1, wantErr: core.ErrItemNotFound},
		{name: "item of another store", itemID: foreign.ID, qty: 1, wantErr: core.ErrItemNotFound},
		{name: "unavailable item", itemID: hidden.ID, qty: 1, wantErr: core.ErrInvalidInput},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.cart.Add(ctx, "s1", f.store.ID, tt.itemID, tt.qty)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}

	view, err := f.cart.View(ctx, "s1", f.store.ID)
	require.NoError(t, err)
	assert.Empty(t, view.Lines)
}

func TestCartRemove(t *testing.T) {
	f := newFixture(t, true)
	ctx := context.Background()
	second := f.addItem(t, f.store.ID, "Es Gobak Sodor", 8600)

	_, err := f.cart.Add(ctx, "s1", f.store.ID, f.item.ID, 1)
	require.NoError(t, err)
	_, err = f.cart.Add(ctx, "s1", f.store.ID, second.ID, 1)
	require.NoError(t, err)

	cart, err := f.cart.Remove(ctx, "s1", f.store.ID, f.item.ID)
	require.NoError(t, err)
	assert.Equal(t, []int64{second.ID}, cart.ItemIDs())

	cart, err = f.cart.Remove(ctx, "s1", f.store.ID, f.item.ID)
	require.NoError(t, err, "removing an absent item is a no-op")
	assert.Equal(t, []int64{second.ID}, cart.ItemIDs())
}

func TestCartIsPerSessionAndStore(t *testing.T) {
	f := newFixture(t, true)
	ctx := context.Background()
	other, _ := f.addStore(t, "warteg-bahari")
	otherItem := f.addItem(t, other.ID, "Telur Dadar", 5000)

	_, err := f.cart.Add(ctx, "s1", f.store.ID, f.item.ID, 1)
	require.NoError(t, err)
	_, err = f.cart.Add(ctx, "s1", other.ID, otherItem.ID, 2)
	require.NoError(t, err)

	a, err := f.cart.View(ctx, "s1", f.store.ID)
	require.NoError(t, err)
	b, err := f.cart.View(ctx, "s1", other.ID)
	require.NoError(t, err)
	c, err := f.cart.View(ctx, "s2", f.store.ID)
	require.NoError(t, err)

	assert.Equal(t, int64(9500), a.Total)
	assert.Equal(t, int64(10000), b.Total)
	assert.Empty(t, c.Lines)
}

func TestCartViewDropsStaleEntries(t *testing.T) {
	f := newFixture(t, true)
	ctx := context.Background()
	other, _ := f.addStore(t, "warteg-bahari")
	foreign := f.addItem(t, other.ID, "Ayam Goreng", 12000)

	cart, err := models.Cart{}.Add(f.item.ID, 2)
	require.NoError(t, err)
	cart, err = cart.Add(foreign.ID, 1)
	require.NoError(t, err)
	cart, err = cart.Add(31337, 1)
	require.NoError(t, err)
	require.NoError(t, f.carts.Save(ctx, "s1", f.store.ID, cart))

	view, err := f.cart.View(ctx, "s1", f.store.ID)
	require.NoError(t, err)
	require.Len(t, view.Lines, 1)
	assert.Equal(t, f.item.ID, view.Lines[0].Item.ID)
	assert.Equal(t, int64(19000), view.Total)
}
