package seed

import (
	"context"
	"testing"

	"food-ordering/internal/storefront/adapter/memory"
	"food-ordering/internal/xpkg/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSeedIsIdempotent(t *testing.T) {
	repos := memory.New()
	s := NewSeeder(repos.Stores, repos.Items, "admin", logger.Discard())
	ctx := context.Background()

	require.NoError(t, s.Run(ctx))
	require.NoError(t, s.Run(ctx))

	stores, err := repos.Stores.List(ctx)
	require.NoError(t, err)
	require.Len(t, stores, len(demoStores))

	for _, demo := range demoStores {
		store, err := repos.Stores.GetBySlug(ctx, demo.store.Slug)
		require.NoError(t, err)

		items, err := repos.Items.ListByStore(ctx, store.ID)
		require.NoError(t, err)
		assert.Len(t, items, len(demo.menu), demo.store.Slug)

		admin, err := repos.Users.GetByUsername(ctx, demo.store.Slug+"-admin")
		require.NoError(t, err)
		require.NotNil(t, admin.StoreID)
		assert.Equal(t, store.ID, *admin.StoreID)
	}
}

func TestSeedFillsMissingItems(t *testing.T) {
	repos := memory.New()
	s := NewSeeder(repos.Stores, repos.Items, "admin", logger.Discard())
	ctx := context.Background()

	demo := demoStores[0]
	store := demo.store
	require.NoError(t, s.seedStore(ctx, demoStore{store: store, menu: demo.menu[:1]}))
	require.NoError(t, s.Run(ctx))

	got, err := repos.Stores.GetBySlug(ctx, demo.store.Slug)
	require.NoError(t, err)
	items, err := repos.Items.ListByStore(ctx, got.ID)
	require.NoError(t, err)
	assert.Len(t, items, len(demo.menu))
}
