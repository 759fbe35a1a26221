package seed

import (
	"context"
	"errors"
	"fmt"

	"food-ordering/internal/storefront/app/core"
	"food-ordering/internal/storefront/domain/models"
	"food-ordering/internal/xpkg/logger"

	"golang.org/x/sync/errgroup"
)

// Seeder creates the demo stores, their admins and menus. Running it twice
// changes nothing.
type Seeder struct {
	stores        core.IStoreRepo
	items         core.IItemRepo
	adminPassword string
	mylog         logger.Logger
}

func NewSeeder(stores core.IStoreRepo, items core.IItemRepo, adminPassword string, mylog logger.Logger) *Seeder {
	return &Seeder{
		stores:        stores,
		items:         items,
		adminPassword: adminPassword,
		mylog:         mylog,
	}
}

// Run seeds every demo store concurrently.
func (s *Seeder) Run(ctx context.Context) error {
	g, ctx := errgroup.WithContext(ctx)
	for _, demo := range demoStores {
		g.Go(func() error {
			return s.seedStore(ctx, demo)
		})
	}
	return g.Wait()
}

func (s *Seeder) seedStore(ctx context.Context, demo demoStore) error {
	mylog := s.mylog.Action("seed_store").With("slug", demo.store.Slug)

	store, err := s.stores.GetBySlug(ctx, demo.store.Slug)
	switch {
	case err == nil:
	case errors.Is(err, core.ErrNotFound):
		store = demo.store
		admin := models.User{
			Username: demo.store.Slug + "-admin",
			Password: s.adminPassword,
			Role:     models.RoleAdmin,
		}
		if err := s.stores.CreateWithAdmin(ctx, &store, &admin); err != nil {
			return fmt.Errorf("create store %s: %w", demo.store.Slug, err)
		}
		mylog.Info("Store created", "store_id", store.ID, "admin", admin.Username)
	default:
		return fmt.Errorf("load store %s: %w", demo.store.Slug, err)
	}

	existing, err := s.items.ListByStore(ctx, store.ID)
	if err != nil {
		return fmt.Errorf("list items of %s: %w", demo.store.Slug, err)
	}
	have := make(map[string]bool, len(existing))
	for _, it := range existing {
		have[it.Name] = true
	}

	created := 0
	for _, it := range demo.menu {
		if have[it.Name] {
			continue
		}
		it.StoreID = store.ID
		it.IsAvailable = true
		if err := s.items.Create(ctx, &it); err != nil {
			return fmt.Errorf("create item %q: %w", it.Name, err)
		}
		created++
	}
	mylog.Info("Done seeding", "items_created", created)
	return nil
}
