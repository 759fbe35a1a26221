package services_test

import (
	"bytes"
	"context"
	"io"
	"sync"
	"testing"
	"time"

	"food-ordering/internal/storefront/adapter/cache"
	"food-ordering/internal/storefront/adapter/memory"
	"food-ordering/internal/storefront/app/services"
	"food-ordering/internal/storefront/domain/dto"
	"food-ordering/internal/storefront/domain/models"
	"food-ordering/internal/xpkg/logger"

	"github.com/stretchr/testify/require"
)

type fakePublisher struct {
	mu      sync.Mutex
	placed  []dto.OrderPlacedMessage
	updates []dto.StatusUpdateMessage
	err     error
}

func (fp *fakePublisher) Close() error { return nil }

func (fp *fakePublisher) PublishOrderPlaced(_ context.Context, msg dto.OrderPlacedMessage) error {
	fp.mu.Lock()
	defer fp.mu.Unlock()
	fp.placed = append(fp.placed, msg)
	return fp.err
}

func (fp *fakePublisher) PublishStatusUpdate(_ context.Context, msg dto.StatusUpdateMessage) error {
	fp.mu.Lock()
	defer fp.mu.Unlock()
	fp.updates = append(fp.updates, msg)
	return fp.err
}

type fakeMenuCache struct {
	mu            sync.Mutex
	data          map[int64][]models.Item
	sets          int
	invalidations int
}

func newFakeMenuCache() *fakeMenuCache {
	return &fakeMenuCache{data: make(map[int64][]models.Item)}
}

func (fc *fakeMenuCache) Get(_ context.Context, storeID int64) ([]models.Item, bool, error) {
	fc.mu.Lock()
	defer fc.mu.Unlock()
	items, ok := fc.data[storeID]
	return items, ok, nil
}

func (fc *fakeMenuCache) Set(_ context.Context, storeID int64, items []models.Item) error {
	fc.mu.Lock()
	defer fc.mu.Unlock()
	fc.data[storeID] = items
	fc.sets++
	return nil
}

func (fc *fakeMenuCache) Invalidate(_ context.Context, storeID int64) error {
	fc.mu.Lock()
	defer fc.mu.Unlock()
	delete(fc.data, storeID)
	fc.invalidations++
	return nil
}

type savedImage struct {
	name        string
	contentType string
	body        []byte
}

type fakeImages struct {
	saved []savedImage
}

func (fi *fakeImages) Save(_ context.Context, name, contentType string, _ int64, body io.Reader) (string, error) {
	var buf bytes.Buffer
	if _, err := io.Copy(&buf, body); err != nil {
		return "", err
	}
	fi.saved = append(fi.saved, savedImage{name: name, contentType: contentType, body: buf.Bytes()})
	return "/uploads/" + name, nil
}

type fixture struct {
	repos  *memory.Repos
	carts  *cache.MemoryCartStore
	pub    *fakePublisher
	menu   *fakeMenuCache
	images *fakeImages

	auth      *services.AuthService
	directory *services.DirectoryService
	catalog   *services.CatalogService
	cart      *services.CartService
	orders    *services.OrderService

	store models.Store
	admin models.User
	item  models.Item
}

const testSecret = "0123456789abcdef-test-secret"

func newFixture(t *testing.T, strict bool) *fixture {
	t.Helper()

	mylog := logger.Discard()
	f := &fixture{
		repos:  memory.New(),
		carts:  cache.NewMemoryCartStore(),
		pub:    &fakePublisher{},
		menu:   newFakeMenuCache(),
		images: &fakeImages{},
	}
	f.auth = services.NewAuthService(f.repos.Users, testSecret, time.Hour, mylog)
	f.directory = services.NewDirectoryService(f.repos.Stores, f.repos.Users, mylog)
	f.catalog = services.NewCatalogService(f.repos.Items, f.menu, f.images, mylog)
	f.cart = services.NewCartService(f.carts, f.repos.Items, mylog)
	f.orders = services.NewOrderService(f.repos.Orders, f.repos.Items, f.carts, f.pub, services.OrderOptions{
		StrictTransitions:   strict,
		DefaultCustomerName: "Guest",
	}, mylog)

	f.store, f.admin = f.addStore(t, "mie-gacoan-tebet")
	f.item = f.addItem(t, f.store.ID, "Mie Suit", 9500)
	return f
}

func (f *fixture) addStore(t *testing.T, slug string) (models.Store, models.User) {
	t.Helper()
	created, err := f.directory.CreateStore(context.Background(), dto.CreateStoreRequest{
		Name:              slug,
		Slug:              slug,
		BankName:          "BCA",
		BankAccountNumber: "1234567890",
		BankAccountHolder: "Owner",
		AdminUsername:     slug + "-admin",
		AdminPassword:     "admin",
	})
	require.NoError(t, err)
	require.Len(t, created.Admins, 1)
	return created.Store, created.Admins[0]
}

func (f *fixture) addItem(t *testing.T, storeID int64, name string, price int64) models.Item {
	t.Helper()
	item := models.Item{StoreID: storeID, Name: name, Price: price, IsAvailable: true}
	require.NoError(t, f.repos.Items.Create(context.Background(), &item))
	return item
}
