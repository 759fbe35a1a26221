// Package memory holds in-process repositories with the same semantics as the
// postgres adapter. Tests and local runs without a database use it.
package memory

import (
	"context"
	"fmt"
	"slices"
	"sort"
	"sync"
	"time"

	"food-ordering/internal/storefront/app/core"
	"food-ordering/internal/storefront/domain/models"
)

type state struct {
	mu     sync.Mutex
	clock  func() time.Time
	nextID int64

	stores []models.Store
	items  []models.Item
	users  []models.User
	orders []models.Order
	logs   []models.OrderStatusLog
}

func (s *state) id() int64 {
	s.nextID++
	return s.nextID
}

type Repos struct {
	Stores *StoreRepo
	Items  *ItemRepo
	Users  *UserRepo
	Orders *OrderRepo
}

func New() *Repos {
	st := &state{clock: time.Now}
	return &Repos{
		Stores: &StoreRepo{st},
		Items:  &ItemRepo{st},
		Users:  &UserRepo{st},
		Orders: &OrderRepo{st},
	}
}

// SetClock replaces the time source used for timestamps.
func (r *Repos) SetClock(clock func() time.Time) {
	r.Stores.s.mu.Lock()
	r.Stores.s.clock = clock
	r.Stores.s.mu.Unlock()
}

type StoreRepo struct{ s *state }

func (sr *StoreRepo) List(_ context.Context) ([]models.Store, error) {
	sr.s.mu.Lock()
	defer sr.s.mu.Unlock()

	out := slices.Clone(sr.s.stores)
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (sr *StoreRepo) GetBySlug(_ context.Context, slug string) (models.Store, error) {
	sr.s.mu.Lock()
	defer sr.s.mu.Unlock()

	for _, st := range sr.s.stores {
		if st.Slug == slug {
			return st, nil
		}
	}
	return models.Store{}, core.ErrStoreNotFound
}

func (sr *StoreRepo) GetByID(_ context.Context, id int64) (models.Store, error) {
	sr.s.mu.Lock()
	defer sr.s.mu.Unlock()

	for _, st := range sr.s.stores {
		if st.ID == id {
			return st, nil
		}
	}
	return models.Store{}, core.ErrStoreNotFound
}

func (sr *StoreRepo) CreateWithAdmin(_ context.Context, store *models.Store, admin *models.User) error {
	sr.s.mu.Lock()
	defer sr.s.mu.Unlock()

	for _, st := range sr.s.stores {
		if st.Slug == store.Slug {
			return core.ErrConflict
		}
	}
	for _, u := range sr.s.users {
		if u.Username == admin.Username {
			return core.ErrConflict
		}
	}

	now := sr.s.clock().UTC()
	store.ID = sr.s.id()
	store.CreatedAt, store.UpdatedAt = now, now

	storeID := store.ID
	admin.StoreID = &storeID
	if err := admin.Validate(); err != nil {
		return fmt.Errorf("%w: %v", core.ErrInvalidInput, err)
	}
	admin.ID = sr.s.id()
	admin.CreatedAt, admin.UpdatedAt = now, now

	sr.s.stores = append(sr.s.stores, *store)
	sr.s.users = append(sr.s.users, *admin)
	return nil
}

func (sr *StoreRepo) Update(_ context.Context, store *models.Store) error {
	sr.s.mu.Lock()
	defer sr.s.mu.Unlock()

	for i := range sr.s.stores {
		if sr.s.stores[i].ID == store.ID {
			store.Slug = sr.s.stores[i].Slug
			store.CreatedAt = sr.s.stores[i].CreatedAt
			store.UpdatedAt = sr.s.clock().UTC()
			sr.s.stores[i] = *store
			return nil
		}
	}
	return core.ErrStoreNotFound
}

type ItemRepo struct{ s *state }

func (ir *ItemRepo) filter(keep func(models.Item) bool) []models.Item {
	ir.s.mu.Lock()
	defer ir.s.mu.Unlock()

	out := []models.Item{}
	for _, it := range ir.s.items {
		if keep(it) {
			out = append(out, it)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

func (ir *ItemRepo) ListAvailable(_ context.Context, storeID int64) ([]models.Item, error) {
	return ir.filter(func(it models.Item) bool { return it.StoreID == storeID && it.IsAvailable }), nil
}

func (ir *ItemRepo) ListByStore(_ context.Context, storeID int64) ([]models.Item, error) {
	return ir.filter(func(it models.Item) bool { return it.StoreID == storeID }), nil
}

func (ir *ItemRepo) GetByIDs(_ context.Context, storeID int64, ids []int64) ([]models.Item, error) {
	return ir.filter(func(it models.Item) bool { return it.StoreID == storeID && slices.Contains(ids, it.ID) }), nil
}

func (ir *ItemRepo) Get(_ context.Context, storeID, itemID int64) (models.Item, error) {
	ir.s.mu.Lock()
	defer ir.s.mu.Unlock()

	for _, it := range ir.s.items {
		if it.ID == itemID && it.StoreID == storeID {
			return it, nil
		}
	}
	return models.Item{}, core.ErrItemNotFound
}

func (ir *ItemRepo) Create(_ context.Context, item *models.Item) error {
	ir.s.mu.Lock()
	defer ir.s.mu.Unlock()

	if !slices.ContainsFunc(ir.s.stores, func(st models.Store) bool { return st.ID == item.StoreID }) {
		return core.ErrStoreNotFound
	}
	now := ir.s.clock().UTC()
	item.ID = ir.s.id()
	item.CreatedAt, item.UpdatedAt = now, now
	ir.s.items = append(ir.s.items, *item)
	return nil
}

func (ir *ItemRepo) Update(_ context.Context, item *models.Item) error {
	ir.s.mu.Lock()
	defer ir.s.mu.Unlock()

	for i := range ir.s.items {
		if ir.s.items[i].ID == item.ID && ir.s.items[i].StoreID == item.StoreID {
			item.CreatedAt = ir.s.items[i].CreatedAt
			item.UpdatedAt = ir.s.clock().UTC()
			ir.s.items[i] = *item
			return nil
		}
	}
	return core.ErrItemNotFound
}

type UserRepo struct{ s *state }

func (ur *UserRepo) find(match func(models.User) bool) (models.User, error) {
	ur.s.mu.Lock()
	defer ur.s.mu.Unlock()

	for _, u := range ur.s.users {
		if match(u) {
			return u, nil
		}
	}
	return models.User{}, core.ErrUserNotFound
}

func (ur *UserRepo) GetByID(_ context.Context, id int64) (models.User, error) {
	return ur.find(func(u models.User) bool { return u.ID == id })
}

func (ur *UserRepo) GetByUsername(_ context.Context, username string) (models.User, error) {
	return ur.find(func(u models.User) bool { return u.Username == username })
}

func (ur *UserRepo) ListScoped(_ context.Context) ([]models.User, error) {
	ur.s.mu.Lock()
	defer ur.s.mu.Unlock()

	out := []models.User{}
	for _, u := range ur.s.users {
		if u.StoreID != nil {
			out = append(out, u)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Username < out[j].Username })
	return out, nil
}

func (ur *UserRepo) CountSuperAdmins(_ context.Context) (int, error) {
	ur.s.mu.Lock()
	defer ur.s.mu.Unlock()

	n := 0
	for _, u := range ur.s.users {
		if u.IsSuperAdmin() {
			n++
		}
	}
	return n, nil
}

func (ur *UserRepo) Create(_ context.Context, user *models.User) error {
	if err := user.Validate(); err != nil {
		return err
	}

	ur.s.mu.Lock()
	defer ur.s.mu.Unlock()

	for _, u := range ur.s.users {
		if u.Username == user.Username {
			return core.ErrConflict
		}
	}
	if user.StoreID != nil && !slices.ContainsFunc(ur.s.stores, func(st models.Store) bool { return st.ID == *user.StoreID }) {
		return core.ErrStoreNotFound
	}
	now := ur.s.clock().UTC()
	user.ID = ur.s.id()
	user.CreatedAt, user.UpdatedAt = now, now
	ur.s.users = append(ur.s.users, *user)
	return nil
}

func (ur *UserRepo) UpdatePassword(_ context.Context, userID int64, password string) error {
	ur.s.mu.Lock()
	defer ur.s.mu.Unlock()

	for i := range ur.s.users {
		if ur.s.users[i].ID == userID {
			ur.s.users[i].Password = password
			ur.s.users[i].UpdatedAt = ur.s.clock().UTC()
			return nil
		}
	}
	return core.ErrUserNotFound
}

type OrderRepo struct{ s *state }

func (or *OrderRepo) Create(_ context.Context, order *models.Order) error {
	or.s.mu.Lock()
	defer or.s.mu.Unlock()

	if !slices.ContainsFunc(or.s.stores, func(st models.Store) bool { return st.ID == order.StoreID }) {
		return core.ErrStoreNotFound
	}
	if order.CreatedAt.IsZero() {
		order.CreatedAt = or.s.clock().UTC()
	}
	day := order.CreatedAt.UTC().Truncate(24 * time.Hour)

	todays := 0
	for _, o := range or.s.orders {
		if o.StoreID == order.StoreID && o.CreatedAt.UTC().Truncate(24*time.Hour).Equal(day) {
			todays++
		}
	}

	order.ID = or.s.id()
	order.OrderNumber = models.OrderNumber(day, todays+1)
	order.UpdatedAt = order.CreatedAt
	for i := range order.Items {
		order.Items[i].ID = or.s.id()
		order.Items[i].OrderID = order.ID
	}

	or.s.orders = append(or.s.orders, cloneOrder(*order))
	or.s.logs = append(or.s.logs, models.OrderStatusLog{
		ID:        or.s.id(),
		OrderID:   order.ID,
		Status:    order.Status,
		ChangedBy: "customer:" + order.UserUUID,
		ChangedAt: order.CreatedAt,
		Note:      "order placed",
	})
	return nil
}

func cloneOrder(o models.Order) models.Order {
	o.Items = slices.Clone(o.Items)
	if o.Items == nil {
		o.Items = []models.OrderItem{}
	}
	return o
}

func (or *OrderRepo) index(storeID, orderID int64) int {
	for i, o := range or.s.orders {
		if o.ID == orderID && o.StoreID == storeID {
			return i
		}
	}
	return -1
}

func (or *OrderRepo) Get(_ context.Context, storeID, orderID int64) (models.Order, error) {
	or.s.mu.Lock()
	defer or.s.mu.Unlock()

	i := or.index(storeID, orderID)
	if i < 0 {
		return models.Order{}, core.ErrOrderNotFound
	}
	return cloneOrder(or.s.orders[i]), nil
}

func (or *OrderRepo) ListBySession(_ context.Context, storeID int64, sessionID string) ([]models.Order, error) {
	or.s.mu.Lock()
	defer or.s.mu.Unlock()

	out := []models.Order{}
	for _, o := range or.s.orders {
		if o.StoreID == storeID && o.UserUUID == sessionID {
			out = append(out, cloneOrder(o))
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID > out[j].ID
		}
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

func (or *OrderRepo) ListByStatuses(_ context.Context, storeID int64, statuses []models.Status) ([]models.Order, error) {
	or.s.mu.Lock()
	defer or.s.mu.Unlock()

	out := []models.Order{}
	for _, o := range or.s.orders {
		if o.StoreID == storeID && slices.Contains(statuses, o.Status) {
			out = append(out, cloneOrder(o))
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID < out[j].ID
		}
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out, nil
}

func (or *OrderRepo) UpdateStatus(_ context.Context, storeID, orderID int64, check core.StatusCheck, change core.StatusChange) (models.Status, models.Order, error) {
	or.s.mu.Lock()
	defer or.s.mu.Unlock()

	i := or.index(storeID, orderID)
	if i < 0 {
		return "", models.Order{}, core.ErrOrderNotFound
	}
	o := &or.s.orders[i]
	old := o.Status
	if check != nil {
		if err := check(old); err != nil {
			return old, models.Order{}, err
		}
	}

	now := or.s.clock().UTC()
	o.Status = change.Status
	if change.CustomerName != nil {
		o.CustomerName = *change.CustomerName
	}
	o.UpdatedAt = now

	or.s.logs = append(or.s.logs, models.OrderStatusLog{
		ID:        or.s.id(),
		OrderID:   orderID,
		Status:    change.Status,
		ChangedBy: change.ChangedBy,
		ChangedAt: now,
		Note:      change.Note,
	})
	return old, cloneOrder(*o), nil
}

func (or *OrderRepo) StatusLog(_ context.Context, storeID, orderID int64) ([]models.OrderStatusLog, error) {
	or.s.mu.Lock()
	defer or.s.mu.Unlock()

	if or.index(storeID, orderID) < 0 {
		return nil, core.ErrOrderNotFound
	}
	out := []models.OrderStatusLog{}
	for _, l := range or.s.logs {
		if l.OrderID == orderID {
			out = append(out, l)
		}
	}
	return out, nil
}
