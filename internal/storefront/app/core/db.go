package core

import (
	"context"

	"food-ordering/internal/storefront/domain/models"
	"food-ordering/internal/xpkg/db"
)

type IDB interface {
	Close() error
	IsAlive(ctx context.Context) error
	GetConn() db.Conn
}

type IStoreRepo interface {
	List(ctx context.Context) ([]models.Store, error)
	GetBySlug(ctx context.Context, slug string) (models.Store, error)
	GetByID(ctx context.Context, id int64) (models.Store, error)
	// CreateWithAdmin inserts the store and its admin user in one transaction.
	CreateWithAdmin(ctx context.Context, store *models.Store, admin *models.User) error
	Update(ctx context.Context, store *models.Store) error
}

type IItemRepo interface {
	ListAvailable(ctx context.Context, storeID int64) ([]models.Item, error)
	ListByStore(ctx context.Context, storeID int64) ([]models.Item, error)
	// GetByIDs returns the items of storeID among ids. Unknown ids and items of
	// other stores are left out.
	GetByIDs(ctx context.Context, storeID int64, ids []int64) ([]models.Item, error)
	Get(ctx context.Context, storeID, itemID int64) (models.Item, error)
	Create(ctx context.Context, item *models.Item) error
	Update(ctx context.Context, item *models.Item) error
}

type IUserRepo interface {
	GetByID(ctx context.Context, id int64) (models.User, error)
	GetByUsername(ctx context.Context, username string) (models.User, error)
	ListScoped(ctx context.Context) ([]models.User, error)
	CountSuperAdmins(ctx context.Context) (int, error)
	Create(ctx context.Context, user *models.User) error
	UpdatePassword(ctx context.Context, userID int64, password string) error
}

// StatusCheck decides whether the order may move from its current status.
type StatusCheck func(current models.Status) error

type StatusChange struct {
	Status       models.Status
	ChangedBy    string
	Note         string
	CustomerName *string
}

type IOrderRepo interface {
	// Create stores the order, its items and the initial status log entry in
	// one transaction, filling ID and OrderNumber.
	Create(ctx context.Context, order *models.Order) error
	Get(ctx context.Context, storeID, orderID int64) (models.Order, error)
	ListBySession(ctx context.Context, storeID int64, sessionID string) ([]models.Order, error)
	ListByStatuses(ctx context.Context, storeID int64, statuses []models.Status) ([]models.Order, error)
	// UpdateStatus locks the order, runs check against its current status and
	// applies change. It returns the previous status and the updated order.
	UpdateStatus(ctx context.Context, storeID, orderID int64, check StatusCheck, change StatusChange) (models.Status, models.Order, error)
	StatusLog(ctx context.Context, storeID, orderID int64) ([]models.OrderStatusLog, error)
}
