package db

import (
	"context"

	"food-ordering/internal/storefront/app/core"
	"food-ordering/internal/storefront/domain/models"
	"food-ordering/internal/xpkg/logger"
)

const itemColumns = `id, store_id, name, description, price, image_url, is_available, created_at, updated_at`

type ItemRepo struct {
	db    core.IDB
	mylog logger.Logger
}

func NewItemRepo(db core.IDB, mylog logger.Logger) *ItemRepo {
	return &ItemRepo{
		db:    db,
		mylog: mylog,
	}
}

func scanItem(row scanner) (models.Item, error) {
	var it models.Item
	err := row.Scan(
		&it.ID,
		&it.StoreID,
		&it.Name,
		&it.Description,
		&it.Price,
		&it.ImageURL,
		&it.IsAvailable,
		&it.CreatedAt,
		&it.UpdatedAt,
	)
	return it, err
}

func (ir *ItemRepo) query(ctx context.Context, q string, args ...any) ([]models.Item, error) {
	rows, err := ir.db.GetConn().Query(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := []models.Item{}
	for rows.Next() {
		it, err := scanItem(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, it)
	}
	return items, rows.Err()
}

func (ir *ItemRepo) ListAvailable(ctx context.Context, storeID int64) ([]models.Item, error) {
	return ir.query(ctx, `SELECT `+itemColumns+` FROM items WHERE store_id = $1 AND is_available ORDER BY name`, storeID)
}

func (ir *ItemRepo) ListByStore(ctx context.Context, storeID int64) ([]models.Item, error) {
	return ir.query(ctx, `SELECT `+itemColumns+` FROM items WHERE store_id = $1 ORDER BY name`, storeID)
}

func (ir *ItemRepo) GetByIDs(ctx context.Context, storeID int64, ids []int64) ([]models.Item, error) {
	if len(ids) == 0 {
		return []models.Item{}, nil
	}
	return ir.query(ctx, `SELECT `+itemColumns+` FROM items WHERE store_id = $1 AND id = ANY($2)`, storeID, ids)
}

func (ir *ItemRepo) Get(ctx context.Context, storeID, itemID int64) (models.Item, error) {
	it, err := scanItem(ir.db.GetConn().QueryRow(ctx, `SELECT `+itemColumns+` FROM items WHERE store_id = $1 AND id = $2`, storeID, itemID))
	return it, mapErr(err, core.ErrItemNotFound)
}

func (ir *ItemRepo) Create(ctx context.Context, item *models.Item) error {
	err := ir.db.GetConn().QueryRow(ctx, `
		INSERT INTO items (store_id, name, description, price, image_url, is_available)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at, updated_at
	`,
		item.StoreID,
		item.Name,
		item.Description,
		item.Price,
		item.ImageURL,
		item.IsAvailable,
	).Scan(&item.ID, &item.CreatedAt, &item.UpdatedAt)
	return mapErr(err, core.ErrStoreNotFound)
}

func (ir *ItemRepo) Update(ctx context.Context, item *models.Item) error {
	err := ir.db.GetConn().QueryRow(ctx, `
		UPDATE items
		SET
			name = $3,
			description = $4,
			price = $5,
			image_url = $6,
			is_available = $7,
			updated_at = NOW()
		WHERE store_id = $1 AND id = $2
		RETURNING updated_at
	`,
		item.StoreID,
		item.ID,
		item.Name,
		item.Description,
		item.Price,
		item.ImageURL,
		item.IsAvailable,
	).Scan(&item.UpdatedAt)
	return mapErr(err, core.ErrItemNotFound)
}
