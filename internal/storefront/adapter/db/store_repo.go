package db

import (
	"context"
	"fmt"

	"food-ordering/internal/storefront/app/core"
	"food-ordering/internal/storefront/domain/models"
	"food-ordering/internal/xpkg/logger"
)

const storeColumns = `id, slug, name, description, image_url, bank_name, bank_account_number, bank_account_holder, created_at, updated_at`

type StoreRepo struct {
	db    core.IDB
	mylog logger.Logger
}

func NewStoreRepo(db core.IDB, mylog logger.Logger) *StoreRepo {
	return &StoreRepo{
		db:    db,
		mylog: mylog,
	}
}

func scanStore(row scanner) (models.Store, error) {
	var s models.Store
	err := row.Scan(
		&s.ID,
		&s.Slug,
		&s.Name,
		&s.Description,
		&s.ImageURL,
		&s.BankName,
		&s.BankAccountNumber,
		&s.BankAccountHolder,
		&s.CreatedAt,
		&s.UpdatedAt,
	)
	return s, err
}

func (sr *StoreRepo) List(ctx context.Context) ([]models.Store, error) {
	rows, err := sr.db.GetConn().Query(ctx, `SELECT `+storeColumns+` FROM stores ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	stores := []models.Store{}
	for rows.Next() {
		s, err := scanStore(rows)
		if err != nil {
			return nil, err
		}
		stores = append(stores, s)
	}
	return stores, rows.Err()
}

func (sr *StoreRepo) GetBySlug(ctx context.Context, slug string) (models.Store, error) {
	s, err := scanStore(sr.db.GetConn().QueryRow(ctx, `SELECT `+storeColumns+` FROM stores WHERE slug = $1`, slug))
	return s, mapErr(err, core.ErrStoreNotFound)
}

func (sr *StoreRepo) GetByID(ctx context.Context, id int64) (models.Store, error) {
	s, err := scanStore(sr.db.GetConn().QueryRow(ctx, `SELECT `+storeColumns+` FROM stores WHERE id = $1`, id))
	return s, mapErr(err, core.ErrStoreNotFound)
}

// CreateWithAdmin inserts the store, then its admin scoped to it. Either both
// rows exist afterwards or neither does.
func (sr *StoreRepo) CreateWithAdmin(ctx context.Context, store *models.Store, admin *models.User) error {
	mylog := sr.mylog.Action("create_store_tx")

	tx, err := sr.db.GetConn().Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	err = tx.QueryRow(ctx, `
		INSERT INTO stores (
			slug,
			name,
			description,
			image_url,
			bank_name,
			bank_account_number,
			bank_account_holder
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at, updated_at
	`,
		store.Slug,
		store.Name,
		store.Description,
		store.ImageURL,
		store.BankName,
		store.BankAccountNumber,
		store.BankAccountHolder,
	).Scan(&store.ID, &store.CreatedAt, &store.UpdatedAt)
	if err != nil {
		mylog.Debug("store insert failed", "error", err.Error())
		return mapErr(err, core.ErrStoreNotFound)
	}

	storeID := store.ID
	admin.StoreID = &storeID
	if err := admin.Validate(); err != nil {
		return fmt.Errorf("%w: %v", core.ErrInvalidInput, err)
	}

	err = tx.QueryRow(ctx, `
		INSERT INTO users (username, password, role, store_id)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at, updated_at
	`, admin.Username, admin.Password, string(admin.Role), admin.StoreID).Scan(&admin.ID, &admin.CreatedAt, &admin.UpdatedAt)
	if err != nil {
		mylog.Debug("admin insert failed", "error", err.Error())
		return mapErr(err, core.ErrUserNotFound)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

func (sr *StoreRepo) Update(ctx context.Context, store *models.Store) error {
	err := sr.db.GetConn().QueryRow(ctx, `
		UPDATE stores
		SET
			name = $2,
			description = $3,
			image_url = $4,
			bank_name = $5,
			bank_account_number = $6,
			bank_account_holder = $7,
			updated_at = NOW()
		WHERE id = $1
		RETURNING updated_at
	`,
		store.ID,
		store.Name,
		store.Description,
		store.ImageURL,
		store.BankName,
		store.BankAccountNumber,
		store.BankAccountHolder,
	).Scan(&store.UpdatedAt)
	return mapErr(err, core.ErrStoreNotFound)
}
