package db

import (
	"context"

	"food-ordering/internal/storefront/app/core"
	"food-ordering/internal/storefront/domain/models"
	"food-ordering/internal/xpkg/logger"
)

const userColumns = `id, username, password, role, store_id, created_at, updated_at`

type UserRepo struct {
	db    core.IDB
	mylog logger.Logger
}

func NewUserRepo(db core.IDB, mylog logger.Logger) *UserRepo {
	return &UserRepo{
		db:    db,
		mylog: mylog,
	}
}

func scanUser(row scanner) (models.User, error) {
	var (
		u    models.User
		role string
	)
	err := row.Scan(&u.ID, &u.Username, &u.Password, &role, &u.StoreID, &u.CreatedAt, &u.UpdatedAt)
	u.Role = models.Role(role)
	return u, err
}

func (ur *UserRepo) GetByID(ctx context.Context, id int64) (models.User, error) {
	u, err := scanUser(ur.db.GetConn().QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id))
	return u, mapErr(err, core.ErrUserNotFound)
}

func (ur *UserRepo) GetByUsername(ctx context.Context, username string) (models.User, error) {
	u, err := scanUser(ur.db.GetConn().QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE username = $1`, username))
	return u, mapErr(err, core.ErrUserNotFound)
}

// ListScoped returns every user that belongs to a store.
func (ur *UserRepo) ListScoped(ctx context.Context) ([]models.User, error) {
	rows, err := ur.db.GetConn().Query(ctx, `SELECT `+userColumns+` FROM users WHERE store_id IS NOT NULL ORDER BY username`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	users := []models.User{}
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, u)
	}
	return users, rows.Err()
}

func (ur *UserRepo) CountSuperAdmins(ctx context.Context) (int, error) {
	var n int
	err := ur.db.GetConn().QueryRow(ctx, `SELECT COUNT(*) FROM users WHERE role = $1`, string(models.RoleSuperAdmin)).Scan(&n)
	return n, err
}

func (ur *UserRepo) Create(ctx context.Context, user *models.User) error {
	if err := user.Validate(); err != nil {
		return err
	}
	err := ur.db.GetConn().QueryRow(ctx, `
		INSERT INTO users (username, password, role, store_id)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at, updated_at
	`, user.Username, user.Password, string(user.Role), user.StoreID).Scan(&user.ID, &user.CreatedAt, &user.UpdatedAt)
	return mapErr(err, core.ErrUserNotFound)
}

func (ur *UserRepo) UpdatePassword(ctx context.Context, userID int64, password string) error {
	tag, err := ur.db.GetConn().Exec(ctx, `UPDATE users SET password = $2, updated_at = NOW() WHERE id = $1`, userID, password)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return core.ErrUserNotFound
	}
	return nil
}
