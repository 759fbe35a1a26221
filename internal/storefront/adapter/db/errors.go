package db

import (
	"errors"

	"food-ordering/internal/storefront/app/core"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

const uniqueViolation = "23505"

type scanner interface {
	Scan(dest ...any) error
}

// mapErr translates driver errors into core sentinels.
func mapErr(err error, notFound error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, pgx.ErrNoRows) {
		return notFound
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
		return core.ErrConflict
	}
	return err
}
