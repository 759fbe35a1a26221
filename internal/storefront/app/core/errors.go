package core

import (
	"errors"
	"fmt"

	xerrors "food-ordering/internal/xpkg/errors"
)

var (
	ErrHelp = xerrors.ErrHelp

	ErrDBConn = xerrors.ErrDBConn

	ErrNotFound      = errors.New("not found")
	ErrStoreNotFound = fmt.Errorf("store %w", ErrNotFound)
	ErrItemNotFound  = fmt.Errorf("item %w", ErrNotFound)
	ErrOrderNotFound = fmt.Errorf("order %w", ErrNotFound)
	ErrUserNotFound  = fmt.Errorf("user %w", ErrNotFound)

	ErrUnauthorized = errors.New("authentication required")
	ErrForbidden    = errors.New("forbidden")
	ErrInvalidLogin = errors.New("invalid username or password")

	ErrEmptyCart         = errors.New("cart is empty")
	ErrInvalidTransition = errors.New("order status transition not allowed")
	ErrConflict          = errors.New("already exists")
	ErrFieldIsEmpty      = errors.New("field is empty")
	ErrInvalidInput      = errors.New("invalid input")
)
