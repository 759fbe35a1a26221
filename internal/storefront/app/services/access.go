package services

import (
	"fmt"

	"food-ordering/internal/storefront/app/core"
	"food-ordering/internal/storefront/domain/models"
)

// Identity is who is calling: always a guest session, optionally a logged in user.
type Identity struct {
	SessionID string
	User      *models.User
}

func (id Identity) Actor() string {
	if id.User != nil {
		return id.User.Username
	}
	return "customer:" + id.SessionID
}

// Scope describes what a route needs from the caller.
type Scope struct {
	SuperAdmin bool
	// StoreID, when set, requires access to that store.
	StoreID *int64
}

// RequireAuth is satisfied by any logged in user.
func RequireAuth() Scope {
	return Scope{}
}

func RequireSuperAdmin() Scope {
	return Scope{SuperAdmin: true}
}

func RequireStoreAccess(storeID int64) Scope {
	return Scope{StoreID: &storeID}
}

// Authorize is the single access policy for admin routes. Every scope requires a
// logged in user; super admins pass every check.
func Authorize(id Identity, scope Scope) error {
	if id.User == nil {
		return core.ErrUnauthorized
	}
	u := id.User
	if u.IsSuperAdmin() {
		return nil
	}
	if scope.SuperAdmin {
		return fmt.Errorf("%w: super admin only", core.ErrForbidden)
	}
	if scope.StoreID != nil && (u.StoreID == nil || *u.StoreID != *scope.StoreID) {
		return fmt.Errorf("%w: no access to store %d", core.ErrForbidden, *scope.StoreID)
	}
	return nil
}
