package models

import (
	"errors"
	"time"
)

type Role string

const (
	RoleSuperAdmin Role = "super_admin"
	RoleAdmin      Role = "admin"
	RoleStaff      Role = "staff"
)

func (r Role) IsValid() bool {
	switch r {
	case RoleSuperAdmin, RoleAdmin, RoleStaff:
		return true
	}
	return false
}

type User struct {
	ID        int64     `json:"id"`
	Username  string    `json:"username"`
	Password  string    `json:"-"`
	Role      Role      `json:"role"`
	StoreID   *int64    `json:"store_id,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

var (
	ErrInvalidRole      = errors.New("invalid role")
	ErrStoreScope       = errors.New("admin and staff users must belong to a store")
	ErrSuperAdminScoped = errors.New("super admin must not belong to a store")
)

func (u User) IsSuperAdmin() bool {
	return u.Role == RoleSuperAdmin
}

// Validate checks the role/store scoping invariant.
func (u User) Validate() error {
	if !u.Role.IsValid() {
		return ErrInvalidRole
	}
	if u.IsSuperAdmin() {
		if u.StoreID != nil {
			return ErrSuperAdminScoped
		}
		return nil
	}
	if u.StoreID == nil {
		return ErrStoreScope
	}
	return nil
}
