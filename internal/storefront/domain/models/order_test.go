package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatus_Transitions(t *testing.T) {
	tests := []struct {
		from, to Status
		ok       bool
	}{
		{StatusPending, StatusPaid, true},
		{StatusPending, StatusCancelled, true},
		{StatusPending, StatusCompleted, false},
		{StatusPaid, StatusCompleted, true},
		{StatusPaid, StatusCancelled, true},
		{StatusPaid, StatusPending, false},
		{StatusCompleted, StatusCancelled, false},
		{StatusCancelled, StatusPaid, false},
		{StatusPaid, StatusPaid, true},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.ok, tt.from.CanTransitionTo(tt.to), "%s -> %s", tt.from, tt.to)
	}

	assert.True(t, StatusCompleted.IsTerminal())
	assert.True(t, StatusCancelled.IsTerminal())
	assert.False(t, StatusPending.IsTerminal())
}

func TestParseStatus(t *testing.T) {
	st, err := ParseStatus("paid")
	require.NoError(t, err)
	assert.Equal(t, StatusPaid, st)

	_, err = ParseStatus("cooking")
	assert.Error(t, err)
}

func TestOrderNumber(t *testing.T) {
	day := time.Date(2026, 3, 9, 23, 0, 0, 0, time.UTC)
	assert.Equal(t, "ORD_20260309_007", OrderNumber(day, 7))
}

func TestOrderItem_Subtotal(t *testing.T) {
	assert.EqualValues(t, 19000, OrderItem{Quantity: 2, PriceAtTime: 9500}.Subtotal())
}

func TestUser_Validate(t *testing.T) {
	storeID := int64(1)
	assert.NoError(t, User{Role: RoleSuperAdmin}.Validate())
	assert.NoError(t, User{Role: RoleAdmin, StoreID: &storeID}.Validate())
	assert.ErrorIs(t, User{Role: RoleStaff}.Validate(), ErrStoreScope)
	assert.ErrorIs(t, User{Role: RoleSuperAdmin, StoreID: &storeID}.Validate(), ErrSuperAdminScoped)
	assert.ErrorIs(t, User{Role: "owner"}.Validate(), ErrInvalidRole)
}
