package services_test

import (
	"context"
	"testing"

	"food-ordering/internal/storefront/app/core"
	"food-ordering/internal/storefront/domain/dto"
	"food-ordering/internal/storefront/domain/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func storeRequest(slug, admin string) dto.CreateStoreRequest {
	return dto.CreateStoreRequest{
		Name:          "Warteg Bahari",
		Slug:          slug,
		AdminUsername: admin,
		AdminPassword: "admin",
	}
}

func TestCreateStore(t *testing.T) {
	f := newFixture(t, true)
	ctx := context.Background()

	created, err := f.directory.CreateStore(ctx, storeRequest(" Warteg-Bahari ", "wb-admin"))
	require.NoError(t, err)
	assert.Equal(t, "warteg-bahari", created.Store.Slug)
	require.Len(t, created.Admins, 1)
	admin := created.Admins[0]
	assert.Equal(t, models.RoleAdmin, admin.Role)
	require.NotNil(t, admin.StoreID)
	assert.Equal(t, created.Store.ID, *admin.StoreID)

	resolved, err := f.directory.Resolve(ctx, "warteg-bahari")
	require.NoError(t, err)
	assert.Equal(t, created.Store.ID, resolved.ID)

	_, err = f.directory.Resolve(ctx, "nowhere")
	assert.ErrorIs(t, err, core.ErrStoreNotFound)
}

func TestCreateStoreRejects(t *testing.T) {
	f := newFixture(t, true)
	ctx := context.Background()

	tests := []struct {
		name    string
		req     dto.CreateStoreRequest
		wantErr error
	}{
		{name: "duplicate slug", req: storeRequest("mie-gacoan-tebet", "fresh-admin"), wantErr: core.ErrConflict},
		{name: "duplicate admin", req: storeRequest("fresh", "mie-gacoan-tebet-admin"), wantErr: core.ErrConflict},
		{name: "slug with spaces", req: storeRequest("warteg bahari", "x"), wantErr: core.ErrInvalidInput},
		{name: "slug with double hyphen", req: storeRequest("warteg--bahari", "x"), wantErr: core.ErrInvalidInput},
		{name: "empty slug", req: storeRequest("", "x"), wantErr: core.ErrInvalidInput},
		{name: "no admin", req: storeRequest("fresh", ""), wantErr: core.ErrInvalidInput},
		{name: "no name", req: dto.CreateStoreRequest{Slug: "fresh", AdminUsername: "x", AdminPassword: "y"}, wantErr: core.ErrInvalidInput},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.directory.CreateStore(ctx, tt.req)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}

	stores, err := f.directory.List(ctx)
	require.NoError(t, err)
	assert.Len(t, stores, 1)
}

func TestListWithAdmins(t *testing.T) {
	f := newFixture(t, true)
	ctx := context.Background()
	other, _ := f.addStore(t, "warteg-bahari")

	list, err := f.directory.ListWithAdmins(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)

	byID := map[int64][]string{}
	for _, s := range list {
		for _, a := range s.Admins {
			byID[s.Store.ID] = append(byID[s.Store.ID], a.Username)
		}
	}
	assert.Equal(t, []string{"mie-gacoan-tebet-admin"}, byID[f.store.ID])
	assert.Equal(t, []string{"warteg-bahari-admin"}, byID[other.ID])
}

func TestUpdateProfile(t *testing.T) {
	f := newFixture(t, true)
	ctx := context.Background()

	name, bank, password := " Mie Gacoan ", "Mandiri", "new-password"
	updated, err := f.directory.UpdateProfile(ctx, f.store.ID, dto.UpdateStoreRequest{
		Name:     &name,
		BankName: &bank,
		Password: &password,
	}, f.admin)
	require.NoError(t, err)
	assert.Equal(t, "Mie Gacoan", updated.Name)
	assert.Equal(t, "Mandiri", updated.BankName)
	assert.Equal(t, "1234567890", updated.BankAccountNumber)
	assert.Equal(t, f.store.Slug, updated.Slug)

	_, _, err = f.auth.Login(ctx, f.admin.Username, "admin")
	assert.ErrorIs(t, err, core.ErrInvalidLogin)
	_, _, err = f.auth.Login(ctx, f.admin.Username, password)
	assert.NoError(t, err)

	empty := ""
	_, err = f.directory.UpdateProfile(ctx, f.store.ID, dto.UpdateStoreRequest{Name: &empty}, f.admin)
	assert.ErrorIs(t, err, core.ErrInvalidInput)
}

func TestEnsureSuperAdminIsIdempotent(t *testing.T) {
	f := newFixture(t, true)
	ctx := context.Background()

	created, err := f.directory.EnsureSuperAdmin(ctx, "superadmin", "root")
	require.NoError(t, err)
	assert.True(t, created)

	created, err = f.directory.EnsureSuperAdmin(ctx, "another", "root")
	require.NoError(t, err)
	assert.False(t, created)

	_, user, err := f.auth.Login(ctx, "superadmin", "root")
	require.NoError(t, err)
	assert.True(t, user.IsSuperAdmin())
}
