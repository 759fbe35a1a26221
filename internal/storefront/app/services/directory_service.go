package services

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"food-ordering/internal/storefront/app/core"
	"food-ordering/internal/storefront/domain/dto"
	"food-ordering/internal/storefront/domain/models"
	"food-ordering/internal/xpkg/logger"
)

var slugPattern = regexp.MustCompile(`^[a-z0-9]+(?:-[a-z0-9]+)*$`)

type DirectoryService struct {
	stores core.IStoreRepo
	users  core.IUserRepo
	mylog  logger.Logger
}

func NewDirectoryService(stores core.IStoreRepo, users core.IUserRepo, mylog logger.Logger) *DirectoryService {
	return &DirectoryService{
		stores: stores,
		users:  users,
		mylog:  mylog,
	}
}

// List is the public store directory.
func (ds *DirectoryService) List(ctx context.Context) ([]models.Store, error) {
	stores, err := ds.stores.List(ctx)
	if err != nil {
		ds.mylog.Action("list_stores").Error("Failed to list stores", err)
		return nil, fmt.Errorf("cannot list stores: %w", err)
	}
	return stores, nil
}

// ListWithAdmins groups the store-scoped users under their store.
func (ds *DirectoryService) ListWithAdmins(ctx context.Context) ([]dto.StoreWithAdmins, error) {
	mylog := ds.mylog.Action("list_stores_with_admins")

	stores, err := ds.List(ctx)
	if err != nil {
		return nil, err
	}
	users, err := ds.users.ListScoped(ctx)
	if err != nil {
		mylog.Error("Failed to list users", err)
		return nil, fmt.Errorf("cannot list users: %w", err)
	}

	byStore := make(map[int64][]models.User)
	for _, u := range users {
		if u.StoreID != nil {
			byStore[*u.StoreID] = append(byStore[*u.StoreID], u)
		}
	}

	out := make([]dto.StoreWithAdmins, 0, len(stores))
	for _, s := range stores {
		admins := byStore[s.ID]
		if admins == nil {
			admins = []models.User{}
		}
		out = append(out, dto.StoreWithAdmins{Store: s, Admins: admins})
	}
	return out, nil
}

// Resolve finds the store addressed by a customer route.
func (ds *DirectoryService) Resolve(ctx context.Context, slug string) (models.Store, error) {
	store, err := ds.stores.GetBySlug(ctx, slug)
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			return models.Store{}, core.ErrStoreNotFound
		}
		ds.mylog.Action("resolve_store").Error("Failed to load store", err, "slug", slug)
		return models.Store{}, fmt.Errorf("cannot load store: %w", err)
	}
	return store, nil
}

func (ds *DirectoryService) GetByID(ctx context.Context, id int64) (models.Store, error) {
	store, err := ds.stores.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			return models.Store{}, core.ErrStoreNotFound
		}
		ds.mylog.Action("get_store").Error("Failed to load store", err, "store_id", id)
		return models.Store{}, fmt.Errorf("cannot load store: %w", err)
	}
	return store, nil
}

// CreateStore provisions a store together with its first admin account.
func (ds *DirectoryService) CreateStore(ctx context.Context, req dto.CreateStoreRequest) (dto.StoreWithAdmins, error) {
	mylog := ds.mylog.Action("create_store").With("slug", req.Slug)

	store := models.Store{
		Slug:              strings.ToLower(strings.TrimSpace(req.Slug)),
		Name:              strings.TrimSpace(req.Name),
		Description:       strings.TrimSpace(req.Description),
		ImageURL:          strings.TrimSpace(req.ImageURL),
		BankName:          strings.TrimSpace(req.BankName),
		BankAccountNumber: strings.TrimSpace(req.BankAccountNumber),
		BankAccountHolder: strings.TrimSpace(req.BankAccountHolder),
	}
	if err := validateSlug(store.Slug); err != nil {
		return dto.StoreWithAdmins{}, err
	}
	if err := validateStoreName(store.Name); err != nil {
		return dto.StoreWithAdmins{}, err
	}

	admin := models.User{
		Username: strings.TrimSpace(req.AdminUsername),
		Password: req.AdminPassword,
		Role:     models.RoleAdmin,
	}
	if admin.Username == "" || admin.Password == "" {
		return dto.StoreWithAdmins{}, fmt.Errorf("%w: admin credentials: %v", core.ErrInvalidInput, core.ErrFieldIsEmpty)
	}

	if err := ds.stores.CreateWithAdmin(ctx, &store, &admin); err != nil {
		if errors.Is(err, core.ErrConflict) {
			mylog.Info("Store or admin already exists")
			return dto.StoreWithAdmins{}, err
		}
		mylog.Error("Failed to create store", err)
		return dto.StoreWithAdmins{}, fmt.Errorf("cannot create store: %w", err)
	}

	mylog.Info("Store created", "store_id", store.ID, "admin", admin.Username)
	return dto.StoreWithAdmins{Store: store, Admins: []models.User{admin}}, nil
}

// UpdateProfile applies the provided store fields and, when set, changes the
// calling user's password.
func (ds *DirectoryService) UpdateProfile(ctx context.Context, storeID int64, req dto.UpdateStoreRequest, caller models.User) (models.Store, error) {
	mylog := ds.mylog.Action("update_store").With("store_id", storeID)

	store, err := ds.GetByID(ctx, storeID)
	if err != nil {
		return models.Store{}, err
	}

	apply := func(dst *string, src *string) {
		if src != nil {
			*dst = strings.TrimSpace(*src)
		}
	}
	apply(&store.Name, req.Name)
	apply(&store.Description, req.Description)
	apply(&store.ImageURL, req.ImageURL)
	apply(&store.BankName, req.BankName)
	apply(&store.BankAccountNumber, req.BankAccountNumber)
	apply(&store.BankAccountHolder, req.BankAccountHolder)

	if err := validateStoreName(store.Name); err != nil {
		return models.Store{}, err
	}

	if err := ds.stores.Update(ctx, &store); err != nil {
		mylog.Error("Failed to update store", err)
		return models.Store{}, fmt.Errorf("cannot update store: %w", err)
	}

	if req.Password != nil && *req.Password != "" {
		if err := ds.users.UpdatePassword(ctx, caller.ID, *req.Password); err != nil {
			mylog.Error("Failed to update password", err, "user_id", caller.ID)
			return models.Store{}, fmt.Errorf("cannot update password: %w", err)
		}
		mylog.Info("Password changed", "user_id", caller.ID)
	}
	return store, nil
}

// EnsureSuperAdmin creates the super admin account unless one exists already.
// It reports whether a user was created.
func (ds *DirectoryService) EnsureSuperAdmin(ctx context.Context, username, password string) (bool, error) {
	mylog := ds.mylog.Action("ensure_super_admin")

	n, err := ds.users.CountSuperAdmins(ctx)
	if err != nil {
		mylog.Error("Failed to count super admins", err)
		return false, fmt.Errorf("cannot count super admins: %w", err)
	}
	if n > 0 {
		return false, nil
	}
	if username == "" || password == "" {
		return false, fmt.Errorf("%w: super admin credentials: %v", core.ErrInvalidInput, core.ErrFieldIsEmpty)
	}

	user := models.User{Username: username, Password: password, Role: models.RoleSuperAdmin}
	if err := ds.users.Create(ctx, &user); err != nil {
		mylog.Error("Failed to create super admin", err)
		return false, fmt.Errorf("cannot create super admin: %w", err)
	}
	mylog.Info("Super admin created", "username", username)
	return true, nil
}

func validateSlug(slug string) error {
	if slug == "" {
		return fmt.Errorf("%w: slug: %v", core.ErrInvalidInput, core.ErrFieldIsEmpty)
	}
	if len(slug) > core.MaxSlugLen || !slugPattern.MatchString(slug) {
		return fmt.Errorf("%w: slug must be lowercase letters, digits and single hyphens, at most %d characters", core.ErrInvalidInput, core.MaxSlugLen)
	}
	return nil
}

func validateStoreName(name string) error {
	if len(name) < core.MinStoreNameLen {
		return fmt.Errorf("%w: name: %v", core.ErrInvalidInput, core.ErrFieldIsEmpty)
	}
	if len(name) > core.MaxStoreNameLen {
		return fmt.Errorf("%w: name longer than %d", core.ErrInvalidInput, core.MaxStoreNameLen)
	}
	return nil
}
