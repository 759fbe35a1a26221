package handle

import (
	"context"
	"net/http"
	"time"

	"food-ordering/internal/storefront/app/core"
	"food-ordering/internal/storefront/app/services"
	"food-ordering/internal/storefront/domain/dto"
	"food-ordering/internal/xpkg/logger"
)

type SuperAdminHandler struct {
	directory *services.DirectoryService
	mylog     logger.Logger
}

func NewSuperAdminHandler(directory *services.DirectoryService, mylog logger.Logger) *SuperAdminHandler {
	return &SuperAdminHandler{
		directory: directory,
		mylog:     mylog,
	}
}

func (sh *SuperAdminHandler) ListStores() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !authorize(w, r, sh.mylog, services.RequireSuperAdmin()) {
			return
		}
		ctx, cancel := context.WithTimeout(r.Context(), core.WaitTime*time.Second)
		defer cancel()

		stores, err := sh.directory.ListWithAdmins(ctx)
		if err != nil {
			serviceError(w, sh.mylog, err)
			return
		}
		jsonResponse(w, http.StatusOK, stores)
	}
}

func (sh *SuperAdminHandler) CreateStore() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !authorize(w, r, sh.mylog, services.RequireSuperAdmin()) {
			return
		}
		ctx, cancel := context.WithTimeout(r.Context(), core.WaitTime*time.Second)
		defer cancel()

		var req dto.CreateStoreRequest
		if err := decodeJSON(r, &req); err != nil {
			jsonError(w, http.StatusBadRequest, err)
			return
		}

		created, err := sh.directory.CreateStore(ctx, req)
		if err != nil {
			serviceError(w, sh.mylog, err)
			return
		}
		jsonResponse(w, http.StatusCreated, created)
	}
}
