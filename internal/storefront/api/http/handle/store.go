package handle

import (
	"context"
	"net/http"
	"time"

	"food-ordering/internal/storefront/app/core"
	"food-ordering/internal/storefront/app/services"
	"food-ordering/internal/storefront/domain/dto"
	"food-ordering/internal/storefront/domain/models"
	"food-ordering/internal/xpkg/logger"
)

type StoreHandler struct {
	directory *services.DirectoryService
	catalog   *services.CatalogService
	mylog     logger.Logger
}

func NewStoreHandler(directory *services.DirectoryService, catalog *services.CatalogService, mylog logger.Logger) *StoreHandler {
	return &StoreHandler{
		directory: directory,
		catalog:   catalog,
		mylog:     mylog,
	}
}

// resolveStore loads the store named by the {slug} path value.
func resolveStore(w http.ResponseWriter, r *http.Request, directory *services.DirectoryService, mylog logger.Logger) (models.Store, bool) {
	store, err := directory.Resolve(r.Context(), r.PathValue("slug"))
	if err != nil {
		serviceError(w, mylog, err)
		return models.Store{}, false
	}
	return store, true
}

func (sh *StoreHandler) List() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), core.WaitTime*time.Second)
		defer cancel()

		stores, err := sh.directory.List(ctx)
		if err != nil {
			serviceError(w, sh.mylog, err)
			return
		}
		jsonResponse(w, http.StatusOK, stores)
	}
}

func (sh *StoreHandler) Storefront() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), core.WaitTime*time.Second)
		defer cancel()

		store, ok := resolveStore(w, r.WithContext(ctx), sh.directory, sh.mylog)
		if !ok {
			return
		}

		items, err := sh.catalog.Menu(ctx, store.ID)
		if err != nil {
			serviceError(w, sh.mylog, err)
			return
		}
		jsonResponse(w, http.StatusOK, dto.Storefront{Store: store, Items: items})
	}
}
