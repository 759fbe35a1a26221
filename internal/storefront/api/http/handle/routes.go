package handle

import (
	"context"
	"net/http"
	"time"

	"food-ordering/internal/storefront/app/services"
	"food-ordering/internal/xpkg/logger"
)

type Services struct {
	Auth      *services.AuthService
	Directory *services.DirectoryService
	Catalog   *services.CatalogService
	Cart      *services.CartService
	Orders    *services.OrderService
}

type RouteOptions struct {
	Admin AdminOptions
	// UploadsDir is served under UploadsPrefix when set.
	UploadsDir    string
	UploadsPrefix string
	// Health reports the state of backing services.
	Health func(ctx context.Context) error
}

// Routes registers every endpoint on mux and returns it wrapped in the
// session and identity middleware.
func Routes(mux *http.ServeMux, svc Services, opts RouteOptions, mylog logger.Logger) http.Handler {
	storeHandler := NewStoreHandler(svc.Directory, svc.Catalog, mylog)
	cartHandler := NewCartHandler(svc.Directory, svc.Cart, svc.Orders, mylog)
	orderHandler := NewOrderHandler(svc.Directory, svc.Orders, mylog)
	adminHandler := NewAdminHandler(svc.Auth, svc.Directory, svc.Catalog, svc.Orders, opts.Admin, mylog)
	superHandler := NewSuperAdminHandler(svc.Directory, mylog)

	// customer
	mux.Handle("GET /stores", storeHandler.List())
	mux.Handle("GET /stores/{slug}", storeHandler.Storefront())
	mux.Handle("GET /stores/{slug}/cart", cartHandler.View())
	mux.Handle("POST /stores/{slug}/cart/items", cartHandler.Add())
	mux.Handle("DELETE /stores/{slug}/cart/items/{item_id}", cartHandler.Remove())
	mux.Handle("POST /stores/{slug}/checkout", cartHandler.Checkout())
	mux.Handle("GET /stores/{slug}/orders", orderHandler.History())
	mux.Handle("GET /stores/{slug}/orders/{order_id}/payment", orderHandler.Payment())
	mux.Handle("POST /stores/{slug}/orders/{order_id}/payment", orderHandler.ConfirmPayment())
	mux.Handle("GET /stores/{slug}/orders/{order_id}/history", orderHandler.StatusLog())

	// admin
	mux.Handle("POST /admin/login", adminHandler.Login())
	mux.Handle("POST /admin/logout", adminHandler.Logout())
	mux.Handle("GET /admin/stores", superHandler.ListStores())
	mux.Handle("POST /admin/stores", superHandler.CreateStore())
	mux.Handle("GET /admin/stores/{store_id}", adminHandler.Dashboard())
	mux.Handle("PUT /admin/stores/{store_id}", adminHandler.UpdateStore())
	mux.Handle("POST /admin/stores/{store_id}/items", adminHandler.CreateItem())
	mux.Handle("PATCH /admin/stores/{store_id}/items/{item_id}", adminHandler.UpdateItem())
	mux.Handle("GET /admin/stores/{store_id}/kitchen", adminHandler.Kitchen())
	mux.Handle("POST /admin/stores/{store_id}/orders/{order_id}/status", adminHandler.SetStatus())

	if opts.UploadsDir != "" && opts.UploadsPrefix != "" {
		mux.Handle("GET "+opts.UploadsPrefix, http.StripPrefix(opts.UploadsPrefix, http.FileServer(http.Dir(opts.UploadsDir))))
	}
	mux.Handle("GET /health", health(opts.Health))

	return NewMiddleware(svc.Auth, opts.Admin.SecureCookies, mylog).Wrap(mux)
}

func health(check func(ctx context.Context) error) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if check != nil {
			ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
			defer cancel()
			if err := check(ctx); err != nil {
				jsonResponse(w, http.StatusServiceUnavailable, map[string]string{"status": "unavailable", "error": err.Error()})
				return
			}
		}
		jsonResponse(w, http.StatusOK, map[string]string{"status": "ok"})
	}
}
