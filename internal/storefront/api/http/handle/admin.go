package handle

import (
	"context"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"strconv"
	"time"

	"food-ordering/internal/storefront/app/core"
	"food-ordering/internal/storefront/app/services"
	"food-ordering/internal/storefront/domain/dto"
	"food-ordering/internal/storefront/domain/models"
	"food-ordering/internal/xpkg/logger"
)

var errTooManyAttempts = errors.New("too many login attempts, try again later")

type AdminOptions struct {
	SecureCookies  bool
	LoginPerMinute int
	MaxUploadBytes int64
}

// AdminHandler serves store admins and staff. Every route is checked with
// services.Authorize against the store in the path.
type AdminHandler struct {
	auth      *services.AuthService
	directory *services.DirectoryService
	catalog   *services.CatalogService
	orders    *services.OrderService
	opts      AdminOptions
	limiter   *ipLimiter
	mylog     logger.Logger
}

func NewAdminHandler(
	auth *services.AuthService,
	directory *services.DirectoryService,
	catalog *services.CatalogService,
	orders *services.OrderService,
	opts AdminOptions,
	mylog logger.Logger,
) *AdminHandler {
	return &AdminHandler{
		auth:      auth,
		directory: directory,
		catalog:   catalog,
		orders:    orders,
		opts:      opts,
		limiter:   newIPLimiter(opts.LoginPerMinute),
		mylog:     mylog,
	}
}

func (ah *AdminHandler) Login() http.HandlerFunc {
	return ah.limiter.wrap(func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), core.WaitTime*time.Second)
		defer cancel()

		var req dto.LoginRequest
		if err := decodeJSON(r, &req); err != nil {
			jsonError(w, http.StatusBadRequest, err)
			return
		}

		token, user, err := ah.auth.Login(ctx, req.Username, req.Password)
		if err != nil {
			serviceError(w, ah.mylog, err)
			return
		}

		http.SetCookie(w, &http.Cookie{
			Name:     core.AuthCookie,
			Value:    token,
			Path:     "/",
			MaxAge:   int(ah.auth.TTL() / time.Second),
			HttpOnly: true,
			Secure:   ah.opts.SecureCookies,
			SameSite: http.SameSiteLaxMode,
		})
		ah.mylog.Action("login_completed").Info("User logged in", "request_id", requestID(r), "username", user.Username, "role", user.Role)
		jsonResponse(w, http.StatusOK, dto.LoginResponse{User: user})
	})
}

func (ah *AdminHandler) Logout() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		http.SetCookie(w, &http.Cookie{
			Name:     core.AuthCookie,
			Value:    "",
			Path:     "/",
			MaxAge:   -1,
			HttpOnly: true,
			Secure:   ah.opts.SecureCookies,
			SameSite: http.SameSiteLaxMode,
		})
		w.WriteHeader(http.StatusNoContent)
	}
}

// scopedStore authorizes the caller for {store_id} and loads the store.
func (ah *AdminHandler) scopedStore(w http.ResponseWriter, r *http.Request) (models.Store, bool) {
	storeID, err := pathID(r, "store_id")
	if err != nil {
		jsonError(w, http.StatusBadRequest, err)
		return models.Store{}, false
	}
	if !authorize(w, r, ah.mylog, services.RequireStoreAccess(storeID)) {
		return models.Store{}, false
	}
	store, err := ah.directory.GetByID(r.Context(), storeID)
	if err != nil {
		serviceError(w, ah.mylog, err)
		return models.Store{}, false
	}
	return store, true
}

func (ah *AdminHandler) Dashboard() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), core.WaitTime*time.Second)
		defer cancel()
		r = r.WithContext(ctx)

		store, ok := ah.scopedStore(w, r)
		if !ok {
			return
		}

		items, err := ah.catalog.AllItems(ctx, store.ID)
		if err != nil {
			serviceError(w, ah.mylog, err)
			return
		}
		jsonResponse(w, http.StatusOK, dto.Storefront{Store: store, Items: items})
	}
}

func (ah *AdminHandler) UpdateStore() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), core.WaitTime*time.Second)
		defer cancel()
		r = r.WithContext(ctx)

		store, ok := ah.scopedStore(w, r)
		if !ok {
			return
		}

		var req dto.UpdateStoreRequest
		if err := decodeJSON(r, &req); err != nil {
			jsonError(w, http.StatusBadRequest, err)
			return
		}

		updated, err := ah.directory.UpdateProfile(ctx, store.ID, req, *identity(r).User)
		if err != nil {
			serviceError(w, ah.mylog, err)
			return
		}
		jsonResponse(w, http.StatusOK, updated)
	}
}

// CreateItem accepts multipart/form-data with an optional "image" file, or a
// plain JSON body without image.
func (ah *AdminHandler) CreateItem() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), core.WaitTime*time.Second)
		defer cancel()
		r = r.WithContext(ctx)

		store, ok := ah.scopedStore(w, r)
		if !ok {
			return
		}

		var (
			req    dto.CreateItemRequest
			upload *dto.Upload
		)
		mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
		if mediaType == "multipart/form-data" {
			r.Body = http.MaxBytesReader(w, r.Body, ah.opts.MaxUploadBytes+1<<20)
			if err := r.ParseMultipartForm(ah.opts.MaxUploadBytes); err != nil {
				jsonError(w, http.StatusBadRequest, fmt.Errorf("failed to parse form: %v", err))
				return
			}
			defer r.MultipartForm.RemoveAll()

			req.Name = r.FormValue("name")
			req.Description = r.FormValue("description")
			price, err := strconv.ParseInt(r.FormValue("price"), 10, 64)
			if err != nil {
				jsonError(w, http.StatusBadRequest, errors.New("price must be an integer"))
				return
			}
			req.Price = price

			file, header, err := r.FormFile("image")
			switch {
			case errors.Is(err, http.ErrMissingFile):
			case err != nil:
				jsonError(w, http.StatusBadRequest, fmt.Errorf("failed to read image: %v", err))
				return
			default:
				defer file.Close()
				contentType, err := sniffContentType(file)
				if err != nil {
					jsonError(w, http.StatusBadRequest, fmt.Errorf("failed to read image: %v", err))
					return
				}
				upload = &dto.Upload{
					Filename:    header.Filename,
					ContentType: contentType,
					Size:        header.Size,
					Body:        file,
				}
			}
		} else if err := decodeJSON(r, &req); err != nil {
			jsonError(w, http.StatusBadRequest, err)
			return
		}

		item, err := ah.catalog.CreateItem(ctx, store.ID, req, upload)
		if err != nil {
			serviceError(w, ah.mylog, err)
			return
		}
		jsonResponse(w, http.StatusCreated, item)
	}
}

// sniffContentType detects the type from the first bytes and rewinds.
func sniffContentType(f io.ReadSeeker) (string, error) {
	buf := make([]byte, 512)
	n, err := io.ReadFull(f, buf)
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) && !errors.Is(err, io.EOF) {
		return "", err
	}
	if _, err := f.Seek(0, io.SeekStart); err != nil {
		return "", err
	}
	return http.DetectContentType(buf[:n]), nil
}

func (ah *AdminHandler) UpdateItem() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), core.WaitTime*time.Second)
		defer cancel()
		r = r.WithContext(ctx)

		store, ok := ah.scopedStore(w, r)
		if !ok {
			return
		}
		itemID, err := pathID(r, "item_id")
		if err != nil {
			jsonError(w, http.StatusBadRequest, err)
			return
		}

		var req dto.UpdateItemRequest
		if err := decodeJSON(r, &req); err != nil {
			jsonError(w, http.StatusBadRequest, err)
			return
		}

		item, err := ah.catalog.UpdateItem(ctx, store.ID, itemID, req)
		if err != nil {
			serviceError(w, ah.mylog, err)
			return
		}
		jsonResponse(w, http.StatusOK, item)
	}
}

func (ah *AdminHandler) Kitchen() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), core.WaitTime*time.Second)
		defer cancel()
		r = r.WithContext(ctx)

		store, ok := ah.scopedStore(w, r)
		if !ok {
			return
		}

		orders, err := ah.orders.KitchenQueue(ctx, store.ID)
		if err != nil {
			serviceError(w, ah.mylog, err)
			return
		}
		jsonResponse(w, http.StatusOK, orders)
	}
}

func (ah *AdminHandler) SetStatus() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), core.WaitTime*time.Second)
		defer cancel()
		r = r.WithContext(ctx)

		store, ok := ah.scopedStore(w, r)
		if !ok {
			return
		}
		orderID, err := pathID(r, "order_id")
		if err != nil {
			jsonError(w, http.StatusBadRequest, err)
			return
		}

		var req dto.StatusRequest
		if err := decodeJSON(r, &req); err != nil {
			jsonError(w, http.StatusBadRequest, err)
			return
		}

		order, err := ah.orders.SetStatus(ctx, store.ID, orderID, req.Status, identity(r).Actor())
		if err != nil {
			serviceError(w, ah.mylog, err)
			return
		}
		jsonResponse(w, http.StatusOK, order)
	}
}
