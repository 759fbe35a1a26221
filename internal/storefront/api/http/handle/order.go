package handle

import (
	"context"
	"errors"
	"net/http"
	"time"

	"food-ordering/internal/storefront/app/core"
	"food-ordering/internal/storefront/app/services"
	"food-ordering/internal/storefront/domain/dto"
	"food-ordering/internal/xpkg/logger"
)

// OrderHandler serves the customer side of the order ledger.
type OrderHandler struct {
	directory *services.DirectoryService
	orders    *services.OrderService
	mylog     logger.Logger
}

func NewOrderHandler(directory *services.DirectoryService, orders *services.OrderService, mylog logger.Logger) *OrderHandler {
	return &OrderHandler{
		directory: directory,
		orders:    orders,
		mylog:     mylog,
	}
}

func (oh *OrderHandler) History() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), core.WaitTime*time.Second)
		defer cancel()
		r = r.WithContext(ctx)

		store, ok := resolveStore(w, r, oh.directory, oh.mylog)
		if !ok {
			return
		}

		orders, err := oh.orders.CustomerHistory(ctx, store.ID, identity(r).SessionID)
		if err != nil {
			serviceError(w, oh.mylog, err)
			return
		}
		jsonResponse(w, http.StatusOK, orders)
	}
}

func (oh *OrderHandler) Payment() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), core.WaitTime*time.Second)
		defer cancel()
		r = r.WithContext(ctx)

		store, ok := resolveStore(w, r, oh.directory, oh.mylog)
		if !ok {
			return
		}
		orderID, err := pathID(r, "order_id")
		if err != nil {
			jsonError(w, http.StatusBadRequest, err)
			return
		}

		view, err := oh.orders.Payment(ctx, store, orderID)
		if err != nil {
			serviceError(w, oh.mylog, err)
			return
		}
		jsonResponse(w, http.StatusOK, view)
	}
}

func (oh *OrderHandler) ConfirmPayment() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), core.WaitTime*time.Second)
		defer cancel()
		r = r.WithContext(ctx)

		store, ok := resolveStore(w, r, oh.directory, oh.mylog)
		if !ok {
			return
		}
		orderID, err := pathID(r, "order_id")
		if err != nil {
			jsonError(w, http.StatusBadRequest, err)
			return
		}

		var req dto.ConfirmPaymentRequest
		if err := decodeJSON(r, &req); err != nil && !errors.Is(err, errEmptyBody) {
			jsonError(w, http.StatusBadRequest, err)
			return
		}

		order, err := oh.orders.ConfirmPayment(ctx, store.ID, orderID, req.CustomerName, identity(r).Actor())
		if err != nil {
			serviceError(w, oh.mylog, err)
			return
		}
		jsonResponse(w, http.StatusOK, order)
	}
}

func (oh *OrderHandler) StatusLog() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), core.WaitTime*time.Second)
		defer cancel()
		r = r.WithContext(ctx)

		store, ok := resolveStore(w, r, oh.directory, oh.mylog)
		if !ok {
			return
		}
		orderID, err := pathID(r, "order_id")
		if err != nil {
			jsonError(w, http.StatusBadRequest, err)
			return
		}

		logs, err := oh.orders.StatusLog(ctx, store.ID, orderID)
		if err != nil {
			serviceError(w, oh.mylog, err)
			return
		}
		jsonResponse(w, http.StatusOK, logs)
	}
}
