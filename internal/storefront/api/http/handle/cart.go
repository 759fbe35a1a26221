package handle

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"food-ordering/internal/storefront/app/core"
	"food-ordering/internal/storefront/app/services"
	"food-ordering/internal/storefront/domain/dto"
	"food-ordering/internal/xpkg/logger"
)

type CartHandler struct {
	directory *services.DirectoryService
	cart      *services.CartService
	orders    *services.OrderService
	mylog     logger.Logger
}

func NewCartHandler(directory *services.DirectoryService, cart *services.CartService, orders *services.OrderService, mylog logger.Logger) *CartHandler {
	return &CartHandler{
		directory: directory,
		cart:      cart,
		orders:    orders,
		mylog:     mylog,
	}
}

func (ch *CartHandler) View() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), core.WaitTime*time.Second)
		defer cancel()
		r = r.WithContext(ctx)

		store, ok := resolveStore(w, r, ch.directory, ch.mylog)
		if !ok {
			return
		}

		view, err := ch.cart.View(ctx, identity(r).SessionID, store.ID)
		if err != nil {
			serviceError(w, ch.mylog, err)
			return
		}
		jsonResponse(w, http.StatusOK, view)
	}
}

func (ch *CartHandler) Add() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), core.WaitTime*time.Second)
		defer cancel()
		r = r.WithContext(ctx)

		store, ok := resolveStore(w, r, ch.directory, ch.mylog)
		if !ok {
			return
		}

		var req dto.AddCartItemRequest
		if err := decodeJSON(r, &req); err != nil {
			jsonError(w, http.StatusBadRequest, err)
			return
		}

		sessionID := identity(r).SessionID
		if _, err := ch.cart.Add(ctx, sessionID, store.ID, req.ItemID, req.Quantity); err != nil {
			serviceError(w, ch.mylog, err)
			return
		}

		view, err := ch.cart.View(ctx, sessionID, store.ID)
		if err != nil {
			serviceError(w, ch.mylog, err)
			return
		}
		jsonResponse(w, http.StatusOK, view)
	}
}

func (ch *CartHandler) Remove() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), core.WaitTime*time.Second)
		defer cancel()
		r = r.WithContext(ctx)

		store, ok := resolveStore(w, r, ch.directory, ch.mylog)
		if !ok {
			return
		}

		itemID, err := pathID(r, "item_id")
		if err != nil {
			jsonError(w, http.StatusBadRequest, err)
			return
		}

		sessionID := identity(r).SessionID
		if _, err := ch.cart.Remove(ctx, sessionID, store.ID, itemID); err != nil {
			serviceError(w, ch.mylog, err)
			return
		}

		view, err := ch.cart.View(ctx, sessionID, store.ID)
		if err != nil {
			serviceError(w, ch.mylog, err)
			return
		}
		jsonResponse(w, http.StatusOK, view)
	}
}

func (ch *CartHandler) Checkout() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), core.WaitTime*time.Second)
		defer cancel()
		r = r.WithContext(ctx)

		store, ok := resolveStore(w, r, ch.directory, ch.mylog)
		if !ok {
			return
		}

		order, err := ch.orders.PlaceOrder(ctx, store, identity(r).SessionID)
		if err != nil {
			serviceError(w, ch.mylog, err)
			return
		}
		ch.mylog.Action("checkout_completed").Info("Order placed", "request_id", requestID(r), "order_number", order.OrderNumber)
		jsonResponse(w, http.StatusCreated, order)
	}
}

func pathID(r *http.Request, name string) (int64, error) {
	id, err := strconv.ParseInt(r.PathValue(name), 10, 64)
	if err != nil || id <= 0 {
		return 0, errors.New("invalid " + name)
	}
	return id, nil
}
