package httpapi

import (
	"net/http"

	"github.com/andreasstove999/ecommerce-system/checkout-service-go/internal/cart"
	"github.com/andreasstove999/ecommerce-system/checkout-service-go/internal/middleware"
)

func (h *Handler) GetCart(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := h.context(r)
	defer cancel()

	sum, err := h.carts.Summary(ctx, middleware.GetUserID(ctx))
	if err != nil {
		writeServiceError(w, r, h.logger, err, "failed to load cart")
		return
	}
	writeJSON(w, http.StatusOK, sum)
}

func (h *Handler) AddItem(w http.ResponseWriter, r *http.Request) {
	var body cart.AddItemInput
	if err := decodeJSON(w, r, &body); err != nil {
		writeError(w, r, http.StatusBadRequest, "invalid json")
		return
	}
	if body.Quantity == 0 {
		body.Quantity = 1
	}

	ctx, cancel := h.context(r)
	defer cancel()
	userID := middleware.GetUserID(ctx)

	if err := h.carts.AddItem(ctx, userID, body); err != nil {
		writeServiceError(w, r, h.logger, err, "failed to add item")
		return
	}
	sum, err := h.carts.Summary(ctx, userID)
	if err != nil {
		writeServiceError(w, r, h.logger, err, "failed to load cart")
		return
	}
	writeJSON(w, http.StatusCreated, sum)
}

func (h *Handler) UpdateItem(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Quantity *int `json:"quantity"`
	}
	if err := decodeJSON(w, r, &body); err != nil {
		writeError(w, r, http.StatusBadRequest, "invalid json")
		return
	}
	if body.Quantity == nil {
		writeServiceError(w, r, h.logger, requiredField("quantity"), "")
		return
	}

	ctx, cancel := h.context(r)
	defer cancel()

	if err := h.carts.UpdateQuantity(ctx, middleware.GetUserID(ctx), pathParam(r, "itemId"), *body.Quantity); err != nil {
		writeServiceError(w, r, h.logger, err, "failed to update item")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := h.context(r)
	defer cancel()

	if err := h.carts.RemoveItem(ctx, middleware.GetUserID(ctx), pathParam(r, "itemId")); err != nil {
		writeServiceError(w, r, h.logger, err, "failed to remove item")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) ClearCart(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := h.context(r)
	defer cancel()

	if err := h.carts.Clear(ctx, middleware.GetUserID(ctx)); err != nil {
		writeServiceError(w, r, h.logger, err, "failed to clear cart")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) ApplyCoupon(w http.ResponseWriter, r *http.Request) {
	var body struct {
		CouponCode string `json:"coupon_code"`
	}
	if err := decodeJSON(w, r, &body); err != nil {
		writeError(w, r, http.StatusBadRequest, "invalid json")
		return
	}

	ctx, cancel := h.context(r)
	defer cancel()

	if err := h.carts.ApplyCoupon(ctx, middleware.GetUserID(ctx), body.CouponCode); err != nil {
		writeServiceError(w, r, h.logger, err, "failed to apply coupon")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"detail": "Coupon applied"})
}

func (h *Handler) RemoveCoupon(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := h.context(r)
	defer cancel()

	if err := h.carts.RemoveCoupon(ctx, middleware.GetUserID(ctx)); err != nil {
		writeServiceError(w, r, h.logger, err, "failed to remove coupon")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
