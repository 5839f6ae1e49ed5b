package httpapi

import (
	"net/http"

	"github.com/andreasstove999/ecommerce-system/checkout-service-go/internal/middleware"
	"github.com/andreasstove999/ecommerce-system/checkout-service-go/internal/order"
	"github.com/andreasstove999/ecommerce-system/checkout-service-go/internal/validation"
)

func requiredField(name string) error {
	return &validation.Error{Fields: map[string]string{name: name + " is required"}}
}

func (h *Handler) CreateOrder(w http.ResponseWriter, r *http.Request) {
	var body order.CreateInput
	if err := decodeJSON(w, r, &body); err != nil {
		writeError(w, r, http.StatusBadRequest, "invalid json")
		return
	}

	ctx, cancel := h.context(r)
	defer cancel()

	o, err := h.orders.Create(ctx, middleware.GetUserID(ctx), body)
	if err != nil {
		writeServiceError(w, r, h.logger, err, "failed to create order")
		return
	}
	writeJSON(w, http.StatusCreated, o)
}

func (h *Handler) ListOrders(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := h.context(r)
	defer cancel()

	orders, err := h.orders.List(ctx, middleware.GetUserID(ctx))
	if err != nil {
		writeServiceError(w, r, h.logger, err, "failed to load orders")
		return
	}
	writeJSON(w, http.StatusOK, orders)
}

func (h *Handler) GetOrder(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := h.context(r)
	defer cancel()

	o, err := h.orders.Get(ctx, middleware.GetUserID(ctx), pathParam(r, "orderId"))
	if err != nil {
		writeServiceError(w, r, h.logger, err, "failed to load order")
		return
	}
	writeJSON(w, http.StatusOK, o)
}

func (h *Handler) ProcessOrder(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := h.context(r)
	defer cancel()

	o, err := h.orders.Process(ctx, middleware.GetUserID(ctx), pathParam(r, "orderId"))
	if err != nil {
		writeServiceError(w, r, h.logger, err, "Failed to process order")
		return
	}
	writeJSON(w, http.StatusOK, o)
}
