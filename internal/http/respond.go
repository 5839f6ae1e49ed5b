package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"go.uber.org/zap"

	"github.com/andreasstove999/ecommerce-system/checkout-service-go/internal/cart"
	"github.com/andreasstove999/ecommerce-system/checkout-service-go/internal/coupon"
	"github.com/andreasstove999/ecommerce-system/checkout-service-go/internal/middleware"
	"github.com/andreasstove999/ecommerce-system/checkout-service-go/internal/model"
	"github.com/andreasstove999/ecommerce-system/checkout-service-go/internal/order"
	"github.com/andreasstove999/ecommerce-system/checkout-service-go/internal/validation"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, r *http.Request, status int, detail string) {
	writeJSON(w, status, model.ErrorResponse{
		Detail:        detail,
		CorrelationID: middleware.GetCorrelationID(r.Context()),
	})
}

func decodeJSON(w http.ResponseWriter, r *http.Request, v any) error {
	return json.NewDecoder(http.MaxBytesReader(w, r.Body, 1<<20)).Decode(v)
}

// writeServiceError maps domain errors to statuses. Anything unknown is
// logged and reported as a 500 without leaking the cause.
func writeServiceError(w http.ResponseWriter, r *http.Request, logger *zap.Logger, err error, fallback string) {
	var (
		verr  *validation.Error
		cperr *coupon.ValidationError
	)
	switch {
	case errors.As(err, &verr):
		writeJSON(w, http.StatusUnprocessableEntity, model.ErrorResponse{
			Detail:        verr.Error(),
			CorrelationID: middleware.GetCorrelationID(r.Context()),
			Fields:        verr.Fields,
		})
	case errors.As(err, &cperr):
		writeError(w, r, http.StatusBadRequest, cperr.Message)
	case errors.Is(err, cart.ErrCouponRequired):
		writeError(w, r, http.StatusBadRequest, "Coupon code is required")
	case errors.Is(err, cart.ErrItemNotFound):
		writeError(w, r, http.StatusNotFound, "Cart item not found")
	case errors.Is(err, order.ErrOrderNotFound):
		writeError(w, r, http.StatusNotFound, "Order not found")
	case errors.Is(err, order.ErrEmptyCart):
		writeError(w, r, http.StatusConflict, "Your cart is empty")
	case errors.Is(err, order.ErrCartMismatch):
		writeError(w, r, http.StatusConflict, "Your cart has changed. Please review it and try again.")
	case errors.Is(err, order.ErrInvalidTransition):
		writeError(w, r, http.StatusConflict, "Order cannot be processed in its current state")
	case errors.Is(err, context.DeadlineExceeded):
		writeError(w, r, http.StatusGatewayTimeout, "Request timed out")
	default:
		logger.Error(fallback,
			zap.Error(err),
			zap.String("path", r.URL.Path),
			zap.String("correlation_id", middleware.GetCorrelationID(r.Context())),
		)
		writeError(w, r, http.StatusInternalServerError, fallback)
	}
}
