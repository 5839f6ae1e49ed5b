package httpapi

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/andreasstove999/ecommerce-system/checkout-service-go/internal/cart"
	"github.com/andreasstove999/ecommerce-system/checkout-service-go/internal/order"
)

type CartService interface {
	Summary(ctx context.Context, userID string) (cart.Summary, error)
	AddItem(ctx context.Context, userID string, in cart.AddItemInput) error
	UpdateQuantity(ctx context.Context, userID, itemID string, quantity int) error
	RemoveItem(ctx context.Context, userID, itemID string) error
	Clear(ctx context.Context, userID string) error
	ApplyCoupon(ctx context.Context, userID, code string) error
	RemoveCoupon(ctx context.Context, userID string) error
}

type OrderService interface {
	Create(ctx context.Context, userID string, in order.CreateInput) (*order.Order, error)
	Process(ctx context.Context, userID, orderID string) (*order.Order, error)
	Get(ctx context.Context, userID, orderID string) (*order.Order, error)
	List(ctx context.Context, userID string) ([]order.Order, error)
}

type Handler struct {
	carts   CartService
	orders  OrderService
	logger  *zap.Logger
	timeout time.Duration
}

func NewHandler(carts CartService, orders OrderService, logger *zap.Logger, timeout time.Duration) *Handler {
	if timeout <= 0 {
		timeout = 3 * time.Second
	}
	return &Handler{carts: carts, orders: orders, logger: logger.Named("http"), timeout: timeout}
}

func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok", "service": "checkout-service"})
}

func (h *Handler) context(r *http.Request) (context.Context, context.CancelFunc) {
	return context.WithTimeout(r.Context(), h.timeout)
}

func pathParam(r *http.Request, name string) string {
	return strings.TrimSpace(chi.URLParam(r, name))
}
