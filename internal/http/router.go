package httpapi

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/andreasstove999/ecommerce-system/checkout-service-go/internal/middleware"
)

type RouterConfig struct {
	JWTSecret        string
	CORSAllowOrigins []string
	Reporter         middleware.Reporter
}

func NewRouter(h *Handler, cfg RouterConfig, logger *zap.Logger) http.Handler {
	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(middleware.CorrelationID)
	r.Use(middleware.CORS(cfg.CORSAllowOrigins))
	r.Use(middleware.RequestLogger(logger.Named("access")))
	r.Use(middleware.Recover(logger, cfg.Reporter))

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, r, http.StatusNotFound, "Not found.")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, r, http.StatusMethodNotAllowed, "Method not allowed.")
	})

	r.Get("/health", h.Health)

	r.Route("/api", func(r chi.Router) {
		r.Use(middleware.AuthJWT(cfg.JWTSecret))

		r.Route("/cart", func(r chi.Router) {
			r.Get("/", h.GetCart)
			r.Post("/items", h.AddItem)
			r.Patch("/items/{itemId}", h.UpdateItem)
			r.Delete("/items/{itemId}", h.RemoveItem)
			r.Post("/apply-coupon", h.ApplyCoupon)
			r.Delete("/coupon", h.RemoveCoupon)
			r.Delete("/clear", h.ClearCart)
		})

		r.Route("/orders", func(r chi.Router) {
			r.Get("/", h.ListOrders)
			r.Post("/", h.CreateOrder)
			r.Get("/{orderId}", h.GetOrder)
			r.Post("/{orderId}/process", h.ProcessOrder)
		})
	})

	return r
}
