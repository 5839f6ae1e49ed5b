package events

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/andreasstove999/ecommerce-system/checkout-service-go/internal/order"
)

type OrderItem struct {
	CourseID *string         `json:"courseId,omitempty"`
	BundleID *string         `json:"bundleId,omitempty"`
	Title    string          `json:"title"`
	Quantity int             `json:"quantity"`
	Total    decimal.Decimal `json:"total"`
}

// OrderPayload is shared by the order.created, order.processed and
// order.confirmed events.
type OrderPayload struct {
	OrderID     string          `json:"orderId"`
	OrderNumber string          `json:"orderNumber"`
	UserID      string          `json:"userId"`
	CartID      string          `json:"cartId"`
	Status      string          `json:"status"`
	CouponCode  string          `json:"couponCode,omitempty"`
	Items       []OrderItem     `json:"items"`
	Discount    decimal.Decimal `json:"discount"`
	Tax         decimal.Decimal `json:"tax"`
	Total       decimal.Decimal `json:"total"`
	Currency    string          `json:"currency"`
	Timestamp   time.Time       `json:"timestamp"`
}

func newOrderPayload(o order.Order, at time.Time) OrderPayload {
	p := OrderPayload{
		OrderID:     o.ID,
		OrderNumber: o.OrderNumber,
		UserID:      o.UserID,
		CartID:      o.CartID,
		Status:      string(o.Status),
		CouponCode:  o.CouponCode,
		Items:       make([]OrderItem, 0, len(o.Items)),
		Discount:    o.DiscountAmount,
		Tax:         o.TaxAmount,
		Total:       o.Total,
		Currency:    o.Currency,
		Timestamp:   at,
	}
	for _, it := range o.Items {
		p.Items = append(p.Items, OrderItem{
			CourseID: it.CourseID,
			BundleID: it.BundleID,
			Title:    it.Title,
			Quantity: it.Quantity,
			Total:    it.Total,
		})
	}
	return p
}

func schemaFor(routingKey string) string {
	return "contracts/events/" + routingKey + ".schema.json"
}
