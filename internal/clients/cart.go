package clients

import (
	"context"
	"net/http"

	"github.com/andreasstove999/ecommerce-system/checkout-service-go/internal/cart"
)

type CartClient struct{ c *Client }

func NewCartClient(c *Client) *CartClient { return &CartClient{c: c} }

func (cc *CartClient) Get(ctx context.Context) (cart.Summary, error) {
	var sum cart.Summary
	err := cc.c.Do(ctx, http.MethodGet, "/cart", nil, &sum)
	return sum, err
}

func (cc *CartClient) AddItem(ctx context.Context, in cart.AddItemInput) (cart.Summary, error) {
	var sum cart.Summary
	err := cc.c.Do(ctx, http.MethodPost, "/cart/items", in, &sum)
	return sum, err
}

func (cc *CartClient) UpdateQuantity(ctx context.Context, itemID string, quantity int) error {
	id, err := pathID(itemID)
	if err != nil {
		return err
	}
	body := map[string]int{"quantity": quantity}
	return cc.c.Do(ctx, http.MethodPatch, "/cart/items/"+id, body, nil)
}

func (cc *CartClient) RemoveItem(ctx context.Context, itemID string) error {
	id, err := pathID(itemID)
	if err != nil {
		return err
	}
	return cc.c.Do(ctx, http.MethodDelete, "/cart/items/"+id, nil, nil)
}

func (cc *CartClient) Clear(ctx context.Context) error {
	return cc.c.Do(ctx, http.MethodDelete, "/cart/clear", nil, nil)
}

func (cc *CartClient) ApplyCoupon(ctx context.Context, code string) error {
	body := map[string]string{"coupon_code": code}
	return cc.c.Do(ctx, http.MethodPost, "/cart/apply-coupon", body, nil)
}

func (cc *CartClient) RemoveCoupon(ctx context.Context) error {
	return cc.c.Do(ctx, http.MethodDelete, "/cart/coupon", nil, nil)
}
