package clients

import (
	"context"
	"net/http"

	"github.com/andreasstove999/ecommerce-system/checkout-service-go/internal/order"
)

type OrderClient struct{ c *Client }

func NewOrderClient(c *Client) *OrderClient { return &OrderClient{c: c} }

func (oc *OrderClient) Create(ctx context.Context, in order.CreateInput) (order.Order, error) {
	var o order.Order
	err := oc.c.Do(ctx, http.MethodPost, "/orders", in, &o)
	return o, err
}

func (oc *OrderClient) Process(ctx context.Context, orderID string) (order.Order, error) {
	id, err := pathID(orderID)
	if err != nil {
		return order.Order{}, err
	}
	var o order.Order
	err = oc.c.Do(ctx, http.MethodPost, "/orders/"+id+"/process", nil, &o)
	return o, err
}

func (oc *OrderClient) Get(ctx context.Context, orderID string) (order.Order, error) {
	id, err := pathID(orderID)
	if err != nil {
		return order.Order{}, err
	}
	var o order.Order
	err = oc.c.Do(ctx, http.MethodGet, "/orders/"+id, nil, &o)
	return o, err
}

func (oc *OrderClient) List(ctx context.Context) ([]order.Order, error) {
	var orders []order.Order
	err := oc.c.Do(ctx, http.MethodGet, "/orders", nil, &orders)
	return orders, err
}
