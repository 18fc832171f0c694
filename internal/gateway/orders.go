package gateway

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"restaurant-dashboard/internal/domain"
)

func (c *Client) FetchOrders(ctx context.Context) ([]domain.Order, error) {
	return getList[domain.Order](ctx, c, c.tenantPath("Order"))
}

func (c *Client) FetchOrder(ctx context.Context, id domain.ID) (domain.Order, error) {
	var o domain.Order
	b, err := c.do(ctx, http.MethodGet, c.tenantPath("Order", id.String()), nil)
	if err != nil {
		return o, err
	}
	if err := json.Unmarshal(unwrap(b, "order", "data"), &o); err != nil {
		return o, fmt.Errorf("decode order %s: %w", id, err)
	}
	return o, nil
}

// UpdateOrderStatus sends only the patched flags. The returned order is nil
// when the backend does not echo the updated record.
func (c *Client) UpdateOrderStatus(ctx context.Context, id domain.ID, patch domain.StatusPatch) (*domain.Order, error) {
	b, err := c.do(ctx, http.MethodPut, c.tenantPath("Order", id.String()), patch)
	if err != nil {
		return nil, err
	}
	var o domain.Order
	if err := json.Unmarshal(unwrap(b, "order", "data"), &o); err != nil || o.ID == "" {
		return nil, nil
	}
	return &o, nil
}

func (c *Client) DeleteOrder(ctx context.Context, id domain.ID) error {
	return c.doJSON(ctx, http.MethodDelete, c.tenantPath("Order", id.String()), nil, nil)
}
