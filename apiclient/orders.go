package apiclient

import (
	"context"
	"fieldops/domain"
	"fmt"
	"io"
	"net/http"
)

// ListOrders fetches the whole order collection. The API offers no
// pagination; every list, dashboard and calendar view derives from this set.
func (c *Client) ListOrders(ctx context.Context) ([]domain.Order, error) {
	orders := []domain.Order{}
	if err := c.doJSON(ctx, http.MethodGet, "/ordenes/", nil, &orders); err != nil {
		return nil, err
	}
	return orders, nil
}

func (c *Client) GetOrder(ctx context.Context, id int64) (*domain.Order, error) {
	order := domain.Order{}
	if err := c.doJSON(ctx, http.MethodGet, fmt.Sprintf("/ordenes/%d/", id), nil, &order); err != nil {
		return nil, err
	}
	return &order, nil
}

// CreateOrder submits the multipart creation form, optional reference photo
// included.
func (c *Client) CreateOrder(ctx context.Context, form *Form) (*domain.Order, error) {
	order := domain.Order{}
	if err := c.doMultipart(ctx, http.MethodPost, "/ordenes/", form, &order); err != nil {
		return nil, err
	}
	return &order, nil
}

// PatchOrder partially updates one order. Lifecycle transitions send the
// target status id (and fecha_fin on finalization) through here.
func (c *Client) PatchOrder(ctx context.Context, id int64, fields map[string]interface{}) (*domain.Order, error) {
	order := domain.Order{}
	if err := c.doJSON(ctx, http.MethodPatch, fmt.Sprintf("/ordenes/%d/", id), fields, &order); err != nil {
		return nil, err
	}
	return &order, nil
}

// OrderPDF streams the rendered service-report document. The caller closes
// the reader.
func (c *Client) OrderPDF(ctx context.Context, id int64) (io.ReadCloser, string, error) {
	return c.stream(ctx, fmt.Sprintf("/ordenes/%d/pdf/", id))
}
