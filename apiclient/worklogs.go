package apiclient

import (
	"context"
	"fieldops/domain"
	"fmt"
	"net/http"
)

// ListWorkLogs fetches the bitácora of one order, in the order the API
// returns it.
func (c *Client) ListWorkLogs(ctx context.Context, orderID int64) ([]domain.Avance, error) {
	entries := []domain.Avance{}
	if err := c.doJSON(ctx, http.MethodGet, fmt.Sprintf("/avances/?orden=%d", orderID), nil, &entries); err != nil {
		return nil, err
	}
	return entries, nil
}

// AppendWorkLog posts one entry (text plus photos) as multipart.
func (c *Client) AppendWorkLog(ctx context.Context, form *Form) (*domain.Avance, error) {
	entry := domain.Avance{}
	if err := c.doMultipart(ctx, http.MethodPost, "/avances/", form, &entry); err != nil {
		return nil, err
	}
	return &entry, nil
}
