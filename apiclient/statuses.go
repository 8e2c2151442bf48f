package apiclient

import (
	"context"
	"fieldops/domain/status"
	"net/http"
)

// FetchStatusCatalog fetches `estados/` and maps it into the closed variant
// right at the boundary.
func (c *Client) FetchStatusCatalog(ctx context.Context) (status.Catalog, error) {
	estados := []status.Estado{}
	if err := c.doJSON(ctx, http.MethodGet, "/estados/", nil, &estados); err != nil {
		return status.Catalog{}, err
	}
	return status.NewCatalog(estados), nil
}
