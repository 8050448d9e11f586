package rankapi

import (
	"context"
	"fmt"
)

type businessListResponse struct {
	Data []Business `json:"data"`
}

// ListBusinesses returns every business registered with the service.
func (c *Client) ListBusinesses(ctx context.Context) ([]Business, error) {
	var resp businessListResponse
	if err := c.get(ctx, "/businesses", &resp); err != nil {
		return nil, fmt.Errorf("failed to list businesses: %w", err)
	}
	return resp.Data, nil
}
