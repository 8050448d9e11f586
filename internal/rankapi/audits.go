package rankapi

import (
	"context"
	"fmt"
	"net/url"
)

type auditResponse struct {
	Data Audit `json:"data"`
}

// SubmitAudit queues a website audit for siteURL and returns the accepted job
// with its id and initial status.
func (c *Client) SubmitAudit(ctx context.Context, siteURL string) (*Audit, error) {
	if siteURL == "" {
		return nil, fmt.Errorf("rankapi: audit url is required")
	}
	body := struct {
		URL string `json:"url"`
	}{URL: siteURL}

	var resp auditResponse
	if err := c.post(ctx, "/audits", body, &resp); err != nil {
		return nil, fmt.Errorf("failed to submit audit: %w", err)
	}
	return &resp.Data, nil
}

// GetAudit fetches an audit by id. Score and issues are present once the
// audit has completed.
func (c *Client) GetAudit(ctx context.Context, id string) (*Audit, error) {
	if id == "" {
		return nil, fmt.Errorf("rankapi: audit id is required")
	}
	var resp auditResponse
	if err := c.get(ctx, "/audits/"+url.PathEscape(id), &resp); err != nil {
		return nil, fmt.Errorf("failed to get audit %s: %w", id, err)
	}
	return &resp.Data, nil
}
