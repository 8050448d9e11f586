package rankapi

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
)

// listPageSize is the per_page value used when walking the full listing.
const listPageSize = 100

type scanListResponse struct {
	Data []Scan   `json:"data"`
	Meta PageMeta `json:"meta"`
}

type scanResponse struct {
	Data Scan `json:"data"`
}

// ListScans fetches one page of scan summaries, newest first. Summaries carry
// business, avg_rank, created_at, keywords, and share token but no per-keyword
// results.
func (c *Client) ListScans(ctx context.Context, page, perPage int) (*ScanPage, error) {
	if page < 1 {
		page = 1
	}
	if perPage < 1 {
		perPage = listPageSize
	}
	q := url.Values{}
	q.Set("page", strconv.Itoa(page))
	q.Set("per_page", strconv.Itoa(perPage))

	var resp scanListResponse
	if err := c.get(ctx, "/scans?"+q.Encode(), &resp); err != nil {
		return nil, fmt.Errorf("failed to list scans: %w", err)
	}
	return &ScanPage{Scans: resp.Data, Meta: resp.Meta}, nil
}

// AllScans walks the scan listing until the service reports no more pages and
// returns every summary in listing order.
func (c *Client) AllScans(ctx context.Context) ([]Scan, error) {
	var all []Scan
	for page := 1; ; page++ {
		p, err := c.ListScans(ctx, page, listPageSize)
		if err != nil {
			return nil, err
		}
		all = append(all, p.Scans...)
		if !p.Meta.HasMore || len(p.Scans) == 0 {
			break
		}
	}
	return all, nil
}

// GetScan fetches the full detail for one scan, including keyword results.
func (c *Client) GetScan(ctx context.Context, scanUUID string) (*Scan, error) {
	if scanUUID == "" {
		return nil, fmt.Errorf("rankapi: scan uuid is required")
	}
	var resp scanResponse
	if err := c.get(ctx, "/scans/"+url.PathEscape(scanUUID), &resp); err != nil {
		return nil, fmt.Errorf("failed to get scan %s: %w", scanUUID, err)
	}
	return &resp.Data, nil
}
