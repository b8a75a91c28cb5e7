package githubapi

import (
	"context"
	"encoding/json"
)

// SearchOptions are shared by the search endpoints.
type SearchOptions struct {
	Sort    string
	Order   string
	Page    int
	PerPage int
}

func (c *Client) search(ctx context.Context, kind, query string, opts SearchOptions) (json.RawMessage, error) {
	return c.get(ctx, "/search/"+kind, Params{
		"q":        query,
		"sort":     opts.Sort,
		"order":    opts.Order,
		"page":     opts.Page,
		"per_page": opts.PerPage,
	}, ShapeSearchResult)
}

// SearchCode searches file contents.
func (c *Client) SearchCode(ctx context.Context, query string, opts SearchOptions) (json.RawMessage, error) {
	return c.search(ctx, "code", query, opts)
}

// SearchIssues searches issues and pull requests.
func (c *Client) SearchIssues(ctx context.Context, query string, opts SearchOptions) (json.RawMessage, error) {
	return c.search(ctx, "issues", query, opts)
}

// SearchUsers searches users.
func (c *Client) SearchUsers(ctx context.Context, query string, opts SearchOptions) (json.RawMessage, error) {
	return c.search(ctx, "users", query, opts)
}
