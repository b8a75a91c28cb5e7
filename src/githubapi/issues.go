package githubapi

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
)

// IssueRequest is the body for creating or updating an issue. Nil and empty
// fields are left out so updates only touch what was given.
type IssueRequest struct {
	Title     string   `json:"title,omitempty"`
	Body      string   `json:"body,omitempty"`
	State     string   `json:"state,omitempty"`
	Assignees []string `json:"assignees,omitempty"`
	Labels    []string `json:"labels,omitempty"`
	Milestone *int     `json:"milestone,omitempty"`
}

// ListIssuesOptions filters issue listings.
type ListIssuesOptions struct {
	State     string
	Labels    []string
	Sort      string
	Direction string
	Since     string
	Page      int
	PerPage   int
}

func issuePath(owner, repo string, number int) string {
	return repoPath(owner, repo) + "/issues/" + strconv.Itoa(number)
}

// CreateIssue opens a new issue.
func (c *Client) CreateIssue(ctx context.Context, owner, repo string, req IssueRequest) (json.RawMessage, error) {
	return c.send(ctx, http.MethodPost, repoPath(owner, repo)+"/issues", req, ShapeIssue)
}

// GetIssue fetches one issue.
func (c *Client) GetIssue(ctx context.Context, owner, repo string, number int) (json.RawMessage, error) {
	return c.get(ctx, issuePath(owner, repo, number), nil, ShapeIssue)
}

// ListIssues lists issues in a repository.
func (c *Client) ListIssues(ctx context.Context, owner, repo string, opts ListIssuesOptions) (json.RawMessage, error) {
	return c.get(ctx, repoPath(owner, repo)+"/issues", Params{
		"state":     opts.State,
		"labels":    opts.Labels,
		"sort":      opts.Sort,
		"direction": opts.Direction,
		"since":     opts.Since,
		"page":      opts.Page,
		"per_page":  opts.PerPage,
	}, ShapeIssueList)
}

// UpdateIssue edits an existing issue.
func (c *Client) UpdateIssue(ctx context.Context, owner, repo string, number int, req IssueRequest) (json.RawMessage, error) {
	return c.send(ctx, http.MethodPatch, issuePath(owner, repo, number), req, ShapeIssue)
}

// AddIssueComment comments on an issue or pull request.
func (c *Client) AddIssueComment(ctx context.Context, owner, repo string, number int, body string) (json.RawMessage, error) {
	return c.send(ctx, http.MethodPost, issuePath(owner, repo, number)+"/comments", map[string]string{"body": body}, ShapeComment)
}
