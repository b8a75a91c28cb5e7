package githubapi

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"strconv"
)

// NewPullRequest is the body of POST /repos/{owner}/{repo}/pulls.
type NewPullRequest struct {
	Title               string `json:"title"`
	Head                string `json:"head"`
	Base                string `json:"base"`
	Body                string `json:"body,omitempty"`
	Draft               bool   `json:"draft,omitempty"`
	MaintainerCanModify *bool  `json:"maintainer_can_modify,omitempty"`
}

// ListPullRequestsOptions filters pull request listings.
type ListPullRequestsOptions struct {
	State     string
	Head      string
	Base      string
	Sort      string
	Direction string
	Page      int
	PerPage   int
}

// MergeOptions is the body of PUT /pulls/{number}/merge.
type MergeOptions struct {
	CommitTitle   string `json:"commit_title,omitempty"`
	CommitMessage string `json:"commit_message,omitempty"`
	MergeMethod   string `json:"merge_method,omitempty"`
}

// ReviewComment is an inline comment attached to a new review.
type ReviewComment struct {
	Path string `json:"path"`
	Body string `json:"body"`
	Line int    `json:"line,omitempty"`
	Side string `json:"side,omitempty"`
}

// NewReview is the body of POST /pulls/{number}/reviews.
type NewReview struct {
	Body     string          `json:"body,omitempty"`
	Event    string          `json:"event"`
	CommitID string          `json:"commit_id,omitempty"`
	Comments []ReviewComment `json:"comments,omitempty"`
}

type pullHead struct {
	Head struct {
		SHA string `json:"sha"`
	} `json:"head"`
}

func pullPath(owner, repo string, number int) string {
	return repoPath(owner, repo) + "/pulls/" + strconv.Itoa(number)
}

// CreatePullRequest opens a pull request.
func (c *Client) CreatePullRequest(ctx context.Context, owner, repo string, pr NewPullRequest) (json.RawMessage, error) {
	return c.send(ctx, http.MethodPost, repoPath(owner, repo)+"/pulls", pr, ShapePullRequest)
}

// GetPullRequest fetches one pull request.
func (c *Client) GetPullRequest(ctx context.Context, owner, repo string, number int) (json.RawMessage, error) {
	return c.get(ctx, pullPath(owner, repo, number), nil, ShapePullRequest)
}

// ListPullRequests lists pull requests in a repository.
func (c *Client) ListPullRequests(ctx context.Context, owner, repo string, opts ListPullRequestsOptions) (json.RawMessage, error) {
	return c.get(ctx, repoPath(owner, repo)+"/pulls", Params{
		"state":     opts.State,
		"head":      opts.Head,
		"base":      opts.Base,
		"sort":      opts.Sort,
		"direction": opts.Direction,
		"page":      opts.Page,
		"per_page":  opts.PerPage,
	}, ShapePullRequestList)
}

// MergePullRequest merges a pull request.
func (c *Client) MergePullRequest(ctx context.Context, owner, repo string, number int, opts MergeOptions) (json.RawMessage, error) {
	return c.send(ctx, http.MethodPut, pullPath(owner, repo, number)+"/merge", opts, ShapeMergeResult)
}

// GetPullRequestFiles lists the files changed by a pull request.
func (c *Client) GetPullRequestFiles(ctx context.Context, owner, repo string, number int) (json.RawMessage, error) {
	return c.get(ctx, pullPath(owner, repo, number)+"/files", nil, ShapePullRequestFiles)
}

// GetPullRequestStatus returns the combined commit status of the pull
// request's head commit.
func (c *Client) GetPullRequestStatus(ctx context.Context, owner, repo string, number int) (json.RawMessage, error) {
	var pr pullHead
	if err := c.do(ctx, http.MethodGet, pullPath(owner, repo, number), nil, nil, ShapePullRequest, &pr); err != nil {
		return nil, err
	}
	return c.get(ctx, repoPath(owner, repo)+"/commits/"+url.PathEscape(pr.Head.SHA)+"/status", nil, ShapeCombinedStatus)
}

// GetPullRequestComments lists review comments on a pull request.
func (c *Client) GetPullRequestComments(ctx context.Context, owner, repo string, number int) (json.RawMessage, error) {
	return c.get(ctx, pullPath(owner, repo, number)+"/comments", nil, ShapeCommentList)
}

// GetPullRequestReviews lists reviews on a pull request.
func (c *Client) GetPullRequestReviews(ctx context.Context, owner, repo string, number int) (json.RawMessage, error) {
	return c.get(ctx, pullPath(owner, repo, number)+"/reviews", nil, ShapeReviewList)
}

// CreatePullRequestReview submits a review.
func (c *Client) CreatePullRequestReview(ctx context.Context, owner, repo string, number int, review NewReview) (json.RawMessage, error) {
	return c.send(ctx, http.MethodPost, pullPath(owner, repo, number)+"/reviews", review, ShapeReview)
}

// UpdatePullRequestBranch merges the base branch into the pull request
// branch. expectedHeadSHA is optional.
func (c *Client) UpdatePullRequestBranch(ctx context.Context, owner, repo string, number int, expectedHeadSHA string) (json.RawMessage, error) {
	body := map[string]string{}
	if expectedHeadSHA != "" {
		body["expected_head_sha"] = expectedHeadSHA
	}
	return c.send(ctx, http.MethodPut, pullPath(owner, repo, number)+"/update-branch", body, ShapeUpdateBranch)
}
