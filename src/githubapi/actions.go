package githubapi

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"regexp"
	"strconv"
)

var workflowRunURLPattern = regexp.MustCompile(`github\.com/([^/]+)/([^/]+)/actions/runs/(\d+)`)

// ParseWorkflowRunURL extracts owner, repo, and run ID from a workflow run page
// URL such as https://github.com/owner/repo/actions/runs/123.
func ParseWorkflowRunURL(runURL string) (owner, repo string, runID int64, err error) {
	matches := workflowRunURLPattern.FindStringSubmatch(runURL)
	if matches == nil {
		return "", "", 0, fmt.Errorf("%w: %s", ErrInvalidRunURL, runURL)
	}
	runID, err = strconv.ParseInt(matches[3], 10, 64)
	if err != nil {
		return "", "", 0, fmt.Errorf("%w: %s", ErrInvalidRunURL, runURL)
	}
	return matches[1], matches[2], runID, nil
}

// ListWorkflowRunsOptions filters workflow runs. WorkflowID may be a numeric
// id or a workflow file name; when empty, runs of all workflows are listed.
type ListWorkflowRunsOptions struct {
	WorkflowID string
	Actor      string
	Branch     string
	Event      string
	Status     string
	Page       int
	PerPage    int
}

// ListWorkflowRuns lists workflow runs for a repository or a single workflow.
func (c *Client) ListWorkflowRuns(ctx context.Context, owner, repo string, opts ListWorkflowRunsOptions) (*WorkflowRunsResponse, error) {
	path := repoPath(owner, repo) + "/actions/runs"
	if opts.WorkflowID != "" {
		path = repoPath(owner, repo) + "/actions/workflows/" + url.PathEscape(opts.WorkflowID) + "/runs"
	}

	var runs WorkflowRunsResponse
	err := c.do(ctx, http.MethodGet, path, Params{
		"actor":    opts.Actor,
		"branch":   opts.Branch,
		"event":    opts.Event,
		"status":   opts.Status,
		"page":     opts.Page,
		"per_page": opts.PerPage,
	}, nil, ShapeWorkflowRunList, &runs)
	if err != nil {
		return nil, err
	}
	return &runs, nil
}

// GetWorkflowRun fetches workflow run metadata
func (c *Client) GetWorkflowRun(ctx context.Context, owner, repo string, runID int64) (*WorkflowRun, error) {
	path := fmt.Sprintf("%s/actions/runs/%d", repoPath(owner, repo), runID)

	var run WorkflowRun
	if err := c.do(ctx, http.MethodGet, path, nil, nil, ShapeWorkflowRun, &run); err != nil {
		return nil, err
	}
	return &run, nil
}

// ListWorkflowJobs fetches all jobs for a workflow run, following pagination.
// filter is "latest" or "all"; empty uses the API default.
func (c *Client) ListWorkflowJobs(ctx context.Context, owner, repo string, runID int64, filter string) ([]WorkflowJob, error) {
	var allJobs []WorkflowJob
	page := 1
	perPage := 100 // GitHub's max per page

	for {
		path := fmt.Sprintf("%s/actions/runs/%d/jobs", repoPath(owner, repo), runID)

		var jobsResp WorkflowJobsResponse
		err := c.do(ctx, http.MethodGet, path, Params{
			"filter":   filter,
			"page":     page,
			"per_page": perPage,
		}, nil, ShapeWorkflowJobList, &jobsResp)
		if err != nil {
			return nil, err
		}

		allJobs = append(allJobs, jobsResp.Jobs...)

		// Check if we've fetched all jobs
		if len(allJobs) >= jobsResp.TotalCount || len(jobsResp.Jobs) < perPage {
			break
		}

		page++
	}

	return allJobs, nil
}

// GetWorkflowRunLogsURL returns the short-lived download URL of a run's log
// archive. GitHub answers with a 302 whose Location is the archive, so
// redirects are not followed; any other status is an error.
func (c *Client) GetWorkflowRunLogsURL(ctx context.Context, owner, repo string, runID int64) (string, error) {
	path := repoPath(owner, repo) + "/actions/runs/" + strconv.FormatInt(runID, 10) + "/logs"

	req, err := c.newRequest(ctx, http.MethodGet, path, nil, nil)
	if err != nil {
		return "", err
	}

	// Clone the client settings and set custom CheckRedirect
	client := &http.Client{
		Timeout:   c.httpClient.Timeout,
		Transport: c.httpClient.Transport,
		CheckRedirect: func(req *http.Request, via []*http.Request) error {
			return http.ErrUseLastResponse
		},
	}

	resp, err := client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusFound {
		body, _ := io.ReadAll(resp.Body)
		if resp.StatusCode >= 200 && resp.StatusCode < 300 {
			return "", fmt.Errorf("%w: got %d, want 302", ErrUnexpectedStatus, resp.StatusCode)
		}
		return "", &APIError{
			Method:     http.MethodGet,
			URL:        req.URL.String(),
			StatusCode: resp.StatusCode,
			Body:       string(body),
		}
	}

	logURL := resp.Header.Get("Location")
	if logURL == "" {
		return "", ErrNoRedirect
	}
	return logURL, nil
}
