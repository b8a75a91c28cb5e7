package githubapi

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
)

// CreateRepositoryOptions is the body of POST /user/repos.
type CreateRepositoryOptions struct {
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Private     bool   `json:"private,omitempty"`
	AutoInit    bool   `json:"auto_init,omitempty"`
}

// FileChange is the body of PUT /repos/{owner}/{repo}/contents/{path}.
// Content is plain text; it is base64 encoded on the wire.
type FileChange struct {
	Path    string
	Content string
	Message string
	Branch  string
	SHA     string // blob being replaced, required when updating
}

// ListCommitsOptions filters commit listings.
type ListCommitsOptions struct {
	SHA     string
	Path    string
	Page    int
	PerPage int
}

type repoInfo struct {
	DefaultBranch string `json:"default_branch"`
}

type gitRef struct {
	Ref    string `json:"ref"`
	Object struct {
		SHA string `json:"sha"`
	} `json:"object"`
}

// SearchRepositories runs a repository search query.
func (c *Client) SearchRepositories(ctx context.Context, query string, page, perPage int) (json.RawMessage, error) {
	return c.get(ctx, "/search/repositories", Params{"q": query, "page": page, "per_page": perPage}, ShapeSearchResult)
}

// CreateRepository creates a repository for the authenticated user.
func (c *Client) CreateRepository(ctx context.Context, opts CreateRepositoryOptions) (json.RawMessage, error) {
	return c.send(ctx, http.MethodPost, "/user/repos", opts, ShapeRepository)
}

// ForkRepository forks owner/repo, optionally into an organization.
func (c *Client) ForkRepository(ctx context.Context, owner, repo, organization string) (json.RawMessage, error) {
	body := map[string]string{}
	if organization != "" {
		body["organization"] = organization
	}
	return c.send(ctx, http.MethodPost, repoPath(owner, repo)+"/forks", body, ShapeRepository)
}

// GetFileContents returns a file or directory listing at path. An empty ref
// reads the default branch.
func (c *Client) GetFileContents(ctx context.Context, owner, repo, path, ref string) (json.RawMessage, error) {
	return c.get(ctx, repoPath(owner, repo)+"/contents/"+contentPath(path), Params{"ref": ref}, ShapeContent)
}

// CreateOrUpdateFile writes a single file in one commit.
func (c *Client) CreateOrUpdateFile(ctx context.Context, owner, repo string, change FileChange) (json.RawMessage, error) {
	body := map[string]string{
		"message": change.Message,
		"content": base64.StdEncoding.EncodeToString([]byte(change.Content)),
	}
	if change.Branch != "" {
		body["branch"] = change.Branch
	}
	if change.SHA != "" {
		body["sha"] = change.SHA
	}
	return c.send(ctx, http.MethodPut, repoPath(owner, repo)+"/contents/"+contentPath(change.Path), body, ShapeFileCommit)
}

// CreateBranch creates branch from the tip of fromBranch, or of the
// repository's default branch when fromBranch is empty.
func (c *Client) CreateBranch(ctx context.Context, owner, repo, branch, fromBranch string) (json.RawMessage, error) {
	if fromBranch == "" {
		var info repoInfo
		if err := c.do(ctx, http.MethodGet, repoPath(owner, repo), nil, nil, ShapeRepository, &info); err != nil {
			return nil, err
		}
		if info.DefaultBranch == "" {
			return nil, fmt.Errorf("repository %s/%s has no default branch", owner, repo)
		}
		fromBranch = info.DefaultBranch
	}

	var base gitRef
	if err := c.do(ctx, http.MethodGet, repoPath(owner, repo)+"/git/ref/heads/"+contentPath(fromBranch), nil, nil, ShapeRef, &base); err != nil {
		return nil, err
	}

	return c.send(ctx, http.MethodPost, repoPath(owner, repo)+"/git/refs", map[string]string{
		"ref": "refs/heads/" + branch,
		"sha": base.Object.SHA,
	}, ShapeRef)
}

// ListCommits lists commits on a branch or sha.
func (c *Client) ListCommits(ctx context.Context, owner, repo string, opts ListCommitsOptions) (json.RawMessage, error) {
	return c.get(ctx, repoPath(owner, repo)+"/commits", Params{
		"sha":      opts.SHA,
		"path":     opts.Path,
		"page":     opts.Page,
		"per_page": opts.PerPage,
	}, ShapeCommitList)
}

// ListBranches lists the repository's branches.
func (c *Client) ListBranches(ctx context.Context, owner, repo string, page, perPage int) (json.RawMessage, error) {
	return c.get(ctx, repoPath(owner, repo)+"/branches", Params{"page": page, "per_page": perPage}, ShapeBranchList)
}

// contentPath escapes each segment of a slash separated path.
func contentPath(p string) string {
	segments := strings.Split(strings.Trim(p, "/"), "/")
	for i, s := range segments {
		segments[i] = url.PathEscape(s)
	}
	return strings.Join(segments, "/")
}
