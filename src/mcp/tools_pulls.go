package mcp

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"gh-triage-mcp/src/githubapi"
)

type pullFunc func(ctx context.Context, owner, repo string, number int) (json.RawMessage, error)

func (s *Server) pullRequestTools() []server.ServerTool {
	pullNumber := []mcp.ToolOption{
		mcp.WithNumber("pull_number", mcp.Required(), mcp.Description("Pull request number")),
	}
	// read-only tools that only need the pull request coordinates
	simple := func(name, description string, pick func(gh *githubapi.Client) pullFunc) server.ServerTool {
		return s.tool(newTool(name, description, repoOptions(), pullNumber),
			s.numberedCall("pull_number", func(ctx context.Context, gh *githubapi.Client, owner, repo string, number int, request mcp.CallToolRequest) (json.RawMessage, error) {
				return pick(gh)(ctx, owner, repo, number)
			}))
	}

	return []server.ServerTool{
		s.tool(newTool("create_pull_request", "Create a pull request",
			repoOptions(),
			[]mcp.ToolOption{
				mcp.WithString("title", mcp.Required(), mcp.Description("Pull request title")),
				mcp.WithString("head", mcp.Required(), mcp.Description("Branch containing the changes")),
				mcp.WithString("base", mcp.Required(), mcp.Description("Branch to merge into")),
				mcp.WithString("body", mcp.Description("Pull request description")),
				mcp.WithBoolean("draft", mcp.Description("Create as draft")),
				mcp.WithBoolean("maintainer_can_modify", mcp.Description("Allow maintainers to push to the head branch")),
			},
		), s.repoCall(func(ctx context.Context, gh *githubapi.Client, owner, repo string, request mcp.CallToolRequest) (json.RawMessage, error) {
			v, err := requireStrings(request, "title", "head", "base")
			if err != nil {
				return nil, err
			}
			pr := githubapi.NewPullRequest{
				Title: v[0],
				Head:  v[1],
				Base:  v[2],
				Body:  request.GetString("body", ""),
				Draft: request.GetBool("draft", false),
			}
			if _, ok := request.GetArguments()["maintainer_can_modify"]; ok {
				m := request.GetBool("maintainer_can_modify", false)
				pr.MaintainerCanModify = &m
			}
			return gh.CreatePullRequest(ctx, owner, repo, pr)
		})),

		simple("get_pull_request", "Get a pull request", func(gh *githubapi.Client) pullFunc { return gh.GetPullRequest }),

		s.tool(newTool("list_pull_requests", "List pull requests in a repository",
			repoOptions(),
			[]mcp.ToolOption{
				mcp.WithString("state", mcp.Enum("open", "closed", "all"), mcp.Description("Pull request state")),
				mcp.WithString("head", mcp.Description("Filter by head user or org and branch, as user:ref-name")),
				mcp.WithString("base", mcp.Description("Filter by base branch")),
				mcp.WithString("sort", mcp.Enum("created", "updated", "popularity", "long-running"), mcp.Description("Sort field")),
				mcp.WithString("direction", mcp.Enum("asc", "desc"), mcp.Description("Sort direction")),
			},
			pageOptions(),
		), s.repoCall(func(ctx context.Context, gh *githubapi.Client, owner, repo string, request mcp.CallToolRequest) (json.RawMessage, error) {
			return gh.ListPullRequests(ctx, owner, repo, githubapi.ListPullRequestsOptions{
				State:     request.GetString("state", ""),
				Head:      request.GetString("head", ""),
				Base:      request.GetString("base", ""),
				Sort:      request.GetString("sort", ""),
				Direction: request.GetString("direction", ""),
				Page:      request.GetInt("page", 0),
				PerPage:   request.GetInt("per_page", 0),
			})
		})),

		s.tool(newTool("merge_pull_request", "Merge a pull request",
			repoOptions(),
			pullNumber,
			[]mcp.ToolOption{
				mcp.WithString("commit_title", mcp.Description("Title for the merge commit")),
				mcp.WithString("commit_message", mcp.Description("Extra detail for the merge commit")),
				mcp.WithString("merge_method", mcp.Enum("merge", "squash", "rebase"), mcp.Description("Merge method")),
			},
		), s.numberedCall("pull_number", func(ctx context.Context, gh *githubapi.Client, owner, repo string, number int, request mcp.CallToolRequest) (json.RawMessage, error) {
			return gh.MergePullRequest(ctx, owner, repo, number, githubapi.MergeOptions{
				CommitTitle:   request.GetString("commit_title", ""),
				CommitMessage: request.GetString("commit_message", ""),
				MergeMethod:   request.GetString("merge_method", ""),
			})
		})),

		simple("get_pull_request_files", "List files changed in a pull request", func(gh *githubapi.Client) pullFunc { return gh.GetPullRequestFiles }),
		simple("get_pull_request_status", "Get the combined status of all status checks for a pull request", func(gh *githubapi.Client) pullFunc { return gh.GetPullRequestStatus }),
		simple("get_pull_request_comments", "Get the review comments on a pull request", func(gh *githubapi.Client) pullFunc { return gh.GetPullRequestComments }),
		simple("get_pull_request_reviews", "Get the reviews on a pull request", func(gh *githubapi.Client) pullFunc { return gh.GetPullRequestReviews }),

		s.tool(newTool("create_pull_request_review", "Create a review on a pull request",
			repoOptions(),
			pullNumber,
			[]mcp.ToolOption{
				mcp.WithString("body", mcp.Description("Review body")),
				mcp.WithString("event", mcp.Required(), mcp.Enum("APPROVE", "REQUEST_CHANGES", "COMMENT"), mcp.Description("Review action")),
				mcp.WithString("commit_id", mcp.Description("Commit SHA to review")),
				mcp.WithArray("comments",
					mcp.Description("Inline comments, each {path, body, line?, side?}"),
					mcp.Items(map[string]any{
						"type":     "object",
						"required": []string{"path", "body"},
						"properties": map[string]any{
							"path": map[string]any{"type": "string"},
							"body": map[string]any{"type": "string"},
							"line": map[string]any{"type": "number"},
							"side": map[string]any{"type": "string", "enum": []string{"LEFT", "RIGHT"}},
						},
					}),
				),
			},
		), s.numberedCall("pull_number", func(ctx context.Context, gh *githubapi.Client, owner, repo string, number int, request mcp.CallToolRequest) (json.RawMessage, error) {
			event, err := request.RequireString("event")
			if err != nil {
				return nil, err
			}
			comments, err := reviewComments(request.GetArguments()["comments"])
			if err != nil {
				return nil, err
			}
			return gh.CreatePullRequestReview(ctx, owner, repo, number, githubapi.NewReview{
				Body:     request.GetString("body", ""),
				Event:    event,
				CommitID: request.GetString("commit_id", ""),
				Comments: comments,
			})
		})),

		s.tool(newTool("update_pull_request_branch", "Update a pull request branch with the latest changes from the base branch",
			repoOptions(),
			pullNumber,
			[]mcp.ToolOption{mcp.WithString("expected_head_sha", mcp.Description("Expected SHA of the pull request head"))},
		), s.numberedCall("pull_number", func(ctx context.Context, gh *githubapi.Client, owner, repo string, number int, request mcp.CallToolRequest) (json.RawMessage, error) {
			return gh.UpdatePullRequestBranch(ctx, owner, repo, number, request.GetString("expected_head_sha", ""))
		})),
	}
}

// reviewComments converts the loosely typed comments argument.
func reviewComments(arg any) ([]githubapi.ReviewComment, error) {
	if arg == nil {
		return nil, nil
	}
	data, err := json.Marshal(arg)
	if err != nil {
		return nil, fmt.Errorf("invalid comments: %w", err)
	}
	var comments []githubapi.ReviewComment
	if err := json.Unmarshal(data, &comments); err != nil {
		return nil, fmt.Errorf("invalid comments: %w", err)
	}
	for i, c := range comments {
		if c.Path == "" || c.Body == "" {
			return nil, fmt.Errorf("invalid comments: comment %d needs path and body", i)
		}
	}
	return comments, nil
}
