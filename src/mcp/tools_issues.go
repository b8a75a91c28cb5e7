package mcp

import (
	"context"
	"encoding/json"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"gh-triage-mcp/src/githubapi"
)

func issueFieldOptions() []mcp.ToolOption {
	return []mcp.ToolOption{
		mcp.WithString("body", mcp.Description("Issue body")),
		mcp.WithArray("assignees", mcp.WithStringItems(), mcp.Description("Logins to assign")),
		mcp.WithArray("labels", mcp.WithStringItems(), mcp.Description("Labels to apply")),
		mcp.WithNumber("milestone", mcp.Description("Milestone number")),
	}
}

// issueRequest reads the optional issue fields shared by create and update.
func issueRequest(request mcp.CallToolRequest) githubapi.IssueRequest {
	req := githubapi.IssueRequest{
		Title:     request.GetString("title", ""),
		Body:      request.GetString("body", ""),
		State:     request.GetString("state", ""),
		Assignees: request.GetStringSlice("assignees", nil),
		Labels:    request.GetStringSlice("labels", nil),
	}
	if _, ok := request.GetArguments()["milestone"]; ok {
		m := request.GetInt("milestone", 0)
		req.Milestone = &m
	}
	return req
}

func (s *Server) issueTools() []server.ServerTool {
	issueNumber := []mcp.ToolOption{
		mcp.WithNumber("issue_number", mcp.Required(), mcp.Description("Issue number")),
	}

	return []server.ServerTool{
		s.tool(newTool("create_issue", "Create a new issue",
			repoOptions(),
			[]mcp.ToolOption{mcp.WithString("title", mcp.Required(), mcp.Description("Issue title"))},
			issueFieldOptions(),
		), s.repoCall(func(ctx context.Context, gh *githubapi.Client, owner, repo string, request mcp.CallToolRequest) (json.RawMessage, error) {
			if _, err := request.RequireString("title"); err != nil {
				return nil, err
			}
			req := issueRequest(request)
			req.State = ""
			return gh.CreateIssue(ctx, owner, repo, req)
		})),

		s.tool(newTool("get_issue", "Get an issue",
			repoOptions(),
			issueNumber,
		), s.numberedCall("issue_number", func(ctx context.Context, gh *githubapi.Client, owner, repo string, number int, request mcp.CallToolRequest) (json.RawMessage, error) {
			return gh.GetIssue(ctx, owner, repo, number)
		})),

		s.tool(newTool("list_issues", "List issues in a repository",
			repoOptions(),
			[]mcp.ToolOption{
				mcp.WithString("state", mcp.Enum("open", "closed", "all"), mcp.Description("Issue state")),
				mcp.WithArray("labels", mcp.WithStringItems(), mcp.Description("Only issues with all of these labels")),
				mcp.WithString("sort", mcp.Enum("created", "updated", "comments"), mcp.Description("Sort field")),
				mcp.WithString("direction", mcp.Enum("asc", "desc"), mcp.Description("Sort direction")),
				mcp.WithString("since", mcp.Description("Only issues updated after this ISO 8601 time")),
			},
			pageOptions(),
		), s.repoCall(func(ctx context.Context, gh *githubapi.Client, owner, repo string, request mcp.CallToolRequest) (json.RawMessage, error) {
			return gh.ListIssues(ctx, owner, repo, githubapi.ListIssuesOptions{
				State:     request.GetString("state", ""),
				Labels:    request.GetStringSlice("labels", nil),
				Sort:      request.GetString("sort", ""),
				Direction: request.GetString("direction", ""),
				Since:     request.GetString("since", ""),
				Page:      request.GetInt("page", 0),
				PerPage:   request.GetInt("per_page", 0),
			})
		})),

		s.tool(newTool("update_issue", "Update an existing issue",
			repoOptions(),
			issueNumber,
			[]mcp.ToolOption{
				mcp.WithString("title", mcp.Description("New title")),
				mcp.WithString("state", mcp.Enum("open", "closed"), mcp.Description("New state")),
			},
			issueFieldOptions(),
		), s.numberedCall("issue_number", func(ctx context.Context, gh *githubapi.Client, owner, repo string, number int, request mcp.CallToolRequest) (json.RawMessage, error) {
			return gh.UpdateIssue(ctx, owner, repo, number, issueRequest(request))
		})),

		s.tool(newTool("add_issue_comment", "Add a comment to an issue or pull request",
			repoOptions(),
			issueNumber,
			[]mcp.ToolOption{mcp.WithString("body", mcp.Required(), mcp.Description("Comment text"))},
		), s.numberedCall("issue_number", func(ctx context.Context, gh *githubapi.Client, owner, repo string, number int, request mcp.CallToolRequest) (json.RawMessage, error) {
			body, err := request.RequireString("body")
			if err != nil {
				return nil, err
			}
			return gh.AddIssueComment(ctx, owner, repo, number, body)
		})),
	}
}
