package mcp

import (
	"context"
	"encoding/json"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"gh-triage-mcp/src/githubapi"
)

func (s *Server) repositoryTools() []server.ServerTool {
	return []server.ServerTool{
		s.tool(newTool("search_repositories", "Search GitHub repositories",
			[]mcp.ToolOption{mcp.WithString("query", mcp.Required(), mcp.Description("Search query, e.g. 'language:go topic:mcp'"))},
			pageOptions(),
		), s.handleSearchRepositories),

		s.tool(newTool("create_repository", "Create a repository for the authenticated user",
			[]mcp.ToolOption{
				mcp.WithString("name", mcp.Required(), mcp.Description("Repository name")),
				mcp.WithString("description", mcp.Description("Repository description")),
				mcp.WithBoolean("private", mcp.Description("Create a private repository")),
				mcp.WithBoolean("auto_init", mcp.Description("Initialize with a README")),
			},
		), s.handleCreateRepository),

		s.tool(newTool("fork_repository", "Fork a repository to the authenticated user or an organization",
			repoOptions(),
			[]mcp.ToolOption{mcp.WithString("organization", mcp.Description("Organization to fork into"))},
		), s.repoCall(func(ctx context.Context, gh *githubapi.Client, owner, repo string, request mcp.CallToolRequest) (json.RawMessage, error) {
			return gh.ForkRepository(ctx, owner, repo, request.GetString("organization", ""))
		})),

		s.tool(newTool("get_file_contents", "Get the contents of a file or directory",
			repoOptions(),
			[]mcp.ToolOption{
				mcp.WithString("path", mcp.Required(), mcp.Description("Path to the file or directory")),
				mcp.WithString("branch", mcp.Description("Branch, tag or commit (defaults to the default branch)")),
			},
		), s.repoCall(func(ctx context.Context, gh *githubapi.Client, owner, repo string, request mcp.CallToolRequest) (json.RawMessage, error) {
			path, err := request.RequireString("path")
			if err != nil {
				return nil, err
			}
			return gh.GetFileContents(ctx, owner, repo, path, request.GetString("branch", ""))
		})),

		s.tool(newTool("create_or_update_file", "Create or update a single file in a repository",
			repoOptions(),
			[]mcp.ToolOption{
				mcp.WithString("path", mcp.Required(), mcp.Description("Path of the file")),
				mcp.WithString("content", mcp.Required(), mcp.Description("New file content")),
				mcp.WithString("message", mcp.Required(), mcp.Description("Commit message")),
				mcp.WithString("branch", mcp.Required(), mcp.Description("Branch to commit to")),
				mcp.WithString("sha", mcp.Description("Blob SHA of the file being replaced (required for updates)")),
			},
		), s.repoCall(func(ctx context.Context, gh *githubapi.Client, owner, repo string, request mcp.CallToolRequest) (json.RawMessage, error) {
			v, err := requireStrings(request, "path", "content", "message", "branch")
			if err != nil {
				return nil, err
			}
			change := githubapi.FileChange{
				Path:    v[0],
				Content: v[1],
				Message: v[2],
				Branch:  v[3],
				SHA:     request.GetString("sha", ""),
			}
			return gh.CreateOrUpdateFile(ctx, owner, repo, change)
		})),

		s.tool(newTool("create_branch", "Create a branch from another branch or the default branch",
			repoOptions(),
			[]mcp.ToolOption{
				mcp.WithString("branch", mcp.Required(), mcp.Description("Name of the new branch")),
				mcp.WithString("from_branch", mcp.Description("Source branch (defaults to the default branch)")),
			},
		), s.repoCall(func(ctx context.Context, gh *githubapi.Client, owner, repo string, request mcp.CallToolRequest) (json.RawMessage, error) {
			branch, err := request.RequireString("branch")
			if err != nil {
				return nil, err
			}
			return gh.CreateBranch(ctx, owner, repo, branch, request.GetString("from_branch", ""))
		})),

		s.tool(newTool("list_commits", "List commits of a branch",
			repoOptions(),
			[]mcp.ToolOption{
				mcp.WithString("sha", mcp.Description("Branch name or commit SHA to start from")),
				mcp.WithString("path", mcp.Description("Only commits touching this path")),
			},
			pageOptions(),
		), s.repoCall(func(ctx context.Context, gh *githubapi.Client, owner, repo string, request mcp.CallToolRequest) (json.RawMessage, error) {
			return gh.ListCommits(ctx, owner, repo, githubapi.ListCommitsOptions{
				SHA:     request.GetString("sha", ""),
				Path:    request.GetString("path", ""),
				Page:    request.GetInt("page", 0),
				PerPage: request.GetInt("per_page", 0),
			})
		})),

		s.tool(newTool("list_branches", "List branches in a repository",
			repoOptions(),
			pageOptions(),
		), s.repoCall(func(ctx context.Context, gh *githubapi.Client, owner, repo string, request mcp.CallToolRequest) (json.RawMessage, error) {
			return gh.ListBranches(ctx, owner, repo, request.GetInt("page", 0), request.GetInt("per_page", 0))
		})),
	}
}

func (s *Server) handleSearchRepositories(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	query, err := request.RequireString("query")
	if err != nil {
		return toolError(err), nil
	}
	gh, err := s.github()
	if err != nil {
		return toolError(err), nil
	}
	return rawResult(gh.SearchRepositories(ctx, query, request.GetInt("page", 0), request.GetInt("per_page", 0)))
}

func (s *Server) handleCreateRepository(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	name, err := request.RequireString("name")
	if err != nil {
		return toolError(err), nil
	}
	gh, err := s.github()
	if err != nil {
		return toolError(err), nil
	}
	return rawResult(gh.CreateRepository(ctx, githubapi.CreateRepositoryOptions{
		Name:        name,
		Description: request.GetString("description", ""),
		Private:     request.GetBool("private", false),
		AutoInit:    request.GetBool("auto_init", false),
	}))
}
