package mcp

import (
	"context"
	"encoding/json"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"gh-triage-mcp/src/githubapi"
)

type searchFunc func(ctx context.Context, query string, opts githubapi.SearchOptions) (json.RawMessage, error)

func (s *Server) searchTools() []server.ServerTool {
	options := func(what string) []mcp.ToolOption {
		return []mcp.ToolOption{
			mcp.WithString("q", mcp.Required(), mcp.Description("Search query using GitHub "+what+" search syntax")),
			mcp.WithString("sort", mcp.Description("Sort field")),
			mcp.WithString("order", mcp.Enum("asc", "desc"), mcp.Description("Sort order")),
		}
	}

	return []server.ServerTool{
		s.tool(newTool("search_code", "Search code across GitHub repositories",
			options("code"), pageOptions(),
		), s.searchHandler(func(gh *githubapi.Client) searchFunc { return gh.SearchCode })),

		s.tool(newTool("search_issues", "Search issues and pull requests across GitHub repositories",
			options("issue"), pageOptions(),
		), s.searchHandler(func(gh *githubapi.Client) searchFunc { return gh.SearchIssues })),

		s.tool(newTool("search_users", "Search GitHub users",
			options("user"), pageOptions(),
		), s.searchHandler(func(gh *githubapi.Client) searchFunc { return gh.SearchUsers })),
	}
}

func (s *Server) searchHandler(pick func(gh *githubapi.Client) searchFunc) toolHandler {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		query, err := request.RequireString("q")
		if err != nil {
			return toolError(err), nil
		}
		gh, err := s.github()
		if err != nil {
			return toolError(err), nil
		}
		return rawResult(pick(gh)(ctx, query, githubapi.SearchOptions{
			Sort:    request.GetString("sort", ""),
			Order:   request.GetString("order", ""),
			Page:    request.GetInt("page", 0),
			PerPage: request.GetInt("per_page", 0),
		}))
	}
}
