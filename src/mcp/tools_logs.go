package mcp

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"gh-triage-mcp/src/contracts"
	"gh-triage-mcp/src/githubapi"
	"gh-triage-mcp/src/history"
)

func (s *Server) logTools() []server.ServerTool {
	return []server.ServerTool{
		s.tool(newTool("download_and_analyze_logs",
			"Download a workflow log archive, extract it and report the most relevant build error. "+
				"Returns {success, errorSummary, errorDetails, sourceFile, relevantLogContent}.",
			[]mcp.ToolOption{
				mcp.WithString("logs_url", mcp.Required(), mcp.Description("Download URL of the log archive, e.g. from get_workflow_run_logs_url")),
			},
		), s.handleDownloadAndAnalyzeLogs),

		s.tool(newTool("analyze_workflow_run_logs",
			"Resolve a workflow run's log archive and analyze it like download_and_analyze_logs. "+
				"Accepts either run_id (with owner and repo) or a run_url.",
			repoOptions(),
			[]mcp.ToolOption{
				mcp.WithNumber("run_id", mcp.Description("Workflow run ID")),
				mcp.WithString("run_url", mcp.Description("Run page URL, e.g. https://github.com/owner/repo/actions/runs/123")),
			},
		), s.handleAnalyzeWorkflowRunLogs),

		s.tool(newTool("list_recent_log_analyses", "List recent log analyses, newest first",
			[]mcp.ToolOption{
				mcp.WithString("owner", mcp.Description("Only analyses of this repository owner (requires repo)")),
				mcp.WithString("repo", mcp.Description("Only analyses of this repository (requires owner)")),
				mcp.WithNumber("limit", mcp.Description(fmt.Sprintf("Maximum number of analyses (default: %d)", history.DefaultLimit)), mcp.Min(1)),
			},
		), s.handleListRecentLogAnalyses),
	}
}

func (s *Server) handleDownloadAndAnalyzeLogs(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	logsURL, err := request.RequireString("logs_url")
	if err != nil {
		return toolError(err), nil
	}
	if s.analyzer == nil {
		return mcp.NewToolResultError("log analysis is not configured"), nil
	}
	return jsonResult(s.analyzer.AnalyzeURL(ctx, logsURL))
}

func (s *Server) handleAnalyzeWorkflowRunLogs(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	if s.analyzer == nil {
		return mcp.NewToolResultError("log analysis is not configured"), nil
	}

	var (
		owner, repo string
		runID       int64
		err         error
	)
	if runURL := request.GetString("run_url", ""); runURL != "" {
		owner, repo, runID, err = githubapi.ParseWorkflowRunURL(runURL)
		if err != nil {
			return toolError(err), nil
		}
	} else {
		id, err := request.RequireInt("run_id")
		if err != nil {
			return mcp.NewToolResultError("either run_id or run_url is required"), nil
		}
		runID = int64(id)
		if owner, repo, err = s.resolveRepo(request); err != nil {
			return toolError(err), nil
		}
	}

	return jsonResult(s.analyzer.AnalyzeRun(ctx, owner, repo, runID))
}

func (s *Server) handleListRecentLogAnalyses(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	if s.history == nil {
		return mcp.NewToolResultError("analysis history is not enabled"), nil
	}
	records, err := s.history.Recent(ctx,
		request.GetString("owner", ""),
		request.GetString("repo", ""),
		request.GetInt("limit", history.DefaultLimit),
	)
	if err != nil {
		return toolError(err), nil
	}
	if records == nil {
		records = []contracts.AnalysisRecord{}
	}
	return jsonResult(records)
}
