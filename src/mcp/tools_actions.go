package mcp

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"gh-triage-mcp/src/config"
	"gh-triage-mcp/src/githubapi"
)

func runIDOption() mcp.ToolOption {
	return mcp.WithNumber("run_id", mcp.Required(), mcp.Description("Workflow run ID"))
}

func (s *Server) actionsTools() []server.ServerTool {
	return []server.ServerTool{
		s.tool(newTool("list_workflow_runs", "List runs of a workflow, or of every workflow in the repository",
			repoOptions(),
			[]mcp.ToolOption{
				mcp.WithString("workflow_id", mcp.Description("Workflow ID or file name, e.g. ci.yml (defaults to "+config.EnvWorkflowID+")")),
				mcp.WithBoolean("all_workflows", mcp.Description("List runs of every workflow instead of a single one")),
				mcp.WithString("actor", mcp.Description("Only runs triggered by this user")),
				mcp.WithString("branch", mcp.Description("Only runs on this branch")),
				mcp.WithString("event", mcp.Description("Only runs triggered by this event")),
				mcp.WithString("status", mcp.Description("Only runs with this status or conclusion, e.g. failure")),
			},
			pageOptions(),
		), s.handleListWorkflowRuns),

		s.tool(newTool("get_workflow_run", "Get a workflow run",
			repoOptions(),
			[]mcp.ToolOption{runIDOption()},
		), s.handleGetWorkflowRun),

		s.tool(newTool("list_workflow_jobs", "List the jobs of a workflow run",
			repoOptions(),
			[]mcp.ToolOption{
				runIDOption(),
				mcp.WithString("filter", mcp.Enum("latest", "all"), mcp.Description("Jobs of the latest attempt or of all attempts")),
			},
		), s.handleListWorkflowJobs),

		s.tool(newTool("get_workflow_run_logs_url", "Get the short-lived download URL of a workflow run's log archive",
			repoOptions(),
			[]mcp.ToolOption{runIDOption()},
		), s.handleGetWorkflowRunLogsURL),
	}
}

func (s *Server) handleListWorkflowRuns(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	gh, err := s.github()
	if err != nil {
		return toolError(err), nil
	}
	owner, repo, err := s.resolveRepo(request)
	if err != nil {
		return toolError(err), nil
	}

	opts := githubapi.ListWorkflowRunsOptions{
		Actor:   request.GetString("actor", ""),
		Branch:  request.GetString("branch", ""),
		Event:   request.GetString("event", ""),
		Status:  request.GetString("status", ""),
		Page:    request.GetInt("page", 0),
		PerPage: request.GetInt("per_page", 0),
	}
	if !request.GetBool("all_workflows", false) {
		if opts.WorkflowID, err = s.cfg.ResolveWorkflowID(request.GetString("workflow_id", "")); err != nil {
			return toolError(err), nil
		}
	}

	runs, err := gh.ListWorkflowRuns(ctx, owner, repo, opts)
	if err != nil {
		return toolError(err), nil
	}
	return jsonResult(runs)
}

// runRequest resolves the client, repository and run id shared by the run tools.
func (s *Server) runRequest(request mcp.CallToolRequest) (*githubapi.Client, string, string, int64, error) {
	gh, err := s.github()
	if err != nil {
		return nil, "", "", 0, err
	}
	owner, repo, err := s.resolveRepo(request)
	if err != nil {
		return nil, "", "", 0, err
	}
	runID, err := request.RequireInt("run_id")
	if err != nil {
		return nil, "", "", 0, err
	}
	return gh, owner, repo, int64(runID), nil
}

func (s *Server) handleGetWorkflowRun(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	gh, owner, repo, runID, err := s.runRequest(request)
	if err != nil {
		return toolError(err), nil
	}
	run, err := gh.GetWorkflowRun(ctx, owner, repo, runID)
	if err != nil {
		return toolError(err), nil
	}
	return jsonResult(run)
}

func (s *Server) handleListWorkflowJobs(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	gh, owner, repo, runID, err := s.runRequest(request)
	if err != nil {
		return toolError(err), nil
	}
	jobs, err := gh.ListWorkflowJobs(ctx, owner, repo, runID, request.GetString("filter", ""))
	if err != nil {
		return toolError(err), nil
	}
	return jsonResult(githubapi.WorkflowJobsResponse{TotalCount: len(jobs), Jobs: jobs})
}

func (s *Server) handleGetWorkflowRunLogsURL(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	gh, owner, repo, runID, err := s.runRequest(request)
	if err != nil {
		return toolError(err), nil
	}
	logsURL, err := gh.GetWorkflowRunLogsURL(ctx, owner, repo, runID)
	if err != nil {
		return toolError(err), nil
	}
	return jsonResult(map[string]any{"run_id": runID, "logs_url": logsURL})
}
