// Package mcp exposes the GitHub REST wrappers and the workflow log analysis
// as MCP tools over stdio.
package mcp

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"gh-triage-mcp/src/config"
	"gh-triage-mcp/src/errs"
	"gh-triage-mcp/src/githubapi"
	"gh-triage-mcp/src/history"
	"gh-triage-mcp/src/loganalysis"
	"gh-triage-mcp/src/logger"
)

const (
	ServerName    = "gh-triage-mcp"
	ServerVersion = "1.0.0"
)

// LogAnalyzer runs workflow log analyses. *workflowlogs.Orchestrator implements it.
type LogAnalyzer interface {
	AnalyzeURL(ctx context.Context, logsURL string) loganalysis.Result
	AnalyzeRun(ctx context.Context, owner, repo string, runID int64) loganalysis.Result
}

// Deps are the collaborators a Server needs. History may be nil.
type Deps struct {
	Config   *config.Config
	GitHub   *githubapi.Client
	Analyzer LogAnalyzer
	History  history.Store
	Logger   logger.Logger
}

// Server is the MCP server for gh-triage-mcp.
type Server struct {
	mcpServer *server.MCPServer
	cfg       *config.Config
	gh        *githubapi.Client
	analyzer  LogAnalyzer
	history   history.Store
	log       logger.Logger
}

// NewServer creates a server and registers every tool.
func NewServer(deps Deps) *Server {
	s := server.NewMCPServer(
		ServerName,
		ServerVersion,
		server.WithToolCapabilities(true),
		server.WithRecovery(),
	)

	if deps.Config == nil {
		deps.Config = &config.Config{}
	}
	if deps.Logger == nil {
		deps.Logger = logger.NewSilentLogger()
	}

	srv := &Server{
		mcpServer: s,
		cfg:       deps.Config,
		gh:        deps.GitHub,
		analyzer:  deps.Analyzer,
		history:   deps.History,
		log:       deps.Logger,
	}
	srv.registerTools()

	return srv
}

// Run starts the MCP server on stdio.
func (s *Server) Run() error {
	s.log.Info("serving %s %s on stdio", ServerName, ServerVersion)
	return server.ServeStdio(s.mcpServer)
}

type toolHandler = server.ToolHandlerFunc

func (s *Server) registerTools() {
	s.mcpServer.AddTools(s.tools()...)
}

// tools returns the full tool catalog.
func (s *Server) tools() []server.ServerTool {
	var all []server.ServerTool
	for _, group := range []func() []server.ServerTool{
		s.repositoryTools,
		s.issueTools,
		s.pullRequestTools,
		s.searchTools,
		s.actionsTools,
		s.logTools,
	} {
		all = append(all, group()...)
	}
	return all
}

// tool pairs a tool definition with its handler, logging each call.
// Arguments are validated against the tool's input schema before the
// handler runs, so a wrong-typed value never reaches GitHub.
func (s *Server) tool(t mcp.Tool, h toolHandler) server.ServerTool {
	name := t.Name
	schema, schemaErr := compileInputSchema(t)
	if schemaErr != nil {
		s.log.Error("tool %s: %v", name, schemaErr)
	}
	return server.ServerTool{
		Tool: t,
		Handler: func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			s.log.Debug("tool call %s", name)
			if schemaErr != nil {
				return mcp.NewToolResultError(schemaErr.Error()), nil
			}
			if err := validateArguments(schema, request.GetArguments()); err != nil {
				s.log.Info("tool %s rejected arguments", name)
				return mcp.NewToolResultError(fmt.Sprintf("invalid arguments for %s: %v", name, err)), nil
			}
			result, err := h(ctx, request)
			if result != nil && result.IsError {
				s.log.Info("tool %s returned an error", name)
			}
			return result, err
		},
	}
}

// repoOptions declares the optional owner and repo parameters.
func repoOptions() []mcp.ToolOption {
	return []mcp.ToolOption{
		mcp.WithString("owner",
			mcp.Description("Repository owner (defaults to "+config.EnvOwner+")"),
		),
		mcp.WithString("repo",
			mcp.Description("Repository name (defaults to "+config.EnvRepo+")"),
		),
	}
}

func pageOptions() []mcp.ToolOption {
	return []mcp.ToolOption{
		mcp.WithNumber("page", mcp.Description("Page number (1-based)"), mcp.Min(1)),
		mcp.WithNumber("per_page", mcp.Description("Results per page (max 100)"), mcp.Min(1), mcp.Max(100)),
	}
}

func newTool(name, description string, groups ...[]mcp.ToolOption) mcp.Tool {
	opts := []mcp.ToolOption{mcp.WithDescription(description)}
	for _, g := range groups {
		opts = append(opts, g...)
	}
	return mcp.NewTool(name, opts...)
}

// resolveRepo reads owner and repo, falling back to the configured defaults.
func (s *Server) resolveRepo(request mcp.CallToolRequest) (string, string, error) {
	owner, err := s.cfg.ResolveOwner(request.GetString("owner", ""))
	if err != nil {
		return "", "", err
	}
	repo, err := s.cfg.ResolveRepo(request.GetString("repo", ""))
	if err != nil {
		return "", "", err
	}
	return owner, repo, nil
}

func (s *Server) github() (*githubapi.Client, error) {
	if s.gh == nil {
		return nil, fmt.Errorf("GitHub client is not configured")
	}
	return s.gh, nil
}

// toolError renders err for the caller, with hints for known failures.
func toolError(err error) *mcp.CallToolResult {
	return mcp.NewToolResultError(errs.WrapError(err).Error())
}

func rawResult(raw json.RawMessage, err error) (*mcp.CallToolResult, error) {
	if err != nil {
		return toolError(err), nil
	}
	return mcp.NewToolResultText(string(raw)), nil
}

func jsonResult(v any) (*mcp.CallToolResult, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to marshal response: %v", err)), nil
	}
	return mcp.NewToolResultText(string(data)), nil
}

// repoCall is the common shape of tools addressing one repository.
func (s *Server) repoCall(fn func(ctx context.Context, gh *githubapi.Client, owner, repo string, request mcp.CallToolRequest) (json.RawMessage, error)) toolHandler {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		gh, err := s.github()
		if err != nil {
			return toolError(err), nil
		}
		owner, repo, err := s.resolveRepo(request)
		if err != nil {
			return toolError(err), nil
		}
		return rawResult(fn(ctx, gh, owner, repo, request))
	}
}

// numberedCall is repoCall for tools that also require an issue or pull
// request number.
func (s *Server) numberedCall(param string, fn func(ctx context.Context, gh *githubapi.Client, owner, repo string, number int, request mcp.CallToolRequest) (json.RawMessage, error)) toolHandler {
	return s.repoCall(func(ctx context.Context, gh *githubapi.Client, owner, repo string, request mcp.CallToolRequest) (json.RawMessage, error) {
		number, err := request.RequireInt(param)
		if err != nil {
			return nil, err
		}
		return fn(ctx, gh, owner, repo, number, request)
	})
}

// requireStrings reads several required string arguments in order.
func requireStrings(request mcp.CallToolRequest, names ...string) ([]string, error) {
	values := make([]string, len(names))
	for i, name := range names {
		v, err := request.RequireString(name)
		if err != nil {
			return nil, err
		}
		values[i] = v
	}
	return values, nil
}
