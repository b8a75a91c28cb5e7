// Package main provides the gh-triage-mcp CLI: the MCP server plus local
// commands for fetching and analyzing workflow log archives.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"gh-triage-mcp/src/config"
	"gh-triage-mcp/src/logger"
)

var (
	configPath string
	appConfig  *config.Config
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "gh-triage-mcp",
	Short: "GitHub tools and workflow log triage over MCP",
	Long: `gh-triage-mcp exposes the GitHub REST API as MCP tools and analyzes
GitHub Actions log archives for the most relevant Bazel build error.

Configuration comes from the environment (GITHUB_TOKEN, GITHUB_OWNER,
GITHUB_REPO, GITHUB_WORKFLOW_ID, LOG_OUTPUT_DIR, ...) and optionally a YAML
file passed with --config. Environment variables win.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		appConfig, err = config.Load(configPath)
		if err != nil {
			return fmt.Errorf("configuration error: %w", err)
		}
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "path to a YAML config file")

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(analyzeCmd)
	rootCmd.AddCommand(fetchCmd)
	rootCmd.AddCommand(viewCmd)
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(watchCmd)
}

// newLogger builds the process logger. interactive silences console output
// so it does not tear the TUI; a LOG_FILE still receives everything.
func newLogger(cfg *config.Config, interactive bool) logger.Logger {
	if interactive && cfg.LogFile == "" {
		return logger.NewSilentLogger()
	}
	return logger.New(logger.Options{Level: cfg.LogLevel, File: cfg.LogFile})
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		stop()
		os.Exit(1)
	}
}
