package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"gh-triage-mcp/src/archive"
	"gh-triage-mcp/src/broker"
	"gh-triage-mcp/src/config"
	"gh-triage-mcp/src/contracts"
	"gh-triage-mcp/src/history"
	"gh-triage-mcp/src/loganalysis"
	"gh-triage-mcp/src/logger"
	"gh-triage-mcp/src/mcp"
	"gh-triage-mcp/src/tui"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the MCP server over stdio",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		log := newLogger(appConfig, false)
		if appConfig.GitHubToken == "" {
			log.Info("%s is not set; GitHub requests are unauthenticated", config.EnvToken)
		}

		a, err := newApp(cmd.Context(), appConfig, log)
		if err != nil {
			return err
		}
		defer a.Close()

		srv := mcp.NewServer(mcp.Deps{
			Config:   appConfig,
			GitHub:   a.github,
			Analyzer: a.orchestrator,
			History:  a.history,
			Logger:   logger.Named(log, "mcp"),
		})
		return srv.Run()
	},
}

var (
	analyzeFolder string
	analyzeTUI    bool
	analyzeText   bool
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze <extracted-dir>",
	Short: "Analyze an already extracted log archive",
	Long: `Scan the Bazel logs folder of an extracted workflow log archive and
report the most relevant build error. Prints JSON unless --text or --tui
is given.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		folder := analyzeFolder
		if folder == "" {
			folder = appConfig.BazelLogsFolder
		}

		result, err := loganalysis.NewAnalyzer().Analyze(args[0], folder)
		if err != nil {
			return err
		}
		switch {
		case analyzeTUI:
			return tui.Run(result, args[0])
		case analyzeText:
			printText(cmd.OutOrStdout(), result)
			return nil
		}
		return printJSON(cmd.OutOrStdout(), result)
	},
}

var fetchOutput string

var fetchCmd = &cobra.Command{
	Use:   "fetch <archive-url>",
	Short: "Download and extract a log archive",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		log := newLogger(appConfig, false)
		out := fetchOutput
		if out == "" {
			out = appConfig.OutputDir
		}

		fetcher := archive.NewFetcher(nil, &archive.UnzipExtractor{Path: appConfig.UnzipPath}, logger.Named(log, "archive"))
		s := startSpinner("Downloading " + args[0])
		result, err := fetcher.Download(cmd.Context(), args[0], out, archive.DefaultFilename)
		s.Stop()
		if err != nil {
			printFailure(err.Error())
			return err
		}
		if err := printJSON(cmd.OutOrStdout(), result); err != nil {
			return err
		}
		if !result.Success {
			printFailure(result.Message)
			return fmt.Errorf("download failed")
		}
		printSuccess(fmt.Sprintf("Extracted %d files to %s", len(result.Files), result.ExtractedDirectory))
		return nil
	},
}

var viewCmd = &cobra.Command{
	Use:   "view <extracted-dir|archive-url>",
	Short: "Analyze logs and browse the result interactively",
	Long: `Analyze a local extracted archive, or download and analyze a remote one,
then open the result in a scrollable viewer.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		source := args[0]

		var result loganalysis.Result
		if isURL(source) {
			a, err := newApp(cmd.Context(), appConfig, newLogger(appConfig, true))
			if err != nil {
				return err
			}
			defer a.Close()
			s := startSpinner("Downloading and analyzing logs")
			result = a.orchestrator.AnalyzeURL(cmd.Context(), source)
			s.Stop()
		} else {
			abs, err := filepath.Abs(source)
			if err != nil {
				return err
			}
			result, err = loganalysis.NewAnalyzer().Analyze(abs, appConfig.BazelLogsFolder)
			if err != nil {
				return err
			}
		}
		return tui.Run(result, source)
	},
}

var (
	historyOwner string
	historyRepo  string
	historyLimit int
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List recent analyses recorded in Postgres",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if appConfig.PostgresDSN == "" {
			return fmt.Errorf("POSTGRES_DSN is not set; history is only kept in memory by the server")
		}
		store, err := history.NewPostgresStore(cmd.Context(), appConfig.PostgresDSN)
		if err != nil {
			return err
		}
		defer store.Close()

		records, err := store.Recent(cmd.Context(), historyOwner, historyRepo, historyLimit)
		if err != nil {
			return err
		}
		return printJSON(cmd.OutOrStdout(), records)
	},
}

var (
	watchGroup string
	watchText  bool
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Follow analysis events published to Redpanda",
	Long: `Consume the analysis topic from the start and print each record as a JSON
line, or as a colored summary with --text. Runs until interrupted.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if len(appConfig.RedpandaBrokers) == 0 {
			return fmt.Errorf("REDPANDA_BROKERS is not set; analysis events are only published in process")
		}
		log := newLogger(appConfig, false)
		b, err := broker.NewRedpandaBroker(appConfig.RedpandaBrokers, log)
		if err != nil {
			return err
		}
		defer b.Close()

		out := cmd.OutOrStdout()
		err = broker.Watch(cmd.Context(), b, appConfig.AnalysisTopic, watchGroup, func(r contracts.AnalysisRecord) {
			if watchText {
				fmt.Fprintf(out, "%s  %s\n", r.FinishedAt.Format(time.RFC3339), describeSource(r))
				printText(out, r.Result)
				fmt.Fprintln(out)
				return
			}
			if err := json.NewEncoder(out).Encode(r); err != nil {
				log.Error("failed to print record: %v", err)
			}
		}, func(err error) {
			log.Error("skipping analysis event: %v", err)
		})
		if errors.Is(err, context.Canceled) {
			return nil
		}
		return err
	},
}

func isURL(s string) bool {
	return strings.HasPrefix(s, "http://") || strings.HasPrefix(s, "https://")
}

func init() {
	analyzeCmd.Flags().StringVar(&analyzeFolder, "folder", "", "logs folder inside the extracted archive (default from config)")
	analyzeCmd.Flags().BoolVar(&analyzeTUI, "tui", false, "open the result in the interactive viewer")
	analyzeCmd.Flags().BoolVar(&analyzeText, "text", false, "print a colored summary instead of JSON")

	fetchCmd.Flags().StringVarP(&fetchOutput, "output", "o", "", "extraction directory (default from config)")

	historyCmd.Flags().StringVar(&historyOwner, "owner", "", "filter by repository owner (with --repo)")
	historyCmd.Flags().StringVar(&historyRepo, "repo", "", "filter by repository name (with --owner)")
	historyCmd.Flags().IntVar(&historyLimit, "limit", history.DefaultLimit, "maximum number of records")

	watchCmd.Flags().StringVar(&watchGroup, "group", "gh-triage-mcp-watch", "consumer group id")
	watchCmd.Flags().BoolVar(&watchText, "text", false, "print colored summaries instead of JSON lines")
}
