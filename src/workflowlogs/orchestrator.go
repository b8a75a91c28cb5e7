// Package workflowlogs downloads a workflow log archive, runs the log
// analyzer over it and always returns a loganalysis.Result.
package workflowlogs

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"gh-triage-mcp/src/archive"
	"gh-triage-mcp/src/contracts"
	"gh-triage-mcp/src/loganalysis"
	"gh-triage-mcp/src/logger"
)

// Summaries reported by the orchestrator itself.
const (
	SummaryDownloadFailed = "Failed to download workflow logs"
	SummaryAnalysisError  = "Error analyzing workflow logs"
)

// Downloader fetches and extracts an archive. *archive.Fetcher implements it.
type Downloader interface {
	Download(ctx context.Context, rawURL, outputDir, filename string) (*archive.Result, error)
}

// LogsURLResolver maps a workflow run to its log archive URL.
// *githubapi.Client implements it.
type LogsURLResolver interface {
	GetWorkflowRunLogsURL(ctx context.Context, owner, repo string, runID int64) (string, error)
}

// Options configures an Orchestrator. Downloader and OutputDir are required.
type Options struct {
	OutputDir  string
	Folder     string
	Downloader Downloader
	Resolver   LogsURLResolver
	Analyzer   *loganalysis.Analyzer
	Recorder   Recorder
	Logger     logger.Logger

	// Now is the clock, replaceable in tests.
	Now func() time.Time
}

// Orchestrator composes the archive fetcher and the log analyzer.
type Orchestrator struct {
	opts Options
}

// New creates an Orchestrator, filling unset options with defaults.
func New(opts Options) *Orchestrator {
	if opts.Folder == "" {
		opts.Folder = loganalysis.DefaultFolder
	}
	if opts.Analyzer == nil {
		opts.Analyzer = loganalysis.NewAnalyzer()
	}
	if opts.Logger == nil {
		opts.Logger = logger.NewSilentLogger()
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &Orchestrator{opts: opts}
}

// AnalyzeURL downloads the archive at logsURL into a fresh run directory and
// analyzes it. It never returns an error: failures become unsuccessful results.
func (o *Orchestrator) AnalyzeURL(ctx context.Context, logsURL string) loganalysis.Result {
	return o.run(ctx, &contracts.AnalysisRecord{SourceURL: logsURL}, func() (loganalysis.Result, error) {
		return o.analyzeURL(ctx, logsURL)
	})
}

// AnalyzeRun resolves the log archive of a workflow run and analyzes it.
func (o *Orchestrator) AnalyzeRun(ctx context.Context, owner, repo string, runID int64) loganalysis.Result {
	record := &contracts.AnalysisRecord{Owner: owner, Repo: repo, RunID: runID}
	return o.run(ctx, record, func() (loganalysis.Result, error) {
		if o.opts.Resolver == nil {
			return loganalysis.Result{}, fmt.Errorf("no GitHub client configured to resolve run %d", runID)
		}
		logsURL, err := o.opts.Resolver.GetWorkflowRunLogsURL(ctx, owner, repo, runID)
		if err != nil {
			return loganalysis.Result{}, err
		}
		record.SourceURL = logsURL
		return o.analyzeURL(ctx, logsURL)
	})
}

func (o *Orchestrator) analyzeURL(ctx context.Context, logsURL string) (loganalysis.Result, error) {
	runDir, err := o.newRunDir()
	if err != nil {
		return loganalysis.Result{}, err
	}
	o.opts.Logger.Info("analyzing workflow logs from %s in %s", logsURL, runDir)

	download, err := o.opts.Downloader.Download(ctx, logsURL, runDir, archive.DefaultFilename)
	if err != nil {
		return loganalysis.Result{}, err
	}
	if !download.Success {
		return loganalysis.Result{
			Success:      false,
			ErrorSummary: SummaryDownloadFailed,
			ErrorDetails: download.Message,
		}, nil
	}

	return o.opts.Analyzer.Analyze(download.ExtractedDirectory, o.opts.Folder)
}

// run applies guard and notifies the recorder. record is completed with the
// id, timings and result after fn returns.
func (o *Orchestrator) run(ctx context.Context, record *contracts.AnalysisRecord, fn func() (loganalysis.Result, error)) loganalysis.Result {
	started := o.opts.Now()
	result := guard(fn)
	if !result.Success {
		o.opts.Logger.Debug("analysis finished without success: %s", result.ErrorSummary)
	}

	if o.opts.Recorder != nil {
		record.ID = uuid.NewString()
		record.StartedAt = started
		record.FinishedAt = o.opts.Now()
		record.Result = result
		if err := o.opts.Recorder.Record(ctx, *record); err != nil {
			o.opts.Logger.Error("failed to record analysis %s: %v", record.ID, err)
		}
	}
	return result
}

// guard runs fn and converts any error or panic into a failure result.
func guard(fn func() (loganalysis.Result, error)) (result loganalysis.Result) {
	defer func() {
		if r := recover(); r != nil {
			result = failure(fmt.Errorf("panic: %v", r))
		}
	}()

	res, err := fn()
	if err != nil {
		return failure(err)
	}
	return res
}

func failure(err error) loganalysis.Result {
	return loganalysis.Result{
		Success:      false,
		ErrorSummary: SummaryAnalysisError,
		ErrorDetails: err.Error(),
	}
}

// newRunDir creates <OutputDir>/run-<timestamp>-<random>.
func (o *Orchestrator) newRunDir() (string, error) {
	if o.opts.OutputDir == "" {
		return "", fmt.Errorf("no log output directory configured")
	}
	name := fmt.Sprintf("run-%s-%s", o.opts.Now().UTC().Format("20060102T150405.000"), uuid.NewString()[:8])
	dir := filepath.Join(o.opts.OutputDir, name)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create run directory: %w", err)
	}
	return dir, nil
}
