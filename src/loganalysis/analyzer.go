// Package loganalysis scans the text logs of an extracted workflow-run
// archive and extracts the most relevant error excerpt.
//
// Three well-known step logs are checked in fixed priority order: the curated
// error summary, the failed-test log, then the raw incremental build log.
// The first rule that yields a verdict wins.
package loganalysis

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"
)

// Summaries reported in Result.ErrorSummary.
const (
	SummaryFolderNotFound = "Bazel logs folder not found"
	SummaryWorkflowErrors = "Workflow run errors found"
	SummaryTestFailures   = "Test failures detected"
	SummaryBuildErrors    = "Build errors detected"
	SummaryBuildClean     = "No errors found in build log"
	SummaryNoLogFiles     = "No relevant log files found"
)

// Result is the outcome of analyzing one extracted archive.
type Result struct {
	Success            bool   `json:"success"`
	ErrorSummary       string `json:"errorSummary"`
	ErrorDetails       string `json:"errorDetails"`
	SourceFile         string `json:"sourceFile,omitempty"`
	RelevantLogContent string `json:"relevantLogContent,omitempty"`
}

// Analyzer applies Rules to extracted log directories. It holds no state
// besides its rules and is safe for concurrent use.
type Analyzer struct {
	rules Rules
}

// NewAnalyzer creates an analyzer with the default rules.
func NewAnalyzer() *Analyzer {
	return NewAnalyzerWithRules(DefaultRules())
}

// NewAnalyzerWithRules creates an analyzer with custom rules.
func NewAnalyzerWithRules(rules Rules) *Analyzer {
	return &Analyzer{rules: rules}
}

// Rules returns a copy of the analyzer's rules.
func (a *Analyzer) Rules() Rules {
	return a.rules
}

// Analyze inspects extractedDir/folder. Missing files are reported through
// the result; only I/O failures on files that do exist return an error.
func (a *Analyzer) Analyze(extractedDir, folder string) (Result, error) {
	if folder == "" {
		folder = DefaultFolder
	}
	logsDir := filepath.Join(extractedDir, folder)

	info, err := os.Stat(logsDir)
	if errors.Is(err, fs.ErrNotExist) || (err == nil && !info.IsDir()) {
		return Result{
			ErrorSummary: SummaryFolderNotFound,
			ErrorDetails: fmt.Sprintf("Expected folder %q in %s", folder, extractedDir),
		}, nil
	}
	if err != nil {
		return Result{}, fmt.Errorf("failed to stat logs folder: %w", err)
	}

	entries, err := os.ReadDir(logsDir)
	if err != nil {
		return Result{}, fmt.Errorf("failed to list logs folder: %w", err)
	}
	var names []string
	for _, e := range entries {
		if !e.IsDir() {
			names = append(names, e.Name())
		}
	}

	// Curated summary and failed-test logs only count when non-empty.
	for _, candidate := range []struct {
		marker  string
		summary string
	}{
		{a.rules.SummaryFileMarker, SummaryWorkflowErrors},
		{a.rules.FailedTestFileMarker, SummaryTestFailures},
	} {
		name := findFile(names, candidate.marker)
		if name == "" {
			continue
		}
		content, err := readLog(logsDir, name)
		if err != nil {
			return Result{}, err
		}
		if strings.TrimSpace(content) == "" {
			continue
		}
		return Result{
			ErrorSummary:       candidate.summary,
			ErrorDetails:       a.ExtractErrorDetails(content),
			SourceFile:         name,
			RelevantLogContent: content,
		}, nil
	}

	if name := findFile(names, a.rules.BuildLogFileMarker); name != "" {
		content, err := readLog(logsDir, name)
		if err != nil {
			return Result{}, err
		}
		if !a.containsIndicator(content) {
			return Result{
				Success:      true,
				ErrorSummary: SummaryBuildClean,
				SourceFile:   name,
			}, nil
		}
		excerpt := a.ExtractRelevantContent(content)
		return Result{
			ErrorSummary:       SummaryBuildErrors,
			ErrorDetails:       excerpt,
			SourceFile:         name,
			RelevantLogContent: excerpt,
		}, nil
	}

	return Result{
		ErrorSummary: SummaryNoLogFiles,
		ErrorDetails: fmt.Sprintf("None of the expected log files were found in %s", logsDir),
	}, nil
}

// ExtractErrorDetails returns the first line matching the detail pattern and
// the lines following it, up to DetailWindow lines in total. Without a match
// it returns a FallbackPrefix-character prefix, with "..." when truncated.
func (a *Analyzer) ExtractErrorDetails(content string) string {
	if a.rules.DetailPattern.MatchString(content) {
		lines := strings.Split(content, "\n")
		for i, line := range lines {
			if a.rules.DetailPattern.MatchString(line) {
				end := min(len(lines), i+a.rules.DetailWindow)
				return strings.Join(lines[i:end], "\n")
			}
		}
	}
	return prefix(content, a.rules.FallbackPrefix)
}

// ExtractRelevantContent returns short logs verbatim. Longer logs are cut to
// a window around the first line carrying an error indicator, or to a
// head/tail composite when no single line carries one.
func (a *Analyzer) ExtractRelevantContent(content string) string {
	if utf8.RuneCountInString(content) <= a.rules.VerbatimLimit {
		return content
	}

	lines := strings.Split(content, "\n")
	for i, line := range lines {
		if a.containsIndicator(line) {
			start := max(0, i-a.rules.ContextBefore)
			end := min(len(lines), i+a.rules.ContextAfter+1)
			return strings.Join(lines[start:end], "\n")
		}
	}

	head := lines[:min(len(lines), a.rules.HeadLines)]
	tail := lines[max(0, len(lines)-a.rules.TailLines):]
	return strings.Join(head, "\n") + "\n...\n" + strings.Join(tail, "\n")
}

func (a *Analyzer) containsIndicator(s string) bool {
	for _, indicator := range a.rules.ErrorIndicators {
		if strings.Contains(s, indicator) {
			return true
		}
	}
	return false
}

// findFile returns the first name containing marker, ignoring case.
func findFile(names []string, marker string) string {
	marker = strings.ToLower(marker)
	for _, name := range names {
		if strings.Contains(strings.ToLower(name), marker) {
			return name
		}
	}
	return ""
}

func readLog(dir, name string) (string, error) {
	data, err := os.ReadFile(filepath.Join(dir, name))
	if err != nil {
		return "", fmt.Errorf("failed to read %s: %w", name, err)
	}
	return string(data), nil
}

func prefix(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	return string([]rune(s)[:n]) + "..."
}
