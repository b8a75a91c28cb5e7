package main

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/briandowns/spinner"
	"github.com/fatih/color"

	"gh-triage-mcp/src/loganalysis"
)

// startSpinner shows progress on stderr so stdout stays machine readable.
func startSpinner(suffix string) *spinner.Spinner {
	s := spinner.New(spinner.CharSets[11], 100*time.Millisecond, spinner.WithWriter(os.Stderr))
	s.Suffix = " " + suffix
	s.Start()
	return s
}

func printSuccess(msg string) {
	color.New(color.FgGreen).Fprintf(os.Stderr, "✓ %s\n", msg)
}

func printFailure(msg string) {
	color.New(color.FgRed).Fprintf(os.Stderr, "✗ %s\n", msg)
}

// printText renders a result for a terminal reader.
func printText(w io.Writer, result loganalysis.Result) {
	cyan := color.New(color.FgCyan, color.Bold)
	red := color.New(color.FgRed, color.Bold)
	green := color.New(color.FgGreen, color.Bold)

	if result.Success {
		green.Fprintf(w, "%s\n", result.ErrorSummary)
	} else {
		red.Fprintf(w, "%s\n", result.ErrorSummary)
	}
	if result.SourceFile != "" {
		fmt.Fprintf(w, "Source: %s\n", color.YellowString(result.SourceFile))
	}
	fmt.Fprintln(w)

	cyan.Fprintln(w, "Details")
	fmt.Fprintln(w, result.ErrorDetails)

	if result.RelevantLogContent != "" && result.RelevantLogContent != result.ErrorDetails {
		fmt.Fprintln(w)
		cyan.Fprintln(w, "Relevant log content")
		fmt.Fprintln(w, result.RelevantLogContent)
	}
}
