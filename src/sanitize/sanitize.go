// Package sanitize cleans GitHub Actions log text for human display.
// It removes ANSI escape codes and the timestamp prefix the runner writes on
// every line. Analyzer results are never passed through here; callers only
// sanitize what they render.
package sanitize

import (
	"regexp"
	"strings"
)

var (
	// CSI sequences such as \x1b[31m or \x1b[2K
	ansiPattern = regexp.MustCompile(`\x1b\[[0-9;?]*[A-Za-z]`)

	// Runner timestamp prefix: 2024-05-01T12:34:56.1234567Z
	runnerTimestamp = regexp.MustCompile(`(?m)^\d{4}-\d{2}-\d{2}T\d{2}:\d{2}:\d{2}(\.\d+)?Z `)
)

// StripANSI removes ANSI escape codes.
func StripANSI(s string) string {
	return ansiPattern.ReplaceAllString(s, "")
}

// StripTimestamps removes the runner timestamp at the start of each line.
func StripTimestamps(s string) string {
	return runnerTimestamp.ReplaceAllString(s, "")
}

// Clean strips ANSI codes and runner timestamps, normalizes line endings and
// trims trailing whitespace.
func Clean(s string) string {
	s = strings.ReplaceAll(s, "\r\n", "\n")
	s = strings.ReplaceAll(s, "\r", "")
	s = StripANSI(s)
	s = StripTimestamps(s)
	return strings.TrimRight(s, " \t\n")
}
