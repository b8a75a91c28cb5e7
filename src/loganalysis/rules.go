package loganalysis

import "regexp"

// DefaultFolder is the subfolder of an extracted workflow-log archive that
// holds the Bazel job's step logs.
const DefaultFolder = "Bazel Build and Test"

// Rules holds every tunable of the analysis heuristic. The zero value is not
// useful; start from DefaultRules.
type Rules struct {
	// Filename markers, matched case-insensitively as substrings, in priority order.
	SummaryFileMarker    string
	FailedTestFileMarker string
	BuildLogFileMarker   string

	// ErrorIndicators are case-sensitive substrings flagging a failing build log.
	ErrorIndicators []string

	// DetailPattern locates the first error line for summary and test logs.
	DetailPattern *regexp.Regexp
	// DetailWindow is the number of lines returned starting at the matching line.
	DetailWindow int
	// FallbackPrefix is how many characters are returned when nothing matches.
	FallbackPrefix int

	// VerbatimLimit is the largest build log returned unchanged.
	VerbatimLimit int
	// ContextBefore and ContextAfter bound the window around the first indicator line.
	ContextBefore int
	ContextAfter  int
	// HeadLines and TailLines build the positional excerpt when no line matches.
	HeadLines int
	TailLines int
}

// DefaultRules returns the stock heuristic.
func DefaultRules() Rules {
	return Rules{
		SummaryFileMarker:    "get errors during workflow run.txt",
		FailedTestFileMarker: "view failed test logs.txt",
		BuildLogFileMarker:   "build incremental.txt",
		ErrorIndicators: []string{
			"ERROR:",
			"FAILED:",
			"BUILD FAILED",
			"Exception:",
			"error:",
			"failed:",
			"Execution failed",
		},
		DetailPattern:  regexp.MustCompile(`(?i)ERROR:|FAILED:|Exception:|error:|failed:|BUILD FAILED`),
		DetailWindow:   10,
		FallbackPrefix: 500,
		VerbatimLimit:  2000,
		ContextBefore:  5,
		ContextAfter:   15,
		HeadLines:      10,
		TailLines:      20,
	}
}
