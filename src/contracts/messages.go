// Package contracts defines the records exchanged between the orchestrator
// and the optional analysis sinks (history store, event broker).
package contracts

import (
	"time"

	"gh-triage-mcp/src/loganalysis"
)

// TopicLogAnalyses is the default topic analysis events are published to.
const TopicLogAnalyses = "ghtriage.log-analyses"

// AnalysisRecord describes one orchestrated log analysis.
type AnalysisRecord struct {
	// Unique identifier (UUID).
	ID string `json:"id"`
	// Archive URL the logs were downloaded from.
	SourceURL string `json:"source_url"`
	// Repository coordinates, set when the analysis was started from a run id.
	Owner string `json:"owner,omitempty"`
	Repo  string `json:"repo,omitempty"`
	RunID int64  `json:"run_id,omitempty"`
	// Wall clock bounds of the analysis.
	StartedAt  time.Time `json:"started_at"`
	FinishedAt time.Time `json:"finished_at"`
	// Outcome as returned to the caller.
	Result loganalysis.Result `json:"result"`
}

// Key is the partition key for broker messages. Records for the same
// repository land on the same partition.
func (r AnalysisRecord) Key() string {
	if r.Owner == "" && r.Repo == "" {
		return r.ID
	}
	return r.Owner + "/" + r.Repo
}
