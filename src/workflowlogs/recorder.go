package workflowlogs

import (
	"context"
	"errors"

	"gh-triage-mcp/src/broker"
	"gh-triage-mcp/src/contracts"
	"gh-triage-mcp/src/history"
)

// Recorder is notified after every orchestrated analysis.
type Recorder interface {
	Record(ctx context.Context, record contracts.AnalysisRecord) error
}

// RecorderFunc adapts a function to Recorder.
type RecorderFunc func(ctx context.Context, record contracts.AnalysisRecord) error

// Record calls f.
func (f RecorderFunc) Record(ctx context.Context, record contracts.AnalysisRecord) error {
	return f(ctx, record)
}

// StoreRecorder saves records to a history store.
func StoreRecorder(store history.Store) Recorder {
	return RecorderFunc(func(ctx context.Context, record contracts.AnalysisRecord) error {
		return store.Save(ctx, record)
	})
}

// PublisherRecorder publishes records as broker events.
func PublisherRecorder(pub *broker.Publisher) Recorder {
	return RecorderFunc(pub.PublishAnalysis)
}

// Recorders notifies every recorder and joins their errors.
type Recorders []Recorder

// Record notifies every recorder and joins their errors.
func (rs Recorders) Record(ctx context.Context, record contracts.AnalysisRecord) error {
	var errs []error
	for _, r := range rs {
		if err := r.Record(ctx, record); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
