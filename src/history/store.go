// Package history persists the outcome of orchestrated log analyses so they
// can be listed later.
package history

import (
	"context"

	"gh-triage-mcp/src/contracts"
)

// DefaultLimit is used by Recent when limit is not positive.
const DefaultLimit = 20

// Store persists analysis records.
type Store interface {
	// Save stores one record. Saving an existing ID replaces it.
	Save(ctx context.Context, record contracts.AnalysisRecord) error

	// Recent returns up to limit records, newest first. When owner and repo
	// are non-empty only that repository's records are returned.
	Recent(ctx context.Context, owner, repo string, limit int) ([]contracts.AnalysisRecord, error)

	// Close closes the store connection
	Close() error
}

func normalizeLimit(limit int) int {
	if limit <= 0 {
		return DefaultLimit
	}
	return limit
}
