package store

import (
	"context"

	"github.com/shiromoto/siteindex/internal/index"
)

// Sink persists index snapshots. The crawl loop hands it a
// read-consistent snapshot every flush interval and once more at
// termination; each write replaces whatever the sink stored before.
type Sink interface {
	// Write persists the snapshot, replacing any previously stored state.
	Write(ctx context.Context, snap index.Snapshot) error

	// Location describes where the sink writes, for logging and reports.
	Location() string
}
