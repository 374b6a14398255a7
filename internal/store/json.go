package store

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/shiromoto/siteindex/internal/index"
)

// JSONSink persists index snapshots as a pretty-printed JSON document:
// term keys, URL sub-keys, integer-array position values. Each write
// replaces the file, so the file always holds the latest snapshot and
// partial progress survives interruption.
type JSONSink struct {
	path string
}

// NewJSONSink creates a sink writing to the given file path.
// Parent directories are created on first write.
func NewJSONSink(path string) *JSONSink {
	return &JSONSink{path: path}
}

// Location returns the output file path.
func (s *JSONSink) Location() string {
	return s.path
}

// Write serializes the snapshot to the sink's file.
// The file is written via a temporary sibling and renamed into place so
// an interrupted flush never leaves a truncated index behind.
func (s *JSONSink) Write(ctx context.Context, snap index.Snapshot) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	dir := filepath.Dir(s.path)
	if dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0750); err != nil {
			return fmt.Errorf("failed to create output directory: %w", err)
		}
	}

	data, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to serialize index: %w", err)
	}

	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0600); err != nil {
		return fmt.Errorf("failed to write index file: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		return fmt.Errorf("failed to replace index file: %w", err)
	}
	return nil
}

// LoadJSON reads a snapshot previously written by a JSONSink.
// Serialization is lossless for the term → url → positions shape, so the
// loaded snapshot is identical to the one that was flushed.
func LoadJSON(path string) (index.Snapshot, error) {
	data, err := os.ReadFile(path) //nolint:gosec // User-provided index path is intentional
	if err != nil {
		return nil, err
	}

	var snap index.Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, fmt.Errorf("failed to parse index file: %w", err)
	}
	return snap, nil
}
