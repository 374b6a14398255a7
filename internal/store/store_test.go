package store

import (
	"context"
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/shiromoto/siteindex/internal/index"
)

func sampleSnapshot() index.Snapshot {
	return index.Snapshot{
		"hello": {
			"https://example.com/":  {0, 4},
			"https://example.com/a": {2},
		},
		"world": {
			"https://example.com/": {1},
		},
	}
}

// TestJSONSink tests JSON persistence round trips.
func TestJSONSink(t *testing.T) {
	t.Parallel()

	t.Run("write then load is lossless", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), "search_index.json")
		sink := NewJSONSink(path)
		if sink.Location() != path {
			t.Errorf("Location() = %q, want %q", sink.Location(), path)
		}

		want := sampleSnapshot()
		if err := sink.Write(context.Background(), want); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		got, err := LoadJSON(path)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !reflect.DeepEqual(got, want) {
			t.Errorf("loaded snapshot = %v, want %v", got, want)
		}
	})

	t.Run("each write replaces the previous snapshot", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), "search_index.json")
		sink := NewJSONSink(path)

		if err := sink.Write(context.Background(), sampleSnapshot()); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		final := index.Snapshot{"only": {"https://example.com/": {0}}}
		if err := sink.Write(context.Background(), final); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		got, err := LoadJSON(path)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !reflect.DeepEqual(got, final) {
			t.Errorf("loaded snapshot = %v, want %v", got, final)
		}
	})

	t.Run("creates missing parent directories", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), "nested", "out", "search_index.json")
		sink := NewJSONSink(path)
		if err := sink.Write(context.Background(), sampleSnapshot()); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if _, err := os.Stat(path); err != nil {
			t.Errorf("index file not written: %v", err)
		}
	})

	t.Run("no temporary file remains after write", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		path := filepath.Join(dir, "search_index.json")
		if err := NewJSONSink(path).Write(context.Background(), sampleSnapshot()); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		entries, err := os.ReadDir(dir)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(entries) != 1 || entries[0].Name() != "search_index.json" {
			t.Errorf("directory entries = %v, want only search_index.json", entries)
		}
	})

	t.Run("canceled context aborts the write", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), "search_index.json")
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		if err := NewJSONSink(path).Write(ctx, sampleSnapshot()); err == nil {
			t.Error("expected context error, got nil")
		}
	})
}

// TestSQLiteSink tests SQLite persistence round trips.
func TestSQLiteSink(t *testing.T) {
	t.Parallel()

	t.Run("write then load is lossless", func(t *testing.T) {
		t.Parallel()

		sink, err := OpenSQLite(t.TempDir())
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		defer sink.Close()

		want := sampleSnapshot()
		if err := sink.Write(context.Background(), want); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		got, err := sink.Load(context.Background())
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !reflect.DeepEqual(got, want) {
			t.Errorf("loaded snapshot = %v, want %v", got, want)
		}
	})

	t.Run("each write replaces the previous snapshot", func(t *testing.T) {
		t.Parallel()

		sink, err := OpenSQLite(t.TempDir())
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		defer sink.Close()

		if err := sink.Write(context.Background(), sampleSnapshot()); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		final := index.Snapshot{"only": {"https://example.com/": {0}}}
		if err := sink.Write(context.Background(), final); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		got, err := sink.Load(context.Background())
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !reflect.DeepEqual(got, final) {
			t.Errorf("loaded snapshot = %v, want %v", got, final)
		}
	})

	t.Run("fresh database loads as an empty snapshot", func(t *testing.T) {
		t.Parallel()

		sink, err := OpenSQLite(t.TempDir())
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		defer sink.Close()

		got, err := sink.Load(context.Background())
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(got) != 0 {
			t.Errorf("loaded snapshot = %v, want empty", got)
		}
	})

	t.Run("location points inside the database directory", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		sink, err := OpenSQLite(dir)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		defer sink.Close()

		if got, want := sink.Location(), filepath.Join(dir, "siteindex.db"); got != want {
			t.Errorf("Location() = %q, want %q", got, want)
		}
	})
}
