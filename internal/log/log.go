package log

import (
	"io"
	"log/slog"
)

// level returns the slog level for the given verbosity. Progress lines
// (pages indexed, queue depth) are logged at Info; skip and error
// reasons at Warn. Verbose mode surfaces everything down to Debug.
func level(verbose bool) slog.Level {
	if verbose {
		return slog.LevelDebug
	}
	return slog.LevelInfo
}

// NewLogger creates a text-format slog.Logger writing to w.
// This is the default human-readable progress log of the crawler.
func NewLogger(w io.Writer, verbose bool) *slog.Logger {
	handler := slog.NewTextHandler(w, &slog.HandlerOptions{Level: level(verbose)})
	return slog.New(handler)
}

// NewJSONLogger creates a JSON-format slog.Logger writing to w.
// Useful when crawl logs are shipped to structured log aggregation.
func NewJSONLogger(w io.Writer, verbose bool) *slog.Logger {
	handler := slog.NewJSONHandler(w, &slog.HandlerOptions{Level: level(verbose)})
	return slog.New(handler)
}
