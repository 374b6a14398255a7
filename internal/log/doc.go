// Package log provides slog.Logger constructors shared by the CLI
// commands.
package log
