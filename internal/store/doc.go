// Package store implements the persistence sinks that durably record
// index snapshots: a pretty-printed JSON file matching the nested
// term → url → positions document shape, and a SQLite database.
package store
