// Package model defines the data structures shared across the crawler:
// fetched pages and crawl run summaries.
package model
