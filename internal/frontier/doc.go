// Package frontier implements the crawl frontier: a FIFO queue of URLs
// to visit with discovery-time deduplication.
package frontier
