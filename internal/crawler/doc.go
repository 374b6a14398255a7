// Package crawler implements the crawl-and-index loop: it walks a site
// breadth-first from a seed URL, indexes the visible text of every
// in-scope HTML page, and periodically flushes the index to the
// persistence sink.
package crawler
