// Package main provides the entry point for the siteindex CLI.
//
// siteindex crawls a website from a seed URL and builds a term-level
// inverted index of its visible text, periodically persisting the index
// so partial progress survives interruption.
//
// Usage:
//
//	siteindex crawl <seed-url>
//	siteindex crawl --prefix <seed-url>
//
// See --help for all available options.
package main

// main is the entry point for siteindex.
func main() {
	Execute()
}
