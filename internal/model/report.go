package model

import "time"

// Skip reasons recorded by the crawl loop. Every URL that is dequeued but
// not indexed falls into exactly one of these buckets.
const (
	SkipIneligible  = "ineligible"
	SkipFetch       = "fetch"
	SkipStatus      = "status"
	SkipContentType = "content-type"
	SkipParse       = "parse"
)

// CrawlReport summarizes a completed crawl run.
// It is the input to the report writers and is serialized as-is for
// the JSON report format.
type CrawlReport struct {
	// Seed is the normalized seed URL the crawl started from.
	Seed string `json:"seed"`

	// Domain is the authority component all indexed pages share.
	Domain string `json:"domain"`

	// Prefix is the path prefix the crawl was scoped to.
	// Empty when prefix scoping was disabled.
	Prefix string `json:"prefix,omitempty"`

	// PagesIndexed is the number of pages whose text entered the index.
	PagesIndexed int `json:"pages_indexed"`

	// PagesSkipped maps a skip reason to the number of URLs abandoned
	// for that reason.
	PagesSkipped map[string]int `json:"pages_skipped,omitempty"`

	// URLsSeen is the total number of distinct URLs discovered.
	URLsSeen int `json:"urls_seen"`

	// TermCount is the number of distinct terms in the final index.
	TermCount int `json:"term_count"`

	// DocCount is the number of documents in the final index.
	DocCount int `json:"doc_count"`

	// Flushes is the number of snapshots handed to the persistence sink,
	// including the final flush.
	Flushes int `json:"flushes"`

	// Elapsed is the wall-clock duration of the crawl.
	Elapsed time.Duration `json:"elapsed_ns"`

	// Output is where the index was persisted.
	Output string `json:"output"`

	// TopTerms lists the most frequent terms, highest document
	// frequency first.
	TopTerms []TermFrequency `json:"top_terms,omitempty"`
}

// TermFrequency pairs a term with the number of documents it occurs in.
type TermFrequency struct {
	Term string `json:"term"`
	Docs int    `json:"docs"`
}

// TotalSkipped returns the number of URLs abandoned across all reasons.
func (r *CrawlReport) TotalSkipped() int {
	total := 0
	for _, n := range r.PagesSkipped {
		total += n
	}
	return total
}
