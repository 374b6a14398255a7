package index

import (
	"iter"
	"sort"
)

// Snapshot is a read-only, serializable copy of the index state:
// term → URL → ordered token positions. Its JSON encoding is the
// nested document shape the persistence sinks store.
type Snapshot map[string]map[string][]int

// TermCount returns the number of distinct terms in the snapshot.
func (s Snapshot) TermCount() int {
	return len(s)
}

// Index is the term-level inverted index with positional postings.
// For every term it records, per document URL, the zero-based positions
// at which the term occurred. Positions within one posting are strictly
// increasing because they are appended in token order.
//
// Index is not safe for concurrent use. The crawl loop is its single
// writer; Snapshot produces consistent copies for the persistence sink.
type Index struct {
	terms map[string]map[string][]int

	// docs tracks the set of indexed documents so re-indexing a URL can
	// replace its postings instead of appending to them.
	docs map[string]bool
}

// New creates an empty Index.
func New() *Index {
	return &Index{
		terms: make(map[string]map[string][]int),
		docs:  make(map[string]bool),
	}
}

// AddOccurrence records that term occurs at the given token position in
// the document at url, creating intermediate mappings as needed.
// Callers must supply positions in increasing order per document.
func (idx *Index) AddOccurrence(term, url string, position int) {
	postings, ok := idx.terms[term]
	if !ok {
		postings = make(map[string][]int)
		idx.terms[term] = postings
	}
	postings[url] = append(postings[url], position)
	idx.docs[url] = true
}

// AddDocument indexes the document at url from its token sequence,
// assigning positions in token order. Any postings from a previous
// indexing pass of the same URL are replaced, not appended to.
func (idx *Index) AddDocument(url string, tokens iter.Seq[string]) int {
	if idx.docs[url] {
		idx.removeDocument(url)
	}

	count := 0
	for term := range tokens {
		idx.AddOccurrence(term, url, count)
		count++
	}
	return count
}

// removeDocument deletes every posting that references url. Terms whose
// last posting disappears are dropped so the invariant holds that a term
// is present iff it occurs in at least one indexed document.
func (idx *Index) removeDocument(url string) {
	for term, postings := range idx.terms {
		if _, ok := postings[url]; !ok {
			continue
		}
		delete(postings, url)
		if len(postings) == 0 {
			delete(idx.terms, term)
		}
	}
	delete(idx.docs, url)
}

// TermCount returns the number of distinct terms currently indexed.
func (idx *Index) TermCount() int {
	return len(idx.terms)
}

// DocCount returns the number of documents currently indexed.
func (idx *Index) DocCount() int {
	return len(idx.docs)
}

// Positions returns the positions recorded for term in the document at
// url, or nil when the pair is not indexed. The returned slice is the
// live posting; callers must not modify it.
func (idx *Index) Positions(term, url string) []int {
	return idx.terms[term][url]
}

// Snapshot produces a deep, read-consistent copy of the index suitable
// for serialization. Later mutations of the index do not alter the copy.
func (idx *Index) Snapshot() Snapshot {
	snap := make(Snapshot, len(idx.terms))
	for term, postings := range idx.terms {
		copied := make(map[string][]int, len(postings))
		for url, positions := range postings {
			copied[url] = append([]int(nil), positions...)
		}
		snap[term] = copied
	}
	return snap
}

// TermDocs pairs a term with the number of documents it occurs in.
type TermDocs struct {
	Term string
	Docs int
}

// TopTerms returns up to n terms ordered by document frequency, highest
// first, ties broken by term for deterministic output.
func (idx *Index) TopTerms(n int) []TermDocs {
	entries := make([]TermDocs, 0, len(idx.terms))
	for term, postings := range idx.terms {
		entries = append(entries, TermDocs{Term: term, Docs: len(postings)})
	}
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].Docs != entries[j].Docs {
			return entries[i].Docs > entries[j].Docs
		}
		return entries[i].Term < entries[j].Term
	})
	if n < len(entries) {
		entries = entries[:n]
	}
	return entries
}
