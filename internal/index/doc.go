// Package index implements the positional inverted index: a mapping from
// term to document URL to the ordered positions at which the term occurs.
package index
