// Package extract turns raw HTML into the two inputs the indexer needs:
// the visible body text and the ordered list of anchor href values.
// It also provides the tokenizer that splits extracted text into
// lowercase word tokens.
package extract
