package extract

import (
	"errors"
	"io"
	"strings"

	"golang.org/x/net/html"
)

// Text extracts the visible text found under the document body, excluding
// content inside script, style, and head elements. Text fragments are
// appended in encounter order and joined with a single space.
//
// The extractor is a small state machine over the streaming tokenizer:
// inBody tracks whether we are inside <body>, suppressed tracks whether
// the current text belongs to a script/style/head element. Malformed
// markup is handled best-effort: unmatched end tags are ignored and
// unclosed tags are implicitly closed at end of stream. Only reader
// errors are reported.
//
// Design decision: We use the streaming x/net/html Tokenizer rather than
// html.Parse because the two extraction passes only need tag events in
// document order, not a DOM, and the tokenizer never fails on malformed
// markup short of a reader error.
func Text(r io.Reader) (string, error) {
	z := html.NewTokenizer(r)

	var (
		fragments  []string
		inBody     bool
		suppressed bool
	)

	for {
		switch z.Next() {
		case html.ErrorToken:
			if err := z.Err(); !errors.Is(err, io.EOF) {
				return "", err
			}
			return strings.Join(fragments, " "), nil

		case html.StartTagToken:
			// The tokenizer lowercases tag names, which gives us the
			// required case-insensitive matching.
			name, _ := z.TagName()
			switch string(name) {
			case "body":
				inBody = true
			case "script", "style", "head":
				if inBody {
					suppressed = true
				}
			}

		case html.EndTagToken:
			name, _ := z.TagName()
			switch string(name) {
			case "body":
				inBody = false
			case "script", "style", "head":
				suppressed = false
			}

		case html.TextToken:
			if inBody && !suppressed {
				if text := string(z.Text()); strings.TrimSpace(text) != "" {
					fragments = append(fragments, text)
				}
			}
		}
	}
}
