package extract

import (
	"errors"
	"io"

	"golang.org/x/net/html"
)

// Links extracts every non-empty href attribute value found on anchor
// tags, in document order. Duplicates are preserved; if an anchor carries
// more than one href attribute, the first occurrence wins. The values are
// returned raw: resolution against the page URL and fragment stripping
// are the caller's concern.
func Links(r io.Reader) ([]string, error) {
	z := html.NewTokenizer(r)

	var links []string
	for {
		switch z.Next() {
		case html.ErrorToken:
			if err := z.Err(); !errors.Is(err, io.EOF) {
				return nil, err
			}
			return links, nil

		case html.StartTagToken, html.SelfClosingTagToken:
			name, hasAttr := z.TagName()
			if string(name) != "a" || !hasAttr {
				continue
			}
			if href, ok := firstHref(z); ok {
				links = append(links, href)
			}
		}
	}
}

// firstHref scans the current tag's attributes and returns the first
// non-empty href value. Attribute keys arrive lowercased from the
// tokenizer, which gives us the required case-insensitive matching.
func firstHref(z *html.Tokenizer) (string, bool) {
	for {
		key, val, more := z.TagAttr()
		if string(key) == "href" && len(val) > 0 {
			return string(val), true
		}
		if !more {
			return "", false
		}
	}
}
