package model

import "strings"

// Page represents a single fetched page.
// It is transient: the crawl loop extracts text and links from it and
// discards it; only the inverted index retains information about the page.
type Page struct {
	// URL is the absolute, fragment-stripped URL the page was fetched from.
	URL string

	// StatusCode is the HTTP response status code.
	StatusCode int

	// Headers contains all HTTP response headers.
	// Keys are header names (canonicalized), values are slices of header values.
	Headers map[string][]string

	// ContentType is the MIME type of the response.
	// Extracted from the Content-Type header for convenience.
	ContentType string

	// Body contains the raw response body bytes, capped at the fetcher's
	// configured maximum body size.
	Body []byte
}

// GetHeader returns the first value of the specified header.
// Returns empty string if the header is not present.
func (p *Page) GetHeader(name string) string {
	if values, ok := p.Headers[name]; ok && len(values) > 0 {
		return values[0]
	}
	return ""
}

// IsSuccess reports whether the response status is in the 2xx range.
func (p *Page) IsSuccess() bool {
	return p.StatusCode >= 200 && p.StatusCode < 300
}

// IsHTML reports whether the page content type indicates HTML.
// Content types often carry a charset suffix ("text/html; charset=utf-8"),
// so we match on the media type prefix rather than the full string.
func (p *Page) IsHTML() bool {
	ct := strings.ToLower(p.ContentType)
	return strings.HasPrefix(ct, "text/html") ||
		strings.HasPrefix(ct, "application/xhtml+xml")
}
