package scope

import (
	"fmt"
	"net/url"
	"path"
	"strings"
)

// Policy decides whether a URL is eligible to fetch.
// It restricts the crawl to a single domain, optionally to a path prefix
// directory, and to URLs that heuristically look like HTML documents.
//
// A Policy is derived once from the seed URL and is immutable for the
// run. Eligible is a pure predicate over already-resolved absolute URLs;
// it has no side effects and is safe for concurrent use.
type Policy struct {
	// domain is the authority component every eligible URL must match
	// exactly. No subdomain matching is performed.
	domain string

	// prefix is the directory the URL path must start with.
	// Empty when prefix scoping is disabled. Always ends in "/" when set.
	prefix string
}

// htmlExtensions are the path extensions accepted by the HTML-likely
// heuristic. An empty extension and a directory-style path (trailing "/")
// are also accepted.
var htmlExtensions = map[string]bool{
	"":      true,
	".html": true,
	".htm":  true,
}

// FromSeed derives a Policy from the seed URL.
//
// When restrictPrefix is true, the policy additionally confines the crawl
// to the seed's directory: if the seed path ends in "/" the prefix is that
// path, otherwise it is everything before the last "/" plus a trailing "/".
func FromSeed(seed string, restrictPrefix bool) (*Policy, error) {
	u, err := url.Parse(seed)
	if err != nil {
		return nil, fmt.Errorf("invalid seed URL: %w", err)
	}
	if u.Host == "" {
		return nil, fmt.Errorf("seed URL %q has no host", seed)
	}

	p := &Policy{domain: u.Host}
	if restrictPrefix {
		p.prefix = prefixDir(u.Path)
	}
	return p, nil
}

// prefixDir returns the directory portion of a seed path, always ending
// in "/". An empty path maps to "/".
func prefixDir(seedPath string) string {
	if seedPath == "" {
		return "/"
	}
	if strings.HasSuffix(seedPath, "/") {
		return seedPath
	}
	idx := strings.LastIndex(seedPath, "/")
	if idx < 0 {
		return "/"
	}
	return seedPath[:idx+1]
}

// Domain returns the domain the policy is scoped to.
func (p *Policy) Domain() string {
	return p.domain
}

// Prefix returns the path prefix the policy is scoped to,
// or empty when prefix scoping is disabled.
func (p *Policy) Prefix() string {
	return p.prefix
}

// PrefixName returns the last segment of the prefix directory, used to
// derive output filenames ("/html/sp/" yields "sp"). Returns "root" when
// the prefix is empty or the root directory.
func (p *Policy) PrefixName() string {
	trimmed := strings.Trim(p.prefix, "/")
	if trimmed == "" {
		return "root"
	}
	segments := strings.Split(trimmed, "/")
	return segments[len(segments)-1]
}

// Eligible reports whether the absolute URL passes the domain, prefix,
// and HTML-likely tests. Unparseable URLs are ineligible.
func (p *Policy) Eligible(raw string) bool {
	u, err := url.Parse(raw)
	if err != nil {
		return false
	}

	// Hostnames are case-insensitive per RFC 3986, so the exact-domain
	// match folds case.
	if !strings.EqualFold(u.Host, p.domain) {
		return false
	}

	if p.prefix != "" && !strings.HasPrefix(u.Path, p.prefix) {
		return false
	}

	return likelyHTML(u.Path)
}

// likelyHTML reports whether a URL path looks like it points at an HTML
// document: directory-style paths and the known HTML extensions pass,
// anything else (".pdf", ".jpg", ...) is rejected.
func likelyHTML(urlPath string) bool {
	if strings.HasSuffix(urlPath, "/") {
		return true
	}
	return htmlExtensions[strings.ToLower(path.Ext(urlPath))]
}
