// Package fetch provides the HTTP fetch capability used by the crawl
// loop: fetch-by-URL with a bounded timeout, returning status, headers,
// and body.
package fetch
