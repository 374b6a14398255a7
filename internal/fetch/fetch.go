package fetch

import (
	"context"
	"io"
	"net/http"
	"time"

	"github.com/shiromoto/siteindex/internal/model"
)

// Default fetcher settings.
const (
	// DefaultTimeout bounds a single page fetch, matching the original
	// crawler's per-request timeout.
	DefaultTimeout = 10 * time.Second

	// DefaultMaxBodySize caps the response body read. 5MB is sufficient
	// for HTML pages while preventing memory exhaustion from
	// unexpectedly large responses.
	DefaultMaxBodySize = 5 * 1024 * 1024

	// DefaultUserAgent identifies the indexer in HTTP requests so site
	// operators can recognize crawler traffic in their logs.
	DefaultUserAgent = "siteindex/1.0 (+https://github.com/shiromoto/siteindex)"
)

// Fetcher retrieves pages over HTTP. It wraps an *http.Client with a
// per-request timeout, a User-Agent, and a body size cap.
//
// Design decision: We accept an external client rather than constructing
// one because it allows tests to inject httptest server clients, and it
// keeps transport concerns (proxies, TLS) out of this package.
type Fetcher struct {
	client      *http.Client
	timeout     time.Duration
	userAgent   string
	maxBodySize int64
}

// Option configures a Fetcher.
type Option func(*Fetcher)

// WithTimeout sets the per-request timeout.
func WithTimeout(d time.Duration) Option {
	return func(f *Fetcher) {
		if d > 0 {
			f.timeout = d
		}
	}
}

// WithUserAgent sets a custom User-Agent header.
func WithUserAgent(ua string) Option {
	return func(f *Fetcher) {
		if ua != "" {
			f.userAgent = ua
		}
	}
}

// WithMaxBodySize sets the maximum response body size in bytes.
func WithMaxBodySize(size int64) Option {
	return func(f *Fetcher) {
		if size > 0 {
			f.maxBodySize = size
		}
	}
}

// New creates a Fetcher using the given HTTP client.
// A nil client falls back to http.DefaultClient.
func New(client *http.Client, opts ...Option) *Fetcher {
	if client == nil {
		client = http.DefaultClient
	}
	f := &Fetcher{
		client:      client,
		timeout:     DefaultTimeout,
		userAgent:   DefaultUserAgent,
		maxBodySize: DefaultMaxBodySize,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Timeout returns the configured per-request timeout.
func (f *Fetcher) Timeout() time.Duration {
	return f.timeout
}

// Fetch retrieves the page at pageURL. The request is bounded by the
// fetcher's timeout on top of any deadline already carried by ctx, so a
// stuck server cannot hang the crawl.
//
// An error is returned only for transport-level failures (connection,
// timeout, body read). Non-2xx responses are returned as pages; the
// caller decides how to treat them.
func (f *Fetcher) Fetch(ctx context.Context, pageURL string) (*model.Page, error) {
	ctx, cancel := context.WithTimeout(ctx, f.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", f.userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml;q=0.9,*/*;q=0.8")

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, f.maxBodySize))
	if err != nil {
		return nil, err
	}

	return &model.Page{
		URL:         pageURL,
		StatusCode:  resp.StatusCode,
		Headers:     resp.Header,
		ContentType: resp.Header.Get("Content-Type"),
		Body:        body,
	}, nil
}
