package crawler

import (
	"bytes"
	"context"
	"log/slog"
	"net/url"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/shiromoto/siteindex/internal/extract"
	"github.com/shiromoto/siteindex/internal/fetch"
	"github.com/shiromoto/siteindex/internal/frontier"
	"github.com/shiromoto/siteindex/internal/index"
	"github.com/shiromoto/siteindex/internal/model"
	"github.com/shiromoto/siteindex/internal/scope"
	"github.com/shiromoto/siteindex/internal/store"
)

// Crawler walks a site breadth-first from a seed URL and builds the
// positional inverted index of its visible text, flushing snapshots to
// the persistence sink as it goes.
//
// Fetching and HTML extraction run on a pool of workers, but the index
// and the frontier seen-set have a single writer: the coordinator loop
// inside Run. That keeps dedup and position-append ordering
// deterministic per document even though inter-document fetch order is
// not.
type Crawler struct {
	fetcher *fetch.Fetcher
	policy  *scope.Policy
	sink    store.Sink
	logger  *slog.Logger

	// flushEvery is the number of indexed pages between snapshot flushes.
	flushEvery int

	// maxPages caps the number of indexed pages. 0 means unlimited.
	maxPages int

	// workers is the size of the fetch pool.
	workers int

	// delay is the politeness pause between dispatched fetches.
	delay time.Duration

	// topTerms is how many high-frequency terms the report lists.
	topTerms int
}

// Option configures a Crawler.
type Option func(*Crawler)

// WithLogger sets a custom logger. Defaults to slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(c *Crawler) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithFlushEvery sets the number of indexed pages between snapshot
// flushes.
func WithFlushEvery(n int) Option {
	return func(c *Crawler) {
		if n > 0 {
			c.flushEvery = n
		}
	}
}

// WithMaxPages caps the number of pages indexed. 0 means unlimited.
func WithMaxPages(n int) Option {
	return func(c *Crawler) {
		if n >= 0 {
			c.maxPages = n
		}
	}
}

// WithWorkers sets the number of concurrent fetchers.
func WithWorkers(n int) Option {
	return func(c *Crawler) {
		if n > 0 {
			c.workers = n
		}
	}
}

// WithDelay sets the politeness delay between dispatched fetches.
func WithDelay(d time.Duration) Option {
	return func(c *Crawler) {
		if d >= 0 {
			c.delay = d
		}
	}
}

// WithTopTerms sets how many high-frequency terms the crawl report
// lists.
func WithTopTerms(n int) Option {
	return func(c *Crawler) {
		if n >= 0 {
			c.topTerms = n
		}
	}
}

// New creates a Crawler. The fetcher, policy, and sink are required
// collaborators; behavior is tuned through options.
func New(fetcher *fetch.Fetcher, policy *scope.Policy, sink store.Sink, opts ...Option) *Crawler {
	c := &Crawler{
		fetcher:    fetcher,
		policy:     policy,
		sink:       sink,
		flushEvery: 50,
		workers:    1,
		topTerms:   10,
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.logger == nil {
		c.logger = slog.Default()
	}
	return c
}

// result is what a fetch worker hands back to the coordinator:
// either the extracted text and raw hrefs of an indexable page, or the
// reason the URL was abandoned. Every failure is a permanent skip; no
// URL is retried within a run.
type result struct {
	url   string
	text  string
	links []string

	// skip is one of the model.Skip* reasons, empty for indexable pages.
	skip string
	// err carries the underlying error for logging, when there is one.
	err error
}

// Run crawls from seed until the frontier drains, the page cap is hit,
// or ctx is cancelled. The index is flushed every flushEvery pages and
// once more before returning, including after cancellation, so partial
// progress always survives.
func (c *Crawler) Run(ctx context.Context, seed string) (*model.CrawlReport, error) {
	start := time.Now()

	seedURL := Normalize(seed)
	idx := index.New()
	front := frontier.New()
	front.Enqueue(seedURL)

	jobs := make(chan string)
	results := make(chan result)

	var pool errgroup.Group
	for range c.workers {
		pool.Go(func() error {
			for pageURL := range jobs {
				results <- c.process(ctx, pageURL)
			}
			return nil
		})
	}

	var (
		inFlight int
		indexed  int
		flushes  int
		skipped  = make(map[string]int)
		stopped  bool
	)

	for {
		// Keep every worker busy while URLs are waiting. Ineligible URLs
		// are dropped here without occupying a worker; they are already
		// marked seen and will never be retried.
		for !stopped && inFlight < c.workers {
			pageURL, ok := front.Dequeue()
			if !ok {
				break
			}
			if !c.policy.Eligible(pageURL) {
				skipped[model.SkipIneligible]++
				c.logger.Debug("skipping out-of-scope URL", "url", pageURL)
				continue
			}
			jobs <- pageURL
			inFlight++

			if c.delay > 0 {
				select {
				case <-ctx.Done():
					stopped = true
				case <-time.After(c.delay):
				}
			}
		}

		// Frontier drained and nothing in flight: the crawl is done.
		if inFlight == 0 {
			break
		}

		res := <-results
		inFlight--

		select {
		case <-ctx.Done():
			if !stopped {
				c.logger.Warn("crawl interrupted, draining in-flight fetches")
				stopped = true
			}
		default:
		}

		if res.skip != "" {
			skipped[res.skip]++
			continue
		}

		tokens := idx.AddDocument(res.url, extract.Tokens(res.text))
		indexed++
		c.logger.Debug("indexed page",
			"url", res.url,
			"tokens", tokens,
			"links", len(res.links),
		)

		c.enqueueLinks(res.url, res.links, front)

		if c.maxPages > 0 && indexed >= c.maxPages {
			if !stopped {
				c.logger.Info("page cap reached", "maxPages", c.maxPages)
				stopped = true
			}
		}

		if indexed%c.flushEvery == 0 {
			c.logger.Info("crawl progress",
				"pagesIndexed", indexed,
				"queueDepth", front.Len(),
				"terms", idx.TermCount(),
			)
			if err := c.flush(ctx, idx); err != nil {
				c.logger.Error("flush failed", "error", err)
			} else {
				flushes++
			}
		}
	}

	close(jobs)
	_ = pool.Wait() //nolint:errcheck // Workers never return errors

	// Final flush, even after cancellation: partial progress must
	// survive interruption.
	if err := c.flush(context.WithoutCancel(ctx), idx); err != nil {
		return nil, err
	}
	flushes++

	report := &model.CrawlReport{
		Seed:         seedURL,
		Domain:       c.policy.Domain(),
		Prefix:       c.policy.Prefix(),
		PagesIndexed: indexed,
		PagesSkipped: skipped,
		URLsSeen:     front.SeenCount(),
		TermCount:    idx.TermCount(),
		DocCount:     idx.DocCount(),
		Flushes:      flushes,
		Elapsed:      time.Since(start),
		Output:       c.sink.Location(),
	}
	for _, td := range idx.TopTerms(c.topTerms) {
		report.TopTerms = append(report.TopTerms, model.TermFrequency{Term: td.Term, Docs: td.Docs})
	}

	c.logger.Info("crawl finished",
		"pagesIndexed", indexed,
		"urlsSeen", front.SeenCount(),
		"terms", idx.TermCount(),
		"elapsed", report.Elapsed.Round(time.Millisecond),
	)
	return report, nil
}

// process fetches one URL and extracts its text and links.
// It runs on a worker and must not touch the index or the frontier.
func (c *Crawler) process(ctx context.Context, pageURL string) result {
	page, err := c.fetcher.Fetch(ctx, pageURL)
	if err != nil {
		c.logger.Warn("fetch failed", "url", pageURL, "error", err)
		return result{url: pageURL, skip: model.SkipFetch, err: err}
	}
	if !page.IsSuccess() {
		c.logger.Warn("unexpected status", "url", pageURL, "status", page.StatusCode)
		return result{url: pageURL, skip: model.SkipStatus}
	}
	if !page.IsHTML() {
		c.logger.Warn("skipping non-HTML content", "url", pageURL, "contentType", page.ContentType)
		return result{url: pageURL, skip: model.SkipContentType}
	}

	// A parse failure abandons the whole document: it is neither indexed
	// nor are its links followed.
	text, err := extract.Text(bytes.NewReader(page.Body))
	if err != nil {
		c.logger.Warn("text extraction failed", "url", pageURL, "error", err)
		return result{url: pageURL, skip: model.SkipParse, err: err}
	}
	links, err := extract.Links(bytes.NewReader(page.Body))
	if err != nil {
		c.logger.Warn("link extraction failed", "url", pageURL, "error", err)
		return result{url: pageURL, skip: model.SkipParse, err: err}
	}

	return result{url: pageURL, text: text, links: links}
}

// enqueueLinks resolves the raw hrefs of a page against the page's own
// URL and enqueues those that pass the scope policy. Resolving against
// the current document rather than the seed is what makes relative links
// on nested pages land on the right target.
func (c *Crawler) enqueueLinks(pageURL string, hrefs []string, front *frontier.Frontier) {
	base, err := url.Parse(pageURL)
	if err != nil {
		return
	}
	for _, href := range hrefs {
		link := resolveLink(base, href)
		if link == "" || !c.policy.Eligible(link) {
			continue
		}
		front.Enqueue(link)
	}
}

// flush hands a read-consistent snapshot to the persistence sink.
// The snapshot is taken synchronously but the copy is cheap relative to
// network I/O, so in-flight fetches are not held up.
func (c *Crawler) flush(ctx context.Context, idx *index.Index) error {
	snap := idx.Snapshot()
	if err := c.sink.Write(ctx, snap); err != nil {
		return err
	}
	c.logger.Info("flushed index",
		"terms", snap.TermCount(),
		"output", c.sink.Location(),
	)
	return nil
}

// resolveLink resolves one raw href against the page it appeared on and
// returns the normalized absolute URL, or empty for hrefs that cannot
// become fetchable pages (scripts, mail links, bare fragments).
func resolveLink(base *url.URL, href string) string {
	href = strings.TrimSpace(href)
	if href == "" || strings.HasPrefix(href, "#") {
		return ""
	}
	lower := strings.ToLower(href)
	for _, scheme := range []string{"javascript:", "mailto:", "tel:", "data:"} {
		if strings.HasPrefix(lower, scheme) {
			return ""
		}
	}

	ref, err := url.Parse(href)
	if err != nil {
		return ""
	}
	return Normalize(base.ResolveReference(ref).String())
}

// Normalize puts a URL in the canonical form the frontier compares:
// fragment stripped, scheme and host lowercased, empty path replaced by
// "/" so "http://example.com" and "http://example.com/" dedup to the
// same entry. Unparseable input is returned as-is.
func Normalize(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return rawURL
	}

	u.Fragment = ""
	u.Scheme = strings.ToLower(u.Scheme)
	u.Host = strings.ToLower(u.Host)
	if u.Path == "" {
		u.Path = "/"
	}
	return u.String()
}
