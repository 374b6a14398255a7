package frontier

import "sync"

// Frontier is the FIFO queue of URLs awaiting a fetch attempt, paired
// with the set of URLs already seen. Deduplication happens at discovery
// time: a URL enters the seen set the moment it is enqueued, so a URL
// discovered twice before being visited is enqueued only once, and once
// a URL is in the seen set it is never fetched again.
//
// The crawl loop is the only component that dequeues, but workers and
// reporting may observe the frontier concurrently, so access is
// mutex-guarded.
type Frontier struct {
	mu    sync.Mutex
	queue []string
	seen  map[string]struct{}
}

// New creates an empty Frontier.
func New() *Frontier {
	return &Frontier{seen: make(map[string]struct{})}
}

// Enqueue appends url to the queue and marks it seen. It is a no-op
// returning false when the URL was seen before. Callers must pass
// normalized absolute URLs; the frontier compares them as opaque strings.
func (f *Frontier) Enqueue(url string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()

	if _, ok := f.seen[url]; ok {
		return false
	}
	f.seen[url] = struct{}{}
	f.queue = append(f.queue, url)
	return true
}

// Dequeue pops the URL at the front of the queue.
// The second return value is false when the queue is empty.
func (f *Frontier) Dequeue() (string, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if len(f.queue) == 0 {
		return "", false
	}
	url := f.queue[0]
	f.queue = f.queue[1:]
	return url, true
}

// IsEmpty reports whether no URLs are waiting.
func (f *Frontier) IsEmpty() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.queue) == 0
}

// Len returns the number of URLs waiting in the queue.
func (f *Frontier) Len() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.queue)
}

// SeenCount returns the number of distinct URLs ever discovered.
func (f *Frontier) SeenCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.seen)
}
