package crawl

import (
	"github.com/Sam9733/docsnap"
	"github.com/Sam9733/docsnap/bloom"
)

// frontierFalsePositiveRate is the Bloom filter rate of the dedup sets.
// Hits are confirmed against an exact set; the rate only decides how often.
const (
	frontierFalsePositiveRate = 0.01
	frontierMinURLs           = 64
)

// FrontierCapacity returns the most URLs a crawl of src can ever queue:
// the root plus MaxLinksPerPage links from each of MaxPages pages.
func FrontierCapacity(src docsnap.Source) uint {
	n := src.MaxPages*src.MaxLinksPerPage + 1
	if n < frontierMinURLs {
		return frontierMinURLs
	}
	return uint(n)
}

// Frontier tracks the pending and visited URLs of a single crawl.
// Pending URLs are served first-in first-out, giving a breadth-first walk.
// It is not safe for concurrent use; each crawl owns its frontier.
type Frontier struct {
	visited *bloom.Set
	queued  *bloom.Set
	queue   []string
}

// NewFrontier creates an empty Frontier whose filters are sized for
// capacity URLs. Exceeding it only raises the filter's hit rate.
func NewFrontier(capacity uint) *Frontier {
	return &Frontier{
		visited: bloom.NewSet(capacity, frontierFalsePositiveRate),
		queued:  bloom.NewSet(capacity, frontierFalsePositiveRate),
	}
}

// Push appends url to the queue.
// Returns false if the URL has already been visited or queued.
func (f *Frontier) Push(url string) bool {
	if f.visited.Has(url) {
		return false
	}
	if !f.queued.Add(url) {
		return false
	}
	f.queue = append(f.queue, url)
	return true
}

// Pop removes and returns the oldest queued URL.
// The bool result is false if the queue is empty.
func (f *Frontier) Pop() (string, bool) {
	if len(f.queue) == 0 {
		return "", false
	}
	url := f.queue[0]
	f.queue[0] = ""
	f.queue = f.queue[1:]
	return url, true
}

// Visit marks url as visited. Returns false if it already was.
func (f *Frontier) Visit(url string) bool {
	return f.visited.Add(url)
}

// Visited reports whether url has been visited.
func (f *Frontier) Visited(url string) bool {
	return f.visited.Has(url)
}

// Queued reports whether url has ever been queued.
func (f *Frontier) Queued(url string) bool {
	return f.queued.Has(url)
}

// Len returns the number of URLs waiting in the queue.
func (f *Frontier) Len() int {
	return len(f.queue)
}

// VisitedCount returns the number of visited URLs.
func (f *Frontier) VisitedCount() int {
	return f.visited.Len()
}
