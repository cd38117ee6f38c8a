package docsnap

import "context"

// Page extraction limits.
const (
	// MaxBodyChars is the ceiling on a page's body text, in characters.
	MaxBodyChars = 5000

	// MinContentChars is the minimum body length for a page to be kept.
	MinContentChars = 100

	// UntitledPage is the title used when a page has none.
	UntitledPage = "Untitled"
)

// PageRecord is one crawled page. It is immutable once created.
type PageRecord struct {
	URL         string `json:"url"`
	Title       string `json:"title"`
	Body        string `json:"body"`
	ContentHash string `json:"contentHash,omitempty"`
}

// PageWriter receives the pages of one source's crawl.
type PageWriter interface {
	// Append buffers a page, persisting the buffer once it is full.
	Append(ctx context.Context, page PageRecord) error

	// Flush persists whatever is buffered. It is called once when the crawl ends.
	Flush(ctx context.Context) error
}
