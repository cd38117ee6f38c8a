package docsnap

// Extraction holds the outcome of extracting one page.
type Extraction struct {
	// Page is nil when Skip is set.
	Page *PageRecord

	// Skip reports that the page had too little content to keep.
	// A skipped page is not an error; the crawl moves on without it.
	Skip bool

	// Links are absolute outbound links inside the root URL, in document order.
	Links []string
}

// Extractor turns raw HTML into a page record and its outbound links.
type Extractor interface {
	// Extract strips non-content elements from html and returns the page's
	// title, normalized body text and the links that start with rootURL.
	// pageURL resolves relative links.
	Extract(html, pageURL, rootURL string) (*Extraction, error)
}
