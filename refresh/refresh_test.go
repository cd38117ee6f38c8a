package refresh_test

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/Sam9733/docsnap"
	"github.com/Sam9733/docsnap/crawl"
	"github.com/Sam9733/docsnap/goquery"
	"github.com/Sam9733/docsnap/mock"
)

// htmlPage renders a page with enough text to be kept and the given links.
func htmlPage(title string, links ...string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "<html><head><title>%s</title></head><body><main><p>", title)
	b.WriteString(strings.Repeat(title+" documentation text. ", 10))
	b.WriteString("</p>")
	for _, l := range links {
		fmt.Fprintf(&b, `<a href="%s">link</a>`, l)
	}
	b.WriteString("</main></body></html>")
	return b.String()
}

// fakeWeb serves HTML by URL. Unknown URLs fail permanently; URLs listed
// in down fail transiently.
type fakeWeb struct {
	mu    sync.Mutex
	pages map[string]string
	down  map[string]bool
	hits  map[string]int
}

func newFakeWeb() *fakeWeb {
	return &fakeWeb{pages: map[string]string{}, down: map[string]bool{}, hits: map[string]int{}}
}

func (w *fakeWeb) set(u, html string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.pages[u] = html
}

func (w *fakeWeb) setDown(u string, down bool) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.down[u] = down
}

func (w *fakeWeb) hitCount(u string) int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.hits[u]
}

func (w *fakeWeb) fetcher() *mock.Fetcher {
	return &mock.Fetcher{
		FetchFn: func(ctx context.Context, u string) (string, error) {
			w.mu.Lock()
			defer w.mu.Unlock()
			w.hits[u]++
			if w.down[u] {
				return "", &docsnap.FetchError{URL: u, Kind: docsnap.Transient, Err: fmt.Errorf("socket hang up")}
			}
			html, ok := w.pages[u]
			if !ok {
				return "", &docsnap.FetchError{URL: u, Kind: docsnap.Permanent, StatusCode: 404}
			}
			return html, nil
		},
		CloseFn: func() error { return nil },
	}
}

func noSleep(ctx context.Context, _ time.Duration) error { return ctx.Err() }

func newTestCrawler(w *fakeWeb) *crawl.Crawler {
	retry := crawl.DefaultRetryPolicy()
	retry.Sleep = noSleep
	return &crawl.Crawler{
		Fetcher:    w.fetcher(),
		Extractor:  goquery.NewExtractor(),
		Retry:      retry,
		Politeness: crawl.Politeness{Sleep: noSleep},
	}
}

func source(id, root string) docsnap.Source {
	return docsnap.Source{
		ID:              id,
		RootURL:         root,
		MaxPages:        docsnap.DefaultMaxPages,
		MaxLinksPerPage: docsnap.DefaultMaxLinksPerPage,
		BatchSize:       2,
	}
}

func pageURLs(snap *docsnap.Snapshot) []string {
	urls := make([]string, len(snap.Pages))
	for i, p := range snap.Pages {
		urls[i] = p.URL
	}
	return urls
}
