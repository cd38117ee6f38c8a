// Package goquery implements docsnap.Extractor on top of goquery.
package goquery

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"
	"github.com/Sam9733/docsnap"
	"github.com/cespare/xxhash/v2"
)

// Ensure Extractor implements docsnap.Extractor at compile time.
var _ docsnap.Extractor = (*Extractor)(nil)

// noiseSelector matches elements removed before text extraction.
const noiseSelector = "script, style, noscript, nav, header, footer"

// Extractor strips boilerplate elements and extracts a page's text and links.
type Extractor struct {
	// MaxBodyChars truncates body text. Defaults to docsnap.MaxBodyChars.
	MaxBodyChars int

	// MinContentChars is the shortest body kept. Defaults to docsnap.MinContentChars.
	MinContentChars int
}

// NewExtractor creates a new Extractor with default limits.
func NewExtractor() *Extractor {
	return &Extractor{
		MaxBodyChars:    docsnap.MaxBodyChars,
		MinContentChars: docsnap.MinContentChars,
	}
}

// Extract parses html and returns the page record and its in-scope links.
// Pages whose text is shorter than MinContentChars are returned with Skip set.
func (e *Extractor) Extract(html, pageURL, rootURL string) (*docsnap.Extraction, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, docsnap.Errorf(docsnap.EINVALID, "failed to parse HTML: %v", err)
	}

	title := extractTitle(doc)

	// Links inside removed navigation chrome are not followed.
	doc.Find(noiseSelector).Remove()
	links, err := ExtractLinks(doc, pageURL, rootURL)
	if err != nil {
		return nil, err
	}

	body := doc.Find("body")
	if body.Length() == 0 {
		body = doc.Selection
	}
	text := CollapseWhitespace(body.Text())

	if utf8.RuneCountInString(text) < e.minContent() {
		return &docsnap.Extraction{Skip: true, Links: links}, nil
	}

	text = Truncate(text, e.maxBody())
	return &docsnap.Extraction{
		Page: &docsnap.PageRecord{
			URL:         pageURL,
			Title:       title,
			Body:        text,
			ContentHash: fmt.Sprintf("%016x", xxhash.Sum64String(text)),
		},
		Links: links,
	}, nil
}

func (e *Extractor) maxBody() int {
	if e.MaxBodyChars <= 0 {
		return docsnap.MaxBodyChars
	}
	return e.MaxBodyChars
}

func (e *Extractor) minContent() int {
	if e.MinContentChars < 0 {
		return 0
	}
	if e.MinContentChars == 0 {
		return docsnap.MinContentChars
	}
	return e.MinContentChars
}

// extractTitle returns the document title, or "Untitled" when it is blank.
func extractTitle(doc *goquery.Document) string {
	if title := CollapseWhitespace(doc.Find("title").First().Text()); title != "" {
		return title
	}
	return docsnap.UntitledPage
}

// CollapseWhitespace replaces every run of whitespace with a single space
// and trims the ends.
func CollapseWhitespace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// Truncate cuts s to at most n characters without splitting a rune.
func Truncate(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	runes := []rune(s)
	return string(runes[:n])
}
