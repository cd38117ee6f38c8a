package mock

import "github.com/Sam9733/docsnap"

var _ docsnap.Extractor = (*Extractor)(nil)

// Extractor is a mock implementation of docsnap.Extractor.
type Extractor struct {
	ExtractFn func(html, pageURL, rootURL string) (*docsnap.Extraction, error)
}

func (e *Extractor) Extract(html, pageURL, rootURL string) (*docsnap.Extraction, error) {
	return e.ExtractFn(html, pageURL, rootURL)
}
