package docsnap

import "strings"

// Default per-source crawl limits.
const (
	DefaultMaxPages        = 50
	DefaultMaxLinksPerPage = 5
	DefaultBatchSize       = 10
)

// Source is a named crawl target. Sources are defined at startup and never
// change while the process runs.
type Source struct {
	ID              string `json:"id" mapstructure:"id"`
	RootURL         string `json:"rootUrl" mapstructure:"root_url"`
	MaxPages        int    `json:"maxPages" mapstructure:"max_pages"`
	MaxLinksPerPage int    `json:"maxLinksPerPage" mapstructure:"max_links_per_page"`
	BatchSize       int    `json:"batchSize" mapstructure:"batch_size"`
}

// Validate returns an error if the source contains invalid fields.
func (s *Source) Validate() error {
	if s.ID == "" {
		return Errorf(EINVALID, "source ID required")
	}
	if s.RootURL == "" {
		return Errorf(EINVALID, "source %q root URL required", s.ID)
	}
	if s.MaxPages <= 0 {
		return Errorf(EINVALID, "source %q max pages must be positive", s.ID)
	}
	if s.MaxLinksPerPage <= 0 {
		return Errorf(EINVALID, "source %q max links per page must be positive", s.ID)
	}
	if s.BatchSize <= 0 {
		return Errorf(EINVALID, "source %q batch size must be positive", s.ID)
	}
	return nil
}

// ApplyDefaults fills unset crawl limits with the package defaults.
func (s *Source) ApplyDefaults() {
	if s.MaxPages == 0 {
		s.MaxPages = DefaultMaxPages
	}
	if s.MaxLinksPerPage == 0 {
		s.MaxLinksPerPage = DefaultMaxLinksPerPage
	}
	if s.BatchSize == 0 {
		s.BatchSize = DefaultBatchSize
	}
}

// Contains reports whether url lies inside the source.
//
// Confinement is a plain prefix match on the root URL string, so a root of
// https://example.com/direction also admits https://example.com/direction-extra.
func (s *Source) Contains(url string) bool {
	return strings.HasPrefix(url, s.RootURL)
}

// SourceIDs returns the IDs of sources in order.
func SourceIDs(sources []Source) []string {
	ids := make([]string, len(sources))
	for i, s := range sources {
		ids[i] = s.ID
	}
	return ids
}
