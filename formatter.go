package docsnap

import (
	"strings"
	"time"
)

// FormatPages renders pages as plain text context, one section per page.
// Sections are headed by the page title, or by its URL when untitled, and
// separated by blank lines.
func FormatPages(pages []PageRecord) string {
	if len(pages) == 0 {
		return ""
	}

	parts := make([]string, 0, len(pages))
	for _, p := range pages {
		header := p.Title
		if header == "" || header == UntitledPage {
			header = p.URL
		}
		parts = append(parts, "## Page: "+header+"\nSource: "+p.URL+"\n"+p.Body)
	}

	return strings.Join(parts, "\n\n")
}

// FormatSnapshot renders a snapshot with a header naming its source and
// capture time, followed by FormatPages of its pages.
func FormatSnapshot(snap *Snapshot) string {
	var b strings.Builder
	b.WriteString("# Source: ")
	b.WriteString(snap.SourceID)
	b.WriteString("\nLast updated: ")
	b.WriteString(snap.CapturedAt.UTC().Format(time.RFC3339))
	if body := FormatPages(snap.Pages); body != "" {
		b.WriteString("\n\n")
		b.WriteString(body)
	}
	return b.String()
}
