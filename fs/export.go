package fs

import (
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/Sam9733/docsnap"
)

// PagePath converts a page URL to a markdown file path relative to the
// source root. The root page and directory-style URLs map to index.md.
//
//	root https://example.com/docs, page https://example.com/docs/api/users → api/users.md
func PagePath(pageURL, rootURL string) (string, error) {
	u, err := url.Parse(pageURL)
	if err != nil {
		return "", err
	}
	root, err := url.Parse(rootURL)
	if err != nil {
		return "", err
	}

	p := u.Path
	if u.Host == root.Host {
		rootPath := strings.TrimSuffix(root.Path, "/")
		if p == rootPath || strings.HasPrefix(p, rootPath+"/") {
			p = strings.TrimPrefix(p, rootPath)
		}
	}

	p = strings.TrimPrefix(path.Clean("/"+p), "/")
	switch {
	case p == "" || p == ".":
		return "index.md", nil
	case strings.HasSuffix(u.Path, "/"):
		return p + "/index.md", nil
	default:
		return p + ".md", nil
	}
}

// FormatPage renders a page as markdown with YAML frontmatter.
func FormatPage(page docsnap.PageRecord, capturedAt time.Time) string {
	var b strings.Builder
	b.WriteString("---\n")
	b.WriteString("source: ")
	b.WriteString(page.URL)
	b.WriteString("\ntitle: ")
	b.WriteString(page.Title)
	b.WriteString("\ncaptured: ")
	b.WriteString(capturedAt.UTC().Format(time.RFC3339))
	if page.ContentHash != "" {
		b.WriteString("\nhash: ")
		b.WriteString(page.ContentHash)
	}
	b.WriteString("\n---\n\n")
	b.WriteString(page.Body)
	b.WriteString("\n")
	return b.String()
}

// Export writes every page of snap under dir as a markdown file and returns
// the number of files written. Pages mapping to the same path keep the
// first one.
func Export(snap *docsnap.Snapshot, dir string) (int, error) {
	written := make(map[string]bool, len(snap.Pages))
	for _, page := range snap.Pages {
		rel, err := PagePath(page.URL, snap.RootURL)
		if err != nil {
			return len(written), err
		}
		if written[rel] {
			continue
		}

		full := filepath.Join(dir, filepath.FromSlash(rel))
		if err := os.MkdirAll(filepath.Dir(full), 0755); err != nil {
			return len(written), err
		}
		if err := os.WriteFile(full, []byte(FormatPage(page, snap.CapturedAt)), 0644); err != nil {
			return len(written), err
		}
		written[rel] = true
	}
	return len(written), nil
}
