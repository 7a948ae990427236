package evidence

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// ErrUnsupportedFormat is returned for evidence files of an unknown type.
var ErrUnsupportedFormat = errors.New("unsupported evidence format")

// Format is the source format of an evidence document.
type Format string

// Supported formats.
const (
	FormatHTML     Format = "html"
	FormatMarkdown Format = "markdown"
	FormatText     Format = "text"
)

// DefaultPatterns matches every supported evidence file beneath a root.
var DefaultPatterns = []string{"**/*.{html,htm,md,markdown,txt}"}

// Document is one evidence source reduced to text.
type Document struct {
	Path   string `json:"path"`
	Title  string `json:"title,omitempty"`
	Format Format `json:"format"`
	Text   string `json:"text"`
}

// FormatFor picks a format from a file extension.
func FormatFor(name string) (Format, bool) {
	switch strings.ToLower(path.Ext(filepath.ToSlash(name))) {
	case ".html", ".htm":
		return FormatHTML, true
	case ".md", ".markdown":
		return FormatMarkdown, true
	case ".txt", "":
		return FormatText, true
	default:
		return "", false
	}
}

// Parse converts raw content in format f.
func Parse(name string, f Format, content []byte) (*Document, error) {
	doc := &Document{Path: name, Format: f}
	switch f {
	case FormatHTML:
		title, markdown, err := NewHTMLConverter().Convert(content)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", name, err)
		}
		doc.Title, doc.Text = title, markdown
	case FormatMarkdown:
		doc.Text = strings.TrimSpace(string(content))
		doc.Title = firstHeading(doc.Text)
	case FormatText:
		doc.Text = strings.TrimSpace(string(content))
	default:
		return nil, fmt.Errorf("%s: %w", name, ErrUnsupportedFormat)
	}
	return doc, nil
}

// LoadFile reads one evidence file, choosing the format by extension.
func LoadFile(name string) (*Document, error) {
	f, ok := FormatFor(name)
	if !ok {
		return nil, fmt.Errorf("%s: %w", name, ErrUnsupportedFormat)
	}
	content, err := os.ReadFile(name)
	if err != nil {
		return nil, fmt.Errorf("read evidence: %w", err)
	}
	return Parse(name, f, content)
}

// Load reads every evidence file in fsys matching patterns (DefaultPatterns
// when none are given), in lexical path order.
func Load(fsys fs.FS, patterns ...string) ([]*Document, error) {
	if len(patterns) == 0 {
		patterns = DefaultPatterns
	}
	seen := make(map[string]struct{})
	var paths []string
	for _, pattern := range patterns {
		matches, err := doublestar.Glob(fsys, pattern)
		if err != nil {
			return nil, fmt.Errorf("glob %s: %w", pattern, err)
		}
		for _, m := range matches {
			if _, ok := seen[m]; !ok {
				seen[m] = struct{}{}
				paths = append(paths, m)
			}
		}
	}
	sort.Strings(paths)

	docs := make([]*Document, 0, len(paths))
	for _, p := range paths {
		f, ok := FormatFor(p)
		if !ok {
			return nil, fmt.Errorf("%s: %w", p, ErrUnsupportedFormat)
		}
		content, err := fs.ReadFile(fsys, p)
		if err != nil {
			return nil, fmt.Errorf("read evidence %s: %w", p, err)
		}
		doc, err := Parse(p, f, content)
		if err != nil {
			return nil, err
		}
		docs = append(docs, doc)
	}
	return docs, nil
}

// Combine joins document texts into one evidence corpus, separated by blank
// lines.
func Combine(docs []*Document) string {
	parts := make([]string, 0, len(docs))
	for _, d := range docs {
		if d != nil && d.Text != "" {
			parts = append(parts, d.Text)
		}
	}
	return strings.Join(parts, "\n\n")
}
