// Package extractor turns statement documents into page text. It is the only
// place that knows about file formats; everything downstream works on lines.
package extractor

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

var (
	// ErrUnsupported is returned for documents no extractor is registered for.
	ErrUnsupported = errors.New("unsupported document type")
	// ErrNoText is returned when a document holds text that cannot be decoded.
	ErrNoText = errors.New("no readable text could be extracted")
)

// Extractor returns the text of a document, one string per page with lines
// separated by "\n".
type Extractor interface {
	ExtractText(path string) ([]string, error)
}

// PlainText reads pre-extracted statements. Pages are separated by form feeds,
// the way pdftotext writes them.
type PlainText struct{}

func (PlainText) ExtractText(path string) ([]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return SplitPages(string(data), "\f"), nil
}

// SplitPages splits text on sep and drops blank pages.
func SplitPages(text, sep string) []string {
	var pages []string
	for _, page := range strings.Split(text, sep) {
		if strings.TrimSpace(page) != "" {
			pages = append(pages, page)
		}
	}
	return pages
}

// Registry routes a document to the extractor registered for its file
// extension. Keys are lower-case and include the dot.
type Registry map[string]Extractor

// NewRegistry returns the extractors for PDF and plain-text statements.
func NewRegistry(pdftotext bool) Registry {
	return Registry{
		".pdf": &PDF{Pdftotext: pdftotext},
		".txt": PlainText{},
	}
}

// Supports reports whether a document of this type can be extracted.
func (r Registry) Supports(path string) bool {
	_, ok := r[strings.ToLower(filepath.Ext(path))]
	return ok
}

// Restrict returns a registry limited to the given extensions.
func (r Registry) Restrict(exts []string) Registry {
	out := make(Registry, len(exts))
	for _, ext := range exts {
		ext = strings.ToLower(strings.TrimSpace(ext))
		if !strings.HasPrefix(ext, ".") {
			ext = "." + ext
		}
		if e, ok := r[ext]; ok {
			out[ext] = e
		}
	}
	return out
}

// Extensions lists the registered extensions in sorted order.
func (r Registry) Extensions() []string {
	exts := make([]string, 0, len(r))
	for ext := range r {
		exts = append(exts, ext)
	}
	sort.Strings(exts)
	return exts
}

func (r Registry) ExtractText(path string) ([]string, error) {
	ext := strings.ToLower(filepath.Ext(path))
	e, ok := r[ext]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnsupported, ext)
	}
	return e.ExtractText(path)
}
