package pipeline

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/insightdelivered/statement-extractor/internal/extractor"
)

// ErrNoDocuments is returned when the input path yields nothing to process.
var ErrNoDocuments = errors.New("no statement documents found")

// Discover resolves the input path into the documents to process. A single
// file must be of a supported type. A directory is walked recursively and
// every supported file is returned in walk order, which compares paths
// element by element (a/b.pdf before a-c.pdf).
func Discover(path string, supports func(string) bool) ([]string, error) {
	info, err := os.Stat(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%w: %s does not exist", ErrNoDocuments, path)
	}
	if err != nil {
		return nil, err
	}

	if !info.IsDir() {
		if !supports(path) {
			return nil, fmt.Errorf("%w: %s", extractor.ErrUnsupported, path)
		}
		return []string{path}, nil
	}

	var docs []string
	err = filepath.WalkDir(path, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() && supports(p) {
			docs = append(docs, p)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walk %s: %w", path, err)
	}
	if len(docs) == 0 {
		return nil, fmt.Errorf("%w in %s", ErrNoDocuments, path)
	}
	return docs, nil
}
