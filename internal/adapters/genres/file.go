// Package genres loads the genre catalog from a newline-delimited file.
package genres

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/ewilliams-labs/crescendo/internal/core/ports"
)

// FileSource implements ports.GenreSource over a newline-delimited catalog
// file (one genre per line, blank lines ignored).
type FileSource struct {
	path string
}

var _ ports.GenreSource = (*FileSource)(nil)

// NewFileSource constructs a FileSource for the given path.
func NewFileSource(path string) *FileSource {
	return &FileSource{path: path}
}

// AllGenres reads the catalog. It errors on a missing file or an empty
// catalog; caching is the caller's concern.
func (s *FileSource) AllGenres(_ context.Context) ([]string, error) {
	f, err := os.Open(s.path)
	if err != nil {
		return nil, fmt.Errorf("genre catalog: open %s: %w", s.path, err)
	}
	defer f.Close()

	var genres []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		genres = append(genres, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("genre catalog: read %s: %w", s.path, err)
	}
	if len(genres) == 0 {
		return nil, fmt.Errorf("genre catalog: %s is empty", s.path)
	}
	return genres, nil
}
