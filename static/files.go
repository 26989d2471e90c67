package static

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"strings"
)

// ErrNotFound reports a path with no readable file under the root
var ErrNotFound = fmt.Errorf("static file: %w", fs.ErrNotExist)

// FileStore reads files below a document root.
// Paths that would leave the root are treated as not found.
type FileStore struct {
	root *os.Root
	dir  string
}

// NewFileStore opens dir as the document root
func NewFileStore(dir string) (*FileStore, error) {
	root, err := os.OpenRoot(dir)
	if err != nil {
		return nil, fmt.Errorf("open webroot %s: %w", dir, err)
	}
	return &FileStore{root: root, dir: dir}, nil
}

// Dir returns the document root directory
func (s *FileStore) Dir() string {
	return s.dir
}

// ReadFile returns the contents of the file at request path p ("/index.html")
func (s *FileStore) ReadFile(p string) ([]byte, error) {
	name := strings.TrimPrefix(p, "/")
	if name == "" {
		return nil, ErrNotFound
	}

	f, err := s.root.Open(name)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) || isEscape(err) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, p)
		}
		return nil, err
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return nil, err
	}
	if info.IsDir() {
		return nil, fmt.Errorf("%w: %s is a directory", ErrNotFound, p)
	}

	return io.ReadAll(f)
}

// Close releases the document root
func (s *FileStore) Close() error {
	return s.root.Close()
}

// isEscape matches os.Root's error for paths outside the root
func isEscape(err error) bool {
	var pe *fs.PathError
	return errors.As(err, &pe) && strings.Contains(pe.Err.Error(), "escapes from parent")
}
