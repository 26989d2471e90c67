package static

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func newStore(t *testing.T) *FileStore {
	t.Helper()

	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "user"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "index.html"), []byte("<h1>index</h1>"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "user", "login.html"), []byte("login"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(filepath.Dir(dir), "secret.txt"), []byte("secret"), 0o644))

	s, err := NewFileStore(dir)
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestReadFile(t *testing.T) {
	s := newStore(t)

	body, err := s.ReadFile("/index.html")
	require.NoError(t, err)
	require.Equal(t, "<h1>index</h1>", string(body))

	body, err = s.ReadFile("/user/login.html")
	require.NoError(t, err)
	require.Equal(t, "login", string(body))
}

func TestReadFileNotFound(t *testing.T) {
	s := newStore(t)

	for _, p := range []string{"/", "/missing.html", "/user", "/../secret.txt", "/user/../../secret.txt"} {
		_, err := s.ReadFile(p)
		if !errors.Is(err, ErrNotFound) {
			t.Errorf("Path %s: expected ErrNotFound, got %v", p, err)
		}
		if !errors.Is(err, fs.ErrNotExist) {
			t.Errorf("Path %s: expected fs.ErrNotExist, got %v", p, err)
		}
	}
}

func TestNewFileStoreMissingRoot(t *testing.T) {
	_, err := NewFileStore(filepath.Join(t.TempDir(), "nope"))
	require.Error(t, err)
}
