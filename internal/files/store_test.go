package files

import (
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStore_SaveOpen(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "uploads")
	s := NewStore(dir)

	name, err := s.Save("report.txt", strings.NewReader("hello"))
	require.NoError(t, err)
	assert.Equal(t, "report.txt", name)

	f, info, err := s.Open("report.txt")
	require.NoError(t, err)
	defer f.Close()

	data, err := io.ReadAll(f)
	require.NoError(t, err)
	assert.Equal(t, "hello", string(data))
	assert.Equal(t, int64(5), info.Size())

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1, "temp file must be renamed away")
}

func TestStore_SaveOverwrites(t *testing.T) {
	s := NewStore(t.TempDir())

	_, err := s.Save("a.txt", strings.NewReader("first"))
	require.NoError(t, err)
	_, err = s.Save("a.txt", strings.NewReader("second"))
	require.NoError(t, err)

	f, _, err := s.Open("a.txt")
	require.NoError(t, err)
	defer f.Close()

	data, _ := io.ReadAll(f)
	assert.Equal(t, "second", string(data))
}

func TestStore_PathTraversal(t *testing.T) {
	root := t.TempDir()
	s := NewStore(filepath.Join(root, "uploads"))

	name, err := s.Save("../../escape.txt", strings.NewReader("x"))
	require.NoError(t, err)
	assert.Equal(t, "escape.txt", name)

	_, err = os.Stat(filepath.Join(root, "escape.txt"))
	assert.True(t, os.IsNotExist(err))

	_, err = os.Stat(filepath.Join(root, "uploads", "escape.txt"))
	assert.NoError(t, err)
}

func TestStore_InvalidNames(t *testing.T) {
	s := NewStore(t.TempDir())

	for _, name := range []string{"", ".", "..", "/", ".upload-123"} {
		_, err := s.Save(name, strings.NewReader("x"))
		assert.ErrorIs(t, err, ErrInvalidName, "save %q", name)

		_, _, err = s.Open(name)
		assert.ErrorIs(t, err, ErrInvalidName, "open %q", name)
	}
}

func TestStore_OpenMissing(t *testing.T) {
	s := NewStore(t.TempDir())

	_, _, err := s.Open("missing.txt")
	assert.ErrorIs(t, err, ErrNotFound)
}
