package storage

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileBackend_ReadMissing(t *testing.T) {
	b := NewFileBackend(filepath.Join(t.TempDir(), "tasks.csv"))

	data, err := b.Read(context.Background())
	assert.ErrorIs(t, err, ErrNotExist)
	assert.Nil(t, data)
}

func TestFileBackend_WriteRead(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "nested", "tasks.csv")
	b := NewFileBackend(path)
	ctx := context.Background()

	require.NoError(t, b.Write(ctx, []byte("first")))
	require.NoError(t, b.Write(ctx, []byte("second")))

	data, err := b.Read(ctx)
	require.NoError(t, err)
	assert.Equal(t, "second", string(data))

	// no temp files left next to the target
	entries, err := os.ReadDir(filepath.Dir(path))
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "tasks.csv", entries[0].Name())
}

func TestFileBackend_CanceledContext(t *testing.T) {
	b := NewFileBackend(filepath.Join(t.TempDir(), "tasks.csv"))
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	assert.ErrorIs(t, b.Write(ctx, []byte("x")), context.Canceled)
	_, err := b.Read(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestFileBackend_WriteIntoFileAsDir(t *testing.T) {
	dir := t.TempDir()
	blocker := filepath.Join(dir, "blocker")
	require.NoError(t, os.WriteFile(blocker, []byte("x"), 0o644))

	b := NewFileBackend(filepath.Join(blocker, "tasks.csv"))
	err := b.Write(context.Background(), []byte("data"))
	assert.Error(t, err)
	assert.NotErrorIs(t, err, ErrNotExist)
}
