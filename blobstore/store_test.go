package blobstore

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalStore(t *testing.T) {
	ctx := context.Background()
	root := t.TempDir()
	data := []byte("letter,greek,number\nA,alpha,1\n")

	require.NoError(t, os.MkdirAll(filepath.Join(root, "sub"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(root, "letters.csv"), data, 0o600))
	require.NoError(t, os.WriteFile(filepath.Join(root, "sub", "other.csv"), data, 0o600))

	store := NewLocalStore(root)

	blob, err := store.Open(ctx, "letters.csv")
	require.NoError(t, err)
	require.Equal(t, int64(len(data)), blob.Size())

	buf := make([]byte, 5)
	n, err := blob.ReadAt(ctx, buf, 20)
	require.NoError(t, err)
	assert.Equal(t, 5, n)
	assert.Equal(t, "A,alp", string(buf))
	require.NoError(t, blob.Close())

	names, err := store.List(ctx, "")
	require.NoError(t, err)
	assert.Equal(t, []string{"letters.csv", "sub/other.csv"}, names)

	names, err = store.List(ctx, "sub/")
	require.NoError(t, err)
	assert.Equal(t, []string{"sub/other.csv"}, names)

	got, err := ReadAll(ctx, store, "sub/other.csv")
	require.NoError(t, err)
	assert.Equal(t, data, got)

	_, err = store.Open(ctx, "missing.csv")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMemoryStore(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	data := []byte("hello")
	require.NoError(t, store.Put(ctx, "a/one", data))
	require.NoError(t, store.Put(ctx, "b/two", []byte("world")))
	data[0] = 'j'

	got, err := ReadAll(ctx, store, "a/one")
	require.NoError(t, err)
	assert.Equal(t, "hello", string(got))

	names, err := store.List(ctx, "a/")
	require.NoError(t, err)
	assert.Equal(t, []string{"a/one"}, names)

	_, err = store.Open(ctx, "missing")
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = ReadAll(ctx, store, "missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMemoryStore_OpenSnapshot(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	require.NoError(t, store.Put(ctx, "letters.csv", []byte("v1")))

	blob, err := store.Open(ctx, "letters.csv")
	require.NoError(t, err)
	require.NoError(t, store.Put(ctx, "letters.csv", []byte("version2")))

	m, ok := blob.(Mappable)
	require.True(t, ok)
	data, err := m.Bytes()
	require.NoError(t, err)
	assert.Equal(t, "v1", string(data))
	assert.Equal(t, int64(2), blob.Size())

	require.NoError(t, store.Delete(ctx, "letters.csv"))
	require.NoError(t, store.Delete(ctx, "letters.csv"))
	_, err = store.Open(ctx, "letters.csv")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestReader(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	content := strings.Repeat("0123456789", readChunk/5)
	require.NoError(t, store.Put(ctx, "big", []byte(content)))

	blob, err := store.Open(ctx, "big")
	require.NoError(t, err)
	defer blob.Close()

	got, err := io.ReadAll(NewReader(ctx, blob))
	require.NoError(t, err)
	assert.Equal(t, content, string(got))
}

type stubDownloader struct {
	*MemoryStore
	calls int
}

func (s *stubDownloader) Download(_ context.Context, name string) ([]byte, error) {
	s.calls++
	return []byte("downloaded " + name), nil
}

func TestReadAllPrefersDownloader(t *testing.T) {
	store := &stubDownloader{MemoryStore: NewMemoryStore()}

	got, err := ReadAll(context.Background(), store, "x")
	require.NoError(t, err)
	assert.Equal(t, "downloaded x", string(got))
	assert.Equal(t, 1, store.calls)
}
