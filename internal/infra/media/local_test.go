package media

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalStore_Upload(t *testing.T) {
	dir := t.TempDir()
	s, err := NewLocalStore(dir, "/uploads/", 1024)
	require.NoError(t, err)

	url, err := s.Upload(context.Background(), "logos", "Shop.PNG", strings.NewReader("png-bytes"))
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(url, "/uploads/logos/"), url)
	assert.True(t, strings.HasSuffix(url, ".png"), url)

	b, err := os.ReadFile(filepath.Join(dir, "logos", filepath.Base(url)))
	require.NoError(t, err)
	assert.Equal(t, "png-bytes", string(b))
}

func TestLocalStore_RejectsType(t *testing.T) {
	s, err := NewLocalStore(t.TempDir(), "/uploads", 0)
	require.NoError(t, err)

	_, err = s.Upload(context.Background(), "products", "evil.sh", strings.NewReader("x"))
	assert.ErrorIs(t, err, ErrUnsupportedType)
}

func TestLocalStore_TooLarge(t *testing.T) {
	dir := t.TempDir()
	s, err := NewLocalStore(dir, "/uploads", 4)
	require.NoError(t, err)

	_, err = s.Upload(context.Background(), "products", "a.jpg", strings.NewReader("12345"))
	assert.ErrorIs(t, err, ErrTooLarge)

	entries, err := os.ReadDir(filepath.Join(dir, "products"))
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestLocalStore_FolderCannotEscape(t *testing.T) {
	dir := t.TempDir()
	s, err := NewLocalStore(dir, "/uploads", 0)
	require.NoError(t, err)

	url, err := s.Upload(context.Background(), "../../etc", "a.jpg", strings.NewReader("x"))
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(url, "/uploads/etc/"), url)
}
