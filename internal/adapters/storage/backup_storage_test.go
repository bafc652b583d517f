package storage

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

func TestBackupStorageRoundTrip(t *testing.T) {
	ctx := context.Background()
	s, err := NewBackupStorageAt(filepath.Join(t.TempDir(), "backups"))
	require.NoError(t, err)

	path, err := s.Store(ctx, "2024-05-01", strings.NewReader(`{"version":1}`))
	require.NoError(t, err)
	assert.True(t, strings.HasSuffix(path, "2024-05-01.json.gz"))

	ok, err := s.Exists(ctx, "2024-05-01")
	require.NoError(t, err)
	assert.True(t, ok)

	rc, err := s.Open(ctx, "2024-05-01")
	require.NoError(t, err)
	data, err := io.ReadAll(rc)
	require.NoError(t, err)
	require.NoError(t, rc.Close())
	assert.Equal(t, `{"version":1}`, string(data))

	_, err = s.Store(ctx, "2024-04-01", strings.NewReader(`{}`))
	require.NoError(t, err)
	names, err := s.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"2024-04-01", "2024-05-01"}, names)

	require.NoError(t, s.Delete(ctx, "2024-05-01"))
	ok, err = s.Exists(ctx, "2024-05-01")
	require.NoError(t, err)
	assert.False(t, ok)
	assert.NoError(t, s.Delete(ctx, "2024-05-01"), "deleting a missing backup is not an error")
}

func TestBackupStorageRejectsPaths(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	s, err := NewBackupStorageAt(dir)
	require.NoError(t, err)

	for _, name := range []string{"", "../escape", "a/b", ".hidden"} {
		_, err := s.Store(ctx, name, strings.NewReader("x"))
		assert.Error(t, err, name)
	}

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestBackupStorageOpenMissing(t *testing.T) {
	s, err := NewBackupStorageAt(t.TempDir())
	require.NoError(t, err)
	_, err = s.Open(context.Background(), "nope")
	assert.Error(t, err)
}
