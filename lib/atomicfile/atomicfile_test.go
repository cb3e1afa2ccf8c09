package atomicfile

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCommit(t *testing.T) {
	path := filepath.Join(t.TempDir(), "key.pem")
	require.NoError(t, os.WriteFile(path, []byte("old"), 0644))

	f, err := WriteAny(path, 0600)
	require.NoError(t, err)
	_, err = f.Write([]byte("new contents"))
	require.NoError(t, err)
	// not visible until committed
	blob, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "old", string(blob))

	require.NoError(t, f.Commit())
	require.NoError(t, f.Close())
	blob, err = os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "new contents", string(blob))
	if runtime.GOOS != "windows" {
		st, err := os.Stat(path)
		require.NoError(t, err)
		assert.Equal(t, os.FileMode(0600), st.Mode().Perm())
	}
}

func TestCloseDiscards(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "key.pem")
	f, err := New(path, 0600)
	require.NoError(t, err)
	_, err = f.Write([]byte("partial"))
	require.NoError(t, err)
	require.NoError(t, f.Close())
	_, err = os.Stat(path)
	assert.True(t, os.IsNotExist(err))
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries)
	assert.Error(t, f.Commit())
}
