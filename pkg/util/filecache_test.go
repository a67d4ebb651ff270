// Tests for FileCache with mmap-based file access.
package util

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// setupTestFiles creates temporary source files for testing.
func setupTestFiles(t *testing.T) map[string]string {
	t.Helper()

	dir := t.TempDir()
	files := map[string]string{
		"props.js":  "// @flow\nexport type Props = { name: string };\n",
		"icons.js":  "export const iconNames = ['add', 'remove'];\n",
		"empty.js":  "",
		"large.jsx": strings.Repeat("// comment line\n", 1000),
	}

	paths := make(map[string]string, len(files))
	for name, content := range files {
		path := filepath.Join(dir, name)
		require.NoError(t, os.WriteFile(path, []byte(content), 0644))
		paths[name] = path
	}
	return paths
}

func TestFileCache_ReadAndHit(t *testing.T) {
	files := setupTestFiles(t)

	cache := NewFileCache(UnboundedFileCacheConfig())
	defer cache.Close()

	assert.Equal(t, 0, cache.Size())

	data, err := cache.Read(files["props.js"])
	require.NoError(t, err)
	assert.Contains(t, string(data), "export type Props")
	assert.Equal(t, 1, cache.Size())

	again, err := cache.Read(files["props.js"])
	require.NoError(t, err)
	assert.Equal(t, data, again)

	stats := cache.Stats()
	assert.Equal(t, int64(1), stats.FilesLoaded)
	assert.Equal(t, int64(1), stats.CacheHits)
	assert.Equal(t, 1, stats.FilesCached)
	assert.Greater(t, stats.TotalMappedMB, float64(0))
}

func TestFileCache_ReadReturnsCopy(t *testing.T) {
	files := setupTestFiles(t)

	cache := NewFileCache(nil)
	defer cache.Close()

	data, err := cache.Read(files["icons.js"])
	require.NoError(t, err)
	data[0] = 'X'

	fresh, err := cache.Read(files["icons.js"])
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(fresh), "export"), "mutating a read must not touch the mapping")
}

func TestFileCache_MissingFile(t *testing.T) {
	cache := NewFileCache(nil)
	defer cache.Close()

	_, err := cache.Read(filepath.Join(t.TempDir(), "missing.js"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, fs.ErrNotExist))
	assert.Equal(t, int64(1), cache.Stats().CacheMisses)
}

func TestFileCache_Directory(t *testing.T) {
	cache := NewFileCache(nil)
	defer cache.Close()

	dir := t.TempDir()
	_, err := cache.Read(dir)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrIsDirectory))
	assert.Contains(t, err.Error(), dir)
}

func TestFileCache_EmptyFile(t *testing.T) {
	files := setupTestFiles(t)

	cache := NewFileCache(nil)
	defer cache.Close()

	data, err := cache.Read(files["empty.js"])
	require.NoError(t, err)
	assert.NotNil(t, data)
	assert.Len(t, data, 0)
}

func TestFileCache_Invalidate(t *testing.T) {
	files := setupTestFiles(t)
	path := files["props.js"]

	cache := NewFileCache(nil)
	defer cache.Close()

	_, err := cache.Read(path)
	require.NoError(t, err)

	require.NoError(t, os.WriteFile(path, []byte("export type Props = { id: number };\n"), 0644))
	cache.Invalidate(path)
	assert.Equal(t, 0, cache.Size())

	data, err := cache.Read(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "id: number")
	assert.Equal(t, int64(1), cache.Stats().Invalidations)

	// Invalidating an unknown path is a no-op.
	cache.Invalidate("/does/not/exist.js")
}

func TestFileCache_MaxFilesServesUncached(t *testing.T) {
	files := setupTestFiles(t)

	cache := NewFileCache(&FileCacheConfig{MaxFiles: 1, EnableMetrics: true})
	defer cache.Close()

	_, err := cache.Read(files["props.js"])
	require.NoError(t, err)

	data, err := cache.Read(files["icons.js"])
	require.NoError(t, err)
	assert.Contains(t, string(data), "iconNames")
	assert.Equal(t, 1, cache.Size(), "second file is read but not cached")
}

func TestFileCache_ConcurrentReads(t *testing.T) {
	files := setupTestFiles(t)

	cache := NewFileCache(nil)
	defer cache.Close()

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			data, err := cache.Read(files["large.jsx"])
			assert.NoError(t, err)
			assert.Len(t, data, len("// comment line\n")*1000)
		}()
	}
	wg.Wait()

	assert.Equal(t, int64(1), cache.Stats().FilesLoaded)
}

func TestFileCache_Close(t *testing.T) {
	files := setupTestFiles(t)

	cache := NewFileCache(nil)
	_, err := cache.Read(files["props.js"])
	require.NoError(t, err)

	require.NoError(t, cache.Close())
	assert.Equal(t, 0, cache.Size())
}

func TestGetOptimalPoolSize(t *testing.T) {
	size := GetOptimalPoolSize()
	assert.GreaterOrEqual(t, size, 4)
	assert.LessOrEqual(t, size, 32)
	assert.Equal(t, 7, GetOptimalPoolSizeWithOverride(7))
	assert.Equal(t, size, GetOptimalPoolSizeWithOverride(0))
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   LogLevel
		want string
	}{
		{LevelDebug, "DEBUG"},
		{"WARN", "WARN"},
		{LevelError, "ERROR"},
		{"bogus", "INFO"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, ParseLevel(tt.in).String(), "level %q", tt.in)
	}
}
