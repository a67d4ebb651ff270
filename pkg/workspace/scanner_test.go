package workspace

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gnana997/propdoc/pkg/util"
)

func writeTree(t *testing.T, files map[string]string) string {
	t.Helper()
	dir := t.TempDir()
	for name, content := range files {
		path := filepath.Join(dir, name)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	}
	return dir
}

func relAll(t *testing.T, root string, paths []string) []string {
	t.Helper()
	out := make([]string, len(paths))
	for i, p := range paths {
		rel, err := filepath.Rel(root, p)
		require.NoError(t, err)
		out[i] = filepath.ToSlash(rel)
	}
	return out
}

func TestDiscoverFiles(t *testing.T) {
	root := writeTree(t, map[string]string{
		"src/Button.tsx":               "",
		"src/Button.test.tsx":          "",
		"src/Button.stories.tsx":       "",
		"src/types.d.ts":               "",
		"src/theme.js":                 "",
		"src/styles.css":               "",
		"src/nested/Card.jsx":          "",
		"node_modules/react/index.js":  "",
		"dist/Button.js":               "",
		"lib/node_modules/nested/x.ts": "",
	})

	files, err := DiscoverFiles(root, DefaultScanOptions())
	require.NoError(t, err)

	assert.Equal(t, []string{
		"src/Button.tsx",
		"src/nested/Card.jsx",
		"src/theme.js",
	}, relAll(t, root, files))
	for _, f := range files {
		assert.True(t, filepath.IsAbs(f), f)
	}
}

func TestDiscoverFiles_CustomPatterns(t *testing.T) {
	root := writeTree(t, map[string]string{
		"components/A.tsx": "",
		"components/B.ts":  "",
		"internal/C.tsx":   "",
	})

	files, err := DiscoverFiles(root, ScanOptions{
		Include: []string{"**/*.tsx"},
		Exclude: []string{"internal/**"},
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"components/A.tsx"}, relAll(t, root, files))
}

func TestDiscoverFiles_InvalidPattern(t *testing.T) {
	root := t.TempDir()

	_, err := DiscoverFiles(root, ScanOptions{Include: []string{"[]a]"}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid include pattern")

	_, err = DiscoverFiles(root, ScanOptions{Exclude: []string{"[]a]"}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid exclude pattern")
}

func TestDiscoverFiles_MissingRoot(t *testing.T) {
	_, err := DiscoverFiles(filepath.Join(t.TempDir(), "nope"), DefaultScanOptions())
	require.Error(t, err)
}

func TestScanner_OrderAndErrors(t *testing.T) {
	root := writeTree(t, map[string]string{
		"a.ts":   "",
		"b.ts":   "",
		"bad.ts": "",
		"c.ts":   "",
	})

	var calls int
	scanner := NewScanner(fakeDocument, util.NopLogger())
	result, err := scanner.Scan(context.Background(), root, ScanOptions{Workers: 3}, func(done, total int, _ string) {
		calls++
		assert.Equal(t, 4, total)
		assert.Equal(t, calls, done)
	})
	require.NoError(t, err)

	names := make([]string, len(result.Docs))
	for i, d := range result.Docs {
		names[i] = d.DisplayName
	}
	assert.Equal(t, []string{
		filepath.Join(root, "a.ts"),
		filepath.Join(root, "b.ts"),
		filepath.Join(root, "c.ts"),
	}, names)

	stats := result.Stats
	assert.Equal(t, 4, stats.FilesDiscovered)
	assert.Equal(t, 3, stats.FilesDocumented)
	assert.Equal(t, 1, stats.FilesFailed)
	assert.Equal(t, 3, stats.ComponentsFound)
	assert.Equal(t, 3, stats.WorkerCount)
	assert.False(t, stats.Cancelled)
	require.Len(t, stats.Errors, 1)
	assert.Equal(t, filepath.Join(root, "bad.ts"), stats.Errors[0].FilePath)
	assert.Equal(t, 4, calls)
}

func TestScanner_EmptyTree(t *testing.T) {
	result, err := NewScanner(fakeDocument, util.NopLogger()).
		Scan(context.Background(), t.TempDir(), DefaultScanOptions(), nil)
	require.NoError(t, err)
	assert.Empty(t, result.Docs)
	assert.Equal(t, 0, result.Stats.FilesDiscovered)
}

func TestScanner_Cancelled(t *testing.T) {
	files := map[string]string{}
	for _, name := range []string{"a", "b", "c", "d", "e", "f", "g", "h", "i", "j", "k", "l", "m", "n", "o", "p", "q", "r", "s", "t"} {
		files[name+".ts"] = ""
	}
	root := writeTree(t, files)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	result, err := NewScanner(fakeDocument, util.NopLogger()).Scan(ctx, root, ScanOptions{Workers: 1}, nil)
	require.NoError(t, err)
	assert.True(t, result.Stats.Cancelled)
	assert.Less(t, result.Stats.FilesDocumented, 20)
}
