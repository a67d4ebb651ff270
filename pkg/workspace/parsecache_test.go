package workspace

import (
	"sync"
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gnana997/propdoc/pkg/ast"
	"github.com/gnana997/propdoc/pkg/util"
)

// countingExtractor records how often each path is parsed.
type countingExtractor struct {
	mu    sync.Mutex
	calls map[string]int
	fail  map[string]bool
}

func newCountingExtractor() *countingExtractor {
	return &countingExtractor{calls: make(map[string]int), fail: make(map[string]bool)}
}

func (c *countingExtractor) ExtractFile(path string, source []byte) (*ast.File, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.calls[path]++
	if c.fail[path] {
		return nil, errors.New("boom")
	}
	return &ast.File{Path: path}, nil
}

func (c *countingExtractor) count(path string) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.calls[path]
}

func TestParseCache_HitAndMiss(t *testing.T) {
	inner := newCountingExtractor()
	pc := NewParseCache(inner, DefaultParseCacheConfig(), util.NopLogger())

	first, err := pc.ExtractFile("/a.ts", []byte("type A = {}"))
	require.NoError(t, err)
	second, err := pc.ExtractFile("/a.ts", []byte("type A = {}"))
	require.NoError(t, err)

	assert.Same(t, first, second)
	assert.Equal(t, 1, inner.count("/a.ts"))

	stats := pc.GetStats()
	assert.Equal(t, int64(1), stats.Hits)
	assert.Equal(t, int64(1), stats.Misses)
	assert.InDelta(t, 0.5, stats.HitRate, 0.001)
	assert.Equal(t, 1, stats.CachedFiles)
}

func TestParseCache_ContentChangeReparses(t *testing.T) {
	inner := newCountingExtractor()
	pc := NewParseCache(inner, DefaultParseCacheConfig(), util.NopLogger())

	_, err := pc.ExtractFile("/a.ts", []byte("type A = {}"))
	require.NoError(t, err)
	_, err = pc.ExtractFile("/a.ts", []byte("type A = { x: 1 }"))
	require.NoError(t, err)

	assert.Equal(t, 2, inner.count("/a.ts"))
	assert.Equal(t, 1, pc.Len())
}

func TestParseCache_Invalidate(t *testing.T) {
	inner := newCountingExtractor()
	pc := NewParseCache(inner, DefaultParseCacheConfig(), util.NopLogger())

	_, err := pc.ExtractFile("/a.ts", []byte("x"))
	require.NoError(t, err)
	require.True(t, pc.Contains("/a.ts"))

	pc.Invalidate("/a.ts")
	pc.Invalidate("/missing.ts")
	assert.False(t, pc.Contains("/a.ts"))

	_, err = pc.ExtractFile("/a.ts", []byte("x"))
	require.NoError(t, err)
	assert.Equal(t, 2, inner.count("/a.ts"))

	stats := pc.GetStats()
	assert.Equal(t, int64(1), stats.Invalidations)
	assert.Equal(t, int64(0), stats.Evictions)
}

func TestParseCache_Eviction(t *testing.T) {
	inner := newCountingExtractor()
	pc := NewParseCache(inner, ParseCacheConfig{MaxFiles: 2}, util.NopLogger())

	for _, p := range []string{"/a.ts", "/b.ts", "/c.ts"} {
		_, err := pc.ExtractFile(p, []byte(p))
		require.NoError(t, err)
	}

	assert.Equal(t, 2, pc.Len())
	assert.False(t, pc.Contains("/a.ts"))
	assert.True(t, pc.Contains("/c.ts"))
	assert.Equal(t, int64(1), pc.GetStats().Evictions)

	pc.Purge()
	assert.Equal(t, 0, pc.Len())
	assert.Equal(t, int64(1), pc.GetStats().Evictions)
}

func TestParseCache_ErrorsAreNotCached(t *testing.T) {
	inner := newCountingExtractor()
	inner.fail["/bad.ts"] = true
	pc := NewParseCache(inner, DefaultParseCacheConfig(), util.NopLogger())

	_, err := pc.ExtractFile("/bad.ts", []byte("x"))
	require.Error(t, err)
	_, err = pc.ExtractFile("/bad.ts", []byte("x"))
	require.Error(t, err)

	assert.Equal(t, 2, inner.count("/bad.ts"))
	assert.False(t, pc.Contains("/bad.ts"))
}

func TestComputeContentHash(t *testing.T) {
	a := ComputeContentHash([]byte("a"))
	assert.Len(t, a, 64)
	assert.Equal(t, a, ComputeContentHash([]byte("a")))
	assert.NotEqual(t, a, ComputeContentHash([]byte("b")))
}
