package workspace

import (
	"crypto/sha256"
	"encoding/hex"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/cockroachdb/errors"
	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/gnana997/propdoc/pkg/ast"
	"github.com/gnana997/propdoc/pkg/resolver"
)

type cachedFile struct {
	file        *ast.File
	contentHash string
	parsedAt    time.Time
}

// ParseCache memoizes extraction results across resolution requests.
//
// **Architecture:**
//   - LRU cache keyed by file path for automatic memory management
//   - Entries are validated by a SHA-256 hash of the source, so an edited
//     file is re-parsed even before the watcher invalidates it
//   - Implements resolver.Extractor, so sessions use it transparently
//
// **Thread Safety:**
//   - The LRU is goroutine-safe; a mutex serializes invalidation against
//     insertion
//   - Cached *ast.File values are shared and must not be modified
//
// **Usage:**
//
//	cache := NewParseCache(ext, DefaultParseCacheConfig(), logger)
//	res := resolver.New(cache, fileCache, resolver.DefaultOptions(), logger)
type ParseCache struct {
	inner  resolver.Extractor
	cache  *lru.Cache[string, *cachedFile]
	mu     sync.Mutex
	config ParseCacheConfig
	logger *slog.Logger

	hits           atomic.Int64
	misses         atomic.Int64
	evictions      atomic.Int64
	invalidations  atomic.Int64
	totalParseTime atomic.Int64 // Microseconds
}

// NewParseCache wraps inner with an LRU cache.
func NewParseCache(inner resolver.Extractor, config ParseCacheConfig, logger *slog.Logger) *ParseCache {
	if logger == nil {
		logger = slog.Default()
	}
	if config.MaxFiles <= 0 {
		config.MaxFiles = DefaultParseCacheConfig().MaxFiles
	}

	pc := &ParseCache{
		inner:  inner,
		config: config,
		logger: logger,
	}

	cache, err := lru.NewWithEvict(config.MaxFiles, func(key string, _ *cachedFile) {
		if config.Debug {
			logger.Debug("LRU dropping parsed file", "path", key)
		}
	})
	if err != nil {
		// Only possible with a non-positive size, excluded above.
		panic(errors.Wrap(err, "create parse cache"))
	}
	pc.cache = cache

	logger.Debug("ParseCache initialized", "max_files", config.MaxFiles)
	return pc
}

// ExtractFile returns the cached file for path when its source is
// unchanged, and parses it otherwise.
//
// **Performance:** a hit costs one SHA-256 over the source, a miss costs a
// full parse plus lowering.
func (pc *ParseCache) ExtractFile(path string, source []byte) (*ast.File, error) {
	hash := ComputeContentHash(source)

	if entry, ok := pc.cache.Get(path); ok && entry.contentHash == hash {
		pc.hits.Add(1)
		return entry.file, nil
	}
	pc.misses.Add(1)

	start := time.Now()
	file, err := pc.inner.ExtractFile(path, source)
	pc.totalParseTime.Add(time.Since(start).Microseconds())
	if err != nil {
		return nil, err
	}

	pc.mu.Lock()
	evicted := pc.cache.Add(path, &cachedFile{file: file, contentHash: hash, parsedAt: time.Now()})
	pc.mu.Unlock()
	if evicted {
		pc.evictions.Add(1)
	}

	if pc.config.Debug {
		pc.logger.Debug("Parsed file", "path", path, "statements", len(file.Statements), "components", len(file.Components))
	}
	return file, nil
}

// Invalidate drops path from the cache.
func (pc *ParseCache) Invalidate(path string) {
	pc.mu.Lock()
	removed := pc.cache.Remove(path)
	pc.mu.Unlock()

	if removed {
		pc.invalidations.Add(1)
		if pc.config.Debug {
			pc.logger.Debug("Invalidated parsed file", "path", path)
		}
	}
}

// Contains reports whether path is cached.
func (pc *ParseCache) Contains(path string) bool {
	return pc.cache.Contains(path)
}

// Len returns the number of cached files.
func (pc *ParseCache) Len() int {
	return pc.cache.Len()
}

// GetStats returns current cache statistics.
func (pc *ParseCache) GetStats() ParseCacheStats {
	hits := pc.hits.Load()
	misses := pc.misses.Load()
	hitRate := 0.0
	if total := hits + misses; total > 0 {
		hitRate = float64(hits) / float64(total)
	}

	avg := 0.0
	if misses > 0 {
		avg = float64(pc.totalParseTime.Load()) / float64(misses) / 1000.0 // μs to ms
	}

	return ParseCacheStats{
		CachedFiles:        pc.cache.Len(),
		Hits:               hits,
		Misses:             misses,
		HitRate:            hitRate,
		Evictions:          pc.evictions.Load(),
		Invalidations:      pc.invalidations.Load(),
		AverageParseTimeMs: avg,
	}
}

// Purge drops every entry.
func (pc *ParseCache) Purge() {
	pc.mu.Lock()
	defer pc.mu.Unlock()
	pc.cache.Purge()
}

// ComputeContentHash computes the SHA-256 hash of file content.
func ComputeContentHash(content []byte) string {
	hash := sha256.Sum256(content)
	return hex.EncodeToString(hash[:])
}
