// FileCache provides read access to source files through memory-mapped regions.
//
// Source files are mapped once and served from the mapping on later reads, so a
// dependency reached through several import edges is only read from disk once.
// Read returns a private copy of the contents: mappings can be dropped by
// Invalidate (watch mode) while a parse that started earlier is still running.
//
// Safety:
//   - Optional MaxFiles and MaxMemoryMB limits
//   - Graceful fallback to os.ReadFile if mmap fails
//   - Thread-safe with sync.RWMutex (parallel reads, exclusive loads)
package util

import (
	"bytes"
	"log/slog"
	"os"
	"sync"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/edsrzf/mmap-go"
)

// ErrIsDirectory is returned when Read is given a directory.
var ErrIsDirectory = errors.New("is a directory")

// FileCache serves source file contents from memory-mapped files.
type FileCache interface {
	// Read returns a copy of the file contents, mapping the file on first access.
	//
	// Errors wrap the underlying os error, so callers can test
	// errors.Is(err, fs.ErrNotExist).
	Read(filePath string) ([]byte, error)

	// Invalidate unmaps a single file so the next Read sees fresh contents.
	Invalidate(filePath string)

	// Size returns number of currently cached files.
	Size() int

	// Stats returns current cache metrics.
	Stats() FileCacheStats

	// Close unmaps all files and releases resources.
	Close() error
}

// FileCacheConfig controls FileCache behavior.
type FileCacheConfig struct {
	// MaxFiles is the maximum number of files to keep mapped. 0 means unlimited.
	MaxFiles int

	// MaxMemoryMB caps the virtual memory mapped, in MB. 0 means unlimited.
	MaxMemoryMB int

	// EnableMetrics determines whether to track cache statistics.
	EnableMetrics bool

	// Logger for warnings. If nil, uses slog.Default().
	Logger *slog.Logger
}

// DefaultFileCacheConfig returns limits suited to a component library.
func DefaultFileCacheConfig() *FileCacheConfig {
	return &FileCacheConfig{
		MaxFiles:      10000,
		MaxMemoryMB:   2048,
		EnableMetrics: true,
	}
}

// UnboundedFileCacheConfig returns config with no limits. Used in tests.
func UnboundedFileCacheConfig() *FileCacheConfig {
	return &FileCacheConfig{EnableMetrics: true}
}

// mappedFile is one cached source file.
type mappedFile struct {
	data     mmap.MMap // nil for empty files and fallback entries
	fallback []byte    // set when mmap failed and the file was read instead
	file     *os.File
	size     int64
	mappedAt time.Time
}

func (mf *mappedFile) bytes() []byte {
	if mf.fallback != nil {
		return mf.fallback
	}
	return mf.data
}

// FileCacheStats tracks cache performance metrics.
type FileCacheStats struct {
	// FilesLoaded is the cumulative number of files loaded.
	FilesLoaded int64
	// FilesCached is the current number of cached files.
	FilesCached int
	// CacheHits is the cumulative number of reads served from the cache.
	CacheHits int64
	// CacheMisses is the cumulative number of reads that failed to load.
	CacheMisses int64
	// MmapFailures counts files served through the os.ReadFile fallback.
	MmapFailures int64
	// Invalidations counts files dropped by Invalidate.
	Invalidations int64
	// TotalMappedMB is the virtual memory currently mapped.
	TotalMappedMB float64
}

// NewFileCache creates a new FileCache with the given config.
//
// If config is nil, uses DefaultFileCacheConfig().
func NewFileCache(config *FileCacheConfig) FileCache {
	if config == nil {
		config = DefaultFileCacheConfig()
	}

	logger := config.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &fileCacheImpl{
		config: config,
		cache:  make(map[string]*mappedFile),
		logger: logger,
	}
}

type fileCacheImpl struct {
	config *FileCacheConfig
	logger *slog.Logger

	cache map[string]*mappedFile
	mu    sync.RWMutex

	stats   FileCacheStats
	statsMu sync.Mutex
}

// Read returns a copy of the file contents.
func (fc *fileCacheImpl) Read(filePath string) ([]byte, error) {
	fc.mu.RLock()
	if mf, ok := fc.cache[filePath]; ok {
		out := bytes.Clone(mf.bytes())
		fc.mu.RUnlock()
		fc.record(func(s *FileCacheStats) { s.CacheHits++ })
		return nonNil(out), nil
	}
	fc.mu.RUnlock()

	fc.mu.Lock()
	defer fc.mu.Unlock()

	// Another goroutine may have loaded it while we waited for the lock.
	if mf, ok := fc.cache[filePath]; ok {
		fc.record(func(s *FileCacheStats) { s.CacheHits++ })
		return nonNil(bytes.Clone(mf.bytes())), nil
	}

	stat, err := os.Stat(filePath)
	if err != nil {
		fc.record(func(s *FileCacheStats) { s.CacheMisses++ })
		return nil, errors.Wrapf(err, "stat %s", filePath)
	}
	if stat.IsDir() {
		fc.record(func(s *FileCacheStats) { s.CacheMisses++ })
		return nil, errors.Wrapf(ErrIsDirectory, "%s", filePath)
	}

	if err := fc.checkLimitsLocked(stat.Size()); err != nil {
		// Over the limit: serve the read uncached instead of failing.
		fc.logger.Debug("file cache limit reached, reading uncached", "file", filePath, "reason", err)
		data, readErr := os.ReadFile(filePath)
		if readErr != nil {
			fc.record(func(s *FileCacheStats) { s.CacheMisses++ })
			return nil, errors.Wrapf(readErr, "read %s", filePath)
		}
		return data, nil
	}

	mf, err := fc.loadFile(filePath)
	if err != nil {
		fc.record(func(s *FileCacheStats) { s.CacheMisses++ })
		return nil, err
	}

	fc.cache[filePath] = mf
	fc.record(func(s *FileCacheStats) { s.FilesLoaded++ })

	return nonNil(bytes.Clone(mf.bytes())), nil
}

// checkLimitsLocked verifies that adding a file of newFileSize bytes stays
// within the configured limits. Must be called while holding mu.Lock.
func (fc *fileCacheImpl) checkLimitsLocked(newFileSize int64) error {
	if fc.config.MaxFiles > 0 && len(fc.cache) >= fc.config.MaxFiles {
		return errors.Newf("file cache limit reached: %d files (limit: %d files)",
			len(fc.cache), fc.config.MaxFiles)
	}

	if fc.config.MaxMemoryMB > 0 && newFileSize > 0 {
		currentMB := fc.totalMappedMBLocked()
		totalMB := currentMB + float64(newFileSize)/(1024*1024)
		if totalMB >= float64(fc.config.MaxMemoryMB) {
			return errors.Newf("file cache memory limit reached: %.2f MB (limit: %d MB)",
				totalMB, fc.config.MaxMemoryMB)
		}
	}

	return nil
}

// loadFile opens and maps a file, falling back to os.ReadFile if mmap fails.
func (fc *fileCacheImpl) loadFile(filePath string) (*mappedFile, error) {
	file, err := os.Open(filePath)
	if err != nil {
		return nil, errors.Wrapf(err, "open %s", filePath)
	}

	stat, err := file.Stat()
	if err != nil {
		file.Close()
		return nil, errors.Wrapf(err, "stat %s", filePath)
	}

	// Zero-length files cannot be mapped.
	if stat.Size() == 0 {
		file.Close()
		return &mappedFile{fallback: []byte{}, mappedAt: time.Now()}, nil
	}

	data, err := mmap.Map(file, mmap.RDONLY, 0)
	if err != nil {
		fc.logger.Warn("mmap failed, using fallback",
			"file", filePath,
			"size", stat.Size(),
			"error", err)
		file.Close()

		content, readErr := os.ReadFile(filePath)
		if readErr != nil {
			return nil, errors.Wrapf(errors.CombineErrors(readErr, err), "map or read %s", filePath)
		}
		fc.record(func(s *FileCacheStats) { s.MmapFailures++ })
		return &mappedFile{fallback: content, size: int64(len(content)), mappedAt: time.Now()}, nil
	}

	return &mappedFile{
		data:     data,
		file:     file,
		size:     stat.Size(),
		mappedAt: time.Now(),
	}, nil
}

// Invalidate drops one file from the cache.
func (fc *fileCacheImpl) Invalidate(filePath string) {
	fc.mu.Lock()
	defer fc.mu.Unlock()

	mf, ok := fc.cache[filePath]
	if !ok {
		return
	}
	delete(fc.cache, filePath)
	if err := fc.release(filePath, mf); err != nil {
		fc.logger.Warn("failed to release invalidated file", "path", filePath, "error", err)
	}
	fc.record(func(s *FileCacheStats) { s.Invalidations++ })
}

// Size returns number of currently cached files.
func (fc *fileCacheImpl) Size() int {
	fc.mu.RLock()
	defer fc.mu.RUnlock()

	return len(fc.cache)
}

// Stats returns current cache metrics.
func (fc *fileCacheImpl) Stats() FileCacheStats {
	fc.mu.RLock()
	cached := len(fc.cache)
	mappedMB := fc.totalMappedMBLocked()
	fc.mu.RUnlock()

	fc.statsMu.Lock()
	defer fc.statsMu.Unlock()

	stats := fc.stats
	stats.FilesCached = cached
	stats.TotalMappedMB = mappedMB
	return stats
}

// totalMappedMBLocked must be called while holding mu.
func (fc *fileCacheImpl) totalMappedMBLocked() float64 {
	total := int64(0)
	for _, mf := range fc.cache {
		total += mf.size
	}
	return float64(total) / (1024 * 1024)
}

// Close unmaps all files and releases resources.
func (fc *fileCacheImpl) Close() error {
	fc.mu.Lock()
	defer fc.mu.Unlock()

	var errs []error
	for path, mf := range fc.cache {
		if err := fc.release(path, mf); err != nil {
			errs = append(errs, err)
		}
	}
	fc.cache = make(map[string]*mappedFile)

	fc.logger.Debug("file cache closed",
		"files_loaded", fc.stats.FilesLoaded,
		"cache_hits", fc.stats.CacheHits,
		"cache_misses", fc.stats.CacheMisses,
		"mmap_failures", fc.stats.MmapFailures)

	if len(errs) > 0 {
		return errors.Wrap(errors.Join(errs...), "close file cache")
	}
	return nil
}

func (fc *fileCacheImpl) release(path string, mf *mappedFile) error {
	if mf.data != nil {
		if err := mf.data.Unmap(); err != nil {
			return errors.Wrapf(err, "unmap %s", path)
		}
	}
	if mf.file != nil {
		if err := mf.file.Close(); err != nil {
			return errors.Wrapf(err, "close %s", path)
		}
	}
	return nil
}

func (fc *fileCacheImpl) record(update func(*FileCacheStats)) {
	if !fc.config.EnableMetrics {
		return
	}
	fc.statsMu.Lock()
	update(&fc.stats)
	fc.statsMu.Unlock()
}

func nonNil(b []byte) []byte {
	if b == nil {
		return []byte{}
	}
	return b
}
