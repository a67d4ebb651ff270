package workspace

import (
	"time"

	"github.com/gnana997/propdoc/pkg/docs"
)

// ParseCacheConfig configures the parse cache.
type ParseCacheConfig struct {
	// MaxFiles is the maximum number of parsed files kept in the LRU cache.
	// When the cache is full, least recently used files are evicted.
	// Default: 1000 files
	MaxFiles int

	// Debug enables per-entry logging
	Debug bool
}

// DefaultParseCacheConfig returns the default configuration.
func DefaultParseCacheConfig() ParseCacheConfig {
	return ParseCacheConfig{
		MaxFiles: 1000,
		Debug:    false,
	}
}

// ParseCacheStats provides statistics about the parse cache.
type ParseCacheStats struct {
	// CachedFiles is the number of files currently in the LRU cache
	CachedFiles int

	// Hits is the number of lookups served from the cache
	Hits int64

	// Misses is the number of lookups that had to parse
	Misses int64

	// HitRate is the fraction of lookups served from the cache (0.0 - 1.0)
	HitRate float64

	// Evictions is the number of LRU evictions that have occurred
	Evictions int64

	// Invalidations is the number of entries dropped by Invalidate
	Invalidations int64

	// AverageParseTimeMs is the average time to parse and lower a file
	AverageParseTimeMs float64
}

// ScanOptions configures workspace discovery.
type ScanOptions struct {
	// Include patterns (doublestar syntax, e.g. "**/*.tsx"), relative to
	// the workspace root. Empty includes every source file.
	Include []string

	// Exclude patterns. A matching directory is skipped entirely.
	Exclude []string

	// Workers is the number of documenting goroutines (0 = auto-detect)
	Workers int
}

// DefaultScanOptions returns recommended scan options.
func DefaultScanOptions() ScanOptions {
	return ScanOptions{
		Include: []string{
			"**/*.ts",
			"**/*.tsx",
			"**/*.js",
			"**/*.jsx",
		},
		Exclude: []string{
			"**/node_modules/**",
			"**/.git/**",
			"dist/**",
			"build/**",
			"coverage/**",
			"out/**",
			".next/**",
			"**/*.d.ts",
			"**/*.test.*",
			"**/*.spec.*",
			"**/*.stories.*",
		},
	}
}

// ScanResult is the outcome of a workspace scan.
type ScanResult struct {
	// Docs holds one Documentation per component, ordered by file path and
	// then by position in the file
	Docs []*docs.Documentation

	Stats *ScanStats
}

// ScanStats contains statistics about a workspace scan.
type ScanStats struct {
	// FilesDiscovered is the total number of files found
	FilesDiscovered int

	// FilesDocumented is the number of files processed without error
	FilesDocumented int

	// FilesFailed is the number of files that failed
	FilesFailed int

	// ComponentsFound is the total number of components documented
	ComponentsFound int

	// TotalTimeMs is the total scan duration in milliseconds
	TotalTimeMs int64

	// DiscoveryTimeMs is time spent discovering files
	DiscoveryTimeMs int64

	// DocumentTimeMs is time spent documenting files
	DocumentTimeMs int64

	// WorkerCount is the number of workers used
	WorkerCount int

	// Errors contains per-file errors (if any)
	Errors []FileError

	// Cancelled indicates if the scan was cancelled
	Cancelled bool

	StartTime time.Time
	EndTime   time.Time
}

// FileError represents an error that occurred while processing a file.
type FileError struct {
	FilePath string
	Error    error
}

// ProgressCallback is called after each file is processed.
//
// Parameters:
//   - done: Number of files processed so far
//   - total: Total number of files to process
//   - currentFile: Path of the file just processed
type ProgressCallback func(done, total int, currentFile string)

// WatchOptions configures file watching behavior.
type WatchOptions struct {
	// DebounceMs is the debounce delay in milliseconds.
	// Changes arriving within the window are reported together.
	// Default: 200ms
	DebounceMs int

	// IgnorePatterns are doublestar patterns matched against paths relative
	// to the watched root
	IgnorePatterns []string
}

// DefaultWatchOptions returns recommended watch options.
func DefaultWatchOptions() WatchOptions {
	return WatchOptions{
		DebounceMs: 200,
		IgnorePatterns: []string{
			"**/*.swp",
			"**/*.tmp",
			"**/*~",
			"**/.git/**",
			"**/node_modules/**",
		},
	}
}

// WatchEvent represents a file system change.
type WatchEvent struct {
	// FilePath is the absolute path to the changed file
	FilePath string

	// Op is the operation that occurred (CREATE, WRITE, REMOVE, RENAME)
	Op string

	// Timestamp is when the event occurred
	Timestamp time.Time
}
