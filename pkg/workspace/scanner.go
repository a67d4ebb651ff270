package workspace

import (
	"context"
	"io/fs"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/cockroachdb/errors"

	"github.com/gnana997/propdoc/pkg/docs"
)

// Scanner documents every component in a directory tree.
//
// **Two-Phase Pipeline:**
//  1. File Discovery - Walk directory tree and find matching files
//  2. Parallel Processing - One resolution request per file on a worker pool
//
// Results are reassembled in discovery order, so the output of a scan does
// not depend on worker scheduling.
//
// **Usage:**
//
//	scanner := NewScanner(gen.DocumentFile, logger)
//	result, err := scanner.Scan(ctx, "/path/to/workspace", DefaultScanOptions(),
//	    func(done, total int, file string) {
//	        fmt.Printf("Progress: %d/%d - %s\n", done, total, file)
//	    },
//	)
type Scanner struct {
	document DocumentFunc
	logger   *slog.Logger
}

// NewScanner creates a scanner that documents files with document.
func NewScanner(document DocumentFunc, logger *slog.Logger) *Scanner {
	if logger == nil {
		logger = slog.Default()
	}
	return &Scanner{document: document, logger: logger}
}

// Scan discovers the files under rootPath and documents them in parallel.
//
// Per-file failures are recorded in ScanStats.Errors and never abort the
// scan. When ctx is cancelled the partial result is returned with
// Cancelled set.
func (s *Scanner) Scan(
	ctx context.Context,
	rootPath string,
	options ScanOptions,
	progress ProgressCallback,
) (*ScanResult, error) {
	startTime := time.Now()
	stats := &ScanStats{
		StartTime: startTime,
		Errors:    make([]FileError, 0),
	}

	s.logger.Info("Starting workspace scan", "root", rootPath)

	discoveryStart := time.Now()
	files, err := DiscoverFiles(rootPath, options)
	if err != nil {
		return nil, errors.Wrap(err, "file discovery failed")
	}
	stats.FilesDiscovered = len(files)
	stats.DiscoveryTimeMs = time.Since(discoveryStart).Milliseconds()

	s.logger.Info("File discovery complete",
		"files_found", len(files),
		"duration_ms", stats.DiscoveryTimeMs)

	result := &ScanResult{Docs: make([]*docs.Documentation, 0), Stats: stats}

	if len(files) == 0 {
		s.logger.Warn("No files found matching criteria")
		stats.EndTime = time.Now()
		stats.TotalTimeMs = time.Since(startTime).Milliseconds()
		return result, nil
	}

	documentStart := time.Now()
	perFile := s.documentParallel(ctx, files, options.Workers, stats, progress)
	stats.DocumentTimeMs = time.Since(documentStart).Milliseconds()

	for _, fileDocs := range perFile {
		result.Docs = append(result.Docs, fileDocs...)
	}
	stats.ComponentsFound = len(result.Docs)
	stats.EndTime = time.Now()
	stats.TotalTimeMs = time.Since(startTime).Milliseconds()

	s.logger.Info("Workspace scan complete",
		"files_documented", stats.FilesDocumented,
		"files_failed", stats.FilesFailed,
		"components", stats.ComponentsFound,
		"cancelled", stats.Cancelled,
		"duration_ms", stats.TotalTimeMs)

	return result, nil
}

// DiscoverFiles walks rootPath and returns the absolute paths of files
// matching options, in lexical order.
//
// **Performance:** O(n) where n is total number of files in tree. Excluded
// directories are never entered.
func DiscoverFiles(rootPath string, options ScanOptions) ([]string, error) {
	for _, pattern := range options.Exclude {
		if !doublestar.ValidatePattern(pattern) {
			return nil, errors.Newf("invalid exclude pattern: %s", pattern)
		}
	}
	for _, pattern := range options.Include {
		if !doublestar.ValidatePattern(pattern) {
			return nil, errors.Newf("invalid include pattern: %s", pattern)
		}
	}

	rootPath, err := filepath.Abs(rootPath)
	if err != nil {
		return nil, errors.Wrapf(err, "resolve %s", rootPath)
	}

	var files []string
	err = filepath.WalkDir(rootPath, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if path == rootPath {
				return err
			}
			return nil
		}

		relPath, err := filepath.Rel(rootPath, path)
		if err != nil {
			relPath = path
		}
		relPath = filepath.ToSlash(relPath)

		if relPath != "." && matchesAny(options.Exclude, relPath, d.IsDir()) {
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}

		if d.IsDir() {
			return nil
		}

		if len(options.Include) > 0 && !matchesAny(options.Include, relPath, false) {
			return nil
		}

		files = append(files, path)
		return nil
	})
	if err != nil {
		return nil, errors.Wrapf(err, "walk %s", rootPath)
	}

	return files, nil
}

// matchesAny reports whether relPath matches one of patterns. Directories
// also match "dir/**" style patterns by their own path.
func matchesAny(patterns []string, relPath string, isDir bool) bool {
	for _, pattern := range patterns {
		if m, _ := doublestar.PathMatch(pattern, relPath); m {
			return true
		}
		if isDir {
			if m, _ := doublestar.PathMatch(pattern, relPath+"/"); m {
				return true
			}
		}
	}
	return false
}

// documentParallel runs files through a worker pool and returns the docs
// indexed by job ID.
func (s *Scanner) documentParallel(
	ctx context.Context,
	files []string,
	workers int,
	stats *ScanStats,
	progress ProgressCallback,
) [][]*docs.Documentation {
	total := len(files)
	perFile := make([][]*docs.Documentation, total)

	pool := NewWorkerPool(ctx, workers, s.document, s.logger)
	stats.WorkerCount = pool.numWorkers
	pool.Start()
	defer pool.Stop()

	go func() {
		defer pool.FinishSubmitting()
		for i, file := range files {
			if err := pool.Submit(FileJob{FilePath: file, JobID: i}); err != nil {
				s.logger.Debug("Stopped submitting jobs", "submitted", i, "error", err)
				return
			}
		}
	}()

	for done := 0; done < total; done++ {
		select {
		case <-ctx.Done():
			stats.Cancelled = true
			s.logger.Warn("Workspace scan cancelled", "processed", done, "total", total)
			return perFile

		case result := <-pool.Results():
			perFile[result.JobID] = result.Docs
			stats.FilesDocumented++
			if progress != nil {
				progress(done+1, total, result.FilePath)
			}

		case fileErr := <-pool.Errors():
			stats.Errors = append(stats.Errors, fileErr)
			stats.FilesFailed++
			s.logger.Warn("File documentation failed",
				"file", fileErr.FilePath,
				"error", fileErr.Error)
			if progress != nil {
				progress(done+1, total, fileErr.FilePath)
			}
		}
	}

	return perFile
}
