package resolver

import (
	"io/fs"
	"log/slog"

	"github.com/cockroachdb/errors"

	"github.com/gnana997/propdoc/pkg/util"
)

// SourceLoader reads source files through the shared mmap file cache.
type SourceLoader struct {
	cache  util.FileCache
	logger *slog.Logger
}

// NewSourceLoader creates a loader over cache. A nil cache gets a private
// unbounded one.
func NewSourceLoader(cache util.FileCache, logger *slog.Logger) *SourceLoader {
	if logger == nil {
		logger = slog.Default()
	}
	if cache == nil {
		cfg := util.UnboundedFileCacheConfig()
		cfg.Logger = logger
		cache = util.NewFileCache(cfg)
	}
	return &SourceLoader{cache: cache, logger: logger}
}

// Load returns the contents of path, or false when it cannot be read.
// A missing file is an expected outcome and is not logged above debug.
func (s *SourceLoader) Load(path string) ([]byte, bool) {
	data, err := s.cache.Read(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			s.logger.Debug("source file does not exist", "path", path)
		} else {
			s.logger.Warn("failed to read source file", "path", path, "error", err)
		}
		return nil, false
	}
	return data, true
}

// Invalidate drops a cached file so the next Load reads it from disk.
func (s *SourceLoader) Invalidate(path string) {
	s.cache.Invalidate(path)
}
