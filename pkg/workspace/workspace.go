// Package workspace wires the resolution pipeline for long-lived use: a
// shared parser pool, a memory-mapped file cache and an LRU parse cache
// behind one resolver, plus parallel scanning and watch-mode invalidation.
package workspace

import (
	"context"
	"log/slog"
	"path/filepath"

	"github.com/cockroachdb/errors"

	"github.com/gnana997/propdoc/pkg/docgen"
	"github.com/gnana997/propdoc/pkg/extractor"
	"github.com/gnana997/propdoc/pkg/parser"
	"github.com/gnana997/propdoc/pkg/parser/queries"
	"github.com/gnana997/propdoc/pkg/resolver"
	"github.com/gnana997/propdoc/pkg/util"
)

// Config configures a Workspace.
type Config struct {
	Resolver resolver.Options

	// TypedJS parses .js/.jsx with the TSX grammar so annotations survive.
	TypedJS bool

	// Workers bounds parser and scan parallelism (0 = auto-detect)
	Workers int

	ParseCache ParseCacheConfig
	FileCache  *util.FileCacheConfig
}

// DefaultConfig returns the default workspace configuration.
func DefaultConfig() Config {
	return Config{
		Resolver:   resolver.DefaultOptions(),
		TypedJS:    true,
		ParseCache: DefaultParseCacheConfig(),
		FileCache:  util.DefaultFileCacheConfig(),
	}
}

// Workspace owns every shared resource of the pipeline. Requests made
// through Generator() share the caches; each still runs with its own
// session.
//
// **Usage:**
//
//	ws := workspace.New(workspace.DefaultConfig(), logger)
//	defer ws.Close()
//	docs, err := ws.Generator().DocumentFile("src/Button.tsx")
type Workspace struct {
	config     Config
	parsers    *parser.ParserManager
	queries    *queries.QueryManager
	parseCache *ParseCache
	fileCache  util.FileCache
	resolver   *resolver.Resolver
	generator  *docgen.Generator
	logger     *slog.Logger
}

// New builds a workspace. opts are passed to the generator.
func New(config Config, logger *slog.Logger, opts ...docgen.Option) *Workspace {
	if logger == nil {
		logger = slog.Default()
	}
	if config.FileCache == nil {
		config.FileCache = util.DefaultFileCacheConfig()
	}

	pm := parser.NewParserManager(logger,
		parser.WithTypedJS(config.TypedJS),
		parser.WithPoolSize(config.Workers),
	)
	qm := queries.NewQueryManager(logger)
	ext := extractor.NewExtractor(pm, qm, logger)

	parseCache := NewParseCache(ext, config.ParseCache, logger)
	fileCache := util.NewFileCache(config.FileCache)
	res := resolver.New(parseCache, fileCache, config.Resolver, logger)

	return &Workspace{
		config:     config,
		parsers:    pm,
		queries:    qm,
		parseCache: parseCache,
		fileCache:  fileCache,
		resolver:   res,
		generator:  docgen.NewGenerator(res, logger, opts...),
		logger:     logger,
	}
}

// Generator returns the shared documentation generator.
func (w *Workspace) Generator() *docgen.Generator {
	return w.generator
}

// Resolver returns the shared resolver.
func (w *Workspace) Resolver() *resolver.Resolver {
	return w.resolver
}

// ParseCache returns the parse cache.
func (w *Workspace) ParseCache() *ParseCache {
	return w.parseCache
}

// Invalidate drops the cached source and parse of path.
func (w *Workspace) Invalidate(path string) {
	if abs, err := filepath.Abs(path); err == nil {
		path = abs
	}
	w.resolver.Loader().Invalidate(path)
	w.parseCache.Invalidate(path)
}

// Scan documents every matching file under root. A zero options.Workers
// uses the workspace's worker count.
func (w *Workspace) Scan(ctx context.Context, root string, options ScanOptions, progress ProgressCallback) (*ScanResult, error) {
	if options.Workers <= 0 {
		options.Workers = w.config.Workers
	}
	return NewScanner(w.generator.DocumentFile, w.logger).Scan(ctx, root, options, progress)
}

// Watch blocks until ctx is cancelled, invalidating caches as files under
// root change and passing each debounced batch to onChange.
func (w *Workspace) Watch(ctx context.Context, root string, options WatchOptions, onChange ChangeFunc) error {
	watcher, err := NewWatcher(root, options, w.Invalidate, onChange, w.logger)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := watcher.Close(); cerr != nil {
			w.logger.Warn("Failed to close watcher", "error", cerr)
		}
	}()
	return watcher.Run(ctx)
}

// Close releases the parser pool, query cache and mapped files.
func (w *Workspace) Close() error {
	var errs []error
	if err := w.fileCache.Close(); err != nil {
		errs = append(errs, errors.Wrap(err, "close file cache"))
	}
	if err := w.queries.Close(); err != nil {
		errs = append(errs, errors.Wrap(err, "close query manager"))
	}
	if err := w.parsers.Close(); err != nil {
		errs = append(errs, errors.Wrap(err, "close parser manager"))
	}
	w.parseCache.Purge()
	return errors.Join(errs...)
}
