package parser

import (
	"log/slog"
	"sync"
	"unsafe"

	"github.com/cockroachdb/errors"
	ts "github.com/tree-sitter/go-tree-sitter"
	ts_javascript "github.com/tree-sitter/tree-sitter-javascript/bindings/go"
	ts_typescript "github.com/tree-sitter/tree-sitter-typescript/bindings/go"
)

// ErrUnsupportedLanguage is returned for files whose extension has no grammar.
var ErrUnsupportedLanguage = errors.New("unsupported language")

// Option configures a ParserManager.
type Option func(*ParserManager)

// WithTypedJS controls whether .js/.jsx files are parsed with the TSX grammar
// so that their type annotations are visible. Enabled by default.
func WithTypedJS(enabled bool) Option {
	return func(pm *ParserManager) { pm.typedJS = enabled }
}

// WithPoolSize overrides the number of parsers kept per grammar.
func WithPoolSize(n int) Option {
	return func(pm *ParserManager) { pm.poolSize = getPoolSize(n) }
}

// ParserManager hands out tree-sitter parsers per grammar.
//
// Pools are created lazily the first time a grammar is used. The manager owns
// the pools and must be closed; callers own the returned trees and must close
// each one.
//
// Safe for concurrent use: each pool holds up to poolSize parsers, so that
// many goroutines can parse the same grammar at once.
//
//	manager := NewParserManager(logger)
//	defer manager.Close()
//
//	tree, err := manager.ParseFile(src, "src/Button.tsx")
//	if err != nil {
//	    return err
//	}
//	defer tree.Close()
type ParserManager struct {
	pools    map[Grammar]*parserPool
	mutex    sync.RWMutex
	logger   *slog.Logger
	typedJS  bool
	poolSize int

	parsesCalled int
}

// NewParserManager creates a ParserManager. The manager must be closed.
func NewParserManager(logger *slog.Logger, opts ...Option) *ParserManager {
	if logger == nil {
		logger = slog.Default()
	}

	pm := &ParserManager{
		pools:    make(map[Grammar]*parserPool),
		logger:   logger,
		typedJS:  true,
		poolSize: getPoolSize(0),
	}
	for _, opt := range opts {
		opt(pm)
	}
	return pm
}

// TypedJS reports whether JavaScript files are parsed with type syntax.
func (pm *ParserManager) TypedJS() bool {
	return pm.typedJS
}

// Parse parses source with the given grammar.
//
// A tree containing syntax errors is still returned; tree-sitter recovers and
// the well-formed parts are usable. Callers decide whether errors matter by
// checking tree.RootNode().HasError().
func (pm *ParserManager) Parse(source []byte, grammar Grammar) (*ts.Tree, error) {
	if grammar.Language == LanguageUnknown {
		return nil, errors.Wrap(ErrUnsupportedLanguage, "cannot parse")
	}

	pm.mutex.Lock()
	pm.parsesCalled++
	pm.mutex.Unlock()

	pool, err := pm.poolFor(grammar)
	if err != nil {
		return nil, errors.Wrapf(err, "parser pool for %s", grammar)
	}

	p, err := pool.acquire()
	if err != nil {
		return nil, errors.Wrap(err, "acquire parser")
	}
	tree := p.Parse(source, nil)
	pool.release(p)

	if tree == nil {
		return nil, errors.New("tree-sitter returned no tree")
	}

	if tree.RootNode().HasError() {
		pm.logger.Debug("parse tree contains errors", "grammar", grammar.String())
	}
	return tree, nil
}

// ParseFile parses source, picking the grammar from the file extension.
func (pm *ParserManager) ParseFile(source []byte, filePath string) (*ts.Tree, error) {
	grammar := GrammarFor(filePath, pm.typedJS)
	if grammar.Language == LanguageUnknown {
		return nil, errors.Wrapf(ErrUnsupportedLanguage, "%s", filePath)
	}
	return pm.Parse(source, grammar)
}

// Close releases every pooled parser. The manager is unusable afterwards.
func (pm *ParserManager) Close() error {
	pm.mutex.Lock()
	defer pm.mutex.Unlock()

	for grammar, pool := range pm.pools {
		pool.close()
		pm.logger.Debug("closed parser pool", "grammar", grammar.String())
	}
	pm.logger.Debug("parser manager closed", "parses_called", pm.parsesCalled)
	pm.pools = make(map[Grammar]*parserPool)
	return nil
}

// poolFor returns the pool for grammar, creating it on first use.
func (pm *ParserManager) poolFor(grammar Grammar) (*parserPool, error) {
	pm.mutex.RLock()
	pool, ok := pm.pools[grammar]
	pm.mutex.RUnlock()
	if ok {
		return pool, nil
	}

	pm.mutex.Lock()
	defer pm.mutex.Unlock()

	if pool, ok = pm.pools[grammar]; ok {
		return pool, nil
	}

	langPtr, err := LanguagePointer(grammar)
	if err != nil {
		return nil, err
	}
	pool = newParserPool(grammar, langPtr, pm.poolSize, pm.logger)
	pm.pools[grammar] = pool

	pm.logger.Debug("created parser pool", "grammar", grammar.String(), "max_size", pm.poolSize)
	return pool, nil
}

// LanguagePointer returns the tree-sitter grammar for grammar. The query
// manager uses it to compile queries against the same grammar the parser used.
func LanguagePointer(grammar Grammar) (unsafe.Pointer, error) {
	switch grammar.Language {
	case LanguageTypeScript:
		if grammar.IsTSX {
			return ts_typescript.LanguageTSX(), nil
		}
		return ts_typescript.LanguageTypescript(), nil
	case LanguageJavaScript:
		return ts_javascript.Language(), nil
	default:
		return nil, errors.Wrapf(ErrUnsupportedLanguage, "%s", grammar.Language)
	}
}

// GetStats returns parser usage statistics.
func (pm *ParserManager) GetStats() ParserStats {
	pm.mutex.RLock()
	defer pm.mutex.RUnlock()

	created := 0
	for _, pool := range pm.pools {
		created += pool.createdCount()
	}
	return ParserStats{
		ParsersCreated: created,
		ParsesCalled:   pm.parsesCalled,
	}
}

// ParserStats contains parser usage statistics.
type ParserStats struct {
	// ParsersCreated is the total number of parser instances created
	ParsersCreated int

	// ParsesCalled is the total number of Parse() calls
	ParsesCalled int
}
