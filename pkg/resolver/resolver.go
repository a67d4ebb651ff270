// Package resolver pulls exported declarations across import edges.
//
// For one root file, a Session follows every relative import, builds each
// file's declaration table, export set and import map, merges the resolved
// exports of its imports into its own declarations and filters the result
// by its export set. The walker then sees imported types as if they were
// declared in the root file.
package resolver

import (
	"log/slog"
	"path/filepath"

	"github.com/cockroachdb/errors"

	"github.com/gnana997/propdoc/pkg/ast"
	"github.com/gnana997/propdoc/pkg/util"
)

// DefaultMaxDepth bounds import chains.
const DefaultMaxDepth = 32

// Extractor turns source into the ast model. *extractor.Extractor and the
// workspace parse cache implement it.
type Extractor interface {
	ExtractFile(path string, source []byte) (*ast.File, error)
}

// Options configures resolution.
type Options struct {
	// Extensions is the search order for extensionless specifiers.
	Extensions []string

	// MaxDepth bounds import chains. Zero selects DefaultMaxDepth.
	MaxDepth int

	// StrictParse turns parse failures of imported files into errors. By
	// default they are logged and the import edge is skipped. The file a
	// request starts from is always used as recovered.
	StrictParse bool

	ExportPolicy ExportPolicy
	MergePolicy  MergePolicy
}

// DefaultOptions returns the default resolution options.
func DefaultOptions() Options {
	return Options{
		Extensions: DefaultExtensions,
		MaxDepth:   DefaultMaxDepth,
	}
}

// Resolver holds what sessions share: path resolution, the file cache and
// the extractor. It is safe for concurrent use; sessions are not.
type Resolver struct {
	paths     *PathResolver
	loader    *SourceLoader
	extractor Extractor
	opts      Options
	logger    *slog.Logger
}

// New creates a resolver. cache may be nil.
func New(extractor Extractor, cache util.FileCache, opts Options, logger *slog.Logger) *Resolver {
	if logger == nil {
		logger = slog.Default()
	}
	if opts.MaxDepth <= 0 {
		opts.MaxDepth = DefaultMaxDepth
	}
	return &Resolver{
		paths:     NewPathResolver(opts.Extensions),
		loader:    NewSourceLoader(cache, logger),
		extractor: extractor,
		opts:      opts,
		logger:    logger,
	}
}

// Options returns the resolver's options.
func (r *Resolver) Options() Options {
	return r.opts
}

// Loader returns the source loader.
func (r *Resolver) Loader() *SourceLoader {
	return r.loader
}

// NewSession starts a resolution request.
func (r *Resolver) NewSession() *Session {
	return &Session{
		r:     r,
		files: make(map[string]*fileState),
	}
}

type fileStatus int

const (
	statusLoaded fileStatus = iota
	statusInProgress
	statusDone
	statusFailed
)

type fileState struct {
	path   string
	status fileStatus
	err    error

	file      *ast.File
	decls     *SymbolTable
	imports   ImportMap
	exportSet ExportSet

	scope   *SymbolTable
	exports *SymbolTable
}

// Session resolves one request. Every file is loaded, parsed and resolved
// at most once per session; all results are discarded with the session.
type Session struct {
	r     *Resolver
	files map[string]*fileState
	stack []string
}

// File returns the parsed file at path.
func (s *Session) File(path string) (*ast.File, error) {
	st, err := s.load(path)
	if err != nil {
		return nil, err
	}
	return st.file, nil
}

// Scope returns everything visible inside the file at path: its own
// declarations plus the resolved exports of its imports. Unlike Exports it
// is not filtered, so non-exported helpers of the file are included.
func (s *Session) Scope(path string) (*SymbolTable, error) {
	st, err := s.resolve(path, 0)
	if err != nil {
		return nil, err
	}
	return st.scope, nil
}

// Exports returns the resolved symbols of the file at path: its scope
// filtered by its export set.
func (s *Session) Exports(path string) (*SymbolTable, error) {
	st, err := s.resolve(path, 0)
	if err != nil {
		return nil, err
	}
	return st.exports, nil
}

// ExportSet returns the export set of the file at path.
func (s *Session) ExportSet(path string) (ExportSet, error) {
	st, err := s.load(path)
	if err != nil {
		return ExportSet{}, err
	}
	return st.exportSet, nil
}

// Files returns the paths loaded so far.
func (s *Session) Files() []string {
	out := make([]string, 0, len(s.files))
	for p := range s.files {
		out = append(out, p)
	}
	return out
}

// load reads and parses path and builds its three tables.
func (s *Session) load(path string) (*fileState, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, errors.Wrapf(err, "resolve path %s", path)
	}
	if st, ok := s.files[abs]; ok {
		if st.status == statusFailed {
			return nil, st.err
		}
		return st, nil
	}

	fail := func(err error) (*fileState, error) {
		s.files[abs] = &fileState{path: abs, status: statusFailed, err: err}
		return nil, err
	}

	src, ok := s.r.loader.Load(abs)
	if !ok {
		return fail(errors.Wrapf(ErrNotFound, "%s", abs))
	}

	file, err := s.r.extractor.ExtractFile(abs, src)
	if err != nil {
		return fail(errors.Mark(errors.Wrapf(err, "extract %s", abs), ErrParse))
	}
	if file.HasErrors {
		s.r.logger.Warn("file has syntax errors, using recovered tree", "path", abs)
	}

	decls := BuildDeclarations(file)
	st := &fileState{
		path:      abs,
		file:      file,
		decls:     decls,
		imports:   BuildImports(file),
		exportSet: BuildExports(file, decls, s.r.opts.ExportPolicy),
	}
	s.files[abs] = st
	return st, nil
}

// resolve computes the scope and exports of path, recursing into its imports.
func (s *Session) resolve(path string, depth int) (*fileState, error) {
	st, err := s.load(path)
	if err != nil {
		return nil, err
	}

	switch st.status {
	case statusDone:
		return st, nil
	case statusInProgress:
		return nil, cycleError(append(append([]string(nil), s.stack...), st.path))
	case statusFailed:
		return nil, st.err
	}

	if depth > s.r.opts.MaxDepth {
		return nil, errors.WithHint(
			errors.Wrapf(ErrMaxDepth, "%d imports deep at %s", depth, st.path),
			"raise max_depth in the project config if the import chain is legitimate")
	}

	st.status = statusInProgress
	s.stack = append(s.stack, st.path)
	defer func() { s.stack = s.stack[:len(s.stack)-1] }()

	if err := s.resolveImports(st, depth); err != nil {
		st.status = statusFailed
		st.err = err
		return nil, err
	}
	st.status = statusDone
	return st, nil
}

func (s *Session) resolveImports(st *fileState, depth int) error {
	scope := st.decls.Clone()
	deps := make(map[string]*fileState)

	for _, spec := range st.imports.Specifiers() {
		target := s.r.paths.Resolve(st.path, spec)
		if target == "" {
			s.r.logger.Debug("skipping package import", "file", st.path, "specifier", spec)
			continue
		}

		dep, err := s.resolve(target, depth+1)
		if err == nil && dep.file.HasErrors && s.r.opts.StrictParse {
			err = errors.Wrapf(ErrParse, "syntax errors in %s", dep.path)
		}
		switch {
		case err == nil:
		case errors.Is(err, ErrNotFound):
			s.r.logger.Debug("unresolvable import", "file", st.path, "specifier", spec, "candidate", target)
			continue
		case errors.Is(err, ErrParse) && !s.r.opts.StrictParse:
			s.r.logger.Warn("skipping import that failed to parse", "file", st.path, "specifier", spec, "error", err)
			continue
		default:
			return err
		}

		deps[spec] = dep
		s.merge(scope, st.imports.Bindings(spec), dep, st.exportSet.HasWildcard(spec))

		s.r.logger.Debug("resolved import",
			"file", st.path,
			"specifier", spec,
			"target", dep.path,
			"exports", dep.exports.Len())
	}

	st.scope = scope
	st.exports = s.filter(st, scope, deps)
	return nil
}

// merge enters the names bound from dep into scope under their local
// names. Exports of dep that the file does not import stay out, except for
// an export * source, whose exports all pass through without displacing a
// declaration of the file.
func (s *Session) merge(scope *SymbolTable, bindings []Binding, dep *fileState, wildcard bool) {
	policy := s.r.opts.MergePolicy
	if wildcard {
		scope.Merge(dep.exports, MergeLocalWins)
	}

	for _, b := range bindings {
		var imported string
		switch b.Kind {
		case ast.BindingDefault:
			imported = dep.exportSet.Default
		case ast.BindingNamed:
			imported = b.Imported
		case ast.BindingNamespace:
			continue
		default:
			panic(errors.AssertionFailedf("unhandled binding kind %d", b.Kind))
		}
		if imported == "" {
			continue
		}
		if values, ok := dep.exports.Get(imported); ok {
			scope.Bind(b.Local, values, policy)
		}
	}
}

// filter keeps the names of scope that the file exports. Names reaching the
// file through export * are exported too.
func (s *Session) filter(st *fileState, scope *SymbolTable, deps map[string]*fileState) *SymbolTable {
	wildcard := make(map[string]bool)
	for _, spec := range st.exportSet.Wildcards {
		if dep, ok := deps[spec]; ok {
			for _, name := range dep.exports.Names() {
				wildcard[name] = true
			}
		}
	}
	return scope.Filter(func(name string) bool {
		return st.exportSet.Has(name) || wildcard[name]
	})
}
