// Package docgen documents the components of a source file: it finds each
// component's props annotation and walks it, resolving spread types across
// files through a resolver session.
//
//	gen := docgen.NewGenerator(res, logger)
//	docs, err := gen.DocumentFile("src/Button.tsx")
package docgen

import (
	"log/slog"
	"path/filepath"

	"github.com/cockroachdb/errors"

	"github.com/gnana997/propdoc/pkg/ast"
	"github.com/gnana997/propdoc/pkg/docs"
	"github.com/gnana997/propdoc/pkg/resolver"
)

var (
	// ErrComponentNotFound is returned when a file declares no component of
	// the requested name.
	ErrComponentNotFound = errors.New("component not found")

	// ErrSymbolNotFound is returned when a name is not visible in a file.
	ErrSymbolNotFound = errors.New("symbol not found")
)

// Option configures a Generator.
type Option func(*Generator)

// WithDescriptionFunc replaces the default description collaborator.
func WithDescriptionFunc(fn DescriptionFunc) Option {
	return func(g *Generator) {
		g.describe = fn
	}
}

// Generator produces Documentation for the components of a file. Each call
// is one resolution request with its own session. Safe for concurrent use.
type Generator struct {
	resolver *resolver.Resolver
	describe DescriptionFunc
	logger   *slog.Logger
}

// NewGenerator creates a generator over res.
func NewGenerator(res *resolver.Resolver, logger *slog.Logger, opts ...Option) *Generator {
	if logger == nil {
		logger = slog.Default()
	}
	g := &Generator{
		resolver: res,
		describe: SetPropDescription,
		logger:   logger,
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// DocumentFile documents every component declared in path, in source order.
// A file without components yields an empty slice.
func (g *Generator) DocumentFile(path string) ([]*docs.Documentation, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, errors.Wrapf(err, "resolve path %s", path)
	}

	session := g.resolver.NewSession()
	file, err := session.File(abs)
	if err != nil {
		return nil, errors.Wrapf(err, "document %s", abs)
	}

	walker := NewWalker(session, g.describe, g.logger)
	out := make([]*docs.Documentation, 0, len(file.Components))
	for _, c := range file.Components {
		doc, err := g.document(walker, abs, c)
		if err != nil {
			return nil, err
		}
		out = append(out, doc)
	}

	g.logger.Debug("documented file",
		"path", abs,
		"components", len(out),
		"files_resolved", len(session.Files()))
	return out, nil
}

// DocumentComponent documents the component called name in path.
func (g *Generator) DocumentComponent(path, name string) (*docs.Documentation, error) {
	all, err := g.DocumentFile(path)
	if err != nil {
		return nil, err
	}
	for _, doc := range all {
		if doc.DisplayName == name {
			return doc, nil
		}
	}
	return nil, errors.Wrapf(ErrComponentNotFound, "%s in %s", name, path)
}

func (g *Generator) document(walker *Walker, path string, c ast.Component) (*docs.Documentation, error) {
	doc := docs.New()
	doc.DisplayName = c.Name
	doc.Description = c.Description
	doc.FilePath = path

	if err := walker.WalkProps(doc, path, c.Props); err != nil {
		return nil, errors.Wrapf(err, "document %s in %s", c.Name, path)
	}
	if err := walker.WalkPropTypes(doc, path, c.PropTypes); err != nil {
		return nil, errors.Wrapf(err, "document %s in %s", c.Name, path)
	}
	return doc, nil
}

// ResolveValue returns the values visible under name in path, following
// identifier aliases (const a = b) to what they finally name. It serves
// values imported from other files, such as a list of allowed names shared
// between components.
func (g *Generator) ResolveValue(path, name string) ([]resolver.Value, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, errors.Wrapf(err, "resolve path %s", path)
	}

	return newValueResolver(g.resolver.NewSession()).resolve(abs, name)
}
