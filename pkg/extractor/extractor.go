// Package extractor lowers tree-sitter parse trees into the ast model.
package extractor

import (
	"log/slog"

	"github.com/cockroachdb/errors"
	ts "github.com/tree-sitter/go-tree-sitter"

	"github.com/gnana997/propdoc/pkg/ast"
	"github.com/gnana997/propdoc/pkg/parser"
	"github.com/gnana997/propdoc/pkg/parser/queries"
)

// Extractor parses a file once and lowers everything the resolver needs from
// that single tree: top-level statements and component declarations.
//
//	ex := NewExtractor(parserManager, queryManager, logger)
//	file, err := ex.ExtractFile(path, source)
//	if err != nil {
//	    return err
//	}
//	for _, c := range file.Components { ... }
//
// Safe for concurrent use; the managers it wraps are.
type Extractor struct {
	parserManager *parser.ParserManager
	queryManager  *queries.QueryManager
	logger        *slog.Logger
}

// NewExtractor creates an extractor.
func NewExtractor(pm *parser.ParserManager, qm *queries.QueryManager, logger *slog.Logger) *Extractor {
	if logger == nil {
		logger = slog.Default()
	}
	return &Extractor{
		parserManager: pm,
		queryManager:  qm,
		logger:        logger,
	}
}

// ExtractFile parses source and lowers it. The tree is closed before return;
// nothing in the result points into it.
//
// A file with syntax errors is still lowered (tree-sitter recovers) and
// reported through ast.File.HasErrors. Flow object type spreads are not
// syntax errors.
func (e *Extractor) ExtractFile(filePath string, source []byte) (*ast.File, error) {
	grammar := parser.GrammarFor(filePath, e.parserManager.TypedJS())
	if grammar.Language == parser.LanguageUnknown {
		return nil, errors.Wrapf(parser.ErrUnsupportedLanguage, "%s", filePath)
	}

	tree, err := e.parse(source, grammar)
	if err != nil {
		return nil, errors.Wrapf(err, "parse %s", filePath)
	}
	defer tree.Close()

	root := tree.RootNode()
	l := &lowerer{src: source}

	file := &ast.File{
		Path:      filePath,
		HasErrors: root.HasError(),
	}
	for _, child := range children(root) {
		file.Statements = append(file.Statements, l.statement(child)...)
	}

	if grammar.Language == parser.LanguageTypeScript {
		components, err := e.locateComponents(tree, grammar, l)
		if err != nil {
			return nil, errors.Wrapf(err, "locate components in %s", filePath)
		}
		file.Components = components
	}

	e.logger.Debug("extracted file",
		"file", filePath,
		"grammar", grammar.String(),
		"statements", len(file.Statements),
		"components", len(file.Components),
		"has_errors", file.HasErrors)

	return file, nil
}

// lowerer holds the source of the tree being lowered. The tree may come
// from a spread-rewritten copy of src; offsets are the same in both.
type lowerer struct {
	src []byte
}

func (l *lowerer) text(n *ts.Node) string {
	if n == nil {
		return ""
	}
	return n.Utf8Text(l.src)
}

func (l *lowerer) node(n *ts.Node) ast.Node {
	return ast.Node{Loc: location(n), Raw: l.text(n)}
}

func location(n *ts.Node) ast.Location {
	start := n.StartPosition()
	end := n.EndPosition()
	return ast.Location{
		StartLine:   uint32(start.Row + 1),
		StartColumn: uint32(start.Column + 1),
		EndLine:     uint32(end.Row + 1),
		EndColumn:   uint32(end.Column + 1),
		StartByte:   uint32(n.StartByte()),
		EndByte:     uint32(n.EndByte()),
	}
}

func children(n *ts.Node) []*ts.Node {
	count := n.ChildCount()
	out := make([]*ts.Node, 0, count)
	for i := uint(0); i < count; i++ {
		if c := n.Child(i); c != nil {
			out = append(out, c)
		}
	}
	return out
}

// namedChildren returns the named children of n, skipping comments.
func namedChildren(n *ts.Node) []*ts.Node {
	count := n.NamedChildCount()
	out := make([]*ts.Node, 0, count)
	for i := uint(0); i < count; i++ {
		c := n.NamedChild(i)
		if c == nil || c.Kind() == "comment" {
			continue
		}
		out = append(out, c)
	}
	return out
}

func firstNamedChild(n *ts.Node) *ts.Node {
	if kids := namedChildren(n); len(kids) > 0 {
		return kids[0]
	}
	return nil
}

func childOfKind(n *ts.Node, kinds ...string) *ts.Node {
	for _, c := range children(n) {
		for _, k := range kinds {
			if c.Kind() == k {
				return c
			}
		}
	}
	return nil
}
