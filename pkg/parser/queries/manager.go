// Package queries provides tree-sitter query compilation, caching, and execution.
package queries

import (
	"log/slog"
	"strings"
	"sync"

	"github.com/cockroachdb/errors"
	ts "github.com/tree-sitter/go-tree-sitter"

	"github.com/gnana997/propdoc/pkg/parser"
	"github.com/gnana997/propdoc/pkg/parser/queries/components"
)

// QueryType identifies which query pack to run.
type QueryType int

const (
	// QueryTypeComponents locates component declarations and their props annotation.
	QueryTypeComponents QueryType = iota
)

// String returns the string representation of a QueryType.
func (qt QueryType) String() string {
	switch qt {
	case QueryTypeComponents:
		return "components"
	default:
		return "unknown"
	}
}

type queryKey struct {
	grammar parser.Grammar
	qtype   QueryType
}

// QueryManager compiles queries lazily and caches them per grammar.
//
//	qm := NewQueryManager(logger)
//	defer qm.Close()
//
//	query, err := qm.GetQuery(grammar, QueryTypeComponents)
//	if err != nil {
//	    return err
//	}
//	matches, err := qm.ExecuteQuery(tree, query, source)
type QueryManager struct {
	cache  map[queryKey]*ts.Query
	mutex  sync.RWMutex
	logger *slog.Logger
}

// NewQueryManager creates a new query manager. Logger can be nil.
func NewQueryManager(logger *slog.Logger) *QueryManager {
	if logger == nil {
		logger = slog.Default()
	}
	return &QueryManager{
		cache:  make(map[queryKey]*ts.Query),
		logger: logger,
	}
}

// GetQuery returns the compiled query for grammar and qtype, compiling it on
// first use. Safe for concurrent use.
func (qm *QueryManager) GetQuery(grammar parser.Grammar, qtype QueryType) (*ts.Query, error) {
	key := queryKey{grammar: grammar, qtype: qtype}

	qm.mutex.RLock()
	query, ok := qm.cache[key]
	qm.mutex.RUnlock()
	if ok {
		return query, nil
	}

	qm.mutex.Lock()
	defer qm.mutex.Unlock()

	if query, ok = qm.cache[key]; ok {
		return query, nil
	}

	source, err := queryString(grammar, qtype)
	if err != nil {
		return nil, err
	}
	langPtr, err := parser.LanguagePointer(grammar)
	if err != nil {
		return nil, err
	}

	query, qerr := ts.NewQuery(ts.NewLanguage(langPtr), source)
	if qerr != nil {
		return nil, errors.Newf("compile %s query for %s: %s", qtype, grammar, qerr.Message)
	}
	qm.cache[key] = query

	qm.logger.Debug("compiled query", "grammar", grammar.String(), "type", qtype.String())
	return query, nil
}

func queryString(grammar parser.Grammar, qtype QueryType) (string, error) {
	switch qtype {
	case QueryTypeComponents:
		// Component detection needs type annotations, which the plain
		// JavaScript grammar does not have.
		if grammar.Language != parser.LanguageTypeScript {
			return "", errors.Wrapf(parser.ErrUnsupportedLanguage, "%s query for %s", qtype, grammar)
		}
		return components.TSQueries, nil
	default:
		return "", errors.Newf("unknown query type: %d", qtype)
	}
}

// ExecuteQuery runs a compiled query over tree and returns every match.
func (qm *QueryManager) ExecuteQuery(tree *ts.Tree, query *ts.Query, source []byte) ([]QueryMatch, error) {
	if tree == nil {
		return nil, errors.New("tree is nil")
	}
	if query == nil {
		return nil, errors.New("query is nil")
	}

	cursor := ts.NewQueryCursor()
	defer cursor.Close()

	iter := cursor.Matches(query, tree.RootNode(), source)
	captureNames := query.CaptureNames()

	var matches []QueryMatch
	for {
		match := iter.Next()
		if match == nil {
			break
		}

		captures := make([]QueryCapture, 0, len(match.Captures))
		for _, capture := range match.Captures {
			var name string
			if int(capture.Index) < len(captureNames) {
				name = captureNames[capture.Index]
			}
			category, field := parseCaptureName(name)
			node := capture.Node
			captures = append(captures, QueryCapture{
				Name:     name,
				Category: category,
				Field:    field,
				Node:     &node,
				Text:     node.Utf8Text(source),
			})
		}

		matches = append(matches, QueryMatch{
			PatternIndex: uint32(match.PatternIndex),
			Captures:     captures,
		})
	}
	return matches, nil
}

// Close releases all compiled queries.
func (qm *QueryManager) Close() error {
	qm.mutex.Lock()
	defer qm.mutex.Unlock()

	for key, query := range qm.cache {
		query.Close()
		delete(qm.cache, key)
	}
	return nil
}

// QueryMatch represents a single pattern match from query execution.
type QueryMatch struct {
	// PatternIndex identifies which query pattern matched
	PatternIndex uint32

	// Captures contains all captured nodes for this match
	Captures []QueryCapture
}

// Capture returns the first capture with the given field, or nil.
func (m QueryMatch) Capture(field string) *QueryCapture {
	for i := range m.Captures {
		if m.Captures[i].Field == field {
			return &m.Captures[i]
		}
	}
	return nil
}

// QueryCapture represents a single captured node from a query match.
type QueryCapture struct {
	// Name is the full capture name (e.g., "component.name")
	Name string

	// Category is the part before the dot ("component")
	Category string

	// Field is the part after the dot ("name"); empty if there is no dot
	Field string

	// Node is the captured syntax node
	Node *ts.Node

	// Text is the source text of the captured node
	Text string
}

// parseCaptureName splits "component.name" into ("component", "name").
func parseCaptureName(name string) (category, field string) {
	if i := strings.IndexByte(name, '.'); i >= 0 {
		return name[:i], name[i+1:]
	}
	return name, ""
}
