package parser

import (
	"log/slog"
	"sync"
	"unsafe"

	"github.com/cockroachdb/errors"
	ts "github.com/tree-sitter/go-tree-sitter"
)

// parserPool is a channel-backed pool of parsers sharing one grammar.
// Parsers are created lazily up to maxSize; once the pool is full, acquire
// blocks until another goroutine releases a parser.
type parserPool struct {
	pool    chan *ts.Parser
	langPtr unsafe.Pointer
	grammar Grammar
	maxSize int
	logger  *slog.Logger

	mutex   sync.Mutex
	created int
}

func newParserPool(grammar Grammar, langPtr unsafe.Pointer, maxSize int, logger *slog.Logger) *parserPool {
	return &parserPool{
		pool:    make(chan *ts.Parser, maxSize),
		langPtr: langPtr,
		grammar: grammar,
		maxSize: maxSize,
		logger:  logger,
	}
}

func (p *parserPool) acquire() (*ts.Parser, error) {
	select {
	case parser := <-p.pool:
		return parser, nil
	default:
	}

	p.mutex.Lock()
	if p.created >= p.maxSize {
		p.mutex.Unlock()
		return <-p.pool, nil
	}
	defer p.mutex.Unlock()

	parser := ts.NewParser()
	if parser == nil {
		return nil, errors.New("failed to create parser")
	}
	if err := parser.SetLanguage(ts.NewLanguage(p.langPtr)); err != nil {
		parser.Close()
		return nil, errors.Wrap(err, "set language")
	}
	p.created++
	p.logger.Debug("created parser", "grammar", p.grammar.String(), "pool_size", p.created)
	return parser, nil
}

func (p *parserPool) release(parser *ts.Parser) {
	if parser == nil {
		return
	}
	select {
	case p.pool <- parser:
	default:
		parser.Close()
		p.logger.Warn("parser pool full, closing excess parser", "grammar", p.grammar.String())
	}
}

func (p *parserPool) close() {
	close(p.pool)
	for parser := range p.pool {
		parser.Close()
	}
}

func (p *parserPool) createdCount() int {
	p.mutex.Lock()
	defer p.mutex.Unlock()
	return p.created
}
