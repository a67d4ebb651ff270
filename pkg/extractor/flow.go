package extractor

import (
	"bytes"

	ts "github.com/tree-sitter/go-tree-sitter"

	"github.com/gnana997/propdoc/pkg/parser"
)

// Object type spread ({ ...Base, b: T }) is Flow syntax the TypeScript
// grammar rejects. Before lowering, every "..." the parser could not place
// is overwritten with spreadMarker and the source reparsed, so the spread
// reads as a property named "$$" whose type is the spread target. The
// marker has the same length as "...", so byte offsets into the rewritten
// source hold for the original one and the lowerer keeps reading text from
// the original.
const spreadMarker = "$$:"

// spreadName is the original text under the marker's property name.
const spreadName = ".."

// maxSpreadPasses bounds the reparse loop. Each pass fixes every spread
// inside the error regions of the previous tree.
const maxSpreadPasses = 8

// parse parses source and reparses it with Flow spreads rewritten until the
// tree is clean or nothing more can be rewritten. source is never modified.
func (e *Extractor) parse(source []byte, grammar parser.Grammar) (*ts.Tree, error) {
	tree, err := e.parserManager.Parse(source, grammar)
	if err != nil {
		return nil, err
	}

	current := source
	for pass := 0; pass < maxSpreadPasses && tree.RootNode().HasError(); pass++ {
		next, changed := rewriteSpreads(current, errorRanges(tree.RootNode()))
		if !changed {
			break
		}
		retry, err := e.parserManager.Parse(next, grammar)
		if err != nil {
			e.logger.Debug("reparse after spread rewrite failed", "error", err)
			break
		}
		tree.Close()
		tree, current = retry, next
	}
	return tree, nil
}

type byteRange struct{ start, end int }

// errorRanges returns the byte ranges of the outermost ERROR nodes under n.
func errorRanges(n *ts.Node) []byteRange {
	if n.IsError() {
		return []byteRange{{int(n.StartByte()), int(n.EndByte())}}
	}
	if !n.HasError() {
		return nil
	}
	var out []byteRange
	for _, c := range children(n) {
		out = append(out, errorRanges(c)...)
	}
	return out
}

// rewriteSpreads replaces spread tokens inside the given ranges. A spread
// token right before a range counts too; recovery sometimes starts the
// ERROR node at the spread target. The returned slice is a copy whenever
// anything changed.
func rewriteSpreads(src []byte, ranges []byteRange) ([]byte, bool) {
	var out []byte
	for _, r := range ranges {
		start := r.start
		i := start
		for i > 0 && isSpace(src[i-1]) {
			i--
		}
		if i >= 3 && bytes.Equal(src[i-3:i], []byte("...")) {
			start = i - 3
		}

		for i := start; i+3 <= r.end && i+3 <= len(src); i++ {
			if !isSpreadAt(src, i) {
				continue
			}
			if out == nil {
				out = append([]byte(nil), src...)
			}
			copy(out[i:], spreadMarker)
			i += 2
		}
	}
	if out == nil {
		return src, false
	}
	return out, true
}

// isSpreadAt reports whether src holds a spread token at i: exactly three
// dots followed by a type.
func isSpreadAt(src []byte, i int) bool {
	if !bytes.Equal(src[i:i+3], []byte("...")) || (i > 0 && src[i-1] == '.') {
		return false
	}
	j := i + 3
	for j < len(src) && isSpace(src[j]) {
		j++
	}
	if j >= len(src) {
		return false
	}
	c := src[j]
	return c == '{' || c == '$' || c == '_' ||
		(c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r'
}

// isSpread reports whether a property signature is a rewritten spread.
func (l *lowerer) isSpread(n *ts.Node) bool {
	name := n.ChildByFieldName("name")
	return name != nil && l.text(name) == spreadName && n.ChildByFieldName("type") != nil
}
