package resolver

import (
	"strings"

	"github.com/cockroachdb/errors"
)

var (
	// ErrCyclicReference is returned when resolution re-enters a file or a
	// type alias that is still being resolved.
	ErrCyclicReference = errors.New("cyclic reference")

	// ErrMaxDepth is returned when an import chain is deeper than Options.MaxDepth.
	ErrMaxDepth = errors.New("import depth limit exceeded")

	// ErrNotFound is returned when a file to resolve does not exist.
	ErrNotFound = errors.New("source file not found")

	// ErrParse is returned when a file cannot be parsed, or, with
	// Options.StrictParse, when its parse tree contains syntax errors.
	ErrParse = errors.New("parse failed")
)

// cycleError reports a cycle along chain, which ends with the re-entered item.
func cycleError(chain []string) error {
	err := errors.Wrapf(ErrCyclicReference, "%s", strings.Join(chain, " -> "))
	return errors.WithHint(err, "break the cycle by moving the shared declarations into a separate file")
}
