package parser

import (
	"github.com/gnana997/propdoc/pkg/util"
)

// getPoolSize returns the per-grammar parser pool size.
//
// A zero override selects util.GetOptimalPoolSize(), which also sizes the
// workspace worker pool: with equal sizes a worker never blocks waiting for
// a parser.
func getPoolSize(override int) int {
	return util.GetOptimalPoolSizeWithOverride(override)
}
