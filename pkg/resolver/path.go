package resolver

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/gnana997/propdoc/pkg/parser"
)

// DefaultExtensions is the search order for specifiers without an extension.
// The last entry is returned unconditionally when nothing matches.
var DefaultExtensions = []string{".js", ".ts", ".tsx", ".jsx"}

// PathResolver turns an import specifier into a file path.
type PathResolver struct {
	extensions []string
}

// NewPathResolver creates a resolver probing extensions in order. An empty
// list selects DefaultExtensions.
func NewPathResolver(extensions []string) *PathResolver {
	if len(extensions) == 0 {
		extensions = DefaultExtensions
	}
	exts := make([]string, len(extensions))
	for i, e := range extensions {
		if !strings.HasPrefix(e, ".") {
			e = "." + e
		}
		exts[i] = e
	}
	return &PathResolver{extensions: exts}
}

// Extensions returns the search order.
func (p *PathResolver) Extensions() []string {
	return p.extensions
}

// IsRelative reports whether specifier names a file rather than a package.
func IsRelative(specifier string) bool {
	return specifier == "." || specifier == ".." ||
		strings.HasPrefix(specifier, "./") || strings.HasPrefix(specifier, "../") ||
		filepath.IsAbs(specifier)
}

// Resolve returns the candidate path for specifier imported from importer.
//
// A specifier already ending in a source extension is joined with the
// importer's directory as is. Otherwise each extension is tried in order
// and the first existing file wins; then an index file inside a directory
// of that name; and finally the last extension is returned without checking,
// so callers must still test the result for existence.
//
// Package specifiers ("react", "@scope/pkg") return "".
func (p *PathResolver) Resolve(importer, specifier string) string {
	if !IsRelative(specifier) {
		return ""
	}

	base := specifier
	if !filepath.IsAbs(base) {
		base = filepath.Join(filepath.Dir(importer), specifier)
	}

	if parser.HasSourceExtension(base) {
		return base
	}

	for _, ext := range p.extensions {
		if isFile(base + ext) {
			return base + ext
		}
	}
	for _, ext := range p.extensions {
		index := filepath.Join(base, "index"+ext)
		if isFile(index) {
			return index
		}
	}
	return base + p.extensions[len(p.extensions)-1]
}

func isFile(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
