package parser

import (
	"path/filepath"
	"strings"
)

// Language represents a supported programming language for parsing.
type Language int

const (
	// LanguageTypeScript represents TypeScript (.ts, .tsx files)
	LanguageTypeScript Language = iota
	// LanguageJavaScript represents JavaScript (.js, .jsx files)
	LanguageJavaScript
	// LanguageUnknown represents an unsupported language
	LanguageUnknown
)

// String returns the string representation of the language.
func (l Language) String() string {
	switch l {
	case LanguageTypeScript:
		return "typescript"
	case LanguageJavaScript:
		return "javascript"
	default:
		return "unknown"
	}
}

// SourceExtensions lists every extension the resolver treats as source code.
var SourceExtensions = []string{".js", ".jsx", ".mjs", ".cjs", ".ts", ".tsx", ".mts", ".cts"}

// DetectLanguage detects the programming language from a file path.
// Returns LanguageUnknown if the file extension is not recognized.
func DetectLanguage(filePath string) Language {
	switch strings.ToLower(filepath.Ext(filePath)) {
	case ".ts", ".tsx", ".mts", ".cts":
		return LanguageTypeScript
	case ".js", ".jsx", ".mjs", ".cjs":
		return LanguageJavaScript
	default:
		return LanguageUnknown
	}
}

// HasSourceExtension reports whether path ends in one of SourceExtensions.
func HasSourceExtension(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	for _, e := range SourceExtensions {
		if ext == e {
			return true
		}
	}
	return false
}

// IsTSXFile checks if a file path represents a TSX file.
// TSX files use the TypeScript grammar with JSX support enabled.
func IsTSXFile(filePath string) bool {
	return strings.ToLower(filepath.Ext(filePath)) == ".tsx"
}

// Grammar identifies the tree-sitter grammar used for one file.
type Grammar struct {
	Language Language
	IsTSX    bool
}

// String returns a short grammar label for logging.
func (g Grammar) String() string {
	if g.Language == LanguageTypeScript && g.IsTSX {
		return "tsx"
	}
	return g.Language.String()
}

// GrammarFor picks the grammar for a file.
//
// Annotated JavaScript (Flow) has no tree-sitter grammar of its own. When
// typedJS is set, .js/.jsx/.mjs/.cjs files are parsed with the TSX grammar,
// which accepts the type syntax Flow and TypeScript share (type aliases,
// object types, unions, generics) as well as JSX. With typedJS unset they
// use the plain JavaScript grammar and type declarations are invisible.
func GrammarFor(filePath string, typedJS bool) Grammar {
	lang := DetectLanguage(filePath)
	switch lang {
	case LanguageTypeScript:
		return Grammar{Language: LanguageTypeScript, IsTSX: IsTSXFile(filePath)}
	case LanguageJavaScript:
		if typedJS {
			return Grammar{Language: LanguageTypeScript, IsTSX: true}
		}
		return Grammar{Language: LanguageJavaScript}
	default:
		return Grammar{Language: LanguageUnknown}
	}
}
