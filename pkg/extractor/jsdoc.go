package extractor

import (
	"strings"

	ts "github.com/tree-sitter/go-tree-sitter"
)

// leadingDoc returns the parsed doc comment directly above n. For a
// declaration inside an export statement the comment sits above the export.
func (l *lowerer) leadingDoc(n *ts.Node) (string, bool) {
	target := n
	if p := n.Parent(); p != nil && p.Kind() == "export_statement" {
		target = p
	}
	prev := target.PrevSibling()
	if prev == nil || prev.Kind() != "comment" {
		return "", false
	}
	return parseJSDoc(l.text(prev))
}

// parseJSDoc parses a comment and returns its description and whether it
// carries @deprecated. Block comments keep only untagged lines, joined with
// spaces; line comments are returned trimmed.
func parseJSDoc(comment string) (string, bool) {
	comment = strings.TrimSpace(comment)

	if strings.HasPrefix(comment, "//") {
		comment = strings.TrimSpace(strings.TrimPrefix(comment, "//"))
		deprecated := strings.Contains(comment, "@deprecated")
		if deprecated {
			comment = strings.TrimSpace(strings.Replace(comment, "@deprecated", "", 1))
		}
		return comment, deprecated
	}

	if !strings.HasPrefix(comment, "/*") {
		return "", false
	}
	comment = strings.TrimPrefix(comment, "/**")
	comment = strings.TrimPrefix(comment, "/*")
	comment = strings.TrimSuffix(comment, "*/")

	var (
		parts      []string
		deprecated bool
	)
	for _, line := range strings.Split(comment, "\n") {
		line = strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(line), "*"))
		switch {
		case line == "":
		case strings.HasPrefix(line, "@deprecated"):
			deprecated = true
			if rest := strings.TrimSpace(strings.TrimPrefix(line, "@deprecated")); rest != "" {
				parts = append(parts, rest)
			}
		case strings.HasPrefix(line, "@"):
		default:
			parts = append(parts, line)
		}
	}
	return strings.Join(parts, " "), deprecated
}
