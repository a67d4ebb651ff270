package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/gnana997/propdoc/pkg/catalog"
)

const maxWidth = 80

// printComponentHuman prints a human-readable component summary. shared
// maps composed type names to other components composing them.
func printComponentHuman(w io.Writer, comp *catalog.Component, shared map[string][]string) {
	fmt.Fprintf(w, "%s  [%s]\n", comp.Name, comp.Category)
	fmt.Fprintf(w, "  %s\n", comp.FilePath)

	if comp.Description != "" {
		fmt.Fprintln(w)
		printWrapped(w, comp.Description, 0, maxWidth)
	}

	fmt.Fprintln(w)
	printPropsSection(w, "Props", comp.Props)

	fmt.Fprintln(w)
	if len(comp.Composes) == 0 {
		fmt.Fprintln(w, "Composes  (none)")
	} else {
		fmt.Fprintln(w, "Composes")
		for _, name := range comp.Composes {
			if others := shared[name]; len(others) > 0 {
				fmt.Fprintf(w, "  %s  (also: %s)\n", name, strings.Join(others, ", "))
				continue
			}
			fmt.Fprintf(w, "  %s\n", name)
		}
	}
}

// printPropsSection renders the props table with dynamic column widths.
func printPropsSection(w io.Writer, title string, props []catalog.Prop) {
	if len(props) == 0 {
		fmt.Fprintf(w, "%s  (none)\n", title)
		return
	}

	fmt.Fprintln(w, title)

	nameW := len("NAME")
	typeW := len("TYPE")
	for _, p := range props {
		if len(p.Name) > nameW {
			nameW = len(p.Name)
		}
		if len(p.Type) > typeW {
			typeW = len(p.Type)
		}
	}
	// Long union types would push the table past the terminal.
	if limit := maxWidth - nameW - 11; typeW > limit && limit > len("TYPE") {
		typeW = limit
	}

	fmt.Fprintf(w, "  %-*s  %-*s  %-3s\n", nameW, "NAME", typeW, "TYPE", "REQ")
	fmt.Fprintf(w, "  %s\n", strings.Repeat("─", nameW+typeW+7))

	for _, p := range props {
		req := "no"
		if p.Required {
			req = "yes"
		}
		deprecated := ""
		if p.Deprecated {
			deprecated = " [deprecated]"
		}
		fmt.Fprintf(w, "  %-*s  %-*s  %-3s%s\n", nameW, p.Name, typeW, truncate(p.Type, typeW), req, deprecated)

		if p.Description != "" {
			printWrapped(w, p.Description, nameW+4, maxWidth)
		}
	}
}

func truncate(s string, width int) string {
	if len(s) <= width || width < 4 {
		return s
	}
	return s[:width-3] + "..."
}

// printWrapped prints text word-wrapped at width with the given left indent.
func printWrapped(w io.Writer, text string, indent, width int) {
	words := strings.Fields(text)
	prefix := strings.Repeat(" ", indent)
	line := prefix
	for _, word := range words {
		if len(line)+len(word)+1 > width && line != prefix {
			fmt.Fprintln(w, line)
			line = prefix + word
		} else {
			if line == prefix {
				line += word
			} else {
				line += " " + word
			}
		}
	}
	if line != prefix {
		fmt.Fprintln(w, line)
	}
}
