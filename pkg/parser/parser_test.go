package parser

import (
	"log/slog"
	"os"
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const flowSource = `// @flow
import type { BaseProps } from './base';

export type Props = BaseProps & {
  label: string,
  size?: 'small' | 'large',
};
`

const tsxSource = `import React from 'react';

interface ButtonProps {
  label: string;
}

export function Button(props: ButtonProps) {
  return <button>{props.label}</button>;
}
`

func newTestManager(t *testing.T, opts ...Option) *ParserManager {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
	manager := NewParserManager(logger, opts...)
	t.Cleanup(func() { manager.Close() })
	return manager
}

func TestParseTSX(t *testing.T) {
	manager := newTestManager(t)

	tree, err := manager.Parse([]byte(tsxSource), Grammar{Language: LanguageTypeScript, IsTSX: true})
	require.NoError(t, err)
	defer tree.Close()

	root := tree.RootNode()
	assert.Equal(t, "program", root.Kind())
	assert.False(t, root.HasError())
	assert.Contains(t, root.ToSexp(), "jsx_element")
	assert.Contains(t, root.ToSexp(), "interface_declaration")
}

func TestParseFile_TypedJavaScript(t *testing.T) {
	manager := newTestManager(t)
	assert.True(t, manager.TypedJS())

	tree, err := manager.ParseFile([]byte(flowSource), "src/Props.js")
	require.NoError(t, err)
	defer tree.Close()

	assert.Contains(t, tree.RootNode().ToSexp(), "type_alias_declaration")
}

func TestParseFile_UntypedJavaScript(t *testing.T) {
	manager := newTestManager(t, WithTypedJS(false))

	tree, err := manager.ParseFile([]byte("export const iconNames = ['add'];\n"), "icons.js")
	require.NoError(t, err)
	defer tree.Close()

	assert.Equal(t, "program", tree.RootNode().Kind())
	assert.False(t, tree.RootNode().HasError())
}

func TestParseFile_UnsupportedExtension(t *testing.T) {
	manager := newTestManager(t)

	_, err := manager.ParseFile([]byte("body {}"), "styles.css")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrUnsupportedLanguage))
}

func TestParse_SyntaxErrorStillReturnsTree(t *testing.T) {
	manager := newTestManager(t)

	tree, err := manager.ParseFile([]byte("export type Props = { label: "), "broken.ts")
	require.NoError(t, err)
	defer tree.Close()

	assert.True(t, tree.RootNode().HasError())
}

func TestGrammarFor(t *testing.T) {
	tests := []struct {
		path    string
		typedJS bool
		want    Grammar
	}{
		{"a.ts", true, Grammar{Language: LanguageTypeScript}},
		{"a.mts", false, Grammar{Language: LanguageTypeScript}},
		{"a.tsx", false, Grammar{Language: LanguageTypeScript, IsTSX: true}},
		{"a.js", true, Grammar{Language: LanguageTypeScript, IsTSX: true}},
		{"a.jsx", true, Grammar{Language: LanguageTypeScript, IsTSX: true}},
		{"a.js", false, Grammar{Language: LanguageJavaScript}},
		{"a.cjs", false, Grammar{Language: LanguageJavaScript}},
		{"a.json", true, Grammar{Language: LanguageUnknown}},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, GrammarFor(tt.path, tt.typedJS), "%s typedJS=%v", tt.path, tt.typedJS)
	}
}

func TestHasSourceExtension(t *testing.T) {
	for _, p := range []string{"a.js", "a.JSX", "dir/a.ts", "a.tsx", "a.mjs", "a.cjs", "a.mts", "a.cts"} {
		assert.True(t, HasSourceExtension(p), p)
	}
	for _, p := range []string{"a", "a.json", "a.css", "./types"} {
		assert.False(t, HasSourceExtension(p), p)
	}
}

func TestGrammarString(t *testing.T) {
	assert.Equal(t, "tsx", Grammar{Language: LanguageTypeScript, IsTSX: true}.String())
	assert.Equal(t, "typescript", Grammar{Language: LanguageTypeScript}.String())
	assert.Equal(t, "javascript", Grammar{Language: LanguageJavaScript}.String())
	assert.Equal(t, "unknown", Grammar{Language: LanguageUnknown}.String())
}

func TestParserStats(t *testing.T) {
	manager := newTestManager(t, WithPoolSize(2))

	for i := 0; i < 3; i++ {
		tree, err := manager.ParseFile([]byte("const x: number = 1;"), "x.ts")
		require.NoError(t, err)
		tree.Close()
	}

	stats := manager.GetStats()
	assert.Equal(t, 3, stats.ParsesCalled)
	assert.Equal(t, 1, stats.ParsersCreated, "sequential parses reuse one parser")
}
