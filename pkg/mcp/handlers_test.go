package mcp

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gnana997/propdoc/pkg/catalog"
	"github.com/gnana997/propdoc/pkg/docgen"
	"github.com/gnana997/propdoc/pkg/extractor"
	"github.com/gnana997/propdoc/pkg/parser"
	"github.com/gnana997/propdoc/pkg/parser/queries"
	"github.com/gnana997/propdoc/pkg/resolver"
	"github.com/gnana997/propdoc/pkg/util"
)

// --- helpers ---

var fixture = map[string]string{
	"types.ts": `
export type Size = 'sm' | 'lg';
export const iconNames = ['add', 'close'];
export interface BaseProps {
  /** Element id. */
  id: string;
}
`,
	"ui/Button.tsx": `
import { BaseProps, Size } from '../types';

/** A clickable button. */
export function Button(props: BaseProps & { size?: Size }) {
  return null;
}
`,
}

func writeTree(t *testing.T, files map[string]string) string {
	t.Helper()
	dir := t.TempDir()
	for name, content := range files {
		path := filepath.Join(dir, name)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	}
	return dir
}

func newGenerator(t *testing.T) *docgen.Generator {
	t.Helper()
	pm := parser.NewParserManager(util.NopLogger())
	qm := queries.NewQueryManager(util.NopLogger())
	cache := util.NewFileCache(util.UnboundedFileCacheConfig())
	t.Cleanup(func() {
		cache.Close()
		qm.Close()
		pm.Close()
	})
	ex := extractor.NewExtractor(pm, qm, util.NopLogger())
	res := resolver.New(ex, cache, resolver.DefaultOptions(), util.NopLogger())
	return docgen.NewGenerator(res, util.NopLogger())
}

func testCatalog() *catalog.QueryService {
	cat := &catalog.Catalog{
		Name:    "test",
		Version: "1.0",
		Categories: []catalog.Category{
			{Name: "ui", Components: []string{"Button"}},
			{Name: "overlay", Components: []string{"Dialog"}},
		},
		Components: []catalog.Component{
			{
				Name:        "Button",
				Description: "A clickable button",
				Category:    "ui",
				FilePath:    "ui/Button.tsx",
				Props: []catalog.Prop{
					{Name: "id", Type: "string", Required: true},
					{Name: "size", Type: "Size"},
				},
			},
			{
				Name:        "Dialog",
				Description: "A modal overlay",
				Category:    "overlay",
				FilePath:    "overlay/Dialog.tsx",
				Props:       []catalog.Prop{{Name: "open", Type: "boolean", Required: true}},
				Composes:    []string{"ModalProps"},
			},
		},
	}
	return catalog.NewQueryService(cat, cat.BuildIndex())
}

func testServer(t *testing.T) (*Server, string) {
	t.Helper()
	root := writeTree(t, fixture)
	return NewServer(Config{
		Root:      root,
		Generator: newGenerator(t),
		Query:     testCatalog(),
		Logger:    util.NopLogger(),
	}), root
}

func callTool(t *testing.T, s *Server, req mcp.CallToolRequest) *mcp.CallToolResult {
	t.Helper()
	var handler func(context.Context, mcp.CallToolRequest) (*mcp.CallToolResult, error)
	for _, entry := range s.toolSet() {
		if entry.tool.Name == req.Params.Name {
			handler = entry.handler
		}
	}
	if handler == nil {
		t.Fatalf("unknown tool: %s", req.Params.Name)
	}

	result, err := handler(context.Background(), req)
	require.NoError(t, err)
	require.NotNil(t, result)
	return result
}

func makeRequest(toolName string, args map[string]any) mcp.CallToolRequest {
	var arguments any
	if args != nil {
		arguments = args
	}
	return mcp.CallToolRequest{
		Params: mcp.CallToolParams{
			Name:      toolName,
			Arguments: arguments,
		},
	}
}

func resultText(t *testing.T, result *mcp.CallToolResult) string {
	t.Helper()
	require.NotEmpty(t, result.Content)
	textContent, ok := result.Content[0].(mcp.TextContent)
	require.True(t, ok, "expected TextContent, got %T", result.Content[0])
	return textContent.Text
}

// --- registration ---

func TestToolSet(t *testing.T) {
	s, _ := testServer(t)

	var names []string
	for _, entry := range s.toolSet() {
		names = append(names, entry.tool.Name)
		assert.NotEmpty(t, entry.tool.Description, entry.tool.Name)
	}
	assert.Equal(t, []string{
		"document_file",
		"get_component",
		"resolve_value",
		"list_categories",
		"list_components",
		"search_components",
	}, names)
	assert.NotNil(t, s.MCPServer())
}

// --- document_file ---

func TestHandleDocumentFile(t *testing.T) {
	s, root := testServer(t)

	result := callTool(t, s, makeRequest("document_file", map[string]any{"path": "ui/Button.tsx"}))
	require.False(t, result.IsError, resultText(t, result))

	var docs []struct {
		DisplayName string `json:"displayName"`
		Description string `json:"description"`
		FilePath    string `json:"filePath"`
		Props       map[string]struct {
			FlowType struct {
				Name string `json:"name"`
			} `json:"flowType"`
			Required    bool   `json:"required"`
			Description string `json:"description"`
		} `json:"props"`
	}
	require.NoError(t, json.Unmarshal([]byte(resultText(t, result)), &docs))
	require.Len(t, docs, 1)

	doc := docs[0]
	assert.Equal(t, "Button", doc.DisplayName)
	assert.Equal(t, "A clickable button.", doc.Description)
	assert.Equal(t, filepath.Join(root, "ui", "Button.tsx"), doc.FilePath)
	require.Contains(t, doc.Props, "id")
	assert.True(t, doc.Props["id"].Required)
	assert.Equal(t, "string", doc.Props["id"].FlowType.Name)
	assert.Equal(t, "Element id.", doc.Props["id"].Description)
	require.Contains(t, doc.Props, "size")
	assert.False(t, doc.Props["size"].Required)
}

func TestHandleDocumentFile_Errors(t *testing.T) {
	s, _ := testServer(t)

	tests := []struct {
		name string
		args map[string]any
		want string
	}{
		{"missing path", nil, "path"},
		{"outside workspace", map[string]any{"path": "../elsewhere.tsx"}, "outside the workspace"},
		{"missing file", map[string]any{"path": "ui/Nope.tsx"}, "not found"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := callTool(t, s, makeRequest("document_file", tt.args))
			assert.True(t, result.IsError)
			assert.Contains(t, resultText(t, result), tt.want)
		})
	}
}

// --- get_component ---

func TestHandleGetComponent_Live(t *testing.T) {
	s, _ := testServer(t)

	result := callTool(t, s, makeRequest("get_component", map[string]any{"name": "Button", "path": "ui/Button.tsx"}))
	require.False(t, result.IsError, resultText(t, result))

	var doc map[string]any
	require.NoError(t, json.Unmarshal([]byte(resultText(t, result)), &doc))
	assert.Equal(t, "Button", doc["displayName"])
	assert.Contains(t, doc["props"], "size")
}

func TestHandleGetComponent_LiveNotFound(t *testing.T) {
	s, _ := testServer(t)

	result := callTool(t, s, makeRequest("get_component", map[string]any{"name": "Card", "path": "ui/Button.tsx"}))
	assert.True(t, result.IsError)
	assert.Contains(t, resultText(t, result), "component not found")
}

func TestHandleGetComponent_Catalog(t *testing.T) {
	s, _ := testServer(t)

	result := callTool(t, s, makeRequest("get_component", map[string]any{"name": "Dialog"}))
	require.False(t, result.IsError)

	var comp catalog.Component
	require.NoError(t, json.Unmarshal([]byte(resultText(t, result)), &comp))
	assert.Equal(t, "overlay/Dialog.tsx", comp.FilePath)
	assert.Equal(t, []string{"ModalProps"}, comp.Composes)

	result = callTool(t, s, makeRequest("get_component", map[string]any{"name": "Missing"}))
	assert.True(t, result.IsError)
}

func TestHandleGetComponent_NoCatalog(t *testing.T) {
	s := NewServer(Config{Root: t.TempDir(), Generator: newGenerator(t)})

	result := callTool(t, s, makeRequest("get_component", map[string]any{"name": "Button"}))
	assert.True(t, result.IsError)
	text := resultText(t, result)
	assert.Contains(t, text, "no catalog loaded")
	assert.Contains(t, text, "hint: run 'propdoc scan'")
}

// --- resolve_value ---

func TestHandleResolveValue(t *testing.T) {
	s, _ := testServer(t)

	result := callTool(t, s, makeRequest("resolve_value", map[string]any{"path": "types.ts", "name": "iconNames"}))
	require.False(t, result.IsError, resultText(t, result))
	assert.JSONEq(t, `[["add","close"]]`, resultText(t, result))

	result = callTool(t, s, makeRequest("resolve_value", map[string]any{"path": "types.ts", "name": "missing"}))
	assert.True(t, result.IsError)
	assert.Contains(t, resultText(t, result), "symbol not found")

	result = callTool(t, s, makeRequest("resolve_value", map[string]any{"path": "types.ts"}))
	assert.True(t, result.IsError)
}

// --- catalog tools ---

func TestHandleListCategories(t *testing.T) {
	s, _ := testServer(t)

	result := callTool(t, s, makeRequest("list_categories", nil))
	require.False(t, result.IsError)

	var cats []map[string]any
	require.NoError(t, json.Unmarshal([]byte(resultText(t, result)), &cats))
	require.Len(t, cats, 2)
	assert.Equal(t, "ui", cats[0]["name"])
	assert.Equal(t, float64(1), cats[0]["count"])
}

func TestHandleListComponents(t *testing.T) {
	s, _ := testServer(t)

	tests := []struct {
		name string
		args map[string]any
		want []string
	}{
		{"no filter", nil, []string{"Button", "Dialog"}},
		{"by category", map[string]any{"category": "overlay"}, []string{"Dialog"}},
		{"by keyword", map[string]any{"keyword": "clickable"}, []string{"Button"}},
		{"no match", map[string]any{"keyword": "zzz"}, []string{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := callTool(t, s, makeRequest("list_components", tt.args))
			require.False(t, result.IsError)

			var comps []struct {
				Name      string `json:"name"`
				PropCount int    `json:"prop_count"`
			}
			require.NoError(t, json.Unmarshal([]byte(resultText(t, result)), &comps))
			got := make([]string, 0, len(comps))
			for _, c := range comps {
				got = append(got, c.Name)
			}
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestHandleSearchComponents(t *testing.T) {
	s, _ := testServer(t)

	result := callTool(t, s, makeRequest("search_components", map[string]any{"query": "modalprops"}))
	require.False(t, result.IsError)
	assert.JSONEq(t, `[{"name":"Dialog","file_path":"overlay/Dialog.tsx","match_reason":"composes:ModalProps"}]`, resultText(t, result))

	result = callTool(t, s, makeRequest("search_components", map[string]any{"query": "nothing"}))
	require.False(t, result.IsError)
	assert.JSONEq(t, `[]`, resultText(t, result))

	result = callTool(t, s, makeRequest("search_components", nil))
	assert.True(t, result.IsError)
}

// --- paths ---

func TestResolvePath(t *testing.T) {
	root := t.TempDir()
	s := NewServer(Config{Root: root})

	got, err := s.resolvePath("a/b.tsx")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(root, "a", "b.tsx"), got)

	got, err = s.resolvePath(filepath.Join(root, "x.ts"))
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(root, "x.ts"), got)

	_, err = s.resolvePath("../x.ts")
	assert.ErrorIs(t, err, ErrOutsideWorkspace)

	_, err = s.resolvePath(filepath.Join(filepath.Dir(root), "x.ts"))
	assert.ErrorIs(t, err, ErrOutsideWorkspace)
}
