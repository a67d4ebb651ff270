package mcp

import (
	"context"
	"encoding/json"
	"path/filepath"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/mark3labs/mcp-go/mcp"

	"github.com/gnana997/propdoc/pkg/docgen"
)

var (
	// ErrOutsideWorkspace is returned for tool paths that leave the root.
	ErrOutsideWorkspace = errors.New("path is outside the workspace")

	errNoCatalog = errors.WithHint(
		errors.New("no catalog loaded"),
		"run 'propdoc scan' to generate the catalog, or pass a path to document the file directly",
	)
)

// handleDocumentFile documents every component in one file.
func (s *Server) handleDocumentFile(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	raw, err := req.RequireString("path")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	path, err := s.resolvePath(raw)
	if err != nil {
		return toolError(err), nil
	}

	documented, err := s.generator.DocumentFile(path)
	if err != nil {
		return toolError(err), nil
	}
	return jsonResult(documented)
}

// handleGetComponent documents one component live when a path is given and
// reads it from the catalog otherwise.
func (s *Server) handleGetComponent(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	name, err := req.RequireString("name")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	if raw := req.GetString("path", ""); raw != "" {
		path, err := s.resolvePath(raw)
		if err != nil {
			return toolError(err), nil
		}
		doc, err := s.generator.DocumentComponent(path, name)
		if err != nil {
			return toolError(err), nil
		}
		return jsonResult(doc)
	}

	if s.query == nil {
		return toolError(errNoCatalog), nil
	}
	comp, ok := s.query.GetComponent(name)
	if !ok {
		return mcp.NewToolResultError("component not found: " + name), nil
	}
	return jsonResult(comp)
}

// handleResolveValue resolves an identifier to plain JSON values.
func (s *Server) handleResolveValue(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	raw, err := req.RequireString("path")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	name, err := req.RequireString("name")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	path, err := s.resolvePath(raw)
	if err != nil {
		return toolError(err), nil
	}

	values, err := s.generator.ResolveValue(path, name)
	if err != nil {
		return toolError(err), nil
	}

	out := make([]any, 0, len(values))
	for _, v := range values {
		out = append(out, docgen.Plain(v))
	}
	return jsonResult(out)
}

func (s *Server) handleListCategories(_ context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	if s.query == nil {
		return toolError(errNoCatalog), nil
	}

	type categorySummary struct {
		Name       string   `json:"name"`
		Count      int      `json:"count"`
		Components []string `json:"components"`
	}
	cats := s.query.ListCategories()
	out := make([]categorySummary, 0, len(cats))
	for _, c := range cats {
		out = append(out, categorySummary{Name: c.Name, Count: len(c.Components), Components: c.Components})
	}
	return jsonResult(out)
}

func (s *Server) handleListComponents(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	if s.query == nil {
		return toolError(errNoCatalog), nil
	}

	type componentSummary struct {
		Name        string `json:"name"`
		Description string `json:"description"`
		Category    string `json:"category"`
		FilePath    string `json:"file_path"`
		PropCount   int    `json:"prop_count"`
	}
	comps := s.query.ListComponents(req.GetString("category", ""), req.GetString("keyword", ""))
	out := make([]componentSummary, 0, len(comps))
	for _, c := range comps {
		out = append(out, componentSummary{
			Name:        c.Name,
			Description: c.Description,
			Category:    c.Category,
			FilePath:    c.FilePath,
			PropCount:   len(c.Props),
		})
	}
	return jsonResult(out)
}

func (s *Server) handleSearchComponents(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	query, err := req.RequireString("query")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if s.query == nil {
		return toolError(errNoCatalog), nil
	}

	type searchHit struct {
		Name        string `json:"name"`
		FilePath    string `json:"file_path"`
		MatchReason string `json:"match_reason"`
	}
	results := s.query.SearchComponents(query)
	out := make([]searchHit, 0, len(results))
	for _, r := range results {
		out = append(out, searchHit{Name: r.Component.Name, FilePath: r.Component.FilePath, MatchReason: r.MatchReason})
	}
	return jsonResult(out)
}

// resolvePath makes p absolute against the root and keeps it inside.
func (s *Server) resolvePath(p string) (string, error) {
	if s.root == "" {
		abs, err := filepath.Abs(p)
		return abs, errors.Wrapf(err, "resolve path %s", p)
	}
	if !filepath.IsAbs(p) {
		p = filepath.Join(s.root, p)
	}
	p = filepath.Clean(p)

	rel, err := filepath.Rel(s.root, p)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", errors.Wrapf(ErrOutsideWorkspace, "%s", p)
	}
	return p, nil
}

// toolError renders err and its hints as a tool-level error.
func toolError(err error) *mcp.CallToolResult {
	msg := err.Error()
	for _, hint := range errors.GetAllHints(err) {
		msg += "\nhint: " + hint
	}
	return mcp.NewToolResultError(msg)
}

func jsonResult(v any) (*mcp.CallToolResult, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, errors.Wrap(err, "encode tool result")
	}
	return mcp.NewToolResultText(string(data)), nil
}
