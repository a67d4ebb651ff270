package mcp

import (
	"context"
	"path/filepath"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// loggingMiddleware records every tool call in the server's call log.
// NewServer installs it only when a call log is configured.
func (s *Server) loggingMiddleware() server.ToolHandlerMiddleware {
	return func(next server.ToolHandlerFunc) server.ToolHandlerFunc {
		return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			start := now()
			result, err := next(ctx, req)
			s.recordCall(req, result, err, start)
			return result, err
		}
	}
}

func (s *Server) recordCall(req mcp.CallToolRequest, result *mcp.CallToolResult, err error, start time.Time) {
	args := req.GetArguments()
	entry := CallLogEntry{
		Ts:            start.UTC().Format(time.RFC3339),
		Tool:          req.Params.Name,
		File:          s.callFile(args),
		Args:          callArgs(args, "path", "name"),
		DurationMs:    now().Sub(start).Milliseconds(),
		Results:       resultCount(result),
		ResponseBytes: ResponseBytes(result),
	}
	if name, ok := args["name"].(string); ok {
		entry.Component = name
	}
	if msg, failed := callError(result, err); failed {
		entry.Error = &msg
	}

	if werr := s.callLog.Write(entry); werr != nil {
		s.logger.Warn("Failed to write call log entry", "tool", entry.Tool, "error", werr)
	}
	s.logger.Debug("Tool call",
		"tool", entry.Tool,
		"file", entry.File,
		"component", entry.Component,
		"duration_ms", entry.DurationMs,
		"results", entry.Results,
		"failed", entry.Error != nil)
}

// callFile resolves the path argument the way the handlers do and reports
// it relative to the root. A path the handlers would reject is kept as
// given.
func (s *Server) callFile(args map[string]any) string {
	raw, ok := args["path"].(string)
	if !ok || raw == "" {
		return ""
	}
	path, err := s.resolvePath(raw)
	if err != nil {
		return raw
	}
	if s.root != "" {
		if rel, err := filepath.Rel(s.root, path); err == nil {
			return filepath.ToSlash(rel)
		}
	}
	return path
}

// callError reports handler errors and tool-level error results alike.
func callError(result *mcp.CallToolResult, err error) (string, bool) {
	if err != nil {
		return err.Error(), true
	}
	if result == nil || !result.IsError {
		return "", false
	}
	for _, c := range result.Content {
		if text, ok := c.(mcp.TextContent); ok {
			return text.Text, true
		}
	}
	return "tool error", true
}
