// Package mcp exposes component documentation to coding agents over the
// Model Context Protocol.
package mcp

import (
	"log/slog"
	"path/filepath"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/gnana997/propdoc/pkg/catalog"
	"github.com/gnana997/propdoc/pkg/docgen"
)

const serverVersion = "0.1.0-dev"

type toolEntry struct {
	tool    mcp.Tool
	handler server.ToolHandlerFunc
}

// Config holds the collaborators of a Server. Query and CallLog may be nil:
// catalog tools then report that no catalog is loaded, and calls are not
// logged.
type Config struct {
	// Root is the workspace root. Relative tool paths are resolved against
	// it and paths outside it are rejected.
	Root string

	Generator *docgen.Generator
	Query     *catalog.QueryService
	CallLog   *CallLog
	Logger    *slog.Logger
}

// Server implements the MCP server for propdoc, exposing live documentation
// and catalog query tools.
type Server struct {
	mcpServer *server.MCPServer
	root      string
	generator *docgen.Generator
	query     *catalog.QueryService
	callLog   *CallLog
	logger    *slog.Logger
}

// NewServer creates a new MCP server.
func NewServer(cfg Config) *Server {
	s := &Server{
		root:      cfg.Root,
		generator: cfg.Generator,
		query:     cfg.Query,
		callLog:   cfg.CallLog,
		logger:    cfg.Logger,
	}
	if s.logger == nil {
		s.logger = slog.Default()
	}
	if s.root != "" {
		if abs, err := filepath.Abs(s.root); err == nil {
			s.root = abs
		}
	}

	opts := []server.ServerOption{
		server.WithToolCapabilities(false),
		server.WithRecovery(),
	}
	if s.callLog != nil {
		opts = append(opts, server.WithToolHandlerMiddleware(s.loggingMiddleware()))
	}

	s.mcpServer = server.NewMCPServer("propdoc", serverVersion, opts...)

	for _, t := range s.toolSet() {
		s.mcpServer.AddTool(t.tool, t.handler)
	}

	return s
}

// MCPServer returns the underlying server, for in-process clients.
func (s *Server) MCPServer() *server.MCPServer {
	return s.mcpServer
}

// ServeStdio starts the MCP server on stdin/stdout.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcpServer)
}
