// Package mcpserver exposes the registered tools over the Model Context
// Protocol so agents can drive the assistant client.
package mcpserver

import (
	"context"
	"encoding/json"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/comigor/memoria/internal/logger"
	"github.com/comigor/memoria/pkg/tools"
)

// New builds an MCP server advertising every tool in m.
func New(name, version string, m *tools.ToolManager) *server.MCPServer {
	s := server.NewMCPServer(name, version, server.WithToolCapabilities(false))
	for _, t := range m.List() {
		s.AddTool(mcp.NewToolWithRawSchema(t.Name(), t.Description(), t.Schema()), handlerFor(t))
		logger.L.Debug("registered MCP tool", "tool", t.Name())
	}
	return s
}

// handlerFor adapts a Tool to an MCP handler. Tool failures are reported as
// tool errors so the calling agent can read them; they never abort the session.
func handlerFor(t tools.Tool) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		args, err := json.Marshal(req.Params.Arguments)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		if string(args) == "null" {
			args = []byte(`{}`)
		}

		out, err := t.Run(ctx, string(args))
		if err != nil {
			logger.L.Warn("tool call failed", "tool", t.Name(), "error", err)
			return mcp.NewToolResultError(err.Error()), nil
		}
		return mcp.NewToolResultText(out), nil
	}
}

// ServeStdio blocks serving s on stdin/stdout.
func ServeStdio(s *server.MCPServer) error {
	return server.ServeStdio(s)
}
