// Package mcpserver exposes note search over the Model Context Protocol so
// AI clients can query NotePlan.
package mcpserver

import (
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/mgomes/npq/internal/render"
	"github.com/mgomes/npq/internal/search"
)

type NotesServer struct {
	McpServer *server.MCPServer
	searcher  *search.Searcher
}

func NewNotesServer(searcher *search.Searcher, version string) *NotesServer {
	ns := &NotesServer{searcher: searcher}
	ns.McpServer = server.NewMCPServer("npq", version, server.WithToolCapabilities(true))
	ns.addTools()

	return ns
}

func (ns *NotesServer) addTools() {
	ns.McpServer.AddTool(ns.NewSearchNotesTool(), mcp.NewTypedToolHandler(ns.SearchNotes))
	ns.McpServer.AddTool(ns.NewGetNoteTool(), mcp.NewTypedToolHandler(ns.GetNote))
	ns.McpServer.AddTool(ns.NewListNotesTool(), mcp.NewTypedToolHandler(ns.ListNotes))
}

// Serve answers requests on stdin/stdout until the client disconnects.
func (ns *NotesServer) Serve() error {
	return server.ServeStdio(ns.McpServer)
}

func jsonResult(v any) (*mcp.CallToolResult, error) {
	text, err := render.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("failed to encode result: %w", err)
	}

	return &mcp.CallToolResult{
		Content: []mcp.Content{
			mcp.NewTextContent(text),
		},
	}, nil
}

func errorResult(format string, args ...any) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		IsError: true,
		Content: []mcp.Content{
			mcp.NewTextContent(fmt.Sprintf(format, args...)),
		},
	}
}
