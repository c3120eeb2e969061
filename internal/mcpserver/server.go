// Package mcpserver provides an MCP (Model Context Protocol) server that
// exposes the document tree and document contents for LLM integration via
// stdio transport. All tools are read-only.
package mcpserver

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/starford/sowilo/internal/apperr"
	"github.com/starford/sowilo/internal/docservice"
	"github.com/starford/sowilo/internal/models"
	"github.com/starford/sowilo/internal/view"
)

// Server wraps the MCP server with document tools.
type Server struct {
	mcp *server.MCPServer
	svc *docservice.Service
}

// New creates a new MCP server with all tools registered.
func New(svc *docservice.Service) *Server {
	s := &Server{svc: svc}

	s.mcp = server.NewMCPServer(
		"Sowilo",
		"1.0.0",
		server.WithToolCapabilities(false),
		server.WithResourceCapabilities(false, false),
	)

	s.mcp.AddTool(mcp.NewTool("list_documents",
		mcp.WithDescription("List all markdown documents, or those under a specific folder."),
		mcp.WithString("folder", mcp.Description("Optional folder to list (empty for all)")),
	), s.listDocuments)

	s.mcp.AddTool(mcp.NewTool("read_document",
		mcp.WithDescription("Read the raw markdown content of a document."),
		mcp.WithString("path", mcp.Required(), mcp.Description("Relative path to the document (e.g. guides/setup.md)")),
	), s.readDocument)

	s.mcp.AddTool(mcp.NewTool("search_documents",
		mcp.WithDescription("Find documents whose name contains the query, case-insensitively."),
		mcp.WithString("query", mcp.Required(), mcp.Description("Substring to match against document names")),
	), s.searchDocuments)

	// Resource: the full document tree as JSON.
	s.mcp.AddResource(
		mcp.NewResource("sowilo://tree", "Document Tree",
			mcp.WithResourceDescription("The hierarchical listing of all markdown documents."),
			mcp.WithMIMEType("application/json"),
		),
		s.readTreeResource,
	)

	return s
}

// ServeStdio starts the MCP server on stdin/stdout.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcp)
}

// MCPServer returns the underlying server for testing.
func (s *Server) MCPServer() *server.MCPServer {
	return s.mcp
}

func (s *Server) listDocuments(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	folder := ""
	if f, err := req.RequireString("folder"); err == nil {
		folder = strings.Trim(f, "/")
	}

	tree, err := s.svc.Tree(ctx)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	var paths []string
	for _, root := range tree {
		root.Walk(func(n *models.TreeNode) {
			if n.IsDir() {
				return
			}
			if folder == "" || strings.HasPrefix(n.Path, folder+"/") {
				paths = append(paths, n.Path)
			}
		})
	}
	if len(paths) == 0 {
		return mcp.NewToolResultText("no documents found"), nil
	}
	return mcp.NewToolResultText(strings.Join(paths, "\n")), nil
}

func (s *Server) readDocument(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	path, err := req.RequireString("path")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	doc, err := s.svc.Document(ctx, path)
	if err != nil {
		switch {
		case errors.Is(err, apperr.ErrInvalidPath):
			return mcp.NewToolResultError(fmt.Sprintf("not a markdown document: %s", path)), nil
		case errors.Is(err, apperr.ErrForbidden):
			return mcp.NewToolResultError(fmt.Sprintf("path is outside the documents root: %s", path)), nil
		case errors.Is(err, apperr.ErrNotFound):
			return mcp.NewToolResultError(fmt.Sprintf("not found: %s", path)), nil
		}
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(doc.Content), nil
}

func (s *Server) searchDocuments(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	query, err := req.RequireString("query")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	tree, err := s.svc.Tree(ctx)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	var paths []string
	collectMatches(view.Filter(tree, query), &paths)
	if len(paths) == 0 {
		return mcp.NewToolResultText("no matches"), nil
	}
	return mcp.NewToolResultText(strings.Join(paths, "\n")), nil
}

// collectMatches gathers the file paths flagged as matches, in display
// order.
func collectMatches(nodes []*view.FilteredNode, out *[]string) {
	for _, n := range nodes {
		if !n.IsDir() && n.SearchMatch {
			*out = append(*out, n.Node.Path)
		}
		collectMatches(n.Children, out)
	}
}

func (s *Server) readTreeResource(ctx context.Context, _ mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	tree, err := s.svc.Tree(ctx)
	if err != nil {
		return nil, fmt.Errorf("mcpserver: list tree: %w", err)
	}
	out, err := json.MarshalIndent(tree, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("mcpserver: encode tree: %w", err)
	}
	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      "sowilo://tree",
			MIMEType: "application/json",
			Text:     string(out),
		},
	}, nil
}
