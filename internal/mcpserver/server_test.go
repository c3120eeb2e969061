package mcpserver

import (
	"context"
	"strings"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/starford/sowilo/internal/docservice"
	"github.com/starford/sowilo/internal/render"
	"github.com/starford/sowilo/internal/testutil"
)

func testServer(t *testing.T) *Server {
	t.Helper()

	root, store := testutil.TestDocs(t)
	testutil.WriteDoc(t, root, "readme.md", "# Readme\nHello")
	testutil.WriteDoc(t, root, "guides/setup.md", "# Setup\nSteps")
	testutil.WriteDoc(t, root, "guides/alpha-guide.md", "# Alpha\nDeep")

	return New(docservice.New(store, render.New()))
}

func callTool(t *testing.T, srv *Server, name string, args map[string]interface{}) *mcp.CallToolResult {
	t.Helper()
	ctx := context.Background()
	req := mcp.CallToolRequest{}
	req.Method = "tools/call"
	req.Params.Name = name
	req.Params.Arguments = args

	// mcp-go has no direct call-tool test helper, so the handler
	// functions are exercised directly.
	var result *mcp.CallToolResult
	var err error

	switch name {
	case "list_documents":
		result, err = srv.listDocuments(ctx, req)
	case "read_document":
		result, err = srv.readDocument(ctx, req)
	case "search_documents":
		result, err = srv.searchDocuments(ctx, req)
	default:
		t.Fatalf("unknown tool: %s", name)
	}

	if err != nil {
		t.Fatalf("tool %s error: %v", name, err)
	}
	return result
}

func resultText(r *mcp.CallToolResult) string {
	if len(r.Content) > 0 {
		if tc, ok := r.Content[0].(mcp.TextContent); ok {
			return tc.Text
		}
	}
	return ""
}

func TestListDocuments(t *testing.T) {
	srv := testServer(t)

	r := callTool(t, srv, "list_documents", map[string]interface{}{})
	text := resultText(r)

	for _, want := range []string{"readme.md", "guides/setup.md", "guides/alpha-guide.md"} {
		if !strings.Contains(text, want) {
			t.Errorf("list missing %s:\n%s", want, text)
		}
	}
}

func TestListDocumentsInFolder(t *testing.T) {
	srv := testServer(t)

	r := callTool(t, srv, "list_documents", map[string]interface{}{"folder": "guides"})
	text := resultText(r)

	if !strings.Contains(text, "guides/setup.md") {
		t.Errorf("expected guides content, got %q", text)
	}
	if strings.Contains(text, "readme.md") {
		t.Errorf("expected readme filtered out, got %q", text)
	}
}

func TestReadDocument(t *testing.T) {
	srv := testServer(t)

	r := callTool(t, srv, "read_document", map[string]interface{}{"path": "readme.md"})
	if text := resultText(r); text != "# Readme\nHello" {
		t.Errorf("read result = %q", text)
	}
}

func TestReadDocumentMissing(t *testing.T) {
	srv := testServer(t)

	r := callTool(t, srv, "read_document", map[string]interface{}{"path": "nope.md"})
	if !r.IsError {
		t.Error("expected error for missing document")
	}
}

func TestReadDocumentRejectsNonMarkdown(t *testing.T) {
	srv := testServer(t)

	r := callTool(t, srv, "read_document", map[string]interface{}{"path": "notes.txt"})
	if !r.IsError {
		t.Error("expected error for non-markdown path")
	}
	if text := resultText(r); !strings.Contains(text, "not a markdown document") {
		t.Errorf("error text = %q", text)
	}
}

func TestReadDocumentRejectsTraversal(t *testing.T) {
	srv := testServer(t)

	r := callTool(t, srv, "read_document", map[string]interface{}{"path": "../outside.md"})
	if !r.IsError {
		t.Error("expected error for traversal attempt")
	}
	if text := resultText(r); !strings.Contains(text, "outside the documents root") {
		t.Errorf("error text = %q", text)
	}
}

func TestSearchDocuments(t *testing.T) {
	srv := testServer(t)

	r := callTool(t, srv, "search_documents", map[string]interface{}{"query": "alpha"})
	text := resultText(r)

	if !strings.Contains(text, "guides/alpha-guide.md") {
		t.Errorf("expected match, got %q", text)
	}
	if strings.Contains(text, "readme.md") {
		t.Errorf("expected non-matches excluded, got %q", text)
	}
}

func TestSearchDocumentsNoMatches(t *testing.T) {
	srv := testServer(t)

	r := callTool(t, srv, "search_documents", map[string]interface{}{"query": "zzz"})
	if text := resultText(r); text != "no matches" {
		t.Errorf("result = %q, want no matches", text)
	}
}

func TestTreeResource(t *testing.T) {
	srv := testServer(t)

	contents, err := srv.readTreeResource(context.Background(), mcp.ReadResourceRequest{})
	if err != nil {
		t.Fatalf("readTreeResource() error = %v", err)
	}
	if len(contents) != 1 {
		t.Fatalf("expected 1 content item, got %d", len(contents))
	}
	tc, ok := contents[0].(mcp.TextResourceContents)
	if !ok {
		t.Fatalf("unexpected content type %T", contents[0])
	}
	if !strings.Contains(tc.Text, `"guides"`) || !strings.Contains(tc.Text, `"directory"`) {
		t.Errorf("tree resource missing structure:\n%s", tc.Text)
	}
}
