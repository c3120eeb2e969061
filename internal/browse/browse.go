// Package browse is the interactive terminal browser. It drives the same
// document API as the web client through a line-command loop: the tree
// pane comes from the pure view renderers, documents are highlighted
// markdown, and navigation history works like the browser's.
package browse

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/alecthomas/chroma/v2/quick"

	"github.com/starford/sowilo/internal/models"
	"github.com/starford/sowilo/internal/view"
	"github.com/starford/sowilo/internal/viewer"
)

// Source is the slice of the document API the browser needs. The HTTP
// client satisfies it.
type Source interface {
	Ping(ctx context.Context) error
	Tree(ctx context.Context) ([]*models.TreeNode, error)
	Document(ctx context.Context, path string) (*models.DocumentPayload, error)
}

// App holds the whole browser state explicitly: the loaded tree, the view
// state, and the viewer with its history.
type App struct {
	source Source
	viewer *viewer.Viewer
	state  *view.State
	tree   []*models.TreeNode

	in  io.Reader
	out io.Writer
}

func New(src Source, in io.Reader, out io.Writer) *App {
	return &App{
		source: src,
		viewer: viewer.New(src, viewer.NewProcessor(viewer.NewMermaidRenderer())),
		state:  view.NewState(),
		in:     in,
		out:    out,
	}
}

// Run checks the server, loads the tree, and enters the command loop. It
// returns when the user quits, input ends, or ctx is cancelled between
// commands.
func (a *App) Run(ctx context.Context) error {
	if err := a.source.Ping(ctx); err != nil {
		return fmt.Errorf("browse: server unreachable: %w", err)
	}
	if err := a.reload(ctx); err != nil {
		return err
	}
	a.renderTree()

	scanner := bufio.NewScanner(a.in)
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		fmt.Fprint(a.out, "> ")
		if !scanner.Scan() {
			return scanner.Err()
		}
		if a.execute(ctx, strings.TrimSpace(scanner.Text())) {
			return nil
		}
	}
}

// execute runs one command line and reports whether the loop should end.
func (a *App) execute(ctx context.Context, line string) bool {
	switch {
	case line == "q" || line == "quit":
		return true
	case line == "":
		a.renderTree()
	case line == "h" || line == "?":
		a.printHelp()
	case line == "r":
		if err := a.reload(ctx); err != nil {
			a.printError(err)
			return false
		}
		a.renderTree()
	case line == "c":
		a.state.ClearQuery()
		a.renderTree()
	case strings.HasPrefix(line, "/"):
		a.state.SetQuery(strings.TrimPrefix(line, "/"))
		a.renderTree()
	case line == "b":
		a.navigate(func() (*viewer.View, error) { return a.viewer.Back(ctx) })
	case line == "f":
		a.navigate(func() (*viewer.View, error) { return a.viewer.Forward(ctx) })
	default:
		n, err := strconv.Atoi(line)
		if err != nil {
			a.printError(fmt.Errorf("unknown command %q, try h", line))
			return false
		}
		a.openRow(ctx, n)
	}
	return false
}

func (a *App) reload(ctx context.Context) error {
	tree, err := a.source.Tree(ctx)
	if err != nil {
		return fmt.Errorf("browse: load tree: %w", err)
	}
	a.tree = tree
	return nil
}

// renderTree prints the filtered tree with row numbers for selection.
// Row numbers line up with the visible rows, so the same state is used
// for both.
func (a *App) renderTree() {
	if a.state.Searching() {
		fmt.Fprintf(a.out, "filter: %q (c to clear)\n", a.state.Query)
	}
	filtered := view.Filter(a.tree, a.state.Query)
	text := view.RenderText(filtered, a.state)
	if text == "" {
		fmt.Fprintln(a.out, "(no documents)")
		return
	}
	for i, line := range strings.Split(strings.TrimRight(text, "\n"), "\n") {
		fmt.Fprintf(a.out, "%3d %s\n", i+1, line)
	}
}

// openRow toggles a directory row or opens a file row, counting from 1.
func (a *App) openRow(ctx context.Context, n int) {
	rows := view.Visible(view.Filter(a.tree, a.state.Query), a.state)
	if n < 1 || n > len(rows) {
		a.printError(fmt.Errorf("no row %d", n))
		return
	}
	node := rows[n-1].Node.Node
	if node.IsDir() {
		a.state.Toggle(node.Path)
		a.renderTree()
		return
	}
	a.navigate(func() (*viewer.View, error) { return a.viewer.Open(ctx, node.Path) })
}

func (a *App) navigate(nav func() (*viewer.View, error)) {
	v, err := nav()
	if err != nil {
		a.printError(err)
		return
	}
	a.state.SetActive(v.Path)
	a.renderDocument(v)
}

// renderDocument prints the document as highlighted markdown, falling
// back to plain text when the terminal formatter fails.
func (a *App) renderDocument(v *viewer.View) {
	title := v.Title
	if title == "" {
		title = v.Path
	}
	fmt.Fprintf(a.out, "== %s (%s)\n", title, v.Path)
	if err := quick.Highlight(a.out, v.Content, "markdown", "terminal256", "monokai"); err != nil {
		fmt.Fprintln(a.out, v.Content)
	}
	if !strings.HasSuffix(v.Content, "\n") {
		fmt.Fprintln(a.out)
	}
}

func (a *App) printError(err error) {
	fmt.Fprintf(a.out, "error: %v\n", err)
}

func (a *App) printHelp() {
	fmt.Fprint(a.out, `commands:
  <n>      open row n (toggle directory, open file)
  /term    filter the tree by name
  c        clear the filter
  b, f     history back / forward
  r        reload the tree
  h, ?     this help
  q        quit
`)
}
