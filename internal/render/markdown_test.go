package render

import (
	"strings"
	"testing"
)

func render(t *testing.T, source string) string {
	t.Helper()
	html, err := New().Render([]byte(source))
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	return html
}

func TestRender_HeadingsGetStableIDs(t *testing.T) {
	html := render(t, "# My Title\n\n## Second Part\n")
	if !strings.Contains(html, `<h1 id="my-title">My Title</h1>`) {
		t.Errorf("h1 = %q", html)
	}
	if !strings.Contains(html, `<h2 id="second-part">Second Part</h2>`) {
		t.Errorf("h2 = %q", html)
	}
}

func TestRender_HardWraps(t *testing.T) {
	html := render(t, "line one\nline two\n")
	if !strings.Contains(html, "<br") {
		t.Errorf("single newline should become a line break: %q", html)
	}
}

func TestRender_GFMTable(t *testing.T) {
	html := render(t, "| a | b |\n|---|---|\n| 1 | 2 |\n")
	if !strings.Contains(html, "<table>") || !strings.Contains(html, "<td>1</td>") {
		t.Errorf("table not rendered: %q", html)
	}
}

func TestRender_GFMStrikethroughAndTasks(t *testing.T) {
	html := render(t, "~~old~~\n\n- [x] done\n- [ ] open\n")
	if !strings.Contains(html, "<del>old</del>") {
		t.Errorf("strikethrough missing: %q", html)
	}
	if !strings.Contains(html, `type="checkbox"`) {
		t.Errorf("task list missing: %q", html)
	}
}

func TestRender_FencedCodeKeepsLanguageClass(t *testing.T) {
	html := render(t, "```go\nfmt.Println(\"hi\")\n```\n")
	if !strings.Contains(html, `<code class="language-go">`) {
		t.Errorf("language class missing: %q", html)
	}
}

func TestRender_RawHTMLPassesThrough(t *testing.T) {
	html := render(t, "text\n\n<div class=\"note\">inline</div>\n")
	if !strings.Contains(html, `<div class="note">`) {
		t.Errorf("raw html should pass through: %q", html)
	}
}

func TestRender_FrontmatterStripped(t *testing.T) {
	html := render(t, "---\ntitle: Secret Meta\n---\n# Visible\n")
	if strings.Contains(html, "Secret Meta") {
		t.Errorf("frontmatter leaked into output: %q", html)
	}
	if !strings.Contains(html, "Visible") {
		t.Errorf("body missing: %q", html)
	}
}

func TestSplitFrontmatter(t *testing.T) {
	fm, body := SplitFrontmatter([]byte("---\ntitle: Hello\ndraft: true\n---\n# Hello\n"))
	if fm["title"] != "Hello" {
		t.Errorf("title = %v", fm["title"])
	}
	if fm["draft"] != true {
		t.Errorf("draft = %v", fm["draft"])
	}
	if string(body) != "# Hello\n" {
		t.Errorf("body = %q", body)
	}
}

func TestSplitFrontmatter_None(t *testing.T) {
	input := []byte("# Just a heading\ntext\n")
	fm, body := SplitFrontmatter(input)
	if fm != nil {
		t.Errorf("frontmatter = %v, want nil", fm)
	}
	if string(body) != string(input) {
		t.Errorf("body = %q", body)
	}
}

func TestSplitFrontmatter_Unclosed(t *testing.T) {
	input := []byte("---\ntitle: Broken\n# no closing delimiter\n")
	fm, body := SplitFrontmatter(input)
	if fm != nil {
		t.Errorf("frontmatter = %v, want nil", fm)
	}
	if string(body) != string(input) {
		t.Errorf("body = %q", body)
	}
}

func TestSplitFrontmatter_InvalidYAML(t *testing.T) {
	input := []byte("---\n: invalid: yaml: {{{\n---\nBody\n")
	fm, body := SplitFrontmatter(input)
	if fm != nil {
		t.Errorf("frontmatter = %v, want nil on invalid YAML", fm)
	}
	if string(body) != string(input) {
		t.Errorf("body = %q", body)
	}
}

func TestTitle_FrontmatterOverHeading(t *testing.T) {
	title := Title([]byte("---\ntitle: FM Title\n---\n# H1 Title\n"))
	if title != "FM Title" {
		t.Errorf("title = %q, want FM Title", title)
	}
}

func TestTitle_HeadingFallback(t *testing.T) {
	title := Title([]byte("some text\n# My Heading\nmore\n"))
	if title != "My Heading" {
		t.Errorf("title = %q, want My Heading", title)
	}
}

func TestTitle_NonStringFrontmatterIgnored(t *testing.T) {
	title := Title([]byte("---\ntitle: 42\n---\n# Real Title\n"))
	if title != "Real Title" {
		t.Errorf("title = %q, want Real Title", title)
	}
}

func TestTitle_Empty(t *testing.T) {
	if title := Title([]byte("no headings here\n")); title != "" {
		t.Errorf("title = %q, want empty", title)
	}
}
