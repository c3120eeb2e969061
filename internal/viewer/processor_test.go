package viewer

import (
	"strings"
	"testing"
)

func TestProcessor_HighlightsFencedCode(t *testing.T) {
	p := NewProcessor(NewMermaidRenderer())
	in := `<h1>Doc</h1><pre><code class="language-go">package main</code></pre>`

	out, err := p.Process(in)
	if err != nil {
		t.Fatalf("Process() error = %v", err)
	}

	if !strings.Contains(out, `class="chroma"`) {
		t.Errorf("expected chroma markup, got %s", out)
	}
	if strings.Contains(out, "language-go") {
		t.Error("highlighted block should replace the raw fence markup")
	}
	if !strings.Contains(out, "<h1>Doc</h1>") {
		t.Error("surrounding content must survive processing")
	}
}

func TestProcessor_UnknownLanguageStillHighlights(t *testing.T) {
	p := NewProcessor(NewMermaidRenderer())

	out, err := p.Process(`<pre><code class="language-nosuchlang">x = 1</code></pre>`)
	if err != nil {
		t.Fatalf("Process() error = %v", err)
	}
	if !strings.Contains(out, `class="chroma"`) {
		t.Errorf("fallback lexer should still produce chroma markup, got %s", out)
	}
}

func TestProcessor_PlainCodeBlockUntouched(t *testing.T) {
	p := NewProcessor(NewMermaidRenderer())

	out, err := p.Process(`<pre><code>plain text, no language</code></pre>`)
	if err != nil {
		t.Fatalf("Process() error = %v", err)
	}
	if !strings.Contains(out, "<code>plain text, no language</code>") {
		t.Errorf("unfenced code should pass through unchanged, got %s", out)
	}
}

func TestProcessor_RendersMermaidBlock(t *testing.T) {
	p := NewProcessor(NewMermaidRenderer())
	in := "<pre><code class=\"language-mermaid\">graph TD\n  A--&gt;B</code></pre>"

	out, err := p.Process(in)
	if err != nil {
		t.Fatalf("Process() error = %v", err)
	}

	if !strings.Contains(out, `<pre class="mermaid">`) {
		t.Errorf("expected mermaid container, got %s", out)
	}
	if !strings.Contains(out, "graph TD") {
		t.Errorf("diagram source should be preserved, got %s", out)
	}
	if strings.Contains(out, `class="chroma"`) {
		t.Error("diagram blocks must not be syntax highlighted")
	}
}

func TestProcessor_BrokenDiagramIsolated(t *testing.T) {
	p := NewProcessor(NewMermaidRenderer())
	in := `<pre><code class="language-mermaid">this is not a diagram</code></pre>` +
		`<p>between</p>` +
		"<pre><code class=\"language-mermaid\">sequenceDiagram\n  A-&gt;&gt;B: hi</code></pre>"

	out, err := p.Process(in)
	if err != nil {
		t.Fatalf("Process() error = %v", err)
	}

	if !strings.Contains(out, `class="diagram-error"`) {
		t.Errorf("expected inline error for broken diagram, got %s", out)
	}
	if !strings.Contains(out, "<details>") || !strings.Contains(out, "this is not a diagram") {
		t.Error("broken diagram source should be shown behind a disclosure")
	}
	if !strings.Contains(out, `<pre class="mermaid">`) {
		t.Error("the valid diagram must still render")
	}
	if !strings.Contains(out, "<p>between</p>") {
		t.Error("content between blocks must survive")
	}
}

func TestProcessor_StyleCSS(t *testing.T) {
	p := NewProcessor(NewMermaidRenderer())

	var b strings.Builder
	if err := p.StyleCSS(&b); err != nil {
		t.Fatalf("StyleCSS() error = %v", err)
	}
	if !strings.Contains(b.String(), ".chroma") {
		t.Errorf("expected class-based stylesheet, got %q", b.String())
	}
}

func TestMermaidRenderer_Render(t *testing.T) {
	tests := []struct {
		name    string
		source  string
		wantErr bool
	}{
		{"flowchart", "flowchart LR\n  A --> B", false},
		{"sequence", "sequenceDiagram\n  A->>B: hi", false},
		{"leading comment skipped", "%% a comment\npie\n  \"a\": 1", false},
		{"init directive skipped", "%%{init: {'theme':'dark'}}%%\ngraph TD\n  A-->B", false},
		{"empty", "   \n\n", true},
		{"only comments", "%% nothing else", true},
		{"unknown kind", "not a diagram at all", true},
	}

	r := NewMermaidRenderer()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := r.Render("mermaid", tt.source)
			if (err != nil) != tt.wantErr {
				t.Fatalf("Render() error = %v, wantErr %v", err, tt.wantErr)
			}
			if !tt.wantErr && !strings.Contains(out, `<pre class="mermaid">`) {
				t.Errorf("expected mermaid container, got %s", out)
			}
		})
	}
}

func TestCodeLanguage(t *testing.T) {
	tests := []struct {
		class string
		want  string
	}{
		{"language-go", "go"},
		{"chroma language-python extra", "python"},
		{"no-language-here", ""},
		{"", ""},
	}

	for _, tt := range tests {
		if got := codeLanguage(tt.class); got != tt.want {
			t.Errorf("codeLanguage(%q) = %q, want %q", tt.class, got, tt.want)
		}
	}
}
