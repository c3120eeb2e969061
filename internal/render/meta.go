package render

import (
	"bytes"
	"strings"

	"gopkg.in/yaml.v3"
)

// SplitFrontmatter separates a leading YAML frontmatter block (between ---
// delimiters) from the markdown body. If there is no frontmatter, or the
// YAML is invalid, the whole input is treated as body.
func SplitFrontmatter(data []byte) (map[string]any, []byte) {
	const delim = "---"
	trimmed := bytes.TrimLeft(data, "\n\r")

	if !bytes.HasPrefix(trimmed, []byte(delim)) {
		return nil, data
	}

	rest := trimmed[len(delim):]
	idx := bytes.Index(rest, []byte("\n"+delim))
	if idx < 0 {
		// No closing delimiter.
		return nil, data
	}

	yamlBlock := rest[:idx]
	afterDelim := rest[idx+1+len(delim):]
	body := bytes.TrimLeft(afterDelim, "\n\r")

	var fm map[string]any
	if err := yaml.Unmarshal(yamlBlock, &fm); err != nil {
		return nil, data
	}

	return fm, body
}

// Title returns the display title of a document: the frontmatter "title"
// field if present, otherwise the first H1 heading, otherwise "".
func Title(data []byte) string {
	fm, body := SplitFrontmatter(data)
	if fm != nil {
		if t, ok := fm["title"]; ok {
			if s, ok := t.(string); ok && s != "" {
				return s
			}
		}
	}
	for _, line := range strings.Split(string(body), "\n") {
		trimmed := strings.TrimSpace(line)
		if strings.HasPrefix(trimmed, "# ") {
			return strings.TrimSpace(trimmed[2:])
		}
	}
	return ""
}
