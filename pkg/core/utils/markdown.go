package utils

import (
	"bytes"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/renderer/html"
)

var md = goldmark.New(
	goldmark.WithExtensions(extension.Strikethrough, extension.Linkify),
	goldmark.WithRendererOptions(html.WithHardWraps()),
)

// CleanMarkdown strips outer code fences and the common indentation of a
// copy block so that text embedded in YAML renders as Markdown, not as code.
func CleanMarkdown(input string) string {
	cleaned := trimBlankLines(input)

	if fenced := strings.TrimSpace(cleaned); strings.HasSuffix(fenced, "```") {
		if strings.HasPrefix(fenced, "```markdown") {
			cleaned = strings.TrimSuffix(strings.TrimPrefix(fenced, "```markdown"), "```")
		} else if strings.HasPrefix(fenced, "```") {
			cleaned = strings.TrimSuffix(strings.TrimPrefix(fenced, "```"), "```")
		}
	}

	return dedent(trimBlankLines(cleaned))
}

// trimBlankLines drops leading and trailing lines that hold only whitespace,
// keeping the indentation of the first line with text.
func trimBlankLines(s string) string {
	lines := strings.Split(s, "\n")
	start, end := 0, len(lines)
	for start < end && strings.TrimSpace(lines[start]) == "" {
		start++
	}
	for end > start && strings.TrimSpace(lines[end-1]) == "" {
		end--
	}
	return strings.Join(lines[start:end], "\n")
}

func dedent(s string) string {
	lines := strings.Split(s, "\n")
	indent := -1
	for _, l := range lines {
		if strings.TrimSpace(l) == "" {
			continue
		}
		n := len(l) - len(strings.TrimLeft(l, " \t"))
		if indent < 0 || n < indent {
			indent = n
		}
	}
	if indent <= 0 {
		return strings.TrimSpace(s)
	}
	for i, l := range lines {
		if len(l) >= indent {
			lines[i] = l[indent:]
		} else {
			lines[i] = strings.TrimLeft(l, " \t")
		}
	}
	return strings.TrimSpace(strings.Join(lines, "\n"))
}

// RenderMarkdown converts Markdown copy to an HTML fragment.
// Raw HTML in the source is not passed through.
func RenderMarkdown(input string) (string, error) {
	var buf bytes.Buffer
	if err := md.Convert([]byte(CleanMarkdown(input)), &buf); err != nil {
		return "", err
	}
	return buf.String(), nil
}
