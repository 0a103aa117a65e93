package parser

import (
	"bytes"
	"io"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

// MarkdownExtractor handles Markdown filings. Headings and paragraphs each
// start a new line so "Item N" headings stay at line starts.
type MarkdownExtractor struct{}

func (p *MarkdownExtractor) Extract(r io.Reader) (string, error) {
	src, err := io.ReadAll(r)
	if err != nil {
		return "", err
	}
	doc := goldmark.New().Parser().Parse(text.NewReader(src))

	var lines []string
	for n := doc.FirstChild(); n != nil; n = n.NextSibling() {
		if t := blockText(n, src); t != "" {
			lines = append(lines, t)
		}
	}
	return strings.Join(lines, "\n"), nil
}

// blockText renders a block node. Blocks with inline children (paragraphs,
// headings) are rendered from their inlines; leaf blocks such as code blocks
// from their raw lines; containers recurse.
func blockText(n ast.Node, src []byte) string {
	if fc := n.FirstChild(); fc != nil && fc.Type() == ast.TypeInline {
		return strings.TrimSpace(inlineText(n, src))
	}
	if n.Type() == ast.TypeBlock && !n.HasChildren() {
		var buf bytes.Buffer
		lines := n.Lines()
		for i := 0; i < lines.Len(); i++ {
			line := lines.At(i)
			buf.Write(line.Value(src))
		}
		return strings.TrimSpace(buf.String())
	}
	var parts []string
	for c := n.FirstChild(); c != nil; c = c.NextSibling() {
		if t := blockText(c, src); t != "" {
			parts = append(parts, t)
		}
	}
	return strings.Join(parts, "\n")
}

func inlineText(n ast.Node, src []byte) string {
	var buf bytes.Buffer
	for c := n.FirstChild(); c != nil; c = c.NextSibling() {
		switch t := c.(type) {
		case *ast.Text:
			buf.Write(t.Segment.Value(src))
			if t.HardLineBreak() || t.SoftLineBreak() {
				buf.WriteByte('\n')
			}
		case *ast.String:
			buf.Write(t.Value)
		default:
			buf.WriteString(inlineText(c, src))
		}
	}
	return buf.String()
}
