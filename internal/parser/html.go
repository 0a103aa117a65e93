package parser

import (
	"fmt"
	"io"
	"strings"

	"golang.org/x/net/html"
)

// HTMLExtractor handles .htm/.html filings. Every non-blank text node becomes
// its own line; script, style and noscript content is dropped.
type HTMLExtractor struct{}

func (p *HTMLExtractor) Extract(r io.Reader) (string, error) {
	doc, err := html.Parse(r)
	if err != nil {
		return "", fmt.Errorf("parse html: %w", err)
	}

	var lines []string
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		switch n.Type {
		case html.ElementNode:
			switch n.Data {
			case "script", "style", "noscript":
				return
			}
		case html.TextNode:
			if t := strings.TrimSpace(n.Data); t != "" {
				lines = append(lines, t)
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)
	return strings.Join(lines, "\n"), nil
}
