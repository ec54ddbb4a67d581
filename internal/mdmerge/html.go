// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package mdmerge

import (
	"bytes"
	"fmt"
	"html"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	gmhtml "github.com/yuin/goldmark/renderer/html"
)

// RenderHTML converts a merged Markdown document into a standalone HTML page.
// Raw HTML in the sources (including the merge markers) is passed through.
func RenderHTML(doc, title string) (string, error) {
	if title == "" {
		title = DefaultTitle
	}
	md := goldmark.New(
		goldmark.WithExtensions(extension.GFM),
		goldmark.WithParserOptions(parser.WithAutoHeadingID()),
		goldmark.WithRendererOptions(gmhtml.WithUnsafe()),
	)

	var body bytes.Buffer
	if err := md.Convert([]byte(doc), &body); err != nil {
		return "", fmt.Errorf("rendering markdown: %w", err)
	}

	var b bytes.Buffer
	b.WriteString("<!DOCTYPE html>\n<html>\n<head>\n<meta charset=\"utf-8\">\n")
	fmt.Fprintf(&b, "<title>%s</title>\n", html.EscapeString(title))
	b.WriteString("</head>\n<body>\n")
	b.Write(body.Bytes())
	b.WriteString("</body>\n</html>\n")
	return b.String(), nil
}
