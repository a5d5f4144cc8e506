package document

import (
	"fmt"
	"strings"

	"github.com/yuin/goldmark/ast"

	"github.com/starford/ansuz/internal/models"
	"github.com/starford/ansuz/internal/wikilink"
)

// AssignHeadingIDs sets an id attribute on every heading and returns the
// table of contents in document order. Duplicate slugs get a numeric
// suffix so anchors stay unique within a page.
func AssignHeadingIDs(doc ast.Node, source []byte, slug wikilink.SlugFunc) []models.TOCEntry {
	var toc []models.TOCEntry
	seen := map[string]int{}
	_ = ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		h, ok := n.(*ast.Heading)
		if !ok {
			return ast.WalkContinue, nil
		}
		title := nodeText(h, source)
		id := slug(title)
		if id == "" {
			id = "section"
		}
		seen[id]++
		if seen[id] > 1 {
			id = fmt.Sprintf("%s-%d", id, seen[id])
		}
		h.SetAttributeString("id", []byte(id))
		toc = append(toc, models.TOCEntry{Title: title, Depth: h.Level, ID: id})
		return ast.WalkSkipChildren, nil
	})
	return toc
}

// PlainText flattens the tree into search-friendly text, block boundaries
// becoming newlines.
func PlainText(doc ast.Node, source []byte) string {
	var b strings.Builder
	_ = ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			if n.Type() == ast.TypeBlock && b.Len() > 0 {
				b.WriteByte('\n')
			}
			return ast.WalkContinue, nil
		}
		switch t := n.(type) {
		case *ast.Text:
			b.Write(t.Segment.Value(source))
			if t.SoftLineBreak() || t.HardLineBreak() {
				b.WriteByte('\n')
			}
		case *ast.String:
			b.Write(t.Value)
		case *ast.FencedCodeBlock, *ast.CodeBlock:
			for i := 0; i < n.Lines().Len(); i++ {
				line := n.Lines().At(i)
				b.Write(line.Value(source))
			}
		case *ast.Image:
			return ast.WalkSkipChildren, nil
		}
		return ast.WalkContinue, nil
	})
	return strings.TrimSpace(b.String())
}

// FirstParagraph returns the text of the first paragraph, or "" when the
// document has none.
func FirstParagraph(doc ast.Node, source []byte) string {
	for n := doc.FirstChild(); n != nil; n = n.NextSibling() {
		if p, ok := n.(*ast.Paragraph); ok {
			return strings.TrimSpace(nodeText(p, source))
		}
	}
	return ""
}

// nodeText collects the visible text under a node. Both raw Text segments
// and synthesized String nodes count; resolved references contribute
// their display text.
func nodeText(node ast.Node, source []byte) string {
	var b strings.Builder
	_ = ast.Walk(node, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		switch t := n.(type) {
		case *ast.Text:
			b.Write(t.Segment.Value(source))
		case *ast.String:
			b.Write(t.Value)
		case *ast.Image:
			return ast.WalkSkipChildren, nil
		}
		return ast.WalkContinue, nil
	})
	return b.String()
}
