package document

import (
	"github.com/yuin/goldmark/ast"

	"github.com/starford/ansuz/internal/media"
	"github.com/starford/ansuz/internal/wikilink"
)

// ResolveLinks replaces every [[...]] reference in the tree with either a
// hyperlink or its plain display text, as decided by the visibility gate.
func ResolveLinks(doc ast.Node, r *wikilink.Renderer) {
	for _, n := range collectRefs(doc, false) {
		res := r.Render(wikilink.Classify(wikilink.ParseToken(n.Target)))
		var repl ast.Node
		if res.Hyperlink {
			link := ast.NewLink()
			link.Destination = []byte(res.URI)
			link.AppendChild(link, ast.NewString([]byte(res.Text)))
			repl = link
		} else {
			repl = ast.NewString([]byte(res.Text))
		}
		replaceNode(n, repl)
	}
}

// ResolveEmbeds replaces every ![[...]] reference with an image node
// pointing at the resolved public path, or at the placeholder when the
// medium is unknown.
func ResolveEmbeds(doc ast.Node, r *media.Resolver) {
	for _, n := range collectRefs(doc, true) {
		img := r.Resolve(n.Target)

		link := ast.NewLink()
		link.Destination = []byte(img.URL)
		if img.Title != "" {
			link.Title = []byte(img.Title)
		}
		image := ast.NewImage(link)
		image.AppendChild(image, ast.NewString([]byte(img.Alt)))
		if img.Width > 0 {
			image.SetAttributeString("width", img.Width)
		}
		if img.Height > 0 {
			image.SetAttributeString("height", img.Height)
		}
		replaceNode(n, image)
	}
}

// collectRefs gathers reference nodes up front so replacements never race
// the walk.
func collectRefs(doc ast.Node, embed bool) []*RefNode {
	var refs []*RefNode
	_ = ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		if ref, ok := n.(*RefNode); ok && ref.Embed == embed {
			refs = append(refs, ref)
		}
		return ast.WalkContinue, nil
	})
	return refs
}

func replaceNode(old, repl ast.Node) {
	parent := old.Parent()
	if parent == nil {
		return
	}
	parent.ReplaceChild(parent, old, repl)
}
