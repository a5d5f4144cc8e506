package document

import (
	"bytes"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/renderer"
	"github.com/yuin/goldmark/text"
	"github.com/yuin/goldmark/util"
)

// KindObsidianRef is the node kind for unresolved [[...]] and ![[...]]
// tokens produced by the inline parser.
var KindObsidianRef = ast.NewNodeKind("ObsidianRef")

// RefNode is a raw Obsidian reference in the parsed tree. The resolution
// passes replace every RefNode before rendering; the fallback renderer
// emits the original token text for anything left behind.
type RefNode struct {
	ast.BaseInline

	// Target is the inner text between the brackets, alias included.
	Target string
	// Embed distinguishes ![[...]] media embeds from [[...]] links.
	Embed bool
}

// Kind implements ast.Node.
func (n *RefNode) Kind() ast.NodeKind { return KindObsidianRef }

// Dump implements ast.Node.
func (n *RefNode) Dump(source []byte, level int) {
	m := map[string]string{"Target": n.Target}
	if n.Embed {
		m["Embed"] = "true"
	}
	ast.DumpHelper(n, source, level, m, nil)
}

// refParser parses [[...]] and ![[...]] tokens. Tokens never span lines.
type refParser struct{}

func (p *refParser) Trigger() []byte { return []byte{'!', '['} }

func (p *refParser) Parse(parent ast.Node, block text.Reader, pc parser.Context) ast.Node {
	line, _ := block.PeekLine()
	offset := 0
	embed := false
	if line[0] == '!' {
		embed = true
		offset = 1
	}
	if len(line) < offset+4 || line[offset] != '[' || line[offset+1] != '[' {
		return nil
	}
	end := bytes.Index(line[offset+2:], []byte("]]"))
	if end < 0 {
		return nil
	}
	inner := string(line[offset+2 : offset+2+end])
	block.Advance(offset + 2 + end + 2)
	return &RefNode{Target: inner, Embed: embed}
}

// refHTMLRenderer emits the original token text for reference nodes that
// survived until rendering. Resolution normally replaces them all.
type refHTMLRenderer struct{}

func (r *refHTMLRenderer) RegisterFuncs(reg renderer.NodeRendererFuncRegisterer) {
	reg.Register(KindObsidianRef, r.render)
}

func (r *refHTMLRenderer) render(w util.BufWriter, source []byte, node ast.Node, entering bool) (ast.WalkStatus, error) {
	if !entering {
		return ast.WalkContinue, nil
	}
	n := node.(*RefNode)
	raw := "[[" + n.Target + "]]"
	if n.Embed {
		raw = "!" + raw
	}
	_, _ = w.Write(util.EscapeHTML([]byte(raw)))
	return ast.WalkContinue, nil
}

// obsidianTokens wires the reference parser and fallback renderer into a
// goldmark instance.
type obsidianTokens struct{}

// ObsidianTokens is the goldmark extension recognizing Obsidian reference
// syntax.
var ObsidianTokens goldmark.Extender = &obsidianTokens{}

func (e *obsidianTokens) Extend(m goldmark.Markdown) {
	m.Parser().AddOptions(parser.WithInlineParsers(
		util.Prioritized(&refParser{}, 150),
	))
	m.Renderer().AddOptions(renderer.WithNodeRenderers(
		util.Prioritized(&refHTMLRenderer{}, 500),
	))
}
