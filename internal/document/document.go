// Package document renders vault notes into publishable page results. A
// single goldmark engine parses Obsidian-flavored Markdown; the wiki-link
// and media resolvers rewrite the tree before HTML rendering.
package document

import (
	"bytes"
	"fmt"
	"path"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/text"

	"github.com/starford/ansuz/internal/media"
	"github.com/starford/ansuz/internal/models"
	"github.com/starford/ansuz/internal/parser"
	"github.com/starford/ansuz/internal/wikilink"
)

// Pipeline turns parsed notes into page results. It is safe for reuse
// across notes; the goldmark engine is stateless between parses.
type Pipeline struct {
	md   goldmark.Markdown
	slug wikilink.SlugFunc
}

// NewPipeline builds a pipeline using the given slug function for page
// slugs and heading ids. A nil slug falls back to Slugify.
func NewPipeline(slug wikilink.SlugFunc) *Pipeline {
	if slug == nil {
		slug = Slugify
	}
	return &Pipeline{md: newEngine(), slug: slug}
}

// Render converts one note into its page result. rel is the note's path
// relative to the vault root, slash-separated.
func (p *Pipeline) Render(rel string, note *parser.Note, links *wikilink.Renderer, embeds *media.Resolver) (*models.PageResult, error) {
	reader := text.NewReader(note.Body)
	doc := p.md.Parser().Parse(reader)

	ResolveLinks(doc, links)
	ResolveEmbeds(doc, embeds)
	toc := AssignHeadingIDs(doc, note.Body, p.slug)

	var buf bytes.Buffer
	if err := p.md.Renderer().Render(&buf, note.Body, doc); err != nil {
		return nil, fmt.Errorf("document: render %s: %w", rel, err)
	}

	fileName := path.Base(rel)
	pageName := strings.TrimSuffix(fileName, path.Ext(fileName))

	return &models.PageResult{
		FileName:             fileName,
		Slug:                 p.slug(pageName),
		Frontmatter:          note.Frontmatter,
		FirstParagraphText:   FirstParagraph(doc, note.Body),
		PlainText:            PlainText(doc, note.Body),
		HTML:                 buf.String(),
		TableOfContents:      toc,
		OriginalRelativePath: rel,
	}, nil
}
