package document

import (
	"strings"
	"testing"

	"github.com/starford/ansuz/internal/media"
	"github.com/starford/ansuz/internal/models"
	"github.com/starford/ansuz/internal/parser"
	"github.com/starford/ansuz/internal/wikilink"
)

func renderPage(t *testing.T, body string, allowed ...string) *models.PageResult {
	t.Helper()
	return renderPageWith(t, body, media.NewResolver(nil, nil, media.ResolveOptions{
		Placeholder: "/assets/placeholder.jpg",
	}), allowed...)
}

func renderPageWith(t *testing.T, body string, embeds *media.Resolver, allowed ...string) *models.PageResult {
	t.Helper()
	p := NewPipeline(nil)
	links := wikilink.NewRenderer("/content", Slugify, wikilink.NewAllowSet(allowed...))
	note, err := parser.Parse([]byte(body))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	page, err := p.Render("Current Note.md", note, links, embeds)
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	return page
}

func TestRender_PublicLinkBecomesAnchor(t *testing.T) {
	page := renderPage(t, "See [[Other Note]] for details.", "/vault/Other Note.md")
	if !strings.Contains(page.HTML, `<a href="/content/other-note">Other Note</a>`) {
		t.Errorf("html = %q", page.HTML)
	}
}

func TestRender_PrivateLinkStaysPlainText(t *testing.T) {
	page := renderPage(t, "See [[Secret Note]] for details.")
	if strings.Contains(page.HTML, "<a ") {
		t.Errorf("private target rendered as anchor: %q", page.HTML)
	}
	if !strings.Contains(page.HTML, "Secret Note") {
		t.Errorf("display text missing: %q", page.HTML)
	}
}

func TestRender_AliasedLink(t *testing.T) {
	page := renderPage(t, "[[Other Note|the docs]]", "/vault/Other Note.md")
	if !strings.Contains(page.HTML, `<a href="/content/other-note">the docs</a>`) {
		t.Errorf("html = %q", page.HTML)
	}
}

func TestRender_HeaderLinkTargetsCurrentDocument(t *testing.T) {
	page := renderPage(t, "Jump to [[#Setup Guide]].")
	if !strings.Contains(page.HTML, `<a href="#setup-guide">#Setup Guide</a>`) {
		t.Errorf("html = %q", page.HTML)
	}
}

func TestRender_BlockReferenceIsAlwaysPlainText(t *testing.T) {
	// Visibility does not matter for block-only references.
	page := renderPage(t, "See [[#^block42]].", "/vault/Current Note.md")
	if strings.Contains(page.HTML, "<a ") {
		t.Errorf("block reference rendered as anchor: %q", page.HTML)
	}
	if !strings.Contains(page.HTML, "#^block42") {
		t.Errorf("display text missing: %q", page.HTML)
	}
}

func TestRender_EmbedResolvesThroughPathMap(t *testing.T) {
	embeds := media.NewResolver(nil, map[string]string{
		"imgs/photo.png": "/assets/imgs/photo-md.jpg",
	}, media.ResolveOptions{Placeholder: "/assets/placeholder.jpg"})
	page := renderPageWith(t, "Before\n\n![[imgs/photo.png]]\n\nAfter", embeds)
	if !strings.Contains(page.HTML, `src="/assets/imgs/photo-md.jpg"`) {
		t.Errorf("html = %q", page.HTML)
	}
	if !strings.Contains(page.HTML, `alt="photo.png"`) {
		t.Errorf("alt missing: %q", page.HTML)
	}
}

func TestRender_UnknownEmbedGetsPlaceholder(t *testing.T) {
	page := renderPage(t, "![[missing.png]]")
	if !strings.Contains(page.HTML, `src="/assets/placeholder.jpg"`) {
		t.Errorf("html = %q", page.HTML)
	}
	if !strings.Contains(page.HTML, `width="400"`) || !strings.Contains(page.HTML, `height="300"`) {
		t.Errorf("placeholder dimensions missing: %q", page.HTML)
	}
	if !strings.Contains(page.HTML, `title="not found"`) {
		t.Errorf("placeholder title missing: %q", page.HTML)
	}
}

func TestRender_TokensInsideCodeBlocksSurvive(t *testing.T) {
	page := renderPage(t, "```\n[[Other Note]]\n```\n", "/vault/Other Note.md")
	if strings.Contains(page.HTML, "<a ") {
		t.Errorf("code block content resolved: %q", page.HTML)
	}
	if !strings.Contains(page.HTML, "[[Other Note]]") {
		t.Errorf("raw token lost: %q", page.HTML)
	}
}

func TestRender_HeadingIDsAndTOC(t *testing.T) {
	body := "# Intro\n\ntext\n\n## Setup Guide\n\n## Setup Guide\n"
	page := renderPage(t, body)

	want := []models.TOCEntry{
		{Title: "Intro", Depth: 1, ID: "intro"},
		{Title: "Setup Guide", Depth: 2, ID: "setup-guide"},
		{Title: "Setup Guide", Depth: 2, ID: "setup-guide-2"},
	}
	if len(page.TableOfContents) != len(want) {
		t.Fatalf("toc = %+v", page.TableOfContents)
	}
	for i, w := range want {
		if page.TableOfContents[i] != w {
			t.Errorf("toc[%d] = %+v, want %+v", i, page.TableOfContents[i], w)
		}
	}
	if !strings.Contains(page.HTML, `id="setup-guide-2"`) {
		t.Errorf("deduped heading id missing: %q", page.HTML)
	}
}

func TestRender_PageMetadata(t *testing.T) {
	body := "---\ntitle: Hello\npublic: true\n---\n\nFirst paragraph here.\n\nSecond paragraph.\n"
	page := renderPage(t, body)

	if page.FileName != "Current Note.md" {
		t.Errorf("fileName = %q", page.FileName)
	}
	if page.Slug != "current-note" {
		t.Errorf("slug = %q", page.Slug)
	}
	if page.OriginalRelativePath != "Current Note.md" {
		t.Errorf("originalRelativePath = %q", page.OriginalRelativePath)
	}
	if page.FirstParagraphText != "First paragraph here." {
		t.Errorf("firstParagraphText = %q", page.FirstParagraphText)
	}
	if !strings.Contains(page.PlainText, "Second paragraph.") {
		t.Errorf("plainText = %q", page.PlainText)
	}
	if strings.Contains(page.PlainText, "<") {
		t.Errorf("plainText contains markup: %q", page.PlainText)
	}
}

func TestRender_PlainTextIncludesResolvedLinkText(t *testing.T) {
	page := renderPage(t, "See [[Other Note|the docs]] here.")
	if !strings.Contains(page.PlainText, "the docs") {
		t.Errorf("plainText = %q", page.PlainText)
	}
}

func TestRender_GFMTableAndTaskList(t *testing.T) {
	body := "| a | b |\n|---|---|\n| 1 | 2 |\n\n- [x] done\n"
	page := renderPage(t, body)
	if !strings.Contains(page.HTML, "<table>") {
		t.Errorf("table not rendered: %q", page.HTML)
	}
	if !strings.Contains(page.HTML, `type="checkbox"`) {
		t.Errorf("task list not rendered: %q", page.HTML)
	}
}

func TestRender_RawHTMLPassesThrough(t *testing.T) {
	page := renderPage(t, "before <kbd>Ctrl</kbd> after\n")
	if !strings.Contains(page.HTML, "<kbd>Ctrl</kbd>") {
		t.Errorf("raw html escaped: %q", page.HTML)
	}
}

func TestSlugify(t *testing.T) {
	cases := []struct {
		in, want string
	}{
		{"Setup Guide", "setup-guide"},
		{"Already-Sluggy", "already-sluggy"},
		{"  spaced  out  ", "spaced-out"},
	}
	for _, tc := range cases {
		if got := Slugify(tc.in); got != tc.want {
			t.Errorf("Slugify(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}
