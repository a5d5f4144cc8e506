// Package wikilink classifies and resolves Obsidian [[...]] references.
//
// Classification is total: every raw value maps to exactly one Link variant.
// Resolution against the current allow set happens in Renderer so the engine
// carries no process-wide state between runs.
package wikilink

import (
	"regexp"
	"strings"
)

// Token is a raw wiki-link reference as written in the source, with the
// display alias (from [[Target|Alias]] syntax) already split off.
type Token struct {
	Raw   string
	Alias string
}

// ParseToken splits the inner text of a [[...]] reference on the first '|'
// into the target value and an optional display alias.
func ParseToken(inner string) Token {
	if i := strings.Index(inner, "|"); i >= 0 {
		return Token{Raw: inner[:i], Alias: inner[i+1:]}
	}
	return Token{Raw: inner}
}

// Link is the classified form of a wiki-link target. The five concrete types
// partition the input space; consumers switch exhaustively and keep a
// defensive default branch since the partition is not compiler-enforced.
type Link interface {
	// DisplayText returns the text shown for the reference. An alias wins
	// over everything else, for every variant.
	DisplayText() string

	isLink()
}

// Page is a plain reference to another note: [[Page]].
type Page struct {
	Page  string
	Alias string
}

// PageHeader references a heading inside another note: [[Page#Header]].
type PageHeader struct {
	Page   string
	Header string
	Alias  string
}

// PageBlock references a block inside another note: [[Page#^block]].
type PageBlock struct {
	Page  string
	Block string
	Alias string
}

// Header references a heading in the current note: [[#Header]].
type Header struct {
	Header string
	Alias  string
}

// Block references a block in the current note: [[#^block]].
type Block struct {
	Block string
	Alias string
}

func (Page) isLink()       {}
func (PageHeader) isLink() {}
func (PageBlock) isLink()  {}
func (Header) isLink()     {}
func (Block) isLink()      {}

var (
	blockOnlyRe  = regexp.MustCompile(`^#\^.+`)
	headerOnlyRe = regexp.MustCompile(`^#[^\^]+`)
)

// Classify maps a token onto its Link variant. Order matters: block-only and
// header-only prefixes are tested first, then page#^block, then page#header,
// and everything else is a plain page reference.
func Classify(t Token) Link {
	raw := t.Raw
	switch {
	case blockOnlyRe.MatchString(raw):
		return Block{Block: strings.TrimPrefix(raw, "#^"), Alias: t.Alias}
	case headerOnlyRe.MatchString(raw):
		return Header{Header: strings.TrimPrefix(raw, "#"), Alias: t.Alias}
	case strings.Contains(raw, "#^"):
		parts := strings.SplitN(raw, "#^", 2)
		return PageBlock{Page: parts[0], Block: parts[1], Alias: t.Alias}
	case strings.Contains(raw, "#"):
		parts := strings.SplitN(raw, "#", 2)
		return PageHeader{Page: parts[0], Header: parts[1], Alias: t.Alias}
	default:
		return Page{Page: raw, Alias: t.Alias}
	}
}

// DisplayText implements Link.
func (l Page) DisplayText() string {
	if l.Alias != "" {
		return l.Alias
	}
	return l.Page
}

// DisplayText implements Link.
func (l PageHeader) DisplayText() string {
	if l.Alias != "" {
		return l.Alias
	}
	return l.Page + "#" + l.Header
}

// DisplayText implements Link. The block id is dropped from display.
func (l PageBlock) DisplayText() string {
	if l.Alias != "" {
		return l.Alias
	}
	return l.Page
}

// DisplayText implements Link.
func (l Header) DisplayText() string {
	if l.Alias != "" {
		return l.Alias
	}
	return "#" + l.Header
}

// DisplayText implements Link.
func (l Block) DisplayText() string {
	if l.Alias != "" {
		return l.Alias
	}
	return "#^" + l.Block
}

// SlugFunc converts a page or header title into a URL-safe identifier.
type SlugFunc func(string) string

// URI computes the output link target for a classified reference. Block
// references have no navigable target and return "". Block fragments on
// page#^block references are dropped: block-level anchors do not exist in
// the output.
func URI(l Link, prefix string, slug SlugFunc) string {
	switch v := l.(type) {
	case Page:
		return prefix + "/" + slug(v.Page)
	case PageHeader:
		return prefix + "/" + slug(v.Page) + "#" + slug(v.Header)
	case PageBlock:
		return prefix + "/" + slug(v.Page)
	case Header:
		return "#" + slug(v.Header)
	case Block:
		return ""
	default:
		return ""
	}
}
