package wikilink

import (
	"path/filepath"
	"strings"
)

// AllowSet is the set of absolute note paths considered public. It is built
// once per run by the visibility resolver and read-only afterwards.
type AllowSet map[string]struct{}

// NewAllowSet builds an AllowSet from absolute file paths.
func NewAllowSet(paths ...string) AllowSet {
	s := make(AllowSet, len(paths))
	for _, p := range paths {
		s[p] = struct{}{}
	}
	return s
}

// Add inserts an absolute path into the set.
func (s AllowSet) Add(path string) {
	s[path] = struct{}{}
}

// Names returns the derived name-only set: directory and extension stripped
// from every path. The visibility gate matches page references against names,
// not full paths, because a wiki link carries no directory information.
func (s AllowSet) Names() map[string]struct{} {
	names := make(map[string]struct{}, len(s))
	for p := range s {
		base := filepath.Base(p)
		names[strings.TrimSuffix(base, filepath.Ext(base))] = struct{}{}
	}
	return names
}

// RenderResult is the resolved rendering of one wiki link: either a
// hyperlink, or plain display text when the target is not publicly visible
// or the reference has no navigable target.
type RenderResult struct {
	Text      string
	URI       string
	Hyperlink bool
}

// Renderer resolves classified links for one vault run. The name set is
// derived once from the allow set at construction; repeated runs build fresh
// renderers so state never leaks across runs.
type Renderer struct {
	prefix string
	slug   SlugFunc
	names  map[string]struct{}
}

// NewRenderer creates a Renderer for the given link prefix, slug function,
// and allow set.
func NewRenderer(prefix string, slug SlugFunc, allowed AllowSet) *Renderer {
	return &Renderer{
		prefix: prefix,
		slug:   slug,
		names:  allowed.Names(),
	}
}

// Render computes the RenderResult for a classified link.
//
// Cross-document variants (Page, PageHeader, PageBlock) pass through the
// visibility gate: a target page absent from the allow set degrades to plain
// text. Same-document Header references never leave the current document and
// always resolve to a hyperlink. Block-only references always degrade to
// plain text since they have no URI.
func (r *Renderer) Render(l Link) RenderResult {
	text := l.DisplayText()

	switch v := l.(type) {
	case Page:
		return r.gate(v.Page, l, text)
	case PageHeader:
		return r.gate(v.Page, l, text)
	case PageBlock:
		return r.gate(v.Page, l, text)
	case Header:
		return RenderResult{Text: text, URI: URI(l, r.prefix, r.slug), Hyperlink: true}
	case Block:
		return RenderResult{Text: text}
	default:
		// Unreachable given the five-way partition, kept defensively.
		return RenderResult{Text: text}
	}
}

func (r *Renderer) gate(page string, l Link, text string) RenderResult {
	if _, ok := r.names[page]; !ok {
		return RenderResult{Text: text}
	}
	return RenderResult{Text: text, URI: URI(l, r.prefix, r.slug), Hyperlink: true}
}
