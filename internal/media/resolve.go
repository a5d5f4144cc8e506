package media

import (
	"path"
	"strings"
)

// Placeholder dimensions used when an embed cannot be resolved.
const (
	PlaceholderWidth  = 400
	PlaceholderHeight = 300
)

// placeholderTitle marks unresolved embeds in the output for diagnostics.
const placeholderTitle = "not found"

// Image is the renderable result of resolving one embed token. Resolution
// never fails: a miss yields a placeholder Image, not an error.
type Image struct {
	URL    string
	Alt    string
	Title  string
	Width  int
	Height int
}

// ResolveOptions configures a Resolver for one run.
type ResolveOptions struct {
	// PreferredSize is tried before the built-in md/sm/lg/original chain.
	PreferredSize string
	// UseAbsolutePaths selects AbsolutePublicPath over PublicPath when set.
	UseAbsolutePaths bool
	// Placeholder is the URL emitted for unresolvable embeds.
	Placeholder string
}

// Resolver maps raw embed tokens to concrete asset URLs. The lookup indexes
// are built once per run from the catalog and passed around explicitly, so
// repeated runs in one process never share state.
type Resolver struct {
	pathMap map[string]string
	byPath  map[string]*CatalogEntry
	byName  map[string]*CatalogEntry
	opts    ResolveOptions
}

// NewResolver builds the lookup indexes for one run.
//
// byPath is keyed by the lowercased original relative path. byName is keyed
// by the lowercased stored file name, with a secondary key derived from the
// basename of the stored path when the two differ.
func NewResolver(data []CatalogEntry, pathMap map[string]string, opts ResolveOptions) *Resolver {
	r := &Resolver{
		pathMap: pathMap,
		byPath:  make(map[string]*CatalogEntry, len(data)),
		byName:  make(map[string]*CatalogEntry, len(data)),
		opts:    opts,
	}
	if r.pathMap == nil {
		r.pathMap = map[string]string{}
	}
	for i := range data {
		e := &data[i]
		pathKey := strings.ToLower(normalizeSlashes(e.OriginalRelativePath))
		if _, exists := r.byPath[pathKey]; !exists {
			r.byPath[pathKey] = e
		}
		nameKey := strings.ToLower(e.FileName)
		if nameKey != "" {
			if _, exists := r.byName[nameKey]; !exists {
				r.byName[nameKey] = e
			}
		}
		baseKey := strings.ToLower(path.Base(normalizeSlashes(e.OriginalRelativePath)))
		if baseKey != "" && baseKey != nameKey {
			if _, exists := r.byName[baseKey]; !exists {
				r.byName[baseKey] = e
			}
		}
	}
	return r
}

// PathVariations returns the ordered probe list used against the path map
// when the exact raw value misses: leading slash added, leading slash
// stripped, backslashes normalized, lowercased, and basename only. The order
// is part of the engine's contract.
func PathVariations(raw string) []string {
	normalized := normalizeSlashes(raw)
	return []string{
		"/" + strings.TrimPrefix(raw, "/"),
		strings.TrimPrefix(raw, "/"),
		normalized,
		strings.ToLower(normalized),
		path.Base(normalized),
	}
}

// Resolve maps a raw embed token to a renderable Image. First success wins:
// exact path-map hit, path-variation retries, catalog lookup, placeholder.
func (r *Resolver) Resolve(raw string) Image {
	name := path.Base(normalizeSlashes(raw))
	if name == "." || name == "/" {
		name = raw
	}

	// Fast path: direct output of the optimization pipeline.
	if url, ok := r.pathMap[raw]; ok {
		return Image{URL: url, Alt: name, Title: name}
	}

	for _, variant := range PathVariations(raw) {
		if url, ok := r.pathMap[variant]; ok {
			return Image{URL: url, Alt: name, Title: name}
		}
	}

	if entry := r.lookupCatalog(raw, name); entry != nil {
		if v, ok := bestVariant(entry, r.opts.PreferredSize); ok {
			url := v.PublicPath
			if r.opts.UseAbsolutePaths && v.AbsolutePublicPath != "" {
				url = v.AbsolutePublicPath
			}
			return Image{
				URL:    url,
				Alt:    entry.FileName,
				Title:  entry.FileName,
				Width:  v.Width,
				Height: v.Height,
			}
		}
	}

	return Image{
		URL:    r.opts.Placeholder,
		Alt:    name,
		Title:  placeholderTitle,
		Width:  PlaceholderWidth,
		Height: PlaceholderHeight,
	}
}

func (r *Resolver) lookupCatalog(raw, name string) *CatalogEntry {
	pathKey := strings.ToLower(strings.TrimPrefix(normalizeSlashes(raw), "/"))
	nameKey := strings.ToLower(name)
	if e, ok := r.byPath[pathKey]; ok {
		return e
	}
	if e, ok := r.byName[nameKey]; ok {
		return e
	}
	return nil
}

func normalizeSlashes(p string) string {
	return strings.ReplaceAll(p, `\`, "/")
}
