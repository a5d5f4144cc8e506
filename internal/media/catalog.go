// Package media builds and resolves the catalog of optimized vault media.
//
// The optimization pipeline walks the vault, produces resized and re-encoded
// variants of every media file, and emits a catalog plus a direct path map.
// The resolution engine consumes both to substitute ![[...]] embeds with
// concrete asset URLs, degrading to a placeholder when nothing matches.
package media

// Well-known size labels. PreferredSize falls back through this chain.
const (
	SizeSmall    = "sm"
	SizeMedium   = "md"
	SizeLarge    = "lg"
	SizeOriginal = "original"
)

// FormatVariant is one produced output file for a catalog entry: a concrete
// width/height/format rendition with its public path.
type FormatVariant struct {
	Width              int    `json:"width"`
	Height             int    `json:"height"`
	Format             string `json:"format"`
	PublicPath         string `json:"publicPath"`
	AbsolutePublicPath string `json:"absolutePublicPath,omitempty"`
	ByteSize           int64  `json:"byteSize"`
}

// SourceMetadata describes the original file on disk.
type SourceMetadata struct {
	Width    int   `json:"width,omitempty"`
	Height   int   `json:"height,omitempty"`
	ByteSize int64 `json:"byteSize"`
}

// CatalogEntry is the record of all generated variants for one source media
// file. Entries are created by the optimization pipeline and immutable
// afterwards.
type CatalogEntry struct {
	OriginalRelativePath string                     `json:"originalRelativePath"`
	FileName             string                     `json:"fileName"`
	FileExtension        string                     `json:"fileExtension"`
	MimeType             string                     `json:"mimeType"`
	SizeVariants         map[string][]FormatVariant `json:"sizeVariants"`
	SourceMetadata       SourceMetadata             `json:"sourceMetadata"`
}

// Result is the full output of one optimization run: the catalog plus the
// shortcut map from original relative path to the best-preference public
// path. This is also the on-disk media results file format.
type Result struct {
	MediaData []CatalogEntry    `json:"mediaData"`
	PathMap   map[string]string `json:"mediaPathMap"`
}

// sizePreference is the fallback chain used when selecting a variant bucket
// and when picking the path-map entry for a catalog entry.
var sizePreference = []string{SizeMedium, SizeSmall, SizeLarge, SizeOriginal}

// bestVariant returns the preferred variant for an entry: first non-empty
// size bucket along [preferred, md, sm, lg, original], first entry within it
// (variant lists are already ordered by format preference).
func bestVariant(e *CatalogEntry, preferred string) (FormatVariant, bool) {
	order := make([]string, 0, len(sizePreference)+1)
	if preferred != "" {
		order = append(order, preferred)
	}
	order = append(order, sizePreference...)
	for _, label := range order {
		if variants := e.SizeVariants[label]; len(variants) > 0 {
			return variants[0], true
		}
	}
	return FormatVariant{}, false
}
