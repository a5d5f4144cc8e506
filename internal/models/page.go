// Package models defines the domain types for Ansuz.
package models

import "time"

// TOCEntry is one heading in a page's table of contents.
type TOCEntry struct {
	Title string `json:"title"`
	Depth int    `json:"depth"`
	ID    string `json:"id"`
}

// PageResult is the output record produced for one published note.
// It is assembled once by the document pipeline and never mutated afterwards.
type PageResult struct {
	FileName             string         `json:"fileName"`
	Slug                 string         `json:"slug"`
	Frontmatter          map[string]any `json:"frontmatter"`
	FirstParagraphText   string         `json:"firstParagraphText"`
	PlainText            string         `json:"plainText"`
	HTML                 string         `json:"html"`
	TableOfContents      []TOCEntry     `json:"tableOfContents"`
	OriginalRelativePath string         `json:"originalRelativePath"`
}

// FileMetadata is a lightweight representation returned by vault listings.
type FileMetadata struct {
	Path      string    `json:"path"`
	Checksum  string    `json:"checksum"`
	ByteSize  int64     `json:"byteSize"`
	UpdatedAt time.Time `json:"updated_at"`
}
