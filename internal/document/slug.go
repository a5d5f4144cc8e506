package document

import (
	"strings"
	"unicode"

	"github.com/goliatone/go-slug"
)

// Slugify turns a page name or heading title into a URL-safe slug. It is
// the default wikilink.SlugFunc across the exporter.
func Slugify(value string) string {
	normalized, err := slug.Normalize(value)
	if err == nil && normalized != "" {
		return normalized
	}
	return fallbackSlug(value)
}

// fallbackSlug covers inputs the normalizer rejects.
func fallbackSlug(value string) string {
	var b strings.Builder
	dash := false
	for _, r := range strings.ToLower(value) {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			b.WriteRune(r)
			dash = false
		case !dash && b.Len() > 0:
			b.WriteByte('-')
			dash = true
		}
	}
	return strings.TrimSuffix(b.String(), "-")
}
