// Package vault orchestrates a full export run: visibility scan, media
// optimization, and the per-note document pipeline.
package vault

import (
	"fmt"
	"log/slog"
	"path/filepath"

	"github.com/starford/ansuz/internal/parser"
	"github.com/starford/ansuz/internal/storage"
	"github.com/starford/ansuz/internal/wikilink"
)

// BuildAllowSet scans every note in the vault and collects the absolute
// paths of those whose frontmatter carries public: true. Unparsable notes
// are logged and treated as private.
func BuildAllowSet(store storage.Provider, logger *slog.Logger) (wikilink.AllowSet, error) {
	metas, err := store.ListNotes()
	if err != nil {
		return nil, fmt.Errorf("vault: list notes: %w", err)
	}

	allow := wikilink.NewAllowSet()
	for _, m := range metas {
		data, err := store.Read(m.Path)
		if err != nil {
			logger.Warn("visibility: read failed",
				slog.String("path", m.Path),
				slog.String("error", err.Error()))
			continue
		}
		note, err := parser.Parse(data)
		if err != nil {
			logger.Warn("visibility: unparsable note treated as private",
				slog.String("path", m.Path),
				slog.String("error", err.Error()))
			continue
		}
		if note.Public {
			allow.Add(filepath.Join(store.Root(), filepath.FromSlash(m.Path)))
		}
	}

	logger.Debug("visibility: allow set built", slog.Int("public", len(allow)))
	return allow, nil
}
