package vault

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/starford/ansuz/internal/document"
	"github.com/starford/ansuz/internal/media"
	"github.com/starford/ansuz/internal/models"
	"github.com/starford/ansuz/internal/parser"
	"github.com/starford/ansuz/internal/storage"
	"github.com/starford/ansuz/internal/wikilink"
)

// Options configures one export run.
type Options struct {
	// OutputPath is the destination of the page results JSON file.
	OutputPath string
	// MediaResultsPath, when set, additionally writes the media catalog
	// and path map as JSON.
	MediaResultsPath string
	// NotePrefix is prepended to every resolved note link URI.
	NotePrefix string
	// SkipMedia bypasses the optimization pipeline entirely; embeds then
	// resolve to the placeholder.
	SkipMedia bool
	Media     media.PipelineOptions
	Resolve   media.ResolveOptions
}

// Report summarizes a completed run.
type Report struct {
	Pages      int
	Skipped    int
	MediaFiles int
}

// Exporter runs the vault-to-dataset conversion. All run-scoped state
// (allow set, catalog, resolvers) is rebuilt from scratch on every Run,
// so an Exporter can back watch mode without leaking state between runs.
type Exporter struct {
	store    storage.Provider
	logger   *slog.Logger
	pipeline *document.Pipeline
	opts     Options
}

// NewExporter wires an Exporter over the given vault store.
func NewExporter(store storage.Provider, logger *slog.Logger, opts Options) *Exporter {
	if logger == nil {
		logger = slog.Default()
	}
	return &Exporter{
		store:    store,
		logger:   logger,
		pipeline: document.NewPipeline(document.Slugify),
		opts:     opts,
	}
}

// Run executes one full export. Per-note failures are logged and skipped;
// only conditions that make the run meaningless (unlistable vault,
// unwritable output) return an error.
func (e *Exporter) Run(ctx context.Context) (*Report, error) {
	allow, err := BuildAllowSet(e.store, e.logger)
	if err != nil {
		return nil, err
	}

	mediaResult := &media.Result{PathMap: map[string]string{}}
	if e.opts.SkipMedia {
		e.logger.Info("export: media pipeline skipped")
	} else {
		mopts := e.opts.Media
		mopts.Logger = e.logger
		mediaResult, err = media.Optimize(e.store, mopts)
		if err != nil {
			return nil, err
		}
	}

	embeds := media.NewResolver(mediaResult.MediaData, mediaResult.PathMap, e.opts.Resolve)
	links := wikilink.NewRenderer(e.opts.NotePrefix, document.Slugify, allow)

	metas, err := e.store.ListNotes()
	if err != nil {
		return nil, fmt.Errorf("vault: list notes: %w", err)
	}

	report := &Report{MediaFiles: len(mediaResult.MediaData)}
	pages := make([]models.PageResult, 0, len(allow))

	for _, m := range metas {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		abs := filepath.Join(e.store.Root(), filepath.FromSlash(m.Path))
		if _, ok := allow[abs]; !ok {
			continue
		}

		data, err := e.store.Read(m.Path)
		if err != nil {
			e.logger.Warn("export: read failed", slog.String("path", m.Path), slog.String("error", err.Error()))
			report.Skipped++
			continue
		}
		note, err := parser.Parse(data)
		if err != nil {
			e.logger.Warn("export: parse failed", slog.String("path", m.Path), slog.String("error", err.Error()))
			report.Skipped++
			continue
		}
		page, err := e.pipeline.Render(m.Path, note, links, embeds)
		if err != nil {
			e.logger.Warn("export: render failed", slog.String("path", m.Path), slog.String("error", err.Error()))
			report.Skipped++
			continue
		}
		pages = append(pages, *page)
		e.logger.Debug("export: page rendered", slog.String("path", m.Path), slog.String("slug", page.Slug))
	}
	report.Pages = len(pages)

	if err := writeJSON(e.opts.OutputPath, pages); err != nil {
		return nil, err
	}
	if e.opts.MediaResultsPath != "" {
		if err := writeJSON(e.opts.MediaResultsPath, mediaResult); err != nil {
			return nil, err
		}
	}

	e.logger.Info("export: complete",
		slog.Int("pages", report.Pages),
		slog.Int("skipped", report.Skipped),
		slog.Int("media", report.MediaFiles),
		slog.String("output", e.opts.OutputPath))
	return report, nil
}

// writeJSON marshals v with two-space indentation and writes it atomically.
func writeJSON(path string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("vault: marshal %s: %w", path, err)
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("vault: create output dir: %w", err)
		}
	}
	if err := storage.WriteFileAtomic(path, append(data, '\n'), 0o644); err != nil {
		return fmt.Errorf("vault: write %s: %w", path, err)
	}
	return nil
}
