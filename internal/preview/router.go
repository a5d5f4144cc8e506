// Package preview implements the local preview server: a JSON API over the
// exported dataset plus static serving of the output directory.
package preview

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/starford/ansuz/internal/dataset"
)

// NewRouter creates a chi router with the preview API mounted under /api
// and the export output directory served at the root. sseHandler, if
// non-nil, is mounted at GET /api/events for live reload.
func NewRouter(svc *dataset.Service, outputDir string, sseHandler http.Handler) chi.Router {
	h := NewHandler(svc)

	r := chi.NewRouter()

	r.Route("/api", func(r chi.Router) {
		r.Get("/health", h.Health)
		r.Get("/pages", h.ListPages)
		r.Get("/pages/{slug}", h.GetPage)
		r.Get("/search", h.Search)
		if sseHandler != nil {
			r.Get("/events", sseHandler.ServeHTTP)
		}
	})

	if outputDir != "" {
		r.Handle("/*", http.FileServer(http.Dir(outputDir)))
	}

	return r
}
