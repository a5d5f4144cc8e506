// Package dataset serves a previously exported page dataset: slug lookup
// and search over the JSON file the exporter writes.
package dataset

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"strings"
	"sync"

	"github.com/starford/ansuz/internal/apperr"
	"github.com/starford/ansuz/internal/models"
)

// PageListItem is a lightweight item in a list response.
type PageListItem struct {
	FileName           string `json:"fileName"`
	Slug               string `json:"slug"`
	FirstParagraphText string `json:"firstParagraphText"`
}

// SearchResult is one search hit with a plain-text snippet around the match.
type SearchResult struct {
	Slug    string `json:"slug"`
	Title   string `json:"title"`
	Snippet string `json:"snippet"`
}

// Service holds one loaded dataset. Reload swaps the whole dataset under a
// lock, so watch-mode rebuilds are visible to readers without restart.
type Service struct {
	mu     sync.RWMutex
	path   string
	pages  []models.PageResult
	bySlug map[string]*models.PageResult
}

// NewService creates a Service bound to the given pages JSON file. The
// initial load happens on the first Reload call.
func NewService(path string) *Service {
	return &Service{path: path, bySlug: map[string]*models.PageResult{}}
}

// Reload re-reads the dataset file and replaces the in-memory index.
func (s *Service) Reload() error {
	data, err := os.ReadFile(s.path)
	if err != nil {
		return fmt.Errorf("dataset: read %s: %w", s.path, err)
	}
	var pages []models.PageResult
	if err := json.Unmarshal(data, &pages); err != nil {
		return fmt.Errorf("dataset: decode %s: %w", s.path, err)
	}

	bySlug := make(map[string]*models.PageResult, len(pages))
	for i := range pages {
		bySlug[pages[i].Slug] = &pages[i]
	}

	s.mu.Lock()
	s.pages = pages
	s.bySlug = bySlug
	s.mu.Unlock()
	return nil
}

// ListPages returns lightweight entries for every page, sorted by slug.
func (s *Service) ListPages(_ context.Context) []PageListItem {
	s.mu.RLock()
	defer s.mu.RUnlock()

	items := make([]PageListItem, len(s.pages))
	for i, p := range s.pages {
		items[i] = PageListItem{
			FileName:           p.FileName,
			Slug:               p.Slug,
			FirstParagraphText: p.FirstParagraphText,
		}
	}
	sort.Slice(items, func(i, j int) bool { return items[i].Slug < items[j].Slug })
	return items
}

// GetBySlug returns the full page result for a slug.
func (s *Service) GetBySlug(_ context.Context, slug string) (*models.PageResult, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	p, ok := s.bySlug[slug]
	if !ok {
		return nil, apperr.ErrNotFound
	}
	out := *p
	return &out, nil
}

// Search does a case-insensitive substring search over each page's plain
// text and returns hits in dataset order.
func (s *Service) Search(_ context.Context, query string, limit int) []SearchResult {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if limit <= 0 {
		limit = 20
	}
	needle := strings.ToLower(strings.TrimSpace(query))
	if needle == "" {
		return []SearchResult{}
	}

	results := []SearchResult{}
	for i := range s.pages {
		p := &s.pages[i]
		idx := strings.Index(strings.ToLower(p.PlainText), needle)
		if idx < 0 {
			continue
		}
		results = append(results, SearchResult{
			Slug:    p.Slug,
			Title:   pageTitle(p),
			Snippet: snippet(p.PlainText, idx, len(needle)),
		})
		if len(results) >= limit {
			break
		}
	}
	return results
}

// pageTitle prefers the frontmatter title, falling back to the file name.
func pageTitle(p *models.PageResult) string {
	if t, ok := p.Frontmatter["title"].(string); ok && t != "" {
		return t
	}
	return strings.TrimSuffix(p.FileName, ".md")
}

// snippet extracts a window of plain text around a match.
func snippet(text string, idx, matchLen int) string {
	const window = 60
	start := idx - window
	if start < 0 {
		start = 0
	}
	end := idx + matchLen + window
	if end > len(text) {
		end = len(text)
	}
	out := strings.TrimSpace(text[start:end])
	if start > 0 {
		out = "…" + out
	}
	if end < len(text) {
		out += "…"
	}
	return out
}
