package dataset

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/starford/ansuz/internal/apperr"
	"github.com/starford/ansuz/internal/models"
)

func testService(t *testing.T, pages []models.PageResult) *Service {
	t.Helper()
	path := filepath.Join(t.TempDir(), "pages.json")
	data, err := json.Marshal(pages)
	if err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatal(err)
	}
	svc := NewService(path)
	if err := svc.Reload(); err != nil {
		t.Fatal(err)
	}
	return svc
}

func samplePages() []models.PageResult {
	return []models.PageResult{
		{
			FileName:           "Zebra.md",
			Slug:               "zebra",
			PlainText:          "striped animals live on the savanna",
			FirstParagraphText: "striped animals",
			Frontmatter:        map[string]any{"title": "Zebra Facts"},
		},
		{
			FileName:  "Apple.md",
			Slug:      "apple",
			PlainText: "a fruit that keeps doctors away",
		},
	}
}

func TestService_ListPagesSortedBySlug(t *testing.T) {
	svc := testService(t, samplePages())
	items := svc.ListPages(context.Background())
	if len(items) != 2 {
		t.Fatalf("items = %+v", items)
	}
	if items[0].Slug != "apple" || items[1].Slug != "zebra" {
		t.Errorf("order = %q, %q", items[0].Slug, items[1].Slug)
	}
}

func TestService_GetBySlug(t *testing.T) {
	svc := testService(t, samplePages())
	page, err := svc.GetBySlug(context.Background(), "zebra")
	if err != nil {
		t.Fatal(err)
	}
	if page.FileName != "Zebra.md" {
		t.Errorf("fileName = %q", page.FileName)
	}

	if _, err := svc.GetBySlug(context.Background(), "missing"); !errors.Is(err, apperr.ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}

func TestService_Search(t *testing.T) {
	svc := testService(t, samplePages())

	results := svc.Search(context.Background(), "SAVANNA", 10)
	if len(results) != 1 {
		t.Fatalf("results = %+v", results)
	}
	if results[0].Slug != "zebra" {
		t.Errorf("slug = %q", results[0].Slug)
	}
	if results[0].Title != "Zebra Facts" {
		t.Errorf("title = %q", results[0].Title)
	}
	if !strings.Contains(results[0].Snippet, "savanna") {
		t.Errorf("snippet = %q", results[0].Snippet)
	}

	if got := svc.Search(context.Background(), "   ", 10); len(got) != 0 {
		t.Errorf("blank query returned %+v", got)
	}
}

func TestService_SearchTitleFallsBackToFileName(t *testing.T) {
	svc := testService(t, samplePages())
	results := svc.Search(context.Background(), "fruit", 10)
	if len(results) != 1 || results[0].Title != "Apple" {
		t.Errorf("results = %+v", results)
	}
}

func TestService_ReloadSwapsDataset(t *testing.T) {
	svc := testService(t, samplePages())

	updated := []models.PageResult{{FileName: "Only.md", Slug: "only"}}
	data, _ := json.Marshal(updated)
	if err := os.WriteFile(svc.path, data, 0o644); err != nil {
		t.Fatal(err)
	}
	if err := svc.Reload(); err != nil {
		t.Fatal(err)
	}

	if items := svc.ListPages(context.Background()); len(items) != 1 || items[0].Slug != "only" {
		t.Errorf("items = %+v", items)
	}
	if _, err := svc.GetBySlug(context.Background(), "zebra"); !errors.Is(err, apperr.ErrNotFound) {
		t.Errorf("stale slug survived reload: %v", err)
	}
}
