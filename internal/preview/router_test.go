package preview

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/starford/ansuz/internal/dataset"
	"github.com/starford/ansuz/internal/models"
)

func testServer(t *testing.T, pages []models.PageResult, outputDir string) *httptest.Server {
	t.Helper()
	path := filepath.Join(t.TempDir(), "pages.json")
	data, err := json.Marshal(pages)
	if err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatal(err)
	}
	svc := dataset.NewService(path)
	if err := svc.Reload(); err != nil {
		t.Fatal(err)
	}
	srv := httptest.NewServer(NewRouter(svc, outputDir, nil))
	t.Cleanup(srv.Close)
	return srv
}

func getJSON(t *testing.T, url string, out any) int {
	t.Helper()
	resp, err := http.Get(url)
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			t.Fatalf("decode %s: %v", url, err)
		}
	}
	return resp.StatusCode
}

func TestListPages(t *testing.T) {
	srv := testServer(t, []models.PageResult{
		{FileName: "A.md", Slug: "a"},
		{FileName: "B.md", Slug: "b"},
	}, "")

	var body struct {
		Pages []dataset.PageListItem `json:"pages"`
		Total int                    `json:"total"`
	}
	if code := getJSON(t, srv.URL+"/api/pages", &body); code != http.StatusOK {
		t.Fatalf("status = %d", code)
	}
	if body.Total != 2 || len(body.Pages) != 2 {
		t.Errorf("body = %+v", body)
	}
}

func TestGetPage(t *testing.T) {
	srv := testServer(t, []models.PageResult{
		{FileName: "A.md", Slug: "a", HTML: "<p>hi</p>"},
	}, "")

	var page models.PageResult
	if code := getJSON(t, srv.URL+"/api/pages/a", &page); code != http.StatusOK {
		t.Fatalf("status = %d", code)
	}
	if page.HTML != "<p>hi</p>" {
		t.Errorf("page = %+v", page)
	}

	if code := getJSON(t, srv.URL+"/api/pages/nope", nil); code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", code)
	}
}

func TestSearch(t *testing.T) {
	srv := testServer(t, []models.PageResult{
		{FileName: "A.md", Slug: "a", PlainText: "needle in here"},
		{FileName: "B.md", Slug: "b", PlainText: "nothing"},
	}, "")

	var body struct {
		Results []dataset.SearchResult `json:"results"`
		Total   int                    `json:"total"`
	}
	if code := getJSON(t, srv.URL+"/api/search?q=needle", &body); code != http.StatusOK {
		t.Fatalf("status = %d", code)
	}
	if body.Total != 1 || body.Results[0].Slug != "a" {
		t.Errorf("body = %+v", body)
	}

	if code := getJSON(t, srv.URL+"/api/search", nil); code != http.StatusBadRequest {
		t.Errorf("missing q status = %d, want 400", code)
	}
}

func TestHealth(t *testing.T) {
	srv := testServer(t, []models.PageResult{{Slug: "a"}}, "")

	var body struct {
		Status string `json:"status"`
		Pages  int    `json:"pages"`
	}
	if code := getJSON(t, srv.URL+"/api/health", &body); code != http.StatusOK {
		t.Fatalf("status = %d", code)
	}
	if body.Status != "ok" || body.Pages != 1 {
		t.Errorf("body = %+v", body)
	}
}

func TestStaticOutputServing(t *testing.T) {
	outDir := t.TempDir()
	if err := os.WriteFile(filepath.Join(outDir, "pages.json"), []byte(`[]`), 0o644); err != nil {
		t.Fatal(err)
	}

	srv := testServer(t, nil, outDir)
	resp, err := http.Get(srv.URL + "/pages.json")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Errorf("status = %d", resp.StatusCode)
	}
}
