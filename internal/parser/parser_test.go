package parser

import (
	"strings"
	"testing"
)

func TestParse_PublicFrontmatter(t *testing.T) {
	input := []byte("---\ntitle: Hello\npublic: true\ntags:\n  - go\n  - vault\n---\n# Hello\nBody text.\n")
	n, err := Parse(input)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !n.Public {
		t.Error("public = false, want true")
	}
	if n.Title != "Hello" {
		t.Errorf("title = %q, want %q", n.Title, "Hello")
	}
	if len(n.Tags) != 2 || n.Tags[0] != "go" || n.Tags[1] != "vault" {
		t.Errorf("tags = %v, want [go vault]", n.Tags)
	}
	if !strings.Contains(string(n.Body), "Body text.") {
		t.Errorf("body = %q", n.Body)
	}
	if strings.Contains(string(n.Body), "---") {
		t.Errorf("body retains frontmatter delimiters: %q", n.Body)
	}
}

func TestParse_NoFrontmatterIsPrivate(t *testing.T) {
	n, err := Parse([]byte("# Just a heading\nSome text.\n"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if n.Public {
		t.Error("note without frontmatter must be private")
	}
	if n.Title != "Just a heading" {
		t.Errorf("title = %q", n.Title)
	}
}

func TestParse_CustomKeysCarriedThrough(t *testing.T) {
	input := []byte("---\npublic: true\nauthor: someone\nweight: 3\n---\nbody\n")
	n, err := Parse(input)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if n.Frontmatter["author"] != "someone" {
		t.Errorf("frontmatter = %v", n.Frontmatter)
	}
	if n.Frontmatter["public"] != true {
		t.Errorf("public missing from raw map: %v", n.Frontmatter)
	}
}

func TestParse_MalformedFrontmatterErrors(t *testing.T) {
	input := []byte("---\n: bad: yaml: {{{\n---\nBody\n")
	if _, err := Parse(input); err == nil {
		t.Fatal("expected error for malformed frontmatter")
	}
}

func TestParse_FrontmatterTitleWinsOverH1(t *testing.T) {
	input := []byte("---\ntitle: From FM\n---\n# From Body\n")
	n, err := Parse(input)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if n.Title != "From FM" {
		t.Errorf("title = %q", n.Title)
	}
}
