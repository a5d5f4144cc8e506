// Package parser extracts frontmatter and the Markdown body from vault notes.
package parser

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/adrg/frontmatter"
)

// Note holds the output of parsing a Markdown file.
type Note struct {
	Frontmatter map[string]any
	Body        []byte
	Title       string
	Tags        []string
	Public      bool
}

// envelope captures the fields the pipeline cares about; everything else
// lands in Custom and is carried through opaquely.
type envelope struct {
	Title  string         `yaml:"title"`
	Public bool           `yaml:"public"`
	Tags   []string       `yaml:"tags"`
	Custom map[string]any `yaml:",inline"`
}

// Parse extracts frontmatter and body from raw Markdown bytes. A note
// without frontmatter is valid (and private by default); malformed
// frontmatter is an error so the caller can log and skip the file.
func Parse(data []byte) (*Note, error) {
	var env envelope
	body, err := frontmatter.Parse(bytes.NewReader(data), &env)
	if err != nil {
		return nil, fmt.Errorf("parser: frontmatter: %w", err)
	}

	title := env.Title
	if title == "" {
		title = deriveTitle(body)
	}

	return &Note{
		Frontmatter: rawMap(env),
		Body:        body,
		Title:       title,
		Tags:        env.Tags,
		Public:      env.Public,
	}, nil
}

// rawMap flattens the envelope back into the opaque key-value form emitted
// in page results.
func rawMap(env envelope) map[string]any {
	raw := make(map[string]any, len(env.Custom)+3)
	for k, v := range env.Custom {
		raw[k] = v
	}
	if env.Title != "" {
		raw["title"] = env.Title
	}
	if len(env.Tags) > 0 {
		raw["tags"] = append([]string(nil), env.Tags...)
	}
	raw["public"] = env.Public
	return raw
}

// deriveTitle returns the first H1 heading, or empty string.
func deriveTitle(body []byte) string {
	for _, line := range strings.Split(string(body), "\n") {
		trimmed := strings.TrimSpace(line)
		if strings.HasPrefix(trimmed, "# ") {
			return strings.TrimSpace(trimmed[2:])
		}
	}
	return ""
}
