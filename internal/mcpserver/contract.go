package mcpserver

// PageFormatContract describes the page records the exporter produces, for
// LLM consumers reading pages through the MCP tools.
const PageFormatContract = `# Ansuz Page Record Format

Every record returned by ` + "`" + `get_page` + "`" + ` (and stored in the exported
pages JSON file) has this shape:

` + "```" + `json
{
  "fileName": "Setup Guide.md",
  "slug": "setup-guide",
  "frontmatter": { "title": "Setup Guide", "public": true, "tags": ["docs"] },
  "firstParagraphText": "Plain text of the first paragraph.",
  "plainText": "Full plain-text rendition used for search.",
  "html": "<h1 id=\"setup-guide\">Setup Guide</h1>...",
  "tableOfContents": [
    { "title": "Setup Guide", "depth": 1, "id": "setup-guide" }
  ],
  "originalRelativePath": "docs/Setup Guide.md"
}
` + "```" + `

## Rules

1. **` + "`" + `slug` + "`" + `** is the stable identifier: the lowercased, dash-separated
   file name without extension. Use it with ` + "`" + `get_page` + "`" + `.
2. **` + "`" + `frontmatter` + "`" + `** carries the note's YAML metadata verbatim; only
   notes with ` + "`" + `public: true` + "`" + ` are published at all.
3. **` + "`" + `html` + "`" + `** is fully resolved: wiki links point at ` + "`" + `prefix/slug` + "`" + `
   targets, embeds point at optimized asset paths. Links whose target is not
   public appear as plain text, not anchors.
4. **` + "`" + `tableOfContents` + "`" + ` ids** match the ` + "`" + `id` + "`" + ` attributes on the
   heading tags in ` + "`" + `html` + "`" + `, so they can be used as fragment anchors.
5. **` + "`" + `plainText` + "`" + `** strips all markup; prefer it for search and excerpt
   generation over parsing ` + "`" + `html` + "`" + `.
`
