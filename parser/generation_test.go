package parser_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"blogforge/errs"
	"blogforge/parser"
)

func TestParseGenerationJSON(t *testing.T) {
	raw := `{
		"postContent": "# Hello\n\nBody text.",
		"tags": ["go", "testing"],
		"metaDescription": "A post about hello.",
		"sources": ["https://example.com/a", "https://example.com/b"]
	}`

	g, err := parser.ParseGeneration(raw)
	assert.NoError(t, err)
	assert.Equal(t, "# Hello\n\nBody text.", g.Content)
	assert.Equal(t, []string{"go", "testing"}, g.Tags)
	assert.Equal(t, "A post about hello.", g.MetaDescription)
	assert.Equal(t, []string{"https://example.com/a", "https://example.com/b"}, g.Sources)
}

func TestParseGenerationJSONStringLists(t *testing.T) {
	// Models sometimes return delimited strings instead of arrays.
	raw := `{
		"postContent": "Body.",
		"tags": "go, testing, generics",
		"metaDescription": "Desc.",
		"sources": "https://example.com/a\nhttps://example.com/b"
	}`

	g, err := parser.ParseGeneration(raw)
	assert.NoError(t, err)
	assert.Equal(t, []string{"go", "testing", "generics"}, g.Tags)
	assert.Equal(t, []string{"https://example.com/a", "https://example.com/b"}, g.Sources)
}

func TestParseGenerationFencedJSON(t *testing.T) {
	raw := "```json\n{\"postContent\": \"Body.\", \"tags\": [\"go\"], \"metaDescription\": \"D.\", \"sources\": []}\n```"

	g, err := parser.ParseGeneration(raw)
	assert.NoError(t, err)
	assert.Equal(t, "Body.", g.Content)
	assert.Equal(t, []string{"go"}, g.Tags)
}

func TestStripFences(t *testing.T) {
	cases := map[string]string{
		"```json\n{\"a\": 1}\n```": `{"a": 1}`,
		"```\n[1, 2]\n```":         `[1, 2]`,
		`{"a": 1}`:                 `{"a": 1}`,
	}
	for in, want := range cases {
		assert.Equal(t, want, parser.StripFences(in))
	}
}

func TestParseGenerationLegacyMatchesJSON(t *testing.T) {
	legacy := `---POST CONTENT---
# Hello

Body text.
---TAGS---
go, testing
---META DESCRIPTION---
A post about hello.
---SOURCES---
https://example.com/a
https://example.com/b`

	jsonRaw := `{
		"postContent": "# Hello\n\nBody text.",
		"tags": ["go", "testing"],
		"metaDescription": "A post about hello.",
		"sources": ["https://example.com/a", "https://example.com/b"]
	}`

	fromLegacy, err := parser.ParseGeneration(legacy)
	assert.NoError(t, err)
	fromJSON, err := parser.ParseGeneration(jsonRaw)
	assert.NoError(t, err)

	// Both formats must yield the same structured result.
	assert.Equal(t, fromJSON, fromLegacy)
}

func TestParseGenerationBareText(t *testing.T) {
	g, err := parser.ParseGeneration("Just a plain answer without any markers.")
	assert.NoError(t, err)
	assert.Equal(t, "Just a plain answer without any markers.", g.Content)
	assert.Empty(t, g.Tags)
	assert.Empty(t, g.Sources)
}

func TestParseGenerationEmptyContent(t *testing.T) {
	for _, raw := range []string{
		"",
		"   ",
		`{"postContent": "", "tags": ["go"]}`,
		"---TAGS---\ngo, testing",
	} {
		_, err := parser.ParseGeneration(raw)
		assert.Error(t, err, "input %q", raw)
		assert.Equal(t, errs.ContentGenerationFailed, errs.KindOf(err))
	}
}
