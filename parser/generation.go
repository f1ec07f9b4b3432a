package parser

import (
	"encoding/json"
	"regexp"
	"strings"

	"blogforge/errs"
)

// Generation is the parsed form of one draft-generation response.
type Generation struct {
	Content         string
	Tags            []string
	MetaDescription string
	Sources         []string
}

// flexStrings accepts either a JSON array of strings or a single delimited
// string; older prompts got the second shape back often enough to matter.
type flexStrings []string

func (f *flexStrings) UnmarshalJSON(data []byte) error {
	var arr []string
	if err := json.Unmarshal(data, &arr); err == nil {
		*f = arr
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	*f = splitList(s)
	return nil
}

func splitList(s string) []string {
	sep := ","
	if strings.Contains(s, "\n") {
		sep = "\n"
	}
	var out []string
	for _, part := range strings.Split(s, sep) {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

var sectionMarker = regexp.MustCompile(`(?m)^-{3}\s*(POST CONTENT|TAGS|META DESCRIPTION|SOURCES)\s*-{3}\s*$`)

// ParseGeneration decodes a model response into its parts. It tries JSON
// first (with or without markdown fences), then falls back to the legacy
// ---SECTION--- marker format. A response with no post content is a failed
// generation either way.
func ParseGeneration(raw string) (*Generation, error) {
	cleaned := StripFences(raw)

	if g, ok := parseJSON(cleaned); ok {
		if strings.TrimSpace(g.Content) == "" {
			return nil, errs.New(errs.ContentGenerationFailed, "response has no post content")
		}
		return g, nil
	}

	g := parseSections(cleaned)
	if strings.TrimSpace(g.Content) == "" {
		return nil, errs.New(errs.ContentGenerationFailed, "response has no post content")
	}
	return g, nil
}

func parseJSON(s string) (*Generation, bool) {
	var doc struct {
		PostContent     string      `json:"postContent"`
		Tags            flexStrings `json:"tags"`
		MetaDescription string      `json:"metaDescription"`
		Sources         flexStrings `json:"sources"`
	}
	if err := json.Unmarshal([]byte(s), &doc); err != nil {
		return nil, false
	}
	return &Generation{
		Content:         strings.TrimSpace(doc.PostContent),
		Tags:            []string(doc.Tags),
		MetaDescription: strings.TrimSpace(doc.MetaDescription),
		Sources:         []string(doc.Sources),
	}, true
}

// parseSections handles the legacy marker format. Text before the first
// marker belongs to no section and is dropped; an unmarked response is
// treated as bare post content.
func parseSections(s string) *Generation {
	matches := sectionMarker.FindAllStringSubmatchIndex(s, -1)
	if len(matches) == 0 {
		return &Generation{Content: strings.TrimSpace(s)}
	}

	g := &Generation{}
	for i, m := range matches {
		name := s[m[2]:m[3]]
		end := len(s)
		if i+1 < len(matches) {
			end = matches[i+1][0]
		}
		body := strings.TrimSpace(s[m[1]:end])
		switch name {
		case "POST CONTENT":
			g.Content = body
		case "TAGS":
			g.Tags = splitList(body)
		case "META DESCRIPTION":
			g.MetaDescription = body
		case "SOURCES":
			g.Sources = splitList(body)
		}
	}
	return g
}

// StripFences removes the markdown code fences models sometimes wrap around
// structured output.
func StripFences(s string) string {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "```") {
		s = strings.TrimPrefix(s, "```json")
		s = strings.TrimPrefix(s, "```")
		s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	}
	return strings.TrimSpace(s)
}
