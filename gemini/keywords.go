package gemini

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"google.golang.org/genai"

	"blogforge/errs"
	"blogforge/models"
	"blogforge/parser"
)

const keywordsInstruction = `You are an SEO analyst. Extract the most relevant focus keywords
from the article you are given. Prefer short phrases a reader would actually search for.
Return only the keyword list.`

var keywordsSchema = &genai.Schema{
	Type: genai.TypeArray,
	Items: &genai.Schema{
		Type: genai.TypeString,
	},
}

// ExtractKeywords asks the model for up to max focus keywords for the given
// article text. Empty input yields an empty slice without an API call.
func (c *Client) ExtractKeywords(ctx context.Context, text string, max int) ([]string, error) {
	if strings.TrimSpace(text) == "" {
		return []string{}, nil
	}
	if max <= 0 {
		max = 5
	}
	res, err := c.Generate(ctx, Request{
		Prompt: fmt.Sprintf("Extract at most %d focus keywords from this article:\n\n%s",
			max, text),
		SystemInstruction: keywordsInstruction,
		Schema:            keywordsSchema,
		Kind:              models.AILogKindKeywords,
	})
	if err != nil {
		return nil, err
	}

	var keywords []string
	if err := json.Unmarshal([]byte(parser.StripFences(res.Text)), &keywords); err != nil {
		return nil, errs.Wrap(errs.ContentGenerationFailed, "keyword response is not a JSON array", err)
	}
	if len(keywords) > max {
		keywords = keywords[:max]
	}
	return keywords, nil
}
