package gemini

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"google.golang.org/genai"

	"blogforge/errs"
)

func textResponse(text string) *genai.GenerateContentResponse {
	return &genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{
			{Content: &genai.Content{Parts: []*genai.Part{{Text: text}}}},
		},
	}
}

// scriptedGen replays a list of outcomes and records which model served each
// attempt.
type scriptedGen struct {
	outcomes []error // nil means success
	models   []string
	calls    int
}

func (s *scriptedGen) fn(text string) generateFunc {
	return func(ctx context.Context, model, prompt string, cfg *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error) {
		s.models = append(s.models, model)
		var out error
		if s.calls < len(s.outcomes) {
			out = s.outcomes[s.calls]
		}
		s.calls++
		if out != nil {
			return nil, out
		}
		return textResponse(text), nil
	}
}

func testConfig() Config {
	return Config{
		Model:         "primary",
		FallbackModel: "fallback",
		MaxRetries:    3,
		BaseDelay:     time.Millisecond,
		Timeout:       time.Second,
	}
}

func TestGenerateSwitchesToFallbackOnceThenBacksOff(t *testing.T) {
	overloaded := genai.APIError{Code: 503, Message: "model overloaded"}
	gen := &scriptedGen{outcomes: []error{overloaded, overloaded, nil}}

	var slept []time.Duration
	c := newTestClient(testConfig(), gen.fn("done"), func(d time.Duration) { slept = append(slept, d) })

	res, err := c.Generate(context.Background(), Request{Prompt: "p"})
	assert.NoError(t, err)
	assert.Equal(t, "done", res.Text)

	// One switch: primary fails, fallback tried immediately, fallback retried
	// after one backoff sleep. The primary is never revisited.
	assert.Equal(t, []string{"primary", "fallback", "fallback"}, gen.models)
	assert.Len(t, slept, 1)
	assert.Equal(t, "fallback", res.ModelName)
}

func TestGenerateExhaustionReturnsUnavailable(t *testing.T) {
	overloaded := genai.APIError{Code: 503, Message: "model overloaded"}
	gen := &scriptedGen{outcomes: []error{overloaded, overloaded, overloaded, overloaded, overloaded}}

	c := newTestClient(testConfig(), gen.fn(""), func(time.Duration) {})

	_, err := c.Generate(context.Background(), Request{Prompt: "p"})
	assert.Error(t, err)
	assert.Equal(t, errs.AIUnavailable, errs.KindOf(err))
	// maxRetries(3) + the initial attempt.
	assert.Equal(t, 4, gen.calls)
}

func TestGenerateUnauthenticatedFailsFast(t *testing.T) {
	gen := &scriptedGen{outcomes: []error{genai.APIError{Code: 401, Message: "bad key"}}}

	c := newTestClient(testConfig(), gen.fn(""), func(time.Duration) {
		t.Fatal("must not sleep on a fatal error")
	})

	_, err := c.Generate(context.Background(), Request{Prompt: "p"})
	assert.Error(t, err)
	assert.Equal(t, errs.AIUnauthenticated, errs.KindOf(err))
	assert.Equal(t, 1, gen.calls)
}

func TestGenerateRateLimitCountsAsOverload(t *testing.T) {
	gen := &scriptedGen{outcomes: []error{genai.APIError{Code: 429, Message: "quota"}, nil}}

	c := newTestClient(testConfig(), gen.fn("ok"), func(time.Duration) {})

	res, err := c.Generate(context.Background(), Request{Prompt: "p"})
	assert.NoError(t, err)
	assert.Equal(t, "ok", res.Text)
	assert.Equal(t, []string{"primary", "fallback"}, gen.models)
}

func TestGenerateRetryStateIsCallLocal(t *testing.T) {
	overloaded := genai.APIError{Code: 503, Message: "overloaded"}
	gen := &scriptedGen{outcomes: []error{overloaded, nil, nil}}

	c := newTestClient(testConfig(), gen.fn("ok"), func(time.Duration) {})

	_, err := c.Generate(context.Background(), Request{Prompt: "first"})
	assert.NoError(t, err)

	// A fresh call starts on the primary model again.
	_, err = c.Generate(context.Background(), Request{Prompt: "second"})
	assert.NoError(t, err)
	assert.Equal(t, "primary", gen.models[len(gen.models)-1])
}

func TestExtractKeywordsEmptyInput(t *testing.T) {
	gen := &scriptedGen{}
	c := newTestClient(testConfig(), gen.fn(""), func(time.Duration) {})

	keywords, err := c.ExtractKeywords(context.Background(), "   ", 5)
	assert.NoError(t, err)
	assert.Empty(t, keywords)
	assert.Equal(t, 0, gen.calls)
}

func TestExtractKeywordsParsesFencedArray(t *testing.T) {
	gen := &scriptedGen{outcomes: []error{nil}}
	c := newTestClient(testConfig(), gen.fn("```json\n[\"go\", \"testing\", \"tooling\"]\n```"), func(time.Duration) {})

	keywords, err := c.ExtractKeywords(context.Background(), "an article about go testing", 2)
	assert.NoError(t, err)
	assert.Equal(t, []string{"go", "testing"}, keywords)
}
