package gemini

import (
	"context"
	"errors"
	"fmt"
	"time"

	"google.golang.org/genai"

	"blogforge/config"
	"blogforge/errs"
	"blogforge/models"
	"blogforge/repositories"
)

// Config carries the model pair and retry knobs for one gateway instance.
type Config struct {
	APIKey        string
	Model         string
	FallbackModel string
	ImageModel    string
	MaxRetries    int
	BaseDelay     time.Duration
	Timeout       time.Duration
}

// Request is a single generation call. Schema, when set, asks the model for
// structured JSON output. SystemInstruction usually carries the style guide.
type Request struct {
	Prompt            string
	SystemInstruction string
	Schema            *genai.Schema
	Kind              string // ai_logs kind, e.g. models.AILogKindDraft
}

// Result is the text plus usage accounting for the call that succeeded.
type Result struct {
	Text         string
	ModelName    string
	InputTokens  int32
	OutputTokens int32
	TotalTokens  int32
}

type generateFunc func(ctx context.Context, model, prompt string, cfg *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)

// Client wraps the Gemini API with the overload policy: switch to the
// fallback model once, then back off exponentially, up to MaxRetries extra
// attempts. Every call is logged to ai_logs, success or failure.
type Client struct {
	cfg           Config
	logs          *repositories.AILogRepository
	generate      generateFunc
	generateImage generateImageFunc
	sleep         func(time.Duration)
}

func NewClient(ctx context.Context, cfg Config, logs *repositories.AILogRepository) (*Client, error) {
	if cfg.MaxRetries <= 0 {
		cfg.MaxRetries = 3
	}
	if cfg.BaseDelay <= 0 {
		cfg.BaseDelay = 2 * time.Second
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 60 * time.Second
	}
	client, err := genai.NewClient(ctx, &genai.ClientConfig{APIKey: cfg.APIKey})
	if err != nil {
		return nil, fmt.Errorf("gemini client: %w", err)
	}
	c := &Client{
		cfg:   cfg,
		logs:  logs,
		sleep: time.Sleep,
	}
	c.generate = func(ctx context.Context, model, prompt string, gcfg *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error) {
		return client.Models.GenerateContent(ctx, model, genai.Text(prompt), gcfg)
	}
	c.generateImage = func(ctx context.Context, model, prompt string) (*genai.GenerateImagesResponse, error) {
		return client.Models.GenerateImages(ctx, model, prompt, &genai.GenerateImagesConfig{
			NumberOfImages: 1,
		})
	}
	return c, nil
}

// newTestClient wires a stub transport; used by tests only.
func newTestClient(cfg Config, gen generateFunc, sleep func(time.Duration)) *Client {
	if cfg.MaxRetries <= 0 {
		cfg.MaxRetries = 3
	}
	if cfg.BaseDelay <= 0 {
		cfg.BaseDelay = time.Millisecond
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = time.Minute
	}
	return &Client{cfg: cfg, generate: gen, sleep: sleep}
}

// Generate runs one request through the retry/fallback policy. The model
// switch happens at most once per call; retry state never leaks between
// calls.
func (c *Client) Generate(ctx context.Context, req Request) (*Result, error) {
	gcfg := &genai.GenerateContentConfig{}
	if req.SystemInstruction != "" {
		gcfg.SystemInstruction = &genai.Content{
			Parts: []*genai.Part{{Text: req.SystemInstruction}},
		}
	}
	if req.Schema != nil {
		gcfg.ResponseMIMEType = "application/json"
		gcfg.ResponseSchema = req.Schema
	}

	model := c.cfg.Model
	switched := false
	started := time.Now()

	var lastErr error
	for attempt := 0; attempt <= c.cfg.MaxRetries; attempt++ {
		if err := ctx.Err(); err != nil {
			c.record(ctx, req, &Result{ModelName: model}, started, err)
			return nil, err
		}
		callCtx, cancel := context.WithTimeout(ctx, c.cfg.Timeout)
		resp, err := c.generate(callCtx, model, req.Prompt, gcfg)
		cancel()
		if err == nil {
			res := &Result{Text: resp.Text(), ModelName: model}
			if resp.UsageMetadata != nil {
				res.InputTokens = resp.UsageMetadata.PromptTokenCount
				res.OutputTokens = resp.UsageMetadata.CandidatesTokenCount
				res.TotalTokens = resp.UsageMetadata.TotalTokenCount
			}
			c.record(ctx, req, res, started, nil)
			return res, nil
		}

		lastErr = classify(err)
		if !errs.Retryable(lastErr) {
			break
		}
		config.Logger.Warnf("gemini call overloaded (model=%s attempt=%d): %v", model, attempt, err)

		if !switched && c.cfg.FallbackModel != "" && c.cfg.FallbackModel != model {
			// First overload: try the fallback model immediately.
			model = c.cfg.FallbackModel
			switched = true
			continue
		}
		if attempt < c.cfg.MaxRetries {
			c.sleep(c.cfg.BaseDelay * (1 << attempt))
		}
	}

	var tagged *errs.Error
	if errs.Retryable(lastErr) && errors.As(lastErr, &tagged) {
		tagged.With("attempts", c.cfg.MaxRetries+1)
	}
	c.record(ctx, req, &Result{ModelName: model}, started, lastErr)
	return nil, lastErr
}

// classify maps API failures onto the domain error kinds the services branch
// on. 5xx/429 means overloaded and retryable; 401/403 means the key is bad
// and retrying is pointless.
func classify(err error) error {
	var apiErr genai.APIError
	if errors.As(err, &apiErr) {
		switch apiErr.Code {
		case 429, 500, 502, 503, 504:
			return errs.Wrap(errs.AIUnavailable, "model overloaded", err)
		case 401, 403:
			return errs.Wrap(errs.AIUnauthenticated, "invalid API credentials", err)
		}
		return errs.Wrap(errs.ContentGenerationFailed, "generation failed", err)
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return errs.Wrap(errs.AIUnavailable, "model timed out", err)
	}
	return errs.Wrap(errs.AIUnavailable, "model unreachable", err)
}

func (c *Client) record(ctx context.Context, req Request, res *Result, started time.Time, callErr error) {
	if c.logs == nil {
		return
	}
	completed := time.Now()
	entry := models.AILog{
		Kind:           req.Kind,
		ModelName:      res.ModelName,
		InputTokens:    int64(res.InputTokens),
		OutputTokens:   int64(res.OutputTokens),
		TotalTokens:    int64(res.TotalTokens),
		DurationMs:     completed.Sub(started).Milliseconds(),
		InputPrompt:    req.Prompt,
		OutputResponse: res.Text,
		RequestedAt:    started,
		CompletedAt:    completed,
	}
	if callErr != nil {
		msg := callErr.Error()
		entry.ErrorMessage = &msg
	}
	if _, err := c.logs.Insert(ctx, entry); err != nil {
		config.Logger.Errorf("failed to record ai log: %v", err)
	}
}
