package services

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"google.golang.org/genai"

	"blogforge/config"
	"blogforge/errs"
	"blogforge/feeder"
	"blogforge/gemini"
	"blogforge/models"
	"blogforge/parser"
	"blogforge/sitefetch"
	"blogforge/textextract"
)

var styleSchema = &genai.Schema{
	Type: genai.TypeObject,
	Properties: map[string]*genai.Schema{
		"tone":              {Type: genai.TypeString},
		"sentenceStructure": {Type: genai.TypeString},
		"paragraphLength":   {Type: genai.TypeString},
		"formattingStyle":   {Type: genai.TypeString},
	},
	Required: []string{"tone", "sentenceStructure", "paragraphLength", "formattingStyle"},
}

const styleInstruction = `You are an editorial analyst. Read the post samples and describe the
site's writing voice precisely enough that another writer could imitate it.`

// FetchHTMLFunc loads a page; sitefetch.FetchHTML in production.
type FetchHTMLFunc func(ctx context.Context, url string) (string, error)

// FetchFeedFunc reads the site RSS feed; feeder.FetchRssFeeds in production.
type FetchFeedFunc func(rssURL string, limit int) ([]feeder.RssFeedItem, error)

// StyleService derives the style guide from the site's recent posts.
type StyleService struct {
	styles    StyleGuideStore
	posts     PostStore
	ai        AIGateway
	site      config.SiteConfig
	fetchHTML FetchHTMLFunc
	fetchFeed FetchFeedFunc
}

func NewStyleService(styles StyleGuideStore, posts PostStore, ai AIGateway, site config.SiteConfig) *StyleService {
	return &StyleService{
		styles:    styles,
		posts:     posts,
		ai:        ai,
		site:      site,
		fetchHTML: sitefetch.FetchHTML,
		fetchFeed: feeder.FetchRssFeeds,
	}
}

// AnalyzeSite samples the most recent published posts (stored ones first,
// topped up from the site RSS feed), has the model describe the voice, and
// overwrites the stored guide wholesale.
func (s *StyleService) AnalyzeSite(ctx context.Context) (*models.StyleGuide, error) {
	samples, err := s.collectSamples(ctx)
	if err != nil {
		return nil, err
	}
	if len(samples) == 0 {
		return nil, errs.New(errs.StyleGuideRequired, "no published posts available to analyze")
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Analyze the writing style of these %d posts:\n", len(samples))
	for i, sample := range samples {
		fmt.Fprintf(&b, "\n--- POST %d ---\n%s\n", i+1, sample)
	}

	res, err := s.ai.Generate(ctx, gemini.Request{
		Prompt:            b.String(),
		SystemInstruction: styleInstruction,
		Schema:            styleSchema,
		Kind:              models.AILogKindStyle,
	})
	if err != nil {
		return nil, err
	}

	var doc struct {
		Tone              string `json:"tone"`
		SentenceStructure string `json:"sentenceStructure"`
		ParagraphLength   string `json:"paragraphLength"`
		FormattingStyle   string `json:"formattingStyle"`
	}
	if err := json.Unmarshal([]byte(parser.StripFences(res.Text)), &doc); err != nil {
		return nil, errs.Wrap(errs.ContentGenerationFailed, "style response is not valid JSON", err)
	}

	guide := &models.StyleGuide{
		Tone:              doc.Tone,
		SentenceStructure: doc.SentenceStructure,
		ParagraphLength:   doc.ParagraphLength,
		FormattingStyle:   doc.FormattingStyle,
	}
	if err := s.styles.Set(ctx, guide); err != nil {
		return nil, err
	}
	return guide, nil
}

func (s *StyleService) Get(ctx context.Context) (*models.StyleGuide, error) {
	return s.styles.Get(ctx)
}

// Update overwrites the guide with manual edits.
func (s *StyleService) Update(ctx context.Context, guide *models.StyleGuide) error {
	return s.styles.Set(ctx, guide)
}

// collectSamples prefers stored published posts and fills the remainder from
// the live site. A feed item that fails to fetch or extract is skipped, not
// fatal.
func (s *StyleService) collectSamples(ctx context.Context) ([]string, error) {
	n := s.site.AnalyzePostCount
	if n <= 0 {
		n = 5
	}

	var samples []string
	stored, err := s.posts.ListPublished(ctx, n)
	if err != nil {
		return nil, err
	}
	for _, p := range stored {
		if strings.TrimSpace(p.Content) != "" {
			samples = append(samples, truncateSample(p.Content))
		}
	}

	if len(samples) >= n || s.site.RSSURL == "" {
		return samples, nil
	}

	items, err := s.fetchFeed(s.site.RSSURL, n-len(samples))
	if err != nil {
		config.Logger.Warnf("rss fetch of %s failed: %v", s.site.RSSURL, err)
		return samples, nil
	}
	for _, item := range items {
		htmlStr, err := s.fetchHTML(ctx, item.Link)
		if err != nil {
			config.Logger.Warnf("fetch of %s failed: %v", item.Link, err)
			continue
		}
		article, err := textextract.Extract(htmlStr)
		if err != nil || strings.TrimSpace(article.PlainTextContent) == "" {
			config.Logger.Warnf("extraction of %s yielded nothing", item.Link)
			continue
		}
		samples = append(samples, truncateSample(article.PlainTextContent))
		if len(samples) >= n {
			break
		}
	}
	return samples, nil
}

// truncateSample caps one sample so a handful of long posts cannot blow the
// prompt budget.
func truncateSample(text string) string {
	const maxRunes = 6000
	runes := []rune(text)
	if len(runes) <= maxRunes {
		return text
	}
	return string(runes[:maxRunes])
}
