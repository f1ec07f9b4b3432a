package services

import (
	"context"
	"encoding/json"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"google.golang.org/genai"

	"blogforge/config"
	"blogforge/errs"
	"blogforge/eventbus"
	"blogforge/events"
	"blogforge/gemini"
	"blogforge/models"
	"blogforge/parser"
)

// DraftTopic is the eventbus topic carrying draft lifecycle events.
var DraftTopic = eventbus.NewTopic("draft.events")

const sourcesHeading = "## Sources"

var draftSchema = &genai.Schema{
	Type: genai.TypeObject,
	Properties: map[string]*genai.Schema{
		"postContent":     {Type: genai.TypeString},
		"tags":            {Type: genai.TypeArray, Items: &genai.Schema{Type: genai.TypeString}},
		"metaDescription": {Type: genai.TypeString},
		"sources":         {Type: genai.TypeArray, Items: &genai.Schema{Type: genai.TypeString}},
	},
	Required: []string{"postContent"},
}

const draftInstruction = `You are a blog author. Write a complete, publish-ready post in Markdown
for the given title. Include a short meta description and the sources you drew on.`

// DraftService turns a claimed idea into a stored draft and runs the
// best-effort enrichment steps afterwards.
type DraftService struct {
	ideas    IdeaStore
	posts    PostStore
	styles   StyleGuideStore
	counters UsageCounterStore
	media    MediaStore
	ai       AIGateway
	acquirer ImageAcquirer
	bus      eventbus.EventBus // nil means enrich inline
	runTx    TxRunner

	plan       config.PlanConfig
	enrichment config.EnrichmentConfig
	siteBase   string
}

func NewDraftService(ideas IdeaStore, posts PostStore, styles StyleGuideStore,
	counters UsageCounterStore, media MediaStore, ai AIGateway, acquirer ImageAcquirer,
	bus eventbus.EventBus, runTx TxRunner, cfg config.AppConfig) *DraftService {
	return &DraftService{
		ideas:      ideas,
		posts:      posts,
		styles:     styles,
		counters:   counters,
		media:      media,
		ai:         ai,
		acquirer:   acquirer,
		bus:        bus,
		runTx:      runTx,
		plan:       cfg.Plan,
		enrichment: cfg.Enrichment,
		siteBase:   strings.TrimRight(cfg.Site.BaseURL, "/"),
	}
}

// CreateDraft runs the full pipeline for one idea. The idea is claimed
// atomically up front and released back to new on any pre-commit failure, so
// a crashed or failed run never strands it in drafting.
func (s *DraftService) CreateDraft(ctx context.Context, ideaID primitive.ObjectID) (*models.Post, error) {
	guide, err := s.styles.Get(ctx)
	if err != nil {
		return nil, err
	}
	if guide == nil {
		return nil, errs.New(errs.StyleGuideRequired, "analyze the site before generating")
	}
	if err := s.checkDraftQuota(ctx); err != nil {
		return nil, err
	}

	idea, err := s.ideas.FindByID(ctx, ideaID)
	if err != nil {
		return nil, errs.Wrap(errs.IdeaNotFound, "idea lookup failed", err)
	}

	claimed, err := s.ideas.ClaimForDrafting(ctx, ideaID)
	if err != nil {
		return nil, err
	}
	if !claimed {
		return nil, errs.New(errs.AlreadyClaimed, "idea is not available for drafting").
			With("status", idea.Status)
	}

	post, err := s.generateAndCommit(ctx, idea, guide)
	if err != nil {
		if relErr := s.ideas.UpdateStatus(ctx, ideaID, models.IdeaStatusNew); relErr != nil {
			config.Logger.Errorf("failed to release claim on idea %s: %v", ideaID.Hex(), relErr)
		}
		return nil, err
	}

	if !s.plan.IsPro() {
		if err := s.counters.Increment(ctx, models.CounterDrafts, 1); err != nil {
			config.Logger.Errorf("failed to increment draft counter: %v", err)
		}
	}

	if s.dispatchEnrichment(ctx, post, idea) {
		// Inline enrichment mutated the stored document; return what the
		// store now holds, not the pre-enrichment copy.
		if fresh, err := s.posts.FindByID(ctx, post.ID); err == nil {
			post = fresh
		}
	}
	return post, nil
}

func (s *DraftService) generateAndCommit(ctx context.Context, idea *models.Idea, guide *models.StyleGuide) (*models.Post, error) {
	res, err := s.ai.Generate(ctx, gemini.Request{
		Prompt:            fmt.Sprintf("Write a blog post titled: %s", idea.Title),
		SystemInstruction: guide.Prompt() + "\n\n" + draftInstruction,
		Schema:            draftSchema,
		Kind:              models.AILogKindDraft,
	})
	if err != nil {
		return nil, err
	}

	gen, err := parser.ParseGeneration(res.Text)
	if err != nil {
		return nil, err
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	post := &models.Post{
		IdeaID:          idea.ID,
		Title:           idea.Title,
		Content:         gen.Content,
		MetaTitle:       metaTitle(idea.Title),
		MetaDescription: gen.MetaDescription,
		Sources:         gen.Sources,
		Permalink:       s.permalink(idea.Title),
		Status:          models.PostStatusDraft,
		ModelName:       res.ModelName,
	}

	// Post insert and idea transition commit or roll back together.
	err = s.runTx(ctx, func(txCtx context.Context) error {
		postID, err := s.posts.Insert(txCtx, post)
		if err != nil {
			return err
		}
		return s.ideas.MarkDrafted(txCtx, idea.ID, postID)
	})
	if err != nil {
		return nil, errs.Wrap(errs.TransactionFailed, "draft commit failed", err)
	}
	return post, nil
}

// dispatchEnrichment hands the draft to the async pipeline, falling back to
// an inline best-effort run when the bus is down. The draft is already
// committed; nothing here may fail it. Reports whether enrichment ran inline.
func (s *DraftService) dispatchEnrichment(ctx context.Context, post *models.Post, idea *models.Idea) bool {
	if s.bus != nil {
		evt := events.DraftCreatedEvent{
			BaseEvent: events.BaseEvent{
				ID:        uuid.NewString(),
				Type:      events.DraftCreated,
				Timestamp: time.Now(),
				Source:    "draft-service",
				Version:   "1.0",
			},
			PostID:    post.ID,
			IdeaID:    idea.ID,
			IdeaTitle: idea.Title,
		}
		payload, _, err := events.SerializeEvent(evt)
		if err == nil {
			err = s.bus.Publish(ctx, DraftTopic.Base(), eventbus.Event{
				ID:      evt.ID,
				Payload: json.RawMessage(payload),
			})
		}
		if err == nil {
			return false
		}
		config.Logger.Warnf("failed to publish draft.created for %s, enriching inline: %v", post.ID.Hex(), err)
	}
	if err := s.EnrichDraft(ctx, post.ID); err != nil {
		config.Logger.Errorf("inline enrichment of %s failed: %v", post.ID.Hex(), err)
	}
	return true
}

// EnrichDraft runs the best-effort enrichment steps on a committed draft.
// Safe to re-invoke: completed steps are flagged on the post and skipped.
func (s *DraftService) EnrichDraft(ctx context.Context, postID primitive.ObjectID) error {
	post, err := s.posts.FindByID(ctx, postID)
	if err != nil {
		return err
	}
	original := post.Enrichment
	flags := original

	if !flags.SourcesAppended {
		if s.appendSources(ctx, post) {
			flags.SourcesAppended = true
		}
	}
	if !flags.LinksInserted {
		if s.insertInternalLinks(ctx, post) {
			flags.LinksInserted = true
		}
	}
	if !flags.ImageAttached {
		if s.attachFeaturedImage(ctx, post) {
			flags.ImageAttached = true
		}
	}
	if s.plan.IsPro() {
		s.runPlagiarismCheck(ctx, post)
		if !flags.DataSection {
			if s.appendDataSection(ctx, post) {
				flags.DataSection = true
			}
		}
	}

	if flags != original {
		if err := s.posts.SetEnrichmentFlags(ctx, postID, flags); err != nil {
			config.Logger.Errorf("failed to save enrichment flags for %s: %v", postID.Hex(), err)
		}
	}
	return nil
}

// appendSources adds a sources appendix unless the content already carries
// one.
func (s *DraftService) appendSources(ctx context.Context, post *models.Post) bool {
	if len(post.Sources) == 0 {
		return true // nothing to append
	}
	if strings.Contains(post.Content, sourcesHeading) {
		return true // appendix already present
	}
	var b strings.Builder
	b.WriteString(post.Content)
	b.WriteString("\n\n" + sourcesHeading + "\n\n")
	for _, src := range post.Sources {
		b.WriteString("- " + src + "\n")
	}
	post.Content = b.String()
	if err := s.posts.UpdateContent(ctx, post.ID, post.Content); err != nil {
		config.Logger.Errorf("failed to append sources to %s: %v", post.ID.Hex(), err)
		return false
	}
	return true
}

func (s *DraftService) insertInternalLinks(ctx context.Context, post *models.Post) bool {
	keywords, err := s.ai.ExtractKeywords(ctx, post.Title+"\n\n"+post.Content, s.enrichment.FocusKeywords)
	if err != nil {
		config.Logger.Warnf("keyword extraction for %s failed: %v", post.ID.Hex(), err)
		return false
	}
	if len(keywords) > 0 {
		if err := s.posts.SetFocusKeywords(ctx, post.ID, keywords); err != nil {
			config.Logger.Errorf("failed to save focus keywords for %s: %v", post.ID.Hex(), err)
		}
		post.FocusKeywords = keywords
	}

	published, err := s.posts.ListPublished(ctx, 0)
	if err != nil {
		config.Logger.Warnf("listing published posts for %s failed: %v", post.ID.Hex(), err)
		return false
	}

	linked, n := LinkKeywords(post.Content, keywords, published, post.ID, s.enrichment.MaxInternalLinks)
	if n == 0 {
		return true // nothing to link is still a completed step
	}
	post.Content = linked
	if err := s.posts.UpdateContent(ctx, post.ID, linked); err != nil {
		config.Logger.Errorf("failed to save internal links for %s: %v", post.ID.Hex(), err)
		return false
	}
	return true
}

func (s *DraftService) attachFeaturedImage(ctx context.Context, post *models.Post) bool {
	if s.acquirer == nil || s.media == nil {
		return false
	}
	asset, err := s.acquirer.Acquire(ctx, post.Title)
	if err != nil {
		config.Logger.Warnf("featured image for %s skipped: %v", post.ID.Hex(), err)
		return false
	}
	ref, err := s.media.Store(asset.Data, asset.Filename)
	if err != nil {
		config.Logger.Errorf("failed to store featured image for %s: %v", post.ID.Hex(), err)
		return false
	}
	if err := s.posts.SetFeaturedImage(ctx, post.ID, ref); err != nil {
		config.Logger.Errorf("failed to save image ref for %s: %v", post.ID.Hex(), err)
		return false
	}
	post.FeaturedImageRef = ref
	return true
}

// runPlagiarismCheck fires an originality review whose verdict lands in
// ai_logs via the gateway; the draft itself is untouched.
func (s *DraftService) runPlagiarismCheck(ctx context.Context, post *models.Post) {
	_, err := s.ai.Generate(ctx, gemini.Request{
		Prompt: "Review this post for passages likely lifted from existing published work. " +
			"List any suspect passages with your confidence, or state that none were found.\n\n" + post.Content,
		Kind: models.AILogKindPlagiarism,
	})
	if err != nil {
		config.Logger.Warnf("plagiarism check for %s failed: %v", post.ID.Hex(), err)
	}
}

func (s *DraftService) appendDataSection(ctx context.Context, post *models.Post) bool {
	res, err := s.ai.Generate(ctx, gemini.Request{
		Prompt: "Write a short \"Key Statistics\" Markdown section (heading included) with " +
			"relevant, plausible-to-verify data points for this post. Cite where each number comes from.\n\n" +
			post.Content,
		Kind: models.AILogKindData,
	})
	if err != nil || strings.TrimSpace(res.Text) == "" {
		if err != nil {
			config.Logger.Warnf("data section for %s failed: %v", post.ID.Hex(), err)
		}
		return false
	}
	post.Content = post.Content + "\n\n" + strings.TrimSpace(res.Text)
	if err := s.posts.UpdateContent(ctx, post.ID, post.Content); err != nil {
		config.Logger.Errorf("failed to append data section to %s: %v", post.ID.Hex(), err)
		return false
	}
	return true
}

func (s *DraftService) checkDraftQuota(ctx context.Context) error {
	if s.plan.IsPro() || s.plan.MonthlyDraftLimit <= 0 {
		return nil
	}
	used, err := s.counters.Get(ctx, models.CounterDrafts)
	if err != nil {
		return err
	}
	if used >= s.plan.MonthlyDraftLimit {
		return errs.New(errs.QuotaExceeded, "monthly draft limit reached").
			With("used", used).With("limit", s.plan.MonthlyDraftLimit)
	}
	return nil
}

func (s *DraftService) permalink(title string) string {
	if s.siteBase == "" {
		return ""
	}
	return s.siteBase + "/" + Slugify(title)
}

// metaTitle trims the title to 60 runes on a word boundary where possible.
func metaTitle(title string) string {
	const maxLen = 60
	runes := []rune(title)
	if len(runes) <= maxLen {
		return title
	}
	cut := string(runes[:maxLen])
	if i := strings.LastIndex(cut, " "); i > 0 {
		cut = cut[:i]
	}
	return cut
}

// Slugify lowercases and hyphenates a title for URL use.
func Slugify(title string) string {
	var b strings.Builder
	lastHyphen := true
	for _, r := range strings.ToLower(title) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
			lastHyphen = false
		default:
			if !lastHyphen {
				b.WriteByte('-')
				lastHyphen = true
			}
		}
	}
	return strings.TrimRight(b.String(), "-")
}

// LinkKeywords rewrites content so that, for up to max keywords, the first
// textual occurrence of the keyword becomes a Markdown link to the newest
// published post whose title or body mentions it. Each keyword links at most
// once and the post never links to itself.
func LinkKeywords(content string, keywords []string, published []models.Post, selfID primitive.ObjectID, max int) (string, int) {
	if max <= 0 || len(keywords) == 0 || len(published) == 0 {
		return content, 0
	}
	inserted := 0
	for _, kw := range keywords {
		if inserted >= max {
			break
		}
		kw = strings.TrimSpace(kw)
		if kw == "" {
			continue
		}
		kwLower := strings.ToLower(kw)
		target := ""
		for _, p := range published { // sorted newest first
			if p.ID == selfID || p.Permalink == "" {
				continue
			}
			if strings.Contains(strings.ToLower(p.Title), kwLower) ||
				strings.Contains(strings.ToLower(p.Content), kwLower) {
				target = p.Permalink
				break
			}
		}
		if target == "" {
			continue
		}
		start, end := findKeyword(content, kw)
		if start < 0 {
			continue
		}
		content = content[:start] + "[" + content[start:end] + "](" + target + ")" + content[end:]
		inserted++
	}
	return content, inserted
}

// findKeyword locates the first case-insensitive occurrence of kw in content
// and returns byte offsets into the original string. Indexing a lowered copy
// is not safe: case folding can change byte length for non-ASCII runes.
func findKeyword(content, kw string) (int, int) {
	re, err := regexp.Compile(`(?i)` + regexp.QuoteMeta(kw))
	if err != nil {
		return -1, -1
	}
	loc := re.FindStringIndex(content)
	if loc == nil {
		return -1, -1
	}
	return loc[0], loc[1]
}
