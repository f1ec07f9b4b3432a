package services

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"google.golang.org/genai"

	"blogforge/config"
	"blogforge/errs"
	"blogforge/gemini"
	"blogforge/models"
	"blogforge/parser"
	"blogforge/searchconsole"
)

var titleListSchema = &genai.Schema{
	Type: genai.TypeArray,
	Items: &genai.Schema{
		Type: genai.TypeString,
	},
}

const ideaInstruction = `You are an editorial planner for a blog. Propose post titles that fit
the site's voice and do not overlap with anything already written. Return only the title list.`

// IdeaService generates and manages candidate post titles.
type IdeaService struct {
	ideas    IdeaStore
	posts    PostStore
	styles   StyleGuideStore
	counters UsageCounterStore
	ai       AIGateway
	plan     config.PlanConfig
}

func NewIdeaService(ideas IdeaStore, posts PostStore, styles StyleGuideStore,
	counters UsageCounterStore, ai AIGateway, plan config.PlanConfig) *IdeaService {
	return &IdeaService{
		ideas:    ideas,
		posts:    posts,
		styles:   styles,
		counters: counters,
		ai:       ai,
		plan:     plan,
	}
}

// GenerateIdeas asks the model for count new titles, dedups them against
// every existing idea and post title (case-insensitive, and within the batch)
// and stores the survivors. Fewer than count results, or none at all, is a
// valid outcome. scCtx, when present, steers the prompt toward real search
// demand.
func (s *IdeaService) GenerateIdeas(ctx context.Context, count int, scCtx *searchconsole.Context) ([]models.Idea, error) {
	guide, err := s.requireStyleGuide(ctx)
	if err != nil {
		return nil, err
	}
	if err := s.checkQuota(ctx, models.CounterIdeas, s.plan.MonthlyIdeaLimit); err != nil {
		return nil, err
	}
	if count <= 0 {
		count = 5
	}

	existing, err := s.existingTitleSet(ctx)
	if err != nil {
		return nil, err
	}

	res, err := s.ai.Generate(ctx, gemini.Request{
		Prompt:            ideaPrompt(count, existing, scCtx),
		SystemInstruction: guide.Prompt() + "\n\n" + ideaInstruction,
		Schema:            titleListSchema,
		Kind:              models.AILogKindIdeas,
	})
	if err != nil {
		return nil, err
	}

	var titles []string
	if err := json.Unmarshal([]byte(parser.StripFences(res.Text)), &titles); err != nil {
		return nil, errs.Wrap(errs.ContentGenerationFailed, "idea response is not a JSON array", err)
	}

	source := models.IdeaSourceAI
	if scCtx != nil {
		source = models.IdeaSourceSearchConsole
	}
	inserted := s.insertNew(ctx, titles, existing, source, count)

	if !s.plan.IsPro() && len(inserted) > 0 {
		if err := s.counters.Increment(ctx, models.CounterIdeas, len(inserted)); err != nil {
			config.Logger.Errorf("failed to increment idea counter: %v", err)
		}
	}
	return inserted, nil
}

// GenerateSimilarIdeas proposes at most 3 variations on baseTitle, distinct
// from it and from everything already stored.
func (s *IdeaService) GenerateSimilarIdeas(ctx context.Context, baseTitle string) ([]models.Idea, error) {
	guide, err := s.requireStyleGuide(ctx)
	if err != nil {
		return nil, err
	}
	if err := s.checkQuota(ctx, models.CounterIdeas, s.plan.MonthlyIdeaLimit); err != nil {
		return nil, err
	}

	existing, err := s.existingTitleSet(ctx)
	if err != nil {
		return nil, err
	}
	existing[strings.ToLower(strings.TrimSpace(baseTitle))] = struct{}{}

	prompt := fmt.Sprintf(
		"Propose 3 blog post titles closely related to, but distinct from:\n%q\n\n%s",
		baseTitle, exclusionBlock(existing))
	res, err := s.ai.Generate(ctx, gemini.Request{
		Prompt:            prompt,
		SystemInstruction: guide.Prompt() + "\n\n" + ideaInstruction,
		Schema:            titleListSchema,
		Kind:              models.AILogKindIdeas,
	})
	if err != nil {
		return nil, err
	}

	var titles []string
	if err := json.Unmarshal([]byte(parser.StripFences(res.Text)), &titles); err != nil {
		return nil, errs.Wrap(errs.ContentGenerationFailed, "idea response is not a JSON array", err)
	}

	inserted := s.insertNew(ctx, titles, existing, models.IdeaSourceSimilar, 3)

	if !s.plan.IsPro() && len(inserted) > 0 {
		if err := s.counters.Increment(ctx, models.CounterIdeas, len(inserted)); err != nil {
			config.Logger.Errorf("failed to increment idea counter: %v", err)
		}
	}
	return inserted, nil
}

// AddManualIdea stores a user-supplied title, subject to the same dedup.
func (s *IdeaService) AddManualIdea(ctx context.Context, title string) (*models.Idea, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, errs.New(errs.ContentGenerationFailed, "empty title")
	}
	idea, err := s.ideas.Insert(ctx, title, models.IdeaSourceManual)
	if mongo.IsDuplicateKeyError(err) {
		return nil, errs.New(errs.AlreadyClaimed, "an idea with this title already exists")
	}
	if err != nil {
		return nil, err
	}
	return idea, nil
}

// ArchiveIdea soft-deletes: the document stays so its title keeps feeding the
// dedup exclusion list.
func (s *IdeaService) ArchiveIdea(ctx context.Context, id primitive.ObjectID) error {
	return s.ideas.UpdateStatus(ctx, id, models.IdeaStatusArchived)
}

func (s *IdeaService) RejectIdea(ctx context.Context, id primitive.ObjectID) error {
	return s.ideas.UpdateStatus(ctx, id, models.IdeaStatusRejected)
}

func (s *IdeaService) ListIdeas(ctx context.Context, status string) ([]models.Idea, error) {
	return s.ideas.List(ctx, status)
}

func (s *IdeaService) requireStyleGuide(ctx context.Context) (*models.StyleGuide, error) {
	guide, err := s.styles.Get(ctx)
	if err != nil {
		return nil, err
	}
	if guide == nil {
		return nil, errs.New(errs.StyleGuideRequired, "analyze the site before generating")
	}
	return guide, nil
}

func (s *IdeaService) checkQuota(ctx context.Context, counter string, limit int) error {
	if s.plan.IsPro() || limit <= 0 {
		return nil
	}
	used, err := s.counters.Get(ctx, counter)
	if err != nil {
		return err
	}
	if used >= limit {
		return errs.New(errs.QuotaExceeded, "monthly limit reached").
			With("counter", counter).With("used", used).With("limit", limit)
	}
	return nil
}

func (s *IdeaService) existingTitleSet(ctx context.Context) (map[string]struct{}, error) {
	set := map[string]struct{}{}
	ideaTitles, err := s.ideas.ListTitles(ctx)
	if err != nil {
		return nil, err
	}
	postTitles, err := s.posts.ListTitles(ctx)
	if err != nil {
		return nil, err
	}
	for _, t := range ideaTitles {
		set[strings.ToLower(strings.TrimSpace(t))] = struct{}{}
	}
	for _, t := range postTitles {
		set[strings.ToLower(strings.TrimSpace(t))] = struct{}{}
	}
	return set, nil
}

// insertNew filters the model's titles through the exclusion set and the
// batch itself, inserting at most max survivors. A duplicate-key race on
// insert just drops that title.
func (s *IdeaService) insertNew(ctx context.Context, titles []string, existing map[string]struct{}, source string, max int) []models.Idea {
	var inserted []models.Idea
	for _, title := range titles {
		title = strings.TrimSpace(title)
		if title == "" {
			continue
		}
		key := strings.ToLower(title)
		if _, dup := existing[key]; dup {
			continue
		}
		idea, err := s.ideas.Insert(ctx, title, source)
		if mongo.IsDuplicateKeyError(err) {
			continue
		}
		if err != nil {
			config.Logger.Errorf("failed to insert idea %q: %v", title, err)
			continue
		}
		existing[key] = struct{}{}
		inserted = append(inserted, *idea)
		if max > 0 && len(inserted) >= max {
			break
		}
	}
	return inserted
}

func ideaPrompt(count int, existing map[string]struct{}, scCtx *searchconsole.Context) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Propose %d new blog post titles.\n\n", count)
	if scCtx != nil {
		if len(scCtx.TopQueries) > 0 {
			b.WriteString("Search queries the site already ranks for:\n")
			for _, q := range scCtx.TopQueries {
				fmt.Fprintf(&b, "- %s (position %.1f, %d impressions)\n",
					q.Query, q.Position, int(q.Impressions))
			}
			b.WriteString("\n")
		}
		if len(scCtx.UnderperformingPages) > 0 {
			b.WriteString("Pages ranking below page one that fresh content could support:\n")
			for _, p := range scCtx.UnderperformingPages {
				fmt.Fprintf(&b, "- %s (position %.1f)\n", p.Page, p.Position)
			}
			b.WriteString("\n")
		}
	}
	b.WriteString(exclusionBlock(existing))
	return b.String()
}

func exclusionBlock(existing map[string]struct{}) string {
	if len(existing) == 0 {
		return ""
	}
	var b strings.Builder
	b.WriteString("Do not propose any of these existing titles, or close variants:\n")
	for t := range existing {
		b.WriteString("- " + t + "\n")
	}
	return b.String()
}
