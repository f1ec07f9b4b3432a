package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"blogforge/config"
	"blogforge/errs"
	"blogforge/images"
	"blogforge/models"
)

func testAppConfig() config.AppConfig {
	return config.AppConfig{
		Plan: freePlan(30, 10),
		Site: config.SiteConfig{BaseURL: "https://example.com"},
		Enrichment: config.EnrichmentConfig{
			MaxInternalLinks: 3,
			FocusKeywords:    5,
		},
	}
}

type draftFixture struct {
	ideas    *fakeIdeaStore
	posts    *fakePostStore
	styles   *fakeStyleStore
	counters *fakeCounterStore
	media    *fakeMediaStore
	gw       *fakeGateway
	acquirer *fakeAcquirer
	svc      *DraftService
}

func newDraftFixture(cfg config.AppConfig) *draftFixture {
	f := &draftFixture{
		ideas:    newFakeIdeaStore(),
		posts:    newFakePostStore(),
		styles:   &fakeStyleStore{guide: testGuide()},
		counters: newFakeCounterStore(),
		media:    &fakeMediaStore{},
		gw:       &fakeGateway{},
		acquirer: &fakeAcquirer{asset: &images.Asset{Data: []byte("img"), MIME: "image/jpeg", Filename: "featured.jpg"}},
	}
	f.svc = NewDraftService(f.ideas, f.posts, f.styles, f.counters, f.media,
		f.gw, f.acquirer, nil, passthroughTx, cfg)
	return f
}

const draftJSON = `{
	"postContent": "# Intro\n\nGo testing is worth learning properly.",
	"tags": ["go", "testing"],
	"metaDescription": "Why Go testing pays off.",
	"sources": ["https://go.dev/doc", "https://example.org/ref"]
}`

func TestCreateDraftHappyPath(t *testing.T) {
	f := newDraftFixture(testAppConfig())
	f.gw.responses = []string{draftJSON}
	f.gw.keywords = []string{"go testing"}
	idea := f.ideas.add("A Practical Guide to Go Testing", models.IdeaStatusNew)

	post, err := f.svc.CreateDraft(context.Background(), idea.ID)
	assert.NoError(t, err)

	assert.Equal(t, models.PostStatusDraft, post.Status)
	assert.Equal(t, idea.Title, post.Title)
	assert.Equal(t, "Why Go testing pays off.", post.MetaDescription)
	assert.Equal(t, "https://example.com/a-practical-guide-to-go-testing", post.Permalink)
	assert.Equal(t, "test-model", post.ModelName)

	// Idea moved to drafted and linked to the post.
	assert.Equal(t, models.IdeaStatusDrafted, f.ideas.ideas[idea.ID].Status)
	assert.Equal(t, post.ID, *f.ideas.ideas[idea.ID].PostID)

	// Quota counted once.
	assert.Equal(t, 1, f.counters.counts[models.CounterDrafts])

	// Inline enrichment ran: sources appendix, image stored and referenced.
	stored, _ := f.posts.FindByID(context.Background(), post.ID)
	assert.Contains(t, stored.Content, "## Sources")
	assert.Contains(t, stored.Content, "https://go.dev/doc")
	assert.Equal(t, "gridfs:test/featured.jpg", stored.FeaturedImageRef)
	assert.True(t, stored.Enrichment.SourcesAppended)
	assert.True(t, stored.Enrichment.LinksInserted)
	assert.True(t, stored.Enrichment.ImageAttached)
}

func TestCreateDraftReturnsEnrichedPost(t *testing.T) {
	f := newDraftFixture(testAppConfig())
	f.gw.responses = []string{draftJSON}
	idea := f.ideas.add("A Practical Guide to Go Testing", models.IdeaStatusNew)

	// With no bus configured enrichment runs inline; the returned post must
	// reflect it, not the pre-enrichment insert.
	post, err := f.svc.CreateDraft(context.Background(), idea.ID)
	assert.NoError(t, err)

	assert.Contains(t, post.Content, "## Sources")
	assert.Equal(t, "gridfs:test/featured.jpg", post.FeaturedImageRef)
	assert.True(t, post.Enrichment.SourcesAppended)
	assert.True(t, post.Enrichment.ImageAttached)
}

func TestCreateDraftMetaTitleCapped(t *testing.T) {
	f := newDraftFixture(testAppConfig())
	f.gw.responses = []string{draftJSON}
	long := "A Very Long Title That Keeps Going and Going Far Beyond Any Reasonable Search Snippet Length"
	idea := f.ideas.add(long, models.IdeaStatusNew)

	post, err := f.svc.CreateDraft(context.Background(), idea.ID)
	assert.NoError(t, err)
	assert.LessOrEqual(t, len([]rune(post.MetaTitle)), 60)
	assert.True(t, strings.HasPrefix(long, post.MetaTitle))
}

func TestCreateDraftRequiresStyleGuide(t *testing.T) {
	f := newDraftFixture(testAppConfig())
	f.styles.guide = nil
	idea := f.ideas.add("Anything", models.IdeaStatusNew)

	_, err := f.svc.CreateDraft(context.Background(), idea.ID)
	assert.Equal(t, errs.StyleGuideRequired, errs.KindOf(err))
	assert.Equal(t, 0, f.gw.calls)
	// The idea was never claimed.
	assert.Equal(t, models.IdeaStatusNew, f.ideas.ideas[idea.ID].Status)
}

func TestCreateDraftQuotaExceeded(t *testing.T) {
	f := newDraftFixture(testAppConfig())
	f.counters.counts[models.CounterDrafts] = 10
	idea := f.ideas.add("Anything", models.IdeaStatusNew)

	_, err := f.svc.CreateDraft(context.Background(), idea.ID)
	assert.Equal(t, errs.QuotaExceeded, errs.KindOf(err))
	assert.Equal(t, 0, f.gw.calls)
}

func TestCreateDraftAlreadyClaimed(t *testing.T) {
	f := newDraftFixture(testAppConfig())
	idea := f.ideas.add("Contested Idea", models.IdeaStatusDrafting)

	_, err := f.svc.CreateDraft(context.Background(), idea.ID)
	assert.Equal(t, errs.AlreadyClaimed, errs.KindOf(err))
	assert.Equal(t, 0, f.gw.calls)
}

func TestCreateDraftReleasesClaimOnGenerationFailure(t *testing.T) {
	f := newDraftFixture(testAppConfig())
	f.gw.failures = []error{errs.New(errs.AIUnavailable, "model overloaded")}
	idea := f.ideas.add("Doomed Idea", models.IdeaStatusNew)

	_, err := f.svc.CreateDraft(context.Background(), idea.ID)
	assert.Equal(t, errs.AIUnavailable, errs.KindOf(err))
	// The claim was released so the idea can be retried.
	assert.Equal(t, models.IdeaStatusNew, f.ideas.ideas[idea.ID].Status)
}

func TestCreateDraftTransactionFailureReleasesClaim(t *testing.T) {
	f := newDraftFixture(testAppConfig())
	f.gw.responses = []string{draftJSON}
	f.ideas.failMarkDrafted = errors.New("write conflict")
	idea := f.ideas.add("Unlucky Idea", models.IdeaStatusNew)

	_, err := f.svc.CreateDraft(context.Background(), idea.ID)
	assert.Equal(t, errs.TransactionFailed, errs.KindOf(err))
	assert.Equal(t, models.IdeaStatusNew, f.ideas.ideas[idea.ID].Status)
	assert.Equal(t, 0, f.counters.counts[models.CounterDrafts])
}

func TestCreateDraftEmptyContentFails(t *testing.T) {
	f := newDraftFixture(testAppConfig())
	f.gw.responses = []string{`{"postContent": ""}`}
	idea := f.ideas.add("Hollow Idea", models.IdeaStatusNew)

	_, err := f.svc.CreateDraft(context.Background(), idea.ID)
	assert.Equal(t, errs.ContentGenerationFailed, errs.KindOf(err))
	assert.Equal(t, models.IdeaStatusNew, f.ideas.ideas[idea.ID].Status)
}

func TestEnrichDraftImageFailureIsNonFatal(t *testing.T) {
	f := newDraftFixture(testAppConfig())
	f.gw.responses = []string{draftJSON}
	f.acquirer.err = errs.New(errs.NoImageFound, "no results")
	idea := f.ideas.add("Pictureless Idea", models.IdeaStatusNew)

	post, err := f.svc.CreateDraft(context.Background(), idea.ID)
	assert.NoError(t, err)

	stored, _ := f.posts.FindByID(context.Background(), post.ID)
	assert.Empty(t, stored.FeaturedImageRef)
	assert.False(t, stored.Enrichment.ImageAttached)
	// The other steps still ran.
	assert.True(t, stored.Enrichment.SourcesAppended)
}

func TestEnrichDraftIsIdempotent(t *testing.T) {
	f := newDraftFixture(testAppConfig())
	f.gw.responses = []string{draftJSON}
	f.gw.keywords = []string{"go"}
	idea := f.ideas.add("Stable Idea", models.IdeaStatusNew)

	post, err := f.svc.CreateDraft(context.Background(), idea.ID)
	assert.NoError(t, err)

	first, _ := f.posts.FindByID(context.Background(), post.ID)
	kwCalls, stored := f.gw.kwCalls, f.media.stored

	// Re-running changes nothing: flags short-circuit every completed step.
	assert.NoError(t, f.svc.EnrichDraft(context.Background(), post.ID))
	second, _ := f.posts.FindByID(context.Background(), post.ID)

	assert.Equal(t, first.Content, second.Content)
	assert.Equal(t, kwCalls, f.gw.kwCalls)
	assert.Equal(t, stored, f.media.stored)
	assert.Equal(t, 1, strings.Count(second.Content, "## Sources"))
}

func TestProPlanRunsPlagiarismAndDataSection(t *testing.T) {
	cfg := testAppConfig()
	cfg.Plan.Tier = "pro"
	f := newDraftFixture(cfg)
	f.gw.responses = []string{
		draftJSON,
		"No suspect passages found.", // plagiarism verdict
		"## Key Statistics\n\n- 87% of teams run tests in CI (JetBrains survey 2024)",
	}
	idea := f.ideas.add("Pro Feature Idea", models.IdeaStatusNew)

	post, err := f.svc.CreateDraft(context.Background(), idea.ID)
	assert.NoError(t, err)

	stored, _ := f.posts.FindByID(context.Background(), post.ID)
	assert.Contains(t, stored.Content, "## Key Statistics")
	assert.True(t, stored.Enrichment.DataSection)
	assert.Contains(t, f.gw.kinds, models.AILogKindPlagiarism)
	assert.Contains(t, f.gw.kinds, models.AILogKindData)
}

func TestLinkKeywordsCapAndTieBreak(t *testing.T) {
	self := primitive.NewObjectID()
	// Newest first, the order ListPublished returns.
	published := []models.Post{
		{ID: primitive.NewObjectID(), Title: "Modern Go Testing Patterns", Permalink: "https://example.com/new-testing"},
		{ID: primitive.NewObjectID(), Title: "Go Testing Basics", Permalink: "https://example.com/old-testing"},
		{ID: primitive.NewObjectID(), Title: "Docker Compose Deep Dive", Permalink: "https://example.com/compose"},
		{ID: primitive.NewObjectID(), Title: "Kubernetes Operators", Permalink: "https://example.com/operators"},
		{ID: primitive.NewObjectID(), Title: "Redis Caching Strategies", Permalink: "https://example.com/redis"},
	}
	keywords := []string{"go testing", "docker compose", "kubernetes", "redis", "terraform"}
	content := "We cover go testing here. Later, go testing again, then docker compose, " +
		"kubernetes and redis round out the stack."

	linked, n := LinkKeywords(content, keywords, published, self, 3)

	// Capped at 3 even though 4 keywords have matching posts.
	assert.Equal(t, 3, n)
	// Tie-break: two posts mention "go testing"; the newer one wins.
	assert.Contains(t, linked, "[go testing](https://example.com/new-testing)")
	assert.NotContains(t, linked, "old-testing")
	// Only the first occurrence of a keyword is linked.
	assert.Equal(t, 1, strings.Count(linked, "](https://example.com/new-testing)"))
	// The cap stopped before redis.
	assert.NotContains(t, linked, "https://example.com/redis")
}

func TestLinkKeywordsMatchesPostBody(t *testing.T) {
	self := primitive.NewObjectID()
	// The keyword never appears in a title, only in a post body.
	published := []models.Post{
		{
			ID:        primitive.NewObjectID(),
			Title:     "Shipping a Side Project",
			Content:   "We leaned hard on table-driven tests and go testing conventions.",
			Permalink: "https://example.com/side-project",
		},
	}
	linked, n := LinkKeywords("Our go testing setup evolved.", []string{"go testing"}, published, self, 3)
	assert.Equal(t, 1, n)
	assert.Contains(t, linked, "[go testing](https://example.com/side-project)")
}

func TestLinkKeywordsPreservesMultibyteContent(t *testing.T) {
	self := primitive.NewObjectID()
	published := []models.Post{
		{ID: primitive.NewObjectID(), Title: "Go Testing Basics", Permalink: "https://example.com/basics"},
	}
	// The dotted capital İ folds to two runes in lowercase, so offsets taken
	// from a lowered copy would splice the wrong bytes here.
	content := "İstanbul meetup notes: go testing tips."

	linked, n := LinkKeywords(content, []string{"go testing"}, published, self, 3)
	assert.Equal(t, 1, n)
	assert.Equal(t, "İstanbul meetup notes: [go testing](https://example.com/basics) tips.", linked)
}

func TestLinkKeywordsSkipsSelf(t *testing.T) {
	self := primitive.NewObjectID()
	published := []models.Post{
		{ID: self, Title: "Go Testing Guide", Permalink: "https://example.com/self"},
	}
	linked, n := LinkKeywords("All about go testing.", []string{"go testing"}, published, self, 3)
	assert.Equal(t, 0, n)
	assert.NotContains(t, linked, "example.com/self")
}

func TestSlugify(t *testing.T) {
	cases := map[string]string{
		"A Practical Guide to Go Testing": "a-practical-guide-to-go-testing",
		"What's New in Go 1.25?":          "what-s-new-in-go-1-25",
		"  Spaces   Everywhere  ":         "spaces-everywhere",
	}
	for in, want := range cases {
		assert.Equal(t, want, Slugify(in), fmt.Sprintf("input %q", in))
	}
}
