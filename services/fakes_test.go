package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"blogforge/gemini"
	"blogforge/images"
	"blogforge/models"
)

// In-memory fakes for the store interfaces. Single-goroutine tests, no locks.

type fakeIdeaStore struct {
	ideas map[primitive.ObjectID]*models.Idea

	failMarkDrafted error
}

func newFakeIdeaStore() *fakeIdeaStore {
	return &fakeIdeaStore{ideas: map[primitive.ObjectID]*models.Idea{}}
}

func (f *fakeIdeaStore) add(title, status string) *models.Idea {
	idea := &models.Idea{
		ID:         primitive.NewObjectID(),
		Title:      title,
		TitleLower: strings.ToLower(title),
		Status:     status,
		Source:     models.IdeaSourceManual,
		CreatedAt:  time.Now(),
	}
	f.ideas[idea.ID] = idea
	return idea
}

func (f *fakeIdeaStore) Insert(ctx context.Context, title, source string) (*models.Idea, error) {
	idea := f.add(title, models.IdeaStatusNew)
	idea.Source = source
	return idea, nil
}

func (f *fakeIdeaStore) FindByID(ctx context.Context, id primitive.ObjectID) (*models.Idea, error) {
	idea, ok := f.ideas[id]
	if !ok {
		return nil, errors.New("not found")
	}
	return idea, nil
}

func (f *fakeIdeaStore) ClaimForDrafting(ctx context.Context, id primitive.ObjectID) (bool, error) {
	idea, ok := f.ideas[id]
	if !ok || idea.Status != models.IdeaStatusNew {
		return false, nil
	}
	idea.Status = models.IdeaStatusDrafting
	return true, nil
}

func (f *fakeIdeaStore) UpdateStatus(ctx context.Context, id primitive.ObjectID, status string) error {
	idea, ok := f.ideas[id]
	if !ok {
		return errors.New("not found")
	}
	idea.Status = status
	return nil
}

func (f *fakeIdeaStore) MarkDrafted(ctx context.Context, id, postID primitive.ObjectID) error {
	if f.failMarkDrafted != nil {
		return f.failMarkDrafted
	}
	idea, ok := f.ideas[id]
	if !ok {
		return errors.New("not found")
	}
	idea.Status = models.IdeaStatusDrafted
	idea.PostID = &postID
	return nil
}

func (f *fakeIdeaStore) List(ctx context.Context, status string) ([]models.Idea, error) {
	var out []models.Idea
	for _, idea := range f.ideas {
		if status == "" || idea.Status == status {
			out = append(out, *idea)
		}
	}
	return out, nil
}

func (f *fakeIdeaStore) ListTitles(ctx context.Context) ([]string, error) {
	var out []string
	for _, idea := range f.ideas {
		out = append(out, idea.Title)
	}
	return out, nil
}

type fakePostStore struct {
	posts     map[primitive.ObjectID]*models.Post
	published []models.Post
}

func newFakePostStore() *fakePostStore {
	return &fakePostStore{posts: map[primitive.ObjectID]*models.Post{}}
}

func (f *fakePostStore) Insert(ctx context.Context, p *models.Post) (primitive.ObjectID, error) {
	p.ID = primitive.NewObjectID()
	f.posts[p.ID] = p
	return p.ID, nil
}

func (f *fakePostStore) FindByID(ctx context.Context, id primitive.ObjectID) (*models.Post, error) {
	p, ok := f.posts[id]
	if !ok {
		return nil, errors.New("not found")
	}
	cp := *p
	return &cp, nil
}

func (f *fakePostStore) UpdateContent(ctx context.Context, id primitive.ObjectID, content string) error {
	f.posts[id].Content = content
	return nil
}

func (f *fakePostStore) SetFocusKeywords(ctx context.Context, id primitive.ObjectID, keywords []string) error {
	f.posts[id].FocusKeywords = keywords
	return nil
}

func (f *fakePostStore) SetFeaturedImage(ctx context.Context, id primitive.ObjectID, ref string) error {
	f.posts[id].FeaturedImageRef = ref
	return nil
}

func (f *fakePostStore) SetEnrichmentFlags(ctx context.Context, id primitive.ObjectID, flags models.EnrichmentFlags) error {
	f.posts[id].Enrichment = flags
	return nil
}

func (f *fakePostStore) ListPublished(ctx context.Context, limit int) ([]models.Post, error) {
	out := f.published
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (f *fakePostStore) ListTitles(ctx context.Context) ([]string, error) {
	var out []string
	for _, p := range f.posts {
		out = append(out, p.Title)
	}
	for _, p := range f.published {
		out = append(out, p.Title)
	}
	return out, nil
}

type fakeStyleStore struct {
	guide *models.StyleGuide
}

func (f *fakeStyleStore) Get(ctx context.Context) (*models.StyleGuide, error) {
	return f.guide, nil
}

func (f *fakeStyleStore) Set(ctx context.Context, g *models.StyleGuide) error {
	f.guide = g
	return nil
}

type fakeCounterStore struct {
	counts map[string]int
}

func newFakeCounterStore() *fakeCounterStore {
	return &fakeCounterStore{counts: map[string]int{}}
}

func (f *fakeCounterStore) Get(ctx context.Context, name string) (int, error) {
	return f.counts[name], nil
}

func (f *fakeCounterStore) Increment(ctx context.Context, name string, n int) error {
	f.counts[name] += n
	return nil
}

type fakeMediaStore struct {
	stored int
}

func (f *fakeMediaStore) Store(data []byte, filename string) (string, error) {
	f.stored++
	return "gridfs:test/" + filename, nil
}

// fakeGateway replays scripted Generate responses and fixed keywords.
type fakeGateway struct {
	responses []string
	failures  []error
	calls     int
	kinds     []string

	keywords []string
	kwErr    error
	kwCalls  int
}

func (f *fakeGateway) Generate(ctx context.Context, req gemini.Request) (*gemini.Result, error) {
	i := f.calls
	f.calls++
	f.kinds = append(f.kinds, req.Kind)
	if i < len(f.failures) && f.failures[i] != nil {
		return nil, f.failures[i]
	}
	text := ""
	if i < len(f.responses) {
		text = f.responses[i]
	}
	return &gemini.Result{Text: text, ModelName: "test-model"}, nil
}

func (f *fakeGateway) ExtractKeywords(ctx context.Context, text string, max int) ([]string, error) {
	f.kwCalls++
	if f.kwErr != nil {
		return nil, f.kwErr
	}
	if len(f.keywords) > max {
		return f.keywords[:max], nil
	}
	return f.keywords, nil
}

type fakeAcquirer struct {
	asset *images.Asset
	err   error
	calls int
}

func (f *fakeAcquirer) Acquire(ctx context.Context, query string) (*images.Asset, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return f.asset, nil
}

func passthroughTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}
