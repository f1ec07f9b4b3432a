package services

import (
	"context"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"blogforge/gemini"
	"blogforge/images"
	"blogforge/models"
)

// The services depend on narrow store interfaces so tests can run against
// in-memory fakes. The repositories package provides the Mongo-backed
// implementations.

type IdeaStore interface {
	Insert(ctx context.Context, title, source string) (*models.Idea, error)
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.Idea, error)
	ClaimForDrafting(ctx context.Context, id primitive.ObjectID) (bool, error)
	UpdateStatus(ctx context.Context, id primitive.ObjectID, status string) error
	MarkDrafted(ctx context.Context, id, postID primitive.ObjectID) error
	List(ctx context.Context, status string) ([]models.Idea, error)
	ListTitles(ctx context.Context) ([]string, error)
}

type PostStore interface {
	Insert(ctx context.Context, p *models.Post) (primitive.ObjectID, error)
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.Post, error)
	UpdateContent(ctx context.Context, id primitive.ObjectID, content string) error
	SetFocusKeywords(ctx context.Context, id primitive.ObjectID, keywords []string) error
	SetFeaturedImage(ctx context.Context, id primitive.ObjectID, ref string) error
	SetEnrichmentFlags(ctx context.Context, id primitive.ObjectID, flags models.EnrichmentFlags) error
	ListPublished(ctx context.Context, limit int) ([]models.Post, error)
	ListTitles(ctx context.Context) ([]string, error)
}

type StyleGuideStore interface {
	Get(ctx context.Context) (*models.StyleGuide, error)
	Set(ctx context.Context, g *models.StyleGuide) error
}

type UsageCounterStore interface {
	Get(ctx context.Context, name string) (int, error)
	Increment(ctx context.Context, name string, n int) error
}

type MediaStore interface {
	Store(data []byte, filename string) (string, error)
}

// AIGateway is what the services need from the Gemini client.
type AIGateway interface {
	Generate(ctx context.Context, req gemini.Request) (*gemini.Result, error)
	ExtractKeywords(ctx context.Context, text string, max int) ([]string, error)
}

// ImageAcquirer finds one featured image for a query.
type ImageAcquirer interface {
	Acquire(ctx context.Context, query string) (*images.Asset, error)
}

// TxRunner runs fn inside a Mongo transaction; db.WithTransaction in
// production, a passthrough in tests.
type TxRunner func(ctx context.Context, fn func(ctx context.Context) error) error
