package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	PostStatusDraft     = "draft"
	PostStatusPublished = "published"
)

// EnrichmentFlags tracks which best-effort enrichment steps have run, so a
// repair re-invocation skips work that already succeeded.
type EnrichmentFlags struct {
	SourcesAppended bool `bson:"sources_appended" json:"sources_appended"`
	LinksInserted   bool `bson:"links_inserted" json:"links_inserted"`
	ImageAttached   bool `bson:"image_attached" json:"image_attached"`
	DataSection     bool `bson:"data_section" json:"data_section"`
}

// Post is a generated draft (or published post).
// Collection: posts
type Post struct {
	ID               primitive.ObjectID  `bson:"_id,omitempty" json:"id"`
	IdeaID           primitive.ObjectID  `bson:"idea_id" json:"idea_id"`
	Title            string              `bson:"title" json:"title"`
	Content          string              `bson:"content" json:"content"`
	MetaTitle        string              `bson:"meta_title" json:"meta_title"`
	MetaDescription  string              `bson:"meta_description" json:"meta_description"`
	FocusKeywords    []string            `bson:"focus_keywords" json:"focus_keywords"`
	Sources          []string            `bson:"sources" json:"sources"`
	FeaturedImageRef string              `bson:"featured_image_ref" json:"featured_image_ref"`
	Permalink        string              `bson:"permalink" json:"permalink"`
	Status           string              `bson:"status" json:"status"`
	Enrichment       EnrichmentFlags     `bson:"enrichment" json:"enrichment"`
	ModelName        string              `bson:"model_name" json:"model_name"`
	CreatedAt        time.Time           `bson:"created_at" json:"created_at"`
	UpdatedAt        time.Time           `bson:"updated_at" json:"updated_at"`
	PublishedAt      *time.Time          `bson:"published_at,omitempty" json:"published_at,omitempty"`
	ScheduledFor     *time.Time          `bson:"scheduled_for,omitempty" json:"scheduled_for,omitempty"`
}
