package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Idea statuses. Archived ideas stay in the collection (soft delete) so the
// dedup exclusion list keeps seeing their titles.
const (
	IdeaStatusNew      = "new"
	IdeaStatusDrafting = "drafting" // claimed by a running draft pipeline
	IdeaStatusDrafted  = "drafted"
	IdeaStatusRejected = "rejected"
	IdeaStatusArchived = "archived"
)

// Idea sources.
const (
	IdeaSourceAI            = "ai"
	IdeaSourceManual        = "manual"
	IdeaSourceSimilar       = "similar"
	IdeaSourceSearchConsole = "search-console"
)

// Idea is a candidate post title awaiting draft creation.
// Collection: ideas. TitleLower backs the unique case-insensitive index.
type Idea struct {
	ID         primitive.ObjectID  `bson:"_id,omitempty" json:"id"`
	Title      string              `bson:"title" json:"title"`
	TitleLower string              `bson:"title_lower" json:"-"`
	Status     string              `bson:"status" json:"status"`
	Source     string              `bson:"source" json:"source"`
	PostID     *primitive.ObjectID `bson:"post_id,omitempty" json:"post_id,omitempty"`
	CreatedAt  time.Time           `bson:"created_at" json:"created_at"`
	UpdatedAt  time.Time           `bson:"updated_at" json:"updated_at"`
}
