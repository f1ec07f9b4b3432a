package repositories

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"blogforge/models"
)

const styleGuideKey = "default"

type StyleGuideRepository struct {
	col *mongo.Collection
}

func NewStyleGuideRepository(db *mongo.Database) *StyleGuideRepository {
	return &StyleGuideRepository{col: db.Collection("style_guides")}
}

// Get returns the stored guide, or (nil, nil) when the site has never been
// analyzed.
func (r *StyleGuideRepository) Get(ctx context.Context) (*models.StyleGuide, error) {
	var g models.StyleGuide
	err := r.col.FindOne(ctx, bson.M{"key": styleGuideKey}).Decode(&g)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &g, nil
}

// Set overwrites the guide wholesale.
func (r *StyleGuideRepository) Set(ctx context.Context, g *models.StyleGuide) error {
	g.Key = styleGuideKey
	if g.LastAnalyzed.IsZero() {
		g.LastAnalyzed = time.Now()
	}
	opts := options.Replace().SetUpsert(true)
	_, err := r.col.ReplaceOne(ctx, bson.M{"key": styleGuideKey}, g, opts)
	return err
}
