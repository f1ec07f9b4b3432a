package repositories

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"blogforge/models"
)

type PostRepository struct {
	col *mongo.Collection
}

func NewPostRepository(db *mongo.Database) *PostRepository {
	return &PostRepository{col: db.Collection("posts")}
}

func (r *PostRepository) Insert(ctx context.Context, p *models.Post) (primitive.ObjectID, error) {
	now := time.Now()
	if p.CreatedAt.IsZero() {
		p.CreatedAt = now
	}
	p.UpdatedAt = now
	if p.Status == "" {
		p.Status = models.PostStatusDraft
	}
	res, err := r.col.InsertOne(ctx, p)
	if err != nil {
		return primitive.NilObjectID, err
	}
	id := res.InsertedID.(primitive.ObjectID)
	p.ID = id
	return id, nil
}

func (r *PostRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*models.Post, error) {
	var p models.Post
	if err := r.col.FindOne(ctx, bson.M{"_id": id}).Decode(&p); err != nil {
		return nil, err
	}
	return &p, nil
}

// UpdateFields sets arbitrary fields plus updated_at.
func (r *PostRepository) UpdateFields(ctx context.Context, id primitive.ObjectID, fields bson.M) error {
	fields["updated_at"] = time.Now()
	_, err := r.col.UpdateByID(ctx, id, bson.M{"$set": fields})
	return err
}

// UpdateContent replaces the post body (enrichment rewrites it in place).
func (r *PostRepository) UpdateContent(ctx context.Context, id primitive.ObjectID, content string) error {
	return r.UpdateFields(ctx, id, bson.M{"content": content})
}

// SetEnrichmentFlags persists which enrichment steps have completed.
func (r *PostRepository) SetEnrichmentFlags(ctx context.Context, id primitive.ObjectID, flags models.EnrichmentFlags) error {
	return r.UpdateFields(ctx, id, bson.M{"enrichment": flags})
}

// SetFocusKeywords saves the extracted SEO keywords.
func (r *PostRepository) SetFocusKeywords(ctx context.Context, id primitive.ObjectID, keywords []string) error {
	return r.UpdateFields(ctx, id, bson.M{"focus_keywords": keywords})
}

// SetFeaturedImage saves the media-sink reference of the accepted image.
func (r *PostRepository) SetFeaturedImage(ctx context.Context, id primitive.ObjectID, ref string) error {
	return r.UpdateFields(ctx, id, bson.M{"featured_image_ref": ref})
}

// Publish moves a draft to published now.
func (r *PostRepository) Publish(ctx context.Context, id primitive.ObjectID) error {
	now := time.Now()
	return r.UpdateFields(ctx, id, bson.M{
		"status":       models.PostStatusPublished,
		"published_at": now,
	})
}

// Schedule records a future publish time; a caller-side scheduler acts on it.
func (r *PostRepository) Schedule(ctx context.Context, id primitive.ObjectID, at time.Time) error {
	return r.UpdateFields(ctx, id, bson.M{"scheduled_for": at})
}

// ListPublished returns published posts, most recently published first. This
// order is the internal-link tie-break: when several posts match a keyword the
// newest one wins.
func (r *PostRepository) ListPublished(ctx context.Context, limit int) ([]models.Post, error) {
	opts := options.Find().SetSort(bson.D{{Key: "published_at", Value: -1}})
	if limit > 0 {
		opts = opts.SetLimit(int64(limit))
	}
	cur, err := r.col.Find(ctx, bson.M{"status": models.PostStatusPublished}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var out []models.Post
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// List returns posts filtered by status (all when empty), newest first.
func (r *PostRepository) List(ctx context.Context, status string, limit int) ([]models.Post, error) {
	filter := bson.M{}
	if status != "" {
		filter["status"] = status
	}
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	if limit > 0 {
		opts = opts.SetLimit(int64(limit))
	}
	cur, err := r.col.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var out []models.Post
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// ListTitles returns every post title for idea dedup.
func (r *PostRepository) ListTitles(ctx context.Context) ([]string, error) {
	cur, err := r.col.Find(ctx, bson.M{},
		options.Find().SetProjection(bson.M{"title": 1}))
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var titles []string
	for cur.Next(ctx) {
		var doc struct {
			Title string `bson:"title"`
		}
		if err := cur.Decode(&doc); err != nil {
			return nil, err
		}
		titles = append(titles, doc.Title)
	}
	return titles, cur.Err()
}
