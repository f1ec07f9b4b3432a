package repositories

import (
	"context"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"blogforge/models"
)

type IdeaRepository struct {
	col *mongo.Collection
}

func NewIdeaRepository(db *mongo.Database) *IdeaRepository {
	return &IdeaRepository{col: db.Collection("ideas")}
}

// Insert stores a new idea. The unique title_lower index rejects duplicates
// that raced past the service-level dedup.
func (r *IdeaRepository) Insert(ctx context.Context, title, source string) (*models.Idea, error) {
	now := time.Now()
	idea := &models.Idea{
		Title:      title,
		TitleLower: strings.ToLower(title),
		Status:     models.IdeaStatusNew,
		Source:     source,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	res, err := r.col.InsertOne(ctx, idea)
	if err != nil {
		return nil, err
	}
	idea.ID = res.InsertedID.(primitive.ObjectID)
	return idea, nil
}

func (r *IdeaRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*models.Idea, error) {
	var idea models.Idea
	if err := r.col.FindOne(ctx, bson.M{"_id": id}).Decode(&idea); err != nil {
		return nil, err
	}
	return &idea, nil
}

// ClaimForDrafting flips status new -> drafting only when the idea is still
// new. Returns false when another caller holds the claim or the status moved
// on; the caller distinguishes not-found via FindByID.
func (r *IdeaRepository) ClaimForDrafting(ctx context.Context, id primitive.ObjectID) (bool, error) {
	res, err := r.col.UpdateOne(ctx,
		bson.M{"_id": id, "status": models.IdeaStatusNew},
		bson.M{"$set": bson.M{"status": models.IdeaStatusDrafting, "updated_at": time.Now()}},
	)
	if err != nil {
		return false, err
	}
	return res.ModifiedCount == 1, nil
}

// UpdateStatus sets the status unconditionally (claim release, archive, reject).
func (r *IdeaRepository) UpdateStatus(ctx context.Context, id primitive.ObjectID, status string) error {
	_, err := r.col.UpdateByID(ctx, id, bson.M{
		"$set": bson.M{"status": status, "updated_at": time.Now()},
	})
	return err
}

// MarkDrafted links the idea to its post and moves it to drafted. Runs inside
// the draft-creation transaction.
func (r *IdeaRepository) MarkDrafted(ctx context.Context, id, postID primitive.ObjectID) error {
	res, err := r.col.UpdateByID(ctx, id, bson.M{
		"$set": bson.M{
			"status":     models.IdeaStatusDrafted,
			"post_id":    postID,
			"updated_at": time.Now(),
		},
	})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}

// List returns ideas, optionally filtered by status, newest first.
func (r *IdeaRepository) List(ctx context.Context, status string) ([]models.Idea, error) {
	filter := bson.M{}
	if status != "" {
		filter["status"] = status
	}
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cur, err := r.col.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var out []models.Idea
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// ListTitles returns every idea title, all statuses, for dedup.
func (r *IdeaRepository) ListTitles(ctx context.Context) ([]string, error) {
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
