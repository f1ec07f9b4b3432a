package repositories

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type UsageCounterRepository struct {
	col *mongo.Collection
}

func NewUsageCounterRepository(db *mongo.Database) *UsageCounterRepository {
	return &UsageCounterRepository{col: db.Collection("usage_counters")}
}

// monthKey matches the quota scope: one counter per UTC calendar month.
func monthKey(t time.Time) string {
	return t.UTC().Format("2006-01")
}

// Get returns the current month's count for name, 0 when absent.
func (r *UsageCounterRepository) Get(ctx context.Context, name string) (int, error) {
	var doc struct {
		Count int `bson:"count"`
	}
	err := r.col.FindOne(ctx, bson.M{"name": name, "month": monthKey(time.Now())}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	return doc.Count, nil
}

// Increment adds n to the current month's counter, creating it on first use.
func (r *UsageCounterRepository) Increment(ctx context.Context, name string, n int) error {
	_, err := r.col.UpdateOne(ctx,
		bson.M{"name": name, "month": monthKey(time.Now())},
		bson.M{"$inc": bson.M{"count": n}},
		options.Update().SetUpsert(true),
	)
	return err
}
