package repositories

import (
	"bytes"
	"fmt"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/gridfs"
)

// MediaRepository stores accepted featured images in GridFS and hands back a
// reference the post document can carry.
type MediaRepository struct {
	bucket *gridfs.Bucket
}

func NewMediaRepository(db *mongo.Database) (*MediaRepository, error) {
	bucket, err := gridfs.NewBucket(db)
	if err != nil {
		return nil, err
	}
	return &MediaRepository{bucket: bucket}, nil
}

// Store writes the image bytes and returns a "gridfs:<hex>/<filename>" ref.
func (r *MediaRepository) Store(data []byte, filename string) (string, error) {
	id, err := r.bucket.UploadFromStream(filename, bytes.NewReader(data))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("gridfs:%s/%s", id.Hex(), filename), nil
}

// Delete removes a stored image by its ObjectID hex.
func (r *MediaRepository) Delete(idHex string) error {
	id, err := primitive.ObjectIDFromHex(idHex)
	if err != nil {
		return err
	}
	return r.bucket.Delete(id)
}
