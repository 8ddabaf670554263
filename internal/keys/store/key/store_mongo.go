package key

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"chatguard/internal/keys/models"
	id "chatguard/pkg/domain"
	"chatguard/pkg/platform/sentinel"
)

const collection = "encryptionKeys"

type MongoKeyStore struct {
	keys *mongo.Collection
}

func NewMongo(db *mongo.Database) *MongoKeyStore {
	return &MongoKeyStore{keys: db.Collection(collection)}
}

// EnsureIndexes creates the (status, createdAt) index used by ListActive.
func (s *MongoKeyStore) EnsureIndexes(ctx context.Context) error {
	_, err := s.keys.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "status", Value: 1}, {Key: "createdAt", Value: -1}},
	})
	if err != nil {
		return fmt.Errorf("create encryption key index: %w", err)
	}
	return nil
}

func (s *MongoKeyStore) Create(ctx context.Context, k *models.EncryptionKey) error {
	if _, err := s.keys.InsertOne(ctx, k); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return fmt.Errorf("create key %s: %w", k.KeyID, sentinel.ErrConflict)
		}
		return fmt.Errorf("create key %s: %w", k.KeyID, err)
	}
	return nil
}

func (s *MongoKeyStore) ListActive(ctx context.Context) ([]*models.EncryptionKey, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}, {Key: "_id", Value: -1}})
	cur, err := s.keys.Find(ctx, bson.M{"status": models.KeyStatusActive}, opts)
	if err != nil {
		return nil, fmt.Errorf("list active keys: %w", err)
	}
	var out []*models.EncryptionKey
	if err := cur.All(ctx, &out); err != nil {
		return nil, fmt.Errorf("decode active keys: %w", err)
	}
	return out, nil
}

func (s *MongoKeyStore) FindByID(ctx context.Context, keyID id.KeyID) (*models.EncryptionKey, error) {
	var k models.EncryptionKey
	err := s.keys.FindOne(ctx, bson.M{"_id": keyID}).Decode(&k)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, fmt.Errorf("find key %s: %w", keyID, sentinel.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("find key %s: %w", keyID, err)
	}
	return &k, nil
}

// Deprecate only matches active keys, so concurrent rotations cannot
// overwrite an earlier deprecatedAt.
func (s *MongoKeyStore) Deprecate(ctx context.Context, keyID id.KeyID, at time.Time) (bool, error) {
	res, err := s.keys.UpdateOne(ctx,
		bson.M{"_id": keyID, "status": models.KeyStatusActive},
		bson.M{"$set": bson.M{"status": models.KeyStatusDeprecated, "deprecatedAt": at}},
	)
	if err != nil {
		return false, fmt.Errorf("deprecate key %s: %w", keyID, err)
	}
	return res.ModifiedCount == 1, nil
}
