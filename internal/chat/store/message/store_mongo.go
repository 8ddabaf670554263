package message

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"chatguard/internal/chat/models"
	id "chatguard/pkg/domain"
	"chatguard/pkg/platform/sentinel"
)

const collection = "messages"

type MongoMessageStore struct {
	messages *mongo.Collection
}

func NewMongo(db *mongo.Database) *MongoMessageStore {
	return &MongoMessageStore{messages: db.Collection(collection)}
}

func (s *MongoMessageStore) EnsureIndexes(ctx context.Context) error {
	_, err := s.messages.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "chatId", Value: 1}, {Key: "deleted", Value: 1}, {Key: "_id", Value: 1}},
	})
	if err != nil {
		return fmt.Errorf("create message cascade index: %w", err)
	}
	return nil
}

func (s *MongoMessageStore) Create(ctx context.Context, m *models.Message) error {
	if _, err := s.messages.InsertOne(ctx, m); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return fmt.Errorf("create message %s: %w", m.ID, sentinel.ErrConflict)
		}
		return fmt.Errorf("create message %s: %w", m.ID, err)
	}
	return nil
}

func (s *MongoMessageStore) SoftDeleteBatch(ctx context.Context, chatID id.ChatID, after id.MessageID, limit int, at time.Time) (int, id.MessageID, error) {
	filter := bson.M{"chatId": chatID, "deleted": false}
	if !after.IsNil() {
		filter["_id"] = bson.M{"$gt": after}
	}
	opts := options.Find().
		SetSort(bson.D{{Key: "_id", Value: 1}}).
		SetLimit(int64(limit)).
		SetProjection(bson.M{"_id": 1})
	cur, err := s.messages.Find(ctx, filter, opts)
	if err != nil {
		return 0, after, fmt.Errorf("find message batch: %w", err)
	}
	var docs []struct {
		ID id.MessageID `bson:"_id"`
	}
	if err := cur.All(ctx, &docs); err != nil {
		return 0, after, fmt.Errorf("decode message batch: %w", err)
	}
	if len(docs) == 0 {
		return 0, after, nil
	}
	ids := make([]id.MessageID, len(docs))
	for i, d := range docs {
		ids[i] = d.ID
	}

	update := mongo.Pipeline{
		{{Key: "$set", Value: bson.M{
			"originalContent": "$content",
			"content":         "",
			"deleted":         true,
			"deletedAt":       at,
		}}},
	}
	res, err := s.messages.UpdateMany(ctx, bson.M{"_id": bson.M{"$in": ids}, "deleted": false}, update)
	if err != nil {
		return 0, after, fmt.Errorf("soft delete message batch: %w", err)
	}
	return int(res.ModifiedCount), ids[len(ids)-1], nil
}
